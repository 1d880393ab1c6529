// Package config loads runtime configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime knob of the catalog service.
type Config struct {
	AppAddr   string `mapstructure:"APP_ADDR"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogPretty bool   `mapstructure:"LOG_PRETTY"`

	// Paging
	PageSize int `mapstructure:"PRODUCT_PER_PAGE"`

	// Document store
	MongoURI        string `mapstructure:"MONGO_URI"`
	MongoDatabase   string `mapstructure:"MONGO_DATABASE"`
	MongoCollection string `mapstructure:"MONGO_COLLECTION"`

	// Blob store
	S3Endpoint  string `mapstructure:"S3_ENDPOINT"`
	S3Region    string `mapstructure:"S3_REGION"`
	S3Bucket    string `mapstructure:"S3_BUCKET"`
	S3AccessKey string `mapstructure:"S3_ACCESS_KEY"`
	S3SecretKey string `mapstructure:"S3_SECRET_KEY"`
	S3UseSSL    bool   `mapstructure:"S3_USE_SSL"`
}

// String implements fmt.Stringer with secrets masked.
func (c *Config) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  AppAddr: %s\n", c.AppAddr))
	sb.WriteString(fmt.Sprintf("  LogLevel: %s\n", c.LogLevel))
	sb.WriteString(fmt.Sprintf("  LogPretty: %v\n", c.LogPretty))
	sb.WriteString(fmt.Sprintf("  PageSize: %d\n", c.PageSize))
	sb.WriteString(fmt.Sprintf("  MongoURI: %s\n", maskURI(c.MongoURI)))
	sb.WriteString(fmt.Sprintf("  MongoDatabase: %s\n", c.MongoDatabase))
	sb.WriteString(fmt.Sprintf("  MongoCollection: %s\n", c.MongoCollection))
	sb.WriteString(fmt.Sprintf("  S3Endpoint: %s\n", c.S3Endpoint))
	sb.WriteString(fmt.Sprintf("  S3Region: %s\n", c.S3Region))
	sb.WriteString(fmt.Sprintf("  S3Bucket: %s\n", c.S3Bucket))
	if c.S3AccessKey != "" {
		sb.WriteString("  S3AccessKey: ********\n")
	} else {
		sb.WriteString("  S3AccessKey: (empty)\n")
	}
	if c.S3SecretKey != "" {
		sb.WriteString("  S3SecretKey: ********\n")
	} else {
		sb.WriteString("  S3SecretKey: (empty)\n")
	}
	sb.WriteString(fmt.Sprintf("  S3UseSSL: %v\n", c.S3UseSSL))
	return sb.String()
}

// maskURI hides credentials embedded in a connection URI.
func maskURI(uri string) string {
	at := strings.LastIndex(uri, "@")
	if at < 0 {
		return uri
	}
	scheme := strings.Index(uri, "://")
	if scheme < 0 || scheme+3 > at {
		return uri
	}
	return uri[:scheme+3] + "********" + uri[at:]
}

// LoadFromEnv loads configuration from environment variables, reading a
// local .env first when one exists.
func LoadFromEnv() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, errors.New("failed to load .env")
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	keys := []string{
		"APP_ADDR", "LOG_LEVEL", "LOG_PRETTY", "PRODUCT_PER_PAGE",
		"MONGO_URI", "MONGO_DATABASE", "MONGO_COLLECTION",
		"S3_ENDPOINT", "S3_REGION", "S3_BUCKET",
		"S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_USE_SSL",
	}
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	v.SetDefault("APP_ADDR", ":8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PRODUCT_PER_PAGE", 8)
	v.SetDefault("MONGO_DATABASE", "catalog")
	v.SetDefault("MONGO_COLLECTION", "products")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}
