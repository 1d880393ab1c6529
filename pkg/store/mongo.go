package store

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	mopt "go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo is a Client backed by a MongoDB collection. Transient failures are
// retried with exponential backoff; Not-Found is surfaced immediately.
type Mongo struct {
	coll   *mongo.Collection
	retry  RetryConfig
	logger zerolog.Logger
}

// NewMongo creates a Mongo store client on the given collection.
func NewMongo(coll *mongo.Collection, retry RetryConfig) *Mongo {
	if coll == nil {
		panic("mongo collection cannot be nil")
	}
	return &Mongo{
		coll:   coll,
		retry:  retry,
		logger: log.With().Str("component", "store-mongo").Logger(),
	}
}

// productDoc is the wire form of Product. The id is stored as its canonical
// string so no driver codec registry is needed for uuid values.
type productDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Category  string    `bson:"category"`
	Price     float64   `bson:"price"`
	Stock     int64     `bson:"stock"`
	Photo     string    `bson:"photo"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toDoc(p Product) productDoc {
	return productDoc{
		ID:        p.ID.String(),
		Name:      p.Name,
		Category:  p.Category,
		Price:     p.Price,
		Stock:     p.Stock,
		Photo:     p.Photo,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func fromDoc(d productDoc) (Product, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return Product{}, fmt.Errorf("malformed product id %q: %w", d.ID, err)
	}
	return Product{
		ID:        id,
		Name:      d.Name,
		Category:  d.Category,
		Price:     d.Price,
		Stock:     d.Stock,
		Photo:     d.Photo,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

// filterToQuery translates a Filter into a MongoDB query document. Search
// text is quoted before entering the regex so user input can never change
// the query structure.
func filterToQuery(f Filter) bson.M {
	q := bson.M{}
	if f.Search != "" {
		q["name"] = bson.M{"$regex": regexp.QuoteMeta(f.Search), "$options": "i"}
	}
	if f.MaxPrice != nil {
		q["price"] = bson.M{"$lte": *f.MaxPrice}
	}
	if f.Category != "" {
		q["category"] = f.Category
	}
	return q
}

// sortToDoc translates a Sort into a MongoDB sort document. Nil means the
// store's default order.
func sortToDoc(s Sort) bson.D {
	switch s {
	case SortPriceAsc:
		return bson.D{{Key: "price", Value: 1}}
	case SortPriceDesc:
		return bson.D{{Key: "price", Value: -1}}
	case SortCreatedDesc:
		return bson.D{{Key: "created_at", Value: -1}}
	default:
		return nil
	}
}

// FindByID implements Client.
func (m *Mongo) FindByID(ctx context.Context, id uuid.UUID) (Product, error) {
	var p Product
	err := retryWithBackoff(ctx, m.retry, func() error {
		var d productDoc
		if err := m.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&d); err != nil {
			if err == mongo.ErrNoDocuments {
				return ErrNotFound
			}
			return fmt.Errorf("mongo find one: %w", err)
		}
		var convErr error
		p, convErr = fromDoc(d)
		return convErr
	})
	return p, err
}

// Find implements Client.
func (m *Mongo) Find(ctx context.Context, f Filter, opts FindOptions) ([]Product, error) {
	findOpts := mopt.Find()
	if s := sortToDoc(opts.Sort); s != nil {
		findOpts.SetSort(s)
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}
	if opts.Skip > 0 {
		findOpts.SetSkip(opts.Skip)
	}

	var products []Product
	err := retryWithBackoff(ctx, m.retry, func() error {
		cur, err := m.coll.Find(ctx, filterToQuery(f), findOpts)
		if err != nil {
			return fmt.Errorf("mongo find: %w", err)
		}
		defer cur.Close(ctx)

		var docs []productDoc
		if err := cur.All(ctx, &docs); err != nil {
			return fmt.Errorf("mongo cursor: %w", err)
		}

		products = make([]Product, 0, len(docs))
		for _, d := range docs {
			p, err := fromDoc(d)
			if err != nil {
				return err
			}
			products = append(products, p)
		}
		return nil
	})
	return products, err
}

// Distinct implements Client. Values are returned sorted for determinism.
func (m *Mongo) Distinct(ctx context.Context, field string) ([]string, error) {
	var values []string
	err := retryWithBackoff(ctx, m.retry, func() error {
		raw, err := m.coll.Distinct(ctx, field, bson.M{})
		if err != nil {
			return fmt.Errorf("mongo distinct: %w", err)
		}
		values = make([]string, 0, len(raw))
		for _, v := range raw {
			if s, ok := v.(string); ok {
				values = append(values, s)
			}
		}
		sort.Strings(values)
		return nil
	})
	return values, err
}

// Create implements Client.
func (m *Mongo) Create(ctx context.Context, p Product) (Product, error) {
	err := retryWithBackoff(ctx, m.retry, func() error {
		if _, err := m.coll.InsertOne(ctx, toDoc(p)); err != nil {
			// A duplicate key on retry means the first attempt landed.
			if mongo.IsDuplicateKeyError(err) {
				return nil
			}
			return fmt.Errorf("mongo insert: %w", err)
		}
		return nil
	})
	if err != nil {
		return Product{}, err
	}
	m.logger.Debug().Str("id", p.ID.String()).Msg("Product created")
	return p, nil
}

// UpdateByID implements Client. Returns the post-update document.
func (m *Mongo) UpdateByID(ctx context.Context, id uuid.UUID, u Update) (Product, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Category != nil {
		set["category"] = *u.Category
	}
	if u.Price != nil {
		set["price"] = *u.Price
	}
	if u.Stock != nil {
		set["stock"] = *u.Stock
	}
	if u.Photo != nil {
		set["photo"] = *u.Photo
	}

	after := mopt.After
	findOpts := &mopt.FindOneAndUpdateOptions{ReturnDocument: &after}

	var p Product
	err := retryWithBackoff(ctx, m.retry, func() error {
		var d productDoc
		err := m.coll.FindOneAndUpdate(ctx,
			bson.M{"_id": id.String()},
			bson.M{"$set": set},
			findOpts,
		).Decode(&d)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return ErrNotFound
			}
			return fmt.Errorf("mongo find and update: %w", err)
		}
		var convErr error
		p, convErr = fromDoc(d)
		return convErr
	})
	return p, err
}

// DeleteByID implements Client.
func (m *Mongo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return retryWithBackoff(ctx, m.retry, func() error {
		res, err := m.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
		if err != nil {
			return fmt.Errorf("mongo delete: %w", err)
		}
		if res.DeletedCount == 0 {
			return ErrNotFound
		}
		return nil
	})
}
