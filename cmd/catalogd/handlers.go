package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/storebase/catalog/pkg/catalog"
	"github.com/storebase/catalog/pkg/logging"
	"github.com/storebase/catalog/pkg/query"
)

const maxUploadBytes = 32 << 20 // 32 MiB multipart limit

var httpLogger = logging.NewLogger("http")

func newMux(svc *catalog.Service) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /products/latest", handleLatest(svc))
	mux.HandleFunc("GET /products/categories", handleCategories(svc))
	mux.HandleFunc("GET /products/search", handleSearch(svc))
	mux.HandleFunc("GET /products/{id}", handleProduct(svc))
	mux.HandleFunc("GET /admin/products", handleAdminProducts(svc))

	mux.HandleFunc("POST /products", handleCreate(svc))
	mux.HandleFunc("PUT /products/{id}", handleUpdate(svc))
	mux.HandleFunc("DELETE /products/{id}", handleDelete(svc))

	return mux
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

func handleLatest(svc *catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.Latest(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, products)
	}
}

func handleCategories(svc *catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.Categories(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, categories)
	}
}

func handleSearch(svc *catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		res, err := svc.Search(r.Context(), query.Params{
			Search:   q.Get("search"),
			Price:    q.Get("price"),
			Category: q.Get("category"),
			Sort:     q.Get("sort"),
			Page:     q.Get("page"),
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func handleProduct(svc *catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid product id"})
			return
		}
		p, err := svc.Product(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func handleAdminProducts(svc *catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.AdminProducts(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, products)
	}
}

func handleCreate(svc *catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid multipart form"})
			return
		}
		price, _ := strconv.ParseFloat(r.FormValue("price"), 64)
		stock, _ := strconv.ParseInt(r.FormValue("stock"), 10, 64)

		photoPath, err := stagePhoto(r)
		if err != nil && err != http.ErrMissingFile {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid photo upload"})
			return
		}

		created, err := svc.Create(r.Context(), catalog.CreateParams{
			Name:      r.FormValue("name"),
			Category:  r.FormValue("category"),
			Price:     price,
			Stock:     stock,
			PhotoPath: photoPath,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func handleUpdate(svc *catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid product id"})
			return
		}
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid multipart form"})
			return
		}

		var params catalog.UpdateParams
		if v := r.FormValue("name"); r.Form.Has("name") {
			params.Name = &v
		}
		if v := r.FormValue("category"); r.Form.Has("category") {
			params.Category = &v
		}
		if r.Form.Has("price") {
			price, err := strconv.ParseFloat(r.FormValue("price"), 64)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid price"})
				return
			}
			params.Price = &price
		}
		if r.Form.Has("stock") {
			stock, err := strconv.ParseInt(r.FormValue("stock"), 10, 64)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid stock"})
				return
			}
			params.Stock = &stock
		}

		photoPath, err := stagePhoto(r)
		if err != nil && err != http.ErrMissingFile {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid photo upload"})
			return
		}
		params.PhotoPath = photoPath

		updated, err := svc.Update(r.Context(), id, params)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func handleDelete(svc *catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid product id"})
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// stagePhoto copies an uploaded "photo" form file to a temp file and
// returns its path. The catalog service removes the staged file once the
// write path reaches a terminal outcome. Returns http.ErrMissingFile when
// no photo was sent.
func stagePhoto(r *http.Request) (string, error) {
	file, header, err := r.FormFile("photo")
	if err != nil {
		return "", err
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "catalog-photo-*"+filepath.Ext(header.Filename))
	if err != nil {
		return "", err
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, file); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		httpLogger.Error().Err(err).Msg("failed to write response")
	}
}

// writeError maps catalog error kinds to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch catalog.ErrorKind(err) {
	case catalog.KindValidation:
		status = http.StatusBadRequest
	case catalog.KindNotFound:
		status = http.StatusNotFound
	case catalog.KindUpload:
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		httpLogger.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}
