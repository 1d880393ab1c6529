package catalog

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/storebase/catalog/pkg/store"
)

// CreateParams are the inputs of a product creation. PhotoPath points at
// the locally staged upload; Create owns its removal on every terminal
// outcome.
type CreateParams struct {
	Name      string
	Category  string
	Price     float64
	Stock     int64
	PhotoPath string
}

// UpdateParams are the inputs of a partial product update. Nil fields are
// left untouched; an empty PhotoPath means the photo is unchanged.
type UpdateParams struct {
	Name      *string
	Category  *string
	Price     *float64
	Stock     *int64
	PhotoPath string
}

// Create validates the input, uploads the photo, persists the product, and
// invalidates the list caches. The persistent write and the upload complete
// before invalidation, and invalidation completes before Create returns.
func (s *Service) Create(ctx context.Context, p CreateParams) (created store.Product, err error) {
	defer func(start time.Time) { observeOp("create", time.Since(start).Seconds(), err) }(time.Now())

	if p.PhotoPath == "" {
		return store.Product{}, validationError("photo is required")
	}
	if p.Name == "" || p.Category == "" || p.Price <= 0 || p.Stock <= 0 {
		// The staged file is already on disk; clean it up even though the
		// request fails.
		s.removeStaged(p.PhotoPath)
		return store.Product{}, validationError("name, category, price and stock are required")
	}

	url, err := s.blob.Upload(ctx, p.PhotoPath)
	if err != nil {
		s.removeStaged(p.PhotoPath)
		return store.Product{}, uploadError(err)
	}
	s.removeStaged(p.PhotoPath)

	now := time.Now().UTC()
	product := store.Product{
		ID:        uuid.New(),
		Name:      p.Name,
		Category:  strings.ToLower(p.Category),
		Price:     p.Price,
		Stock:     p.Stock,
		Photo:     url,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err = s.store.Create(ctx, product)
	if err != nil {
		return store.Product{}, storeError("create product", err)
	}

	// Nothing is cached yet under the new id, so only the lists are stale.
	s.Invalidate(Invalidation{Product: true, Admin: true})

	s.logger.Info().
		Str("id", created.ID.String()).
		Str("category", created.Category).
		Msg("Product created")
	return created, nil
}

// Update overwrites only the supplied fields of an existing product, then
// invalidates the id-keyed entry and the list caches. A new photo releases
// the previous blob best-effort; a release failure never blocks the update.
func (s *Service) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (updated store.Product, err error) {
	defer func(start time.Time) { observeOp("update", time.Since(start).Seconds(), err) }(time.Now())

	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return store.Product{}, storeError(id.String(), err)
	}

	var u store.Update
	if p.PhotoPath != "" {
		if existing.Photo != "" {
			if derr := s.blob.Delete(ctx, existing.Photo); derr != nil {
				s.logger.Warn().Err(derr).
					Str("id", id.String()).
					Str("photo", existing.Photo).
					Msg("Failed to release old photo")
			}
		}
		url, uerr := s.blob.Upload(ctx, p.PhotoPath)
		if uerr != nil {
			s.removeStaged(p.PhotoPath)
			return store.Product{}, uploadError(uerr)
		}
		s.removeStaged(p.PhotoPath)
		u.Photo = &url
	}
	u.Name = p.Name
	if p.Category != nil {
		lc := strings.ToLower(*p.Category)
		u.Category = &lc
	}
	u.Price = p.Price
	u.Stock = p.Stock

	updated, err = s.store.UpdateByID(ctx, id, u)
	if err != nil {
		return store.Product{}, storeError(id.String(), err)
	}

	s.Invalidate(Invalidation{Product: true, Admin: true, ProductID: id.String()})

	s.logger.Info().Str("id", id.String()).Msg("Product updated")
	return updated, nil
}

// Delete releases the product's photo, removes the document, and
// invalidates the id-keyed entry and the list caches.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer func(start time.Time) { observeOp("delete", time.Since(start).Seconds(), err) }(time.Now())

	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return storeError(id.String(), err)
	}

	if existing.Photo != "" {
		if derr := s.blob.Delete(ctx, existing.Photo); derr != nil {
			s.logger.Warn().Err(derr).
				Str("id", id.String()).
				Str("photo", existing.Photo).
				Msg("Failed to release photo")
		}
	}

	if err = s.store.DeleteByID(ctx, id); err != nil {
		return storeError(id.String(), err)
	}

	s.Invalidate(Invalidation{Product: true, Admin: true, ProductID: id.String()})

	s.logger.Info().Str("id", id.String()).Msg("Product deleted")
	return nil
}

// removeStaged removes a locally staged upload. Failure is logged and
// swallowed; it must never mask the outcome of the request that staged it.
func (s *Service) removeStaged(path string) {
	if err := os.Remove(path); err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("Failed to remove staged file")
		return
	}
	s.logger.Debug().Str("path", path).Msg("Staged file removed")
}
