package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"appliance-alerts-backend/internal/entity"
	"appliance-alerts-backend/internal/errs"
	"appliance-alerts-backend/internal/model"
)

// Repository is the CRUD contract for one collection of entities.
type Repository[T entity.Entity] struct {
	api        *APIClient
	collection string
	decode     entity.Decoder[T]
}

// NewRepository binds a collection path such as "/appliances" to its decoder.
func NewRepository[T entity.Entity](api *APIClient, collection string, decode entity.Decoder[T]) *Repository[T] {
	return &Repository[T]{api: api, collection: collection, decode: decode}
}

// NewUserRepository returns the repository for /users.
func NewUserRepository(api *APIClient) *Repository[*model.User] {
	return NewRepository[*model.User](api, "/users", model.UserFromJSON)
}

func (r *Repository[T]) itemPath(id int64) string {
	return fmt.Sprintf("%s/%d", r.collection, id)
}

func (r *Repository[T]) one(raw []byte) (T, error) {
	var zero T
	p, err := decodeObject(raw)
	if err != nil {
		return zero, err
	}
	v, err := r.decode(p)
	if err != nil {
		return zero, &errs.TransportError{Err: fmt.Errorf("failed to decode %s item: %w", r.collection, err)}
	}
	return v, nil
}

func (r *Repository[T]) many(raw []byte) ([]T, error) {
	ps, err := decodeArray(raw)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(ps))
	for _, p := range ps {
		v, err := r.decode(p)
		if err != nil {
			return nil, &errs.TransportError{Err: fmt.Errorf("failed to decode %s item: %w", r.collection, err)}
		}
		out = append(out, v)
	}
	return out, nil
}

// List fetches the whole collection.
func (r *Repository[T]) List(ctx context.Context) ([]T, error) {
	raw, err := r.api.do(ctx, http.MethodGet, r.collection, nil, nil)
	if err != nil {
		return nil, err
	}
	return r.many(raw)
}

// Get fetches one entity.
func (r *Repository[T]) Get(ctx context.Context, id int64) (T, error) {
	raw, err := r.api.do(ctx, http.MethodGet, r.itemPath(id), nil, nil)
	if err != nil {
		var zero T
		return zero, err
	}
	return r.one(raw)
}

// Create validates v locally and, only if it is valid, sends it. The result is
// a new value decoded from the server's answer; v is not modified.
func (r *Repository[T]) Create(ctx context.Context, v T) (T, error) {
	var zero T
	if err := errs.NewValidationError(v.Validate()); err != nil {
		return zero, err
	}
	raw, err := r.api.do(ctx, http.MethodPost, r.collection, nil, v.ToPayload())
	if err != nil {
		return zero, err
	}
	return r.one(raw)
}

// Update sends patch's payload as a partial update. Partial entities are not
// validated here; the server validates the merged result.
func (r *Repository[T]) Update(ctx context.Context, id int64, patch T) (T, error) {
	return r.Patch(ctx, id, patch.ToPayload())
}

// Patch sends raw fields as a partial update. A nil value clears the field.
func (r *Repository[T]) Patch(ctx context.Context, id int64, fields entity.Payload) (T, error) {
	raw, err := r.api.do(ctx, http.MethodPatch, r.itemPath(id), nil, fields)
	if err != nil {
		var zero T
		return zero, err
	}
	return r.one(raw)
}

// Delete removes one entity. Cached listings are the caller's to refresh.
func (r *Repository[T]) Delete(ctx context.Context, id int64) error {
	_, err := r.api.do(ctx, http.MethodDelete, r.itemPath(id), nil, nil)
	return err
}

func (r *Repository[T]) post(ctx context.Context, path string, query url.Values) (T, error) {
	raw, err := r.api.do(ctx, http.MethodPost, path, query, nil)
	if err != nil {
		var zero T
		return zero, err
	}
	return r.one(raw)
}
