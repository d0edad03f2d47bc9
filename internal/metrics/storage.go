package metrics

import (
	"context"
	"errors"

	"github.com/aanand-mishra/persons-app/internal/storage"
	"github.com/aanand-mishra/persons-app/internal/types"
)

// Storage wraps a storage.Storage and counts every call in
// StoreOperations with result "ok", "not_found", "invalid_id" or "error".
type Storage struct {
	next storage.Storage
}

func InstrumentStorage(next storage.Storage) *Storage {
	return &Storage{next: next}
}

func observe(op string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotFound):
		result = "not_found"
	case errors.Is(err, storage.ErrInvalidID):
		result = "invalid_id"
	default:
		result = "error"
	}
	StoreOperations.WithLabelValues(op, result).Inc()
}

func (s *Storage) CreatePerson(ctx context.Context, p types.Person) (string, error) {
	id, err := s.next.CreatePerson(ctx, p)
	observe("create", err)
	return id, err
}

func (s *Storage) GetPersonByID(ctx context.Context, id string) (types.Person, error) {
	p, err := s.next.GetPersonByID(ctx, id)
	observe("get", err)
	return p, err
}

func (s *Storage) GetPersons(ctx context.Context) ([]types.Person, error) {
	list, err := s.next.GetPersons(ctx)
	observe("list", err)
	return list, err
}

func (s *Storage) UpdatePersonByID(ctx context.Context, id string, p types.Person) (storage.UpdateResult, error) {
	res, err := s.next.UpdatePersonByID(ctx, id, p)
	observe("update", err)
	return res, err
}

func (s *Storage) DeletePersonByID(ctx context.Context, id string) (int64, error) {
	n, err := s.next.DeletePersonByID(ctx, id)
	observe("delete", err)
	return n, err
}

func (s *Storage) Close(ctx context.Context) error {
	return s.next.Close(ctx)
}
