package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store is the unit-of-work handle threaded through the workflow engines.
// Transaction yields a Store scoped to one database transaction; everything
// done through it commits or rolls back as a unit.
type Store interface {
	Orders() OrderRepository
	Products() ProductRepository
	History() HistoryRepository
	Transaction(ctx context.Context, fn func(Store) error) error
}

// GormStore implements Store over a *gorm.DB.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a Store backed by the given database handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Orders() OrderRepository     { return NewGormOrderRepository(s.db) }
func (s *GormStore) Products() ProductRepository { return NewGormProductRepository(s.db) }
func (s *GormStore) History() HistoryRepository  { return NewGormHistoryRepository(s.db) }

// Transaction runs fn inside one database transaction. The transaction rolls
// back in full if fn returns an error or the context is cancelled.
func (s *GormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
