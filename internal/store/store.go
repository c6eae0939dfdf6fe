// Package store is the relational repository shared by the content,
// engagement and feed services. A Store either wraps the connection pool or
// a single transaction; methods behave the same on both.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNoPool is returned by batched readers called on a transaction store.
var ErrNoPool = errors.New("store: batched reads need the pool handle")

type Store struct {
	db *gorm.DB
	x  *sqlx.DB
}

// New wraps the gorm pool and the sqlx view of the same pool.
func New(db *gorm.DB, x *sqlx.DB) *Store {
	return &Store{db: db, x: x}
}

// WithTx runs fn inside one transaction. fn must only use the Store it is
// handed; returning an error rolls everything back.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// InTx reports whether the store is bound to a transaction.
func (s *Store) InTx() bool {
	return s.x == nil
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s *Store) create(ctx context.Context, value interface{}) error {
	return s.conn(ctx).Omit(clause.Associations).Create(value).Error
}

func (s *Store) save(ctx context.Context, value interface{}) error {
	return s.conn(ctx).Omit(clause.Associations).Save(value).Error
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
