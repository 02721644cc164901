// Package store owns all relational reads and writes. The recommendation
// core never touches it directly; services hand the core catalog and
// progress snapshots loaded here.
package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

// Querier is the subset of pgxpool.Pool the stores need; pgxmock satisfies
// it in tests.
type Querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type Store struct {
	Users    *UserStore
	Courses  *CourseStore
	Progress *ProgressStore
	Chat     *ChatStore
	Metrics  *MetricStore
}

func New(db Querier, logger *logrus.Logger) *Store {
	return &Store{
		Users:    &UserStore{db: db, logger: logger},
		Courses:  &CourseStore{db: db, logger: logger},
		Progress: &ProgressStore{db: db, logger: logger},
		Chat:     &ChatStore{db: db, logger: logger},
		Metrics:  &MetricStore{db: db, logger: logger},
	}
}
