package postgres

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	"github.com/mmrzaf/coursegen/internal/infra/targets/sqlbase"
)

type PostgresTarget struct {
	*sqlbase.Target
	dsn string
}

func NewPostgresTarget(dsn string) *PostgresTarget {
	return &PostgresTarget{
		Target: sqlbase.New(sq.Dollar, nil),
		dsn:    dsn,
	}
}

func (t *PostgresTarget) Connect(ctx context.Context) error {
	return t.Open(ctx, "postgres", t.dsn)
}
