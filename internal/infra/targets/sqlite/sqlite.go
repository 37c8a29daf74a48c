package sqlite

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
	"github.com/mmrzaf/coursegen/internal/infra/targets/sqlbase"
)

type SQLiteTarget struct {
	*sqlbase.Target
	path string
}

func NewSQLiteTarget(path string) *SQLiteTarget {
	return &SQLiteTarget{
		Target: sqlbase.New(sq.Question, convert),
		path:   path,
	}
}

func (t *SQLiteTarget) Connect(ctx context.Context) error {
	if err := t.Open(ctx, "sqlite3", t.path); err != nil {
		return err
	}
	// One connection, so the pragma below holds for every statement.
	t.DB().SetMaxOpenConns(1)
	_, err := t.DB().ExecContext(ctx, "PRAGMA foreign_keys = ON")
	return err
}

// SQLite has no boolean or timestamp storage class.
func convert(v interface{}) interface{} {
	switch val := v.(type) {
	case time.Time:
		return val.Format(time.RFC3339)
	case bool:
		if val {
			return 1
		}
		return 0
	default:
		return v
	}
}
