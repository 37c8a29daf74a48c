// Package sqlbase holds the statements shared by the database targets.
// Each driver package supplies the connection and placeholder style.
package sqlbase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

var ErrNotConnected = errors.New("target is not connected")

type Target struct {
	db          *sql.DB
	placeholder sq.PlaceholderFormat
	// convert, when set, rewrites each value before it is bound.
	convert func(interface{}) interface{}
}

func New(placeholder sq.PlaceholderFormat, convert func(interface{}) interface{}) *Target {
	return &Target{placeholder: placeholder, convert: convert}
}

// Attach sets the connection. Used by Connect and by tests with a mock db.
func (t *Target) Attach(db *sql.DB) {
	t.db = db
}

func (t *Target) DB() *sql.DB {
	return t.db
}

// Open opens and pings a connection for driver.
func (t *Target) Open(ctx context.Context, driver, dsn string) error {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	t.db = db
	return nil
}

func (t *Target) Close() error {
	if t.db != nil {
		err := t.db.Close()
		t.db = nil
		return err
	}
	return nil
}

func (t *Target) exec(ctx context.Context, query string, args ...interface{}) error {
	if t.db == nil {
		return ErrNotConnected
	}
	_, err := t.db.ExecContext(ctx, query, args...)
	return err
}

func (t *Target) DropTable(ctx context.Context, name string) error {
	return t.exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", name))
}

// CreateTable issues "CREATE TABLE name (schema)" with the column and
// constraint list taken verbatim from the table.
func (t *Target) CreateTable(ctx context.Context, name, schema string) error {
	return t.exec(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", name, schema))
}

func (t *Target) TruncateTable(ctx context.Context, name string) error {
	q, args, err := sq.Delete(name).PlaceholderFormat(t.placeholder).ToSql()
	if err != nil {
		return err
	}
	return t.exec(ctx, q, args...)
}

// InsertBatch writes rows as one multi-row INSERT inside a transaction.
func (t *Target) InsertBatch(ctx context.Context, name string, columns []string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}
	if t.db == nil {
		return ErrNotConnected
	}

	b := sq.Insert(name).Columns(columns...).PlaceholderFormat(t.placeholder)
	for _, row := range rows {
		if len(row) != len(columns) {
			return fmt.Errorf("insert %s: row has %d values for %d columns", name, len(row), len(columns))
		}
		vals := row
		if t.convert != nil {
			vals = make([]interface{}, len(row))
			for i, v := range row {
				vals[i] = t.convert(v)
			}
		}
		b = b.Values(vals...)
	}
	q, args, err := b.ToSql()
	if err != nil {
		return err
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("insert %s: %w", name, err)
	}
	return tx.Commit()
}
