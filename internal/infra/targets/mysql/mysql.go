package mysql

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	driver "github.com/go-sql-driver/mysql"
	"github.com/mmrzaf/coursegen/internal/infra/targets/sqlbase"
)

type MySQLTarget struct {
	*sqlbase.Target
	dsn string
}

func NewMySQLTarget(dsn string) *MySQLTarget {
	return &MySQLTarget{
		Target: sqlbase.New(sq.Question, nil),
		dsn:    dsn,
	}
}

// Connect parses the DSN first so malformed configs fail before dialing.
func (t *MySQLTarget) Connect(ctx context.Context) error {
	dsn, err := NormalizeDSN(t.dsn)
	if err != nil {
		return err
	}
	return t.Open(ctx, "mysql", dsn)
}

// NormalizeDSN validates a go-sql-driver DSN and enables parseTime and
// client-side parameter interpolation.
func NormalizeDSN(dsn string) (string, error) {
	cfg, err := driver.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid mysql dsn: %w", err)
	}
	if cfg.DBName == "" {
		return "", errors.New("invalid mysql dsn: database name is required")
	}
	cfg.ParseTime = true
	cfg.InterpolateParams = true
	return cfg.FormatDSN(), nil
}
