package exec

import (
	"context"
	"fmt"
	"time"

	"github.com/mmrzaf/coursegen/internal/domain"
	"github.com/mmrzaf/coursegen/internal/logging"
	"github.com/mmrzaf/coursegen/internal/table"
)

type Target interface {
	Connect(ctx context.Context) error
	Close() error
	DropTable(ctx context.Context, name string) error
	CreateTable(ctx context.Context, name, schema string) error
	TruncateTable(ctx context.Context, name string) error
	InsertBatch(ctx context.Context, name string, columns []string, rows [][]interface{}) error
}

const DefaultBatchSize = 500

// Loader copies finished tables into a database target.
type Loader struct {
	batchSize int
	log       *logging.Logger
}

func NewLoader(batchSize int, log *logging.Logger) *Loader {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Loader{batchSize: batchSize, log: log.WithComponent("loader")}
}

// Load connects, prepares the tables according to mode and inserts every
// row. Tables are expected in dependency order: clearing runs in reverse
// so referencing tables go first.
func (l *Loader) Load(ctx context.Context, target Target, tables []*table.Table, mode string) (int64, error) {
	if err := target.Connect(ctx); err != nil {
		return 0, fmt.Errorf("failed to connect to target: %w", err)
	}
	defer target.Close()

	switch mode {
	case domain.LoadModeRecreate:
		for i := len(tables) - 1; i >= 0; i-- {
			if err := target.DropTable(ctx, tables[i].Name()); err != nil {
				return 0, fmt.Errorf("failed to drop table '%s': %w", tables[i].Name(), err)
			}
		}
		for _, t := range tables {
			if err := target.CreateTable(ctx, t.Name(), t.Schema()); err != nil {
				return 0, fmt.Errorf("failed to create table '%s': %w", t.Name(), err)
			}
		}
	case domain.LoadModeTruncate:
		for i := len(tables) - 1; i >= 0; i-- {
			if err := target.TruncateTable(ctx, tables[i].Name()); err != nil {
				return 0, fmt.Errorf("failed to truncate table '%s': %w", tables[i].Name(), err)
			}
		}
	case domain.LoadModeAppend:
	default:
		return 0, fmt.Errorf("unknown load mode: %s", mode)
	}

	var total int64
	for _, t := range tables {
		start := time.Now()
		n, err := l.insertTable(ctx, target, t)
		total += n
		if err != nil {
			return total, err
		}
		l.log.Debugw("table.loaded", map[string]any{
			"table":    t.Name(),
			"rows":     n,
			"duration": time.Since(start).String(),
		})
	}
	return total, nil
}

func (l *Loader) insertTable(ctx context.Context, target Target, t *table.Table) (int64, error) {
	columns := t.Columns()
	rows := t.Rows()

	var n int64
	for start := 0; start < len(rows); start += l.batchSize {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		end := min(start+l.batchSize, len(rows))
		if err := target.InsertBatch(ctx, t.Name(), columns, rows[start:end]); err != nil {
			return n, fmt.Errorf("failed to insert batch for table '%s': %w", t.Name(), err)
		}
		n += int64(end - start)
	}
	return n, nil
}
