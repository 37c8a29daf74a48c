package sqlbase

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockTarget(t *testing.T, ph sq.PlaceholderFormat) (*Target, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	tgt := New(ph, nil)
	tgt.Attach(db)
	return tgt, mock
}

func TestInsertBatchDollar(t *testing.T) {
	tgt, mock := mockTarget(t, sq.Dollar)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO course (cnum,cname) VALUES ($1,$2),($3,$4)")).
		WithArgs("CS348", "Intro", "CS240", "Data").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := tgt.InsertBatch(context.Background(), "course", []string{"cnum", "cname"},
		[][]interface{}{{"CS348", "Intro"}, {"CS240", "Data"}})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertBatchRollsBackOnError(t *testing.T) {
	tgt, mock := mockTarget(t, sq.Question)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO student (snum) VALUES (?)")).
		WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	err := tgt.InsertBatch(context.Background(), "student", []string{"snum"}, [][]interface{}{{1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert student")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertBatchConvertsValues(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	tgt := New(sq.Question, func(v interface{}) interface{} {
		if b, ok := v.(bool); ok && b {
			return 1
		}
		return v
	})
	tgt.Attach(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO flag").WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	require.NoError(t, tgt.InsertBatch(context.Background(), "flag", []string{"on"}, [][]interface{}{{true}}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertBatchRejectsShortRow(t *testing.T) {
	tgt, _ := mockTarget(t, sq.Question)
	err := tgt.InsertBatch(context.Background(), "t", []string{"a", "b"}, [][]interface{}{{1}})
	assert.Error(t, err)
}

func TestDDL(t *testing.T) {
	tgt, mock := mockTarget(t, sq.Dollar)
	mock.ExpectExec(regexp.QuoteMeta("DROP TABLE IF EXISTS mark")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE mark (snum integer not null)")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM mark")).WillReturnResult(sqlmock.NewResult(0, 0))

	ctx := context.Background()
	require.NoError(t, tgt.DropTable(ctx, "mark"))
	require.NoError(t, tgt.CreateTable(ctx, "mark", "snum integer not null"))
	require.NoError(t, tgt.TruncateTable(ctx, "mark"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNotConnected(t *testing.T) {
	tgt := New(sq.Question, nil)
	assert.ErrorIs(t, tgt.DropTable(context.Background(), "x"), ErrNotConnected)
	assert.ErrorIs(t, tgt.InsertBatch(context.Background(), "x", []string{"a"}, [][]interface{}{{1}}), ErrNotConnected)
	assert.NoError(t, tgt.Close())
}
