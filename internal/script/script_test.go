package script

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mmrzaf/coursegen/internal/generators"
	"github.com/mmrzaf/coursegen/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteBlocksInOrder(t *testing.T) {
	a := table.New("a", "id integer", generators.Index("id"))
	require.NoError(t, a.Generate(2))
	b := table.New("b", "name varchar(5)", generators.Index("id"))
	require.NoError(t, b.Generate(1))

	var buf bytes.Buffer
	n, err := Write(&buf, []*table.Table{a, b}, Options{Database: "cs348"})
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	want := strings.Join([]string{
		"connect to cs348",
		"drop table a",
		"create table a ( id integer)",
		"insert into a values (1)",
		"insert into a values (2)",
		"drop table b",
		"create table b ( name varchar(5))",
		"insert into b values (1)",
		"commit work",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestWriteWithoutTables(t *testing.T) {
	var buf bytes.Buffer
	_, err := Write(&buf, nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, "commit work\n", buf.String())
}
