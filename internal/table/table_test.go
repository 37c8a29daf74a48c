package table

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/mmrzaf/coursegen/internal/generators"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shortField struct{}

func (shortField) Columns() []string               { return []string{"a", "b"} }
func (shortField) Produce() ([]interface{}, error) { return []interface{}{1}, nil }

type constField struct {
	column string
	value  interface{}
}

func (f constField) Columns() []string               { return []string{f.column} }
func (f constField) Produce() ([]interface{}, error) { return []interface{}{f.value}, nil }

func newRng() *rand.Rand {
	return rand.New(rand.NewSource(7))
}

func TestGenerateRowIndexAndRandNum(t *testing.T) {
	tbl := New("t", "id integer, n integer", generators.Index("id"), generators.RandNum(newRng(), 1, 5, "n"))
	require.NoError(t, tbl.Generate(3))
	require.Equal(t, 3, tbl.Len())

	for i, e := range tbl.Entries() {
		assert.Equal(t, i+1, e.Value("id"))
		n := e.Value("n").(int)
		assert.True(t, n >= 1 && n <= 4, "n out of range: %d", n)
		assert.Same(t, tbl, e.Table())
	}
}

func TestGenerateRowRejectsCardinalityMismatch(t *testing.T) {
	tbl := New("t", "", shortField{})
	_, err := tbl.GenerateRow()
	require.ErrorIs(t, err, ErrColumnMismatch)
	assert.Equal(t, 0, tbl.Len())
}

func TestGenerateRowPropagatesEmptySource(t *testing.T) {
	upstream := New("up", "")
	tbl := New("down", "", generators.TableSampler(newRng(), upstream, "id"))
	err := tbl.Generate(1)
	require.ErrorIs(t, err, generators.ErrEmptySource)
}

func TestGenerateRowLaterFieldWinsOnCollision(t *testing.T) {
	tbl := New("t", "", constField{"x", 1}, constField{"x", 2})
	e, err := tbl.GenerateRow()
	require.NoError(t, err)
	assert.Equal(t, 2, e.Value("x"))
}

func TestColumnsFollowFieldOrder(t *testing.T) {
	tbl := New("enrollment", "",
		generators.Index("snum"),
		generators.TableSampler(newRng(), New("class", ""), "cnum", "term", "section"),
	)
	assert.Equal(t, []string{"snum", "cnum", "term", "section"}, tbl.Columns())
}

func TestSamplerOverTableProjectsRealRows(t *testing.T) {
	a := New("a", "")
	a.AddRow(map[string]interface{}{"id": 7})
	f := generators.TableSampler(newRng(), a, "id")
	for i := 0; i < 20; i++ {
		vals, err := f.Produce()
		require.NoError(t, err)
		assert.Equal(t, []interface{}{7}, vals)
	}
}

func TestPrimaryKeyUniqueSortedIdempotent(t *testing.T) {
	tbl := New("t", "", generators.RandNum(newRng(), 0, 10, "k"), generators.Index("seq"))
	require.NoError(t, tbl.Generate(200))

	removed := tbl.PrimaryKey("k")
	assert.Equal(t, 200-tbl.Len(), removed)
	assert.LessOrEqual(t, tbl.Len(), 10)

	for i := 1; i < tbl.Len(); i++ {
		prev := tbl.Entries()[i-1].Value("k").(int)
		cur := tbl.Entries()[i].Value("k").(int)
		assert.Less(t, prev, cur)
	}

	once := append([]*Entry(nil), tbl.Entries()...)
	assert.Equal(t, 0, tbl.PrimaryKey("k"))
	assert.Equal(t, once, tbl.Entries())
}

func TestPrimaryKeyKeepsFirstSeen(t *testing.T) {
	tbl := New("course", "", generators.Combinator(newRng(), "cnum", []string{"CS348", "MA101"}), constField{"cname", "generated"})
	seed := tbl.AddRow(map[string]interface{}{"cnum": "CS348", "cname": "Introduction to Databases"})
	require.NoError(t, tbl.Generate(40))

	tbl.PrimaryKey("cnum")
	require.Equal(t, 2, tbl.Len())
	assert.Same(t, seed, tbl.Entries()[0])
	assert.Equal(t, "MA101", tbl.Entries()[1].Value("cnum"))
}

func TestPrimaryKeyTupleOrdering(t *testing.T) {
	tbl := New("class", "")
	tbl.AddRow(map[string]interface{}{"cnum": "MA101", "term": "F2007", "section": 2})
	tbl.AddRow(map[string]interface{}{"cnum": "CS348", "term": "W2008", "section": 1})
	tbl.AddRow(map[string]interface{}{"cnum": "CS348", "term": "F2011", "section": 10})
	tbl.AddRow(map[string]interface{}{"cnum": "CS348", "term": "F2011", "section": 9})
	tbl.AddRow(map[string]interface{}{"cnum": "CS348", "term": "F2011", "section": 9})

	tbl.PrimaryKey("cnum", "term", "section")
	var got []string
	for _, e := range tbl.Entries() {
		got = append(got, Literal(e.Value("cnum"))+Literal(e.Value("term"))+Literal(e.Value("section")))
	}
	assert.Equal(t, []string{
		"'CS348''F2011'9",
		"'CS348''F2011'10",
		"'CS348''W2008'1",
		"'MA101''F2007'2",
	}, got)
}

func TestCompare(t *testing.T) {
	assert.Equal(t, -1, Compare(2, 10))
	assert.Equal(t, 0, Compare(int64(3), 3))
	assert.Equal(t, 1, Compare(2.5, 2))
	assert.Equal(t, -1, Compare("10", "9"))
	assert.Equal(t, -1, Compare(nil, 0))
	assert.Equal(t, -1, Compare(99, "a"))
	assert.Equal(t, -1, CompareTuples([]interface{}{"a"}, []interface{}{"a", 1}))
}

func TestCompareLargeUnsigned(t *testing.T) {
	big := uint64(math.MaxUint64)
	assert.Equal(t, 1, Compare(big, 0))
	assert.Equal(t, -1, Compare(int64(math.MaxInt64), big))
	assert.Equal(t, -1, Compare(big-1, big))
	assert.Equal(t, 0, Compare(big, big))
	assert.Equal(t, 1, Compare(big, -1.5))
	assert.Equal(t, 1, Compare(uint(7), 3))
}

func TestSerializeShape(t *testing.T) {
	tbl := New("course", "cnum varchar(5) not null,\ncname varchar(40) not null,\nprimary key (cnum)",
		generators.Combinator(newRng(), "cnum", []string{"CS101"}),
		constField{"cname", "Intro"},
	)
	tbl.AddRow(map[string]interface{}{"cname": "Introduction to Databases", "cnum": "CS348"})
	require.NoError(t, tbl.Generate(2))

	out := tbl.Serialize(SerializeOptions{})
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 2+tbl.Len())
	assert.Equal(t, "drop table course", lines[0])
	assert.Equal(t, "create table course ( cnum varchar(5) not null,cname varchar(40) not null,primary key (cnum))", lines[1])
	assert.Equal(t, "insert into course values ('CS348','Introduction to Databases')", lines[2])
	assert.Equal(t, "insert into course values ('CS101','Intro')", lines[3])
	assert.Equal(t, lines[3], lines[4])
}

func TestSerializeContinuationAndQuotes(t *testing.T) {
	tbl := New("t", "\nx varchar(3) default \"a\"", constField{"x", `b"c`})
	require.NoError(t, tbl.Generate(1))

	out := tbl.Serialize(SerializeOptions{Continuation: true})
	assert.Equal(t, "drop table t\ncreate table t ( \\\n x varchar(3) default 'a')\ninsert into t values ('b'c')\n", out)
}

func TestSerializeEmptyTable(t *testing.T) {
	tbl := New("empty", "id integer", generators.Index("id"))
	assert.Equal(t, "drop table empty\ncreate table empty ( id integer)\n", tbl.Serialize(SerializeOptions{}))
}

func TestLiteral(t *testing.T) {
	assert.Equal(t, "null", Literal(nil))
	assert.Equal(t, "'x'", Literal("x"))
	assert.Equal(t, "42", Literal(42))
	assert.Equal(t, "42", Literal(int64(42)))
	assert.Equal(t, "7", Literal(uint8(7)))
	assert.Equal(t, "1.5", Literal(1.5))
	assert.Equal(t, "true", Literal(true))
}

func TestRowsMatchColumns(t *testing.T) {
	tbl := New("t", "", generators.Index("id"), constField{"name", "n"})
	tbl.AddRow(map[string]interface{}{"name": "seed", "id": 0})
	require.NoError(t, tbl.Generate(1))
	assert.Equal(t, [][]interface{}{{0, "seed"}, {1, "n"}}, tbl.Rows())
}

func TestDeclaredColumns(t *testing.T) {
	schema := `snum        integer not null,
cnum        varchar(5) not null,
grade       decimal(5, 2),
primary key (snum, cnum),
foreign key (snum, cnum)
references enrollment (snum, cnum)`
	assert.Equal(t, []string{"snum", "cnum", "grade"}, DeclaredColumns(schema))
}

func TestCheckColumns(t *testing.T) {
	ok := New("t", "id integer, n integer, primary key (id)", generators.Index("id"), generators.RandNum(newRng(), 0, 2, "n"))
	assert.NoError(t, ok.CheckColumns())

	swapped := New("t", "n integer, id integer", generators.Index("id"), generators.RandNum(newRng(), 0, 2, "n"))
	assert.Error(t, swapped.CheckColumns())
}
