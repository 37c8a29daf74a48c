// Package school builds the fixed course database: courses, professors,
// students, classes, enrollments, marks and schedules, in dependency order.
package school

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/mmrzaf/coursegen/internal/generators"
	"github.com/mmrzaf/coursegen/internal/table"
)

// Table names, also the keys accepted by Counts.Apply where a count applies.
const (
	Course     = "course"
	Professor  = "professor"
	Student    = "student"
	Class      = "class"
	Enrollment = "enrollment"
	Mark       = "mark"
	Schedule   = "schedule"
)

// Order is the build order. Every table only samples tables before it.
var Order = []string{Course, Professor, Student, Class, Enrollment, Mark, Schedule}

// Counts are the numbers of randomly generated rows. Marks and schedules are
// derived from enrollments and classes and have no count of their own.
type Counts struct {
	Courses     int
	Professors  int
	Students    int
	Classes     int
	Enrollments int
}

func DefaultCounts() Counts {
	return Counts{
		Courses:     40,
		Professors:  35,
		Students:    500,
		Classes:     400,
		Enrollments: 1500,
	}
}

// Apply overrides counts by table name.
func (c *Counts) Apply(rows map[string]int) error {
	names := make([]string, 0, len(rows))
	for name := range rows {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		n := rows[name]
		if n < 0 {
			return fmt.Errorf("rows for %s must be >= 0, got %d", name, n)
		}
		switch name {
		case Course:
			c.Courses = n
		case Professor:
			c.Professors = n
		case Student:
			c.Students = n
		case Class:
			c.Classes = n
		case Enrollment:
			c.Enrollments = n
		default:
			return fmt.Errorf("no row count for table %q", name)
		}
	}
	return nil
}

type Options struct {
	Counts Counts

	// The seeded course always exists and gets SeedSections sections in
	// SeedTerm. That term has no marks yet.
	SeedCourse     string
	SeedCourseName string
	SeedTerm       string
	SeedSections   int

	// FakerNames replaces the fixed name pools for professors and students.
	FakerNames bool
}

func DefaultOptions() Options {
	return Options{
		Counts:         DefaultCounts(),
		SeedCourse:     "CS348",
		SeedCourseName: "Introduction to Databases",
		SeedTerm:       "F2011",
		SeedSections:   4,
	}
}

type builder struct {
	rng     *rand.Rand
	opts    Options
	dropped map[string]int
}

// Result holds the tables in Order and the duplicate rows each primary key
// dropped, by table name.
type Result struct {
	Tables  []*table.Table
	Dropped map[string]int
}

// Build generates all seven tables.
func Build(rng *rand.Rand, opts Options) (*Result, error) {
	b := &builder{rng: rng, opts: opts, dropped: make(map[string]int, len(Order))}

	course, err := b.course()
	if err != nil {
		return nil, err
	}
	professor, err := b.professor()
	if err != nil {
		return nil, err
	}
	student, err := b.student()
	if err != nil {
		return nil, err
	}
	class, err := b.class(course, professor)
	if err != nil {
		return nil, err
	}
	enrollment, err := b.enrollment(student, class)
	if err != nil {
		return nil, err
	}
	mark, err := b.mark(enrollment)
	if err != nil {
		return nil, err
	}
	schedule, err := b.schedule(class)
	if err != nil {
		return nil, err
	}
	return &Result{
		Tables:  []*table.Table{course, professor, student, class, enrollment, mark, schedule},
		Dropped: b.dropped,
	}, nil
}

func (b *builder) personName(column string) generators.Field {
	if b.opts.FakerNames {
		return generators.FakerName(column)
	}
	return generators.Combinator(b.rng, column, []string{"%s, %s"}, generators.Values(lastNames...), generators.Values(firstNames...))
}

func (b *builder) course() (*table.Table, error) {
	t := table.New(Course, courseSchema,
		generators.Combinator(b.rng, "cnum", coursePrefixes, generators.Values(courseNumbers...)),
		generators.Combinator(b.rng, "cname", courseTitles, generators.Values(courseTopics...)),
	)
	t.AddRow(map[string]interface{}{"cnum": b.opts.SeedCourse, "cname": b.opts.SeedCourseName})
	if err := t.Generate(b.opts.Counts.Courses); err != nil {
		return nil, err
	}
	b.primaryKey(t, "cnum")
	return t, nil
}

func (b *builder) professor() (*table.Table, error) {
	t := table.New(Professor, professorSchema,
		generators.Index("pnum"),
		b.personName("pname"),
		generators.Combinator(b.rng, "office", officeBuildings, generators.Values(officeNumbers...)),
		generators.Combinator(b.rng, "dept", departments),
	)
	if err := t.Generate(b.opts.Counts.Professors); err != nil {
		return nil, err
	}
	return t, nil
}

func (b *builder) student() (*table.Table, error) {
	t := table.New(Student, studentSchema,
		generators.Index("snum"),
		b.personName("sname"),
		generators.RandNum(b.rng, 1, 5, "year"),
	)
	if err := t.Generate(b.opts.Counts.Students); err != nil {
		return nil, err
	}
	return t, nil
}

func (b *builder) class(course, professor *table.Table) (*table.Table, error) {
	profRef := generators.TableSampler(b.rng, professor, "pnum")
	t := table.New(Class, classSchema,
		generators.TableSampler(b.rng, course, "cnum"),
		generators.Combinator(b.rng, "term", terms, generators.IntRange(2007, 2011)),
		generators.RandNum(b.rng, 1, 4, "section"),
		profRef,
	)
	if err := t.Generate(b.opts.Counts.Classes); err != nil {
		return nil, err
	}

	for section := 1; section <= b.opts.SeedSections; section++ {
		prof, err := profRef.Produce()
		if err != nil {
			return nil, fmt.Errorf("seed section %d: %w", section, err)
		}
		t.AddRow(map[string]interface{}{
			"cnum":    b.opts.SeedCourse,
			"term":    b.opts.SeedTerm,
			"section": section,
			"pnum":    prof[0],
		})
	}
	b.primaryKey(t, classKey...)
	return t, nil
}

var (
	classKey      = []string{"cnum", "term", "section"}
	enrollmentKey = []string{"snum", "cnum", "term", "section"}
	scheduleKey   = []string{"cnum", "term", "section", "day", "time"}
)

func (b *builder) enrollment(student, class *table.Table) (*table.Table, error) {
	t := table.New(Enrollment, enrollmentSchema,
		generators.TableSampler(b.rng, student, "snum"),
		generators.TableSampler(b.rng, class, classKey...),
	)
	if err := t.Generate(b.opts.Counts.Enrollments); err != nil {
		return nil, err
	}
	b.primaryKey(t, enrollmentKey...)
	return t, nil
}

// mark grades every enrollment outside the seeded term, which is still in
// progress.
func (b *builder) mark(enrollment *table.Table) (*table.Table, error) {
	grade := generators.RandNum(b.rng, 41, 101, "grade")
	t := table.New(Mark, markSchema,
		generators.TableSampler(b.rng, enrollment, enrollmentKey...),
		grade,
	)
	for _, e := range enrollment.Entries() {
		if e.Value("term") == b.opts.SeedTerm {
			continue
		}
		g, err := grade.Produce()
		if err != nil {
			return nil, err
		}
		row := copyColumns(e, enrollmentKey)
		row["grade"] = g[0]
		t.AddRow(row)
	}
	b.primaryKey(t, enrollmentKey...)
	return t, nil
}

// schedule gives every class one to three meeting slots.
func (b *builder) schedule(class *table.Table) (*table.Table, error) {
	slot := []generators.Field{
		generators.Combinator(b.rng, "day", weekdays),
		generators.Combinator(b.rng, "time", []string{"%02d:00"}, generators.IntRange(6, 18)),
		generators.Combinator(b.rng, "room", roomBuildings, generators.Values(roomNumbers...)),
	}
	t := table.New(Schedule, scheduleSchema,
		append([]generators.Field{generators.TableSampler(b.rng, class, classKey...)}, slot...)...,
	)
	for _, e := range class.Entries() {
		meetings := b.rng.Intn(3) + 1
		for i := 0; i < meetings; i++ {
			row := copyColumns(e, classKey)
			for _, f := range slot {
				vals, err := f.Produce()
				if err != nil {
					return nil, err
				}
				row[f.Columns()[0]] = vals[0]
			}
			t.AddRow(row)
		}
	}
	b.primaryKey(t, scheduleKey...)
	return t, nil
}

func (b *builder) primaryKey(t *table.Table, columns ...string) {
	b.dropped[t.Name()] = t.PrimaryKey(columns...)
}

func copyColumns(e *table.Entry, columns []string) map[string]interface{} {
	row := make(map[string]interface{}, len(columns)+1)
	for _, c := range columns {
		row[c] = e.Value(c)
	}
	return row
}
