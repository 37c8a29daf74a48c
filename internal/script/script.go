package script

import (
	"bufio"
	"io"

	"github.com/mmrzaf/coursegen/internal/table"
)

type Options struct {
	// Database, when set, opens the script with "connect to <database>".
	Database     string
	Continuation bool
}

// Write emits every table block in the given order followed by a single
// "commit work" line. It returns the number of bytes written.
func Write(w io.Writer, tables []*table.Table, opts Options) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)

	if opts.Database != "" {
		if _, err := bw.WriteString("connect to " + opts.Database + "\n"); err != nil {
			return cw.n, err
		}
	}
	serOpts := table.SerializeOptions{Continuation: opts.Continuation}
	for _, t := range tables {
		if _, err := bw.WriteString(t.Serialize(serOpts)); err != nil {
			return cw.n, err
		}
	}
	if _, err := bw.WriteString("commit work\n"); err != nil {
		return cw.n, err
	}
	err := bw.Flush()
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
