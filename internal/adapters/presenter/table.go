package presenter

import (
	"fmt"
	"io"
	"strconv"
	"sync"
	"text/tabwriter"

	"github.com/samirrijal/pumpedcity/internal/core/domain"
)

// TableColumns is the fixed column order of the result table.
var TableColumns = [3]string{"Distance", "Spaces", "Address"}

// Table is a ResultPresenter holding result rows as text.
type Table struct {
	mu   sync.Mutex
	rows [][3]string
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{}
}

// Clear removes all rows.
func (t *Table) Clear() {
	t.mu.Lock()
	t.rows = nil
	t.mu.Unlock()
}

// Render appends one row per record.
func (t *Table) Render(records []domain.ParkingRecord) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, r := range records {
		t.rows = append(t.rows, [3]string{
			strconv.FormatFloat(r.Distance, 'f', -1, 64),
			strconv.Itoa(r.Spaces),
			r.Address,
		})
	}
	return nil
}

// Rows returns a copy of the current rows.
func (t *Table) Rows() [][3]string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([][3]string, len(t.rows))
	copy(out, t.rows)
	return out
}

// WriteTo prints the table with aligned columns.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	tw := tabwriter.NewWriter(cw, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "%s\t%s\t%s\n", TableColumns[0], TableColumns[1], TableColumns[2])
	for _, row := range t.Rows() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", row[0], row[1], row[2])
	}
	err := tw.Flush()
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
