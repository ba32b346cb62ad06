package table

import (
	"math/rand"
	"sort"

	"github.com/bbernstein/stationdir/internal/models"
)

// Table is an ordered, in-memory row store of station records. Every
// operation returns a new Table and leaves the receiver untouched, so a
// Table can be shared freely without locking. Rows are keyed by station
// ID; derived tables are always row subsets of the table they came from.
type Table struct {
	rows []models.Station
}

// New builds a table from the given rows. The slice is copied.
func New(rows []models.Station) Table {
	copied := make([]models.Station, len(rows))
	copy(copied, rows)
	return Table{rows: copied}
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.rows)
}

// Rows returns a copy of the rows in table order. Mutating the result
// does not affect the table.
func (t Table) Rows() []models.Station {
	out := make([]models.Station, len(t.rows))
	copy(out, t.rows)
	return out
}

// Lookup returns the row with the given station ID.
func (t Table) Lookup(id string) (models.Station, bool) {
	for _, row := range t.rows {
		if row.ID == id {
			return row, true
		}
	}
	return models.Station{}, false
}

// Filter returns the rows for which keep is true, in table order.
func (t Table) Filter(keep func(models.Station) bool) Table {
	out := make([]models.Station, 0, len(t.rows))
	for _, row := range t.rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	return Table{rows: out}
}

// Map returns a table with fn applied to every row. fn must not change
// the row's ID.
func (t Table) Map(fn func(models.Station) models.Station) Table {
	out := make([]models.Station, len(t.rows))
	for i, row := range t.rows {
		out[i] = fn(row)
	}
	return Table{rows: out}
}

// SortBy returns a table sorted by the given ordering. The sort is
// stable, so rows that compare equal keep their relative order.
func (t Table) SortBy(less func(a, b models.Station) bool) Table {
	out := make([]models.Station, len(t.rows))
	copy(out, t.rows)
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	return Table{rows: out}
}

// Head returns the first n rows, or all rows if n exceeds the length.
func (t Table) Head(n int) Table {
	if n > len(t.rows) {
		n = len(t.rows)
	}
	out := make([]models.Station, n)
	copy(out, t.rows[:n])
	return Table{rows: out}
}

// Sample returns n rows drawn uniformly without replacement. If n exceeds
// the length, all rows are returned in random order.
func (t Table) Sample(n int, rng *rand.Rand) Table {
	if n > len(t.rows) {
		n = len(t.rows)
	}
	out := make([]models.Station, 0, n)
	for _, i := range rng.Perm(len(t.rows))[:n] {
		out = append(out, t.rows[i])
	}
	return Table{rows: out}
}
