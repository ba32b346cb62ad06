package table

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbernstein/stationdir/internal/models"
)

func testRows() []models.Station {
	return []models.Station{
		{ID: "10637", Name: "Frankfurt", Country: "DE", Latitude: 50.0333, Longitude: 8.5706},
		{ID: "10382", Name: "Berlin / Tegel", Country: "DE", Latitude: 52.5667, Longitude: 13.3167},
		{ID: "71624", Name: "Toronto City", Country: "CA", Latitude: 43.6667, Longitude: -79.4},
		{ID: "72503", Name: "New York / LaGuardia", Country: "US", Latitude: 40.7794, Longitude: -73.88},
	}
}

func ids(rows []models.Station) []string {
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = row.ID
	}
	return out
}

func TestNewCopiesInput(t *testing.T) {
	rows := testRows()
	tbl := New(rows)

	rows[0].ID = "mutated"
	got, ok := tbl.Lookup("10637")
	require.True(t, ok)
	assert.Equal(t, "Frankfurt", got.Name)
}

func TestRowsReturnsIndependentCopy(t *testing.T) {
	tbl := New(testRows())

	rows := tbl.Rows()
	rows[0].Name = "mutated"

	assert.Equal(t, "Frankfurt", tbl.Rows()[0].Name)
}

func TestFilter(t *testing.T) {
	tbl := New(testRows())

	got := tbl.Filter(func(s models.Station) bool {
		return s.Country == "DE"
	})

	assert.Equal(t, []string{"10637", "10382"}, ids(got.Rows()))
	assert.Equal(t, 4, tbl.Len(), "input table must not change")
}

func TestSortByIsStable(t *testing.T) {
	tbl := New(testRows())

	got := tbl.SortBy(func(a, b models.Station) bool {
		return a.Country < b.Country
	})

	// DE rows keep their original relative order
	assert.Equal(t, []string{"71624", "10637", "10382", "72503"}, ids(got.Rows()))
}

func TestHead(t *testing.T) {
	tbl := New(testRows())

	assert.Equal(t, []string{"10637", "10382"}, ids(tbl.Head(2).Rows()))
	assert.Equal(t, 4, tbl.Head(10).Len())
	assert.Equal(t, 0, tbl.Head(0).Len())
}

func TestSample(t *testing.T) {
	tbl := New(testRows())
	rng := rand.New(rand.NewSource(1))

	got := tbl.Sample(3, rng)

	require.Equal(t, 3, got.Len())
	seen := make(map[string]bool)
	for _, row := range got.Rows() {
		assert.False(t, seen[row.ID], "sample must not repeat rows")
		seen[row.ID] = true
		_, ok := tbl.Lookup(row.ID)
		assert.True(t, ok, "sampled row must come from the table")
	}
}

func TestLookup(t *testing.T) {
	tbl := New(testRows())

	got, ok := tbl.Lookup("71624")
	require.True(t, ok)
	assert.Equal(t, "Toronto City", got.Name)

	_, ok = tbl.Lookup("missing")
	assert.False(t, ok)
}
