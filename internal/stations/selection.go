package stations

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bbernstein/stationdir/internal/models"
	"github.com/bbernstein/stationdir/internal/table"
)

// defaultMaxAge is the tolerance added to a station's data-end date when
// matching inventory periods, so recently updated coverage still counts
// as current.
const defaultMaxAge = 24 * time.Hour

// Loader supplies the full station directory table.
type Loader interface {
	Load(ctx context.Context) (table.Table, error)
}

// Selection is an immutable view over the station directory, narrowed by
// the filters it was constructed with. Fetch and Convert return
// independent copies, so a Selection never observes caller mutation.
type Selection struct {
	table  table.Table
	maxAge time.Duration
	rng    *rand.Rand
}

type Option func(*Selection)

// WithMaxAge sets the inventory staleness tolerance.
func WithMaxAge(d time.Duration) Option {
	return func(s *Selection) {
		s.maxAge = d
	}
}

// WithRandSource sets the source used by sampled fetches.
func WithRandSource(src rand.Source) Option {
	return func(s *Selection) {
		s.rng = rand.New(src)
	}
}

// New narrows the full table with the query's filters, applied in fixed
// order: identifier, regional, bounds, proximity, inventory. Proximity
// runs after the narrowing filters so its distance sort only touches
// surviving rows. An empty result is valid; malformed filter input
// returns an InvalidFilterError.
func New(tbl table.Table, query Query, opts ...Option) (*Selection, error) {
	s := &Selection{
		maxAge: defaultMaxAge,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	if err := query.validate(); err != nil {
		return nil, err
	}

	t := filterIdentifier(tbl, query)
	if query.Country != "" || query.Region != "" {
		t = filterRegional(t, query.Country, query.Region)
	}
	if query.Bounds != nil {
		t = filterBounds(t, query.Bounds)
	}
	if query.Nearby != nil {
		t = filterProximity(t, *query.Nearby)
	}
	if len(query.Inventory) > 0 {
		t = filterInventory(t, query.Inventory, s.maxAge)
	}
	s.table = t

	log.Debug().
		Int("selected", t.Len()).
		Int("total", tbl.Len()).
		Msg("Built station selection")

	return s, nil
}

// Load fetches the full station directory from the loader and builds a
// selection from it. A loader failure surfaces as SourceUnavailableError
// and no selection is returned.
func Load(ctx context.Context, l Loader, query Query, opts ...Option) (*Selection, error) {
	tbl, err := l.Load(ctx)
	if err != nil {
		return nil, NewSourceUnavailableError(err)
	}
	return New(tbl, query, opts...)
}

// Count returns the number of stations currently selected.
func (s *Selection) Count() int {
	return s.table.Len()
}

// Fetch returns the selected stations as an independent copy. A limit of
// zero or less returns everything in selection order. With sample set,
// limit rows are drawn uniformly without replacement instead of taking
// the head.
func (s *Selection) Fetch(limit int, sample bool) []models.Station {
	if limit <= 0 {
		return s.table.Rows()
	}
	if sample {
		return s.table.Sample(limit, s.rng).Rows()
	}
	return s.table.Head(limit).Rows()
}

// ConvertFunc transforms one value of a numeric column.
type ConvertFunc func(float64) float64

// Convert returns a new selection with the given transforms applied
// element-wise to the named columns. Convertible columns are latitude,
// longitude, elevation and distance; unknown names are ignored. The
// receiver is left untouched.
func (s *Selection) Convert(units map[string]ConvertFunc) *Selection {
	t := s.table.Map(func(row models.Station) models.Station {
		for column, fn := range units {
			switch column {
			case "latitude":
				row.Latitude = fn(row.Latitude)
			case "longitude":
				row.Longitude = fn(row.Longitude)
			case "elevation":
				row.Elevation = fn(row.Elevation)
			case "distance":
				row.Distance = fn(row.Distance)
			}
		}
		return row
	})
	return &Selection{table: t, maxAge: s.maxAge, rng: s.rng}
}
