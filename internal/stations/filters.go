package stations

import (
	"time"

	"github.com/bbernstein/stationdir/internal/geo"
	"github.com/bbernstein/stationdir/internal/models"
	"github.com/bbernstein/stationdir/internal/table"
)

// Proximity selects stations near a point and orders them by distance.
// Radius is in meters; zero means no cutoff.
type Proximity struct {
	Lat    float64
	Lon    float64
	Radius float64
}

// InventoryRequirement constrains a station's data coverage at one
// resolution. The zero value only requires that any data exists. A
// non-zero window requires coverage of the whole period [From, To].
type InventoryRequirement struct {
	From time.Time
	To   time.Time
}

// RequireExists matches stations that have any data at the resolution.
func RequireExists() InventoryRequirement {
	return InventoryRequirement{}
}

// RequireDate matches stations whose coverage includes the given day,
// the degenerate period [d, d].
func RequireDate(d time.Time) InventoryRequirement {
	return InventoryRequirement{From: d, To: d}
}

// RequirePeriod matches stations whose coverage spans [from, to].
func RequirePeriod(from, to time.Time) InventoryRequirement {
	return InventoryRequirement{From: from, To: to}
}

func (r InventoryRequirement) existsOnly() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// Query holds the construction-time filters of a station selection.
type Query struct {
	// Identifier filters, each a set of accepted values. UID takes
	// precedence over WMO, which takes precedence over ICAO: only the
	// first non-empty set is applied, the others are ignored.
	UID  []string
	WMO  []string
	ICAO []string

	// Regional filters. Both may be set; they narrow independently.
	Country string
	Region  string

	// Bounds is a rectangle given as [north, east, south, west] in
	// degrees. The order is part of the caller contract: a swapped pair
	// is indistinguishable from a valid rectangle and silently selects
	// the wrong rows, so only the element count can be validated.
	Bounds []float64

	// Nearby enables the proximity filter. It is the only filter that
	// reorders rows.
	Nearby *Proximity

	// Inventory requirements per resolution, combined with AND.
	Inventory map[models.Resolution]InventoryRequirement
}

func (q Query) validate() error {
	if q.Bounds != nil && len(q.Bounds) != 4 {
		return NewInvalidFilterError("bounds must have 4 elements [north, east, south, west], got %d", len(q.Bounds))
	}
	for res, req := range q.Inventory {
		if _, _, ok := (models.Station{}).InventoryWindow(res); !ok {
			return NewInvalidFilterError("unknown inventory resolution %q", res)
		}
		if req.From.After(req.To) {
			return NewInvalidFilterError("inventory period for %q ends before it starts", res)
		}
	}
	return nil
}

func filterIdentifier(t table.Table, q Query) table.Table {
	switch {
	case len(q.UID) > 0:
		ids := toSet(q.UID)
		return t.Filter(func(s models.Station) bool {
			return ids[s.ID]
		})
	case len(q.WMO) > 0:
		ids := toSet(q.WMO)
		return t.Filter(func(s models.Station) bool {
			return s.WMO != nil && ids[*s.WMO]
		})
	case len(q.ICAO) > 0:
		ids := toSet(q.ICAO)
		return t.Filter(func(s models.Station) bool {
			return s.ICAO != nil && ids[*s.ICAO]
		})
	}
	return t
}

func filterRegional(t table.Table, country, region string) table.Table {
	if country != "" {
		t = t.Filter(func(s models.Station) bool {
			return s.Country == country
		})
	}
	if region != "" {
		t = t.Filter(func(s models.Station) bool {
			return s.Region == region
		})
	}
	return t
}

func filterBounds(t table.Table, bounds []float64) table.Table {
	north, east, south, west := bounds[0], bounds[1], bounds[2], bounds[3]
	return t.Filter(func(s models.Station) bool {
		return s.Latitude <= north && s.Latitude >= south &&
			s.Longitude <= east && s.Longitude >= west
	})
}

func filterProximity(t table.Table, p Proximity) table.Table {
	t = t.Map(func(s models.Station) models.Station {
		s.Distance = geo.Distance(s.Latitude, s.Longitude, p.Lat, p.Lon)
		return s
	})
	if p.Radius > 0 {
		t = t.Filter(func(s models.Station) bool {
			return s.Distance <= p.Radius
		})
	}
	return t.SortBy(func(a, b models.Station) bool {
		return a.Distance < b.Distance
	})
}

func filterInventory(t table.Table, reqs map[models.Resolution]InventoryRequirement, maxAge time.Duration) table.Table {
	for res, req := range reqs {
		t = t.Filter(func(s models.Station) bool {
			start, end, _ := s.InventoryWindow(res)
			if start == nil {
				return false
			}
			if req.existsOnly() {
				return true
			}
			// Coverage must begin on or before the period and, allowing
			// maxAge of staleness, extend to its end.
			return !start.After(req.From) &&
				end != nil && !end.Add(maxAge).Before(req.To)
		})
	}
	return t
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
