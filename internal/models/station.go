package models

import "time"

// Resolution is the granularity of observation data a station reports.
type Resolution string

const (
	ResolutionHourly Resolution = "hourly"
	ResolutionDaily  Resolution = "daily"
)

// Station is one row of the weather station directory.
type Station struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Region    string  `json:"region"`
	WMO       *string `json:"wmo,omitempty"`
	ICAO      *string `json:"icao,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Elevation float64 `json:"elevation"`
	Timezone  string  `json:"timezone"`

	// Inventory windows per resolution. A nil start means the station has
	// no data at that resolution.
	HourlyStart *time.Time `json:"hourlyStart,omitempty"`
	HourlyEnd   *time.Time `json:"hourlyEnd,omitempty"`
	DailyStart  *time.Time `json:"dailyStart,omitempty"`
	DailyEnd    *time.Time `json:"dailyEnd,omitempty"`

	// Distance from the query point in meters. Only meaningful after a
	// proximity filter has been applied.
	Distance float64 `json:"distance,omitempty"`
}

// InventoryWindow returns the coverage window for the given resolution.
// ok is false for resolutions the directory does not track.
func (s Station) InventoryWindow(res Resolution) (start, end *time.Time, ok bool) {
	switch res {
	case ResolutionHourly:
		return s.HourlyStart, s.HourlyEnd, true
	case ResolutionDaily:
		return s.DailyStart, s.DailyEnd, true
	}
	return nil, nil, false
}
