package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbernstein/stationdir/internal/models"
	"github.com/bbernstein/stationdir/internal/stations"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name    string
		params  map[string]string
		want    stations.Query
		wantErr bool
	}{
		{
			name:   "empty params",
			params: map[string]string{},
			want:   stations.Query{},
		},
		{
			name:   "identifier sets",
			params: map[string]string{"stationId": "10637, 10382", "wmo": "10637"},
			want: stations.Query{
				UID: []string{"10637", "10382"},
				WMO: []string{"10637"},
			},
		},
		{
			name:   "regional",
			params: map[string]string{"country": "DE", "region": "BE"},
			want:   stations.Query{Country: "DE", Region: "BE"},
		},
		{
			name:   "bounds",
			params: map[string]string{"bounds": "10,10,-10,-10"},
			want:   stations.Query{Bounds: []float64{10, 10, -10, -10}},
		},
		{
			name:    "bounds with junk",
			params:  map[string]string{"bounds": "10,ten,-10,-10"},
			wantErr: true,
		},
		{
			name:   "proximity",
			params: map[string]string{"lat": "50.05", "lon": "8.6", "radius": "50000"},
			want: stations.Query{
				Nearby: &stations.Proximity{Lat: 50.05, Lon: 8.6, Radius: 50000},
			},
		},
		{
			name:    "lat without lon",
			params:  map[string]string{"lat": "50.05"},
			wantErr: true,
		},
		{
			name:    "coordinates out of range",
			params:  map[string]string{"lat": "95", "lon": "8.6"},
			wantErr: true,
		},
		{
			name:    "negative radius",
			params:  map[string]string{"lat": "50.05", "lon": "8.6", "radius": "-5"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseQuery(tt.params)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseQueryInventory(t *testing.T) {
	got, err := ParseQuery(map[string]string{
		"inventory": "hourly;daily:2020-01-01/2020-12-31",
	})
	require.NoError(t, err)

	require.Len(t, got.Inventory, 2)
	assert.Equal(t, stations.RequireExists(), got.Inventory[models.ResolutionHourly])
	assert.Equal(t, stations.RequirePeriod(
		time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC),
	), got.Inventory[models.ResolutionDaily])
}

func TestParseQueryInventorySingleDate(t *testing.T) {
	got, err := ParseQuery(map[string]string{"inventory": "hourly:2020-06-15"})
	require.NoError(t, err)

	req := got.Inventory[models.ResolutionHourly]
	assert.Equal(t, req.From, req.To, "single date is a degenerate period")
	assert.Equal(t, time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC), req.From)
}

func TestParseQueryInventoryMalformed(t *testing.T) {
	for _, value := range []string{":", "hourly:junk", "hourly:2020-01-01/junk"} {
		_, err := ParseQuery(map[string]string{"inventory": value})
		assert.Error(t, err, "value %q", value)
	}
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		name       string
		params     map[string]string
		wantLimit  int
		wantSample bool
		wantErr    bool
	}{
		{name: "no limit", params: map[string]string{}, wantLimit: 0},
		{name: "limit only", params: map[string]string{"limit": "10"}, wantLimit: 10},
		{name: "limit and sample", params: map[string]string{"limit": "5", "sample": "true"}, wantLimit: 5, wantSample: true},
		{name: "sample without limit", params: map[string]string{"sample": "true"}, wantErr: true},
		{name: "zero limit", params: map[string]string{"limit": "0"}, wantErr: true},
		{name: "junk limit", params: map[string]string{"limit": "many"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, sample, err := ParseLimit(tt.params)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantSample, sample)
		})
	}
}

func TestSuccessResponse(t *testing.T) {
	resp, err := Success(NewStationsResponse(1, []models.Station{{ID: "10637", Name: "Frankfurt"}}))
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, resp.Body, `"responseType":"stations"`)
	assert.Contains(t, resp.Body, `"count":1`)
	assert.Contains(t, resp.Body, `"10637"`)
}

func TestErrorResponse(t *testing.T) {
	resp, err := Error("Invalid parameter: bounds", 400)
	require.NoError(t, err)

	assert.Equal(t, 400, resp.StatusCode)
	assert.Contains(t, resp.Body, `"responseType":"error"`)
	assert.Contains(t, resp.Body, "Invalid parameter: bounds")
}
