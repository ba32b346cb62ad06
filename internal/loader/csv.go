package loader

import (
	"bytes"
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bbernstein/stationdir/internal/models"
)

// Dataset columns, in order: id, name, country, region, wmo, icao,
// latitude, longitude, elevation, timezone, hourly_start, hourly_end,
// daily_start, daily_end. Dates are YYYY-MM-DD; optional fields are empty.
const datasetColumns = 14

const dateLayout = "2006-01-02"

// parseDataset decompresses the gzipped CSV dataset and converts its rows
// to station records on a pool of workers, preserving dataset order.
// Malformed rows are logged and skipped.
func parseDataset(data []byte, workers int) ([]models.Station, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decompressing dataset: %w", err)
	}
	defer func() {
		if closeErr := gz.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Error closing gzip reader")
		}
	}()

	reader := csv.NewReader(gz)
	reader.FieldsPerRecord = -1 // column count checked per row so bad rows can be skipped
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}

	if workers < 1 {
		workers = 1
	}

	type indexedRecord struct {
		index  int
		record []string
	}

	work := make(chan indexedRecord, len(records))
	parsed := make([]*models.Station, len(records))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range work {
				station, err := parseRow(item.record)
				if err != nil {
					log.Warn().Err(err).Int("row", item.index).Msg("Skipping malformed station row")
					continue
				}
				parsed[item.index] = station
			}
		}()
	}

	// Send work
	for i, record := range records {
		work <- indexedRecord{index: i, record: record}
	}
	close(work)
	wg.Wait()

	// Compact skipped rows, keeping dataset order
	stations := make([]models.Station, 0, len(records))
	for _, station := range parsed {
		if station != nil {
			stations = append(stations, *station)
		}
	}

	log.Debug().Int("station_count", len(stations)).Msg("Parsed station dataset")
	return stations, nil
}

func parseRow(record []string) (*models.Station, error) {
	if len(record) != datasetColumns {
		return nil, fmt.Errorf("expected %d columns, got %d", datasetColumns, len(record))
	}
	if record[0] == "" {
		return nil, fmt.Errorf("missing station id")
	}

	lat, err := strconv.ParseFloat(record[6], 64)
	if err != nil {
		return nil, fmt.Errorf("parsing latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(record[7], 64)
	if err != nil {
		return nil, fmt.Errorf("parsing longitude: %w", err)
	}

	var elevation float64
	if record[8] != "" {
		elevation, err = strconv.ParseFloat(record[8], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing elevation: %w", err)
		}
	}

	return &models.Station{
		ID:          record[0],
		Name:        record[1],
		Country:     record[2],
		Region:      record[3],
		WMO:         optionalString(record[4]),
		ICAO:        optionalString(record[5]),
		Latitude:    lat,
		Longitude:   lon,
		Elevation:   elevation,
		Timezone:    record[9],
		HourlyStart: parseDate(record[10]),
		HourlyEnd:   parseDate(record[11]),
		DailyStart:  parseDate(record[12]),
		DailyEnd:    parseDate(record[13]),
	}, nil
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// parseDate treats empty or unparseable dates as absent inventory.
func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil
	}
	return &t
}
