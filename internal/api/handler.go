package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/bbernstein/stationdir/internal/models"
	"github.com/bbernstein/stationdir/internal/stations"
)

type APIResponse struct {
	ResponseType string `json:"responseType"`
}

type StationsResponse struct {
	APIResponse
	Count    int              `json:"count"`
	Stations []models.Station `json:"stations"`
}

type ErrorResponse struct {
	APIResponse
	Error string `json:"error"`
}

func NewStationsResponse(count int, stationList []models.Station) *StationsResponse {
	return &StationsResponse{
		APIResponse: APIResponse{ResponseType: "stations"},
		Count:       count,
		Stations:    stationList,
	}
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		APIResponse: APIResponse{ResponseType: "error"},
		Error:       message,
	}
}

// Response helpers
func Success(body interface{}) (events.APIGatewayProxyResponse, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return Error("Internal Server Error", http.StatusInternalServerError)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(jsonBody),
	}, nil
}

func Error(message string, statusCode int) (events.APIGatewayProxyResponse, error) {
	body, _ := json.Marshal(NewErrorResponse(message))

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(body),
	}, nil
}

// ParseQuery builds a station selection query from API Gateway query
// string parameters: stationId/wmo/icao (comma-separated sets), country,
// region, bounds (north,east,south,west), lat/lon/radius, inventory
// (semicolon-separated entries: "hourly", "daily:2020-01-02" or
// "hourly:2020-01-01/2020-12-31").
func ParseQuery(params map[string]string) (stations.Query, error) {
	var q stations.Query

	if v, ok := params["stationId"]; ok {
		q.UID = splitList(v)
	}
	if v, ok := params["wmo"]; ok {
		q.WMO = splitList(v)
	}
	if v, ok := params["icao"]; ok {
		q.ICAO = splitList(v)
	}

	q.Country = params["country"]
	q.Region = params["region"]

	if v, ok := params["bounds"]; ok {
		bounds, err := parseBounds(v)
		if err != nil {
			return stations.Query{}, err
		}
		q.Bounds = bounds
	}

	lat, lon, hasPoint, err := ParseCoordinates(params)
	if err != nil {
		return stations.Query{}, err
	}
	if hasPoint {
		nearby := &stations.Proximity{Lat: lat, Lon: lon}
		if v, ok := params["radius"]; ok {
			radius, err := strconv.ParseFloat(v, 64)
			if err != nil || radius < 0 {
				return stations.Query{}, InvalidParameterError{Name: "radius"}
			}
			nearby.Radius = radius
		}
		q.Nearby = nearby
	}

	if v, ok := params["inventory"]; ok {
		inventory, err := parseInventory(v)
		if err != nil {
			return stations.Query{}, err
		}
		q.Inventory = inventory
	}

	return q, nil
}

// ParseCoordinates extracts the proximity query point. hasPoint is false
// when neither coordinate is present.
func ParseCoordinates(params map[string]string) (float64, float64, bool, error) {
	latStr, hasLat := params["lat"]
	lonStr, hasLon := params["lon"]

	if !hasLat && !hasLon {
		return 0, 0, false, nil
	}
	if !hasLat || !hasLon {
		return 0, 0, false, InvalidCoordinatesError{}
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, false, InvalidCoordinatesError{}
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return 0, 0, false, InvalidCoordinatesError{}
	}

	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, false, InvalidCoordinatesError{}
	}

	return lat, lon, true, nil
}

// ParseLimit extracts the fetch limit and sampling flag. A missing limit
// means the full selection.
func ParseLimit(params map[string]string) (int, bool, error) {
	limit := 0
	if v, ok := params["limit"]; ok {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return 0, false, InvalidParameterError{Name: "limit"}
		}
		limit = parsed
	}

	sample := params["sample"] == "true" || params["sample"] == "1"
	if sample && limit == 0 {
		return 0, false, InvalidParameterError{Name: "sample"}
	}

	return limit, sample, nil
}

func parseBounds(value string) ([]float64, error) {
	parts := splitList(value)
	bounds := make([]float64, 0, len(parts))
	for _, part := range parts {
		f, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, InvalidParameterError{Name: "bounds"}
		}
		bounds = append(bounds, f)
	}
	return bounds, nil
}

func parseInventory(value string) (map[models.Resolution]stations.InventoryRequirement, error) {
	inventory := make(map[models.Resolution]stations.InventoryRequirement)
	for _, entry := range strings.Split(value, ";") {
		res, spec, hasSpec := strings.Cut(strings.TrimSpace(entry), ":")
		if res == "" {
			return nil, InvalidParameterError{Name: "inventory"}
		}
		if !hasSpec {
			inventory[models.Resolution(res)] = stations.RequireExists()
			continue
		}

		from, to, hasPeriod := strings.Cut(spec, "/")
		fromDate, err := time.Parse("2006-01-02", from)
		if err != nil {
			return nil, InvalidParameterError{Name: "inventory"}
		}
		if !hasPeriod {
			inventory[models.Resolution(res)] = stations.RequireDate(fromDate)
			continue
		}

		toDate, err := time.Parse("2006-01-02", to)
		if err != nil {
			return nil, InvalidParameterError{Name: "inventory"}
		}
		inventory[models.Resolution(res)] = stations.RequirePeriod(fromDate, toDate)
	}
	return inventory, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

type InvalidCoordinatesError struct{}

func (e InvalidCoordinatesError) Error() string {
	return "Invalid coordinates"
}

type InvalidParameterError struct {
	Name string
}

func (e InvalidParameterError) Error() string {
	return "Invalid parameter: " + e.Name
}
