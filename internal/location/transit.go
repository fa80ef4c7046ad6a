// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package location

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strconv"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/rentscope/internal/geo"
	"github.com/pdiddy/rentscope/internal/httputil"
	"github.com/pdiddy/rentscope/pkg/types"
)

// mtaStationsBase is the MTA subway station feed. Declared as a var so
// tests can substitute an httptest server.
var mtaStationsBase = "http://web.mta.info/developers/data/nyct/subway/Stations.csv"

// maxStationScan caps the number of stations examined per score.
const maxStationScan = 100

// TransitCollector scores transit access from subway station proximity.
// Stations are loaded once and reused across properties.
type TransitCollector struct {
	Client *http.Client

	stations []types.SubwayStation
	loaded   bool
}

// NewTransitCollector returns a collector that fetches the station feed
// on first use. When stationsFile is non-empty the local YAML dataset is
// loaded instead; a load failure leaves the station set empty, which
// routes every score through the distance-based fallback.
func NewTransitCollector(ctx context.Context, client *http.Client, stationsFile string) *TransitCollector {
	c := &TransitCollector{Client: client}

	var err error
	if stationsFile != "" {
		c.stations, err = LoadStationsFile(stationsFile)
	} else {
		c.stations, err = fetchStations(ctx, client)
	}
	if err != nil {
		c.stations = nil
	}
	c.loaded = true
	return c
}

// Stations exposes the loaded station set.
func (c *TransitCollector) Stations() []types.SubwayStation {
	return c.stations
}

// LoadStationsFile reads a YAML list of subway stations.
func LoadStationsFile(path string) ([]types.SubwayStation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading stations file: %w", err)
	}
	var stations []types.SubwayStation
	if err := yaml.Unmarshal(data, &stations); err != nil {
		return nil, fmt.Errorf("parsing stations file: %w", err)
	}
	return stations, nil
}

// fetchStations downloads and parses the MTA station CSV. Rows with
// unparseable coordinates are skipped.
func fetchStations(ctx context.Context, client *http.Client) ([]types.SubwayStation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mtaStationsBase, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("stations feed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stations feed returned HTTP %d", resp.StatusCode)
	}

	r := csv.NewReader(resp.Body)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing stations CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("stations CSV has no data rows")
	}

	latCol, lngCol, nameCol := -1, -1, -1
	for i, col := range records[0] {
		switch col {
		case "GTFS Latitude":
			latCol = i
		case "GTFS Longitude":
			lngCol = i
		case "Stop Name":
			nameCol = i
		}
	}
	if latCol < 0 || lngCol < 0 {
		return nil, fmt.Errorf("stations CSV missing coordinate columns")
	}

	var stations []types.SubwayStation
	for _, row := range records[1:] {
		if latCol >= len(row) || lngCol >= len(row) {
			continue
		}
		lat, errLat := strconv.ParseFloat(row[latCol], 64)
		lng, errLng := strconv.ParseFloat(row[lngCol], 64)
		if errLat != nil || errLng != nil {
			continue
		}
		s := types.SubwayStation{Latitude: lat, Longitude: lng}
		if nameCol >= 0 && nameCol < len(row) {
			s.Name = row[nameCol]
		}
		stations = append(stations, s)
	}
	return stations, nil
}

// Score rates transit access at the coordinates on 0-100. Without
// station data it falls back to a distance-based estimate drawn from
// rng; the second return reports whether station data produced the score.
func (c *TransitCollector) Score(lat, lng float64, rng *rand.Rand) (float64, bool) {
	if len(c.stations) == 0 {
		return EstimateTransitScore(lat, lng, rng), false
	}

	distances := stationDistances(lat, lng, c.stations)
	if len(distances) == 0 {
		return EstimateTransitScore(lat, lng, rng), false
	}

	sort.Float64s(distances)
	nearest := distances[0]

	var base float64
	switch {
	case nearest <= 0.1:
		base = 95
	case nearest <= 0.25:
		base = 85
	case nearest <= 0.5:
		base = 75
	case nearest <= 0.75:
		base = 65
	case nearest <= 1.0:
		base = 55
	default:
		base = 60 - (nearest-1.0)*10
		if base < 35 {
			base = 35
		}
	}

	// Redundancy bonus when several stations are close.
	avg3 := nearest
	if len(distances) >= 3 {
		avg3 = (distances[0] + distances[1] + distances[2]) / 3
	}
	if avg3 < 0.5 {
		base += 5
	}

	if base < 35 {
		base = 35
	}
	if base > 100 {
		base = 100
	}
	return round1(base), true
}

// NearestSubwayDistance returns miles to the closest station. Without
// station data it estimates from the Manhattan distance plus jitter.
func (c *TransitCollector) NearestSubwayDistance(lat, lng float64, rng *rand.Rand) float64 {
	if len(c.stations) == 0 {
		d := geo.DistanceToManhattan(lat, lng)/8 + uniform(rng, 0, 0.3)
		if d < 0.1 {
			d = 0.1
		}
		return d
	}

	min := -1.0
	for _, s := range c.stations {
		d := geo.DistanceMiles(lat, lng, s.Latitude, s.Longitude)
		if min < 0 || d < min {
			min = d
		}
	}
	if min < 0 {
		return 0.5
	}
	return min
}

func stationDistances(lat, lng float64, stations []types.SubwayStation) []float64 {
	distances := make([]float64, 0, len(stations))
	for _, s := range stations {
		if len(distances) >= maxStationScan {
			break
		}
		distances = append(distances, geo.DistanceMiles(lat, lng, s.Latitude, s.Longitude))
	}
	return distances
}

// EstimateTransitScore approximates transit access from distance to the
// Manhattan core when no station data is available.
func EstimateTransitScore(lat, lng float64, rng *rand.Rand) float64 {
	d := geo.DistanceToManhattan(lat, lng)
	switch {
	case d <= 2:
		return uniform(rng, 85, 100)
	case d <= 5:
		return uniform(rng, 70, 90)
	case d <= 10:
		return uniform(rng, 55, 75)
	default:
		return uniform(rng, 40, 60)
	}
}
