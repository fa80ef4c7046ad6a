// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package location

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/pdiddy/rentscope/internal/geo"
	"github.com/pdiddy/rentscope/internal/httputil"
)

// googlePlacesBase is the Places nearby-search endpoint. Declared as a
// var so tests can substitute an httptest server.
var googlePlacesBase = "https://maps.googleapis.com/maps/api/place/nearbysearch/json"

// amenityWeights grades each place type by its contribution to
// residential desirability.
var amenityWeights = map[string]float64{
	"restaurant":             1.0,
	"school":                 2.5,
	"hospital":               2.0,
	"grocery_or_supermarket": 2.0,
	"bank":                   0.8,
	"pharmacy":               1.2,
	"park":                   2.5,
	"gym":                    1.5,
	"subway_station":         3.0,
	"shopping_mall":          1.2,
	"cafe":                   0.8,
	"library":                1.5,
	"post_office":            0.5,
}

// AmenityResult is the outcome of an amenity survey around a coordinate.
type AmenityResult struct {
	Score  float64
	Counts map[string]int
	Total  int
}

// AmenityCollector surveys nearby amenities through the Places API. An
// empty APIKey selects the simulated path.
type AmenityCollector struct {
	Client       *http.Client
	APIKey       string
	Limiter      *httputil.Limiter
	MinDelay     time.Duration
	RadiusMeters int
}

// NewAmenityCollector returns a collector. With an empty key every
// Collect call simulates counts from Manhattan proximity.
func NewAmenityCollector(client *http.Client, apiKey string, limiter *httputil.Limiter, minDelay time.Duration, radiusMeters int) *AmenityCollector {
	if minDelay <= 0 {
		minDelay = 100 * time.Millisecond
	}
	if radiusMeters <= 0 {
		radiusMeters = 1000
	}
	return &AmenityCollector{
		Client:       client,
		APIKey:       apiKey,
		Limiter:      limiter,
		MinDelay:     minDelay,
		RadiusMeters: radiusMeters,
	}
}

type placesResponse struct {
	Results []struct {
		Name string `json:"name"`
	} `json:"results"`
}

// Collect surveys each weighted place type around the coordinates. The
// second return reports whether live data produced the result; with no
// API key (or when every type query fails) counts are simulated from rng.
func (a *AmenityCollector) Collect(ctx context.Context, lat, lng float64, rng *rand.Rand) (AmenityResult, bool) {
	if a.APIKey == "" || a.APIKey == "demo-api-key" {
		return a.Simulate(lat, lng, rng), false
	}

	counts := make(map[string]int, len(amenityWeights))
	var weighted float64
	anySourced := false

	for placeType, weight := range amenityWeights {
		count, err := a.countNearby(ctx, lat, lng, placeType)
		if err != nil {
			counts[placeType] = 0
			continue
		}
		anySourced = true
		counts[placeType] = count
		weighted += float64(count) * weight
	}

	if !anySourced {
		return a.Simulate(lat, lng, rng), false
	}

	score := weighted * 1.5
	if score > 100 {
		score = 100
	}

	total := 0
	for _, c := range counts {
		total += c
	}

	return AmenityResult{Score: round1(score), Counts: counts, Total: total}, true
}

func (a *AmenityCollector) countNearby(ctx context.Context, lat, lng float64, placeType string) (int, error) {
	a.Limiter.Wait("google_places", a.MinDelay)

	params := url.Values{
		"location": {fmt.Sprintf("%f,%f", lat, lng)},
		"radius":   {fmt.Sprintf("%d", a.RadiusMeters)},
		"type":     {placeType},
		"key":      {a.APIKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googlePlacesBase+"?"+params.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}

	resp, err := httputil.DoWithRetry(ctx, a.Client, req, 0)
	if err != nil {
		return 0, fmt.Errorf("places API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("places API returned HTTP %d", resp.StatusCode)
	}

	var pr placesResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return 0, fmt.Errorf("parsing places response: %w", err)
	}
	return len(pr.Results), nil
}

// Simulate generates amenity counts from Manhattan proximity. Density
// thins out with distance from the core.
func (a *AmenityCollector) Simulate(lat, lng float64, rng *rand.Rand) AmenityResult {
	d := geo.DistanceToManhattan(lat, lng)

	var mult float64
	switch {
	case d <= 2:
		mult = 1.2
	case d <= 5:
		mult = 1.0
	case d <= 10:
		mult = 0.8
	default:
		mult = 0.6
	}

	counts := map[string]int{
		"restaurant":             int(float64(8+rng.Intn(17)) * mult),
		"school":                 int(float64(1+rng.Intn(3)) * mult),
		"park":                   int(float64(1+rng.Intn(5)) * mult),
		"hospital":               int(float64(rng.Intn(2)) * mult),
		"grocery_or_supermarket": int(float64(2+rng.Intn(6)) * mult),
		"subway_station":         int(float64(1+rng.Intn(3)) * mult),
		"gym":                    int(float64(1+rng.Intn(4)) * mult),
	}

	total := 0
	for _, c := range counts {
		total += c
	}

	score := float64(total) * 2.5
	if score > 100 {
		score = 100
	}

	return AmenityResult{Score: round1(score), Counts: counts, Total: total}
}

// Walkability blends transit and amenity access into a single 0-100 score.
func Walkability(transitScore, amenityScore float64) float64 {
	w := transitScore*0.6 + amenityScore*0.4
	if w > 100 {
		w = 100
	}
	return round1(w)
}
