// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package geocode converts street addresses to coordinates using the
// Google Geocoding API, with a simulated fallback when no API key is
// configured. Geocoded coordinates are cross-checked against the input
// address by reverse geocoding.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/pdiddy/rentscope/internal/address"
	"github.com/pdiddy/rentscope/internal/geo"
	"github.com/pdiddy/rentscope/internal/httputil"
	"github.com/pdiddy/rentscope/pkg/types"
)

// googleGeocodeBase is the Google Geocoding endpoint. Declared as a var
// so tests can substitute an httptest server.
var googleGeocodeBase = "https://maps.googleapis.com/maps/api/geocode/json"

// Midtown Manhattan anchor for simulated coordinates.
const (
	simBaseLat = 40.7589
	simBaseLng = -73.9851
	simJitter  = 0.05
)

// matchThreshold is the minimum similarity between the input address and
// the reverse-geocoded address for validation to pass.
const matchThreshold = 0.7

// Validation reports how well geocoded coordinates match the input address.
type Validation struct {
	Valid          bool     `json:"is_valid"`
	Confidence     float64  `json:"confidence"`
	Issues         []string `json:"issues,omitempty"`
	ReverseAddress string   `json:"reverse_address,omitempty"`
}

// Geocoder resolves addresses through the Google Geocoding API. A zero
// APIKey puts it in demo mode: coordinates are simulated near midtown
// Manhattan and validation is limited to a bounds check.
type Geocoder struct {
	Client   *http.Client
	APIKey   string
	Limiter  *httputil.Limiter
	MinDelay time.Duration
}

// New returns a Geocoder with the given key. An empty key enables demo mode.
func New(client *http.Client, apiKey string, limiter *httputil.Limiter, minDelay time.Duration) *Geocoder {
	if minDelay <= 0 {
		minDelay = 100 * time.Millisecond
	}
	return &Geocoder{Client: client, APIKey: apiKey, Limiter: limiter, MinDelay: minDelay}
}

// Demo reports whether the geocoder operates without a real API key.
func (g *Geocoder) Demo() bool {
	return g.APIKey == "" || g.APIKey == "demo-api-key"
}

type googleResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves addr to coordinates. In demo mode it returns
// simulated coordinates drawn from rng. With a real key it queries
// Google, then validates the result against the input address and
// downgrades the quality to medium when validation raises issues.
func (g *Geocoder) Geocode(ctx context.Context, addr string, rng *rand.Rand) (*types.Coordinates, error) {
	if g.Demo() {
		return &types.Coordinates{
			Latitude:         simBaseLat + uniform(rng, -simJitter, simJitter),
			Longitude:        simBaseLng + uniform(rng, -simJitter, simJitter),
			FormattedAddress: addr,
			Quality:          types.QualitySimulated,
		}, nil
	}

	g.Limiter.Wait("geocoding", g.MinDelay)

	params := url.Values{
		"address":    {addr + ", New York, NY"},
		"key":        {g.APIKey},
		"components": {"locality:New York|administrative_area:NY|country:US"},
	}

	var gr googleResponse
	if err := g.get(ctx, params, &gr); err != nil {
		return nil, err
	}
	if gr.Status != "OK" || len(gr.Results) == 0 {
		return nil, fmt.Errorf("geocoding %s: status %s", addr, gr.Status)
	}

	result := gr.Results[0]
	coords := &types.Coordinates{
		Latitude:         result.Geometry.Location.Lat,
		Longitude:        result.Geometry.Location.Lng,
		FormattedAddress: result.FormattedAddress,
		Quality:          types.QualityHigh,
	}

	validation := g.Validate(ctx, addr, coords.Latitude, coords.Longitude)
	if !validation.Valid && len(validation.Issues) > 0 {
		coords.Quality = types.QualityMedium
		coords.ValidationIssues = validation.Issues
	}

	return coords, nil
}

// Validate checks that coordinates plausibly belong to addr. Out-of-bounds
// coordinates fail immediately. With a real API key the coordinates are
// reverse geocoded and compared to the input address; in demo mode only
// the bounds check applies and confidence is capped at 0.5.
func (g *Geocoder) Validate(ctx context.Context, addr string, lat, lng float64) Validation {
	v := Validation{}

	if !geo.InNYCBounds(lat, lng) {
		v.Issues = append(v.Issues, "Coordinates outside NYC boundaries")
		return v
	}

	if g.Demo() {
		v.Valid = true
		v.Confidence = 0.5
		v.Issues = append(v.Issues, "Demo mode - limited validation")
		return v
	}

	reverse, err := g.reverseGeocode(ctx, lat, lng)
	if err != nil || reverse == "" {
		return v
	}
	v.ReverseAddress = reverse

	similarity := address.Similarity(addr, reverse)
	v.Confidence = similarity
	if similarity >= matchThreshold {
		v.Valid = true
	} else {
		v.Issues = append(v.Issues, fmt.Sprintf(
			"Address mismatch: input=%q, geocoded=%q (similarity: %.2f)",
			addr, reverse, similarity))
	}

	return v
}

func (g *Geocoder) reverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	g.Limiter.Wait("geocoding", g.MinDelay)

	params := url.Values{
		"latlng":      {fmt.Sprintf("%f,%f", lat, lng)},
		"key":         {g.APIKey},
		"result_type": {"street_address"},
	}

	var gr googleResponse
	if err := g.get(ctx, params, &gr); err != nil {
		return "", err
	}
	if gr.Status != "OK" || len(gr.Results) == 0 {
		return "", nil
	}
	return gr.Results[0].FormattedAddress, nil
}

func (g *Geocoder) get(ctx context.Context, params url.Values, out *googleResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleGeocodeBase+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := httputil.DoWithRetry(ctx, g.Client, req, 0)
	if err != nil {
		return fmt.Errorf("geocoding API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocoding API returned HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing geocoding response: %w", err)
	}
	return nil
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
