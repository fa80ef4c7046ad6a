// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package location

import (
	"context"
	"math"
	"math/rand"
	"net/http"
	"time"

	"github.com/pdiddy/rentscope/internal/geo"
	"github.com/pdiddy/rentscope/internal/httputil"
	"github.com/pdiddy/rentscope/pkg/types"
)

// Collector gathers every location signal for a coordinate pair.
type Collector struct {
	Crime   *CrimeCollector
	Transit *TransitCollector
	Amenity *AmenityCollector

	// CrimeRadiusMiles bounds the incident search (default 0.5).
	CrimeRadiusMiles float64
}

// NewCollector wires the three sub-collectors from configuration.
// Station data is loaded eagerly so later scores never block on it.
func NewCollector(ctx context.Context, client *http.Client, cfg types.LocationConfig, limiter *httputil.Limiter) *Collector {
	radius := cfg.CrimeRadiusMiles
	if radius <= 0 {
		radius = 0.5
	}
	return &Collector{
		Crime:            NewCrimeCollector(client, cfg.AppToken, limiter, cfg.MinDelay),
		Transit:          NewTransitCollector(ctx, client, cfg.StationsFile),
		Amenity:          NewAmenityCollector(client, cfg.PlacesAPIKey, limiter, 100*time.Millisecond, cfg.AmenityRadiusMeters),
		CrimeRadiusMiles: radius,
	}
}

// Collect assembles the full feature set for the coordinates. Each
// sub-score degrades independently to its estimate when its source
// fails, and the sourced flags record which path produced each value.
func (c *Collector) Collect(ctx context.Context, lat, lng float64, rng *rand.Rand) types.LocationFeatures {
	crimeScore, crimeSourced := c.Crime.Collect(ctx, lat, lng, c.CrimeRadiusMiles, rng)
	transitScore, transitSourced := c.Transit.Score(lat, lng, rng)
	amenities, amenitiesSourced := c.Amenity.Collect(ctx, lat, lng, rng)

	return types.LocationFeatures{
		CrimeScore:          crimeScore,
		TransitScore:        transitScore,
		AmenityScore:        amenities.Score,
		WalkabilityScore:    Walkability(transitScore, amenities.Score),
		DistanceToSubway:    round2(c.Transit.NearestSubwayDistance(lat, lng, rng)),
		DistanceToManhattan: round2(geo.DistanceToManhattan(lat, lng)),
		Neighborhood:        Neighborhood(lat, lng, rng),
		AmenityCounts:       amenities.Counts,
		TotalAmenities:      amenities.Total,
		CrimeSourced:        crimeSourced,
		TransitSourced:      transitSourced,
		AmenitiesSourced:    amenitiesSourced,
	}
}

// Estimate produces a fully simulated feature set from Manhattan
// proximity alone, for the path where even geocoding ran in demo mode.
func Estimate(lat, lng float64, rng *rand.Rand) types.LocationFeatures {
	d := geo.DistanceToManhattan(lat, lng)

	var crime, transit, amenity float64
	switch {
	case d <= 3:
		crime = uniform(rng, 75, 90)
		transit = uniform(rng, 80, 95)
		amenity = uniform(rng, 70, 90)
	case d <= 8:
		crime = uniform(rng, 70, 85)
		transit = uniform(rng, 65, 85)
		amenity = uniform(rng, 60, 80)
	default:
		crime = uniform(rng, 65, 80)
		transit = uniform(rng, 50, 70)
		amenity = uniform(rng, 50, 70)
	}

	return types.LocationFeatures{
		CrimeScore:          round1(crime),
		TransitScore:        round1(transit),
		AmenityScore:        round1(amenity),
		WalkabilityScore:    round1((transit + amenity) / 2),
		DistanceToSubway:    round2(uniform(rng, 0.1, 0.8)),
		DistanceToManhattan: round2(d),
		Neighborhood:        Neighborhood(lat, lng, rng),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
