// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package comps assembles rental comparables around a property. Until a
// listing feed is integrated the comparables are synthesized from
// neighborhood market rents, and their listing_source labels mark them
// as generated so the quality assessor never credits them as observed
// data.
package comps

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/pdiddy/rentscope/internal/geo"
	"github.com/pdiddy/rentscope/internal/location"
	"github.com/pdiddy/rentscope/pkg/types"
)

// compRadiusMiles bounds how far a generated comparable may sit from the
// subject property.
const compRadiusMiles = 0.5

// generatedSources label market-derived comparables. Both are in
// types.PlaceholderListingSources.
var generatedSources = []string{"Market Estimate", "Neighborhood Model"}

// fallbackRents back the minimal path when even neighborhood market data
// is unusable.
var fallbackRents = map[int]float64{1: 3200, 2: 4500, 3: 6800, 4: 9500}

// Collect returns 3-6 comparables around the coordinates, priced from
// the neighborhood's market band with a small distance penalty.
func Collect(lat, lng float64, bedrooms int, rng *rand.Rand) []types.RentalComparable {
	neighborhood := location.Neighborhood(lat, lng, rng)
	base := location.BaseRent(neighborhood, bedrooms)
	minRent := base * 0.85
	maxRent := base * 1.15

	n := 3 + rng.Intn(4)
	comparables := make([]types.RentalComparable, 0, n)

	for i := 0; i < n; i++ {
		latOff := uniform(rng, -compRadiusMiles/69, compRadiusMiles/69)
		lngOff := uniform(rng, -compRadiusMiles/69, compRadiusMiles/69)
		compLat := lat + latOff
		compLng := lng + lngOff

		distance := geo.DistanceMiles(lat, lng, compLat, compLng)
		rent := uniform(rng, minRent, maxRent) * (1 - distance*0.05)

		sqft := bedrooms*450 + rng.Intn(300) - 100
		if sqft < 300 {
			sqft = 300
		}

		bathrooms := float64(bedrooms) + []float64{-0.5, 0, 0.5, 1.0}[rng.Intn(4)]
		if bathrooms < 1.0 {
			bathrooms = 1.0
		}

		comparables = append(comparables, types.RentalComparable{
			Address:       fmt.Sprintf("%d %s %d, NY", 100+i*75, []string{"Street", "Avenue", "Place"}[rng.Intn(3)], i+1),
			Latitude:      compLat,
			Longitude:     compLng,
			MonthlyRent:   math.Round(rent),
			Bedrooms:      bedrooms,
			Bathrooms:     bathrooms,
			Sqft:          sqft,
			DistanceMiles: round2(distance),
			ListingSource: generatedSources[rng.Intn(len(generatedSources))],
		})
	}

	return comparables
}

// Fallback returns three minimal comparables from citywide base rents,
// for the path where neighborhood derivation itself is unavailable.
func Fallback(lat, lng float64, bedrooms int, rng *rand.Rand) []types.RentalComparable {
	base, ok := fallbackRents[bedrooms]
	if !ok {
		base = 4500
	}

	comparables := make([]types.RentalComparable, 0, 3)
	for i := 0; i < 3; i++ {
		comparables = append(comparables, types.RentalComparable{
			Address:       fmt.Sprintf("Sample Address %d, NY", i+1),
			Latitude:      lat + uniform(rng, -0.01, 0.01),
			Longitude:     lng + uniform(rng, -0.01, 0.01),
			MonthlyRent:   math.Round(base * uniform(rng, 0.85, 1.15)),
			Bedrooms:      bedrooms,
			Bathrooms:     float64(bedrooms) + 0.5,
			Sqft:          bedrooms * 450,
			DistanceMiles: 0.3,
			ListingSource: "Estimated",
		})
	}
	return comparables
}

// AverageRent returns the mean monthly rent, or 0 for an empty set.
func AverageRent(comparables []types.RentalComparable) float64 {
	if len(comparables) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range comparables {
		sum += c.MonthlyRent
	}
	return sum / float64(len(comparables))
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
