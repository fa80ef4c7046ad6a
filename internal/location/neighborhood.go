// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package location derives per-coordinate signals for the analysis
// pipeline: safety, transit access, amenity density, neighborhood and
// the distances that feed the revenue model. Each collector reports
// whether its value came from a live source or a distance-based
// estimate, so the caller can account for data quality.
package location

import "math/rand"

// Market tiers for neighborhood classification.
const (
	TierLuxury     = "luxury"
	TierMid        = "mid-tier"
	TierAffordable = "affordable"
)

var luxuryNeighborhoods = map[string]bool{
	"Tribeca": true, "SoHo": true, "West Village": true, "Chelsea": true,
}

var midTierNeighborhoods = map[string]bool{
	"Upper East Side": true, "Upper West Side": true, "Midtown": true,
	"Financial District": true, "East Village": true,
}

// neighborhoodRents approximates asking rents by neighborhood and bedroom
// count, from 2024 market reports.
var neighborhoodRents = map[string]map[int]float64{
	"Tribeca":            {1: 4500, 2: 6500, 3: 9500, 4: 13000},
	"SoHo":               {1: 4200, 2: 6200, 3: 9000, 4: 12500},
	"West Village":       {1: 4000, 2: 5800, 3: 8500, 4: 12000},
	"East Village":       {1: 3500, 2: 5000, 3: 7500, 4: 10500},
	"Chelsea":            {1: 3800, 2: 5500, 3: 8000, 4: 11500},
	"Upper East Side":    {1: 3200, 2: 4800, 3: 7200, 4: 10000},
	"Upper West Side":    {1: 3000, 2: 4500, 3: 6800, 4: 9500},
	"Midtown":            {1: 3500, 2: 5200, 3: 7800, 4: 11000},
	"Financial District": {1: 3400, 2: 5000, 3: 7300, 4: 10200},
	"Williamsburg":       {1: 3200, 2: 4600, 3: 6800, 4: 9200},
	"Park Slope":         {1: 2900, 2: 4200, 3: 6200, 4: 8500},
	"DUMBO":              {1: 3100, 2: 4500, 3: 6500, 4: 8800},
	"Long Island City":   {1: 2700, 2: 3900, 3: 5800, 4: 7800},
	"Astoria":            {1: 2400, 2: 3500, 3: 5200, 4: 7000},
}

// defaultRents backs neighborhoods absent from the table.
var defaultRents = map[int]float64{1: 3000, 2: 4500, 3: 6800, 4: 9500}

// BaseRent returns the typical asking rent for a bedroom count in a
// neighborhood, falling back to citywide defaults.
func BaseRent(neighborhood string, bedrooms int) float64 {
	if rents, ok := neighborhoodRents[neighborhood]; ok {
		if r, ok := rents[bedrooms]; ok {
			return r
		}
	}
	if r, ok := defaultRents[bedrooms]; ok {
		return r
	}
	return 4500
}

// MarketTier classifies a neighborhood into luxury, mid-tier or affordable.
func MarketTier(neighborhood string) string {
	if luxuryNeighborhoods[neighborhood] {
		return TierLuxury
	}
	if midTierNeighborhoods[neighborhood] {
		return TierMid
	}
	return TierAffordable
}

// Neighborhood maps coordinates to a named NYC neighborhood. Each
// latitude/longitude band covers several adjacent neighborhoods; one is
// drawn at random from the band's candidates.
func Neighborhood(lat, lng float64, rng *rand.Rand) string {
	var candidates []string

	switch {
	case lat > 40.83:
		if lng > -73.94 {
			candidates = []string{"Harlem", "East Harlem", "Upper East Side"}
		} else {
			candidates = []string{"Washington Heights", "Inwood", "Hamilton Heights"}
		}
	case lat > 40.78:
		if lng > -73.96 {
			candidates = []string{"Upper East Side", "Yorkville", "Carnegie Hill"}
		} else {
			candidates = []string{"Upper West Side", "Morningside Heights", "Columbia University Area"}
		}
	case lat > 40.75:
		if lng > -73.97 {
			candidates = []string{"Midtown East", "Murray Hill", "Gramercy"}
		} else {
			candidates = []string{"Midtown West", "Hell's Kitchen", "Chelsea"}
		}
	case lat > 40.72:
		if lng > -73.98 {
			candidates = []string{"East Village", "Gramercy", "Union Square"}
		} else {
			candidates = []string{"West Village", "Greenwich Village", "SoHo", "NoHo"}
		}
	case lat > 40.70:
		candidates = []string{"Tribeca", "Financial District", "Battery Park"}
	case lng > -73.95:
		if lat > 40.68 {
			candidates = []string{"Williamsburg", "Greenpoint", "Long Island City"}
		} else {
			candidates = []string{"DUMBO", "Brooklyn Heights", "Park Slope"}
		}
	default:
		candidates = []string{"Astoria", "Sunnyside", "Forest Hills", "Flushing"}
	}

	return candidates[rng.Intn(len(candidates))]
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
