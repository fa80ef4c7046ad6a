// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"math/rand"

	"github.com/pdiddy/rentscope/internal/location"
	"github.com/pdiddy/rentscope/pkg/types"
)

// tierProfile describes the housing stock of one neighborhood tier.
type tierProfile struct {
	propertyTypes []weighted
	bedrooms      []weightedInt
	sqftBase      map[int]float64
	priceBase     map[int]float64
}

type weighted struct {
	value  string
	weight float64
}

type weightedInt struct {
	value  int
	weight float64
}

var luxuryEstimation = map[string]bool{
	"Tribeca": true, "SoHo": true, "West Village": true,
}

var midEstimation = map[string]bool{
	"Upper East Side": true, "Upper West Side": true, "Chelsea": true,
}

var tierProfiles = map[string]tierProfile{
	location.TierLuxury: {
		propertyTypes: []weighted{{"Condo", 0.7}, {"Co-op", 0.3}},
		bedrooms:      []weightedInt{{1, 0.2}, {2, 0.4}, {3, 0.3}, {4, 0.1}},
		sqftBase:      map[int]float64{1: 800, 2: 1200, 3: 1600, 4: 2200},
		priceBase:     map[int]float64{1: 1200000, 2: 1800000, 3: 2800000, 4: 4000000},
	},
	location.TierMid: {
		propertyTypes: []weighted{{"Condo", 0.4}, {"Co-op", 0.4}, {"Rental", 0.2}},
		bedrooms:      []weightedInt{{1, 0.3}, {2, 0.4}, {3, 0.2}, {4, 0.1}},
		sqftBase:      map[int]float64{1: 650, 2: 1000, 3: 1400, 4: 1800},
		priceBase:     map[int]float64{1: 800000, 2: 1300000, 3: 2000000, 4: 2800000},
	},
	location.TierAffordable: {
		propertyTypes: []weighted{{"Condo", 0.3}, {"Co-op", 0.3}, {"Rental", 0.4}},
		bedrooms:      []weightedInt{{1, 0.4}, {2, 0.4}, {3, 0.15}, {4, 0.05}},
		sqftBase:      map[int]float64{1: 550, 2: 850, 3: 1200, 4: 1500},
		priceBase:     map[int]float64{1: 600000, 2: 900000, 3: 1400000, 4: 1900000},
	},
}

// estimationTier classifies a neighborhood for stock estimation. The
// estimation tiers differ slightly from rental market tiers: Chelsea
// rents like luxury but its sale stock profiles as mid-tier.
func estimationTier(neighborhood string) string {
	switch {
	case luxuryEstimation[neighborhood]:
		return location.TierLuxury
	case midEstimation[neighborhood]:
		return location.TierMid
	default:
		return location.TierAffordable
	}
}

// EstimateByTier synthesizes a property record from neighborhood housing
// patterns when the registry has no usable match. Attributes are drawn
// from rng around the tier's typical stock.
func EstimateByTier(addr string, lat, lng float64, rng *rand.Rand) *types.PropertyRecord {
	neighborhood := location.Neighborhood(lat, lng, rng)
	profile := tierProfiles[estimationTier(neighborhood)]

	bedrooms := chooseInt(rng, profile.bedrooms)
	sqft := int(profile.sqftBase[bedrooms] * uniform(rng, 0.85, 1.15))
	bathrooms := float64(bedrooms) + []float64{-0.5, 0, 0.5}[rng.Intn(3)]
	if bathrooms < 1.0 {
		bathrooms = 1.0
	}

	return &types.PropertyRecord{
		Address:       addr,
		Latitude:      lat,
		Longitude:     lng,
		PropertyType:  choose(rng, profile.propertyTypes),
		Bedrooms:      bedrooms,
		Bathrooms:     bathrooms,
		Sqft:          sqft,
		YearBuilt:     1960 + rng.Intn(60),
		LastSalePrice: float64(int(profile.priceBase[bedrooms] * uniform(rng, 0.8, 1.2))),
		LastSaleDate:  "",
		Source:        types.SourceEstimated,
		Quality:       types.QualityEstimated,
	}
}

func choose(rng *rand.Rand, options []weighted) string {
	total := 0.0
	for _, o := range options {
		total += o.weight
	}
	roll := rng.Float64() * total
	for _, o := range options {
		roll -= o.weight
		if roll < 0 {
			return o.value
		}
	}
	return options[len(options)-1].value
}

func chooseInt(rng *rand.Rand, options []weightedInt) int {
	total := 0.0
	for _, o := range options {
		total += o.weight
	}
	roll := rng.Float64() * total
	for _, o := range options {
		roll -= o.weight
		if roll < 0 {
			return o.value
		}
	}
	return options[len(options)-1].value
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
