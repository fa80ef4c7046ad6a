// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package model

import (
	"math"
	"math/rand"
)

// sample is one synthetic training record.
type sample struct {
	Features
	MonthlyRent float64
}

// typeMultipliers and neighborhoodMultipliers encode the categorical
// features numerically for the linear model. Values mirror observed NYC
// market premiums.
var typeMultipliers = map[string]float64{
	"Condo": 1.1, "Co-op": 0.95, "Rental": 1.0,
}

var neighborhoodMultipliers = map[string]float64{
	"Tribeca": 1.8, "SoHo": 1.7, "West Village": 1.6, "Chelsea": 1.4,
	"Upper East Side": 1.3, "Upper West Side": 1.25, "Midtown": 1.2,
	"East Village": 1.1, "Financial District": 1.05, "DUMBO": 1.0,
	"Williamsburg": 1.0, "Park Slope": 0.95, "Carroll Gardens": 0.9,
	"Long Island City": 0.85, "Astoria": 0.8, "Red Hook": 0.75,
}

var synthNeighborhoods = []string{
	"Upper West Side", "Upper East Side", "Midtown", "Chelsea", "SoHo",
	"East Village", "West Village", "Tribeca", "Financial District",
	"Williamsburg", "Park Slope", "Astoria", "Long Island City",
	"DUMBO", "Carroll Gardens", "Red Hook",
}

// baseRentByBedrooms anchors the synthetic rent formula (2024 rates).
var baseRentByBedrooms = map[int]float64{1: 3200, 2: 4500, 3: 6500, 4: 9000}

var synthSqftBase = map[int]float64{1: 650, 2: 950, 3: 1300, 4: 1800}

// Rent bounds applied to both synthetic targets and predictions.
const (
	minRent = 1800
	maxRent = 25000
)

// generateTrainingData synthesizes n property records with rents derived
// from NYC market patterns. All randomness comes from rng so training is
// reproducible under a fixed seed.
func generateTrainingData(n int, rng *rand.Rand) []sample {
	samples := make([]sample, n)

	for i := range samples {
		bedrooms := chooseWeightedInt(rng, []int{1, 2, 3, 4}, []float64{0.3, 0.4, 0.2, 0.1})
		bathrooms := clamp(float64(bedrooms)+chooseWeightedFloat(rng, []float64{0, 0.5, 1}, []float64{0.3, 0.4, 0.3}), 1, 4)
		sqft := clamp(synthSqftBase[bedrooms]+rng.NormFloat64()*150, 400, 3000)
		yearBuilt := int(clamp(1980+rng.NormFloat64()*20, 1950, 2024))
		propertyType := chooseWeightedString(rng, []string{"Condo", "Co-op", "Rental"}, []float64{0.4, 0.3, 0.3})

		crime := clamp(75+rng.NormFloat64()*15, 30, 100)
		walkability := clamp(78+rng.NormFloat64()*18, 40, 100)
		transit := clamp(80+rng.NormFloat64()*15, 45, 100)
		amenity := clamp(65+rng.NormFloat64()*20, 25, 100)

		distSubway := clamp(rng.ExpFloat64()*0.3, 0.05, 2.0)
		distManhattan := clamp(rng.ExpFloat64()*5, 0.5, 25)

		neighborhood := synthNeighborhoods[rng.Intn(len(synthNeighborhoods))]
		salePrice := clamp(math.Exp(14.2+rng.NormFloat64()*0.5), 400000, 8000000)

		f := Features{
			Bedrooms:            bedrooms,
			Bathrooms:           bathrooms,
			Sqft:                int(sqft),
			YearBuilt:           yearBuilt,
			LastSalePrice:       salePrice,
			PropertyType:        propertyType,
			Neighborhood:        neighborhood,
			CrimeScore:          crime,
			WalkabilityScore:    walkability,
			TransitScore:        transit,
			AmenityScore:        amenity,
			DistanceToSubway:    distSubway,
			DistanceToManhattan: distManhattan,
		}

		samples[i] = sample{
			Features:    f,
			MonthlyRent: marketRent(f, rng),
		}
	}

	return samples
}

// marketRent prices a property from NYC market patterns: a per-bedroom
// base adjusted for size, age, ownership type, location scores, subway
// and Manhattan proximity, neighborhood premium, sale price and bathroom
// count, with multiplicative market noise.
func marketRent(f Features, rng *rand.Rand) float64 {
	rent := baseRentByBedrooms[f.Bedrooms]
	if rent == 0 {
		rent = 4500
	}

	rent += (float64(f.Sqft) - 900) * 2.5

	age := float64(2024 - f.YearBuilt)
	rent *= 0.85 + 0.3*math.Exp(-age/80)

	if mult, ok := typeMultipliers[f.PropertyType]; ok {
		rent *= mult
	}

	locationScore := (f.CrimeScore + f.WalkabilityScore + f.TransitScore + f.AmenityScore) / 400
	rent *= 0.7 + 0.6*locationScore

	rent *= math.Exp(-f.DistanceToSubway / 1.5)
	rent *= math.Exp(-f.DistanceToManhattan / 15)

	if mult, ok := neighborhoodMultipliers[f.Neighborhood]; ok {
		rent *= mult
	}

	priceFactor := clamp(math.Log(f.LastSalePrice/1000000), 0, 2)
	rent *= 0.8 + 0.2*priceFactor

	rent *= 1 + (f.Bathrooms-float64(f.Bedrooms))*0.15

	rent *= 1 + rng.NormFloat64()*0.08

	return clamp(math.Round(rent), minRent, maxRent)
}

func chooseWeightedInt(rng *rand.Rand, values []int, weights []float64) int {
	roll := rng.Float64()
	for i, w := range weights {
		roll -= w
		if roll < 0 {
			return values[i]
		}
	}
	return values[len(values)-1]
}

func chooseWeightedFloat(rng *rand.Rand, values, weights []float64) float64 {
	roll := rng.Float64()
	for i, w := range weights {
		roll -= w
		if roll < 0 {
			return values[i]
		}
	}
	return values[len(values)-1]
}

func chooseWeightedString(rng *rand.Rand, values []string, weights []float64) string {
	roll := rng.Float64()
	for i, w := range weights {
		roll -= w
		if roll < 0 {
			return values[i]
		}
	}
	return values[len(values)-1]
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
