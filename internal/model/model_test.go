// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package model

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/pdiddy/rentscope/pkg/types"
)

func testFeatures() Features {
	return Features{
		Bedrooms:      2,
		Bathrooms:     1.5,
		Sqft:          950,
		YearBuilt:     1985,
		LastSalePrice: 1200000,
	}
}

// --- solve / ridgeFit ---

func TestSolveSmallSystem(t *testing.T) {
	// 2x + y = 5, x + 3y = 10 -> x = 1, y = 3
	A := [][]float64{{2, 1}, {1, 3}}
	b := []float64{5, 10}

	w, err := solve(A, b)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if math.Abs(w[0]-1) > 1e-9 || math.Abs(w[1]-3) > 1e-9 {
		t.Errorf("solve = %v, want [1 3]", w)
	}
}

func TestSolveSingular(t *testing.T) {
	A := [][]float64{{1, 2}, {2, 4}}
	b := []float64{3, 6}
	if _, err := solve(A, b); err == nil {
		t.Error("expected error for singular system")
	}
}

func TestRidgeFitRecoversLine(t *testing.T) {
	// y = 3 + 2x, no noise, no regularization.
	var X [][]float64
	var y []float64
	for i := 0; i < 20; i++ {
		x := float64(i)
		X = append(X, []float64{x})
		y = append(y, 3+2*x)
	}

	w, err := ridgeFit(X, y, 0)
	if err != nil {
		t.Fatalf("ridgeFit: %v", err)
	}
	if math.Abs(w[0]-3) > 1e-6 || math.Abs(w[1]-2) > 1e-6 {
		t.Errorf("weights = %v, want [3 2]", w)
	}
}

// --- synthetic data ---

func TestGenerateTrainingDataInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	samples := generateTrainingData(500, rng)

	if len(samples) != 500 {
		t.Fatalf("len = %d, want 500", len(samples))
	}
	for _, s := range samples {
		if s.Bedrooms < 1 || s.Bedrooms > 4 {
			t.Fatalf("bedrooms = %d", s.Bedrooms)
		}
		if s.Bathrooms < 1 || s.Bathrooms > 4 {
			t.Fatalf("bathrooms = %v", s.Bathrooms)
		}
		if s.Sqft < 400 || s.Sqft > 3000 {
			t.Fatalf("sqft = %d", s.Sqft)
		}
		if s.YearBuilt < 1950 || s.YearBuilt > 2024 {
			t.Fatalf("year = %d", s.YearBuilt)
		}
		if s.LastSalePrice < 400000 || s.LastSalePrice > 8000000 {
			t.Fatalf("price = %v", s.LastSalePrice)
		}
		if s.MonthlyRent < minRent || s.MonthlyRent > maxRent {
			t.Fatalf("rent = %v outside [%d, %d]", s.MonthlyRent, minRent, maxRent)
		}
	}
}

func TestMarketRentPremiums(t *testing.T) {
	base := Features{
		Bedrooms: 2, Bathrooms: 2, Sqft: 950, YearBuilt: 2000,
		LastSalePrice: 1500000, PropertyType: "Rental",
		CrimeScore: 75, WalkabilityScore: 75, TransitScore: 75, AmenityScore: 75,
		DistanceToSubway: 0.3, DistanceToManhattan: 3,
	}

	// Use a deterministic comparison by averaging out the noise.
	avgRent := func(f Features) float64 {
		rng := rand.New(rand.NewSource(1))
		sum := 0.0
		for i := 0; i < 200; i++ {
			sum += marketRent(f, rng)
		}
		return sum / 200
	}

	tribeca, astoria := base, base
	tribeca.Neighborhood = "Tribeca"
	astoria.Neighborhood = "Astoria"
	if avgRent(tribeca) <= avgRent(astoria) {
		t.Error("Tribeca should rent above Astoria, all else equal")
	}

	nearSubway, farSubway := base, base
	nearSubway.DistanceToSubway = 0.1
	farSubway.DistanceToSubway = 1.8
	if avgRent(nearSubway) <= avgRent(farSubway) {
		t.Error("subway proximity should carry a premium")
	}
}

// --- Train ---

func TestTrainDeterministicUnderSeed(t *testing.T) {
	cfg := types.ModelConfig{TrainingSamples: 400, Seed: 42}

	a, err := Train(cfg)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	b, err := Train(cfg)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	if a.Metrics() != b.Metrics() {
		t.Errorf("metrics differ across runs: %+v vs %+v", a.Metrics(), b.Metrics())
	}

	pa, err := a.Predict(testFeatures())
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	pb, err := b.Predict(testFeatures())
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if pa.PredictedMonthlyRent != pb.PredictedMonthlyRent {
		t.Errorf("predictions differ: %v vs %v", pa.PredictedMonthlyRent, pb.PredictedMonthlyRent)
	}
}

func TestTrainMetricsReasonable(t *testing.T) {
	p, err := Train(types.ModelConfig{TrainingSamples: 1500, Seed: 42})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	m := p.Metrics()
	if m.RMSE <= 0 {
		t.Errorf("RMSE = %v, want positive", m.RMSE)
	}
	if m.R2 < 0.3 {
		t.Errorf("R2 = %v, want the model to explain a fair share of rent variance", m.R2)
	}
	if m.MAE <= 0 || m.MAE > m.RMSE {
		t.Errorf("MAE = %v, want positive and <= RMSE %v", m.MAE, m.RMSE)
	}
}

func TestTrainRejectsTinySampleCount(t *testing.T) {
	if _, err := Train(types.ModelConfig{TrainingSamples: 10, Seed: 1}); err == nil {
		t.Error("expected error for tiny training set")
	}
}

// --- Predict ---

func TestPredictRange(t *testing.T) {
	p, err := Train(types.ModelConfig{TrainingSamples: 1500, Seed: 42})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	pred, err := p.Predict(testFeatures())
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}

	if pred.PredictedMonthlyRent < minRent || pred.PredictedMonthlyRent > maxRent {
		t.Errorf("rent = %v outside [%d, %d]", pred.PredictedMonthlyRent, minRent, maxRent)
	}
	if pred.ConfidenceLow > pred.PredictedMonthlyRent || pred.ConfidenceHigh < pred.PredictedMonthlyRent {
		t.Errorf("interval [%v, %v] does not bracket prediction %v",
			pred.ConfidenceLow, pred.ConfidenceHigh, pred.PredictedMonthlyRent)
	}
	if pred.ConfidenceLow < ciLowerFloor {
		t.Errorf("interval lower bound %v below floor %d", pred.ConfidenceLow, ciLowerFloor)
	}
	if pred.AnnualRevenue != pred.PredictedMonthlyRent*12 {
		t.Errorf("annual revenue %v != 12x monthly %v", pred.AnnualRevenue, pred.PredictedMonthlyRent)
	}
	switch pred.PredictionConfidence {
	case "High", "Medium", "Low":
	default:
		t.Errorf("confidence = %q", pred.PredictionConfidence)
	}
}

func TestPredictRequiresCoreFeatures(t *testing.T) {
	p, err := Train(types.ModelConfig{TrainingSamples: 400, Seed: 42})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Features)
	}{
		{"bedrooms", func(f *Features) { f.Bedrooms = 0 }},
		{"bathrooms", func(f *Features) { f.Bathrooms = 0 }},
		{"sqft", func(f *Features) { f.Sqft = 0 }},
		{"year_built", func(f *Features) { f.YearBuilt = 0 }},
		{"last_sale_price", func(f *Features) { f.LastSalePrice = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := testFeatures()
			tt.mutate(&f)
			_, err := p.Predict(f)
			if err == nil {
				t.Fatal("expected error for missing required feature")
			}
			if !strings.Contains(err.Error(), tt.name) {
				t.Errorf("error %q should name the missing feature %q", err, tt.name)
			}
		})
	}
}

func TestFillDefaults(t *testing.T) {
	filled, err := FillDefaults(testFeatures())
	if err != nil {
		t.Fatalf("FillDefaults: %v", err)
	}

	if filled.CrimeScore != 75 || filled.WalkabilityScore != 75 || filled.TransitScore != 75 {
		t.Errorf("score defaults not applied: %+v", filled)
	}
	if filled.AmenityScore != 65 {
		t.Errorf("amenity default = %v, want 65", filled.AmenityScore)
	}
	if filled.DistanceToSubway != 0.3 || filled.DistanceToManhattan != 5.0 {
		t.Errorf("distance defaults not applied: %+v", filled)
	}
	if filled.PropertyType != "Condo" || filled.Neighborhood != "Midtown" {
		t.Errorf("categorical defaults not applied: %+v", filled)
	}
}

func TestFillDefaultsKeepsProvidedValues(t *testing.T) {
	f := testFeatures()
	f.CrimeScore = 42
	f.Neighborhood = "Astoria"

	filled, err := FillDefaults(f)
	if err != nil {
		t.Fatalf("FillDefaults: %v", err)
	}
	if filled.CrimeScore != 42 {
		t.Errorf("crime score overwritten: %v", filled.CrimeScore)
	}
	if filled.Neighborhood != "Astoria" {
		t.Errorf("neighborhood overwritten: %q", filled.Neighborhood)
	}
}
