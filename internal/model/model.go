// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package model trains a ridge regression predictor for monthly rental
// revenue on synthetic NYC market data and serves per-property
// predictions with a confidence interval derived from holdout RMSE.
package model

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/pdiddy/rentscope/pkg/types"
)

const (
	defaultTrainingSamples = 1500
	holdoutFraction        = 0.2
	ridgeLambda            = 1.0

	// ciLowerFloor keeps the interval's lower bound out of implausible
	// territory for NYC.
	ciLowerFloor = 1500
)

// Features are the model inputs for one property. Bedrooms, Bathrooms,
// Sqft, YearBuilt and LastSalePrice are required; zero values for the
// remaining fields select market defaults.
type Features struct {
	Bedrooms      int
	Bathrooms     float64
	Sqft          int
	YearBuilt     int
	LastSalePrice float64

	PropertyType        string
	Neighborhood        string
	CrimeScore          float64
	WalkabilityScore    float64
	TransitScore        float64
	AmenityScore        float64
	DistanceToSubway    float64
	DistanceToManhattan float64
}

// Metrics summarizes holdout performance of the trained model.
type Metrics struct {
	RMSE float64 `json:"rmse" yaml:"rmse"`
	MAE  float64 `json:"mae" yaml:"mae"`
	R2   float64 `json:"r2" yaml:"r2"`
}

// Predictor is a trained revenue model. Train once, then Predict from
// any number of goroutines; the predictor is immutable after training.
type Predictor struct {
	weights []float64 // weights[0] is the intercept
	means   []float64
	stds    []float64
	metrics Metrics
	samples int
}

// Train builds a predictor from cfg. The synthetic training set and the
// holdout split are driven entirely by cfg.Seed, so equal seeds produce
// equal models.
func Train(cfg types.ModelConfig) (*Predictor, error) {
	n := cfg.TrainingSamples
	if n <= 0 {
		n = defaultTrainingSamples
	}
	if n < 50 {
		return nil, fmt.Errorf("training requires at least 50 samples, got %d", n)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	samples := generateTrainingData(n, rng)

	rng.Shuffle(len(samples), func(i, j int) {
		samples[i], samples[j] = samples[j], samples[i]
	})
	holdout := int(float64(len(samples)) * holdoutFraction)
	test, train := samples[:holdout], samples[holdout:]

	X := make([][]float64, len(train))
	y := make([]float64, len(train))
	for i, s := range train {
		X[i] = featureVector(s.Features)
		y[i] = s.MonthlyRent
	}

	means, stds := columnStats(X)
	for i := range X {
		standardize(X[i], means, stds)
	}

	weights, err := ridgeFit(X, y, ridgeLambda)
	if err != nil {
		return nil, fmt.Errorf("fitting model: %w", err)
	}

	p := &Predictor{weights: weights, means: means, stds: stds, samples: n}
	p.metrics = p.evaluate(test)
	return p, nil
}

// Metrics returns the holdout metrics captured at training time.
func (p *Predictor) Metrics() Metrics { return p.metrics }

// TrainingSamples returns the synthetic training set size.
func (p *Predictor) TrainingSamples() int { return p.samples }

// Predict estimates monthly rent for the property. Required features
// must be set; optional ones fall back to market defaults. The interval
// is predicted rent ± 1.96 RMSE with the lower bound floored.
func (p *Predictor) Predict(f Features) (*types.RevenuePrediction, error) {
	filled, err := FillDefaults(f)
	if err != nil {
		return nil, err
	}

	x := featureVector(filled)
	standardize(x, p.means, p.stds)

	rent := p.weights[0]
	for i, v := range x {
		rent += p.weights[i+1] * v
	}
	rent = clamp(math.Round(rent), minRent, maxRent)

	rmse := p.metrics.RMSE
	low := rent - 1.96*rmse
	if low < ciLowerFloor {
		low = ciLowerFloor
	}

	confidence := "Low"
	switch {
	case rmse < rent*0.15:
		confidence = "High"
	case rmse < rent*0.25:
		confidence = "Medium"
	}

	return &types.RevenuePrediction{
		PredictedMonthlyRent: rent,
		ConfidenceLow:        math.Round(low),
		ConfidenceHigh:       math.Round(rent + 1.96*rmse),
		AnnualRevenue:        rent * 12,
		ModelR2:              p.metrics.R2,
		ModelRMSE:            p.metrics.RMSE,
		PredictionConfidence: confidence,
	}, nil
}

// FillDefaults validates the required features and substitutes market
// defaults for unset optional ones. A missing required feature is a hard
// error: silently defaulting it would fabricate the core of the
// prediction.
func FillDefaults(f Features) (Features, error) {
	type check struct {
		name string
		ok   bool
	}
	for _, c := range []check{
		{"bedrooms", f.Bedrooms > 0},
		{"bathrooms", f.Bathrooms > 0},
		{"sqft", f.Sqft > 0},
		{"year_built", f.YearBuilt > 0},
		{"last_sale_price", f.LastSalePrice > 0},
	} {
		if !c.ok {
			return Features{}, fmt.Errorf("required feature %q is missing", c.name)
		}
	}

	if f.CrimeScore == 0 {
		f.CrimeScore = 75
	}
	if f.WalkabilityScore == 0 {
		f.WalkabilityScore = 75
	}
	if f.TransitScore == 0 {
		f.TransitScore = 75
	}
	if f.AmenityScore == 0 {
		f.AmenityScore = 65
	}
	if f.DistanceToSubway == 0 {
		f.DistanceToSubway = 0.3
	}
	if f.DistanceToManhattan == 0 {
		f.DistanceToManhattan = 5.0
	}
	if f.PropertyType == "" {
		f.PropertyType = "Condo"
	}
	if f.Neighborhood == "" {
		f.Neighborhood = "Midtown"
	}
	return f, nil
}

// featureVector engineers the numeric design row for one property.
// Categorical features enter as their market multipliers, which keeps
// the model linear while preserving their ordering.
func featureVector(f Features) []float64 {
	propertyAge := float64(2024 - f.YearBuilt)
	roomsTotal := float64(f.Bedrooms) + f.Bathrooms
	pricePerSqft := f.LastSalePrice / float64(f.Sqft)
	locationScore := (f.CrimeScore + f.WalkabilityScore + f.TransitScore + f.AmenityScore) / 4
	transportScore := 100*math.Exp(-f.DistanceToSubway/0.5)*0.6 +
		100*math.Exp(-f.DistanceToManhattan/10)*0.4
	sqftPerRoom := float64(f.Sqft) / roomsTotal

	typeMult, ok := typeMultipliers[f.PropertyType]
	if !ok {
		typeMult = 1.0
	}
	hoodMult, ok := neighborhoodMultipliers[f.Neighborhood]
	if !ok {
		hoodMult = 1.0
	}

	return []float64{
		float64(f.Bedrooms),
		f.Bathrooms,
		float64(f.Sqft),
		propertyAge,
		f.LastSalePrice,
		pricePerSqft,
		roomsTotal,
		locationScore,
		transportScore,
		sqftPerRoom,
		f.CrimeScore,
		f.WalkabilityScore,
		f.TransitScore,
		f.AmenityScore,
		f.DistanceToSubway,
		f.DistanceToManhattan,
		typeMult,
		hoodMult,
	}
}

func (p *Predictor) evaluate(test []sample) Metrics {
	if len(test) == 0 {
		return Metrics{}
	}

	var sumSq, sumAbs, sumY float64
	preds := make([]float64, len(test))
	for i, s := range test {
		x := featureVector(s.Features)
		standardize(x, p.means, p.stds)
		pred := p.weights[0]
		for j, v := range x {
			pred += p.weights[j+1] * v
		}
		preds[i] = pred

		diff := pred - s.MonthlyRent
		sumSq += diff * diff
		sumAbs += math.Abs(diff)
		sumY += s.MonthlyRent
	}

	meanY := sumY / float64(len(test))
	var ssTot float64
	for _, s := range test {
		d := s.MonthlyRent - meanY
		ssTot += d * d
	}

	r2 := 0.0
	if ssTot > 0 {
		r2 = 1 - sumSq/ssTot
	}

	return Metrics{
		RMSE: math.Sqrt(sumSq / float64(len(test))),
		MAE:  sumAbs / float64(len(test)),
		R2:   r2,
	}
}

// columnStats returns per-column means and standard deviations. Constant
// columns get std 1 so standardization never divides by zero.
func columnStats(X [][]float64) (means, stds []float64) {
	if len(X) == 0 {
		return nil, nil
	}
	d := len(X[0])
	means = make([]float64, d)
	stds = make([]float64, d)

	for j := 0; j < d; j++ {
		for i := range X {
			means[j] += X[i][j]
		}
		means[j] /= float64(len(X))
	}
	for j := 0; j < d; j++ {
		for i := range X {
			diff := X[i][j] - means[j]
			stds[j] += diff * diff
		}
		stds[j] = math.Sqrt(stds[j] / float64(len(X)))
		if stds[j] == 0 {
			stds[j] = 1
		}
	}
	return means, stds
}

func standardize(x, means, stds []float64) {
	for j := range x {
		x[j] = (x[j] - means[j]) / stds[j]
	}
}

// ridgeFit solves (X'X + lambda I) w = X'y for a design matrix with an
// implicit intercept column, which is excluded from regularization.
func ridgeFit(X [][]float64, y []float64, lambda float64) ([]float64, error) {
	n := len(X)
	if n == 0 {
		return nil, fmt.Errorf("empty design matrix")
	}
	d := len(X[0]) + 1 // intercept

	// Normal equations A w = b over the augmented design.
	A := make([][]float64, d)
	for i := range A {
		A[i] = make([]float64, d)
	}
	b := make([]float64, d)

	for i := 0; i < n; i++ {
		row := make([]float64, d)
		row[0] = 1
		copy(row[1:], X[i])
		for j := 0; j < d; j++ {
			b[j] += row[j] * y[i]
			for k := 0; k < d; k++ {
				A[j][k] += row[j] * row[k]
			}
		}
	}
	for j := 1; j < d; j++ {
		A[j][j] += lambda
	}

	return solve(A, b)
}

// solve runs Gaussian elimination with partial pivoting.
func solve(A [][]float64, b []float64) ([]float64, error) {
	d := len(A)

	for col := 0; col < d; col++ {
		pivot := col
		for r := col + 1; r < d; r++ {
			if math.Abs(A[r][col]) > math.Abs(A[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(A[pivot][col]) < 1e-12 {
			return nil, fmt.Errorf("singular system at column %d", col)
		}
		A[col], A[pivot] = A[pivot], A[col]
		b[col], b[pivot] = b[pivot], b[col]

		for r := col + 1; r < d; r++ {
			factor := A[r][col] / A[col][col]
			for c := col; c < d; c++ {
				A[r][c] -= factor * A[col][c]
			}
			b[r] -= factor * b[col]
		}
	}

	w := make([]float64, d)
	for r := d - 1; r >= 0; r-- {
		sum := b[r]
		for c := r + 1; c < d; c++ {
			sum -= A[r][c] * w[c]
		}
		w[r] = sum / A[r][r]
	}
	return w, nil
}
