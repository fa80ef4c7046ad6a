// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyzer orchestrates the analysis pipeline: address checks,
// geocoding, property resolution, location features, rental comparables,
// revenue prediction and quality scoring. Collector failures degrade to
// documented fallbacks; only input validation and prediction on missing
// required features are hard errors.
package analyzer

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/rentscope/internal/address"
	"github.com/pdiddy/rentscope/internal/cache"
	"github.com/pdiddy/rentscope/internal/comps"
	"github.com/pdiddy/rentscope/internal/geo"
	"github.com/pdiddy/rentscope/internal/geocode"
	"github.com/pdiddy/rentscope/internal/httputil"
	"github.com/pdiddy/rentscope/internal/location"
	"github.com/pdiddy/rentscope/internal/model"
	"github.com/pdiddy/rentscope/internal/registry"
	"github.com/pdiddy/rentscope/pkg/types"
)

// AnalysisError is a user-facing terminal error with remediation
// guidance. Collector failures never produce one; only bad input and
// failed geocoding in validating mode do.
type AnalysisError struct {
	Code        string   `json:"code"`
	Message     string   `json:"error"`
	Example     string   `json:"example,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func (e *AnalysisError) Error() string { return e.Message }

// AnalyzeOptions selects the entry-point behavior for one analysis.
type AnalyzeOptions struct {
	// Validate makes format, geocoding and coordinate-validation failures
	// terminal errors instead of triggering the simulated-data fallback.
	Validate bool
}

// Analyzer runs property analyses. Build one with New and reuse it; the
// trained model is the only process-wide state and is read-only after
// construction.
type Analyzer struct {
	cfg       types.PipelineConfig
	geocoder  *geocode.Geocoder
	resolver  *registry.Resolver
	collector *location.Collector
	predictor *model.Predictor
	store     *cache.Store
	rng       *rand.Rand
	w         io.Writer
	now       func() time.Time
}

// New trains the revenue model and wires the pipeline stages from cfg.
// Progress and degradation notices are written to w.
func New(ctx context.Context, cfg types.PipelineConfig, w io.Writer) (*Analyzer, error) {
	if w == nil {
		w = io.Discard
	}

	predictor, err := model.Train(cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("training revenue model: %w", err)
	}
	fmt.Fprintf(w, "model trained on %d samples (R² %.3f)\n",
		predictor.TrainingSamples(), predictor.Metrics().R2)

	seed := cfg.Model.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	limiter := httputil.NewLimiter()
	a := &Analyzer{
		cfg:       cfg,
		predictor: predictor,
		rng:       rand.New(rand.NewSource(seed)),
		w:         w,
		now:       time.Now,
	}

	a.geocoder = geocode.New(
		httputil.NewClient(cfg.Geocoding.HTTPConfig), cfg.Geocoding.APIKey, limiter, cfg.Geocoding.MinDelay)
	a.resolver = registry.NewResolver(
		httputil.NewClient(cfg.Registry.HTTPConfig), cfg.Registry.AppToken, limiter, cfg.Registry)
	a.collector = location.NewCollector(
		ctx, httputil.NewClient(cfg.Location.HTTPConfig), cfg.Location, limiter)

	if cfg.Cache.Enabled {
		store, err := cache.NewStore(cfg.Cache)
		if err != nil {
			return nil, fmt.Errorf("opening analysis cache: %w", err)
		}
		a.store = store
	}

	return a, nil
}

// Close releases the analysis cache, if one is open.
func (a *Analyzer) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// ModelMetrics exposes the trained model's holdout performance.
func (a *Analyzer) ModelMetrics() model.Metrics { return a.predictor.Metrics() }

// Analyze runs the full pipeline for one address. Without opts.Validate
// any stage failure short-circuits to the simulated-data path; partial
// real and simulated data are never mixed across a failure.
func (a *Analyzer) Analyze(ctx context.Context, addr string, opts AnalyzeOptions) (*types.InvestmentAnalysis, error) {
	if opts.Validate {
		if fe := address.CheckFormat(addr); fe != nil {
			return nil, &AnalysisError{
				Code:        "invalid_address",
				Message:     fe.Message,
				Example:     fe.Example,
				Suggestions: fe.Suggestions,
			}
		}
	}

	if a.store != nil {
		if cached, ok, err := a.store.Get(ctx, addr); err != nil {
			fmt.Fprintf(a.w, "cache read failed: %v\n", err)
		} else if ok {
			fmt.Fprintf(a.w, "cache hit for %s\n", addr)
			return cached, nil
		}
	}

	fmt.Fprintf(a.w, "geocoding %s\n", addr)
	coords, err := a.geocoder.Geocode(ctx, addr, a.rng)
	if err != nil {
		if opts.Validate {
			return nil, &AnalysisError{
				Code:    "geocode_failed",
				Message: "Address could not be geocoded",
				Example: "350 Central Park West, New York, NY",
				Suggestions: []string{
					"check the address spelling",
					"include the city and state",
				},
			}
		}
		fmt.Fprintf(a.w, "geocoding failed, using simulated data: %v\n", err)
		return a.analyzeSimulated(addr)
	}

	if !geo.InNYCBounds(coords.Latitude, coords.Longitude) {
		if opts.Validate {
			return nil, &AnalysisError{
				Code:        "coordinates_out_of_bounds",
				Message:     "Coordinates outside NYC boundaries",
				Suggestions: []string{"verify the property is located in New York City"},
			}
		}
		fmt.Fprintf(a.w, "coordinates outside NYC, using simulated data\n")
		return a.analyzeSimulated(addr)
	}

	if opts.Validate && !a.geocoder.Demo() && len(coords.ValidationIssues) > 0 {
		return nil, &AnalysisError{
			Code:        "coordinate_mismatch",
			Message:     coords.ValidationIssues[0],
			Suggestions: []string{"try the formatted address: " + coords.FormattedAddress},
		}
	}

	lat, lng := coords.Latitude, coords.Longitude

	record, ok := a.resolver.Lookup(ctx, addr)
	if !ok {
		fmt.Fprintf(a.w, "no registry match, estimating property by neighborhood tier\n")
		record = registry.EstimateByTier(addr, lat, lng, a.rng)
	}
	record.Latitude = lat
	record.Longitude = lng

	features := a.collector.Collect(ctx, lat, lng, a.rng)

	comparables := comps.Collect(lat, lng, record.Bedrooms, a.rng)
	if len(comparables) == 0 {
		comparables = comps.Fallback(lat, lng, record.Bedrooms, a.rng)
	}

	prediction, err := a.predictor.Predict(modelFeatures(record, features))
	if err != nil {
		return nil, fmt.Errorf("predicting revenue: %w", err)
	}

	analysis := a.assemble(record, features, comparables, prediction, coords.Quality)

	if a.store != nil {
		if err := a.store.Put(ctx, addr, analysis); err != nil {
			fmt.Fprintf(a.w, "cache write failed: %v\n", err)
		}
	}

	fmt.Fprintf(a.w, "analysis complete for %s (quality %d/100)\n",
		addr, analysis.DataQuality.OverallScore)
	return analysis, nil
}

// analyzeSimulated is the terminal fallback: every signal is drawn from
// market patterns and tagged simulated so the quality assessment stays
// honest.
func (a *Analyzer) analyzeSimulated(addr string) (*types.InvestmentAnalysis, error) {
	record := simulateProperty(addr, a.rng)
	features := location.Estimate(record.Latitude, record.Longitude, a.rng)
	comparables := comps.Fallback(record.Latitude, record.Longitude, record.Bedrooms, a.rng)

	prediction, err := a.predictor.Predict(modelFeatures(record, features))
	if err != nil {
		return nil, fmt.Errorf("predicting revenue: %w", err)
	}

	return a.assemble(record, features, comparables, prediction, types.QualitySimulated), nil
}

// assemble derives the financial, risk, recommendation and quality
// sections and wraps everything in a fresh InvestmentAnalysis.
func (a *Analyzer) assemble(
	record *types.PropertyRecord,
	features types.LocationFeatures,
	comparables []types.RentalComparable,
	prediction *types.RevenuePrediction,
	geocodingQuality types.DataQuality,
) *types.InvestmentAnalysis {
	financial := financials(prediction, record.LastSalePrice, comparables)
	risk := assessRisk(record, features, financial, len(comparables))
	recommendation := recommend(financial, features, risk)

	return &types.InvestmentAnalysis{
		ID:                uuid.NewString(),
		AnalyzedAt:        a.now().UTC(),
		Property:          *record,
		Location:          features,
		RentalComparables: comparables,
		Revenue:           *prediction,
		Financial:         financial,
		Risk:              risk,
		Recommendation:    recommendation,
		DataQuality:       assessQuality(geocodingQuality, record, features, comparables),
	}
}

// simulateProperty draws a plausible NYC property near the Manhattan
// core for the terminal fallback path.
func simulateProperty(addr string, rng *rand.Rand) *types.PropertyRecord {
	lat := 40.7589 + (rng.Float64()*0.1 - 0.05)
	lng := -73.9851 + (rng.Float64()*0.1 - 0.05)

	propertyType := "Rental"
	switch roll := rng.Float64(); {
	case roll < 0.5:
		propertyType = "Condo"
	case roll < 0.8:
		propertyType = "Co-op"
	}

	bedrooms := 4
	switch roll := rng.Float64(); {
	case roll < 0.3:
		bedrooms = 1
	case roll < 0.7:
		bedrooms = 2
	case roll < 0.9:
		bedrooms = 3
	}

	return &types.PropertyRecord{
		Address:       addr,
		Latitude:      lat,
		Longitude:     lng,
		PropertyType:  propertyType,
		Bedrooms:      bedrooms,
		Bathrooms:     1 + rng.Float64()*2.5,
		Sqft:          600 + rng.Intn(1600),
		YearBuilt:     1960 + rng.Intn(60),
		LastSalePrice: float64(700000 + rng.Intn(3300000)),
		Source:        types.SourceSimulated,
		Quality:       types.QualitySimulated,
	}
}

// modelFeatures fuses the property record and location features into the
// predictor's input. Both sources guarantee positive required fields, so
// prediction only fails on malformed callers.
func modelFeatures(record *types.PropertyRecord, features types.LocationFeatures) model.Features {
	return model.Features{
		Bedrooms:            record.Bedrooms,
		Bathrooms:           record.Bathrooms,
		Sqft:                record.Sqft,
		YearBuilt:           record.YearBuilt,
		LastSalePrice:       record.LastSalePrice,
		PropertyType:        record.PropertyType,
		Neighborhood:        features.Neighborhood,
		CrimeScore:          features.CrimeScore,
		WalkabilityScore:    features.WalkabilityScore,
		TransitScore:        features.TransitScore,
		AmenityScore:        features.AmenityScore,
		DistanceToSubway:    features.DistanceToSubway,
		DistanceToManhattan: features.DistanceToManhattan,
	}
}
