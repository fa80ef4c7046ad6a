// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyzer

import (
	"fmt"
	"math"

	"github.com/pdiddy/rentscope/internal/comps"
	"github.com/pdiddy/rentscope/pkg/types"
)

// expenseRate is the fixed NYC operating-expense share of gross rent
// (taxes, insurance, maintenance, management).
const expenseRate = 0.38

// financials derives the investment economics from the predicted rent,
// the purchase price and the comparable set.
func financials(prediction *types.RevenuePrediction, purchasePrice float64, comparables []types.RentalComparable) types.FinancialMetrics {
	annual := prediction.AnnualRevenue
	grossYield := annual / purchasePrice * 100

	expenses := annual * expenseRate
	netRevenue := annual - expenses
	netYield := netRevenue / purchasePrice * 100
	cashFlow := prediction.PredictedMonthlyRent - expenses/12

	premium := 0.0
	if avg := comps.AverageRent(comparables); avg > 0 {
		premium = (prediction.PredictedMonthlyRent - avg) / avg * 100
	}

	return types.FinancialMetrics{
		GrossRentalYield:  round2(grossYield),
		NetRentalYield:    round2(netYield),
		AnnualExpenses:    math.Round(expenses),
		NetAnnualRevenue:  math.Round(netRevenue),
		MonthlyCashFlow:   math.Round(cashFlow),
		RentVsComparables: round1(premium),
		ExpenseRatio:      expenseRate * 100,
	}
}

// assessRisk accumulates fixed-threshold risk points and classifies the
// total: 0-1 Low, 2-3 Medium, 4+ High.
func assessRisk(record *types.PropertyRecord, features types.LocationFeatures, financial types.FinancialMetrics, compCount int) types.RiskAssessment {
	factors := []string{}
	score := 0

	add := func(points int, factor string) {
		factors = append(factors, factor)
		score += points
	}

	if features.CrimeScore < 70 {
		add(1, "Below average safety score")
	}
	if features.DistanceToSubway > 0.6 {
		add(1, "Limited subway access")
	}
	if record.YearBuilt < 1970 {
		add(1, "Older building may require higher maintenance")
	}
	if financial.GrossRentalYield < 3 {
		add(2, "Low rental yield")
	}
	if features.DistanceToManhattan > 10 {
		add(1, "Far from Manhattan job centers")
	}
	if features.TotalAmenities < 10 {
		add(1, "Limited nearby amenities")
	}
	if compCount < 3 {
		add(1, "Limited rental market data")
	}

	level := types.RiskHigh
	switch {
	case score <= 1:
		level = types.RiskLow
	case score <= 3:
		level = types.RiskMedium
	}

	return types.RiskAssessment{RiskFactors: factors, OverallRisk: level, RiskScore: score}
}

// recommend scores positive signals, subtracts the risk score and maps
// the result to a recommendation band.
func recommend(financial types.FinancialMetrics, features types.LocationFeatures, risk types.RiskAssessment) types.Recommendation {
	score := 0

	switch {
	case financial.GrossRentalYield >= 5:
		score += 3
	case financial.GrossRentalYield >= 4:
		score += 2
	case financial.GrossRentalYield >= 3:
		score++
	}

	switch {
	case features.CrimeScore >= 80:
		score += 2
	case features.CrimeScore >= 70:
		score++
	}

	if features.TransitScore >= 85 {
		score++
	}
	if features.TotalAmenities >= 20 {
		score++
	}
	if financial.RentVsComparables > 0 {
		score++
	}

	score -= risk.RiskScore

	var label, confidence string
	switch {
	case score >= 6:
		label, confidence = "STRONG BUY", "High"
	case score >= 4:
		label, confidence = "BUY", "Medium-High"
	case score >= 2:
		label, confidence = "HOLD", "Medium"
	case score >= 0:
		label, confidence = "WEAK HOLD", "Low-Medium"
	default:
		label, confidence = "AVOID", "High"
	}

	return types.Recommendation{Recommendation: label, Confidence: confidence, Score: score}
}

// assessQuality scores data reliability across four buckets: geocoding
// (25), property (35), location (25) and rental comps (15). The score
// only credits signals that genuinely came from live sources, so adding
// a real source never lowers it.
func assessQuality(
	geocodingQuality types.DataQuality,
	record *types.PropertyRecord,
	features types.LocationFeatures,
	comparables []types.RentalComparable,
) types.DataQualityAssessment {
	score := 0
	issues := []string{}
	sources := []string{}

	switch geocodingQuality {
	case types.QualityHigh:
		score += 25
		sources = append(sources, "Google Geocoding API")
	case types.QualityMedium:
		score += 15
		sources = append(sources, "Google Geocoding API")
		issues = append(issues, "geocoded location did not fully validate against the input address")
	default:
		score += 10
		issues = append(issues, "coordinates are simulated, not geocoded")
	}

	switch record.Source {
	case types.SourceRegistry:
		score += 35
		sources = append(sources, "NYC property assessment records", "NYC property sales records")
	case types.SourceEstimated:
		score += 25
		issues = append(issues, "property attributes estimated from neighborhood tier")
	default:
		score += 15
		issues = append(issues, "property attributes are simulated")
	}

	locationPoints := 0
	if features.CrimeSourced {
		locationPoints += 8
		sources = append(sources, "NYPD complaint data")
	}
	if features.TotalAmenities > 5 {
		locationPoints += 8
	}
	if features.AmenitiesSourced {
		sources = append(sources, "Google Places API")
	}
	if features.DistanceToSubway < 2 {
		locationPoints += 5
	}
	if features.TransitSourced {
		locationPoints += 4
		sources = append(sources, "MTA subway station dataset")
	}
	score += locationPoints

	realComps := 0
	for _, comp := range comparables {
		if !types.PlaceholderListingSources[comp.ListingSource] {
			realComps++
		}
	}
	compPoints := 5
	switch {
	case realComps >= 3:
		compPoints = 15
	case realComps >= 1:
		compPoints = 10
	}
	score += compPoints
	if realComps == 0 {
		issues = append(issues, "rental comparables estimated from market patterns")
	}

	if score > 100 {
		score = 100
	}

	confidence := types.ConfidenceLow
	switch {
	case score >= 80:
		confidence = types.ConfidenceHigh
	case score >= 60:
		confidence = types.ConfidenceMedium
	}

	return types.DataQualityAssessment{
		OverallScore:     score,
		GeocodingQuality: geocodingQuality,
		PropertyQuality:  record.Quality,
		LocationQuality:  bucketQuality(locationPoints, 25),
		RentalQuality:    bucketQuality(compPoints, 15),
		ConfidenceLevel:  confidence,
		QualityIssues:    issues,
		DataSourcesUsed:  sources,
		TransparencyNote: fmt.Sprintf(
			"%d of %d possible quality points earned from live data sources; the remainder is estimated from NYC market patterns.",
			score, 100),
	}
}

// bucketQuality tags a bucket by the share of its maximum it earned.
func bucketQuality(points, max int) types.DataQuality {
	ratio := float64(points) / float64(max)
	switch {
	case ratio >= 0.8:
		return types.QualityHigh
	case ratio >= 0.5:
		return types.QualityMedium
	default:
		return types.QualityLow
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
