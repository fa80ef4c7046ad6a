// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyzer

import (
	"testing"

	"github.com/pdiddy/rentscope/pkg/types"
)

// safeFeatures trigger no risk factors.
func safeFeatures() types.LocationFeatures {
	return types.LocationFeatures{
		CrimeScore:          80,
		TransitScore:        80,
		AmenityScore:        70,
		WalkabilityScore:    76,
		DistanceToSubway:    0.3,
		DistanceToManhattan: 3,
		TotalAmenities:      15,
	}
}

func safeRecord() *types.PropertyRecord {
	return &types.PropertyRecord{
		Address:       "350 CENTRAL PARK W",
		PropertyType:  "Condo",
		Bedrooms:      2,
		Bathrooms:     2,
		Sqft:          1100,
		YearBuilt:     1995,
		LastSalePrice: 1200000,
		Source:        types.SourceRegistry,
		Quality:       types.QualityHigh,
	}
}

func TestFinancials(t *testing.T) {
	prediction := &types.RevenuePrediction{
		PredictedMonthlyRent: 4000,
		AnnualRevenue:        48000,
	}
	comparables := []types.RentalComparable{
		{MonthlyRent: 3800}, {MonthlyRent: 3800}, {MonthlyRent: 3800},
	}

	fin := financials(prediction, 1200000, comparables)

	if fin.GrossRentalYield != 4.0 {
		t.Errorf("gross yield = %v, want 4.0", fin.GrossRentalYield)
	}
	if fin.AnnualExpenses != 18240 {
		t.Errorf("annual expenses = %v, want 18240", fin.AnnualExpenses)
	}
	if fin.NetAnnualRevenue != 29760 {
		t.Errorf("net annual revenue = %v, want 29760", fin.NetAnnualRevenue)
	}
	if fin.NetRentalYield != 2.48 {
		t.Errorf("net yield = %v, want 2.48", fin.NetRentalYield)
	}
	if fin.MonthlyCashFlow != 2480 {
		t.Errorf("monthly cash flow = %v, want 2480", fin.MonthlyCashFlow)
	}
	// (4000-3800)/3800 = 5.26%, rounded to one decimal.
	if fin.RentVsComparables != 5.3 {
		t.Errorf("rent premium = %v, want 5.3", fin.RentVsComparables)
	}
	if fin.ExpenseRatio != 38 {
		t.Errorf("expense ratio = %v, want 38", fin.ExpenseRatio)
	}
}

func TestFinancialsNoComparables(t *testing.T) {
	prediction := &types.RevenuePrediction{PredictedMonthlyRent: 4000, AnnualRevenue: 48000}
	fin := financials(prediction, 1200000, nil)
	if fin.RentVsComparables != 0 {
		t.Errorf("premium without comps = %v, want 0", fin.RentVsComparables)
	}
}

func TestAssessRiskBoundaries(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*types.PropertyRecord, *types.LocationFeatures, *types.FinancialMetrics, *int)
		wantScore int
		wantLevel types.RiskLevel
	}{
		{
			name:      "no factors",
			mutate:    func(*types.PropertyRecord, *types.LocationFeatures, *types.FinancialMetrics, *int) {},
			wantScore: 0,
			wantLevel: types.RiskLow,
		},
		{
			name: "one factor is still low",
			mutate: func(_ *types.PropertyRecord, loc *types.LocationFeatures, _ *types.FinancialMetrics, _ *int) {
				loc.CrimeScore = 60
			},
			wantScore: 1,
			wantLevel: types.RiskLow,
		},
		{
			name: "two factors is medium",
			mutate: func(_ *types.PropertyRecord, loc *types.LocationFeatures, _ *types.FinancialMetrics, _ *int) {
				loc.CrimeScore = 60
				loc.DistanceToSubway = 0.7
			},
			wantScore: 2,
			wantLevel: types.RiskMedium,
		},
		{
			name: "three factors is medium",
			mutate: func(rec *types.PropertyRecord, loc *types.LocationFeatures, _ *types.FinancialMetrics, _ *int) {
				loc.CrimeScore = 60
				loc.DistanceToSubway = 0.7
				rec.YearBuilt = 1960
			},
			wantScore: 3,
			wantLevel: types.RiskMedium,
		},
		{
			name: "low yield counts double",
			mutate: func(_ *types.PropertyRecord, loc *types.LocationFeatures, fin *types.FinancialMetrics, _ *int) {
				loc.CrimeScore = 60
				loc.DistanceToSubway = 0.7
				fin.GrossRentalYield = 2.5
			},
			wantScore: 4,
			wantLevel: types.RiskHigh,
		},
		{
			name: "sparse comps and amenities",
			mutate: func(_ *types.PropertyRecord, loc *types.LocationFeatures, _ *types.FinancialMetrics, compCount *int) {
				loc.TotalAmenities = 4
				loc.DistanceToManhattan = 12
				*compCount = 2
			},
			wantScore: 3,
			wantLevel: types.RiskMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := safeRecord()
			features := safeFeatures()
			fin := types.FinancialMetrics{GrossRentalYield: 4}
			compCount := 3
			tt.mutate(record, &features, &fin, &compCount)

			risk := assessRisk(record, features, fin, compCount)
			if risk.RiskScore != tt.wantScore {
				t.Errorf("score = %d, want %d", risk.RiskScore, tt.wantScore)
			}
			if risk.OverallRisk != tt.wantLevel {
				t.Errorf("level = %s, want %s", risk.OverallRisk, tt.wantLevel)
			}
			if len(risk.RiskFactors) == 0 && tt.wantScore > 0 {
				t.Error("triggered risks must name their factors")
			}
		})
	}
}

func TestRecommendBands(t *testing.T) {
	tests := []struct {
		name      string
		financial types.FinancialMetrics
		features  types.LocationFeatures
		riskScore int
		wantLabel string
		wantConf  string
		wantScore int
	}{
		{
			name:      "strong buy",
			financial: types.FinancialMetrics{GrossRentalYield: 5.5, RentVsComparables: 2},
			features:  types.LocationFeatures{CrimeScore: 85, TransitScore: 90, TotalAmenities: 25},
			riskScore: 0,
			wantLabel: "STRONG BUY", wantConf: "High", wantScore: 8,
		},
		{
			name:      "buy at exactly four",
			financial: types.FinancialMetrics{GrossRentalYield: 4.2},
			features:  types.LocationFeatures{CrimeScore: 75, TransitScore: 90},
			riskScore: 0,
			wantLabel: "BUY", wantConf: "Medium-High", wantScore: 4,
		},
		{
			name:      "hold at exactly two",
			financial: types.FinancialMetrics{GrossRentalYield: 3.1},
			features:  types.LocationFeatures{CrimeScore: 72},
			riskScore: 0,
			wantLabel: "HOLD", wantConf: "Medium", wantScore: 2,
		},
		{
			name:      "weak hold at zero",
			financial: types.FinancialMetrics{GrossRentalYield: 3.1},
			features:  types.LocationFeatures{CrimeScore: 60},
			riskScore: 1,
			wantLabel: "WEAK HOLD", wantConf: "Low-Medium", wantScore: 0,
		},
		{
			name:      "avoid below zero",
			financial: types.FinancialMetrics{GrossRentalYield: 2.2},
			features:  types.LocationFeatures{CrimeScore: 55},
			riskScore: 3,
			wantLabel: "AVOID", wantConf: "High", wantScore: -3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := recommend(tt.financial, tt.features, types.RiskAssessment{RiskScore: tt.riskScore})
			if rec.Recommendation != tt.wantLabel {
				t.Errorf("label = %q, want %q", rec.Recommendation, tt.wantLabel)
			}
			if rec.Confidence != tt.wantConf {
				t.Errorf("confidence = %q, want %q", rec.Confidence, tt.wantConf)
			}
			if rec.Score != tt.wantScore {
				t.Errorf("score = %d, want %d", rec.Score, tt.wantScore)
			}
		})
	}
}

func TestAssessQualityFullySourced(t *testing.T) {
	features := safeFeatures()
	features.CrimeSourced = true
	features.TransitSourced = true
	features.AmenitiesSourced = true

	comparables := []types.RentalComparable{
		{ListingSource: "Market Estimate"},
		{ListingSource: "Neighborhood Model"},
		{ListingSource: "Market Estimate"},
	}

	q := assessQuality(types.QualityHigh, safeRecord(), features, comparables)

	// 25 geocoding + 35 registry + 25 location + 5 placeholder comps.
	if q.OverallScore != 90 {
		t.Errorf("overall = %d, want 90", q.OverallScore)
	}
	if q.ConfidenceLevel != types.ConfidenceHigh {
		t.Errorf("confidence = %s, want high", q.ConfidenceLevel)
	}
	if q.LocationQuality != types.QualityHigh {
		t.Errorf("location quality = %s, want high", q.LocationQuality)
	}
	if len(q.DataSourcesUsed) == 0 {
		t.Error("sourced analysis must list its data sources")
	}
}

func TestAssessQualityFullySimulated(t *testing.T) {
	record := safeRecord()
	record.Source = types.SourceSimulated
	record.Quality = types.QualitySimulated

	features := safeFeatures()
	features.TotalAmenities = 3

	comparables := []types.RentalComparable{{ListingSource: "Estimated"}}

	q := assessQuality(types.QualitySimulated, record, features, comparables)

	// 10 + 15 + 5 (subway only) + 5.
	if q.OverallScore != 35 {
		t.Errorf("overall = %d, want 35", q.OverallScore)
	}
	if q.ConfidenceLevel != types.ConfidenceLow {
		t.Errorf("confidence = %s, want low", q.ConfidenceLevel)
	}
	if len(q.QualityIssues) == 0 {
		t.Error("simulated analysis must surface quality issues")
	}
}

func TestAssessQualityMonotonicInRealSources(t *testing.T) {
	features := safeFeatures()
	base := assessQuality(types.QualityHigh, safeRecord(), features, nil)

	features.CrimeSourced = true
	withCrime := assessQuality(types.QualityHigh, safeRecord(), features, nil)
	if withCrime.OverallScore <= base.OverallScore {
		t.Errorf("adding a real source lowered quality: %d -> %d",
			base.OverallScore, withCrime.OverallScore)
	}

	features.TransitSourced = true
	withTransit := assessQuality(types.QualityHigh, safeRecord(), features, nil)
	if withTransit.OverallScore <= withCrime.OverallScore {
		t.Errorf("adding a real source lowered quality: %d -> %d",
			withCrime.OverallScore, withTransit.OverallScore)
	}
}

func TestAssessQualityBoundedAt100(t *testing.T) {
	features := safeFeatures()
	features.CrimeSourced = true
	features.TransitSourced = true

	comparables := []types.RentalComparable{
		{ListingSource: "StreetEasy"},
		{ListingSource: "StreetEasy"},
		{ListingSource: "StreetEasy"},
	}

	q := assessQuality(types.QualityHigh, safeRecord(), features, comparables)
	if q.OverallScore > 100 || q.OverallScore < 0 {
		t.Errorf("overall = %d, want within [0,100]", q.OverallScore)
	}
	if q.RentalQuality != types.QualityHigh {
		t.Errorf("rental quality = %s, want high for 3 real comps", q.RentalQuality)
	}
}

func TestCommas(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{950, "950"},
		{4500, "4,500"},
		{1200000, "1,200,000"},
		{-2480, "-2,480"},
	}
	for _, tt := range tests {
		if got := commas(tt.in); got != tt.want {
			t.Errorf("commas(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
