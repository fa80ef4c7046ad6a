// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyzer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/rentscope/pkg/types"
)

const reportRule = "──────────────────────────────────────────────────────────"
const reportEdge = "══════════════════════════════════════════════════════════"

// WriteReport renders the detailed investment report for one analysis.
func WriteReport(w io.Writer, a *types.InvestmentAnalysis) error {
	prop := a.Property
	loc := a.Location
	rev := a.Revenue
	fin := a.Financial
	quality := a.DataQuality

	var b strings.Builder

	fmt.Fprintf(&b, "%s\n        NYC PROPERTY INVESTMENT ANALYSIS REPORT\n%s\n\n", reportEdge, reportEdge)

	fmt.Fprintf(&b, "PROPERTY OVERVIEW\n%s\n", reportRule)
	fmt.Fprintf(&b, "Address:           %s\n", prop.Address)
	fmt.Fprintf(&b, "Property Type:     %s\n", prop.PropertyType)
	fmt.Fprintf(&b, "Bedrooms:          %d\n", prop.Bedrooms)
	fmt.Fprintf(&b, "Bathrooms:         %.1f\n", prop.Bathrooms)
	fmt.Fprintf(&b, "Square Feet:       %s\n", commas(int64(prop.Sqft)))
	fmt.Fprintf(&b, "Year Built:        %d\n", prop.YearBuilt)
	fmt.Fprintf(&b, "Last Sale Price:   $%s\n", commas(int64(prop.LastSalePrice)))
	fmt.Fprintf(&b, "Neighborhood:      %s\n\n", loc.Neighborhood)

	fmt.Fprintf(&b, "FINANCIAL PROJECTIONS\n%s\n", reportRule)
	fmt.Fprintf(&b, "Predicted Monthly Rent:   $%s\n", commas(int64(rev.PredictedMonthlyRent)))
	fmt.Fprintf(&b, "Confidence Range:         $%s - $%s\n",
		commas(int64(rev.ConfidenceLow)), commas(int64(rev.ConfidenceHigh)))
	fmt.Fprintf(&b, "Annual Revenue:           $%s\n\n", commas(int64(rev.AnnualRevenue)))
	fmt.Fprintf(&b, "Gross Rental Yield:       %.2f%%\n", fin.GrossRentalYield)
	fmt.Fprintf(&b, "Net Rental Yield:         %.2f%%\n", fin.NetRentalYield)
	fmt.Fprintf(&b, "Monthly Cash Flow:        $%s\n", commas(int64(fin.MonthlyCashFlow)))
	fmt.Fprintf(&b, "Expense Ratio:            %.1f%%\n\n", fin.ExpenseRatio)

	fmt.Fprintf(&b, "MARKET COMPARISON\n%s\n", reportRule)
	fmt.Fprintf(&b, "Rent vs. Comparables:     %+.1f%%\n", fin.RentVsComparables)
	fmt.Fprintf(&b, "Market Position:          %s\n", marketPosition(fin.RentVsComparables))
	fmt.Fprintf(&b, "Prediction Confidence:    %s\n", rev.PredictionConfidence)
	fmt.Fprintf(&b, "Rental Comparables:       %d found\n\n", len(a.RentalComparables))

	fmt.Fprintf(&b, "LOCATION ANALYSIS (scores out of 100)\n%s\n", reportRule)
	fmt.Fprintf(&b, "Crime Score:              %.0f/100\n", loc.CrimeScore)
	fmt.Fprintf(&b, "Walkability Score:        %.0f/100\n", loc.WalkabilityScore)
	fmt.Fprintf(&b, "Transit Score:            %.0f/100\n", loc.TransitScore)
	fmt.Fprintf(&b, "Amenity Score:            %.0f/100\n", loc.AmenityScore)
	fmt.Fprintf(&b, "Distance to Subway:       %.1f miles\n", loc.DistanceToSubway)
	fmt.Fprintf(&b, "Distance to Manhattan:    %.1f miles\n", loc.DistanceToManhattan)
	fmt.Fprintf(&b, "Total Nearby Amenities:   %d\n\n", loc.TotalAmenities)

	fmt.Fprintf(&b, "RISK ASSESSMENT\n%s\n", reportRule)
	fmt.Fprintf(&b, "Overall Risk Level:       %s\n", a.Risk.OverallRisk)
	factors := "None identified"
	if len(a.Risk.RiskFactors) > 0 {
		factors = strings.Join(a.Risk.RiskFactors, ", ")
	}
	fmt.Fprintf(&b, "Risk Factors:             %s\n\n", factors)

	fmt.Fprintf(&b, "INVESTMENT RECOMMENDATION\n%s\n", reportRule)
	fmt.Fprintf(&b, "Recommendation:           %s\n", a.Recommendation.Recommendation)
	fmt.Fprintf(&b, "Confidence Level:         %s\n\n", a.Recommendation.Confidence)

	fmt.Fprintf(&b, "DATA QUALITY ASSESSMENT\n%s\n", reportRule)
	fmt.Fprintf(&b, "Overall Data Quality:     %d/100\n", quality.OverallScore)
	fmt.Fprintf(&b, "Geocoding Quality:        %s\n", quality.GeocodingQuality)
	fmt.Fprintf(&b, "Property Data Quality:    %s\n", quality.PropertyQuality)
	fmt.Fprintf(&b, "Location Data Quality:    %s\n", quality.LocationQuality)
	fmt.Fprintf(&b, "Rental Data Quality:      %s\n", quality.RentalQuality)
	if len(quality.DataSourcesUsed) > 0 {
		fmt.Fprintf(&b, "Data Sources:             %s\n", strings.Join(quality.DataSourcesUsed, ", "))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "KEY INSIGHTS\n%s\n", reportRule)
	for _, insight := range insights(a) {
		fmt.Fprintf(&b, "- %s\n", insight)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "MODEL PERFORMANCE\n%s\n", reportRule)
	fmt.Fprintf(&b, "Model Accuracy (R²):      %.3f\n", rev.ModelR2)
	fmt.Fprintf(&b, "Prediction RMSE:          $%s\n\n", commas(int64(rev.ModelRMSE)))

	fmt.Fprintf(&b, "%s\n", reportEdge)
	fmt.Fprintf(&b, "DISCLAIMER: this analysis is based on algorithmic predictions\n")
	fmt.Fprintf(&b, "and available market data (quality %d/100). Consult real estate\n", quality.OverallScore)
	fmt.Fprintf(&b, "professionals and conduct due diligence before investing.\n")
	fmt.Fprintf(&b, "%s\n", reportEdge)

	_, err := io.WriteString(w, b.String())
	return err
}

// ExportYAML writes the full analysis as a YAML document.
func ExportYAML(w io.Writer, a *types.InvestmentAnalysis) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(a); err != nil {
		return fmt.Errorf("encoding analysis: %w", err)
	}
	return enc.Close()
}

func marketPosition(premium float64) string {
	switch {
	case premium > 5:
		return "Above Market"
	case premium > -5:
		return "At Market"
	default:
		return "Below Market"
	}
}

// insights summarizes the analysis in a handful of plain statements.
func insights(a *types.InvestmentAnalysis) []string {
	var out []string

	switch {
	case a.Financial.GrossRentalYield >= 5:
		out = append(out, "Strong rental yield indicates excellent investment potential")
	case a.Financial.GrossRentalYield >= 4:
		out = append(out, "Moderate rental yield suggests careful evaluation needed")
	default:
		out = append(out, "Low rental yield - consider other investment options")
	}

	switch safety := (a.Location.CrimeScore + a.Location.TransitScore) / 2; {
	case safety >= 80:
		out = append(out, "Excellent location scores support premium rents and tenant demand")
	case safety >= 65:
		out = append(out, "Good location fundamentals with room for improvement")
	default:
		out = append(out, "Location challenges may limit rental growth potential")
	}

	switch {
	case a.Property.YearBuilt >= 1990:
		out = append(out, "Modern property supports lower maintenance costs and higher rents")
	case a.Property.YearBuilt >= 1970:
		out = append(out, "Mature property may require renovation budget")
	default:
		out = append(out, "Older property requires significant maintenance consideration")
	}

	if cf := a.Financial.MonthlyCashFlow; cf > 0 {
		out = append(out, fmt.Sprintf("Positive cash flow of $%s/month", commas(int64(cf))))
	} else {
		out = append(out, fmt.Sprintf("Negative cash flow of $%s/month requires additional capital", commas(int64(-cf))))
	}

	switch {
	case a.DataQuality.OverallScore >= 80:
		out = append(out, "High data quality provides reliable analysis")
	case a.DataQuality.OverallScore >= 60:
		out = append(out, "Medium data quality - consider additional research")
	default:
		out = append(out, "Limited data available - use with caution")
	}

	return out
}

// commas formats n with thousands separators.
func commas(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)

	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}
