// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RevenuePrediction is the output of the trained regression model for one
// property, with a 95% confidence interval derived from model RMSE.
type RevenuePrediction struct {
	PredictedMonthlyRent float64 `json:"predicted_monthly_rent" yaml:"predicted_monthly_rent"`
	ConfidenceLow        float64 `json:"confidence_low" yaml:"confidence_low"`
	ConfidenceHigh       float64 `json:"confidence_high" yaml:"confidence_high"`
	AnnualRevenue        float64 `json:"annual_revenue" yaml:"annual_revenue"`
	ModelR2              float64 `json:"model_r2" yaml:"model_r2"`
	ModelRMSE            float64 `json:"model_rmse" yaml:"model_rmse"`
	PredictionConfidence string  `json:"prediction_confidence" yaml:"prediction_confidence"` // High, Medium or Low
}

// FinancialMetrics holds the derived investment economics.
type FinancialMetrics struct {
	GrossRentalYield  float64 `json:"gross_rental_yield" yaml:"gross_rental_yield"`
	NetRentalYield    float64 `json:"net_rental_yield" yaml:"net_rental_yield"`
	AnnualExpenses    float64 `json:"annual_expenses" yaml:"annual_expenses"`
	NetAnnualRevenue  float64 `json:"net_annual_revenue" yaml:"net_annual_revenue"`
	MonthlyCashFlow   float64 `json:"monthly_cash_flow" yaml:"monthly_cash_flow"`
	RentVsComparables float64 `json:"rent_vs_comparables" yaml:"rent_vs_comparables"` // percent premium over mean comp rent
	ExpenseRatio      float64 `json:"expense_ratio" yaml:"expense_ratio"`             // percent
}

// RiskLevel classifies the accumulated risk score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// RiskAssessment lists the triggered risk factors and the overall level.
type RiskAssessment struct {
	RiskFactors []string  `json:"risk_factors" yaml:"risk_factors"`
	OverallRisk RiskLevel `json:"overall_risk" yaml:"overall_risk"`
	RiskScore   int       `json:"risk_score" yaml:"risk_score"`
}

// Recommendation is the final investment call with its score and a
// confidence label tied to the threshold band it landed in.
type Recommendation struct {
	Recommendation string `json:"recommendation" yaml:"recommendation"` // STRONG BUY .. AVOID
	Confidence     string `json:"confidence" yaml:"confidence"`
	Score          int    `json:"score" yaml:"score"`
}

// ConfidenceLevel summarizes overall data reliability.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceNone   ConfidenceLevel = "none"
)

// DataQualityAssessment is the transparency summary for one analysis.
// It is recomputed fresh every run and never merged across runs.
type DataQualityAssessment struct {
	OverallScore     int             `json:"overall_score" yaml:"overall_score"` // 0-100
	GeocodingQuality DataQuality     `json:"geocoding_quality" yaml:"geocoding_quality"`
	PropertyQuality  DataQuality     `json:"property_quality" yaml:"property_quality"`
	LocationQuality  DataQuality     `json:"location_quality" yaml:"location_quality"`
	RentalQuality    DataQuality     `json:"rental_quality" yaml:"rental_quality"`
	ConfidenceLevel  ConfidenceLevel `json:"confidence_level" yaml:"confidence_level"`
	QualityIssues    []string        `json:"quality_issues,omitempty" yaml:"quality_issues,omitempty"`
	DataSourcesUsed  []string        `json:"data_sources_used" yaml:"data_sources_used"`
	TransparencyNote string          `json:"transparency_note" yaml:"transparency_note"`
}

// InvestmentAnalysis is the aggregate result of one analyze call. It owns
// its full data graph exclusively and is never mutated after construction.
type InvestmentAnalysis struct {
	ID                string                `json:"id" yaml:"id"`
	AnalyzedAt        time.Time             `json:"analyzed_at" yaml:"analyzed_at"`
	Property          PropertyRecord        `json:"property_details" yaml:"property_details"`
	Location          LocationFeatures      `json:"location_analysis" yaml:"location_analysis"`
	RentalComparables []RentalComparable    `json:"rental_comparables" yaml:"rental_comparables"`
	Revenue           RevenuePrediction     `json:"revenue_prediction" yaml:"revenue_prediction"`
	Financial         FinancialMetrics      `json:"financial_metrics" yaml:"financial_metrics"`
	Risk              RiskAssessment        `json:"risk_assessment" yaml:"risk_assessment"`
	Recommendation    Recommendation        `json:"investment_recommendation" yaml:"investment_recommendation"`
	DataQuality       DataQualityAssessment `json:"data_quality" yaml:"data_quality"`
}

// BatchEntry is one row of a batch comparison run.
type BatchEntry struct {
	Address          string  `json:"address" yaml:"address"`
	Neighborhood     string  `json:"neighborhood" yaml:"neighborhood"`
	Bedrooms         int     `json:"bedrooms" yaml:"bedrooms"`
	PredictedRent    float64 `json:"predicted_monthly_rent" yaml:"predicted_monthly_rent"`
	GrossYield       float64 `json:"gross_yield" yaml:"gross_yield"`
	MonthlyCashFlow  float64 `json:"monthly_cash_flow" yaml:"monthly_cash_flow"`
	Recommendation   string  `json:"recommendation" yaml:"recommendation"`
	OverallRisk      string  `json:"overall_risk" yaml:"overall_risk"`
	DataQualityScore int     `json:"data_quality_score" yaml:"data_quality_score"`
	WeightedScore    float64 `json:"weighted_score" yaml:"weighted_score"` // yield weighted by data quality
}
