// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the records that flow through the analysis
// pipeline and the per-stage configuration structs.
package types

import "time"

// DataQuality tags how a value was obtained.
type DataQuality string

const (
	QualityHigh      DataQuality = "high"
	QualityMedium    DataQuality = "medium"
	QualityLow       DataQuality = "low"
	QualityEstimated DataQuality = "estimated"
	QualitySimulated DataQuality = "simulated"
)

// Coordinates is the geocoding result for an input address.
type Coordinates struct {
	Latitude         float64     `json:"latitude" yaml:"latitude"`
	Longitude        float64     `json:"longitude" yaml:"longitude"`
	FormattedAddress string      `json:"formatted_address" yaml:"formatted_address"`
	Quality          DataQuality `json:"quality" yaml:"quality"`

	// ValidationIssues carries warnings from coordinate cross-validation.
	// Empty when validation passed cleanly or was not performed.
	ValidationIssues []string `json:"validation_issues,omitempty" yaml:"validation_issues,omitempty"`
}

// PropertySource identifies where a property record came from.
type PropertySource string

const (
	SourceRegistry  PropertySource = "registry"
	SourceEstimated PropertySource = "estimated"
	SourceSimulated PropertySource = "simulated"
)

// PropertyRecord holds the physical and sale attributes of one property.
// Sqft, Bedrooms and LastSalePrice are always positive once populated.
type PropertyRecord struct {
	Address       string         `json:"address" yaml:"address"`
	Latitude      float64        `json:"latitude" yaml:"latitude"`
	Longitude     float64        `json:"longitude" yaml:"longitude"`
	PropertyType  string         `json:"property_type" yaml:"property_type"` // Condo, Co-op or Rental
	Bedrooms      int            `json:"bedrooms" yaml:"bedrooms"`
	Bathrooms     float64        `json:"bathrooms" yaml:"bathrooms"`
	Sqft          int            `json:"sqft" yaml:"sqft"`
	YearBuilt     int            `json:"year_built" yaml:"year_built"`
	LastSalePrice float64        `json:"last_sale_price" yaml:"last_sale_price"`
	LastSaleDate  string         `json:"last_sale_date" yaml:"last_sale_date"`
	Source        PropertySource `json:"source" yaml:"source"`
	Quality       DataQuality    `json:"quality" yaml:"quality"`
}

// LocationFeatures holds the per-coordinate signals. Scores are 0-100,
// distances in miles.
type LocationFeatures struct {
	CrimeScore          float64        `json:"crime_score" yaml:"crime_score"`
	TransitScore        float64        `json:"transit_score" yaml:"transit_score"`
	AmenityScore        float64        `json:"amenity_score" yaml:"amenity_score"`
	WalkabilityScore    float64        `json:"walkability_score" yaml:"walkability_score"`
	DistanceToSubway    float64        `json:"distance_to_subway" yaml:"distance_to_subway"`
	DistanceToManhattan float64        `json:"distance_to_manhattan" yaml:"distance_to_manhattan"`
	Neighborhood        string         `json:"neighborhood" yaml:"neighborhood"`
	AmenityCounts       map[string]int `json:"amenity_counts,omitempty" yaml:"amenity_counts,omitempty"`
	TotalAmenities      int            `json:"total_amenities" yaml:"total_amenities"`

	// CrimeSourced, TransitSourced and AmenitiesSourced record whether the
	// real-data path produced each sub-score, for quality accounting.
	CrimeSourced     bool `json:"crime_sourced" yaml:"crime_sourced"`
	TransitSourced   bool `json:"transit_sourced" yaml:"transit_sourced"`
	AmenitiesSourced bool `json:"amenities_sourced" yaml:"amenities_sourced"`
}

// RentalComparable is one nearby rental listing used for market comparison.
type RentalComparable struct {
	Address       string  `json:"address" yaml:"address"`
	Latitude      float64 `json:"latitude" yaml:"latitude"`
	Longitude     float64 `json:"longitude" yaml:"longitude"`
	MonthlyRent   float64 `json:"monthly_rent" yaml:"monthly_rent"`
	Bedrooms      int     `json:"bedrooms" yaml:"bedrooms"`
	Bathrooms     float64 `json:"bathrooms" yaml:"bathrooms"`
	Sqft          int     `json:"sqft" yaml:"sqft"`
	DistanceMiles float64 `json:"distance_miles" yaml:"distance_miles"`
	ListingSource string  `json:"listing_source" yaml:"listing_source"`
}

// PlaceholderListingSources are the listing_source labels that mark a
// comparable as generated rather than observed. The quality assessor only
// credits comparables whose source is not in this set.
var PlaceholderListingSources = map[string]bool{
	"Estimated":          true,
	"Market Estimate":    true,
	"Neighborhood Model": true,
}

// CrimeIncident is one complaint record returned by the incident source.
type CrimeIncident struct {
	OffenseDescription string    `json:"offense_description"`
	LawCategory        string    `json:"law_category"`
	Date               time.Time `json:"date"`
}

// SubwayStation is one entry in the transit station dataset.
type SubwayStation struct {
	Name      string  `json:"name" yaml:"name"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}
