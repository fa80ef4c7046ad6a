// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network
// requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "rentscope/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// GeocodingConfig holds settings for the geocoding stage.
type GeocodingConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is the geocoding service credential. Empty or "demo-api-key"
	// selects demo mode: simulated coordinates and limited validation.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MinDelay is the minimum spacing between geocoding calls (default 100ms).
	MinDelay time.Duration `json:"min_delay" yaml:"min_delay"`
}

// RegistryConfig holds settings for property registry and sales lookups.
type RegistryConfig struct {
	HTTPConfig `yaml:",inline"`

	// AppToken is an optional NYC Open Data application token for higher
	// rate limits.
	AppToken string `json:"app_token,omitempty" yaml:"app_token,omitempty"`

	// MinDelay is the minimum spacing between registry calls (default 1s).
	MinDelay time.Duration `json:"min_delay" yaml:"min_delay"`

	// MaxCandidates bounds the fuzzy candidate set (default 20).
	MaxCandidates int `json:"max_candidates" yaml:"max_candidates"`
}

// LocationConfig holds settings for the location feature collectors.
type LocationConfig struct {
	HTTPConfig `yaml:",inline"`

	// PlacesAPIKey is the amenity search credential; empty selects the
	// simulated amenity path.
	PlacesAPIKey string `json:"places_api_key,omitempty" yaml:"places_api_key,omitempty"`

	// AppToken is an optional NYC Open Data application token.
	AppToken string `json:"app_token,omitempty" yaml:"app_token,omitempty"`

	// MinDelay is the minimum spacing between NYC Open Data calls
	// (default 1s).
	MinDelay time.Duration `json:"min_delay" yaml:"min_delay"`

	// StationsFile points to a local YAML subway station dataset. When set
	// it is preferred over the remote station feed.
	StationsFile string `json:"stations_file,omitempty" yaml:"stations_file,omitempty"`

	// CrimeRadiusMiles is the half-width of the incident bounding box
	// (default 0.5).
	CrimeRadiusMiles float64 `json:"crime_radius_miles" yaml:"crime_radius_miles"`

	// AmenityRadiusMeters is the place search radius (default 1000).
	AmenityRadiusMeters int `json:"amenity_radius_meters" yaml:"amenity_radius_meters"`
}

// ModelConfig holds settings for the revenue predictor.
type ModelConfig struct {
	// TrainingSamples is the synthetic training set size (default 1500).
	TrainingSamples int `json:"training_samples" yaml:"training_samples"`

	// Seed fixes the training data generator for reproducible runs.
	Seed int64 `json:"seed" yaml:"seed"`
}

// CacheConfig holds settings for the optional local analysis cache.
type CacheConfig struct {
	// Enabled turns the cache on. The cache only avoids redundant external
	// calls within a session; it is never a source of truth.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Path is the SQLite database file (default "data/rentscope.db").
	Path string `json:"path" yaml:"path"`
}

// ServerConfig holds settings for the HTTP surface.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Geocoding GeocodingConfig `json:"geocoding" yaml:"geocoding"`
	Registry  RegistryConfig  `json:"registry" yaml:"registry"`
	Location  LocationConfig  `json:"location" yaml:"location"`
	Model     ModelConfig     `json:"model" yaml:"model"`
	Cache     CacheConfig     `json:"cache" yaml:"cache"`
	Server    ServerConfig    `json:"server" yaml:"server"`
}
