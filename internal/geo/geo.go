// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package geo provides the geodesic helpers shared by the location
// collectors. Distances are in miles throughout.
package geo

import (
	"math"

	"github.com/golang/geo/s2"
)

// EarthRadiusMiles is the mean Earth radius.
const EarthRadiusMiles = 3958.8

// MilesPerDegreeLat approximates one degree of latitude.
const MilesPerDegreeLat = 69.0

// Manhattan center (Times Square), the reference point for distance-based
// fallback estimation.
const (
	ManhattanLat = 40.7580
	ManhattanLng = -73.9855
)

// NYC bounding box used for coordinate validation.
const (
	NYCLatMin = 40.4774
	NYCLatMax = 40.9176
	NYCLngMin = -74.2591
	NYCLngMax = -73.7004
)

// DistanceMiles returns the great-circle distance between two points.
func DistanceMiles(lat1, lng1, lat2, lng2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lng1)
	p2 := s2.LatLngFromDegrees(lat2, lng2)
	return p1.Distance(p2).Radians() * EarthRadiusMiles
}

// DistanceToManhattan returns the distance from a point to Times Square.
func DistanceToManhattan(lat, lng float64) float64 {
	return DistanceMiles(lat, lng, ManhattanLat, ManhattanLng)
}

// InNYCBounds reports whether the point falls inside the NYC bounding box.
func InNYCBounds(lat, lng float64) bool {
	return lat >= NYCLatMin && lat <= NYCLatMax &&
		lng >= NYCLngMin && lng <= NYCLngMax
}

// BoundingOffsets converts a radius in miles to latitude and longitude
// degree offsets at the given latitude, for bounding-box queries.
func BoundingOffsets(lat, radiusMiles float64) (latOffset, lngOffset float64) {
	latOffset = radiusMiles / MilesPerDegreeLat
	lngOffset = radiusMiles / (MilesPerDegreeLat * math.Cos(lat*math.Pi/180))
	return latOffset, lngOffset
}
