// Package geo holds the coordinate math used by venue proximity queries.
package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

const (
	// EarthRadiusMeters is the IUGG mean radius.
	EarthRadiusMeters = 6371008.8

	// MetersPerMile is the international mile.
	MetersPerMile = 1609.344

	metersPerDegreeLat = math.Pi * EarthRadiusMeters / 180
)

var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Point is a WGS84 coordinate in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate rejects NaN, infinities and out of range values.
func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: latitude %v", ErrInvalidCoordinate, p.Lat)
	}
	if math.IsNaN(p.Lng) || math.IsInf(p.Lng, 0) || p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("%w: longitude %v", ErrInvalidCoordinate, p.Lng)
	}
	return nil
}

// Distance returns the great-circle distance between a and b in meters.
func Distance(a, b Point) float64 {
	return a.latLng().Distance(b.latLng()).Radians() * EarthRadiusMeters
}

func (p Point) latLng() s2.LatLng {
	return s2.LatLngFromDegrees(p.Lat, p.Lng)
}

// MetersToMiles converts and rounds to one decimal place.
func MetersToMiles(meters float64) float64 {
	return math.Round(meters/MetersPerMile*10) / 10
}

// Bounds is a lat/lng rectangle. When it spans the antimeridian MinLng > MaxLng.
type Bounds struct {
	MinLat, MinLng float64
	MaxLat, MaxLng float64
}

// WrapsAntimeridian reports whether the box crosses longitude ±180.
func (b Bounds) WrapsAntimeridian() bool {
	return b.MinLng > b.MaxLng
}

// BoundsAround returns a box that contains every point within radius meters
// of center. It is a prefilter only; callers still check Distance.
func BoundsAround(center Point, radius float64) Bounds {
	angle := s1.Angle(radius / EarthRadiusMeters)
	rect := s2.CapFromCenterAngle(s2.PointFromLatLng(center.latLng()), angle).RectBound()

	b := Bounds{
		MinLat: math.Max(rect.Lat.Lo*180/math.Pi, -90),
		MaxLat: math.Min(rect.Lat.Hi*180/math.Pi, 90),
	}
	if rect.Lng.IsFull() {
		// a pole is inside the circle, or it spans every longitude anyway
		b.MinLng, b.MaxLng = -180, 180
		return b
	}
	b.MinLng = rect.Lng.Lo * 180 / math.Pi
	b.MaxLng = rect.Lng.Hi * 180 / math.Pi
	return b
}

// Offset moves p by the given meters north and east. Used to build fixtures
// at a known distance.
func Offset(p Point, north, east float64) Point {
	lat := p.Lat + north/metersPerDegreeLat
	lng := p.Lng + east/(metersPerDegreeLat*math.Cos(radians(p.Lat)))
	return Point{Lat: lat, Lng: lng}
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
