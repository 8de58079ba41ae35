// Package geo holds great-circle helpers for hazard proximity.
package geo

import (
	"math"

	"github.com/mr1hm/go-hazard-watch/internal/models"
)

// EarthRadiusKM is the mean Earth radius used by Distance.
const EarthRadiusKM = 6371.0

// DistanceFunc returns the distance in kilometres between two points.
type DistanceFunc func(a, b models.Coordinate) float64

// Distance is the haversine great-circle distance in kilometres.
func Distance(a, b models.Coordinate) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * EarthRadiusKM * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// Around returns the box extending radiusDeg degrees from center on each axis.
// The box is not clamped or wrapped at the poles or the antimeridian.
func Around(center models.Coordinate, radiusDeg float64) BoundingBox {
	return BoundingBox{
		MinLat: center.Lat - radiusDeg,
		MaxLat: center.Lat + radiusDeg,
		MinLon: center.Lon - radiusDeg,
		MaxLon: center.Lon + radiusDeg,
	}
}

func (b BoundingBox) Contains(c models.Coordinate) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat &&
		c.Lon >= b.MinLon && c.Lon <= b.MaxLon
}
