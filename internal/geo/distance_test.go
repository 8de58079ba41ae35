package geo

import (
	"math"
	"testing"

	"github.com/mr1hm/go-hazard-watch/internal/models"
)

func TestDistance_SamePointIsZero(t *testing.T) {
	points := []models.Coordinate{
		{Lat: 0, Lon: 0},
		{Lat: 35.6762, Lon: 139.6503},
		{Lat: -33.8688, Lon: 151.2093},
		{Lat: 89.9, Lon: -179.9},
	}
	for _, p := range points {
		if d := Distance(p, p); d != 0 {
			t.Errorf("Distance(%v, %v) = %f, want 0", p, p, d)
		}
	}
}

func TestDistance_Symmetric(t *testing.T) {
	pairs := [][2]models.Coordinate{
		{{Lat: 37.7749, Lon: -122.4194}, {Lat: 34.0522, Lon: -118.2437}},
		{{Lat: 21.1498, Lon: 79.0821}, {Lat: 19.0760, Lon: 72.8777}},
		{{Lat: -1, Lon: 1}, {Lat: 1, Lon: -1}},
	}
	for _, p := range pairs {
		ab := Distance(p[0], p[1])
		ba := Distance(p[1], p[0])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("asymmetric distance: %f vs %f", ab, ba)
		}
	}
}

func TestDistance_KnownValues(t *testing.T) {
	tests := []struct {
		name string
		a, b models.Coordinate
		want float64
		tol  float64
	}{
		{"one degree of latitude", models.Coordinate{Lat: 0, Lon: 0}, models.Coordinate{Lat: 1, Lon: 0}, 111.195, 0.01},
		{"SF to LA", models.Coordinate{Lat: 37.7749, Lon: -122.4194}, models.Coordinate{Lat: 34.0522, Lon: -118.2437}, 559.1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("Distance = %f, want %f ± %f", got, tt.want, tt.tol)
			}
		})
	}
}

func TestAround(t *testing.T) {
	box := Around(models.Coordinate{Lat: 35, Lon: 139}, 0.9)

	approx := func(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
	if !approx(box.MinLat, 34.1) || !approx(box.MaxLat, 35.9) {
		t.Errorf("unexpected lat range: %+v", box)
	}
	if !approx(box.MinLon, 138.1) || !approx(box.MaxLon, 139.9) {
		t.Errorf("unexpected lon range: %+v", box)
	}
	if !box.Contains(models.Coordinate{Lat: 35.5, Lon: 139.5}) {
		t.Error("expected box to contain nearby point")
	}
	if box.Contains(models.Coordinate{Lat: 36.5, Lon: 139}) {
		t.Error("expected box to exclude point 1.5 degrees north")
	}
}
