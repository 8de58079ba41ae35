package api

import (
	"time"

	"github.com/mr1hm/go-hazard-watch/internal/models"
)

// FeatureCollection carries the classification of the whole region as
// foreign members next to the quake features.
type FeatureCollection struct {
	Type       string                `json:"type"`
	Features   []Feature             `json:"features"`
	Subject    string                `json:"subject,omitempty"`
	RiskLevel  models.EarthquakeRisk `json:"risk_level"`
	Alerts     []models.Alert        `json:"alerts"`
	Generation uint64                `json:"generation"`
	Timestamp  time.Time             `json:"timestamp"`
}
type Feature struct {
	Type       string         `json:"type"`
	ID         string         `json:"id,omitempty"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

func toGeoJSON(report *models.EarthquakeReport) FeatureCollection {
	features := make([]Feature, 0, len(report.Quakes))

	for _, q := range report.Quakes {
		f := Feature{
			Type: "Feature",
			ID:   q.ID,
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: []float64{q.Location.Lon, q.Location.Lat, q.DepthKM},
			},
			Properties: map[string]any{
				"magnitude":    q.Magnitude,
				"depth_km":     q.DepthKM,
				"place":        q.Place,
				"time":         q.OccurredAt,
				"significance": q.Significance,
				"url":          q.URL,
				"distance_km":  q.DistanceKM,
			},
		}
		features = append(features, f)
	}

	alerts := report.Alerts
	if alerts == nil {
		alerts = []models.Alert{}
	}

	return FeatureCollection{
		Type:       "FeatureCollection",
		Features:   features,
		Subject:    report.Subject,
		RiskLevel:  report.Risk,
		Alerts:     alerts,
		Generation: report.Generation,
		Timestamp:  report.FetchedAt,
	}
}
