// Package risk buckets raw hazard values into the per-hazard risk levels and
// metric statuses shown on the dashboard.
package risk

import (
	"strings"
	"time"

	"github.com/mr1hm/go-hazard-watch/internal/models"
)

const (
	SignificantMagnitude = 4.5
	RecentWindow         = 7 * 24 * time.Hour
	recentHighCount      = 3
)

// EarthquakeRisk evaluates the whole fetched set: high when any event reaches
// SignificantMagnitude or at least three occurred within RecentWindow, medium
// when any occurred within RecentWindow.
func EarthquakeRisk(quakes []models.Earthquake, now time.Time) models.EarthquakeRisk {
	significant := false
	recent := 0
	for _, q := range quakes {
		if q.Magnitude >= SignificantMagnitude {
			significant = true
		}
		if Within(q.OccurredAt, now, RecentWindow) {
			recent++
		}
	}

	switch {
	case significant || recent >= recentHighCount:
		return models.EarthquakeRiskHigh
	case recent > 0:
		return models.EarthquakeRiskMedium
	default:
		return models.EarthquakeRiskLow
	}
}

// Within reports whether t lies in the window ending at now. The lower bound
// is exclusive.
func Within(t, now time.Time, window time.Duration) bool {
	return t.After(now.Add(-window))
}

// CountWithin counts earthquakes inside the window ending at now.
func CountWithin(quakes []models.Earthquake, now time.Time, window time.Duration) int {
	n := 0
	for _, q := range quakes {
		if Within(q.OccurredAt, now, window) {
			n++
		}
	}
	return n
}

func EventSeverity(magnitude float64) models.EventSeverity {
	switch {
	case magnitude >= 5:
		return models.EventStrong
	case magnitude >= 3:
		return models.EventModerate
	default:
		return models.EventLight
	}
}

// FloodRisk buckets a 0-100 probability. Both 35 and 70 are medium.
func FloodRisk(probability float64) models.FloodRisk {
	switch {
	case probability < 35:
		return models.FloodRiskLow
	case probability <= 70:
		return models.FloodRiskMedium
	default:
		return models.FloodRiskHigh
	}
}

// HeatwaveActive is the canonical heatwave decision and comes from the backend.
func HeatwaveActive(report models.HeatwaveReport) bool {
	return report.HeatwaveAlert
}

// TemperatureStatus colours a temperature metric card. It never decides
// whether a heatwave alert is active.
func TemperatureStatus(celsius float64) models.MetricStatus {
	return threshold(celsius, 30, 35)
}

func FloodTemperatureStatus(celsius float64) models.MetricStatus {
	if celsius > 30 {
		return models.StatusWarning
	}
	return models.StatusNormal
}

func Rainfall24hStatus(mm float64) models.MetricStatus {
	return threshold(mm, 10, 20)
}

func Rainfall72hStatus(mm float64) models.MetricStatus {
	return threshold(mm, 30, 50)
}

// LevelStatus colours river and reservoir fill percentages.
func LevelStatus(pct float64) models.MetricStatus {
	return threshold(pct, 50, 70)
}

func FloodMetrics(r models.FloodReading) models.FloodMetrics {
	return models.FloodMetrics{
		Temperature: FloodTemperatureStatus(r.Temperature),
		Rainfall24h: Rainfall24hStatus(r.Rainfall24h),
		Rainfall72h: Rainfall72hStatus(r.Rainfall72h),
		RiverLevel:  LevelStatus(r.RiverLevelPct),
		Reservoir:   LevelStatus(r.ReservoirLevelPct),
	}
}

func threshold(v, warning, critical float64) models.MetricStatus {
	switch {
	case v > critical:
		return models.StatusCritical
	case v > warning:
		return models.StatusWarning
	default:
		return models.StatusNormal
	}
}

// ScoreInputs are the aggregate-dashboard signals. Risk labels are the
// backend's free-form strings ("low", "medium", "high").
type ScoreInputs struct {
	FloodRisk     string
	WildfireRisk  string
	Temperature   float64
	WindSpeed     float64
	Precipitation float64
}

// AggregateScore combines dashboard signals into a 0-100 score.
func AggregateScore(in ScoreInputs) int {
	score := labelScore(in.FloodRisk) + labelScore(in.WildfireRisk)
	if in.Temperature > 35 {
		score += 30
	}
	if in.WindSpeed > 15 {
		score += 20
	}
	if in.Precipitation > 10 {
		score += 25
	}
	return min(score, 100)
}

func labelScore(label string) int {
	switch strings.ToLower(label) {
	case "high":
		return 70
	case "medium":
		return 40
	default:
		return 0
	}
}
