package models

import "strings"

// EarthquakeRisk is the aggregate risk over a fetched earthquake set.
type EarthquakeRisk string

const (
	EarthquakeRiskLow    EarthquakeRisk = "low"
	EarthquakeRiskMedium EarthquakeRisk = "medium"
	EarthquakeRiskHigh   EarthquakeRisk = "high"
)

// FloodRisk buckets a flood probability. It shares labels with EarthquakeRisk
// but the two are never compared.
type FloodRisk string

const (
	FloodRiskLow    FloodRisk = "Low"
	FloodRiskMedium FloodRisk = "Medium"
	FloodRiskHigh   FloodRisk = "High"
)

// HeatwaveAlertLevel is supplied per forecast day by the prediction backend.
type HeatwaveAlertLevel string

const (
	HeatwaveNormal    HeatwaveAlertLevel = "Normal"
	HeatwaveCaution   HeatwaveAlertLevel = "Caution"
	HeatwaveWarning   HeatwaveAlertLevel = "Warning"
	HeatwaveEmergency HeatwaveAlertLevel = "Emergency"
)

// ParseHeatwaveAlertLevel maps a backend label onto the enumeration. Empty or
// unrecognised labels become Normal.
func ParseHeatwaveAlertLevel(s string) HeatwaveAlertLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "caution":
		return HeatwaveCaution
	case "warning":
		return HeatwaveWarning
	case "emergency":
		return HeatwaveEmergency
	default:
		return HeatwaveNormal
	}
}

// Rank orders levels from Normal (0) to Emergency (3).
func (l HeatwaveAlertLevel) Rank() int {
	switch l {
	case HeatwaveCaution:
		return 1
	case HeatwaveWarning:
		return 2
	case HeatwaveEmergency:
		return 3
	default:
		return 0
	}
}

// MetricStatus colours a single dashboard metric.
type MetricStatus string

const (
	StatusNormal   MetricStatus = "normal"
	StatusWarning  MetricStatus = "warning"
	StatusCritical MetricStatus = "critical"
)

// EventSeverity labels a single earthquake for list display.
type EventSeverity string

const (
	EventLight    EventSeverity = "Light"
	EventModerate EventSeverity = "Moderate"
	EventStrong   EventSeverity = "Strong"
)
