package models

import "time"

type AlertSeverity string

const (
	AlertSeverityMedium AlertSeverity = "medium"
	AlertSeverityHigh   AlertSeverity = "high"
)

type Alert struct {
	HazardType HazardType    `json:"type"`
	Severity   AlertSeverity `json:"level"`
	Message    string        `json:"message"`
}

// AlertBatch is everything one fetch produced for one subject. An empty
// Alerts slice is a valid "no alerts" notification.
type AlertBatch struct {
	Subject     string     `json:"subject"`
	HazardType  HazardType `json:"hazard_type"`
	Alerts      []Alert    `json:"alerts"`
	GeneratedAt time.Time  `json:"generated_at"`
	Generation  uint64     `json:"generation"`
}
