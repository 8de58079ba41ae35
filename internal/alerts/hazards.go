package alerts

import (
	"fmt"
	"strings"

	"github.com/mr1hm/go-hazard-watch/internal/models"
)

// FloodAlerts raises a high alert when the model predicts a flood and a
// medium one for Medium or High risk without a prediction.
func FloodAlerts(report models.FloodReport) []models.Alert {
	out := make([]models.Alert, 0, 1)
	p := report.Reading.Probability

	switch {
	case report.Reading.FloodPredicted:
		out = append(out, models.Alert{
			HazardType: models.HazardFlood,
			Severity:   models.AlertSeverityHigh,
			Message:    fmt.Sprintf("Flood warning active for %s on %s - %.1f%% flood probability", report.City, report.Date, oneDecimal(p)),
		})
	case report.Risk == models.FloodRiskHigh || report.Risk == models.FloodRiskMedium:
		out = append(out, models.Alert{
			HazardType: models.HazardFlood,
			Severity:   models.AlertSeverityMedium,
			Message:    fmt.Sprintf("%s flood risk for %s on %s - %.1f%% flood probability", report.Risk, report.City, report.Date, oneDecimal(p)),
		})
	}
	return out
}

// HeatwaveAlerts follows the backend's heatwave_alert flag. The day with the
// most severe alert level is named when the forecast has one above Normal.
func HeatwaveAlerts(report models.HeatwaveReport) []models.Alert {
	out := make([]models.Alert, 0, 1)
	if !report.HeatwaveAlert {
		return out
	}

	msg := fmt.Sprintf("Heatwave alert for %s", report.City)
	if worst, ok := worstDay(report.Forecast); ok {
		msg += fmt.Sprintf(" - %s level expected on %s (max %.1f°C)",
			worst.AlertLevel, worst.Date.Format("Jan 2"), oneDecimal(worst.MaxTemperature))
	}
	if m := strings.TrimSpace(report.Message); m != "" {
		msg += ": " + m
	}

	out = append(out, models.Alert{
		HazardType: models.HazardHeatwave,
		Severity:   models.AlertSeverityHigh,
		Message:    msg,
	})
	return out
}

func worstDay(days []models.ForecastDay) (models.ForecastDay, bool) {
	var (
		worst models.ForecastDay
		rank  int
	)
	for _, d := range days {
		if r := d.AlertLevel.Rank(); r > rank {
			worst, rank = d, r
		}
	}
	return worst, rank > 0
}
