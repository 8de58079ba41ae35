package main

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mr1hm/go-hazard-watch/internal/models"
)

func TestRenderReport(t *testing.T) {
	quakes := make([]models.Earthquake, 12)
	for i := range quakes {
		quakes[i] = models.Earthquake{
			Magnitude:  4.0 + float64(i)/10,
			DistanceKM: float64(10 * i),
			Place:      fmt.Sprintf("place %d", i),
			OccurredAt: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
		}
	}

	var buf bytes.Buffer
	renderReport(&buf, &models.EarthquakeReport{
		Origin: models.Coordinate{Lat: 35.6762, Lon: 139.6503},
		Quakes: quakes,
		Risk:   models.EarthquakeRiskMedium,
	})

	out := buf.String()
	for _, want := range []string{"35.6762, 139.6503", "MEDIUM", "12 in the last 30 days", "place 9", "... and 2 more"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "place 10") {
		t.Errorf("expected the list to be truncated:\n%s", out)
	}
}

func TestRenderBatch(t *testing.T) {
	var buf bytes.Buffer
	renderBatch(&buf, models.AlertBatch{Alerts: []models.Alert{}})
	if !strings.Contains(buf.String(), "No alerts.") {
		t.Errorf("unexpected output for empty batch: %q", buf.String())
	}

	buf.Reset()
	renderBatch(&buf, models.AlertBatch{Alerts: []models.Alert{
		{HazardType: models.HazardEarthquake, Severity: models.AlertSeverityHigh, Message: "Strong earthquake M6.1 detected 40.2km away at Hachioji"},
	}})
	out := buf.String()
	if !strings.Contains(out, "[HIGH]") || !strings.Contains(out, "M6.1") {
		t.Errorf("unexpected output: %q", out)
	}
}
