package alerts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mr1hm/go-hazard-watch/internal/models"
)

func TestFloodAlerts(t *testing.T) {
	base := models.FloodReport{City: "Chennai", Date: "2024-06-02"}

	t.Run("predicted flood is high", func(t *testing.T) {
		r := base
		r.Reading = models.FloodReading{Probability: 81.3, FloodPredicted: true}
		r.Risk = models.FloodRiskHigh

		got := FloodAlerts(r)
		require.Len(t, got, 1)
		assert.Equal(t, models.AlertSeverityHigh, got[0].Severity)
		assert.Equal(t, models.HazardFlood, got[0].HazardType)
		assert.Equal(t, "Flood warning active for Chennai on 2024-06-02 - 81.3% flood probability", got[0].Message)
	})

	t.Run("medium risk without prediction", func(t *testing.T) {
		r := base
		r.Reading = models.FloodReading{Probability: 50}
		r.Risk = models.FloodRiskMedium

		got := FloodAlerts(r)
		require.Len(t, got, 1)
		assert.Equal(t, models.AlertSeverityMedium, got[0].Severity)
		assert.Equal(t, "Medium flood risk for Chennai on 2024-06-02 - 50.0% flood probability", got[0].Message)
	})

	t.Run("low risk is quiet", func(t *testing.T) {
		r := base
		r.Reading = models.FloodReading{Probability: 10}
		r.Risk = models.FloodRiskLow

		got := FloodAlerts(r)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestHeatwaveAlerts(t *testing.T) {
	t.Run("no alert flag", func(t *testing.T) {
		got := HeatwaveAlerts(models.HeatwaveReport{
			City:     "Delhi",
			Forecast: []models.ForecastDay{{AlertLevel: models.HeatwaveEmergency}},
		})
		assert.NotNil(t, got)
		assert.Empty(t, got, "forecast levels alone never raise an alert")
	})

	t.Run("names the worst day", func(t *testing.T) {
		got := HeatwaveAlerts(models.HeatwaveReport{
			City:          "Delhi",
			HeatwaveAlert: true,
			Message:       "Stay hydrated",
			Forecast: []models.ForecastDay{
				{Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), AlertLevel: models.HeatwaveWarning, MaxTemperature: 43},
				{Date: time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), AlertLevel: models.HeatwaveEmergency, MaxTemperature: 46.5},
				{Date: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), AlertLevel: models.HeatwaveCaution, MaxTemperature: 40},
			},
		})
		require.Len(t, got, 1)
		assert.Equal(t, models.AlertSeverityHigh, got[0].Severity)
		assert.Equal(t, "Heatwave alert for Delhi - Emergency level expected on Jun 2 (max 46.5°C): Stay hydrated", got[0].Message)
	})

	t.Run("all normal days", func(t *testing.T) {
		got := HeatwaveAlerts(models.HeatwaveReport{
			City:          "Delhi",
			HeatwaveAlert: true,
			Forecast:      []models.ForecastDay{{AlertLevel: models.HeatwaveNormal}},
		})
		require.Len(t, got, 1)
		assert.Equal(t, "Heatwave alert for Delhi", got[0].Message)
	})
}
