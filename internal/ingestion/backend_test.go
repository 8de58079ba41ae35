package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mr1hm/go-hazard-watch/internal/models"
)

func TestBackendClient_Disabled(t *testing.T) {
	b := NewBackendClient("", testClient("backend"))
	assert.False(t, b.Enabled())

	_, err := b.CheckHeatwave(context.Background(), "Delhi")
	var netErr *models.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.True(t, errors.Is(err, ErrBackendDisabled))

	_, err = b.PredictFlood(context.Background(), FloodInput{})
	assert.ErrorIs(t, err, ErrBackendDisabled)
	_, err = b.HistoricalData(context.Background(), "Delhi")
	assert.ErrorIs(t, err, ErrBackendDisabled)
	_, err = b.DisasterMonitor(context.Background(), "Delhi")
	assert.ErrorIs(t, err, ErrBackendDisabled)
}

func TestBackendClient_PredictFlood(t *testing.T) {
	var sent FloodInput
	var path string
	srv := jsonServer(t, `{"flood_probability": 62.5, "flood_prediction": 1, "rainfall_24h": 14, "rainfall_72h": 41.25, "temperature": 27}`,
		func(r *http.Request) {
			path = r.URL.Path
			_ = json.NewDecoder(r.Body).Decode(&sent)
		})

	b := NewBackendClient(srv.URL+"/", testClient("backend"))
	in := FloodInput{
		City:           "Chennai",
		Date:           "2024-06-02",
		SoilType:       "Clay",
		SoilMoisture:   33,
		RiverLevel:     55,
		ReservoirLevel: 72,
		PreviousFloods: 1,
	}
	r, err := b.PredictFlood(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "/predict", path)
	assert.Equal(t, in, sent)

	assert.Equal(t, 62.5, r.Probability)
	assert.True(t, r.FloodPredicted)
	assert.Equal(t, 14.0, r.Rainfall24h)
	assert.Equal(t, 41.25, r.Rainfall72h)
	assert.Equal(t, 55.0, r.RiverLevelPct, "input level used when the backend omits it")
	assert.Equal(t, 72.0, r.ReservoirLevelPct)
	assert.Equal(t, "Clay", r.SoilType)
	assert.True(t, r.PreviousFloods)
}

func TestBackendClient_PredictFloodClampsProbability(t *testing.T) {
	srv := jsonServer(t, `{"flood_probability": 140}`, nil)
	b := NewBackendClient(srv.URL, testClient("backend"))

	r, err := b.PredictFlood(context.Background(), FloodInput{City: "x"})
	require.NoError(t, err)
	assert.Equal(t, 100.0, r.Probability)
	assert.False(t, r.FloodPredicted)
}

func TestBackendClient_CheckHeatwave(t *testing.T) {
	var path string
	srv := jsonServer(t, `{
		"city": "New Delhi",
		"current_weather": {"temperature": 41, "apparent_temperature": 44, "humidity": 18},
		"forecast": [
			{"date": "2024-06-01", "temperature_2m_max": 45, "is_heatwave": 1, "alert_level": "Emergency", "heatwave_probability": 0.92},
			{"date": "2024-06-02"}
		],
		"heatwave_alert": true,
		"message": "Extreme heat expected"
	}`, func(r *http.Request) { path = r.URL.EscapedPath() })

	b := NewBackendClient(srv.URL, testClient("backend"))
	hc, err := b.CheckHeatwave(context.Background(), "New Delhi")
	require.NoError(t, err)

	assert.Equal(t, "/heatwave/New%20Delhi", path)
	assert.Equal(t, "New Delhi", hc.City)
	assert.True(t, hc.Alert)
	assert.Equal(t, "Extreme heat expected", hc.Message)
	assert.Equal(t, 41.0, hc.Current.Temperature)
	assert.Equal(t, 0.0, hc.Current.WindSpeed)

	require.Len(t, hc.Forecast, 2)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), hc.Forecast[0].Date)
	assert.Equal(t, models.HeatwaveEmergency, hc.Forecast[0].AlertLevel)
	assert.True(t, hc.Forecast[0].IsHeatwave)
	assert.Equal(t, 0.92, hc.Forecast[0].HeatwaveProbability)

	assert.Equal(t, models.HeatwaveNormal, hc.Forecast[1].AlertLevel, "absent level defaults to Normal")
	assert.Equal(t, 0.0, hc.Forecast[1].HeatwaveProbability)
	assert.False(t, hc.Forecast[1].IsHeatwave)
}

func TestBackendClient_CheckHeatwaveMissingFields(t *testing.T) {
	srv := jsonServer(t, `{}`, nil)
	b := NewBackendClient(srv.URL, testClient("backend"))

	hc, err := b.CheckHeatwave(context.Background(), "Jaipur")
	require.NoError(t, err)
	assert.Equal(t, "Jaipur", hc.City)
	assert.False(t, hc.Alert)
	assert.NotNil(t, hc.Forecast)
	assert.Empty(t, hc.Forecast)
}

func TestBackendClient_HistoricalData(t *testing.T) {
	srv := jsonServer(t, `[{"year": 2022, "heatwave_occurred": true, "max_temperature": 46.1}, {"year": 2023}]`, nil)
	b := NewBackendClient(srv.URL, testClient("backend"))

	years, err := b.HistoricalData(context.Background(), "Delhi")
	require.NoError(t, err)
	assert.Equal(t, []models.HistoricalYear{
		{Year: 2022, HeatwaveOccurred: true, MaxTemperature: 46.1},
		{Year: 2023},
	}, years)
}

func TestBackendClient_HistoricalDataFailure(t *testing.T) {
	srv := statusServer(t, http.StatusInternalServerError)
	b := NewBackendClient(srv.URL, testClient("backend"))

	_, err := b.HistoricalData(context.Background(), "Delhi")
	var netErr *models.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, http.StatusInternalServerError, netErr.StatusCode)
}

func TestBackendClient_DisasterMonitor(t *testing.T) {
	var path string
	srv := jsonServer(t, `{
		"flood_data": {"water_level": 3.2, "risk_level": "High", "probability": 0.8},
		"wildfire_data": {"active_fires": [{}, {}], "nearby": true, "risk_level": "medium"},
		"alerts": [
			{"type": "Flood", "level": "HIGH", "message": "River overflow"},
			{"type": "wildfire", "level": "whatever", "message": "Smoke"}
		]
	}`, func(r *http.Request) { path = r.URL.Path })

	b := NewBackendClient(srv.URL, testClient("backend"))
	m, err := b.DisasterMonitor(context.Background(), "Pune")
	require.NoError(t, err)

	assert.Equal(t, "/disaster-monitor/Pune", path)
	assert.Equal(t, "high", m.FloodRisk)
	assert.Equal(t, 0.8, m.FloodProb)
	assert.Equal(t, 3.2, m.WaterLevel)
	assert.Equal(t, "medium", m.WildfireRisk)
	assert.True(t, m.WildfireNearby)
	assert.Equal(t, 2, m.ActiveFireCount)
	assert.Equal(t, []models.Alert{
		{HazardType: models.HazardFlood, Severity: models.AlertSeverityHigh, Message: "River overflow"},
		{HazardType: models.HazardWildfire, Severity: models.AlertSeverityMedium, Message: "Smoke"},
	}, m.Alerts)
}

func TestBackendClient_DisasterMonitorDefaults(t *testing.T) {
	srv := jsonServer(t, `{}`, nil)
	b := NewBackendClient(srv.URL, testClient("backend"))

	m, err := b.DisasterMonitor(context.Background(), "Pune")
	require.NoError(t, err)
	assert.Equal(t, "low", m.FloodRisk)
	assert.Equal(t, "low", m.WildfireRisk)
	assert.Empty(t, m.Alerts)
}
