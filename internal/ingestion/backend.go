package ingestion

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mr1hm/go-hazard-watch/internal/models"
	"github.com/mr1hm/go-hazard-watch/internal/resilience"
)

var ErrBackendDisabled = errors.New("backend not configured")

// FloodInput is the feature vector sent to the flood model.
type FloodInput struct {
	City           string  `json:"city"`
	Date           string  `json:"date"`
	SoilType       string  `json:"soilType"`
	SoilMoisture   int     `json:"soilMoisture"`
	RiverLevel     float64 `json:"riverLevel"`
	ReservoirLevel float64 `json:"reservoirLevel"`
	PreviousFloods float64 `json:"previousFloods"`
}

// Wire structs are loose on purpose: every field is optional and
// converted with explicit defaults below.

type floodWire struct {
	Probability    *float64 `json:"flood_probability"`
	Prediction     *int     `json:"flood_prediction"`
	Rainfall24h    *float64 `json:"rainfall_24h"`
	Rainfall72h    *float64 `json:"rainfall_72h"`
	ReservoirLevel *float64 `json:"reservoir_level"`
	RiverLevel     *float64 `json:"river_level"`
	Temperature    *float64 `json:"temperature"`
	Lat            *float64 `json:"lat"`
	Lon            *float64 `json:"lon"`
}

type heatwaveWire struct {
	City           string            `json:"city"`
	CurrentWeather *heatwaveCurrent  `json:"current_weather"`
	Forecast       []heatwaveDayWire `json:"forecast"`
	HeatwaveAlert  *bool             `json:"heatwave_alert"`
	Message        string            `json:"message"`
}

type heatwaveCurrent struct {
	Temperature         *float64 `json:"temperature"`
	ApparentTemperature *float64 `json:"apparent_temperature"`
	Humidity            *float64 `json:"humidity"`
	WindSpeed           *float64 `json:"wind_speed"`
	CloudCover          *float64 `json:"cloud_cover"`
}

type heatwaveDayWire struct {
	Date                string   `json:"date"`
	MaxTemperature      *float64 `json:"temperature_2m_max"`
	ApparentTemperature *float64 `json:"apparent_temperature_max"`
	Humidity            *float64 `json:"relative_humidity_2m_mean"`
	WindSpeed           *float64 `json:"wind_speed_10m_max"`
	IsHeatwave          *int     `json:"is_heatwave"`
	AlertLevel          string   `json:"alert_level"`
	Probability         *float64 `json:"heatwave_probability"`
}

type historicalWire struct {
	Year             int      `json:"year"`
	HeatwaveOccurred *bool    `json:"heatwave_occurred"`
	MaxTemperature   *float64 `json:"max_temperature"`
}

type monitorWire struct {
	FloodData *struct {
		WaterLevel  *float64 `json:"water_level"`
		RiskLevel   string   `json:"risk_level"`
		Probability *float64 `json:"probability"`
	} `json:"flood_data"`
	WildfireData *struct {
		ActiveFires []struct{} `json:"active_fires"`
		Nearby      bool       `json:"nearby"`
		RiskLevel   string     `json:"risk_level"`
	} `json:"wildfire_data"`
	Alerts []struct {
		Type    string `json:"type"`
		Level   string `json:"level"`
		Message string `json:"message"`
	} `json:"alerts"`
}

// HeatwaveCheck is the backend's heatwave assessment for one city.
type HeatwaveCheck struct {
	City     string
	Current  models.CurrentWeather
	Forecast []models.ForecastDay
	Alert    bool
	Message  string
}

type PredictionBackend interface {
	PredictFlood(ctx context.Context, in FloodInput) (models.FloodReading, error)
	CheckHeatwave(ctx context.Context, city string) (HeatwaveCheck, error)
	HistoricalData(ctx context.Context, city string) ([]models.HistoricalYear, error)
	DisasterMonitor(ctx context.Context, city string) (models.MonitorData, error)
}

// BackendClient talks to the external prediction service. With an empty
// base URL every call fails with ErrBackendDisabled.
type BackendClient struct {
	baseURL string
	client  *resilience.Client
}

func NewBackendClient(baseURL string, client *resilience.Client) *BackendClient {
	return &BackendClient{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (b *BackendClient) Enabled() bool { return b.baseURL != "" }

func (b *BackendClient) PredictFlood(ctx context.Context, in FloodInput) (models.FloodReading, error) {
	if err := b.check(); err != nil {
		return models.FloodReading{}, err
	}

	var wire floodWire
	if err := b.client.PostJSON(ctx, b.baseURL+"/predict", in, &wire); err != nil {
		return models.FloodReading{}, err
	}
	return toFloodReading(wire, in), nil
}

func (b *BackendClient) CheckHeatwave(ctx context.Context, city string) (HeatwaveCheck, error) {
	if err := b.check(); err != nil {
		return HeatwaveCheck{}, err
	}

	var wire heatwaveWire
	if err := b.client.GetJSON(ctx, b.cityURL("/heatwave/", city), nil, &wire); err != nil {
		return HeatwaveCheck{}, err
	}
	return toHeatwaveCheck(wire, city), nil
}

func (b *BackendClient) HistoricalData(ctx context.Context, city string) ([]models.HistoricalYear, error) {
	if err := b.check(); err != nil {
		return nil, err
	}

	var wire []historicalWire
	if err := b.client.GetJSON(ctx, b.cityURL("/historical/", city), nil, &wire); err != nil {
		return nil, err
	}

	years := make([]models.HistoricalYear, 0, len(wire))
	for _, w := range wire {
		years = append(years, models.HistoricalYear{
			Year:             w.Year,
			HeatwaveOccurred: w.HeatwaveOccurred != nil && *w.HeatwaveOccurred,
			MaxTemperature:   deref(w.MaxTemperature),
		})
	}
	return years, nil
}

func (b *BackendClient) DisasterMonitor(ctx context.Context, city string) (models.MonitorData, error) {
	if err := b.check(); err != nil {
		return models.MonitorData{}, err
	}

	var wire monitorWire
	if err := b.client.GetJSON(ctx, b.cityURL("/disaster-monitor/", city), nil, &wire); err != nil {
		return models.MonitorData{}, err
	}
	return toMonitorData(wire), nil
}

func (b *BackendClient) check() error {
	if !b.Enabled() {
		return &models.NetworkError{Source: b.client.Name(), Err: ErrBackendDisabled}
	}
	if _, err := url.Parse(b.baseURL); err != nil {
		return &models.NetworkError{Source: b.client.Name(), Err: fmt.Errorf("error parsing backend url: %w", err)}
	}
	return nil
}

func (b *BackendClient) cityURL(prefix, city string) string {
	return b.baseURL + prefix + url.PathEscape(strings.TrimSpace(city))
}

func toFloodReading(w floodWire, in FloodInput) models.FloodReading {
	r := models.FloodReading{
		Probability:       clamp(deref(w.Probability), 0, 100),
		Rainfall24h:       deref(w.Rainfall24h),
		Rainfall72h:       deref(w.Rainfall72h),
		ReservoirLevelPct: in.ReservoirLevel,
		RiverLevelPct:     in.RiverLevel,
		Temperature:       deref(w.Temperature),
		SoilType:          in.SoilType,
		PreviousFloods:    in.PreviousFloods > 0,
		FloodPredicted:    w.Prediction != nil && *w.Prediction == 1,
		Location:          models.Coordinate{Lat: deref(w.Lat), Lon: deref(w.Lon)},
		ObservedAt:        time.Now().UTC(),
	}
	if w.ReservoirLevel != nil {
		r.ReservoirLevelPct = *w.ReservoirLevel
	}
	if w.RiverLevel != nil {
		r.RiverLevelPct = *w.RiverLevel
	}
	return r
}

func toHeatwaveCheck(w heatwaveWire, city string) HeatwaveCheck {
	hc := HeatwaveCheck{
		City:     w.City,
		Alert:    w.HeatwaveAlert != nil && *w.HeatwaveAlert,
		Message:  w.Message,
		Forecast: make([]models.ForecastDay, 0, len(w.Forecast)),
	}
	if hc.City == "" {
		hc.City = city
	}
	if c := w.CurrentWeather; c != nil {
		hc.Current = models.CurrentWeather{
			Temperature:         deref(c.Temperature),
			ApparentTemperature: deref(c.ApparentTemperature),
			Humidity:            deref(c.Humidity),
			WindSpeed:           deref(c.WindSpeed),
			CloudCover:          deref(c.CloudCover),
			ObservedAt:          time.Now().UTC(),
		}
	}
	for _, d := range w.Forecast {
		day := models.ForecastDay{
			MaxTemperature:      deref(d.MaxTemperature),
			ApparentTemperature: deref(d.ApparentTemperature),
			Humidity:            deref(d.Humidity),
			WindSpeed:           deref(d.WindSpeed),
			HeatwaveProbability: clamp(deref(d.Probability), 0, 1),
			AlertLevel:          models.ParseHeatwaveAlertLevel(d.AlertLevel),
			IsHeatwave:          d.IsHeatwave != nil && *d.IsHeatwave == 1,
		}
		if t, err := time.Parse(time.DateOnly, d.Date); err == nil {
			day.Date = t
		}
		hc.Forecast = append(hc.Forecast, day)
	}
	return hc
}

func toMonitorData(w monitorWire) models.MonitorData {
	m := models.MonitorData{
		FloodRisk:    "low",
		WildfireRisk: "low",
		Alerts:       make([]models.Alert, 0, len(w.Alerts)),
	}
	if f := w.FloodData; f != nil {
		if f.RiskLevel != "" {
			m.FloodRisk = strings.ToLower(f.RiskLevel)
		}
		m.FloodProb = deref(f.Probability)
		m.WaterLevel = deref(f.WaterLevel)
	}
	if wf := w.WildfireData; wf != nil {
		if wf.RiskLevel != "" {
			m.WildfireRisk = strings.ToLower(wf.RiskLevel)
		}
		m.WildfireNearby = wf.Nearby
		m.ActiveFireCount = len(wf.ActiveFires)
	}
	for _, a := range w.Alerts {
		sev := models.AlertSeverityMedium
		if strings.EqualFold(a.Level, string(models.AlertSeverityHigh)) {
			sev = models.AlertSeverityHigh
		}
		m.Alerts = append(m.Alerts, models.Alert{
			HazardType: models.HazardType(strings.ToLower(a.Type)),
			Severity:   sev,
			Message:    a.Message,
		})
	}
	return m
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
