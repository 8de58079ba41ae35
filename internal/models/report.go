package models

import "time"

type EarthquakeReport struct {
	Subject    string         `json:"subject"`
	Origin     Coordinate     `json:"origin"`
	Quakes     []Earthquake   `json:"recent_earthquakes"`
	Risk       EarthquakeRisk `json:"risk_level"`
	Alerts     []Alert        `json:"alerts"`
	FetchedAt  time.Time      `json:"timestamp"`
	Generation uint64         `json:"generation"`
}

type FloodMetrics struct {
	Temperature MetricStatus `json:"temperature"`
	Rainfall24h MetricStatus `json:"rainfall_24h"`
	Rainfall72h MetricStatus `json:"rainfall_72h"`
	RiverLevel  MetricStatus `json:"river_level"`
	Reservoir   MetricStatus `json:"reservoir_level"`
}

type FloodReport struct {
	City          string       `json:"city"`
	Date          string       `json:"date"`
	SoilMoisture  int          `json:"soil_moisture"`
	Reading       FloodReading `json:"reading"`
	Risk          FloodRisk    `json:"risk_level"`
	Metrics       FloodMetrics `json:"metrics"`
	NoFloodChance float64      `json:"no_flood_probability"`
	FetchedAt     time.Time    `json:"timestamp"`
}

type HeatwaveReport struct {
	City               string           `json:"city"`
	Coordinate         Coordinate       `json:"coordinate"`
	Current            CurrentWeather   `json:"current_weather"`
	Forecast           []ForecastDay    `json:"forecast"`
	HeatwaveAlert      bool             `json:"heatwave_alert"`
	Message            string           `json:"message,omitempty"`
	TemperatureStatus  MetricStatus     `json:"temperature_status"`
	ApparentTempStatus MetricStatus     `json:"apparent_temperature_status"`
	Historical         []HistoricalYear `json:"historical_data"`
	Notes              []DataNote       `json:"notes,omitempty"`
	FetchedAt          time.Time        `json:"timestamp"`
}

// MonitorData is the backend's aggregate view of a city.
type MonitorData struct {
	FloodRisk       string  `json:"flood_risk"`
	FloodProb       float64 `json:"flood_probability"`
	WaterLevel      float64 `json:"water_level"`
	WildfireRisk    string  `json:"wildfire_risk"`
	WildfireNearby  bool    `json:"wildfire_nearby"`
	ActiveFireCount int     `json:"active_fires"`
	Alerts          []Alert `json:"alerts"`
}

type DashboardSnapshot struct {
	City        string            `json:"city"`
	Coordinate  Coordinate        `json:"coordinate"`
	Weather     *CurrentWeather   `json:"current_weather,omitempty"`
	Earthquakes *EarthquakeReport `json:"earthquake_data,omitempty"`
	Monitor     *MonitorData      `json:"monitor,omitempty"`
	Alerts      []Alert           `json:"alerts"`
	RiskScore   int               `json:"risk_score"`
	Notes       []DataNote        `json:"notes,omitempty"`
	FetchedAt   time.Time         `json:"timestamp"`
}
