package models

import (
	"fmt"
	"time"
)

type HazardType string

const (
	HazardEarthquake HazardType = "earthquake"
	HazardFlood      HazardType = "flood"
	HazardHeatwave   HazardType = "heatwave"
	HazardWildfire   HazardType = "wildfire"
	HazardWeather    HazardType = "weather"

	// HazardMultiple marks a batch mixing several hazards.
	HazardMultiple HazardType = "multiple"
)

// Coordinate is a WGS84 point in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (c Coordinate) Validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return &ValidationError{Field: "lat", Message: fmt.Sprintf("latitude %.4f out of range [-90,90]", c.Lat)}
	}
	if c.Lon < -180 || c.Lon > 180 {
		return &ValidationError{Field: "lon", Message: fmt.Sprintf("longitude %.4f out of range [-180,180]", c.Lon)}
	}
	return nil
}

func (c Coordinate) IsZero() bool {
	return c.Lat == 0 && c.Lon == 0
}

type Earthquake struct {
	ID           string     `json:"id"`
	Magnitude    float64    `json:"magnitude"`
	DepthKM      float64    `json:"depth_km"`
	Location     Coordinate `json:"location"`
	Place        string     `json:"place"`
	OccurredAt   time.Time  `json:"occurred_at"`
	Significance int        `json:"significance"`
	URL          string     `json:"url"`
	DistanceKM   float64    `json:"distance_km"` // from the subject coordinate
}

// ForecastDay is one day of a heatwave forecast.
type ForecastDay struct {
	Date                time.Time          `json:"date"`
	MaxTemperature      float64            `json:"max_temperature"`
	ApparentTemperature float64            `json:"apparent_temperature"`
	Humidity            float64            `json:"humidity"`
	WindSpeed           float64            `json:"wind_speed"`
	HeatwaveProbability float64            `json:"heatwave_probability"` // 0.0-1.0
	AlertLevel          HeatwaveAlertLevel `json:"alert_level"`
	IsHeatwave          bool               `json:"is_heatwave"`
}

type FloodReading struct {
	Probability       float64    `json:"probability"` // 0-100
	Rainfall24h       float64    `json:"rainfall_24h"`
	Rainfall72h       float64    `json:"rainfall_72h"`
	ReservoirLevelPct float64    `json:"reservoir_level_pct"`
	RiverLevelPct     float64    `json:"river_level_pct"`
	Temperature       float64    `json:"temperature"`
	SoilType          string     `json:"soil_type"`
	PreviousFloods    bool       `json:"previous_floods"`
	FloodPredicted    bool       `json:"flood_predicted"`
	Location          Coordinate `json:"location"`
	ObservedAt        time.Time  `json:"observed_at"`
}

type HistoricalYear struct {
	Year             int     `json:"year"`
	HeatwaveOccurred bool    `json:"heatwave_occurred"`
	MaxTemperature   float64 `json:"max_temperature"`
}

type CurrentWeather struct {
	Temperature         float64   `json:"temperature"`
	ApparentTemperature float64   `json:"apparent_temperature"`
	Humidity            float64   `json:"humidity"`
	WindSpeed           float64   `json:"wind_speed"`
	Precipitation       float64   `json:"precipitation"`
	CloudCover          float64   `json:"cloud_cover"`
	ObservedAt          time.Time `json:"observed_at"`
}

// Place is a geocoding result.
type Place struct {
	Query       string     `json:"query"`
	DisplayName string     `json:"display_name"`
	Coordinate  Coordinate `json:"coordinate"`
}
