package ingestion

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/mr1hm/go-hazard-watch/internal/models"
	"github.com/mr1hm/go-hazard-watch/internal/resilience"
)

const (
	DefaultOpenMeteoURL = "https://api.open-meteo.com/v1/forecast"

	currentFields = "temperature_2m,apparent_temperature,relative_humidity_2m,wind_speed_10m,precipitation,cloud_cover"
	dailyFields   = "temperature_2m_max,apparent_temperature_max,relative_humidity_2m_mean,wind_speed_10m_max"

	// Open-Meteo returns local ISO8601 without seconds.
	openMeteoTimeLayout = "2006-01-02T15:04"
)

type openMeteoResponse struct {
	Current *openMeteoCurrent `json:"current"`
	Daily   *openMeteoDaily   `json:"daily"`
}

type openMeteoCurrent struct {
	Time                string   `json:"time"`
	Temperature         *float64 `json:"temperature_2m"`
	ApparentTemperature *float64 `json:"apparent_temperature"`
	Humidity            *float64 `json:"relative_humidity_2m"`
	WindSpeed           *float64 `json:"wind_speed_10m"`
	Precipitation       *float64 `json:"precipitation"`
	CloudCover          *float64 `json:"cloud_cover"`
}

type openMeteoDaily struct {
	Time                []string   `json:"time"`
	MaxTemperature      []*float64 `json:"temperature_2m_max"`
	ApparentTemperature []*float64 `json:"apparent_temperature_max"`
	Humidity            []*float64 `json:"relative_humidity_2m_mean"`
	WindSpeed           []*float64 `json:"wind_speed_10m_max"`
}

type WeatherSource interface {
	Current(ctx context.Context, coord models.Coordinate) (models.CurrentWeather, error)
	Daily(ctx context.Context, coord models.Coordinate, days int) ([]models.ForecastDay, error)
}

type WeatherClient struct {
	baseURL string
	client  *resilience.Client
}

func NewWeatherClient(baseURL string, client *resilience.Client) *WeatherClient {
	if baseURL == "" {
		baseURL = DefaultOpenMeteoURL
	}
	return &WeatherClient{baseURL: baseURL, client: client}
}

func (c *WeatherClient) Current(ctx context.Context, coord models.Coordinate) (models.CurrentWeather, error) {
	if err := coord.Validate(); err != nil {
		return models.CurrentWeather{}, err
	}

	reqURL, err := c.forecastURL(coord, "current", currentFields, nil)
	if err != nil {
		return models.CurrentWeather{}, err
	}

	var data openMeteoResponse
	if err := c.client.GetJSON(ctx, reqURL, nil, &data); err != nil {
		return models.CurrentWeather{}, err
	}
	if data.Current == nil {
		return models.CurrentWeather{}, &models.NetworkError{Source: c.client.Name(), Err: fmt.Errorf("response has no current block")}
	}

	cur := data.Current
	w := models.CurrentWeather{
		Temperature:         deref(cur.Temperature),
		ApparentTemperature: deref(cur.ApparentTemperature),
		Humidity:            deref(cur.Humidity),
		WindSpeed:           deref(cur.WindSpeed),
		Precipitation:       deref(cur.Precipitation),
		CloudCover:          deref(cur.CloudCover),
	}
	if t, err := time.Parse(openMeteoTimeLayout, cur.Time); err == nil {
		w.ObservedAt = t
	}
	return w, nil
}

// Daily returns up to days forecast days. Open-Meteo carries no heatwave
// model, so every day is Normal with zero probability.
func (c *WeatherClient) Daily(ctx context.Context, coord models.Coordinate, days int) ([]models.ForecastDay, error) {
	if err := coord.Validate(); err != nil {
		return nil, err
	}
	if days < 1 || days > 16 {
		return nil, &models.ValidationError{Field: "days", Message: "must be between 1 and 16"}
	}

	extra := url.Values{"forecast_days": []string{strconv.Itoa(days)}}
	reqURL, err := c.forecastURL(coord, "daily", dailyFields, extra)
	if err != nil {
		return nil, err
	}

	var data openMeteoResponse
	if err := c.client.GetJSON(ctx, reqURL, nil, &data); err != nil {
		return nil, err
	}
	if data.Daily == nil {
		return []models.ForecastDay{}, nil
	}

	d := data.Daily
	out := make([]models.ForecastDay, 0, len(d.Time))
	for i, day := range d.Time {
		date, err := time.Parse(time.DateOnly, day)
		if err != nil {
			continue
		}
		out = append(out, models.ForecastDay{
			Date:                date,
			MaxTemperature:      at(d.MaxTemperature, i),
			ApparentTemperature: at(d.ApparentTemperature, i),
			Humidity:            at(d.Humidity, i),
			WindSpeed:           at(d.WindSpeed, i),
			AlertLevel:          models.HeatwaveNormal,
		})
	}
	return out, nil
}

func (c *WeatherClient) forecastURL(coord models.Coordinate, block, fields string, extra url.Values) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", &models.NetworkError{Source: c.client.Name(), Err: fmt.Errorf("error parsing open-meteo url: %w", err)}
	}
	q := u.Query()
	q.Set("latitude", strconv.FormatFloat(coord.Lat, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(coord.Lon, 'f', 4, 64))
	q.Set(block, fields)
	q.Set("timezone", "auto")
	for k, vs := range extra {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func at(vs []*float64, i int) float64 {
	if i >= len(vs) {
		return 0
	}
	return deref(vs[i])
}
