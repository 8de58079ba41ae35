package ingestion

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mr1hm/go-hazard-watch/internal/geo"
	"github.com/mr1hm/go-hazard-watch/internal/models"
	"github.com/mr1hm/go-hazard-watch/internal/resilience"
)

const (
	DefaultUSGSURL = "https://earthquake.usgs.gov/fdsnws/event/1/query"

	// RegionRadiusDeg is the half-width of the query box around the subject.
	RegionRadiusDeg = 0.9
	LookbackWindow  = 30 * 24 * time.Hour
	MinMagnitude    = 2.5
)

type usgsResponse struct {
	Features []usgsFeature `json:"features"`
}

type usgsFeature struct {
	ID         string         `json:"id"`
	Properties usgsProperties `json:"properties"`
	Geometry   *usgsGeometry  `json:"geometry"`
}

type usgsProperties struct {
	Mag   *float64 `json:"mag"`
	Place *string  `json:"place"`
	Time  *int64   `json:"time"` // unix millis
	Sig   *int     `json:"sig"`
	URL   *string  `json:"url"`
}

type usgsGeometry struct {
	Coordinates []*float64 `json:"coordinates"` // [lon, lat, depth]
}

// EarthquakeSource lists earthquakes around a point, nearest data first as
// the upstream orders it.
type EarthquakeSource interface {
	QueryRegion(ctx context.Context, center models.Coordinate) ([]models.Earthquake, error)
}

type USGSClient struct {
	baseURL  string
	client   *resilience.Client
	clock    clockwork.Clock
	distance geo.DistanceFunc
}

func NewUSGSClient(baseURL string, client *resilience.Client, clock clockwork.Clock) *USGSClient {
	if baseURL == "" {
		baseURL = DefaultUSGSURL
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &USGSClient{
		baseURL:  baseURL,
		client:   client,
		clock:    clock,
		distance: geo.Distance,
	}
}

// QueryRegion returns M2.5+ events from the last 30 days inside a ±0.9°
// box around center, each annotated with its distance from center. Order is
// preserved from the upstream response.
func (c *USGSClient) QueryRegion(ctx context.Context, center models.Coordinate) ([]models.Earthquake, error) {
	if err := center.Validate(); err != nil {
		return nil, err
	}

	reqURL, err := c.queryURL(center)
	if err != nil {
		return nil, err
	}

	var data usgsResponse
	if err := c.client.GetJSON(ctx, reqURL, nil, &data); err != nil {
		return nil, err
	}

	quakes := make([]models.Earthquake, 0, len(data.Features))
	for _, f := range data.Features {
		q, ok := toEarthquake(f)
		if !ok {
			continue
		}
		q.DistanceKM = c.distance(center, q.Location)
		quakes = append(quakes, q)
	}

	return quakes, nil
}

func (c *USGSClient) queryURL(center models.Coordinate) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", &models.NetworkError{Source: c.client.Name(), Err: fmt.Errorf("error parsing usgs url: %w", err)}
	}

	box := geo.Around(center, RegionRadiusDeg)
	q := u.Query()
	q.Set("format", "geojson")
	q.Set("starttime", c.clock.Now().Add(-LookbackWindow).UTC().Format(time.DateOnly))
	q.Set("minmagnitude", strconv.FormatFloat(MinMagnitude, 'f', -1, 64))
	q.Set("minlatitude", formatDeg(box.MinLat))
	q.Set("maxlatitude", formatDeg(box.MaxLat))
	q.Set("minlongitude", formatDeg(box.MinLon))
	q.Set("maxlongitude", formatDeg(box.MaxLon))
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func formatDeg(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// toEarthquake fills missing optional fields with defaults. Features without
// a usable position are rejected.
func toEarthquake(f usgsFeature) (models.Earthquake, bool) {
	if f.Geometry == nil || len(f.Geometry.Coordinates) < 2 ||
		f.Geometry.Coordinates[0] == nil || f.Geometry.Coordinates[1] == nil {
		return models.Earthquake{}, false
	}

	q := models.Earthquake{
		ID: f.ID,
		Location: models.Coordinate{
			Lon: *f.Geometry.Coordinates[0],
			Lat: *f.Geometry.Coordinates[1],
		},
	}
	if len(f.Geometry.Coordinates) > 2 && f.Geometry.Coordinates[2] != nil && *f.Geometry.Coordinates[2] > 0 {
		q.DepthKM = *f.Geometry.Coordinates[2]
	}

	p := f.Properties
	if p.Mag != nil {
		q.Magnitude = *p.Mag
	}
	if p.Place != nil {
		q.Place = *p.Place
	} else {
		q.Place = "Unknown location"
	}
	if p.Time != nil {
		q.OccurredAt = time.UnixMilli(*p.Time).UTC()
	}
	if p.Sig != nil {
		q.Significance = *p.Sig
	}
	if p.URL != nil {
		q.URL = *p.URL
	}

	return q, true
}
