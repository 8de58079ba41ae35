package monitor

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mr1hm/go-hazard-watch/internal/ingestion"
	"github.com/mr1hm/go-hazard-watch/internal/models"
	"github.com/mr1hm/go-hazard-watch/internal/risk"
)

// Dashboard builds the aggregate view of a city. Earthquakes, current
// weather and the backend monitor are fetched concurrently once the city
// is geocoded; each failing part becomes a note. It fails only when no part
// succeeded.
func (s *Service) Dashboard(ctx context.Context, city string) (*models.DashboardSnapshot, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, &models.ValidationError{Field: "city", Message: "city is required"}
	}

	key := subjectKey(models.HazardMultiple, city)
	gen := s.gens.begin(key)

	place, geoErr := s.geocoder.Geocode(ctx, city)
	return s.buildDashboard(ctx, key, gen, city, place.Coordinate, geoErr)
}

// DashboardAt builds the dashboard for a location whose coordinate is
// already known, skipping the geocoder. id names the stored location and
// keys latest-request-wins, so two locations with the same city label never
// supersede each other. An empty id falls back to the coordinate.
func (s *Service) DashboardAt(ctx context.Context, id, city string, coord models.Coordinate) (*models.DashboardSnapshot, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, &models.ValidationError{Field: "city", Message: "city is required"}
	}
	if err := coord.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		id = coordSubject(coord)
	}

	key := subjectKey(models.HazardMultiple, "location:"+id)
	gen := s.gens.begin(key)

	return s.buildDashboard(ctx, key, gen, city, coord, nil)
}

// buildDashboard fetches every part around coord. geoErr is the outcome of
// resolving coord; when set, only the backend monitor is queried.
func (s *Service) buildDashboard(ctx context.Context, key string, gen uint64, city string, coord models.Coordinate, geoErr error) (*models.DashboardSnapshot, error) {
	var (
		g                                errgroup.Group
		quakes                           *models.EarthquakeReport
		weather                          models.CurrentWeather
		monitor                          models.MonitorData
		quakeErr, weatherErr, monitorErr error
	)
	if geoErr == nil {
		g.Go(func() error {
			quakes, quakeErr = s.assessEarthquakes(ctx, city, coord)
			return nil
		})
		g.Go(func() error {
			weather, weatherErr = s.weather.Current(ctx, coord)
			return nil
		})
	}
	g.Go(func() error {
		monitor, monitorErr = s.backend.DisasterMonitor(ctx, city)
		return nil
	})
	_ = g.Wait()

	snap := &models.DashboardSnapshot{
		City:   city,
		Alerts: []models.Alert{},
	}
	inputs := risk.ScoreInputs{}
	succeeded := false

	if geoErr != nil {
		snap.Notes = append(snap.Notes, note("coordinates", geoErr))
	} else {
		snap.Coordinate = coord
		if quakeErr != nil {
			snap.Notes = append(snap.Notes, note("earthquakes", quakeErr))
		} else {
			quakes.Generation = gen
			snap.Earthquakes = quakes
			succeeded = true
		}
		if weatherErr != nil {
			snap.Notes = append(snap.Notes, note("current_weather", weatherErr))
		} else {
			snap.Weather = &weather
			inputs.Temperature = weather.Temperature
			inputs.WindSpeed = weather.WindSpeed
			inputs.Precipitation = weather.Precipitation
			succeeded = true
		}
	}

	switch {
	case errors.Is(monitorErr, ingestion.ErrBackendDisabled):
	case monitorErr != nil:
		snap.Notes = append(snap.Notes, note("monitor", monitorErr))
	default:
		snap.Monitor = &monitor
		snap.Alerts = append(snap.Alerts, monitor.Alerts...)
		inputs.FloodRisk = monitor.FloodRisk
		inputs.WildfireRisk = monitor.WildfireRisk
		succeeded = true
	}

	if !succeeded {
		return nil, firstError(geoErr, quakeErr, weatherErr, monitorErr)
	}

	if snap.Earthquakes != nil {
		snap.Alerts = append(snap.Alerts, snap.Earthquakes.Alerts...)
	}
	snap.RiskScore = risk.AggregateScore(inputs)
	snap.FetchedAt = s.clock.Now()

	if !s.commit(key, gen, models.HazardMultiple, city, snap.Alerts) {
		return nil, ErrSuperseded
	}
	return snap, nil
}

func note(part string, err error) models.DataNote {
	return models.NoteFrom(&models.PartialDataError{Part: part, Err: err})
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
