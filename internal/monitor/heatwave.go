package monitor

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mr1hm/go-hazard-watch/internal/alerts"
	"github.com/mr1hm/go-hazard-watch/internal/models"
	"github.com/mr1hm/go-hazard-watch/internal/risk"
)

const fallbackForecastDays = 7

// Heatwave combines the backend's heatwave check with the city's coordinates
// and historical record. Only the backend check is mandatory: a failed
// geocode leaves the coordinate at zero and a failed history fetch leaves an
// empty list, each with a note.
func (s *Service) Heatwave(ctx context.Context, city string) (*models.HeatwaveReport, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, &models.ValidationError{Field: "city", Message: "city is required"}
	}

	key := subjectKey(models.HazardHeatwave, city)
	gen := s.gens.begin(key)

	check, err := s.backend.CheckHeatwave(ctx, city)
	if err != nil {
		slog.Warn("heatwave check failed", "city", city, "error", err)
		return nil, err
	}

	report := &models.HeatwaveReport{
		City:               check.City,
		Current:            check.Current,
		Forecast:           check.Forecast,
		HeatwaveAlert:      check.Alert,
		Message:            check.Message,
		TemperatureStatus:  risk.TemperatureStatus(check.Current.Temperature),
		ApparentTempStatus: risk.TemperatureStatus(check.Current.ApparentTemperature),
		Historical:         []models.HistoricalYear{},
	}

	var (
		g                  errgroup.Group
		geoErr, historyErr error
		place              models.Place
		history            []models.HistoricalYear
	)
	g.Go(func() error {
		place, geoErr = s.geocoder.Geocode(ctx, city)
		return nil
	})
	g.Go(func() error {
		history, historyErr = s.backend.HistoricalData(ctx, city)
		return nil
	})
	_ = g.Wait()

	if geoErr != nil {
		report.Notes = append(report.Notes, models.NoteFrom(&models.PartialDataError{Part: "coordinates", Err: geoErr}))
	} else {
		report.Coordinate = place.Coordinate
	}
	if historyErr != nil {
		report.Notes = append(report.Notes, models.NoteFrom(&models.PartialDataError{Part: "historical_data", Err: historyErr}))
	} else if history != nil {
		report.Historical = history
	}

	if len(report.Forecast) == 0 && !report.Coordinate.IsZero() && s.weather != nil {
		days, err := s.weather.Daily(ctx, report.Coordinate, fallbackForecastDays)
		if err != nil {
			report.Notes = append(report.Notes, models.NoteFrom(&models.PartialDataError{Part: "forecast", Err: err}))
		} else {
			report.Forecast = days
		}
	}
	if report.Forecast == nil {
		report.Forecast = []models.ForecastDay{}
	}
	report.FetchedAt = s.clock.Now()

	if !s.commit(key, gen, models.HazardHeatwave, city, alerts.HeatwaveAlerts(*report)) {
		return nil, ErrSuperseded
	}
	return report, nil
}
