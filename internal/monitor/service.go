// Package monitor assembles hazard reports: fetch, annotate, classify,
// synthesize alerts and publish them.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/jonboulle/clockwork"

	"github.com/mr1hm/go-hazard-watch/internal/alerts"
	"github.com/mr1hm/go-hazard-watch/internal/ingestion"
	"github.com/mr1hm/go-hazard-watch/internal/models"
	"github.com/mr1hm/go-hazard-watch/internal/observability"
	"github.com/mr1hm/go-hazard-watch/internal/risk"
)

type Publisher interface {
	Publish(batch models.AlertBatch) int
}

type Deps struct {
	Earthquakes ingestion.EarthquakeSource
	Weather     ingestion.WeatherSource
	Geocoder    ingestion.Geocoder
	Backend     ingestion.PredictionBackend
	Publisher   Publisher

	// Optional.
	Metrics *observability.Metrics
	Clock   clockwork.Clock
	// IntN returns a uniform int in [0, n). Defaults to math/rand/v2.
	IntN func(n int) int
}

type Service struct {
	quakes    ingestion.EarthquakeSource
	weather   ingestion.WeatherSource
	geocoder  ingestion.Geocoder
	backend   ingestion.PredictionBackend
	publisher Publisher
	synth     *alerts.Synthesizer
	metrics   *observability.Metrics
	clock     clockwork.Clock
	intN      func(n int) int
	gens      *generations
}

func NewService(d Deps) *Service {
	clock := d.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	intN := d.IntN
	if intN == nil {
		intN = rand.IntN
	}
	return &Service{
		quakes:    d.Earthquakes,
		weather:   d.Weather,
		geocoder:  d.Geocoder,
		backend:   d.Backend,
		publisher: d.Publisher,
		synth:     alerts.NewSynthesizer(alerts.WithClock(clock)),
		metrics:   d.Metrics,
		clock:     clock,
		intN:      intN,
		gens:      newGenerations(),
	}
}

// Earthquakes fetches recent earthquakes around coord, classifies them and
// publishes the synthesized alerts under subject. An empty batch is still
// published; a failed fetch publishes nothing.
func (s *Service) Earthquakes(ctx context.Context, subject string, coord models.Coordinate) (*models.EarthquakeReport, error) {
	if err := coord.Validate(); err != nil {
		return nil, err
	}
	if subject == "" {
		subject = coordSubject(coord)
	}

	key := subjectKey(models.HazardEarthquake, subject)
	gen := s.gens.begin(key)

	report, err := s.assessEarthquakes(ctx, subject, coord)
	if err != nil {
		slog.Warn("earthquake fetch failed", "subject", subject, "error", err)
		return nil, err
	}
	report.Generation = gen

	if !s.commit(key, gen, models.HazardEarthquake, subject, report.Alerts) {
		return nil, ErrSuperseded
	}
	return report, nil
}

func (s *Service) assessEarthquakes(ctx context.Context, subject string, coord models.Coordinate) (*models.EarthquakeReport, error) {
	quakes, err := s.quakes.QueryRegion(ctx, coord)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	return &models.EarthquakeReport{
		Subject:   subject,
		Origin:    coord,
		Quakes:    quakes,
		Risk:      risk.EarthquakeRisk(quakes, now),
		Alerts:    s.synth.EarthquakeAlerts(coord, quakes),
		FetchedAt: now,
	}, nil
}

// commit publishes alerts if gen is still the latest fetch for key.
func (s *Service) commit(key string, gen uint64, hazard models.HazardType, subject string, list []models.Alert) bool {
	if list == nil {
		list = []models.Alert{}
	}
	batch := models.AlertBatch{
		Subject:     subject,
		HazardType:  hazard,
		Alerts:      list,
		GeneratedAt: s.clock.Now(),
		Generation:  gen,
	}

	ok := s.gens.commit(key, gen, func() {
		if s.publisher != nil {
			s.publisher.Publish(batch)
		}
	})
	if !ok {
		s.metrics.ObserveSuperseded(hazard)
		slog.Debug("discarding superseded result", "hazard", hazard, "subject", subject, "generation", gen)
		return false
	}

	s.metrics.ObserveBatch(batch)
	slog.Debug("published alert batch", "hazard", hazard, "subject", subject, "alerts", len(list), "generation", gen)
	return true
}

func coordSubject(c models.Coordinate) string {
	return fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lon)
}
