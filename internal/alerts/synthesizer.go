// Package alerts turns classified hazard observations into user-facing
// alert messages.
package alerts

import (
	"fmt"
	"math"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mr1hm/go-hazard-watch/internal/geo"
	"github.com/mr1hm/go-hazard-watch/internal/models"
	"github.com/mr1hm/go-hazard-watch/internal/risk"
)

const (
	SequenceWindow   = 24 * time.Hour
	sequenceMinCount = 3
)

type Synthesizer struct {
	clock    clockwork.Clock
	distance geo.DistanceFunc
}

type Option func(*Synthesizer)

func WithClock(c clockwork.Clock) Option {
	return func(s *Synthesizer) { s.clock = c }
}

func WithDistance(fn geo.DistanceFunc) Option {
	return func(s *Synthesizer) { s.distance = fn }
}

func NewSynthesizer(opts ...Option) *Synthesizer {
	s := &Synthesizer{
		clock:    clockwork.NewRealClock(),
		distance: geo.Distance,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EarthquakeAlerts applies two independent rules: a single-event alert for
// quakes[0] (the upstream ordering is trusted, not re-sorted) and an
// aftershock-sequence alert over the whole set. The result is never nil.
func (s *Synthesizer) EarthquakeAlerts(origin models.Coordinate, quakes []models.Earthquake) []models.Alert {
	out := make([]models.Alert, 0, 2)
	if len(quakes) == 0 {
		return out
	}

	if a, ok := s.singleEvent(origin, quakes[0]); ok {
		out = append(out, a)
	}

	if len(quakes) >= sequenceMinCount {
		n := risk.CountWithin(quakes, s.clock.Now(), SequenceWindow)
		if n >= sequenceMinCount {
			out = append(out, models.Alert{
				HazardType: models.HazardEarthquake,
				Severity:   models.AlertSeverityMedium,
				Message:    fmt.Sprintf("Multiple earthquakes detected - possible aftershock sequence with %d events in last 24 hours", n),
			})
		}
	}

	return out
}

func (s *Synthesizer) singleEvent(origin models.Coordinate, q models.Earthquake) (models.Alert, bool) {
	dist := s.distance(origin, q.Location)
	a := models.Alert{HazardType: models.HazardEarthquake}

	switch {
	case q.Magnitude >= 5:
		a.Severity = models.AlertSeverityHigh
		a.Message = fmt.Sprintf("Strong earthquake M%.1f detected %.1fkm away at %s", oneDecimal(q.Magnitude), oneDecimal(dist), q.Place)
	case q.Magnitude >= 4:
		a.Severity = models.AlertSeverityHigh
		a.Message = fmt.Sprintf("Moderate earthquake M%.1f detected %.1fkm away", oneDecimal(q.Magnitude), oneDecimal(dist))
	case q.Magnitude >= 3.5:
		a.Severity = models.AlertSeverityMedium
		a.Message = fmt.Sprintf("Light earthquake M%.1f detected %.1fkm away", oneDecimal(q.Magnitude), oneDecimal(dist))
	default:
		return models.Alert{}, false
	}
	return a, true
}

// oneDecimal rounds half away from zero so that ties such as 4.25 print as
// 4.3 rather than the half-to-even 4.2 that %.1f alone would produce.
func oneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
