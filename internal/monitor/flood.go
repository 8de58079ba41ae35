package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mr1hm/go-hazard-watch/internal/alerts"
	"github.com/mr1hm/go-hazard-watch/internal/ingestion"
	"github.com/mr1hm/go-hazard-watch/internal/models"
	"github.com/mr1hm/go-hazard-watch/internal/risk"
)

// DayOption selects the forecast date relative to today.
type DayOption string

const (
	DayToday    DayOption = "today"
	DayTomorrow DayOption = "tomorrow"
	DayAfter    DayOption = "day_after"
)

func (d DayOption) offset() (int, bool) {
	switch d {
	case DayToday:
		return 0, true
	case DayTomorrow:
		return 1, true
	case DayAfter:
		return 2, true
	default:
		return 0, false
	}
}

// soilMoistureRanges are inclusive percentage ranges per soil type.
var soilMoistureRanges = map[string][2]int{
	"sandy": {5, 10},
	"silt":  {20, 30},
	"clay":  {30, 40},
	"loamy": {25, 35},
	"peaty": {40, 60},
}

// SoilMoisture draws a value uniformly from the soil type's range using
// intN. Unknown types yield 0.
func SoilMoisture(soilType string, intN func(n int) int) int {
	r, ok := soilMoistureRanges[strings.ToLower(strings.TrimSpace(soilType))]
	if !ok {
		return 0
	}
	return r[0] + intN(r[1]-r[0]+1)
}

type FloodRequest struct {
	City           string    `json:"city"`
	Day            DayOption `json:"day"`
	SoilType       string    `json:"soil_type"`
	RiverLevel     float64   `json:"river_level"`
	ReservoirLevel float64   `json:"reservoir_level"`
	PreviousFloods bool      `json:"previous_floods"`
}

func (r FloodRequest) Validate() error {
	if strings.TrimSpace(r.City) == "" || r.Day == "" {
		return &models.ValidationError{Message: "City and prediction period are required"}
	}
	if _, ok := r.Day.offset(); !ok {
		return &models.ValidationError{Field: "day", Message: fmt.Sprintf("unknown prediction period %q", r.Day)}
	}
	if r.RiverLevel < 0 || r.RiverLevel > 100 {
		return &models.ValidationError{Field: "river_level", Message: "must be between 0 and 100"}
	}
	if r.ReservoirLevel < 0 || r.ReservoirLevel > 100 {
		return &models.ValidationError{Field: "reservoir_level", Message: "must be between 0 and 100"}
	}
	return nil
}

// Flood asks the backend for a flood prediction and classifies it.
func (s *Service) Flood(ctx context.Context, req FloodRequest) (*models.FloodReport, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	city := strings.TrimSpace(req.City)
	offset, _ := req.Day.offset()
	date := s.clock.Now().AddDate(0, 0, offset).Format(time.DateOnly)

	previous := 0.0
	if req.PreviousFloods {
		previous = 1.0
	}
	in := ingestion.FloodInput{
		City:           city,
		Date:           date,
		SoilType:       req.SoilType,
		SoilMoisture:   SoilMoisture(req.SoilType, s.intN),
		RiverLevel:     req.RiverLevel,
		ReservoirLevel: req.ReservoirLevel,
		PreviousFloods: previous,
	}

	key := subjectKey(models.HazardFlood, city)
	gen := s.gens.begin(key)

	reading, err := s.backend.PredictFlood(ctx, in)
	if err != nil {
		slog.Warn("flood prediction failed", "city", city, "error", err)
		return nil, err
	}

	report := &models.FloodReport{
		City:          city,
		Date:          date,
		SoilMoisture:  in.SoilMoisture,
		Reading:       reading,
		Risk:          risk.FloodRisk(reading.Probability),
		Metrics:       risk.FloodMetrics(reading),
		NoFloodChance: 100 - reading.Probability,
		FetchedAt:     s.clock.Now(),
	}

	if !s.commit(key, gen, models.HazardFlood, city, alerts.FloodAlerts(*report)) {
		return nil, ErrSuperseded
	}
	return report, nil
}
