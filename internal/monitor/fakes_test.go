package monitor

import (
	"context"
	"sync"

	"github.com/mr1hm/go-hazard-watch/internal/ingestion"
	"github.com/mr1hm/go-hazard-watch/internal/models"
)

type fakeQuakes struct {
	quakes []models.Earthquake
	err    error
	// gate, when set, is received from before returning.
	gate chan struct{}
}

func (f *fakeQuakes) QueryRegion(ctx context.Context, _ models.Coordinate) ([]models.Earthquake, error) {
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.quakes, nil
}

type fakeWeather struct {
	current    models.CurrentWeather
	daily      []models.ForecastDay
	err        error
	dailyCalls int
}

func (f *fakeWeather) Current(context.Context, models.Coordinate) (models.CurrentWeather, error) {
	return f.current, f.err
}

func (f *fakeWeather) Daily(_ context.Context, _ models.Coordinate, _ int) ([]models.ForecastDay, error) {
	f.dailyCalls++
	return f.daily, f.err
}

type fakeGeocoder struct {
	place models.Place
	err   error
}

func (f *fakeGeocoder) Geocode(_ context.Context, query string) (models.Place, error) {
	if f.err != nil {
		return models.Place{}, f.err
	}
	p := f.place
	p.Query = query
	return p, nil
}

type fakeBackend struct {
	mu sync.Mutex

	flood      models.FloodReading
	floodErr   error
	floodInput ingestion.FloodInput

	heatwave    ingestion.HeatwaveCheck
	heatwaveErr error

	history    []models.HistoricalYear
	historyErr error

	monitor    models.MonitorData
	monitorErr error
}

func (f *fakeBackend) PredictFlood(_ context.Context, in ingestion.FloodInput) (models.FloodReading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.floodInput = in
	return f.flood, f.floodErr
}

func (f *fakeBackend) CheckHeatwave(context.Context, string) (ingestion.HeatwaveCheck, error) {
	return f.heatwave, f.heatwaveErr
}

func (f *fakeBackend) HistoricalData(context.Context, string) ([]models.HistoricalYear, error) {
	return f.history, f.historyErr
}

func (f *fakeBackend) DisasterMonitor(context.Context, string) (models.MonitorData, error) {
	return f.monitor, f.monitorErr
}

type recordingPublisher struct {
	mu      sync.Mutex
	batches []models.AlertBatch
}

func (r *recordingPublisher) Publish(b models.AlertBatch) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, b)
	return 1
}

func (r *recordingPublisher) Batches() []models.AlertBatch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.AlertBatch(nil), r.batches...)
}
