package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/goleak"

	"github.com/mr1hm/go-hazard-watch/internal/models"
	"github.com/mr1hm/go-hazard-watch/internal/repository"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// mockWatchRepo implements repository.WatchRepository for testing
type mockWatchRepo struct {
	mu      sync.Mutex
	watches []models.WatchedLocation
	listErr error
}

func (m *mockWatchRepo) AddWatch(_ context.Context, w *models.WatchedLocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.watches = append(m.watches, *w)
	return nil
}

func (m *mockWatchRepo) GetWatch(_ context.Context, id string) (*models.WatchedLocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.watches {
		if w.ID == id {
			return &w, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockWatchRepo) ListWatches(context.Context) ([]models.WatchedLocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]models.WatchedLocation(nil), m.watches...), nil
}

func (m *mockWatchRepo) RemoveWatch(context.Context, string) error { return nil }

type countingDashboard struct {
	calls atomic.Int64
	fail  string

	mu     sync.Mutex
	coords map[string]models.Coordinate
}

func (d *countingDashboard) DashboardAt(_ context.Context, id, city string, coord models.Coordinate) (*models.DashboardSnapshot, error) {
	n := d.calls.Add(1)
	d.mu.Lock()
	if d.coords == nil {
		d.coords = make(map[string]models.Coordinate)
	}
	d.coords[id] = coord
	d.mu.Unlock()
	if city == d.fail {
		return nil, errors.New("upstream down")
	}
	return &models.DashboardSnapshot{City: city, Coordinate: coord, RiskScore: int(n)}, nil
}

func (d *countingDashboard) coordFor(id string) (models.Coordinate, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.coords[id]
	return c, ok
}

func watchesFor(cities ...string) *mockWatchRepo {
	repo := &mockWatchRepo{}
	for i, c := range cities {
		repo.watches = append(repo.watches, models.WatchedLocation{
			ID:         fmt.Sprintf("w_%d", i),
			City:       c,
			Coordinate: models.Coordinate{Lat: 18.5 + float64(i), Lon: 73.8 + float64(i)},
		})
	}
	return repo
}

func TestPoller_StartStop(t *testing.T) {
	p := NewPoller(PollerConfig{Workers: 2, BufferSize: 10}, watchesFor(), &countingDashboard{}, clockwork.NewFakeClock(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)
	time.Sleep(20 * time.Millisecond)

	cancel()
	p.Stop()
}

func TestPoller_StopWithoutCancel(t *testing.T) {
	p := NewPoller(PollerConfig{Workers: 2, BufferSize: 10}, watchesFor("Pune"), &countingDashboard{}, clockwork.NewFakeClock(), nil)
	p.Start(context.Background())
	time.Sleep(20 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		p.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("poller.Stop() blocked while the parent context was still live")
	}
}

func TestPoller_UsesStoredCoordinate(t *testing.T) {
	dash := &countingDashboard{}
	repo := &mockWatchRepo{watches: []models.WatchedLocation{
		{ID: "w_north", City: "Springfield", Coordinate: models.Coordinate{Lat: 39.80, Lon: -89.64}},
		{ID: "w_south", City: "Springfield", Coordinate: models.Coordinate{Lat: 37.21, Lon: -93.29}},
	}}
	p := NewPoller(PollerConfig{Workers: 2, BufferSize: 10}, repo, dash, clockwork.NewFakeClock(), nil)

	p.Start(context.Background())
	deadline := time.Now().Add(time.Second)
	for dash.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	p.Stop()

	for _, w := range repo.watches {
		got, ok := dash.coordFor(w.ID)
		if !ok {
			t.Fatalf("no refresh for %s", w.ID)
		}
		if got != w.Coordinate {
			t.Errorf("%s: expected stored coordinate %+v, got %+v", w.ID, w.Coordinate, got)
		}
		snap, ok := p.Snapshot(w.ID)
		if !ok || snap.Coordinate != w.Coordinate {
			t.Errorf("%s: expected snapshot at %+v, got %+v", w.ID, w.Coordinate, snap)
		}
	}
}

func TestPoller_InitialPollStoresSnapshots(t *testing.T) {
	dash := &countingDashboard{}
	p := NewPoller(PollerConfig{Workers: 2, BufferSize: 10}, watchesFor("Pune", "Chennai", "Guwahati"), dash, clockwork.NewFakeClock(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	deadline := time.Now().Add(time.Second)
	for dash.calls.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()
	p.Stop()

	for i, city := range []string{"Pune", "Chennai", "Guwahati"} {
		snap, ok := p.Snapshot(fmt.Sprintf("w_%d", i))
		if !ok {
			t.Fatalf("expected snapshot for %s", city)
		}
		if snap.City != city {
			t.Errorf("expected city %s, got %s", city, snap.City)
		}
	}
}

func TestPoller_TickerTriggersRefresh(t *testing.T) {
	dash := &countingDashboard{}
	clock := clockwork.NewFakeClock()
	p := NewPoller(PollerConfig{Interval: time.Minute, Workers: 1, BufferSize: 10}, watchesFor("Pune"), dash, clock, nil)

	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	waitFor := func(n int64) {
		t.Helper()
		deadline := time.Now().Add(time.Second)
		for dash.calls.Load() < n && time.Now().Before(deadline) {
			time.Sleep(time.Millisecond)
		}
		if got := dash.calls.Load(); got < n {
			t.Fatalf("expected at least %d dashboard calls, got %d", n, got)
		}
	}

	waitFor(1)
	if err := clock.BlockUntilContext(ctx, 1); err != nil {
		t.Fatalf("ticker never registered: %v", err)
	}
	clock.Advance(time.Minute)
	waitFor(2)

	cancel()
	p.Stop()

	snap, ok := p.Snapshot("w_0")
	if !ok || snap.RiskScore < 2 {
		t.Errorf("expected the refreshed snapshot to replace the first, got %+v", snap)
	}
}

func TestPoller_FailedRefreshKeepsPreviousSnapshot(t *testing.T) {
	dash := &countingDashboard{fail: "Chennai"}
	p := NewPoller(PollerConfig{Workers: 1, BufferSize: 10}, watchesFor("Pune", "Chennai"), dash, clockwork.NewFakeClock(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	deadline := time.Now().Add(time.Second)
	for dash.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()
	p.Stop()

	if _, ok := p.Snapshot("w_0"); !ok {
		t.Error("expected snapshot for Pune")
	}
	if _, ok := p.Snapshot("w_1"); ok {
		t.Error("failed refresh must not store a snapshot")
	}
}

func TestPoller_Forget(t *testing.T) {
	dash := &countingDashboard{}
	p := NewPoller(PollerConfig{Workers: 1, BufferSize: 10}, watchesFor("Pune"), dash, clockwork.NewFakeClock(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)
	deadline := time.Now().Add(time.Second)
	for {
		if _, ok := p.Snapshot("w_0"); ok || time.Now().After(deadline) {
			break
		}
		time.Sleep(time.Millisecond)
	}
	cancel()
	p.Stop()

	p.Forget("w_0")
	if _, ok := p.Snapshot("w_0"); ok {
		t.Error("expected snapshot to be forgotten")
	}
}

func TestPoller_ListErrorDoesNotStopLoop(t *testing.T) {
	repo := watchesFor("Pune")
	repo.listErr = errors.New("db locked")
	p := NewPoller(PollerConfig{Workers: 1, BufferSize: 1}, repo, &countingDashboard{}, clockwork.NewFakeClock(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)
	time.Sleep(20 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		cancel()
		p.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("poller.Stop() timed out")
	}
}
