package monitor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mr1hm/go-hazard-watch/internal/models"
	"github.com/mr1hm/go-hazard-watch/internal/observability"
	"github.com/mr1hm/go-hazard-watch/internal/repository"
	"github.com/mr1hm/go-hazard-watch/internal/worker"
)

const DefaultPollInterval = 5 * time.Minute

// Dashboarder builds a dashboard for a stored location. id keys
// latest-request-wins so locations sharing a city label stay independent.
type Dashboarder interface {
	DashboardAt(ctx context.Context, id, city string, coord models.Coordinate) (*models.DashboardSnapshot, error)
}

type PollerConfig struct {
	Interval   time.Duration
	Workers    int
	BufferSize int
}

// Poller refreshes the dashboard of every watched location on a fixed
// interval and keeps the latest snapshot per location.
type Poller struct {
	cfg       PollerConfig
	watches   repository.WatchRepository
	dashboard Dashboarder
	clock     clockwork.Clock
	metrics   *observability.Metrics
	pool      *worker.Pool[models.WatchedLocation]

	mu        sync.RWMutex
	snapshots map[string]*models.DashboardSnapshot

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewPoller(cfg PollerConfig, watches repository.WatchRepository, dashboard Dashboarder, clock clockwork.Clock, metrics *observability.Metrics) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultPollInterval
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Poller{
		cfg:       cfg,
		watches:   watches,
		dashboard: dashboard,
		clock:     clock,
		metrics:   metrics,
		snapshots: make(map[string]*models.DashboardSnapshot),
	}
}

// Start launches the worker pool and the ticker loop. The first poll runs
// immediately. Both stop when ctx is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)

	p.pool = worker.NewPool(p.cfg.Workers, p.cfg.BufferSize, p.process, func(w models.WatchedLocation, err error) {
		slog.Error("dashboard refresh failed", "watch_id", w.ID, "city", w.City, "error", err)
	})
	p.pool.Start(ctx)

	p.wg.Add(1)
	go p.run(ctx)
}

func (p *Poller) run(ctx context.Context) {
	defer p.wg.Done()
	slog.Info("starting dashboard poller", "interval", p.cfg.Interval)

	ticker := p.clock.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	p.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("dashboard poller shutting down")
			return
		case <-ticker.Chan():
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	if err := p.PollOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("poll failed", "error", err)
	}
}

// PollOnce queues a refresh of every watched location. Start must have
// been called.
func (p *Poller) PollOnce(ctx context.Context) error {
	start := time.Now()

	watches, err := p.watches.ListWatches(ctx)
	if err != nil {
		return err
	}

	for _, w := range watches {
		if err := p.pool.Submit(ctx, w); err != nil {
			return err
		}
	}

	p.metrics.ObservePoll(start, len(watches))
	slog.Debug("poll queued", "watched", len(watches))
	return nil
}

func (p *Poller) process(ctx context.Context, w models.WatchedLocation) error {
	snap, err := p.dashboard.DashboardAt(ctx, w.ID, w.City, w.Coordinate)
	if errors.Is(err, ErrSuperseded) {
		return nil
	}
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.snapshots[w.ID] = snap
	p.mu.Unlock()
	return nil
}

// Snapshot returns the last stored snapshot for a watched location.
func (p *Poller) Snapshot(id string) (*models.DashboardSnapshot, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	snap, ok := p.snapshots[id]
	return snap, ok
}

// Forget drops the snapshot of a location that is no longer watched.
func (p *Poller) Forget(id string) {
	p.mu.Lock()
	delete(p.snapshots, id)
	p.mu.Unlock()
}

func (p *Poller) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	if p.pool != nil {
		p.pool.Stop()
	}
	slog.Info("dashboard poller stopped")
}
