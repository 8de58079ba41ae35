package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mr1hm/go-hazard-watch/internal/config"
	"github.com/mr1hm/go-hazard-watch/internal/ingestion"
	"github.com/mr1hm/go-hazard-watch/internal/logging"
	"github.com/mr1hm/go-hazard-watch/internal/models"
	"github.com/mr1hm/go-hazard-watch/internal/monitor"
	"github.com/mr1hm/go-hazard-watch/internal/notify"
	"github.com/mr1hm/go-hazard-watch/internal/resilience"
)

type options struct {
	coord   models.Coordinate
	subject string
	timeout time.Duration
}

var errMissingCoordinate = errors.New("both -lat and -lon are required")

// parseArgs reads the command line. -lat and -lon must both be given, so a
// zero coordinate is only used when asked for.
func parseArgs(args []string, output io.Writer) (options, error) {
	fs := flag.NewFlagSet("quake-alert", flag.ContinueOnError)
	fs.SetOutput(output)

	var opts options
	fs.Float64Var(&opts.coord.Lat, "lat", 0, "latitude of the point of interest (required)")
	fs.Float64Var(&opts.coord.Lon, "lon", 0, "longitude of the point of interest (required)")
	fs.StringVar(&opts.subject, "subject", "", "label for the location (defaults to the coordinate)")
	fs.DurationVar(&opts.timeout, "timeout", 30*time.Second, "overall request timeout")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if !set["lat"] || !set["lon"] {
		fs.Usage()
		return options{}, errMissingCoordinate
	}
	return opts, nil
}

func main() {
	opts, err := parseArgs(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, alertHighStyle.Render("error: ")+err.Error())
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level, "text")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	clientCfg := resilience.DefaultClientConfig("usgs")
	clientCfg.MaxRetries = uint64(cfg.Upstream.MaxRetries)

	broadcaster := notify.NewBroadcaster(1, nil)
	svc := monitor.NewService(monitor.Deps{
		Earthquakes: ingestion.NewUSGSClient(cfg.Sources.USGSURL, resilience.NewClient(clientCfg), nil),
		Publisher:   broadcaster,
	})

	_, alerts := broadcaster.Subscribe(models.HazardEarthquake)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for batch := range alerts {
			renderBatch(os.Stdout, batch)
		}
	}()

	report, err := svc.Earthquakes(ctx, opts.subject, opts.coord)
	if err != nil {
		broadcaster.Close()
		wg.Wait()
		fmt.Fprintln(os.Stderr, alertHighStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}

	renderReport(os.Stdout, report)
	broadcaster.Close()
	wg.Wait()
}
