package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mr1hm/go-hazard-watch/internal/accounts"
	"github.com/mr1hm/go-hazard-watch/internal/ingestion"
	"github.com/mr1hm/go-hazard-watch/internal/models"
	"github.com/mr1hm/go-hazard-watch/internal/monitor"
	"github.com/mr1hm/go-hazard-watch/internal/notify"
	"github.com/mr1hm/go-hazard-watch/internal/repository"
)

// Monitor is the hazard assessment surface, satisfied by *monitor.Service.
type Monitor interface {
	Earthquakes(ctx context.Context, subject string, coord models.Coordinate) (*models.EarthquakeReport, error)
	Flood(ctx context.Context, req monitor.FloodRequest) (*models.FloodReport, error)
	Heatwave(ctx context.Context, city string) (*models.HeatwaveReport, error)
	Dashboard(ctx context.Context, city string) (*models.DashboardSnapshot, error)
}

type Registrar interface {
	Register(ctx context.Context, req accounts.RegisterRequest) (*models.Account, error)
}

// Snapshots exposes the poller's stored dashboards, satisfied by
// *monitor.Poller.
type Snapshots interface {
	Snapshot(id string) (*models.DashboardSnapshot, bool)
	Forget(id string)
}

type Deps struct {
	Monitor     Monitor
	Geocoder    ingestion.Geocoder
	Accounts    Registrar
	Watches     repository.WatchRepository
	Snapshots   Snapshots // nil when polling is disabled
	Broadcaster *notify.Broadcaster
}

type Handler struct {
	monitor     Monitor
	geocoder    ingestion.Geocoder
	accounts    Registrar
	watches     repository.WatchRepository
	snapshots   Snapshots
	broadcaster *notify.Broadcaster
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		monitor:     d.Monitor,
		geocoder:    d.Geocoder,
		accounts:    d.Accounts,
		watches:     d.Watches,
		snapshots:   d.Snapshots,
		broadcaster: d.Broadcaster,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/earthquakes", h.getEarthquakes)
	api.POST("/flood/predict", h.predictFlood)
	api.GET("/heatwave/:city", h.getHeatwave)
	api.GET("/dashboard/:city", h.getDashboard)
	api.GET("/geocode", h.geocode)
	api.GET("/alerts/stream", h.streamAlerts)

	api.POST("/accounts", h.register)

	api.GET("/watches", h.listWatches)
	api.POST("/watches", h.addWatch)
	api.DELETE("/watches/:id", h.removeWatch)
	api.GET("/watches/:id/snapshot", h.getSnapshot)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) getEarthquakes(c *gin.Context) {
	coord, err := parseCoordinate(c.Query("lat"), c.Query("lon"))
	if err != nil {
		writeError(c, err)
		return
	}

	report, err := h.monitor.Earthquakes(c.Request.Context(), c.Query("subject"), coord)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, toGeoJSON(report))
}

func (h *Handler) predictFlood(c *gin.Context) {
	var req monitor.FloodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, badRequest("", "malformed JSON body"))
		return
	}

	report, err := h.monitor.Flood(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) getHeatwave(c *gin.Context) {
	report, err := h.monitor.Heatwave(c.Request.Context(), c.Param("city"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) getDashboard(c *gin.Context) {
	snap, err := h.monitor.Dashboard(c.Request.Context(), c.Param("city"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) geocode(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		writeError(c, badRequest("q", "query is required"))
		return
	}

	place, err := h.geocoder.Geocode(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, place)
}

func (h *Handler) register(c *gin.Context) {
	var req accounts.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, badRequest("", "malformed JSON body"))
		return
	}

	account, err := h.accounts.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

func parseCoordinate(lat, lon string) (models.Coordinate, error) {
	if lat == "" || lon == "" {
		return models.Coordinate{}, badRequest("lat", "lat and lon are required")
	}
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return models.Coordinate{}, badRequest("lat", "lat must be a number")
	}
	lo, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return models.Coordinate{}, badRequest("lon", "lon must be a number")
	}
	coord := models.Coordinate{Lat: la, Lon: lo}
	if err := coord.Validate(); err != nil {
		return models.Coordinate{}, err
	}
	return coord, nil
}
