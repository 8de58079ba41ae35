package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mr1hm/go-hazard-watch/internal/models"
)

type addWatchRequest struct {
	City string   `json:"city"`
	Lat  *float64 `json:"lat"`
	Lon  *float64 `json:"lon"`
}

func (h *Handler) listWatches(c *gin.Context) {
	watches, err := h.watches.ListWatches(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if watches == nil {
		watches = []models.WatchedLocation{}
	}
	c.JSON(http.StatusOK, gin.H{"watches": watches})
}

// addWatch stores a location for the poller. Without explicit coordinates
// the city is geocoded first.
func (h *Handler) addWatch(c *gin.Context) {
	var req addWatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, badRequest("", "malformed JSON body"))
		return
	}
	city := strings.TrimSpace(req.City)
	if city == "" {
		writeError(c, badRequest("city", "city is required"))
		return
	}

	var coord models.Coordinate
	switch {
	case req.Lat != nil && req.Lon != nil:
		coord = models.Coordinate{Lat: *req.Lat, Lon: *req.Lon}
		if err := coord.Validate(); err != nil {
			writeError(c, err)
			return
		}
	case req.Lat != nil || req.Lon != nil:
		writeError(c, badRequest("lat", "lat and lon must be given together"))
		return
	default:
		place, err := h.geocoder.Geocode(c.Request.Context(), city)
		if err != nil {
			writeError(c, err)
			return
		}
		coord = place.Coordinate
	}

	w := &models.WatchedLocation{
		ID:         "wch_" + uuid.New().String()[:22],
		City:       city,
		Coordinate: coord,
		CreatedAt:  time.Now().UTC(),
	}
	if err := h.watches.AddWatch(c.Request.Context(), w); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

func (h *Handler) removeWatch(c *gin.Context) {
	id := c.Param("id")
	if err := h.watches.RemoveWatch(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	if h.snapshots != nil {
		h.snapshots.Forget(id)
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) getSnapshot(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.watches.GetWatch(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	if h.snapshots == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "polling is disabled"})
		return
	}
	snap, ok := h.snapshots.Snapshot(id)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "no snapshot yet, try again after the next poll"})
		return
	}
	c.JSON(http.StatusOK, snap)
}
