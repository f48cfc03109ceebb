package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/greenguardian/internal/domain/environment"
	"github.com/yanqian/greenguardian/internal/domain/location"
	"github.com/yanqian/greenguardian/internal/domain/plant"
	"github.com/yanqian/greenguardian/internal/domain/recommendation"
	"github.com/yanqian/greenguardian/pkg/util"
)

// isoMillis matches the timestamp layout browsers produce with toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// Handler wires the HTTP transport to domain services.
type Handler struct {
	recommender recommendation.Service
	environment environment.Service
	plants      plant.Service
	locations   location.Service
	logger      *slog.Logger
	now         func() time.Time
}

// NewHandler constructs the root HTTP handler.
func NewHandler(recommender recommendation.Service, env environment.Service, plants plant.Service, locations location.Service, logger *slog.Logger) *Handler {
	return &Handler{
		recommender: recommender,
		environment: env,
		plants:      plants,
		locations:   locations,
		logger:      logger.With("component", "http.handler"),
		now:         util.NowUTC,
	}
}

// Recommend ranks catalog plants for the caller's location and space.
func (h *Handler) Recommend(c *gin.Context) {
	req := recommendation.Request{
		Lat:         queryFloat(c, "lat"),
		Lon:         queryFloat(c, "lon"),
		Space:       c.Query("space"),
		Preferences: c.Query("preferences"),
	}

	resp, err := h.recommender.Recommend(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Environment returns the weather, air and soil snapshot for a location.
func (h *Handler) Environment(c *gin.Context) {
	req := environment.Request{
		Lat: queryFloat(c, "lat"),
		Lon: queryFloat(c, "lon"),
	}

	snapshot, err := h.environment.Aggregate(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// SearchPlants lists catalog entries matching query, tags and space.
func (h *Handler) SearchPlants(c *gin.Context) {
	var req plant.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", err.Error(), err))
		return
	}

	plants, err := h.plants.Search(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, plants)
}

// GetPlant returns a single catalog entry.
func (h *Handler) GetPlant(c *gin.Context) {
	p, err := h.plants.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, p)
}

// DetectLocation resolves the caller's IP to an approximate location.
func (h *Handler) DetectLocation(c *gin.Context) {
	loc, err := h.locations.Detect(c.Request.Context(), clientIP(c))
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, loc)
}

// Health is the liveness probe.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"ts":     h.now().Format(isoMillis),
	})
}

// NotFound renders unknown routes.
func (h *Handler) NotFound(c *gin.Context) {
	abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "Not Found", nil))
}

// queryFloat parses a numeric query parameter. Absent or unparsable values are nil.
func queryFloat(c *gin.Context, key string) *float64 {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// clientIP prefers the first X-Forwarded-For hop, the client that started the proxy chain.
func clientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	return c.ClientIP()
}
