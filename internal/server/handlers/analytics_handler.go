package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/csd4487/vedema/internal/analytics"
	"github.com/csd4487/vedema/internal/domain/models"
	service "github.com/csd4487/vedema/internal/service/analytics"
)

// AnalyticsHandler exposes the season analytics queries over HTTP.
type AnalyticsHandler struct {
	svc    service.Querier
	logger *zap.Logger
}

// NewAnalyticsHandler constructs the HTTP handler adapter.
func NewAnalyticsHandler(svc service.Querier, logger *zap.Logger) *AnalyticsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsHandler{svc: svc, logger: logger}
}

// Default returns the full summary for the default season.
func (h *AnalyticsHandler) Default(c *gin.Context) {
	var req models.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid analytics payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "email is required"})
		return
	}

	res, err := h.svc.DefaultAnalytics(c.Request.Context(), req.Email)
	if err != nil {
		h.fail(c, "default analytics failed", err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// Filtered returns a summary narrowed by season, view type and fields.
func (h *AnalyticsHandler) Filtered(c *gin.Context) {
	var req models.FilteredAnalyticsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid filtered analytics payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "email and season are required"})
		return
	}

	res, err := h.svc.FilteredAnalytics(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "filtered analytics failed", err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// Seasons lists the seasons the user has records in.
func (h *AnalyticsHandler) Seasons(c *gin.Context) {
	var req models.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid seasons payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "email is required"})
		return
	}

	seasons, err := h.svc.AvailableSeasons(c.Request.Context(), req.Email)
	if err != nil {
		h.fail(c, "season listing failed", err)
		return
	}

	c.JSON(http.StatusOK, models.SeasonsResponse{Email: req.Email, Seasons: seasons})
}

func (h *AnalyticsHandler) fail(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, models.ErrUserNotFound):
		h.logger.Info(msg, zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
	case errors.Is(err, analytics.ErrFieldNotFound):
		h.logger.Info(msg, zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"message": "Field not found"})
	case analytics.IsInvalidQuery(err):
		h.logger.Warn(msg, zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid query", "error": err.Error()})
	default:
		h.logger.Error(msg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error computing analytics"})
	}
}
