package handler

import (
	"errors"
	"net/http"

	"deadsignal/internal/middleware"
	"deadsignal/internal/repository"
	"deadsignal/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LocationHandler struct {
	svc     *service.HuntService
	locRepo *repository.LocationRepository
}

func NewLocationHandler(svc *service.HuntService, locRepo *repository.LocationRepository) *LocationHandler {
	return &LocationHandler{svc: svc, locRepo: locRepo}
}

// UpdateLocation stores the fix and, during a hunt, answers with every tool reading.
func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	var req positionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snap, err := h.svc.UpdatePosition(middleware.GetUserID(c), req.position(), req.Heading)
	switch {
	case errors.Is(err, service.ErrNoActiveHunt):
		c.JSON(http.StatusOK, gin.H{"status": "ok", "snapshot": nil})
	case err != nil:
		writeHuntError(c, err)
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ok", "snapshot": snap})
	}
}

func (h *LocationHandler) GetMyLocation(c *gin.Context) {
	loc, err := h.locRepo.GetByUserID(middleware.GetUserID(c))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusOK, gin.H{"latitude": nil, "longitude": nil})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"latitude":        loc.Latitude,
		"longitude":       loc.Longitude,
		"accuracy_meters": loc.AccuracyMeters,
		"heading":         loc.Heading,
		"last_updated_at": loc.LastUpdatedAt,
	})
}
