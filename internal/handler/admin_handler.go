package handler

import (
	"errors"
	"net/http"
	"strconv"

	"deadsignal/internal/middleware"
	"deadsignal/internal/models"
	"deadsignal/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminHandler struct {
	ghostRepo *repository.GhostRepository
	auditRepo *repository.AuditLogRepository
}

func NewAdminHandler(ghostRepo *repository.GhostRepository, auditRepo *repository.AuditLogRepository) *AdminHandler {
	return &AdminHandler{ghostRepo: ghostRepo, auditRepo: auditRepo}
}

type adminGhost struct {
	models.GhostType
	IsActive bool `json:"is_active"`
}

// ListGhosts handles GET /admin/ghosts, retired ghosts included.
func (h *AdminHandler) ListGhosts(c *gin.Context) {
	list, err := h.ghostRepo.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load ghosts"})
		return
	}
	out := make([]adminGhost, len(list))
	for i, g := range list {
		out[i] = adminGhost{GhostType: g, IsActive: g.IsActive}
	}
	c.JSON(http.StatusOK, gin.H{"ghosts": out})
}

// SetGhostActive handles PATCH /admin/ghosts/:id; retired ghosts stop spawning.
func (h *AdminHandler) SetGhostActive(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	if id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ghost id"})
		return
	}
	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.ghostRepo.SetActive(uint(id), *req.IsActive); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ghost not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	adminID := middleware.GetUserID(c)
	_ = h.auditRepo.Create(&models.AuditLog{
		UserID:    &adminID,
		Action:    "ghost_set_active",
		Resource:  "ghost:" + c.Param("id"),
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	c.JSON(http.StatusOK, gin.H{"id": id, "is_active": *req.IsActive})
}
