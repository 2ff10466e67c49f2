package handler

import (
	"net/http"
	"strconv"

	"deadsignal/internal/middleware"
	"deadsignal/internal/repository"

	"github.com/gin-gonic/gin"
)

type MeHandler struct {
	userRepo *repository.UserRepository
}

func NewMeHandler(userRepo *repository.UserRepository) *MeHandler {
	return &MeHandler{userRepo: userRepo}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	u, err := h.userRepo.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u, "is_admin": u.IsAdmin()})
}

// Leaderboard lists the players with the most solved hunts.
func (h *MeHandler) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	list, err := h.userRepo.Leaderboard(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load leaderboard"})
		return
	}
	type entry struct {
		Username    string `json:"username"`
		AvatarURL   string `json:"avatar_url"`
		HuntsSolved int    `json:"hunts_solved"`
	}
	out := make([]entry, len(list))
	for i, u := range list {
		out[i] = entry{Username: u.Username, AvatarURL: u.AvatarURL, HuntsSolved: u.HuntsSolved}
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": out})
}
