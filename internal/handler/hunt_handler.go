package handler

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"deadsignal/internal/middleware"
	"deadsignal/internal/service"
	"deadsignal/pkg/location"
	"deadsignal/pkg/sensor"

	"github.com/gin-gonic/gin"
)

// maxPhotoBytes caps camera uploads.
const maxPhotoBytes = 8 << 20

type HuntHandler struct {
	svc *service.HuntService
}

func NewHuntHandler(svc *service.HuntService) *HuntHandler {
	return &HuntHandler{svc: svc}
}

// positionRequest is a GPS fix plus compass heading as sent by the app.
type positionRequest struct {
	Latitude       *float64   `json:"latitude" binding:"required,min=-90,max=90"`
	Longitude      *float64   `json:"longitude" binding:"required,min=-180,max=180"`
	AccuracyMeters float64    `json:"accuracy_meters" binding:"min=0"`
	Heading        float64    `json:"heading"`
	Timestamp      *time.Time `json:"timestamp"`
}

func (r *positionRequest) position() location.GeoPosition {
	p := location.GeoPosition{Lat: *r.Latitude, Lng: *r.Longitude, Accuracy: r.AccuracyMeters}
	if r.Timestamp != nil {
		p.Timestamp = *r.Timestamp
	}
	return p
}

// writeHuntError maps service errors to HTTP status codes.
func writeHuntError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoActiveHunt), errors.Is(err, service.ErrHuntNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrHuntActive):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnknownGhost), errors.Is(err, service.ErrPoorAccuracy):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNoFix):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("[hunt] %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// Ghosts lists the ghost catalog.
func (h *HuntHandler) Ghosts(c *gin.Context) {
	list, err := h.svc.Ghosts()
	if err != nil {
		writeHuntError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ghosts": list})
}

func (h *HuntHandler) Start(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		positionRequest
		Ghost string `json:"ghost"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	hunt, err := h.svc.Start(userID, req.position(), req.Heading, req.Ghost)
	if err != nil {
		writeHuntError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"hunt": hunt})
}

// Active returns the running hunt and, once a fix is known, the current readings.
func (h *HuntHandler) Active(c *gin.Context) {
	userID := middleware.GetUserID(c)
	hunt, err := h.svc.Active(userID)
	if err != nil {
		writeHuntError(c, err)
		return
	}
	resp := gin.H{"hunt": hunt}
	if snap, err := h.svc.Radar(userID); err == nil {
		resp["snapshot"] = snap
	}
	c.JSON(http.StatusOK, resp)
}

// Radar re-sweeps from the last stored fix. Clients without a socket poll this.
func (h *HuntHandler) Radar(c *gin.Context) {
	snap, err := h.svc.Radar(middleware.GetUserID(c))
	if err != nil {
		writeHuntError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshot": snap})
}

func (h *HuntHandler) End(c *gin.Context) {
	var req struct {
		Solved bool `json:"solved"`
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	hunt, err := h.svc.End(middleware.GetUserID(c), req.Solved)
	if err != nil {
		writeHuntError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hunt": hunt})
}

func (h *HuntHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := h.svc.History(middleware.GetUserID(c), limit, offset)
	if err != nil {
		writeHuntError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hunts": list, "limit": limit, "offset": offset})
}

func (h *HuntHandler) Evidence(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	if id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hunt id"})
		return
	}
	list, err := h.svc.Evidence(middleware.GetUserID(c), uint(id))
	if err != nil {
		writeHuntError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"evidence": list})
}

// Photograph takes a camera shot. Multipart form: heading (degrees) and an
// optional photo file that is kept only when something manifests.
func (h *HuntHandler) Photograph(c *gin.Context) {
	userID := middleware.GetUserID(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPhotoBytes)
	heading, err := strconv.ParseFloat(c.PostForm("heading"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "heading required"})
		return
	}
	var photo io.Reader
	if fh, err := c.FormFile("photo"); err == nil {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read photo"})
			return
		}
		defer f.Close()
		photo = f
	}
	res, err := h.svc.Photograph(c.Request.Context(), userID, heading, photo)
	switch {
	case errors.Is(err, service.ErrOutOfCone), errors.Is(err, service.ErrSignalTooWeak):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "result": res})
	case err != nil:
		writeHuntError(c, err)
	default:
		c.JSON(http.StatusOK, gin.H{"result": res})
	}
}

// SpiritBox reports the lock for the current knob positions. The app calls it
// on every knob change and while holding still.
func (h *HuntHandler) SpiritBox(c *gin.Context) {
	var req struct {
		KnobA *float64 `json:"knob_a" binding:"required,min=0,max=1"`
		KnobB *float64 `json:"knob_b" binding:"required,min=0,max=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	knobs := sensor.SpiritBoxKnobs{KnobA: *req.KnobA, KnobB: *req.KnobB}
	res, err := h.svc.TuneSpiritBox(middleware.GetUserID(c), knobs, time.Now())
	if err != nil {
		writeHuntError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"spirit_box": res})
}
