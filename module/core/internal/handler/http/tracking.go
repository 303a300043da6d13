package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nandanugg/geotoll/module/core/domain"
)

type trackingService interface {
	ProcessLocationUpdate(ctx context.Context, upd *domain.LocationUpdate) (*domain.TrackingResult, error)
}

type historyService interface {
	History(ctx context.Context, vehicleID string, limit int) ([]domain.SettlementRecord, error)
}

// flexFloat accepts a JSON number or a numeric string, as some device
// gateways quote their readings.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*f = flexFloat(v)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

type trackingRequest struct {
	DeviceID  string     `json:"deviceID" binding:"required"`
	Latitude  *flexFloat `json:"latitude" binding:"required"`
	Longitude *flexFloat `json:"longitude" binding:"required"`
	Speed     *flexFloat `json:"speed"`
}

func (r *trackingRequest) toUpdate() *domain.LocationUpdate {
	upd := &domain.LocationUpdate{
		DeviceID:  r.DeviceID,
		Latitude:  float64(*r.Latitude),
		Longitude: float64(*r.Longitude),
	}
	if r.Speed != nil {
		speed := float64(*r.Speed)
		upd.Speed = &speed
	}
	return upd
}

type TrackingHandler struct {
	trackingSvc trackingService
	historySvc  historyService
}

func NewTrackingHandler(trackingSvc trackingService, historySvc historyService) *TrackingHandler {
	return &TrackingHandler{trackingSvc: trackingSvc, historySvc: historySvc}
}

func (h *TrackingHandler) Register(r *gin.RouterGroup) {
	r.POST("/tracking/update", h.Update)
	r.GET("/tracking/history/:vehicle_id", h.GetHistory)
}

func (h *TrackingHandler) Update(c *gin.Context) {
	var req trackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	res, err := h.trackingSvc.ProcessLocationUpdate(c.Request.Context(), req.toUpdate())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *TrackingHandler) GetHistory(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}

	recs, err := h.historySvc.History(c.Request.Context(), c.Param("vehicle_id"), limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, recs)
}
