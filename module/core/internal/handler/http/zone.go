package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nandanugg/geotoll/module/core/domain"
)

type zoneService interface {
	Create(ctx context.Context, in *domain.ZoneInput) (*domain.Zone, error)
	ListActive(ctx context.Context) ([]domain.Zone, error)
	Get(ctx context.Context, zoneID string) (*domain.Zone, error)
	Toggle(ctx context.Context, zoneID string) (*domain.Zone, error)
}

type createZoneRequest struct {
	Name         string              `json:"name" binding:"required"`
	ZoneType     domain.ZoneKind     `json:"zoneType" binding:"required"`
	Description  string              `json:"description"`
	Coordinates  []domain.Coordinate `json:"coordinates" binding:"required"`
	TollAmount   domain.Money        `json:"tollAmount"`
	Severity     domain.Severity     `json:"severity"`
	AlertMessage string              `json:"alertMessage"`
	SpeedLimit   *float64            `json:"speedLimit"`
}

type zoneResponse struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	ZoneType     domain.ZoneKind     `json:"zoneType"`
	Description  string              `json:"description,omitempty"`
	Coordinates  []domain.Coordinate `json:"coordinates"`
	IsActive     bool                `json:"isActive"`
	TollAmount   *domain.Money       `json:"tollAmount,omitempty"`
	Severity     domain.Severity     `json:"severity,omitempty"`
	AlertMessage string              `json:"alertMessage,omitempty"`
	SpeedLimit   *float64            `json:"speedLimit,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

func toZoneResponse(z *domain.Zone) zoneResponse {
	resp := zoneResponse{
		ID:          z.ID,
		Name:        z.Name,
		ZoneType:    z.Kind(),
		Description: z.Description,
		Coordinates: z.Boundary,
		IsActive:    z.Active,
		CreatedAt:   z.CreatedAt,
		UpdatedAt:   z.UpdatedAt,
	}
	switch p := z.Policy.(type) {
	case domain.TollPolicy:
		amount := p.Amount
		resp.TollAmount = &amount
	case domain.DangerPolicy:
		resp.Severity = p.Severity
		resp.AlertMessage = p.AlertMessage
		resp.SpeedLimit = p.SpeedLimit
	}
	return resp
}

type ZoneHandler struct {
	zoneSvc zoneService
}

func NewZoneHandler(zoneSvc zoneService) *ZoneHandler {
	return &ZoneHandler{zoneSvc: zoneSvc}
}

func (h *ZoneHandler) Register(r *gin.RouterGroup) {
	r.GET("/zones/active", h.ListActive)
	r.GET("/zones/:zone_id", h.Get)
	r.POST("/zones", h.Create)
	r.PATCH("/zones/:zone_id/toggle", h.Toggle)
}

func (h *ZoneHandler) ListActive(c *gin.Context) {
	zones, err := h.zoneSvc.ListActive(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	results := make([]zoneResponse, len(zones))
	for i := range zones {
		results[i] = toZoneResponse(&zones[i])
	}
	c.JSON(http.StatusOK, results)
}

func (h *ZoneHandler) Get(c *gin.Context) {
	zone, err := h.zoneSvc.Get(c.Request.Context(), c.Param("zone_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toZoneResponse(zone))
}

func (h *ZoneHandler) Create(c *gin.Context) {
	var req createZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	zone, err := h.zoneSvc.Create(c.Request.Context(), &domain.ZoneInput{
		Name:         req.Name,
		Kind:         req.ZoneType,
		Description:  req.Description,
		Boundary:     req.Coordinates,
		TollAmount:   req.TollAmount,
		Severity:     req.Severity,
		AlertMessage: req.AlertMessage,
		SpeedLimit:   req.SpeedLimit,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toZoneResponse(zone))
}

func (h *ZoneHandler) Toggle(c *gin.Context) {
	zone, err := h.zoneSvc.Toggle(c.Request.Context(), c.Param("zone_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toZoneResponse(zone))
}
