package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nandanugg/geotoll/module/core/domain"
)

type ledgerService interface {
	Stats(ctx context.Context, now time.Time) (*domain.LedgerStats, error)
	AccountHistory(ctx context.Context, accountID string, limit int) ([]domain.SettlementRecord, error)
	Revenue(ctx context.Context, rng domain.RevenueRange) ([]domain.RevenueDay, error)
}

type LedgerHandler struct {
	ledgerSvc ledgerService
	now       func() time.Time
}

func NewLedgerHandler(ledgerSvc ledgerService) *LedgerHandler {
	return &LedgerHandler{ledgerSvc: ledgerSvc, now: time.Now}
}

func (h *LedgerHandler) Register(r *gin.RouterGroup) {
	r.GET("/transactions/stats", h.Stats)
	r.GET("/transactions/revenue", h.Revenue)
	r.GET("/transactions/account/:account_id", h.AccountHistory)
}

func (h *LedgerHandler) Stats(c *gin.Context) {
	stats, err := h.ledgerSvc.Stats(c.Request.Context(), h.now())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *LedgerHandler) AccountHistory(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}

	recs, err := h.ledgerSvc.AccountHistory(c.Request.Context(), c.Param("account_id"), limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, recs)
}

// Revenue accepts startDate and endDate as YYYY-MM-DD (UTC, endDate
// inclusive) or RFC 3339 instants (endDate exclusive).
func (h *LedgerHandler) Revenue(c *gin.Context) {
	var rng domain.RevenueRange
	var err error
	if rng.From, err = parseDateParam(c.Query("startDate"), false); err != nil {
		writeError(c, domain.Validation("startDate: must be YYYY-MM-DD or RFC 3339"))
		return
	}
	if rng.To, err = parseDateParam(c.Query("endDate"), true); err != nil {
		writeError(c, domain.Validation("endDate: must be YYYY-MM-DD or RFC 3339"))
		return
	}

	days, err := h.ledgerSvc.Revenue(c.Request.Context(), rng)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, days)
}

// parseDateParam returns nil for an empty value. A bare date used as the end
// of a range moves to the following midnight so the whole day is included.
func parseDateParam(raw string, end bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		if end {
			t = t.AddDate(0, 0, 1)
		}
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// queryLimit reads ?limit, answering 400 and returning false when it is set
// but not a positive integer. Zero means the service default.
func queryLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		writeError(c, domain.Validation("limit: must be a positive integer"))
		return 0, false
	}
	return n, true
}
