package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nandanugg/geotoll/module/core/domain"
)

type walletService interface {
	Recharge(ctx context.Context, accountID string, amount domain.Money) (*domain.Account, error)
}

type rechargeRequest struct {
	Amount *domain.Money `json:"amount" binding:"required"`
}

type WalletHandler struct {
	walletSvc walletService
}

func NewWalletHandler(walletSvc walletService) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc}
}

func (h *WalletHandler) Register(r *gin.RouterGroup) {
	r.POST("/accounts/:account_id/recharge", h.Recharge)
}

func (h *WalletHandler) Recharge(c *gin.Context) {
	var req rechargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	acc, err := h.walletSvc.Recharge(c.Request.Context(), c.Param("account_id"), *req.Amount)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, acc)
}
