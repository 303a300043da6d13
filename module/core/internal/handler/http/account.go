package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nandanugg/geotoll/module/core/domain"
)

type accountService interface {
	Get(ctx context.Context, accountID string) (*domain.Account, error)
}

type AccountHandler struct {
	accountSvc accountService
}

func NewAccountHandler(accountSvc accountService) *AccountHandler {
	return &AccountHandler{accountSvc: accountSvc}
}

func (h *AccountHandler) Register(r *gin.RouterGroup) {
	r.GET("/accounts/:account_id", h.Get)
}

func (h *AccountHandler) Get(c *gin.Context) {
	acc, err := h.accountSvc.Get(c.Request.Context(), c.Param("account_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, acc)
}
