package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nandanugg/geotoll/module/core/domain"
)

type errorDetail struct {
	Kind    domain.ErrorKind `json:"kind"`
	Message string           `json:"message"`
}

type errorResponse struct {
	Error errorDetail `json:"error"`
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindDependency:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err with the status for its kind. Wrapped causes are
// logged but never sent to the client.
func writeError(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	msg := "internal error"

	var de *domain.Error
	if errors.As(err, &de) {
		msg = de.Message
	}
	if kind == domain.KindNotFound && de == nil {
		msg = "not found"
	}

	status := statusFor(kind)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"method", c.Request.Method, "path", c.FullPath(), "kind", kind, "error", err)
	}
	c.JSON(status, errorResponse{Error: errorDetail{Kind: kind, Message: msg}})
}

func bindError(c *gin.Context, err error) {
	writeError(c, domain.Validation("invalid request body: "+err.Error()))
}
