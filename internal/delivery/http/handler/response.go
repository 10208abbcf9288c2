package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "shopunit-catalog/pkg/errors"
)

// ErrorResponse is the wire shape spec.md §6 fixes for every error: code
// equals the HTTP status, message is a short human-readable reason.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// itemsEnvelope wraps StatUnit collections in the {items: [...]} shape the
// statistic and sales endpoints share.
type itemsEnvelope struct {
	Items interface{} `json:"items"`
}

// respondError maps err to its HTTP status and the spec's error body. An
// error that isn't an *errors.AppError is treated as internal.
func respondError(c *gin.Context, err error) {
	appErr := pkgerrors.GetAppError(err)
	if appErr == nil {
		appErr = pkgerrors.Wrap(err, pkgerrors.ErrCodeInternal, "internal error")
	}
	c.JSON(appErr.StatusCode, ErrorResponse{Code: appErr.StatusCode, Message: appErr.Message})
}

func respondOK(c *gin.Context) {
	c.Status(http.StatusOK)
}
