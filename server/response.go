package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/podscribe/errors"
	"github.com/kbukum/podscribe/logger"
)

// DataResponse is the success envelope.
type DataResponse struct {
	Data any `json:"data"`
}

// RespondWithError derives status and body from an *apperrors.AppError
// anywhere in err's chain; anything else becomes a 500.
func RespondWithError(c *gin.Context, err error) {
	status := apperrors.HTTPStatusOf(err)
	if status >= http.StatusInternalServerError {
		logger.Get("server").WithContext(c.Request.Context()).Error("request failed", logger.MergeWithError(nil, err))
	}
	c.JSON(status, apperrors.Wrap(err).ToResponse())
}

// RespondOK sends a 200 response wrapping data.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, DataResponse{Data: data})
}
