package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/podscribe/errors"
	"github.com/kbukum/podscribe/logger"
)

// Recovery recovers from handler panics, logs the stack and answers with an
// INTERNAL_ERROR body.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.WithContext(c.Request.Context()).Error("panic recovered", logger.Fields(
					logger.FieldError, fmt.Sprintf("%v", rec),
					"stack", string(debug.Stack()),
					logger.FieldPath, c.Request.URL.Path,
					"method", c.Request.Method,
				))
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					apperrors.Internal(fmt.Errorf("panic: %v", rec)).ToResponse())
			}
		}()
		c.Next()
	}
}
