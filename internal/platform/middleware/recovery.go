package middleware

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/svgboard-api/internal/shared/errors"
)

// Recovery turns a handler panic into a logged problem+json 500 response.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		logger.ErrorContext(c.Request.Context(), "panic recovered",
			slog.String("request.id", c.GetString("request_id")),
			slog.String("http.method", c.Request.Method),
			slog.String("http.path", c.Request.URL.Path),
			slog.String("panic", fmt.Sprint(recovered)),
		)
		apierrors.DefaultResponder.RespondError(c, fmt.Errorf("panic: %v", recovered))
	})
}
