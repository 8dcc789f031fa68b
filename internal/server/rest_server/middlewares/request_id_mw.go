package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/okieraised/udashboard/internal/constants"
)

// RequestIDMW keeps a caller supplied X-Request-ID or mints a new one, and
// echoes it on the response.
func RequestIDMW() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		requestID := ctx.GetHeader(constants.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		ctx.Set(constants.APIFieldRequestID, requestID)
		ctx.Header(constants.HeaderXRequestID, requestID)
		ctx.Next()
	}
}
