package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/okieraised/udashboard/internal/api_response"
	"github.com/okieraised/udashboard/internal/cerrors"
	"github.com/okieraised/udashboard/internal/infrastructure/log"
	"go.uber.org/zap"
)

// RequestTimeoutMW answers with a timeout error when the handler chain runs
// longer than timeoutDuration. It must not wrap websocket routes.
func RequestTimeoutMW(timeoutDuration time.Duration) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		finish := make(chan struct{}, 1)
		panicChan := make(chan any, 1)

		go func() {
			defer func() {
				if p := recover(); p != nil {
					panicChan <- p
				}
			}()
			ctx.Next()
			finish <- struct{}{}
		}()

		timer := time.NewTimer(timeoutDuration)
		defer timer.Stop()

		resp := api_response.New[any](ctx)
		select {
		case p := <-panicChan:
			log.Default().Error("Recovered from handler panic", zap.Any("panic", p))
			resp.Populate(
				cerrors.ErrGenericInternalServer.Code,
				cerrors.ErrGenericInternalServer.Message,
				nil,
				nil,
				nil,
			)
			ctx.AbortWithStatusJSON(cerrors.ErrGenericInternalServer.HTTPStatus, resp)
			return
		case <-timer.C:
			resp.Populate(
				cerrors.ErrGenericRequestTimedOut.Code,
				cerrors.ErrGenericRequestTimedOut.Message,
				nil,
				nil,
				nil,
			)
			ctx.AbortWithStatusJSON(cerrors.ErrGenericRequestTimedOut.HTTPStatus, resp)
			return
		case <-finish:
		}
	}
}
