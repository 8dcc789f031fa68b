package middlewares

import (
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/okieraised/udashboard/internal/api_response"
	"github.com/okieraised/udashboard/internal/cerrors"
	"github.com/okieraised/udashboard/internal/constants"
	"github.com/okieraised/udashboard/internal/infrastructure/log"
	"go.uber.org/zap"
)

func RecoveryMW() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Default().Error("Recovered from handler panic",
					zap.String(constants.APIFieldRequestID, ctx.GetString(constants.APIFieldRequestID)),
					zap.Any("panic", err),
					zap.ByteString("stack", debug.Stack()),
				)
				resp := api_response.New[any](ctx)
				resp.Populate(
					cerrors.ErrGenericInternalServer.Code,
					cerrors.ErrGenericInternalServer.Message,
					nil,
					nil,
					nil)
				ctx.AbortWithStatusJSON(cerrors.ErrGenericInternalServer.HTTPStatus, resp)
			}
		}()
		ctx.Next()
	}
}
