package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/okieraised/udashboard/internal/api_response"
	"github.com/okieraised/udashboard/internal/cerrors"
)

func NoRouteMW() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		appErr := cerrors.ErrGenericUnknownAPIPath.WithMessage("unknown api path [%s %s]", ctx.Request.Method, ctx.Request.URL.Path)
		resp := api_response.New[any](ctx)
		resp.Populate(appErr.Code, appErr.Message, nil, nil, nil)
		ctx.AbortWithStatusJSON(appErr.HTTPStatus, resp)
	}
}
