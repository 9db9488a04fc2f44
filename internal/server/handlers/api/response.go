package api

import "github.com/gin-gonic/gin"

// AbortWithDetail stops the handler chain, records err on the context for the
// request logger and writes {"detail": detail}.
func AbortWithDetail(ctx *gin.Context, status int, detail string, err error) {
	ctx.Abort()
	if err != nil {
		ctx.Error(err)
	}
	ctx.PureJSON(status, ErrorResponse{
		Detail: detail,
	})
}
