package health

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/openmined/statusapi/internal/server/handlers/api"
	"github.com/openmined/statusapi/internal/status"
)

type HealthHandler struct {
	db Pinger
}

func New(db Pinger) *HealthHandler {
	return &HealthHandler{
		db: db,
	}
}

// Health checks the database with SELECT 1. Failures never expose the driver
// error to the client.
func (h *HealthHandler) Health(ctx *gin.Context) {
	if err := h.db.Ping(ctx.Request.Context()); err != nil {
		kind := status.KindQuery
		if storeErr, ok := status.AsStoreError(err); ok {
			kind = storeErr.Kind
		}
		slog.Error("health check failed", "kind", kind, "error", err)
		api.AbortWithDetail(ctx, http.StatusInternalServerError, api.DetailDatabaseConnectionFailed, err)
		return
	}

	ctx.PureJSON(http.StatusOK, HealthResponse{
		Status: http.StatusOK,
	})
}
