package status

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/openmined/statusapi/internal/server/handlers/api"
	"github.com/openmined/statusapi/internal/status"
)

type StatusHandler struct {
	store StatusStore
}

func New(store StatusStore) *StatusHandler {
	return &StatusHandler{
		store: store,
	}
}

// GetStatus lists every record, newest first.
func (h *StatusHandler) GetStatus(ctx *gin.Context) {
	records, err := h.store.List(ctx.Request.Context())
	if err != nil {
		abortWithStoreError(ctx, "list", err)
		return
	}

	ctx.PureJSON(http.StatusOK, records)
}

// SetStatus validates the body before touching the database, then inserts.
func (h *StatusHandler) SetStatus(ctx *gin.Context) {
	var req SetStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		api.AbortWithDetail(ctx, http.StatusUnprocessableEntity, validationDetail(err), err)
		return
	}

	id, err := h.store.Insert(ctx.Request.Context(), *req.Status)
	if err != nil {
		abortWithStoreError(ctx, "insert", err)
		return
	}

	slog.Debug("status record inserted", "id", id)
	ctx.PureJSON(http.StatusOK, SetStatusResponse{
		Message: MessageInserted,
	})
}

// abortWithStoreError echoes the underlying error text to the client.
func abortWithStoreError(ctx *gin.Context, op string, err error) {
	kind := status.KindQuery
	if storeErr, ok := status.AsStoreError(err); ok {
		kind = storeErr.Kind
	}
	slog.Error("status store error", "op", op, "kind", kind, "error", err)
	api.AbortWithDetail(ctx, http.StatusInternalServerError, err.Error(), err)
}

func validationDetail(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, strings.ToLower(fe.Field()))
		}
		return fmt.Sprintf("field required: %s", strings.Join(fields, ", "))
	}
	return err.Error()
}
