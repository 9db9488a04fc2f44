package status

import (
	"context"

	"github.com/openmined/statusapi/internal/status"
)

// StatusStore is the data access the status endpoints need.
type StatusStore interface {
	List(ctx context.Context) ([]status.Record, error)
	Insert(ctx context.Context, value string) (int64, error)
}

type SetStatusRequest struct {
	// pointer so that "" passes and a missing field does not
	Status *string `json:"status" binding:"required"`
}

type SetStatusResponse struct {
	Message string `json:"message"`
}

const MessageInserted = "Record inserted successfully"
