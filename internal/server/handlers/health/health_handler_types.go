package health

import "context"

// Pinger runs a trivial query on a fresh connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthResponse struct {
	Status int `json:"status"`
}
