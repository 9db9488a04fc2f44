package server

import (
	"context"
	"fmt"

	"github.com/openmined/statusapi/internal/db"
	"github.com/openmined/statusapi/internal/readiness"
	"github.com/openmined/statusapi/internal/status"
)

type Services struct {
	Connector *db.Connector
	Status    *status.Store
	Readiness *readiness.Gate
}

func NewServices(config *Config) (*Services, error) {
	connector, err := db.NewConnector(config.DB)
	if err != nil {
		return nil, fmt.Errorf("create connector: %w", err)
	}

	gate := readiness.New(connector.Probe,
		readiness.WithAttempts(config.Startup.Retries),
		readiness.WithDelay(config.Startup.RetryDelay),
	)

	return &Services{
		Connector: connector,
		Status:    status.NewStore(connector),
		Readiness: gate,
	}, nil
}

// Start runs the readiness gate and, when the database came up and
// autoMigrate is set, applies pending migrations. It reports the gate's state.
func (s *Services) Start(ctx context.Context, autoMigrate bool) (readiness.State, error) {
	state := s.Readiness.Wait(ctx)
	if state != readiness.Ready || !autoMigrate || ctx.Err() != nil {
		return state, nil
	}

	if err := db.Migrate(ctx, s.Connector); err != nil {
		return state, fmt.Errorf("auto migrate: %w", err)
	}
	return state, nil
}
