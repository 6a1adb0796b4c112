package engine

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tutu-network/fmodcli/internal/config"
	"github.com/tutu-network/fmodcli/internal/domain"
)

// New selects the backend named by cfg.Kind.
func New(cfg config.BackendConfig, log zerolog.Logger) (domain.GenerationBackend, error) {
	switch cfg.Kind {
	case config.BackendLocal, "":
		log.Debug().Str("endpoint", cfg.Endpoint).Str("model", cfg.Model).Msg("using local backend")
		return NewLocal(LocalOptions{
			Endpoint: cfg.Endpoint,
			Model:    cfg.Model,
			Enabled:  cfg.Enabled,
			Logger:   log,
		}), nil
	case config.BackendStub:
		log.Debug().Msg("using stub backend")
		return NewStub(), nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownBackend, cfg.Kind)
}
