package server

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/maptools/geoport/internal/config"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config *config.Config
}

// NewServerContext initializes the handler context from the service
// configuration, filling in defaults for unset limits.
func NewServerContext(cfg *config.Config) *ServerContext {
	if cfg == nil {
		cfg = config.Default()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = config.Default().MaxBodyBytes
	}

	log.Info().
		Int64("max_body_bytes", cfg.MaxBodyBytes).
		Msg("Initializing server context")

	return &ServerContext{Config: cfg}
}

// alertCollector gathers user-facing alerts raised during one request so
// they can be returned to the HTTP client instead of being logged away.
type alertCollector struct {
	messages []string
}

// Alert implements report.AlertSink; the display duration is meaningless
// over HTTP and is dropped.
func (c *alertCollector) Alert(message string, _ time.Duration) {
	c.messages = append(c.messages, message)
}
