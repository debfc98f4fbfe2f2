package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/huemanatee/internal/config"
	"github.com/dokzlo13/huemanatee/internal/gateway"
)

// GatewayService wraps the gateway HTTP server.
type GatewayService struct {
	cfg    *config.Config
	server *gateway.Server
}

// NewGatewayService creates a new GatewayService.
func NewGatewayService(cfg *config.Config, hueSvc *HueService) *GatewayService {
	server := gateway.NewServer(cfg.Server.Addr(), hueSvc.Transport, cfg.Hue.Username, cfg.Hue.DeviceType)
	return &GatewayService{
		cfg:    cfg,
		server: server,
	}
}

// Start begins the gateway server if enabled. A listen failure is reported
// through onFatalError.
func (s *GatewayService) Start(ctx context.Context, onFatalError func(error)) {
	if !s.cfg.Server.Enabled {
		log.Debug().Msg("Gateway server disabled")
		return
	}

	go func() {
		if err := s.server.Run(ctx, s.cfg.ShutdownTimeout.Duration()); err != nil {
			log.Error().Err(err).Msg("Gateway server error")
			if onFatalError != nil {
				onFatalError(err)
			}
		}
	}()
}
