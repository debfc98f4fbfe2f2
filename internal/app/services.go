package app

import (
	"context"

	"github.com/dokzlo13/huemanatee/internal/config"
)

// Services is a container for all application services.
type Services struct {
	cfg *config.Config

	Hue     *HueService
	Gateway *GatewayService
}

// NewServices creates all services with proper dependency injection.
func NewServices(cfg *config.Config) (*Services, error) {
	s := &Services{cfg: cfg}

	var err error
	s.Hue, err = NewHueService(cfg)
	if err != nil {
		return nil, err
	}

	s.Gateway = NewGatewayService(cfg, s.Hue)

	return s, nil
}

// Start starts all services in the correct order.
// The onFatalError callback is called when a background service dies.
func (s *Services) Start(ctx context.Context, onFatalError func(error)) error {
	if err := s.Hue.Start(ctx); err != nil {
		return err
	}

	s.Gateway.Start(ctx, onFatalError)

	return nil
}

// Stop gracefully stops all services.
func (s *Services) Stop() error {
	s.Close()
	return nil
}

// Close releases all resources.
func (s *Services) Close() {
	if s.Hue != nil {
		s.Hue.Close()
	}
}
