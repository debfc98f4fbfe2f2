package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/huemanatee/internal/config"
	"github.com/dokzlo13/huemanatee/internal/hue"
)

// HueService wraps the bridge transport and the clients built on it.
type HueService struct {
	cfg *config.Config

	Transport    *hue.HTTPTransport
	Client       *hue.Client
	Registration *hue.RegistrationClient
}

// NewHueService creates a new HueService. No request is made until Start.
func NewHueService(cfg *config.Config) (*HueService, error) {
	transport, err := hue.NewHTTPTransport(hue.TransportConfig{
		Address:            cfg.Hue.Bridge,
		Timeout:            cfg.Hue.Timeout.Duration(),
		InsecureSkipVerify: cfg.Hue.InsecureTLS,
		RateLimitRPS:       cfg.Hue.RateLimitRPS,
	})
	if err != nil {
		return nil, fmt.Errorf("hue transport: %w", err)
	}

	return &HueService{
		cfg:          cfg,
		Transport:    transport,
		Client:       hue.NewClient(transport, cfg.Hue.Username),
		Registration: hue.NewRegistrationClient(transport),
	}, nil
}

// Start checks that the bridge answers for the configured user.
// Without a username there is nothing to check yet.
func (s *HueService) Start(ctx context.Context) error {
	if s.Client.UserName() == "" {
		log.Warn().
			Str("bridge", s.Transport.BaseURL()).
			Msg("No Hue username configured, only registration will work until one is set")
		return nil
	}

	lights, err := s.Client.GetLights(ctx)
	if err != nil {
		return fmt.Errorf("connect to hue bridge: %w", err)
	}

	log.Info().
		Str("bridge", s.Transport.BaseURL()).
		Int("lights", len(lights)).
		Msg("Connected to Hue bridge")
	return nil
}

// DeviceType returns the configured registration device type.
func (s *HueService) DeviceType() string {
	return s.cfg.Hue.DeviceType
}

// Close releases all resources.
func (s *HueService) Close() {
	if s.Transport != nil {
		s.Transport.Close()
	}
}
