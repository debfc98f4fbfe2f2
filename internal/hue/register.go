package hue

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// RegistrationClient registers a device with the bridge to obtain a username.
type RegistrationClient struct {
	transport Transport
}

// NewRegistrationClient creates a new registration client.
func NewRegistrationClient(transport Transport) *RegistrationClient {
	return &RegistrationClient{transport: transport}
}

// Register asks the bridge for a username for the given device type.
//
// Until the link button on the bridge has been pressed the response carries
// no username and an error such as "link button not pressed"; call again
// after pressing it.
func (c *RegistrationClient) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	body, err := MapRegisterRequest(req)
	if err != nil {
		return nil, err
	}

	var results RegisterResults
	if err := c.transport.Post(ctx, "api", body, &results); err != nil {
		return nil, fmt.Errorf("register %q: %w", req.DeviceType, err)
	}

	resp := MapRegisterResponse(results)
	if resp.UserName != "" {
		log.Info().Str("device_type", req.DeviceType).Msg("Registered with Hue bridge")
	} else {
		log.Warn().Str("device_type", req.DeviceType).Strs("errors", resp.Errors).Msg("Hue bridge registration not completed")
	}

	return &resp, nil
}
