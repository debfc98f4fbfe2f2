package hue

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
)

// Client provides typed access to the Hue bridge v1 API for a registered user.
// Every method is a single round trip; the client holds no mutable state and
// is safe for concurrent use when its Transport is.
type Client struct {
	transport Transport
	username  string
}

// NewClient creates a new Hue client. An empty username is accepted;
// operations then fail with ErrUnauthorized until a client is built with one.
func NewClient(transport Transport, username string) *Client {
	return &Client{
		transport: transport,
		username:  strings.TrimSpace(username),
	}
}

// UserName returns the username the client was built with.
func (c *Client) UserName() string {
	return c.username
}

// GetLights returns every light visible to the user, in bridge order.
func (c *Client) GetLights(ctx context.Context) ([]Light, error) {
	if err := c.authorized(); err != nil {
		return nil, err
	}

	var raw OrderedObject[WireLight]
	if err := c.transport.Get(ctx, c.path("lights"), &raw); err != nil {
		return nil, fmt.Errorf("get lights: %w", err)
	}

	return MapLightsResponse(raw), nil
}

// GetLight returns a light by ID.
func (c *Client) GetLight(ctx context.Context, id string) (*Light, error) {
	if err := c.authorized(); err != nil {
		return nil, err
	}
	if isBlank(id) {
		return nil, invalidRequest("light ID is required")
	}

	var raw WireLight
	if err := c.transport.Get(ctx, c.path("lights", id), &raw); err != nil {
		return nil, fmt.Errorf("get light %s: %w", id, err)
	}

	light := MapLightResponse(id, raw)
	return &light, nil
}

// GetGroups returns every group visible to the user, in bridge order.
func (c *Client) GetGroups(ctx context.Context) ([]Group, error) {
	if err := c.authorized(); err != nil {
		return nil, err
	}

	var raw OrderedObject[WireGroup]
	if err := c.transport.Get(ctx, c.path("groups")+"/", &raw); err != nil {
		return nil, fmt.Errorf("get groups: %w", err)
	}

	return MapGroupsResponse(raw), nil
}

// GetGroup returns a group by ID.
func (c *Client) GetGroup(ctx context.Context, id string) (*Group, error) {
	if err := c.authorized(); err != nil {
		return nil, err
	}
	if isBlank(id) {
		return nil, invalidRequest("group ID is required")
	}

	var raw WireGroup
	if err := c.transport.Get(ctx, c.path("groups", id), &raw); err != nil {
		return nil, fmt.Errorf("get group %s: %w", id, err)
	}

	group := MapGroupResponse(id, raw)
	return &group, nil
}

// ChangeLight changes the state of a light.
//
// Per-field rejections are reported in ChangeResponse.Errors, not as an
// error: the bridge may apply some fields and refuse others.
func (c *Client) ChangeLight(ctx context.Context, id string, req *ChangeRequest) (*ChangeResponse, error) {
	if isBlank(id) {
		return nil, invalidRequest("light ID is required")
	}
	return c.change(ctx, "light", c.path("lights", id, "state"), id, req)
}

// ChangeGroup changes the state of every light in a group.
func (c *Client) ChangeGroup(ctx context.Context, id string, req *ChangeRequest) (*ChangeResponse, error) {
	if isBlank(id) {
		return nil, invalidRequest("group ID is required")
	}
	return c.change(ctx, "group", c.path("groups", id, "action"), id, req)
}

// StartColorLoop turns a light on and starts the colour loop effect.
func (c *Client) StartColorLoop(ctx context.Context, id string) (*ChangeResponse, error) {
	on := true
	effect := EffectColorLoop
	return c.ChangeLight(ctx, id, &ChangeRequest{On: &on, Effect: &effect})
}

// StopColorLoop stops any running effect on a light.
func (c *Client) StopColorLoop(ctx context.Context, id string) (*ChangeResponse, error) {
	effect := EffectNone
	return c.ChangeLight(ctx, id, &ChangeRequest{Effect: &effect})
}

func (c *Client) change(ctx context.Context, kind, path, id string, req *ChangeRequest) (*ChangeResponse, error) {
	if err := c.authorized(); err != nil {
		return nil, err
	}

	body, err := MapStateRequest(req)
	if err != nil {
		return nil, err
	}

	var results StateResults
	if err := c.transport.Put(ctx, path, body, &results); err != nil {
		return nil, fmt.Errorf("change %s %s: %w", kind, id, err)
	}

	resp := MapStateResponse(results)

	if len(resp.Errors) > 0 {
		log.Warn().
			Str(kind, id).
			Int("changes", len(resp.Changes)).
			Strs("errors", resp.Errors).
			Msg("Bridge rejected part of state change")
	} else {
		log.Debug().
			Str(kind, id).
			Int("changes", len(resp.Changes)).
			Msg("State change applied")
	}

	return &resp, nil
}

func (c *Client) authorized() error {
	if c.username == "" {
		return fmt.Errorf("%w: a registered username is required, register with the bridge first", ErrUnauthorized)
	}
	return nil
}

// path builds "api/<username>/<segments...>" with each segment escaped.
func (c *Client) path(segments ...string) string {
	escaped := make([]string, 0, len(segments)+2)
	escaped = append(escaped, "api", url.PathEscape(c.username))
	for _, s := range segments {
		escaped = append(escaped, url.PathEscape(strings.TrimSpace(s)))
	}
	return strings.Join(escaped, "/")
}
