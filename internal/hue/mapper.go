package hue

import (
	"bytes"
	"encoding/json"
	"strings"
)

// MapStateRequest builds the wire body for a light state or group action
// change. A colour fills hue, saturation and brightness only where the
// request leaves them unset.
func MapStateRequest(req *ChangeRequest) (*StateRequest, error) {
	if req == nil {
		return nil, invalidRequest("change request is required")
	}

	out := &StateRequest{
		On:               copyPtr(req.On),
		Brightness:       copyPtr(req.Brightness),
		Saturation:       copyPtr(req.Saturation),
		Hue:              copyPtr(req.Hue),
		ColorTemperature: copyPtr(req.ColorTemperature),
	}
	if req.Effect != nil {
		effect := strings.ToLower(string(*req.Effect))
		out.Effect = &effect
	}

	if req.Color != nil {
		hsb := req.Color.HSB()
		if out.Hue == nil {
			out.Hue = &hsb.Hue
		}
		if out.Saturation == nil {
			out.Saturation = &hsb.Saturation
		}
		if out.Brightness == nil {
			out.Brightness = &hsb.Brightness
		}
	}

	return out, nil
}

// MapStateResponse folds the bridge's result array into a ChangeResponse.
// Order is kept; blank addresses, values and descriptions are dropped.
func MapStateResponse(results StateResults) ChangeResponse {
	resp := ChangeResponse{
		Changes: make([]Change, 0, len(results)),
		Errors:  make([]string, 0),
	}

	for _, r := range results {
		if payload, ok := r.Success(); ok {
			if len(payload) == 0 {
				continue
			}
			first := payload[0]
			value := renderValue(first.Value)
			if isBlank(first.Key) || isBlank(value) {
				continue
			}
			resp.Changes = append(resp.Changes, Change{Address: first.Key, Value: value})
			continue
		}
		if be, ok := r.Failure(); ok && !isBlank(be.Description) {
			resp.Errors = append(resp.Errors, be.Description)
		}
	}

	return resp
}

// MapRegisterRequest builds the registration body.
func MapRegisterRequest(req *RegisterRequest) (*WireRegisterRequest, error) {
	if req == nil || isBlank(req.DeviceType) {
		return nil, invalidRequest("device type is required to register with the bridge")
	}
	return &WireRegisterRequest{DeviceType: req.DeviceType}, nil
}

// MapRegisterResponse takes the first username the bridge handed out and
// every error description, in order.
func MapRegisterResponse(results RegisterResults) RegisterResponse {
	resp := RegisterResponse{Errors: make([]string, 0)}

	for _, r := range results {
		if s, ok := r.Success(); ok {
			if resp.UserName == "" && !isBlank(s.Username) {
				resp.UserName = s.Username
			}
			continue
		}
		if be, ok := r.Failure(); ok && !isBlank(be.Description) {
			resp.Errors = append(resp.Errors, be.Description)
		}
	}

	return resp
}

// MapLightsResponse maps an id -> light object listing.
func MapLightsResponse(raw OrderedObject[WireLight]) []Light {
	lights := make([]Light, 0, len(raw))
	for _, e := range raw {
		lights = append(lights, MapLightResponse(e.Key, e.Value))
	}
	return lights
}

// MapLightResponse maps a single light object.
func MapLightResponse(id string, l WireLight) Light {
	light := Light{
		ID:              id,
		Name:            l.Name,
		Type:            l.Type,
		ModelID:         l.ModelID,
		Manufacturer:    l.ManufacturerName,
		ProductName:     l.ProductName,
		UniqueID:        l.UniqueID,
		SoftwareVersion: l.SWVersion,
	}
	if l.State == nil {
		return light
	}

	s := l.State
	state := &LightState{
		On:               &s.On,
		Brightness:       &s.Bri,
		Hue:              &s.Hue,
		Saturation:       &s.Sat,
		Effect:           s.Effect,
		ColorTemperature: &s.CT,
		Alert:            s.Alert,
		ColorMode:        s.ColorMode,
		Reachable:        &s.Reachable,
	}
	if len(s.XY) > 0 {
		x := s.XY[0]
		y := s.XY[len(s.XY)-1]
		state.X = &x
		state.Y = &y
	}
	light.State = state

	return light
}

// MapGroupsResponse maps an id -> group object listing.
func MapGroupsResponse(raw OrderedObject[WireGroup]) []Group {
	groups := make([]Group, 0, len(raw))
	for _, e := range raw {
		groups = append(groups, MapGroupResponse(e.Key, e.Value))
	}
	return groups
}

// MapGroupResponse maps a single group object.
func MapGroupResponse(id string, g WireGroup) Group {
	return Group{
		ID:      id,
		Name:    g.Name,
		Type:    g.Type,
		Lights:  nonNil(g.Lights),
		Sensors: nonNil(g.Sensors),
	}
}

// renderValue turns a success value into the string the bridge means:
// strings unquoted, everything else as compact JSON.
func renderValue(raw json.RawMessage) string {
	if !present(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
