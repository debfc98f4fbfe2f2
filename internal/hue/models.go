package hue

// Effect is a bridge-native lighting animation.
type Effect string

const (
	EffectNone      Effect = "None"
	EffectColorLoop Effect = "ColorLoop"
)

// LightState represents the current state of a light.
// Nil fields were not reported by the bridge.
type LightState struct {
	On               *bool    `json:"on,omitempty"`
	Brightness       *int     `json:"brightness,omitempty"`
	Hue              *int     `json:"hue,omitempty"`
	Saturation       *int     `json:"saturation,omitempty"`
	Effect           string   `json:"effect,omitempty"`
	X                *float64 `json:"x,omitempty"`
	Y                *float64 `json:"y,omitempty"`
	ColorTemperature *int     `json:"colorTemperature,omitempty"`
	Alert            string   `json:"alert,omitempty"`
	ColorMode        string   `json:"colorMode,omitempty"`
	Reachable        *bool    `json:"reachable,omitempty"`
}

// Light represents a Hue light (v1 API)
type Light struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Type            string      `json:"type,omitempty"`
	ModelID         string      `json:"modelId,omitempty"`
	Manufacturer    string      `json:"manufacturer,omitempty"`
	ProductName     string      `json:"productName,omitempty"`
	UniqueID        string      `json:"uniqueId,omitempty"`
	SoftwareVersion string      `json:"softwareVersion,omitempty"`
	State           *LightState `json:"state,omitempty"`
}

// Group represents a Hue group (v1 API)
type Group struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Lights  []string `json:"lights"`
	Sensors []string `json:"sensors"`
}

// ChangeRequest is a sparse state change for a light or a group.
// Nil fields are left unchanged on the bridge.
//
// When Color is set its hue, saturation and brightness are used for any of
// those fields the request does not set explicitly.
type ChangeRequest struct {
	On               *bool   `json:"on,omitempty"`
	Brightness       *int    `json:"brightness,omitempty"`
	Hue              *int    `json:"hue,omitempty"`
	Saturation       *int    `json:"saturation,omitempty"`
	Effect           *Effect `json:"effect,omitempty"`
	Color            *RGB    `json:"color,omitempty"`
	ColorTemperature *int    `json:"colorTemperature,omitempty"`
}

// Change is one field the bridge accepted, addressed the way the bridge
// reports it (e.g. "/lights/1/state/bri").
type Change struct {
	Address string `json:"address"`
	Value   string `json:"value"`
}

// ChangeResponse is the outcome of a state change. Changes and Errors keep
// the order the bridge reported them in.
type ChangeResponse struct {
	Changes []Change `json:"changes"`
	Errors  []string `json:"errors"`
}

// Value returns the accepted value for an address.
func (r ChangeResponse) Value(address string) (string, bool) {
	for _, c := range r.Changes {
		if c.Address == address {
			return c.Value, true
		}
	}
	return "", false
}

// RegisterRequest identifies the device being registered, e.g. "huemanatee#kitchen".
type RegisterRequest struct {
	DeviceType string `json:"deviceType"`
}

// RegisterResponse carries the username assigned by the bridge, if any.
// UserName stays empty until the link button has been pressed.
type RegisterResponse struct {
	UserName string   `json:"userName,omitempty"`
	Errors   []string `json:"errors"`
}
