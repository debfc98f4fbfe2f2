package hue

import (
	"encoding/json"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	// hueMax is the size of the bridge's 16-bit hue wheel.
	hueMax = 65535

	// hueScale converts degrees to bridge hue units (65535/360, as the bridge documents it).
	hueScale = 182.04

	// epsilon is the single-precision machine epsilon. Channels are multiples of
	// 1/255, so anything closer than this is rounding noise.
	epsilon = 1.1920929e-07
)

// RGB is an 8-bit-per-channel colour.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// HSB is a colour expressed in the bridge's native ranges:
// hue 0-65535, saturation 0-255, brightness 0-255.
type HSB struct {
	Hue        int
	Saturation int
	Brightness int
}

// ParseColor parses "#rrggbb", "rrggbb" or the short "#rgb" form.
func ParseColor(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RGB{}, fmt.Errorf("%w: empty colour", ErrInvalidRequest)
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: colour %q: %v", ErrInvalidRequest, s, err)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// RGBFromColor converts any image/color value, dropping alpha.
func RGBFromColor(c color.Color) RGB {
	cf, _ := colorful.MakeColor(c)
	r, g, b := cf.Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}

// Hex renders the colour as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// MarshalJSON renders the colour as a hex string.
func (c RGB) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Hex())
}

// UnmarshalJSON accepts either a hex string or an {"r","g","b"} object.
func (c *RGB) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := ParseColor(s)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	type plain RGB
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = RGB(p)
	return nil
}

// HSB converts the colour into bridge hue/saturation/brightness.
func (c RGB) HSB() HSB {
	conv := newHSBConverter(c)
	return HSB{
		Hue:        conv.hue(),
		Saturation: conv.saturation(),
		Brightness: conv.brightness(),
	}
}

// hsbConverter holds a colour normalised to 0..1 together with its
// channel extremes.
type hsbConverter struct {
	r, g, b  float64
	min, max float64
	delta    float64
}

func newHSBConverter(c RGB) hsbConverter {
	r := float64(c.R) / 255.0
	g := float64(c.G) / 255.0
	b := float64(c.B) / 255.0

	lo := math.Min(r, math.Min(g, b))
	hi := math.Max(r, math.Max(g, b))

	return hsbConverter{
		r:     r,
		g:     g,
		b:     b,
		min:   lo,
		max:   hi,
		delta: hi - lo,
	}
}

// hue returns the bridge hue. Degrees are scaled and truncated, then wrapped
// into [0, 65535).
func (c hsbConverter) hue() int {
	if approxEqual(c.r, c.g) && approxEqual(c.g, c.b) {
		return 0
	}

	var degrees float64
	switch {
	case approxEqual(c.r, c.max):
		degrees = (c.g - c.b) / c.delta * 60
	case approxEqual(c.g, c.max):
		degrees = (2 + (c.b-c.r)/c.delta) * 60
	default:
		degrees = (4 + (c.r-c.g)/c.delta) * 60
	}
	if degrees < 0 {
		degrees += 360
	}

	scaled := int(degrees * hueScale)
	return ((scaled % hueMax) + hueMax) % hueMax
}

func (c hsbConverter) saturation() int {
	if approxEqual(c.max, c.min) || approxEqual(c.max, 0) {
		return 0
	}
	return int(math.Round((1 - c.min/c.max) * 255))
}

func (c hsbConverter) brightness() int {
	return int(math.Round(c.max * 255))
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= epsilon
}
