package hue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// BridgeError is an error element reported by the bridge.
type BridgeError struct {
	Type        int    `json:"type"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

// Result is one element of the bridge's result array. It holds exactly one
// of a success payload or a BridgeError; decoding rejects anything else.
type Result[T any] struct {
	success *T
	failure *BridgeError
}

// SuccessResult builds a success element.
func SuccessResult[T any](v T) Result[T] {
	return Result[T]{success: &v}
}

// ErrorResult builds an error element.
func ErrorResult[T any](e BridgeError) Result[T] {
	return Result[T]{failure: &e}
}

// IsSuccess reports whether the element is a success.
func (r Result[T]) IsSuccess() bool {
	return r.success != nil
}

// Success returns the success payload.
func (r Result[T]) Success() (T, bool) {
	if r.success == nil {
		var zero T
		return zero, false
	}
	return *r.success, true
}

// Failure returns the bridge error.
func (r Result[T]) Failure() (BridgeError, bool) {
	if r.failure == nil {
		return BridgeError{}, false
	}
	return *r.failure, true
}

func (r *Result[T]) UnmarshalJSON(data []byte) error {
	var raw struct {
		Success json.RawMessage `json:"success"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	hasSuccess := present(raw.Success)
	hasError := present(raw.Error)

	switch {
	case hasSuccess && hasError:
		return errors.New("result element has both success and error")
	case hasSuccess:
		var v T
		if err := json.Unmarshal(raw.Success, &v); err != nil {
			return fmt.Errorf("decode success: %w", err)
		}
		*r = Result[T]{success: &v}
	case hasError:
		var e BridgeError
		if err := json.Unmarshal(raw.Error, &e); err != nil {
			return fmt.Errorf("decode error: %w", err)
		}
		*r = Result[T]{failure: &e}
	default:
		return errors.New("result element has neither success nor error")
	}
	return nil
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Entry is one key/value pair of a JSON object.
type Entry[V any] struct {
	Key   string
	Value V
}

// OrderedObject decodes a JSON object keeping its keys in document order.
type OrderedObject[V any] []Entry[V]

func (o *OrderedObject[V]) UnmarshalJSON(data []byte) error {
	if !present(data) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	entries := make(OrderedObject[V], 0)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var v V
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("decode %q: %w", key, err)
		}
		entries = append(entries, Entry[V]{Key: key, Value: v})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*o = entries
	return nil
}

// StateRequest is the body of a light state or group action change.
// Unset fields are omitted so the bridge leaves them alone.
type StateRequest struct {
	On               *bool   `json:"on,omitempty"`
	Brightness       *int    `json:"bri,omitempty"`
	Saturation       *int    `json:"sat,omitempty"`
	Hue              *int    `json:"hue,omitempty"`
	Effect           *string `json:"effect,omitempty"`
	ColorTemperature *int    `json:"ct,omitempty"`
}

// StateResults is the bridge's reply to a state change: one element per
// attempted field, each success carrying {address: value}.
type StateResults []Result[OrderedObject[json.RawMessage]]

// WireRegisterRequest is the body of POST /api.
type WireRegisterRequest struct {
	DeviceType string `json:"devicetype"`
}

type WireRegisterSuccess struct {
	Username string `json:"username"`
}

// RegisterResults is the bridge's reply to a registration.
type RegisterResults []Result[WireRegisterSuccess]

type WireLightState struct {
	On        bool      `json:"on"`
	Bri       int       `json:"bri"`
	Hue       int       `json:"hue"`
	Sat       int       `json:"sat"`
	Effect    string    `json:"effect"`
	XY        []float64 `json:"xy"`
	CT        int       `json:"ct"`
	Alert     string    `json:"alert"`
	ColorMode string    `json:"colormode"`
	Reachable bool      `json:"reachable"`
}

// WireLight is a light object as the bridge sends it.
type WireLight struct {
	State            *WireLightState `json:"state"`
	Type             string          `json:"type"`
	Name             string          `json:"name"`
	ModelID          string          `json:"modelid"`
	ManufacturerName string          `json:"manufacturername"`
	ProductName      string          `json:"productname"`
	UniqueID         string          `json:"uniqueid"`
	SWVersion        string          `json:"swversion"`
}

// WireGroup is a group object as the bridge sends it.
type WireGroup struct {
	Name    string   `json:"name"`
	Lights  []string `json:"lights"`
	Sensors []string `json:"sensors"`
	Type    string   `json:"type"`
}
