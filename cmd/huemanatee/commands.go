package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dokzlo13/huemanatee/internal/app"
	"github.com/dokzlo13/huemanatee/internal/hue"
)

var errUsage = errors.New("usage")

// runCommand executes a one-shot command and prints its result as JSON.
func runCommand(ctx context.Context, svcs *app.Services, command string, args []string) error {
	out, err := dispatch(ctx, svcs, command, args)
	if err != nil {
		return err
	}
	return printJSON(os.Stdout, out)
}

func dispatch(ctx context.Context, svcs *app.Services, command string, args []string) (any, error) {
	client := svcs.Hue.Client

	switch command {
	case "register":
		fs := flag.NewFlagSet("register", flag.ContinueOnError)
		deviceType := fs.String("device-type", svcs.Hue.DeviceType(), "Device type sent to the bridge (app#device)")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		return svcs.Hue.Registration.Register(ctx, &hue.RegisterRequest{DeviceType: *deviceType})

	case "lights":
		if len(args) > 0 {
			return client.GetLight(ctx, args[0])
		}
		return client.GetLights(ctx)

	case "groups":
		if len(args) > 0 {
			return client.GetGroup(ctx, args[0])
		}
		return client.GetGroups(ctx)

	case "set-light", "set-group":
		if len(args) == 0 || strings.HasPrefix(args[0], "-") {
			return nil, fmt.Errorf("%w: %s <id> [state flags]", errUsage, command)
		}
		id := args[0]
		req, err := parseChangeRequest(command, args[1:])
		if err != nil {
			return nil, err
		}
		if command == "set-light" {
			return client.ChangeLight(ctx, id, req)
		}
		return client.ChangeGroup(ctx, id, req)

	default:
		return nil, fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

// parseChangeRequest turns state flags into a ChangeRequest. Only flags
// present on the command line are set.
func parseChangeRequest(name string, args []string) (*hue.ChangeRequest, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	on := fs.Bool("on", false, "Turn on (or -on=false to turn off)")
	bri := fs.Int("bri", 0, "Brightness 0-254")
	hueVal := fs.Int("hue", 0, "Hue 0-65535")
	sat := fs.Int("sat", 0, "Saturation 0-254")
	ct := fs.Int("ct", 0, "Colour temperature in mireds")
	colorHex := fs.String("color", "", "Colour as #rrggbb")
	effect := fs.String("effect", "", "none or colorloop")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", hue.ErrInvalidRequest, err)
	}

	req := &hue.ChangeRequest{}
	var visitErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "on":
			req.On = on
		case "bri":
			req.Brightness = bri
		case "hue":
			req.Hue = hueVal
		case "sat":
			req.Saturation = sat
		case "ct":
			req.ColorTemperature = ct
		case "color":
			c, err := hue.ParseColor(*colorHex)
			if err != nil {
				visitErr = err
				return
			}
			req.Color = &c
		case "effect":
			e, err := parseEffect(*effect)
			if err != nil {
				visitErr = err
				return
			}
			req.Effect = &e
		}
	})
	if visitErr != nil {
		return nil, visitErr
	}
	return req, nil
}

func parseEffect(s string) (hue.Effect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return hue.EffectNone, nil
	case "colorloop":
		return hue.EffectColorLoop, nil
	default:
		return "", fmt.Errorf("%w: unknown effect %q", hue.ErrInvalidRequest, s)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
