package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/huemanatee/internal/app"
	"github.com/dokzlo13/huemanatee/internal/config"
)

const usage = `Usage: huemanatee [flags] <command> [args]

Commands:
  serve                  run the HTTP gateway (default)
  register [-device-type app#device]
                         request a username; press the bridge link button first
  lights [id]            list lights, or show one
  groups [id]            list groups, or show one
  set-light <id> [state flags]
  set-group <id> [state flags]

State flags: -on -bri -hue -sat -ct -color "#rrggbb" -effect none|colorloop

Flags:
`

func main() {
	// Support both -c and --config for config path
	var configPath, bridge, username string
	flag.StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	flag.StringVar(&configPath, "c", "config.yaml", "Path to configuration file (shorthand)")
	flag.StringVar(&bridge, "bridge", "", "Bridge address, overrides hue.bridge")
	flag.StringVar(&username, "username", "", "Bridge username, overrides hue.username")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", configPath).Msg("Failed to load configuration")
	}
	if bridge != "" {
		cfg.Hue.Bridge = bridge
	}
	if username != "" {
		cfg.Hue.Username = username
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	setupLogging(cfg.Log.GetLevel(), cfg.Log.JSON, cfg.Log.Colors)

	command := "serve"
	args := flag.Args()
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	if command == "serve" {
		serve(cfg, configPath)
		return
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create application")
	}
	defer application.Stop()

	if err := runCommand(app.SignalContext(), application.Services(), command, args); err != nil {
		log.Error().Err(err).Str("command", command).Msg("Command failed")
		application.Stop()
		os.Exit(1)
	}
}

// loadConfig reads the config file. A missing default file is not an error
// so that one-shot commands can run on flags alone.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) && path == "config.yaml" {
		return config.Default(), nil
	}
	return cfg, err
}

func serve(cfg *config.Config, configPath string) {
	log.Info().Str("config", configPath).Msg("Starting huemanatee")

	// Create application
	application, err := app.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create application")
	}

	// Create context that cancels on shutdown signal
	ctx := app.SignalContext()

	// Start the application
	if err := application.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	// Wait for shutdown
	application.Wait()

	// Graceful shutdown
	if err := application.Stop(); err != nil {
		log.Error().Err(err).Msg("Error during shutdown")
	}
}

func setupLogging(level string, useJSON bool, colors bool) {
	// ISO 8601 format with timezone
	zerolog.TimeFieldFormat = time.RFC3339

	if useJSON {
		// JSON output for production
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		// Text output (with optional colors)
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "2006-01-02T15:04:05.000Z07:00",
			NoColor:    !colors,
		})
	}

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
