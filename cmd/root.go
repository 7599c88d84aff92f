// Package cmd implements the CLI subcommands.
package cmd

import (
	"fmt"
	"os"

	"grimm.is/moraine/internal/config"
	"grimm.is/moraine/internal/i18n"
	"grimm.is/moraine/internal/logging"
)

// Printer is the global message printer for the CLI
var Printer = i18n.NewCLIPrinter()

// loadConfig reads the config file and applies the runtime log level.
func loadConfig(configFile string) (*config.Config, error) {
	cfg, err := config.LoadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	applyLogLevel(cfg.LogLevel)
	return cfg, nil
}

func applyLogLevel(level string) {
	switch level {
	case "debug":
		logging.Default().SetLevel(logging.LevelDebug)
	case "warn":
		logging.Default().SetLevel(logging.LevelWarn)
	case "error":
		logging.Default().SetLevel(logging.LevelError)
	default:
		logging.Default().SetLevel(logging.LevelInfo)
	}
}

// openInput opens a CSV input file with a friendlier error than os.Open's.
func openInput(path, kind string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s CSV not found: %s", kind, path)
		}
		return nil, fmt.Errorf("open %s CSV: %w", kind, err)
	}
	return f, nil
}
