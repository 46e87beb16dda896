package main

import (
	"fmt"
	"os"

	"companion-app/frontend/pkg/config"
	"companion-app/frontend/pkg/logger"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "companions",
		Short:         "Companion catalog web front end",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), migrateCmd(), tokenCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and installs the global logger.
func bootstrap() (*config.Config, *logger.Logger, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, nil, err
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		JSON:   cfg.Logging.Format != "text",
		Output: os.Stderr,
		File:   cfg.Logging.File,
	})
	logger.SetGlobal(log)
	return cfg, log, nil
}
