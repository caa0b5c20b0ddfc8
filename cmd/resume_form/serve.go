package main

import (
	"fmt"
	"time"

	"github.com/jonathan/resume-form/internal/client"
	"github.com/jonathan/resume-form/internal/config"
	"github.com/jonathan/resume-form/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort       int
	serveConfigPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the resume form web server",
	Long: `Start an HTTP server that renders the resume form. Each browser session gets its own form.

Configuration can be loaded from a JSON or YAML file using --config. Environment variables override the file, and --port overrides both.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config file (.json, .yaml)")
	rootCmd.AddCommand(serveCmd)
}

// buildServer loads configuration and assembles the server without starting it.
func buildServer(cmd *cobra.Command) (*server.Server, error) {
	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}

	c, err := client.New(cfg.ServiceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create resume service client: %w", err)
	}

	srv, err := server.New(server.Config{
		Port:        cfg.Port,
		SessionTTL:  time.Duration(cfg.SessionTTL),
		FormOptions: cfg.FormOptions(),
	}, c)
	if err != nil {
		return nil, fmt.Errorf("failed to create server: %w", err)
	}
	return srv, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	srv, err := buildServer(cmd)
	if err != nil {
		return err
	}
	return srv.Start()
}
