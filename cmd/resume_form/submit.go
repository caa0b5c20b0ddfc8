package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/resume-form/internal/client"
	"github.com/jonathan/resume-form/internal/config"
	"github.com/jonathan/resume-form/internal/draft"
	"github.com/jonathan/resume-form/internal/form"
	"github.com/jonathan/resume-form/internal/observability"
	"github.com/spf13/cobra"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a resume draft to the resume details service",
	Long: `Loads a YAML or JSON draft, replays it through the form (the same add and edit rules as the web form apply), and submits the result.

The service URL comes from --service-url, then RESUME_SERVICE_URL, then the config file.`,
	RunE: runSubmit,
}

var (
	submitDraft      string
	submitConfigPath string
	submitServiceURL string
	submitVerbose    bool
)

func init() {
	submitCmd.Flags().StringVarP(&submitDraft, "draft", "d", "", "Path to draft file (.yaml, .yml, .json) (required)")
	submitCmd.Flags().StringVar(&submitConfigPath, "config", "", "Path to config file (.json, .yaml)")
	submitCmd.Flags().StringVar(&submitServiceURL, "service-url", "", "Resume service base URL (overrides config)")
	submitCmd.Flags().BoolVarP(&submitVerbose, "verbose", "v", false, "Print the form state and payload")

	if err := submitCmd.MarkFlagRequired("draft"); err != nil {
		panic(fmt.Sprintf("failed to mark draft flag as required: %v", err))
	}

	rootCmd.AddCommand(submitCmd)
}

// commandContext returns the command's context, cancelled on SIGINT/SIGTERM.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

// loadDraftForm builds a controller that submits through sub and replays the
// draft at path into it.
func loadDraftForm(ctx context.Context, cfg *config.Config, sub form.Submitter, path string) (*form.Controller, error) {
	d, err := draft.Load(path)
	if err != nil {
		return nil, err
	}
	c := form.New(sub, cfg.FormOptions())
	if err := d.Apply(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func runSubmit(cmd *cobra.Command, _ []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	cfg, err := config.Load(submitConfigPath)
	if err != nil {
		return err
	}
	if submitServiceURL != "" {
		cfg.ServiceURL = submitServiceURL
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = submitVerbose
	}

	svc, err := client.New(cfg.ServiceURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create resume service client: %w", err)
	}

	c, err := loadDraftForm(ctx, cfg, svc, submitDraft)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printer := observability.NewPrinter(out)
	if cfg.Verbose {
		printer.PrintState(c.Snapshot())
	}

	employeeID := c.Snapshot().Profile.EmployeeID
	payload, err := c.Submit(ctx)
	if cfg.Verbose {
		printer.PrintPayload(employeeID, payload)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", form.SubmitFailureMessage, err)
	}

	_, _ = fmt.Fprintf(out, "%s (POST %s)\n", form.SubmitSuccessMessage, svc.EndpointURL(employeeID))
	return nil
}
