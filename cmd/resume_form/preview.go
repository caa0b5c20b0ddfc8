package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/resume-form/internal/config"
	"github.com/jonathan/resume-form/internal/form"
	"github.com/jonathan/resume-form/internal/observability"
	"github.com/jonathan/resume-form/internal/schemas"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print the payload a draft would submit",
	Long:  "Replays a draft through the form and writes the submission payload as JSON without sending it. The payload is checked against the submission schema.",
	RunE:  runPreview,
}

var (
	previewDraft   string
	previewOutput  string
	previewVerbose bool
)

func init() {
	previewCmd.Flags().StringVarP(&previewDraft, "draft", "d", "", "Path to draft file (.yaml, .yml, .json) (required)")
	previewCmd.Flags().StringVarP(&previewOutput, "out", "o", "", "Path to output payload JSON file (default stdout)")
	previewCmd.Flags().BoolVarP(&previewVerbose, "verbose", "v", false, "Print a summary of the payload")

	if err := previewCmd.MarkFlagRequired("draft"); err != nil {
		panic(fmt.Sprintf("failed to mark draft flag as required: %v", err))
	}

	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, _ []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	cfg := config.Defaults()
	c, err := loadDraftForm(ctx, &cfg, nil, previewDraft)
	if err != nil {
		return err
	}

	state := c.Snapshot()
	payload := form.BuildPayload(state.Profile, state.Sections)

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	data = append(data, '\n')

	out := cmd.OutOrStdout()
	if previewOutput != "" {
		if err := os.WriteFile(previewOutput, data, 0644); err != nil {
			return fmt.Errorf("failed to write payload file: %w", err)
		}
		_, _ = fmt.Fprintf(out, "Payload written to %s\n", previewOutput)
	} else {
		_, _ = out.Write(data)
	}

	schemaErr := schemas.ValidatePayload(payload)
	if previewVerbose {
		printer := observability.NewPrinter(out)
		printer.PrintPayload(state.Profile.EmployeeID, payload)
		printer.PrintSchemaErrors(schemaErr)
	}
	if schemaErr != nil {
		return fmt.Errorf("payload does not match schema: %w", schemaErr)
	}
	return nil
}
