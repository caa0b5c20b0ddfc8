package main

import (
	"fmt"
	"os"

	"github.com/jonathan/resume-form/internal/observability"
	"github.com/jonathan/resume-form/internal/schemas"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a payload JSON file against the submission schema",
	Long:  "Checks a submission payload, such as one written by preview --out, against the embedded JSON Schema.",
	RunE:  runValidate,
}

var validateInput string

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "in", "i", "", "Path to payload JSON file (required)")

	if err := validateCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	if _, err := os.Stat(validateInput); os.IsNotExist(err) {
		return fmt.Errorf("payload file not found: %s", validateInput)
	}

	err := schemas.ValidatePayloadFile(validateInput)
	observability.NewPrinter(cmd.OutOrStdout()).PrintSchemaErrors(err)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}
