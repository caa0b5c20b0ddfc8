// Package main provides the resume_form CLI: the web form server plus commands
// that drive the same form from a draft file.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_form",
	Short: "Employee resume form",
	Long:  "Collects an employee's profile and resume sections and submits them to the resume details service.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
