// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-form/internal/form"
	"github.com/jonathan/resume-form/internal/imagecapture"
	"github.com/jonathan/resume-form/internal/schemas"
	"github.com/jonathan/resume-form/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// describeImage summarizes a data URL without printing its contents.
func describeImage(dataURL string) string {
	if dataURL == "" {
		return "(none)"
	}
	mime, data, err := imagecapture.ParseDataURL(dataURL)
	if err != nil {
		return "(unreadable)"
	}
	return fmt.Sprintf("%s, %d bytes", mime, len(data))
}

// PrintPayload outputs a human-readable summary of a submission payload.
func (p *Printer) PrintPayload(employeeID string, payload *types.SubmissionPayload) {
	if payload == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Employee: %s\n", employeeID))
	sb.WriteString(fmt.Sprintf("Name:     %s\n", payload.ProfileData.Name))
	sb.WriteString(fmt.Sprintf("Tagline:  %s\n", payload.ProfileData.Tagline))
	sb.WriteString(fmt.Sprintf("Profile:  %s\n", describeImage(payload.ProfileData.ProfileImagePath)))
	sb.WriteString(fmt.Sprintf("About:    %s\n", describeImage(payload.AboutData.AboutImagePath)))
	sb.WriteString("\n")

	if len(payload.AboutData.Highlights) > 0 {
		sb.WriteString("Highlights:\n")
		count := min(len(payload.AboutData.Highlights), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %q\n", payload.AboutData.Highlights[i]))
		}
		if len(payload.AboutData.Highlights) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(payload.AboutData.Highlights)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Sections:\n")
	for _, section := range types.SectionNames {
		sb.WriteString(fmt.Sprintf("  %-18s %d\n", section+":", payload.ResumeData.Len(section)))
	}

	p.printBox("📤 SUBMISSION PAYLOAD", sb.String())
}

// PrintState outputs the section contents and submission status of a form.
func (p *Printer) PrintState(state form.State) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Status: %s\n", state.Status))
	if state.Notice != nil {
		sb.WriteString(fmt.Sprintf("Notice: %s\n", state.Notice.Message))
	}

	for _, section := range types.SectionNames {
		items := state.Sections.Items(section)
		if len(items) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n%s (%d):\n", section, len(items)))
		count := min(len(items), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, itemSummary(items[i])))
		}
		if len(items) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
		}
	}

	p.printBox("📝 FORM STATE", sb.String())
}

// itemSummary joins the non-empty fields of an item.
func itemSummary(item types.SectionItem) string {
	var parts []string
	for _, name := range item.FieldNames() {
		if value, _ := item.Field(name); value != "" {
			parts = append(parts, value)
		}
	}
	if len(parts) == 0 {
		return "(empty)"
	}
	return strings.Join(parts, " | ")
}

// PrintSchemaErrors outputs payload schema violations, or a success line when
// err is nil.
func (p *Printer) PrintSchemaErrors(err error) {
	if err == nil {
		p.printBox("✅ PAYLOAD VALID", "Payload matches the submission schema.")
		return
	}

	var sb strings.Builder
	var ve *schemas.ValidationError
	if errors.As(err, &ve) {
		for i, fe := range ve.Errors {
			sb.WriteString(fmt.Sprintf("%d. %s: %s\n", i+1, fe.Field, fe.Message))
		}
	} else {
		sb.WriteString(err.Error())
	}
	p.printBox("⚠️ PAYLOAD INVALID", sb.String())
}
