package form

import (
	"errors"
	"fmt"

	"github.com/jonathan/resume-form/internal/types"
)

var (
	// ErrIncompleteItem is returned by AddItem while the last item of the
	// section is still empty.
	ErrIncompleteItem = errors.New("last item is incomplete")

	// ErrSubmitInProgress is returned by Submit while a submission is in flight.
	ErrSubmitInProgress = errors.New("submission already in progress")

	// ErrSubmitFailed wraps every submission failure returned by Submit.
	ErrSubmitFailed = errors.New("submission failed")

	// ErrUnknownSection is wrapped when a section name is not recognised.
	ErrUnknownSection = errors.New("unknown section")
)

// IndexError reports an item index outside the current bounds of a section.
type IndexError struct {
	Section types.SectionName
	Index   int
	Len     int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range for section %s (len %d)", e.Index, e.Section, e.Len)
}

// FieldError reports a field name that does not exist on the target.
// Section is empty for scalar fields.
type FieldError struct {
	Section types.SectionName
	Field   string
}

func (e *FieldError) Error() string {
	if e.Section == "" {
		return fmt.Sprintf("unknown field %q", e.Field)
	}
	return fmt.Sprintf("section %s has no field %q", e.Section, e.Field)
}
