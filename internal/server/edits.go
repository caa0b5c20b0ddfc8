package server

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/jonathan/resume-form/internal/form"
	"github.com/jonathan/resume-form/internal/types"
)

// edit is one posted text value. Scalar edits leave Section empty.
type edit struct {
	Section types.SectionName
	Index   int
	Field   string
	Value   string
}

// itemInputName is the form key of one item field, e.g. "education.0.degree".
func itemInputName(section types.SectionName, index int, field string) string {
	return fmt.Sprintf("%s.%d.%s", section, index, field)
}

// parseEdit resolves a posted key to a text field of the profile or of a
// section item.
func parseEdit(key, value string) (edit, error) {
	if field, ok := types.ParseScalarField(key); ok {
		if field.IsImage() {
			return edit{}, &form.FieldError{Field: key}
		}
		return edit{Field: key, Value: value}, nil
	}

	parts := strings.SplitN(key, ".", 3)
	if len(parts) != 3 {
		return edit{}, &form.FieldError{Field: key}
	}
	section, err := types.ParseSectionName(parts[0])
	if err != nil {
		return edit{}, &form.FieldError{Field: key}
	}
	index, err := strconv.Atoi(parts[1])
	if err != nil || index < 0 {
		return edit{}, &ErrValidation{Field: key, Message: "item index"}
	}
	item, err := types.NewItem(section)
	if err != nil {
		return edit{}, err
	}
	if _, ok := item.Field(parts[2]); !ok {
		return edit{}, &form.FieldError{Section: section, Field: parts[2]}
	}
	return edit{Section: section, Index: index, Field: parts[2], Value: value}, nil
}

// parseEdits reads every text field posted with a form action. Nothing is
// applied when any key is unknown.
func parseEdits(r *http.Request) ([]edit, error) {
	if err := r.ParseForm(); err != nil {
		return nil, &ErrValidation{Field: "body", Message: err.Error()}
	}

	edits := make([]edit, 0, len(r.PostForm))
	for key := range r.PostForm {
		e, err := parseEdit(key, r.PostForm.Get(key))
		if err != nil {
			return nil, err
		}
		edits = append(edits, e)
	}
	sort.Slice(edits, func(i, j int) bool {
		a, b := edits[i], edits[j]
		if a.Section != b.Section {
			return a.Section < b.Section
		}
		if a.Index != b.Index {
			return a.Index < b.Index
		}
		return a.Field < b.Field
	})
	return edits, nil
}

// applyEdits stores the text fields posted alongside an action, so values
// typed on the page are in place before the action runs.
func applyEdits(c *form.Controller, r *http.Request) error {
	edits, err := parseEdits(r)
	if err != nil {
		return err
	}
	for _, e := range edits {
		if e.Section == "" {
			err = c.SetScalarField(types.ScalarField(e.Field), e.Value)
		} else {
			err = c.SetSectionField(e.Section, e.Index, e.Field, e.Value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
