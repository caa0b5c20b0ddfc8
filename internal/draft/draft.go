// Package draft loads a resume form draft from a YAML or JSON file and replays
// it through a form controller.
package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-form/internal/form"
	"github.com/jonathan/resume-form/internal/types"
	"gopkg.in/yaml.v3"
)

// Draft is the file form of a resume. Image fields are file paths, resolved
// relative to the draft file.
type Draft struct {
	FullName     string `json:"fullName" yaml:"fullName"`
	EmployeeID   string `json:"employeeId" yaml:"employeeId"`
	Tagline      string `json:"tagline" yaml:"tagline"`
	AboutMe      string `json:"aboutMe" yaml:"aboutMe"`
	Highlights   string `json:"highlights" yaml:"highlights"`
	ProfileImage string `json:"profileImage,omitempty" yaml:"profileImage,omitempty"`
	AboutImage   string `json:"aboutImage,omitempty" yaml:"aboutImage,omitempty"`

	Sections types.ResumeSections `json:"resumeData" yaml:"resumeData"`

	path string
}

// Error reports a problem applying one part of a draft.
type Error struct {
	Path  string
	Where string
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("draft %s: %s: %v", e.Path, e.Where, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Load reads a draft file. Files ending in .json are parsed as JSON; anything
// else as YAML.
func Load(path string) (*Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read draft %s: %w", path, err)
	}

	var d Draft
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("failed to parse draft JSON: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("failed to parse draft YAML: %w", err)
		}
	}
	d.path = path
	return &d, nil
}

// Apply replays the draft into c using the controller's own operations, so the
// same rules apply as for interactive edits: an item with no fields set blocks
// the items after it.
func (d *Draft) Apply(ctx context.Context, c *form.Controller) error {
	scalars := []struct {
		field types.ScalarField
		value string
	}{
		{types.FieldFullName, d.FullName},
		{types.FieldEmployeeID, d.EmployeeID},
		{types.FieldTagline, d.Tagline},
		{types.FieldAboutMe, d.AboutMe},
		{types.FieldHighlights, d.Highlights},
	}
	for _, s := range scalars {
		if err := c.SetScalarField(s.field, s.value); err != nil {
			return d.fail(string(s.field), err)
		}
	}

	if err := d.applyImage(ctx, c, types.FieldProfileImage, d.ProfileImage); err != nil {
		return err
	}
	if err := d.applyImage(ctx, c, types.FieldAboutImage, d.AboutImage); err != nil {
		return err
	}

	existing := c.Snapshot().Sections
	for _, section := range types.SectionNames {
		base := existing.Len(section)
		for i, item := range d.Sections.Items(section) {
			where := fmt.Sprintf("%s[%d]", section, i)
			if err := c.AddItem(section); err != nil {
				return d.fail(where, err)
			}
			for _, field := range item.FieldNames() {
				value, _ := item.Field(field)
				if value == "" {
					continue
				}
				if err := c.SetSectionField(section, base+i, field, value); err != nil {
					return d.fail(where+"."+field, err)
				}
			}
		}
	}
	return nil
}

func (d *Draft) applyImage(ctx context.Context, c *form.Controller, target types.ScalarField, path string) error {
	if path == "" {
		return nil
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(d.path), path)
	}
	f, err := os.Open(path)
	if err != nil {
		return d.fail(string(target), err)
	}
	defer func() { _ = f.Close() }()

	if err := c.CaptureImage(ctx, target, f); err != nil {
		return d.fail(string(target), err)
	}
	return nil
}

func (d *Draft) fail(where string, err error) error {
	return &Error{Path: d.path, Where: where, Cause: err}
}
