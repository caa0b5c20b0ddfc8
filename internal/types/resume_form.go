// Package types provides type definitions for the structured data exchanged by the resume form.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "fmt"

// ScalarField names one of the single-valued form fields.
type ScalarField string

// Scalar fields of the profile.
const (
	FieldFullName     ScalarField = "fullName"
	FieldEmployeeID   ScalarField = "employeeId"
	FieldTagline      ScalarField = "tagline"
	FieldAboutMe      ScalarField = "aboutMe"
	FieldHighlights   ScalarField = "highlights"
	FieldProfileImage ScalarField = "profileImage"
	FieldAboutImage   ScalarField = "aboutImage"
)

// ScalarFields lists every scalar field in display order.
var ScalarFields = []ScalarField{
	FieldFullName,
	FieldEmployeeID,
	FieldTagline,
	FieldAboutMe,
	FieldHighlights,
	FieldProfileImage,
	FieldAboutImage,
}

// ParseScalarField returns the ScalarField for name, or false if unknown.
func ParseScalarField(name string) (ScalarField, bool) {
	for _, f := range ScalarFields {
		if string(f) == name {
			return f, true
		}
	}
	return "", false
}

// IsImage reports whether the field holds an image data URL.
func (f ScalarField) IsImage() bool {
	return f == FieldProfileImage || f == FieldAboutImage
}

// ScalarProfile holds the personal and about-me fields of the form.
// Images are data URLs; empty means absent.
type ScalarProfile struct {
	FullName      string `json:"fullName" yaml:"fullName"`
	EmployeeID    string `json:"employeeId" yaml:"employeeId"`
	Tagline       string `json:"tagline" yaml:"tagline"`
	AboutMe       string `json:"aboutMe" yaml:"aboutMe"`
	HighlightsRaw string `json:"highlights" yaml:"highlights"`
	ProfileImage  string `json:"profileImage,omitempty" yaml:"-"`
	AboutImage    string `json:"aboutImage,omitempty" yaml:"-"`
}

// Get returns the value of a scalar field.
func (p *ScalarProfile) Get(field ScalarField) string {
	switch field {
	case FieldFullName:
		return p.FullName
	case FieldEmployeeID:
		return p.EmployeeID
	case FieldTagline:
		return p.Tagline
	case FieldAboutMe:
		return p.AboutMe
	case FieldHighlights:
		return p.HighlightsRaw
	case FieldProfileImage:
		return p.ProfileImage
	case FieldAboutImage:
		return p.AboutImage
	}
	return ""
}

// Set replaces the value of a scalar field.
func (p *ScalarProfile) Set(field ScalarField, value string) error {
	switch field {
	case FieldFullName:
		p.FullName = value
	case FieldEmployeeID:
		p.EmployeeID = value
	case FieldTagline:
		p.Tagline = value
	case FieldAboutMe:
		p.AboutMe = value
	case FieldHighlights:
		p.HighlightsRaw = value
	case FieldProfileImage:
		p.ProfileImage = value
	case FieldAboutImage:
		p.AboutImage = value
	default:
		return fmt.Errorf("unknown scalar field %q", field)
	}
	return nil
}

// AboutData is the about-me block of the submission payload.
type AboutData struct {
	AboutMe        string   `json:"aboutMe"`
	Highlights     []string `json:"highlights"`
	AboutImagePath string   `json:"aboutImagePath"`
}

// ProfileData is the header block of the submission payload.
type ProfileData struct {
	Name             string `json:"name"`
	Tagline          string `json:"tagline"`
	ProfileImagePath string `json:"profileImagePath"`
}

// SubmissionPayload is the JSON document posted to the resume service.
type SubmissionPayload struct {
	AboutData   AboutData      `json:"aboutData"`
	ProfileData ProfileData    `json:"profileData"`
	ResumeData  ResumeSections `json:"resumeData"`
}
