package form

import (
	"strings"

	"github.com/jonathan/resume-form/internal/types"
)

// SplitHighlights splits the comma-separated highlights field and trims each
// entry. Empty entries are kept, so "A,,B" yields ["A", "", "B"] and an empty
// input yields [""].
func SplitHighlights(raw string) []string {
	parts := strings.Split(raw, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// DisplayName is the name sent to the resume service: the full name with " !"
// appended.
func DisplayName(fullName string) string {
	return fullName + " !"
}

// BuildPayload assembles the submission payload from the profile and sections.
// The sections are copied; the payload shares no slices with the inputs.
func BuildPayload(profile types.ScalarProfile, sections types.ResumeSections) *types.SubmissionPayload {
	return &types.SubmissionPayload{
		AboutData: types.AboutData{
			AboutMe:        profile.AboutMe,
			Highlights:     SplitHighlights(profile.HighlightsRaw),
			AboutImagePath: profile.AboutImage,
		},
		ProfileData: types.ProfileData{
			Name:             DisplayName(profile.FullName),
			Tagline:          profile.Tagline,
			ProfileImagePath: profile.ProfileImage,
		},
		ResumeData: sections.Clone(),
	}
}
