package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/jonathan/resume-form/internal/form"
	"github.com/jonathan/resume-form/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

// multiline fields render as textareas.
var multiline = map[string]bool{
	string(types.FieldAboutMe): true,
	"description":              true,
}

var sectionTitles = map[types.SectionName]string{
	types.SectionEducation:   "Education",
	types.SectionWorkHistory: "Work History",
	types.SectionSkills:      "Skills",
	types.SectionProjects:    "Projects",
	types.SectionInterests:   "Interests",
}

var addLabels = map[types.SectionName]string{
	types.SectionEducation:   "+ Add Education",
	types.SectionWorkHistory: "+ Add Work",
	types.SectionSkills:      "+ Add Skill",
	types.SectionProjects:    "+ Add Project",
	types.SectionInterests:   "+ Add Interest",
}

var profileLabels = map[types.ScalarField]string{
	types.FieldFullName:     "Full Name",
	types.FieldEmployeeID:   "Employee ID",
	types.FieldTagline:      "Tagline / Favorite Quote",
	types.FieldAboutMe:      "Short Note About You",
	types.FieldHighlights:   "Highlights (comma-separated)",
	types.FieldProfileImage: "Upload Profile Picture",
	types.FieldAboutImage:   "Upload About Image",
}

// itemLabels are per section; the same field name can read differently.
var itemLabels = map[types.SectionName]map[string]string{
	types.SectionEducation: {
		"institution": "Institution",
		"degree":      "Degree",
		"date":        "Date (e.g. 2017-2021)",
	},
	types.SectionWorkHistory: {
		"company":     "Company",
		"position":    "Position",
		"date":        "Duration",
		"note":        "Note",
		"description": "Description",
	},
	types.SectionSkills: {
		"skill":            "Skill Name",
		"ratingPercentage": "%",
	},
	types.SectionProjects: {
		"title":       "Project Title",
		"duration":    "Duration",
		"subHeading":  "Tech Stack",
		"description": "Description",
	},
	types.SectionInterests: {
		"heading":     "Interest",
		"description": "Description",
	},
}

type fieldView struct {
	Name      string
	Input     string
	ID        string
	Label     string
	Value     string
	Multiline bool
}

type itemView struct {
	Index  int
	Fields []fieldView
}

type sectionView struct {
	Name     types.SectionName
	Title    string
	AddLabel string
	Items    []itemView
}

type imageView struct {
	Name    string
	Label   string
	DataURL string
}

type pageView struct {
	State          form.State
	NoticeMillis   int64
	Profile        []fieldView
	Images         []imageView
	Sections       []sectionView
	SuccessMessage string
	FailureMessage string
}

func parsePage() (*template.Template, error) {
	return template.New("form.html").Funcs(template.FuncMap{
		// Data URLs produced by imagecapture are safe to use as img src.
		"imageURL": func(s string) template.URL {
			if !strings.HasPrefix(s, "data:image/") {
				return ""
			}
			return template.URL(s)
		},
	}).ParseFS(templateFS, "templates/form.html")
}

func newPageView(state form.State, now time.Time) pageView {
	view := pageView{
		State:          state,
		SuccessMessage: form.SubmitSuccessMessage,
		FailureMessage: form.SubmitFailureMessage,
	}
	if state.Notice != nil {
		view.NoticeMillis = max(state.Notice.ExpiresAt.Sub(now).Milliseconds(), 0)
	}

	for _, field := range types.ScalarFields {
		if field.IsImage() {
			view.Images = append(view.Images, imageView{
				Name:    string(field),
				Label:   profileLabel(field),
				DataURL: state.Profile.Get(field),
			})
			continue
		}
		view.Profile = append(view.Profile, fieldView{
			Name:      string(field),
			Input:     string(field),
			ID:        string(field),
			Label:     profileLabel(field),
			Value:     state.Profile.Get(field),
			Multiline: multiline[string(field)],
		})
	}

	for _, section := range types.SectionNames {
		sv := sectionView{Name: section, Title: sectionTitles[section], AddLabel: addLabels[section]}
		for i, item := range state.Sections.Items(section) {
			iv := itemView{Index: i}
			for _, name := range item.FieldNames() {
				value, _ := item.Field(name)
				iv.Fields = append(iv.Fields, fieldView{
					Name:      name,
					Input:     itemInputName(section, i, name),
					ID:        fmt.Sprintf("%s-%d-%s", section, i, name),
					Label:     itemLabel(section, name),
					Value:     value,
					Multiline: multiline[name],
				})
			}
			sv.Items = append(sv.Items, iv)
		}
		view.Sections = append(view.Sections, sv)
	}
	return view
}

func profileLabel(field types.ScalarField) string {
	if label, ok := profileLabels[field]; ok {
		return label
	}
	return fieldLabel(string(field))
}

func itemLabel(section types.SectionName, field string) string {
	if label, ok := itemLabels[section][field]; ok {
		return label
	}
	return fieldLabel(field)
}

// fieldLabel turns a camelCase field name into a label: "ratingPercentage"
// becomes "Rating percentage".
func fieldLabel(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteRune(' ')
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// render writes the form page for state.
func (s *Server) render(w http.ResponseWriter, state form.State) {
	var buf bytes.Buffer
	if err := s.page.Execute(&buf, newPageView(state, time.Now())); err != nil {
		log.Printf("[server] Error rendering form: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}
