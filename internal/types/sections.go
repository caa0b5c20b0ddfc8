package types

import (
	"encoding/json"
	"fmt"
)

// SectionName identifies one of the repeatable resume sections.
type SectionName string

// Resume sections in display order.
const (
	SectionEducation   SectionName = "education"
	SectionWorkHistory SectionName = "workHistory"
	SectionSkills      SectionName = "skills"
	SectionProjects    SectionName = "projectDetails"
	SectionInterests   SectionName = "interestsDetails"
)

// SectionNames lists every section in display order.
var SectionNames = []SectionName{
	SectionEducation,
	SectionWorkHistory,
	SectionSkills,
	SectionProjects,
	SectionInterests,
}

// ParseSectionName returns the SectionName for name, or an error if unknown.
func ParseSectionName(name string) (SectionName, error) {
	for _, s := range SectionNames {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown section %q", name)
}

// SectionItem is one entry of a section. Each section has its own variant
// with a fixed field set; fields are addressed by their JSON names.
type SectionItem interface {
	Section() SectionName
	FieldNames() []string
	Field(name string) (string, bool)
	SetField(name, value string) error
	IsEmpty() bool
	Clone() SectionItem
}

// NewItem returns an empty item of the variant used by section.
func NewItem(section SectionName) (SectionItem, error) {
	switch section {
	case SectionEducation:
		return &EducationItem{}, nil
	case SectionWorkHistory:
		return &WorkHistoryItem{}, nil
	case SectionSkills:
		return &SkillItem{}, nil
	case SectionProjects:
		return &ProjectItem{}, nil
	case SectionInterests:
		return &InterestItem{}, nil
	}
	return nil, fmt.Errorf("unknown section %q", section)
}

// fieldSlot pairs a field name with its storage.
type fieldSlot struct {
	name string
	ptr  *string
}

func slotNames(slots []fieldSlot) []string {
	names := make([]string, len(slots))
	for i, s := range slots {
		names[i] = s.name
	}
	return names
}

func slotGet(slots []fieldSlot, name string) (string, bool) {
	for _, s := range slots {
		if s.name == name {
			return *s.ptr, true
		}
	}
	return "", false
}

func slotSet(section SectionName, slots []fieldSlot, name, value string) error {
	for _, s := range slots {
		if s.name == name {
			*s.ptr = value
			return nil
		}
	}
	return fmt.Errorf("section %s has no field %q", section, name)
}

func slotsEmpty(slots []fieldSlot) bool {
	for _, s := range slots {
		if *s.ptr != "" {
			return false
		}
	}
	return true
}

// EducationItem is an entry of the education section.
type EducationItem struct {
	Institution string `json:"institution,omitempty" yaml:"institution,omitempty"`
	Degree      string `json:"degree,omitempty" yaml:"degree,omitempty"`
	Date        string `json:"date,omitempty" yaml:"date,omitempty"`
}

func (e *EducationItem) slots() []fieldSlot {
	return []fieldSlot{
		{"institution", &e.Institution},
		{"degree", &e.Degree},
		{"date", &e.Date},
	}
}

func (e *EducationItem) Section() SectionName { return SectionEducation }
func (e *EducationItem) FieldNames() []string { return slotNames(e.slots()) }
func (e *EducationItem) Field(name string) (string, bool) { return slotGet(e.slots(), name) }
func (e *EducationItem) SetField(name, value string) error {
	return slotSet(SectionEducation, e.slots(), name, value)
}
func (e *EducationItem) IsEmpty() bool { return slotsEmpty(e.slots()) }
func (e *EducationItem) Clone() SectionItem {
	c := *e
	return &c
}

// WorkHistoryItem is an entry of the work history section.
// Date holds the free-form duration text.
type WorkHistoryItem struct {
	Company     string `json:"company,omitempty" yaml:"company,omitempty"`
	Position    string `json:"position,omitempty" yaml:"position,omitempty"`
	Date        string `json:"date,omitempty" yaml:"date,omitempty"`
	Note        string `json:"note,omitempty" yaml:"note,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

func (w *WorkHistoryItem) slots() []fieldSlot {
	return []fieldSlot{
		{"company", &w.Company},
		{"position", &w.Position},
		{"date", &w.Date},
		{"note", &w.Note},
		{"description", &w.Description},
	}
}

func (w *WorkHistoryItem) Section() SectionName { return SectionWorkHistory }
func (w *WorkHistoryItem) FieldNames() []string { return slotNames(w.slots()) }
func (w *WorkHistoryItem) Field(name string) (string, bool) { return slotGet(w.slots(), name) }
func (w *WorkHistoryItem) SetField(name, value string) error {
	return slotSet(SectionWorkHistory, w.slots(), name, value)
}
func (w *WorkHistoryItem) IsEmpty() bool { return slotsEmpty(w.slots()) }
func (w *WorkHistoryItem) Clone() SectionItem {
	c := *w
	return &c
}

// SkillItem is an entry of the skills section. RatingPercentage is kept as
// entered; it is not required to be numeric.
type SkillItem struct {
	Skill            string `json:"skill,omitempty" yaml:"skill,omitempty"`
	RatingPercentage string `json:"ratingPercentage,omitempty" yaml:"ratingPercentage,omitempty"`
}

func (s *SkillItem) slots() []fieldSlot {
	return []fieldSlot{
		{"skill", &s.Skill},
		{"ratingPercentage", &s.RatingPercentage},
	}
}

func (s *SkillItem) Section() SectionName { return SectionSkills }
func (s *SkillItem) FieldNames() []string { return slotNames(s.slots()) }
func (s *SkillItem) Field(name string) (string, bool) { return slotGet(s.slots(), name) }
func (s *SkillItem) SetField(name, value string) error {
	return slotSet(SectionSkills, s.slots(), name, value)
}
func (s *SkillItem) IsEmpty() bool { return slotsEmpty(s.slots()) }
func (s *SkillItem) Clone() SectionItem {
	c := *s
	return &c
}

// ProjectItem is an entry of the project details section.
// SubHeading carries the tech stack line.
type ProjectItem struct {
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Duration    string `json:"duration,omitempty" yaml:"duration,omitempty"`
	SubHeading  string `json:"subHeading,omitempty" yaml:"subHeading,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

func (p *ProjectItem) slots() []fieldSlot {
	return []fieldSlot{
		{"title", &p.Title},
		{"duration", &p.Duration},
		{"subHeading", &p.SubHeading},
		{"description", &p.Description},
	}
}

func (p *ProjectItem) Section() SectionName { return SectionProjects }
func (p *ProjectItem) FieldNames() []string { return slotNames(p.slots()) }
func (p *ProjectItem) Field(name string) (string, bool) { return slotGet(p.slots(), name) }
func (p *ProjectItem) SetField(name, value string) error {
	return slotSet(SectionProjects, p.slots(), name, value)
}
func (p *ProjectItem) IsEmpty() bool { return slotsEmpty(p.slots()) }
func (p *ProjectItem) Clone() SectionItem {
	c := *p
	return &c
}

// InterestItem is an entry of the interests section.
type InterestItem struct {
	Heading     string `json:"heading,omitempty" yaml:"heading,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

func (i *InterestItem) slots() []fieldSlot {
	return []fieldSlot{
		{"heading", &i.Heading},
		{"description", &i.Description},
	}
}

func (i *InterestItem) Section() SectionName { return SectionInterests }
func (i *InterestItem) FieldNames() []string { return slotNames(i.slots()) }
func (i *InterestItem) Field(name string) (string, bool) { return slotGet(i.slots(), name) }
func (i *InterestItem) SetField(name, value string) error {
	return slotSet(SectionInterests, i.slots(), name, value)
}
func (i *InterestItem) IsEmpty() bool { return slotsEmpty(i.slots()) }
func (i *InterestItem) Clone() SectionItem {
	c := *i
	return &c
}

// ResumeSections holds the ordered items of every section.
type ResumeSections struct {
	Education        []EducationItem   `json:"education" yaml:"education,omitempty"`
	WorkHistory      []WorkHistoryItem `json:"workHistory" yaml:"workHistory,omitempty"`
	Skills           []SkillItem       `json:"skills" yaml:"skills,omitempty"`
	ProjectDetails   []ProjectItem     `json:"projectDetails" yaml:"projectDetails,omitempty"`
	InterestsDetails []InterestItem    `json:"interestsDetails" yaml:"interestsDetails,omitempty"`
}

// MarshalJSON encodes missing sections as empty arrays rather than null.
func (r ResumeSections) MarshalJSON() ([]byte, error) {
	type plain ResumeSections
	out := plain(r.Clone())
	if out.Education == nil {
		out.Education = []EducationItem{}
	}
	if out.WorkHistory == nil {
		out.WorkHistory = []WorkHistoryItem{}
	}
	if out.Skills == nil {
		out.Skills = []SkillItem{}
	}
	if out.ProjectDetails == nil {
		out.ProjectDetails = []ProjectItem{}
	}
	if out.InterestsDetails == nil {
		out.InterestsDetails = []InterestItem{}
	}
	return json.Marshal(out)
}

// Len returns the number of items in section.
func (r *ResumeSections) Len(section SectionName) int {
	switch section {
	case SectionEducation:
		return len(r.Education)
	case SectionWorkHistory:
		return len(r.WorkHistory)
	case SectionSkills:
		return len(r.Skills)
	case SectionProjects:
		return len(r.ProjectDetails)
	case SectionInterests:
		return len(r.InterestsDetails)
	}
	return 0
}

// Items returns copies of the items in section, in order.
func (r *ResumeSections) Items(section SectionName) []SectionItem {
	var items []SectionItem
	switch section {
	case SectionEducation:
		for i := range r.Education {
			items = append(items, r.Education[i].Clone())
		}
	case SectionWorkHistory:
		for i := range r.WorkHistory {
			items = append(items, r.WorkHistory[i].Clone())
		}
	case SectionSkills:
		for i := range r.Skills {
			items = append(items, r.Skills[i].Clone())
		}
	case SectionProjects:
		for i := range r.ProjectDetails {
			items = append(items, r.ProjectDetails[i].Clone())
		}
	case SectionInterests:
		for i := range r.InterestsDetails {
			items = append(items, r.InterestsDetails[i].Clone())
		}
	}
	return items
}

// Replace installs a fresh slice built from items as the content of section.
// Every item must be the variant of section.
func (r *ResumeSections) Replace(section SectionName, items []SectionItem) error {
	var err error
	switch section {
	case SectionEducation:
		r.Education, err = collect[EducationItem](section, items, r.Education)
	case SectionWorkHistory:
		r.WorkHistory, err = collect[WorkHistoryItem](section, items, r.WorkHistory)
	case SectionSkills:
		r.Skills, err = collect[SkillItem](section, items, r.Skills)
	case SectionProjects:
		r.ProjectDetails, err = collect[ProjectItem](section, items, r.ProjectDetails)
	case SectionInterests:
		r.InterestsDetails, err = collect[InterestItem](section, items, r.InterestsDetails)
	default:
		return fmt.Errorf("unknown section %q", section)
	}
	return err
}

// collect copies items into a new slice, returning current unchanged on error.
func collect[T any, PT interface {
	*T
	SectionItem
}](section SectionName, items []SectionItem, current []T) ([]T, error) {
	out := make([]T, 0, len(items))
	for i, item := range items {
		v, ok := item.(PT)
		if !ok || v == nil {
			return current, fmt.Errorf("item %d is not a %s item", i, section)
		}
		out = append(out, *v)
	}
	return out, nil
}

// Clone returns a copy that shares no slices with r.
func (r ResumeSections) Clone() ResumeSections {
	return ResumeSections{
		Education:        cloneSlice(r.Education),
		WorkHistory:      cloneSlice(r.WorkHistory),
		Skills:           cloneSlice(r.Skills),
		ProjectDetails:   cloneSlice(r.ProjectDetails),
		InterestsDetails: cloneSlice(r.InterestsDetails),
	}
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
