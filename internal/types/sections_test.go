package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSectionName(t *testing.T) {
	for _, name := range SectionNames {
		got, err := ParseSectionName(string(name))
		require.NoError(t, err)
		assert.Equal(t, name, got)
	}

	_, err := ParseSectionName("hobbies")
	assert.Error(t, err)
}

func TestNewItem_VariantPerSection(t *testing.T) {
	tests := []struct {
		section SectionName
		fields  []string
	}{
		{SectionEducation, []string{"institution", "degree", "date"}},
		{SectionWorkHistory, []string{"company", "position", "date", "note", "description"}},
		{SectionSkills, []string{"skill", "ratingPercentage"}},
		{SectionProjects, []string{"title", "duration", "subHeading", "description"}},
		{SectionInterests, []string{"heading", "description"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.section), func(t *testing.T) {
			item, err := NewItem(tt.section)
			require.NoError(t, err)
			assert.Equal(t, tt.section, item.Section())
			assert.Equal(t, tt.fields, item.FieldNames())
			assert.True(t, item.IsEmpty())
		})
	}
}

func TestSectionItem_SetField(t *testing.T) {
	item := &WorkHistoryItem{}

	require.NoError(t, item.SetField("company", "Acme"))
	assert.Equal(t, "Acme", item.Company)
	assert.False(t, item.IsEmpty())

	got, ok := item.Field("company")
	assert.True(t, ok)
	assert.Equal(t, "Acme", got)

	err := item.SetField("salary", "lots")
	assert.Error(t, err)
	_, ok = item.Field("salary")
	assert.False(t, ok)
}

func TestSectionItem_WhitespaceIsNotEmpty(t *testing.T) {
	item := &SkillItem{Skill: " "}
	assert.False(t, item.IsEmpty())
}

func TestSectionItem_CloneIsIndependent(t *testing.T) {
	orig := &EducationItem{Institution: "MIT"}
	clone := orig.Clone()
	require.NoError(t, clone.SetField("institution", "CMU"))
	assert.Equal(t, "MIT", orig.Institution)
}

func TestResumeSections_ItemsAndReplace(t *testing.T) {
	var r ResumeSections
	r.Skills = []SkillItem{{Skill: "Go"}, {Skill: "SQL"}}

	items := r.Items(SectionSkills)
	require.Len(t, items, 2)

	// Mutating the returned copies leaves r untouched.
	require.NoError(t, items[0].SetField("skill", "Rust"))
	assert.Equal(t, "Go", r.Skills[0].Skill)

	require.NoError(t, r.Replace(SectionSkills, items[:1]))
	assert.Equal(t, []SkillItem{{Skill: "Rust"}}, r.Skills)
	assert.Equal(t, 1, r.Len(SectionSkills))
}

func TestResumeSections_ReplaceRejectsWrongVariant(t *testing.T) {
	r := ResumeSections{Skills: []SkillItem{{Skill: "Go"}}}

	err := r.Replace(SectionSkills, []SectionItem{&InterestItem{Heading: "Chess"}})
	require.Error(t, err)
	assert.Equal(t, []SkillItem{{Skill: "Go"}}, r.Skills)
}

func TestResumeSections_ReplaceEverySection(t *testing.T) {
	for _, section := range SectionNames {
		t.Run(string(section), func(t *testing.T) {
			var r ResumeSections
			first, err := NewItem(section)
			require.NoError(t, err)
			field := first.FieldNames()[0]
			require.NoError(t, first.SetField(field, "one"))
			second, err := NewItem(section)
			require.NoError(t, err)

			require.NoError(t, r.Replace(section, []SectionItem{first, second}))
			items := r.Items(section)
			require.Len(t, items, 2)
			value, _ := items[0].Field(field)
			assert.Equal(t, "one", value)
			assert.True(t, items[1].IsEmpty())

			require.NoError(t, r.Replace(section, nil))
			assert.Equal(t, 0, r.Len(section))
		})
	}

	var r ResumeSections
	assert.Error(t, r.Replace(SectionName("hobbies"), nil))
}

func TestResumeSections_MarshalJSONClearedField(t *testing.T) {
	item := &EducationItem{}
	require.NoError(t, item.SetField("institution", "MIT"))
	require.NoError(t, item.SetField("institution", ""))

	r := ResumeSections{Education: []EducationItem{*item}}
	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"education":[{}]`)
}

func TestResumeSections_MarshalJSON(t *testing.T) {
	r := ResumeSections{Education: []EducationItem{{}}}

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"education": [{}],
		"workHistory": [],
		"skills": [],
		"projectDetails": [],
		"interestsDetails": []
	}`, string(data))
}

func TestScalarProfile_SetGet(t *testing.T) {
	var p ScalarProfile
	for _, f := range ScalarFields {
		require.NoError(t, p.Set(f, "v-"+string(f)))
		assert.Equal(t, "v-"+string(f), p.Get(f))
	}
	assert.Error(t, p.Set(ScalarField("nickname"), "x"))
}

func TestParseScalarField(t *testing.T) {
	f, ok := ParseScalarField("employeeId")
	assert.True(t, ok)
	assert.Equal(t, FieldEmployeeID, f)
	assert.False(t, f.IsImage())
	assert.True(t, FieldAboutImage.IsImage())

	_, ok = ParseScalarField("nickname")
	assert.False(t, ok)
}
