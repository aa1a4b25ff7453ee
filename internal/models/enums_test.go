package models

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnumLabels_Exhaustive(t *testing.T) {
	for _, e := range AllEducationLevels() {
		assert.True(t, e.Valid())
		assert.NotEmpty(t, e.Label(), "education level %s", e)
	}
	for _, s := range AllScholarshipTypes() {
		assert.True(t, s.Valid())
		assert.NotEmpty(t, s.Label(), "scholarship type %s", s)
	}
	for _, b := range AllIncomeBrackets() {
		assert.True(t, b.Valid())
		assert.NotEmpty(t, b.Label(), "income bracket %s", b)
	}
	for _, r := range AllRoles() {
		assert.True(t, r.Valid())
		assert.NotEmpty(t, r.Label(), "role %s", r)
	}
	for _, s := range AllDraftSteps() {
		assert.True(t, s.Valid())
		assert.NotEmpty(t, s.Label(), "step %d", s)
	}
}

func TestEnumLabels_Unknown(t *testing.T) {
	assert.False(t, EducationLevel("doutoramento").Valid())
	assert.False(t, ScholarshipType("desporto").Valid())
	assert.False(t, IncomeBracket("1000000").Valid())
	assert.False(t, Role("root").Valid())
	assert.False(t, DraftStep(0).Valid())
	assert.False(t, DraftStep(7).Valid())
}

func TestEmploymentLabel(t *testing.T) {
	assert.Equal(t, "Trabalhador Autónomo", EmploymentLabel(EmploymentAutonomo))
	assert.Equal(t, "estudante", EmploymentLabel("estudante"))
}

func TestProvinces(t *testing.T) {
	list := Provinces()
	assert.Len(t, list, 18)
	assert.True(t, sort.StringsAreSorted(list))

	for _, p := range list {
		assert.True(t, IsProvince(p), p)
	}
	assert.False(t, IsProvince("Lisboa"))
	assert.False(t, IsProvince("luanda"))

	// callers get a copy
	list[0] = "Lisboa"
	assert.Equal(t, "Bengo", Provinces()[0])
}
