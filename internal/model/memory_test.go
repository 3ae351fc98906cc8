package model

import "testing"

func TestStatusValidity(t *testing.T) {
	cases := []struct {
		category Category
		status   Status
		want     bool
	}{
		{CategoryPersonalInfo, StatusActive, true},
		{CategoryPersonalInfo, StatusOutdated, true},
		{CategoryPersonalInfo, StatusStruggling, false},
		{CategoryAreaToImprove, StatusStruggling, true},
		{CategoryAreaToImprove, StatusImproving, true},
		{CategoryAreaToImprove, StatusMastered, true},
		{CategoryAreaToImprove, StatusActive, false},
		{CategoryKnowledgeStrength, StatusActive, true},
		{CategoryKnowledgeStrength, StatusArchived, true},
		{CategoryKnowledgeStrength, StatusMastered, false},
	}
	for _, c := range cases {
		if got := c.category.ValidStatus(c.status); got != c.want {
			t.Errorf("ValidStatus(%s, %s) = %v, want %v", c.category, c.status, got, c.want)
		}
	}
}

func TestDefaultStatusIsValid(t *testing.T) {
	for _, c := range Categories() {
		def := c.DefaultStatus()
		if def == "" {
			t.Errorf("category %s has no default status", c)
		}
		if !c.ValidStatus(def) {
			t.Errorf("default status %s not valid for %s", def, c)
		}
	}
}

func TestInvalidCategory(t *testing.T) {
	if Category("vocabulary").Valid() {
		t.Error("expected 'vocabulary' to be invalid")
	}
	if Category("vocabulary").DefaultStatus() != "" {
		t.Error("expected empty default for invalid category")
	}
}
