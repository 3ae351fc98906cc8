// Package model defines the persisted memory data types.
package model

import "time"

// Category classifies a memory item. The set is closed: every item
// belongs to exactly one of the three categories below.
type Category string

const (
	CategoryPersonalInfo      Category = "personal_info"
	CategoryAreaToImprove     Category = "area_to_improve"
	CategoryKnowledgeStrength Category = "knowledge_strength"
)

// Status is a category-scoped lifecycle label. The valid status sets
// are disjoint per category; see Category.Statuses.
type Status string

const (
	StatusActive     Status = "active"
	StatusOutdated   Status = "outdated"
	StatusStruggling Status = "struggling"
	StatusImproving  Status = "improving"
	StatusMastered   Status = "mastered"
	StatusArchived   Status = "archived"
)

// Categories returns all valid categories.
func Categories() []Category {
	return []Category{CategoryPersonalInfo, CategoryAreaToImprove, CategoryKnowledgeStrength}
}

// Valid reports whether c is one of the closed category set.
func (c Category) Valid() bool {
	switch c {
	case CategoryPersonalInfo, CategoryAreaToImprove, CategoryKnowledgeStrength:
		return true
	}
	return false
}

// Statuses returns the valid status set for the category.
func (c Category) Statuses() []Status {
	switch c {
	case CategoryPersonalInfo:
		return []Status{StatusActive, StatusOutdated}
	case CategoryAreaToImprove:
		return []Status{StatusStruggling, StatusImproving, StatusMastered}
	case CategoryKnowledgeStrength:
		return []Status{StatusActive, StatusArchived}
	}
	return nil
}

// ValidStatus reports whether s is allowed for the category.
func (c Category) ValidStatus(s Status) bool {
	for _, v := range c.Statuses() {
		if v == s {
			return true
		}
	}
	return false
}

// DefaultStatus is the status assigned when a write does not name one.
// The legacy migration relies on these as its per-category defaults.
func (c Category) DefaultStatus() Status {
	switch c {
	case CategoryPersonalInfo:
		return StatusActive
	case CategoryAreaToImprove:
		return StatusStruggling
	case CategoryKnowledgeStrength:
		return StatusActive
	}
	return ""
}

// MemoryItem is one persisted fact about a user. (UserID, Category, Key)
// is unique; writes to the same triple update the row in place.
type MemoryItem struct {
	ID              string    `json:"id"`
	UserID          int64     `json:"user_id"`
	Category        Category  `json:"category"`
	Key             string    `json:"key"`
	Content         string    `json:"content"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	StatusChangedAt time.Time `json:"status_changed_at"`
	Meta            string    `json:"meta,omitempty"`
}

// User carries the fields of the user entity the memory core touches:
// identity plus the three legacy JSON blob columns consumed by the
// one-shot migration.
type User struct {
	ID                       int64  `json:"id"`
	Username                 string `json:"username"`
	LegacyPersonalInfo       string `json:"legacy_personal_info,omitempty"`
	LegacyAreasToImprove     string `json:"legacy_areas_to_improve,omitempty"`
	LegacyKnowledgeStrengths string `json:"legacy_knowledge_strengths,omitempty"`
	MemoryMigrated           bool   `json:"memory_migrated"`
}
