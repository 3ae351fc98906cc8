package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/linguamem/linguamem/internal/model"
	"github.com/linguamem/linguamem/internal/store"
)

// Markers wrapping the serialized snapshot so the agent's surrounding
// free text can embed it unambiguously, and the sentinel emitted when
// the user has no items at all.
const (
	StudentInfoStart = "<<<STUDENT_INFO>>>"
	StudentInfoEnd   = "<<<END_STUDENT_INFO>>>"
	NoStudentInfo    = "No student information found."
)

// snapshotSlot is one bounded list call of the budgeted retrieval.
// Slots run in priority order with asymmetric caps: struggling and
// improving areas drive tutoring decisions, so they get the larger
// allotment; a later slot can never crowd out an earlier one.
type snapshotSlot struct {
	category model.Category
	status   model.Status
	limit    int
}

var studentInfoSlots = []snapshotSlot{
	{model.CategoryPersonalInfo, model.StatusActive, 10},
	{model.CategoryAreaToImprove, model.StatusStruggling, 25},
	{model.CategoryAreaToImprove, model.StatusImproving, 25},
}

// SnapshotEntry is one item in the context-injectable snapshot.
type SnapshotEntry struct {
	Key     string       `json:"key"`
	Content string       `json:"content"`
	Status  model.Status `json:"status"`
}

// StudentSnapshot groups the retrieved entries per category. Categories
// with no matching items are omitted from the serialized form.
type StudentSnapshot struct {
	PersonalInfo   []SnapshotEntry `json:"personal_info,omitempty"`
	AreasToImprove []SnapshotEntry `json:"areas_to_improve,omitempty"`
}

// Empty reports whether no slot matched anything.
func (sn *StudentSnapshot) Empty() bool {
	return len(sn.PersonalInfo) == 0 && len(sn.AreasToImprove) == 0
}

// StudentInfo assembles the budgeted snapshot for starting a
// conversation. Returns ErrNoItems when the user has nothing stored.
func (s *Service) StudentInfo(ctx context.Context, userID int64) (*StudentSnapshot, error) {
	var sn StudentSnapshot
	for _, slot := range studentInfoSlots {
		items, err := s.store.List(ctx, store.ListParams{
			UserID:   userID,
			Category: slot.category,
			Status:   slot.status,
			Limit:    slot.limit,
		})
		if err != nil {
			return nil, fmt.Errorf("list %s/%s: %w", slot.category, slot.status, err)
		}
		for _, item := range items {
			entry := SnapshotEntry{Key: item.Key, Content: item.Content, Status: item.Status}
			switch slot.category {
			case model.CategoryPersonalInfo:
				sn.PersonalInfo = append(sn.PersonalInfo, entry)
			case model.CategoryAreaToImprove:
				sn.AreasToImprove = append(sn.AreasToImprove, entry)
			}
		}
	}
	if sn.Empty() {
		return nil, ErrNoItems
	}
	return &sn, nil
}

// StartStudentInfo renders the snapshot as a delimited block, or the
// no-items sentinel, ready to hand back to the agent verbatim.
func (s *Service) StartStudentInfo(ctx context.Context, userID int64) (string, error) {
	sn, err := s.StudentInfo(ctx, userID)
	if err == ErrNoItems {
		return NoStudentInfo, nil
	}
	if err != nil {
		return "", err
	}
	b, err := json.MarshalIndent(sn, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize snapshot: %w", err)
	}
	return StudentInfoStart + "\n" + string(b) + "\n" + StudentInfoEnd, nil
}
