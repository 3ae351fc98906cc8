package service

import (
	"context"
	"testing"

	"github.com/linguamem/linguamem/internal/model"
	"github.com/linguamem/linguamem/internal/store"
)

func TestMigrateLegacy(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)

	st.SaveUser(ctx, model.User{
		ID:                       1,
		Username:                 "maria",
		LegacyPersonalInfo:       `{"name":"Maria","city":"Porto"}`,
		LegacyAreasToImprove:     `{"past_tense":"mixes up preterite endings"}`,
		LegacyKnowledgeStrengths: `{"greetings":{"level":"solid","examples":["olá","bom dia"]}}`,
	})

	report, err := svc.MigrateLegacy(ctx, st)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if report.Users != 1 {
		t.Errorf("users = %d, want 1", report.Users)
	}
	if report.Items != 4 {
		t.Errorf("items = %d, want 4", report.Items)
	}
	if report.Skipped != 0 {
		t.Errorf("skipped = %d, want 0", report.Skipped)
	}

	// Category defaults are inferred per category.
	area, err := st.Get(ctx, store.GetParams{UserID: 1, Category: model.CategoryAreaToImprove, Key: "past_tense"})
	if err != nil {
		t.Fatalf("get migrated item: %v", err)
	}
	if area.Status != model.StatusStruggling {
		t.Errorf("area status = %q, want struggling default", area.Status)
	}
	personal, _ := st.Get(ctx, store.GetParams{UserID: 1, Category: model.CategoryPersonalInfo, Key: "name"})
	if personal.Status != model.StatusActive {
		t.Errorf("personal status = %q, want active default", personal.Status)
	}

	// Structured legacy values survive as JSON content.
	strength, _ := st.Get(ctx, store.GetParams{UserID: 1, Category: model.CategoryKnowledgeStrength, Key: "greetings"})
	if strength.Content == "" || strength.Content[0] != '{' {
		t.Errorf("structured value not preserved: %q", strength.Content)
	}
}

func TestMigrateLegacySkipsMalformed(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)

	st.SaveUser(ctx, model.User{
		ID:                   1,
		LegacyPersonalInfo:   `not json at all`,
		LegacyAreasToImprove: `{"past_tense":"still real data"}`,
	})

	report, err := svc.MigrateLegacy(ctx, st)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if report.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", report.Skipped)
	}
	if report.Items != 1 {
		t.Errorf("items = %d, want 1 (other blobs still migrate)", report.Items)
	}
	if report.Users != 1 {
		t.Errorf("users = %d, want 1 (malformed field does not abort user)", report.Users)
	}
}

func TestMigrateLegacyIsOneShot(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)

	st.SaveUser(ctx, model.User{ID: 1, LegacyPersonalInfo: `{"name":"Maria"}`})

	if _, err := svc.MigrateLegacy(ctx, st); err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := svc.MigrateLegacy(ctx, st)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Users != 0 || second.Items != 0 {
		t.Errorf("second run migrated again: %+v", second)
	}
}

func TestMigrateLegacyEmptyBlobs(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)

	st.SaveUser(ctx, model.User{ID: 1})

	report, err := svc.MigrateLegacy(ctx, st)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if report.Users != 1 || report.Items != 0 || report.Skipped != 0 {
		t.Errorf("report = %+v, want user flagged with nothing migrated", report)
	}
}
