package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/linguamem/linguamem/internal/model"
	"github.com/linguamem/linguamem/internal/store"
)

func seed(t *testing.T, s *store.SQLiteStore, userID int64, category model.Category, status model.Status, n int, prefix string) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		_, err := s.Upsert(ctx, store.UpsertParams{
			UserID:   userID,
			Category: category,
			Key:      fmt.Sprintf("%s_%03d", prefix, i),
			Content:  fmt.Sprintf("%s item %d", prefix, i),
			Status:   status,
		})
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestStudentInfoBudgetPriority(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)

	seed(t, st, 1, model.CategoryPersonalInfo, model.StatusActive, 1, "personal")
	seed(t, st, 1, model.CategoryAreaToImprove, model.StatusStruggling, 60, "struggling")
	seed(t, st, 1, model.CategoryAreaToImprove, model.StatusImproving, 60, "improving")

	sn, err := svc.StudentInfo(ctx, 1)
	if err != nil {
		t.Fatalf("student info: %v", err)
	}

	// Personal info is never crowded out by the larger categories.
	if len(sn.PersonalInfo) != 1 {
		t.Errorf("personal info = %d entries, want 1", len(sn.PersonalInfo))
	}

	var struggling, improving int
	for _, e := range sn.AreasToImprove {
		switch e.Status {
		case model.StatusStruggling:
			struggling++
		case model.StatusImproving:
			improving++
		}
	}
	if struggling == 0 || struggling > 25 {
		t.Errorf("struggling = %d, want 1..25", struggling)
	}
	if improving == 0 || improving > 25 {
		t.Errorf("improving = %d, want 1..25", improving)
	}
}

func TestStudentInfoExcludesOtherStatuses(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)

	seed(t, st, 1, model.CategoryAreaToImprove, model.StatusMastered, 5, "mastered")
	seed(t, st, 1, model.CategoryPersonalInfo, model.StatusOutdated, 3, "outdated")
	seed(t, st, 1, model.CategoryPersonalInfo, model.StatusActive, 2, "personal")

	sn, err := svc.StudentInfo(ctx, 1)
	if err != nil {
		t.Fatalf("student info: %v", err)
	}
	if len(sn.PersonalInfo) != 2 {
		t.Errorf("expected only active personal info, got %d", len(sn.PersonalInfo))
	}
	if len(sn.AreasToImprove) != 0 {
		t.Errorf("mastered areas should not appear: %v", sn.AreasToImprove)
	}
}

func TestStudentInfoEmptyCategoryOmitted(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)

	seed(t, st, 1, model.CategoryAreaToImprove, model.StatusStruggling, 2, "struggling")

	out, err := svc.StartStudentInfo(ctx, 1)
	if err != nil {
		t.Fatalf("start student info: %v", err)
	}
	if strings.Contains(out, "personal_info") {
		t.Errorf("empty category present in output: %s", out)
	}
}

func TestStartStudentInfoSentinel(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	out, err := svc.StartStudentInfo(ctx, 1)
	if err != nil {
		t.Fatalf("start student info: %v", err)
	}
	if out != NoStudentInfo {
		t.Errorf("expected sentinel %q, got %q", NoStudentInfo, out)
	}
}

func TestStartStudentInfoDelimitedBlock(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)

	seed(t, st, 1, model.CategoryPersonalInfo, model.StatusActive, 1, "personal")

	out, err := svc.StartStudentInfo(ctx, 1)
	if err != nil {
		t.Fatalf("start student info: %v", err)
	}
	if !strings.HasPrefix(out, StudentInfoStart+"\n") {
		t.Errorf("missing start marker: %q", out)
	}
	if !strings.HasSuffix(out, "\n"+StudentInfoEnd) {
		t.Errorf("missing end marker: %q", out)
	}

	payload := strings.TrimSuffix(strings.TrimPrefix(out, StudentInfoStart+"\n"), "\n"+StudentInfoEnd)
	var sn StudentSnapshot
	if err := json.Unmarshal([]byte(payload), &sn); err != nil {
		t.Fatalf("payload not JSON: %v\n%s", err, payload)
	}
	if len(sn.PersonalInfo) != 1 {
		t.Errorf("payload = %+v", sn)
	}
}

func TestStudentInfoScopedToUser(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)

	seed(t, st, 2, model.CategoryPersonalInfo, model.StatusActive, 3, "other")

	if _, err := svc.StudentInfo(ctx, 1); err != ErrNoItems {
		t.Errorf("expected ErrNoItems for user with no data, got %v", err)
	}
}
