package tools

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/linguamem/linguamem/internal/model"
	"github.com/linguamem/linguamem/internal/service"
	"github.com/linguamem/linguamem/internal/store"
)

func newTestTurn(t *testing.T, userID int64) (*Registry, *TurnContext) {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewMemoryRegistry(), &TurnContext{UserID: userID, Service: service.New(s)}
}

func dispatch(reg *Registry, tc *TurnContext, name, input string) string {
	return reg.Dispatch(context.Background(), tc, name, json.RawMessage(input))
}

func TestDispatchUnknownTool(t *testing.T) {
	reg, tc := newTestTurn(t, 1)
	out := dispatch(reg, tc, "summon_vocabulary", `{}`)
	if out != "unknown tool: summon_vocabulary" {
		t.Errorf("out = %q", out)
	}
}

func TestUpdateThenReadMemory(t *testing.T) {
	reg, tc := newTestTurn(t, 1)

	out := dispatch(reg, tc, "update_memory",
		`{"category":"personal_info","operation":"replace","data":{"name":"Maria from Porto"}}`)
	if !strings.Contains(out, "Updated 1 memory item(s) in personal_info") {
		t.Errorf("update out = %q", out)
	}

	out = dispatch(reg, tc, "read_memory", `{"category":"personal_info"}`)
	if !strings.Contains(out, "personal_info/name (active): Maria from Porto") {
		t.Errorf("read out = %q", out)
	}
}

func TestReadMemoryEmpty(t *testing.T) {
	reg, tc := newTestTurn(t, 1)
	if out := dispatch(reg, tc, "read_memory", `{}`); out != "No memory items found." {
		t.Errorf("out = %q", out)
	}
}

func TestUpdateMemoryValidationErrorAsString(t *testing.T) {
	reg, tc := newTestTurn(t, 1)

	out := dispatch(reg, tc, "update_memory",
		`{"category":"personal_info","operation":"replace","status":"struggling","data":{"k":"v"}}`)
	if !strings.Contains(out, `invalid status "struggling"`) {
		t.Errorf("expected named invalid value, got %q", out)
	}

	// The failed call must not poison the next one.
	out = dispatch(reg, tc, "update_memory",
		`{"category":"area_to_improve","operation":"merge","status":"struggling","data":{"past_tense":"hard"}}`)
	if !strings.Contains(out, "Updated 1 memory item(s)") {
		t.Errorf("follow-up call failed: %q", out)
	}
}

func TestDeleteMemoryItemTool(t *testing.T) {
	reg, tc := newTestTurn(t, 1)

	dispatch(reg, tc, "update_memory",
		`{"category":"personal_info","operation":"replace","data":{"name":"Maria"}}`)

	items, _ := tc.Service.ListItems(context.Background(), 1, service.ListOptions{})
	if len(items) != 1 {
		t.Fatalf("seed failed: %v", items)
	}
	id := items[0].ID

	out := dispatch(reg, tc, "delete_memory_item", `{"item_id":"`+id+`"}`)
	if out != "Deleted memory item "+id+"." {
		t.Errorf("out = %q", out)
	}

	// Deleting again: not-found as a string, not an exception.
	out = dispatch(reg, tc, "delete_memory_item", `{"item_id":"`+id+`"}`)
	if out != "memory item not found" {
		t.Errorf("out = %q", out)
	}
}

func TestDeleteMemoryItemForeignUser(t *testing.T) {
	reg, tc := newTestTurn(t, 1)
	dispatch(reg, tc, "update_memory",
		`{"category":"personal_info","operation":"replace","data":{"name":"Maria"}}`)
	items, _ := tc.Service.ListItems(context.Background(), 1, service.ListOptions{})

	other := &TurnContext{UserID: 2, Service: tc.Service}
	out := dispatch(reg, other, "delete_memory_item", `{"item_id":"`+items[0].ID+`"}`)
	if out != "memory item not found" {
		t.Errorf("foreign delete leaked: %q", out)
	}
}

func TestStartStudentInfoTool(t *testing.T) {
	reg, tc := newTestTurn(t, 1)

	if out := dispatch(reg, tc, "start_student_info", `{}`); out != service.NoStudentInfo {
		t.Errorf("empty state = %q, want sentinel", out)
	}

	dispatch(reg, tc, "update_memory",
		`{"category":"area_to_improve","operation":"replace","data":{"past_tense":"mixes endings"}}`)

	out := dispatch(reg, tc, "start_student_info", ``)
	if !strings.HasPrefix(out, service.StudentInfoStart) || !strings.HasSuffix(out, service.StudentInfoEnd) {
		t.Errorf("missing markers: %q", out)
	}
	if !strings.Contains(out, "past_tense") {
		t.Errorf("snapshot missing item: %q", out)
	}
}

func TestDefinitionsCoverAllFourTools(t *testing.T) {
	names := map[string]bool{}
	for _, d := range NewMemoryRegistry().Definitions() {
		names[d.Name] = true
		if d.Handler == nil {
			t.Errorf("tool %s has no handler", d.Name)
		}
		if d.InputSchema["type"] != "object" {
			t.Errorf("tool %s schema is not an object", d.Name)
		}
	}
	for _, want := range []string{"read_memory", "update_memory", "delete_memory_item", "start_student_info"} {
		if !names[want] {
			t.Errorf("missing tool %s", want)
		}
	}
}

func TestStatusValidityThroughTools(t *testing.T) {
	reg, tc := newTestTurn(t, 1)

	out := dispatch(reg, tc, "update_memory",
		`{"category":"area_to_improve","operation":"replace","status":"struggling","data":{"k":"v"}}`)
	if strings.Contains(out, "invalid") {
		t.Errorf("struggling on area_to_improve rejected: %q", out)
	}

	items, _ := tc.Service.ListItems(context.Background(), 1, service.ListOptions{
		Category: model.CategoryAreaToImprove,
	})
	if len(items) != 1 || items[0].Status != model.StatusStruggling {
		t.Errorf("items = %v", items)
	}
}
