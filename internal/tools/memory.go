package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/linguamem/linguamem/internal/model"
	"github.com/linguamem/linguamem/internal/service"
)

// Memory returns the four memory tool definitions.
func Memory() []Definition {
	return []Definition{
		{
			Name: "read_memory",
			Description: "Read the student's stored memory items. Optionally filter by " +
				"category and status. Items come back most-recently-updated first.",
			InputSchema: ObjectSchema(map[string]any{
				"category": StringEnumProperty("Filter by category",
					"personal_info", "area_to_improve", "knowledge_strength"),
				"status": StringProperty("Filter by status (must belong to the category)"),
				"limit":  IntegerProperty("Max items to return (default 20)"),
			}),
			Handler: readMemory,
		},
		{
			Name: "update_memory",
			Description: "Store or update facts about the student. operation 'merge' folds " +
				"data into what is already stored (dicts merge, lists combine without " +
				"duplicates); 'replace' overwrites each key. Each top-level key of data " +
				"becomes one memory item.",
			InputSchema: ObjectSchema(map[string]any{
				"category": StringEnumProperty("Memory category",
					"personal_info", "area_to_improve", "knowledge_strength"),
				"operation": StringEnumProperty("How to apply the data", "merge", "replace"),
				"data":      ObjectProperty("Key -> content map; values may be text or nested structures"),
				"status":    StringProperty("Optional status applied to every written key"),
			}, "category", "operation", "data"),
			Handler: updateMemory,
		},
		{
			Name:        "delete_memory_item",
			Description: "Delete one memory item by its id, e.g. after the student says a fact is wrong.",
			InputSchema: ObjectSchema(map[string]any{
				"item_id": StringProperty("Id of the memory item to delete"),
			}, "item_id"),
			Handler: deleteMemoryItem,
		},
		{
			Name: "start_student_info",
			Description: "Fetch the student snapshot used to start a conversation: active " +
				"personal info plus struggling and improving areas, size-bounded.",
			InputSchema: ObjectSchema(map[string]any{}),
			Handler:     startStudentInfo,
		},
	}
}

// NewMemoryRegistry is the standard registry carrying the four memory tools.
func NewMemoryRegistry() *Registry {
	return NewRegistry(Memory()...)
}

func readMemory(ctx context.Context, tc *TurnContext, input json.RawMessage) (string, error) {
	var args struct {
		Category string `json:"category"`
		Status   string `json:"status"`
		Limit    int    `json:"limit"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return "", fmt.Errorf("parse input: %w", err)
	}

	items, err := tc.Service.ListItems(ctx, tc.UserID, service.ListOptions{
		Category: model.Category(args.Category),
		Status:   model.Status(args.Status),
		Limit:    args.Limit,
	})
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "No memory items found.", nil
	}

	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "- [%s] %s/%s (%s): %s\n", item.ID, item.Category, item.Key, item.Status, item.Content)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func updateMemory(ctx context.Context, tc *TurnContext, input json.RawMessage) (string, error) {
	var args struct {
		Category  string         `json:"category"`
		Operation string         `json:"operation"`
		Data      map[string]any `json:"data"`
		Status    string         `json:"status"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return "", fmt.Errorf("parse input: %w", err)
	}

	items, err := tc.Service.UpdateMemory(ctx, tc.UserID, service.UpdateParams{
		Category:  model.Category(args.Category),
		Operation: service.Operation(args.Operation),
		Data:      args.Data,
		Status:    model.Status(args.Status),
	})
	if err != nil {
		return "", err
	}

	keys := make([]string, 0, len(items))
	for _, item := range items {
		keys = append(keys, item.Key)
	}
	return fmt.Sprintf("Updated %d memory item(s) in %s: %s", len(items), args.Category, strings.Join(keys, ", ")), nil
}

func deleteMemoryItem(ctx context.Context, tc *TurnContext, input json.RawMessage) (string, error) {
	var args struct {
		ItemID string `json:"item_id"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return "", fmt.Errorf("parse input: %w", err)
	}
	if args.ItemID == "" {
		return "", &service.ValidationError{Field: "item_id", Value: "", Reason: "must not be empty"}
	}
	return tc.Service.DeleteItem(ctx, tc.UserID, args.ItemID)
}

func startStudentInfo(ctx context.Context, tc *TurnContext, _ json.RawMessage) (string, error) {
	return tc.Service.StartStudentInfo(ctx, tc.UserID)
}
