// Package service orchestrates memory item reads and writes for both
// the agent tool adapters and the profile-facing callers. Mutating
// operations for one user serialize on a per-user lock; reads do not.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto"

	"github.com/linguamem/linguamem/internal/merge"
	"github.com/linguamem/linguamem/internal/model"
	"github.com/linguamem/linguamem/internal/store"
)

// Operation selects how update data is applied.
type Operation string

const (
	OpReplace Operation = "replace"
	OpMerge   Operation = "merge"
)

const snapshotTTL = time.Minute

// Service is the single entry point over the memory item store.
type Service struct {
	store store.Store
	locks *userLocks
	cache *ristretto.Cache
}

// Option configures the service.
type Option func(*Service)

// WithoutCache disables the per-user snapshot cache.
func WithoutCache() Option {
	return func(s *Service) { s.cache = nil }
}

// New creates a Service over the given store.
func New(st store.Store, opts ...Option) *Service {
	cache, _ := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1 << 14,
		MaxCost:     1 << 10,
		BufferItems: 64,
	})
	s := &Service{
		store: st,
		locks: newUserLocks(),
		cache: cache,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UpdateParams describes one update_memory call.
type UpdateParams struct {
	Category  model.Category
	Operation Operation
	Data      map[string]any
	Status    model.Status // optional, applied to every written key
	Meta      string       // optional, stored verbatim on every written key
}

// UpdateMemory applies p for the user. All validation happens before
// any write, so a rejected batch applies none of its keys. The whole
// call holds the user's lock: concurrent merges cannot lose updates.
func (s *Service) UpdateMemory(ctx context.Context, userID int64, p UpdateParams) ([]model.MemoryItem, error) {
	if err := s.validateUpdate(p); err != nil {
		return nil, err
	}

	release := s.locks.Acquire(userID)
	defer release()

	data := p.Data
	if p.Operation == OpMerge {
		current, err := s.currentContent(ctx, userID, p.Category)
		if err != nil {
			return nil, err
		}
		merged := merge.Merge(current, p.Data).(map[string]any)
		// Only the keys named in the update are written back; untouched
		// keys keep their rows (and their updated_at) as they are.
		data = make(map[string]any, len(p.Data))
		for k := range p.Data {
			data[k] = merged[k]
		}
	}

	items := make([]model.MemoryItem, 0, len(data))
	for _, key := range sortedKeys(data) {
		item, err := s.store.Upsert(ctx, store.UpsertParams{
			UserID:   userID,
			Category: p.Category,
			Key:      key,
			Content:  renderContent(data[key]),
			Status:   p.Status,
			Meta:     p.Meta,
		})
		if err != nil {
			return nil, fmt.Errorf("upsert %s/%s: %w", p.Category, key, err)
		}
		items = append(items, *item)
	}

	s.invalidate(userID)
	return items, nil
}

func (s *Service) validateUpdate(p UpdateParams) error {
	if !p.Category.Valid() {
		return invalid("category", string(p.Category), "must be one of personal_info, area_to_improve, knowledge_strength")
	}
	if p.Operation != OpReplace && p.Operation != OpMerge {
		return invalid("operation", string(p.Operation), "must be replace or merge")
	}
	if p.Status != "" && !p.Category.ValidStatus(p.Status) {
		return invalid("status", string(p.Status),
			fmt.Sprintf("not allowed for category %s (valid: %s)", p.Category, statusList(p.Category)))
	}
	if len(p.Data) == 0 {
		return invalid("data", "", "at least one key is required")
	}
	for key, v := range p.Data {
		if strings.TrimSpace(key) == "" {
			return invalid("key", key, "must not be empty")
		}
		if strings.TrimSpace(renderContent(v)) == "" {
			return invalid("content", key, "must not be empty")
		}
	}
	return nil
}

// currentContent loads the user's existing items for a category as a
// key -> value dict, decoding structured content so nested merges work.
func (s *Service) currentContent(ctx context.Context, userID int64, category model.Category) (map[string]any, error) {
	items, err := s.store.ExportAll(ctx, store.ExportParams{UserID: userID, Category: category})
	if err != nil {
		return nil, fmt.Errorf("load current %s items: %w", category, err)
	}
	current := make(map[string]any, len(items))
	for _, item := range items {
		current[item.Key] = decodeContent(item.Content)
	}
	return current, nil
}

// ListOptions are the composable filters for ListItems.
type ListOptions struct {
	Category model.Category
	Status   model.Status
	Limit    int
	Offset   int
}

// ListItems returns the user's items most-recently-updated first.
func (s *Service) ListItems(ctx context.Context, userID int64, opts ListOptions) ([]model.MemoryItem, error) {
	if opts.Category != "" && !opts.Category.Valid() {
		return nil, invalid("category", string(opts.Category), "unknown category")
	}
	if opts.Status != "" && opts.Category != "" && !opts.Category.ValidStatus(opts.Status) {
		return nil, invalid("status", string(opts.Status),
			fmt.Sprintf("not allowed for category %s (valid: %s)", opts.Category, statusList(opts.Category)))
	}
	return s.store.List(ctx, store.ListParams{
		UserID:   userID,
		Category: opts.Category,
		Status:   opts.Status,
		Limit:    opts.Limit,
		Offset:   opts.Offset,
	})
}

// UserMemory returns all of the user's items grouped by category, for
// seeding conversation context and the profile read path. Results are
// cached per user until the next mutation.
func (s *Service) UserMemory(ctx context.Context, userID int64) (map[model.Category][]model.MemoryItem, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(userID); ok {
			if grouped, ok := v.(map[model.Category][]model.MemoryItem); ok {
				return grouped, nil
			}
		}
	}

	items, err := s.store.ExportAll(ctx, store.ExportParams{UserID: userID})
	if err != nil {
		return nil, err
	}
	grouped := make(map[model.Category][]model.MemoryItem)
	for _, item := range items {
		grouped[item.Category] = append(grouped[item.Category], item)
	}

	if s.cache != nil {
		s.cache.SetWithTTL(userID, grouped, 1, snapshotTTL)
		// Flush the buffered set so a later invalidate cannot race an
		// in-flight write and resurrect a stale snapshot.
		s.cache.Wait()
	}
	return grouped, nil
}

// DeleteItem removes one item by id, ownership-checked. Returns a
// human-readable confirmation naming the deleted id.
func (s *Service) DeleteItem(ctx context.Context, userID int64, id string) (string, error) {
	release := s.locks.Acquire(userID)
	defer release()

	if err := s.store.Delete(ctx, id, userID); err != nil {
		return "", err
	}
	s.invalidate(userID)
	return fmt.Sprintf("Deleted memory item %s.", id), nil
}

func (s *Service) invalidate(userID int64) {
	if s.cache != nil {
		s.cache.Del(userID)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func statusList(c model.Category) string {
	parts := make([]string, 0, 3)
	for _, s := range c.Statuses() {
		parts = append(parts, string(s))
	}
	return strings.Join(parts, ", ")
}

// renderContent turns an update value into the stored content string:
// strings pass through, everything else is serialized as JSON.
func renderContent(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// decodeContent is the inverse used on the merge read path: structured
// content (JSON objects and arrays) is decoded so the merge engine can
// recurse into it; anything else stays a plain string.
func decodeContent(content string) any {
	t := strings.TrimSpace(content)
	if strings.HasPrefix(t, "{") || strings.HasPrefix(t, "[") {
		var v any
		if err := json.Unmarshal([]byte(t), &v); err == nil {
			return v
		}
	}
	return content
}
