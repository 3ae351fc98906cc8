package service

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/linguamem/linguamem/internal/model"
	"github.com/linguamem/linguamem/internal/store"
)

// LegacySource yields users whose memory still lives in the legacy
// JSON blob columns. The SQLite store satisfies it.
type LegacySource interface {
	UnmigratedUsers(ctx context.Context) ([]model.User, error)
	MarkMigrated(ctx context.Context, userID int64) error
}

// MigrationReport summarizes one migration run.
type MigrationReport struct {
	Users   int `json:"users"`
	Items   int `json:"items"`
	Skipped int `json:"skipped"`
}

// MigrateLegacy is the one-shot path that parses each unmigrated
// user's legacy blobs into memory items with the category default
// status, then flips the migration flag. Malformed blobs or fields are
// logged and skipped; they never abort the rest of the user or run.
func (s *Service) MigrateLegacy(ctx context.Context, src LegacySource) (*MigrationReport, error) {
	users, err := src.UnmigratedUsers(ctx)
	if err != nil {
		return nil, err
	}

	report := &MigrationReport{}
	for _, u := range users {
		items, skipped := s.migrateUser(ctx, u)
		report.Items += items
		report.Skipped += skipped
		if err := src.MarkMigrated(ctx, u.ID); err != nil {
			log.Printf("[MIGRATE] user %d: mark migrated: %v", u.ID, err)
			continue
		}
		report.Users++
	}
	return report, nil
}

func (s *Service) migrateUser(ctx context.Context, u model.User) (items, skipped int) {
	release := s.locks.Acquire(u.ID)
	defer release()

	blobs := []struct {
		category model.Category
		raw      string
	}{
		{model.CategoryPersonalInfo, u.LegacyPersonalInfo},
		{model.CategoryAreaToImprove, u.LegacyAreasToImprove},
		{model.CategoryKnowledgeStrength, u.LegacyKnowledgeStrengths},
	}

	for _, blob := range blobs {
		if strings.TrimSpace(blob.raw) == "" {
			continue
		}
		var parsed map[string]any
		if err := json.Unmarshal([]byte(blob.raw), &parsed); err != nil {
			log.Printf("[MIGRATE] user %d: skipping malformed %s blob: %v", u.ID, blob.category, err)
			skipped++
			continue
		}
		for _, key := range sortedKeys(parsed) {
			content := renderContent(parsed[key])
			if strings.TrimSpace(content) == "" || strings.TrimSpace(key) == "" {
				log.Printf("[MIGRATE] user %d: skipping empty %s field %q", u.ID, blob.category, key)
				skipped++
				continue
			}
			_, err := s.store.Upsert(ctx, store.UpsertParams{
				UserID:   u.ID,
				Category: blob.category,
				Key:      key,
				Content:  content,
			})
			if err != nil {
				log.Printf("[MIGRATE] user %d: %s/%s: %v", u.ID, blob.category, key, err)
				skipped++
				continue
			}
			items++
		}
	}

	s.invalidate(u.ID)
	return items, skipped
}
