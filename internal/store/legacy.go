package store

import (
	"context"
	"database/sql"

	"github.com/linguamem/linguamem/internal/model"
)

// SaveUser inserts or replaces a user row, including the legacy JSON
// blob columns consumed by the migration.
func (s *SQLiteStore) SaveUser(ctx context.Context, u model.User) error {
	migrated := 0
	if u.MemoryMigrated {
		migrated = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO users
		 (id, username, legacy_personal_info, legacy_areas_to_improve, legacy_knowledge_strengths, memory_migrated)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username,
		nullable(u.LegacyPersonalInfo), nullable(u.LegacyAreasToImprove), nullable(u.LegacyKnowledgeStrengths),
		migrated)
	return err
}

// UnmigratedUsers returns all users whose legacy memory has not been
// migrated into memory_items yet.
func (s *SQLiteStore) UnmigratedUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, legacy_personal_info, legacy_areas_to_improve, legacy_knowledge_strengths, memory_migrated
		 FROM users WHERE memory_migrated = 0 ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		var personal, areas, strengths sql.NullString
		var migrated int
		if err := rows.Scan(&u.ID, &u.Username, &personal, &areas, &strengths, &migrated); err != nil {
			return nil, err
		}
		u.LegacyPersonalInfo = personal.String
		u.LegacyAreasToImprove = areas.String
		u.LegacyKnowledgeStrengths = strengths.String
		u.MemoryMigrated = migrated != 0
		users = append(users, u)
	}
	return users, rows.Err()
}

// MarkMigrated flips the migration-complete flag for a user.
func (s *SQLiteStore) MarkMigrated(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET memory_migrated = 1 WHERE id = ?`, userID)
	return err
}
