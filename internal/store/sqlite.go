package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/linguamem/linguamem/internal/model"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// timeLayout is RFC3339 with fixed-width nanoseconds so the stored
// strings sort lexicographically in chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func newID() string {
	return ulid.Make().String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS memory_items (
		id                TEXT PRIMARY KEY,
		user_id           INTEGER NOT NULL,
		category          TEXT NOT NULL,
		key               TEXT NOT NULL,
		content           TEXT NOT NULL,
		status            TEXT NOT NULL,
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL,
		status_changed_at TEXT NOT NULL,
		meta              TEXT,
		UNIQUE (user_id, category, key)
	);
	CREATE INDEX IF NOT EXISTS idx_items_user_cat_status ON memory_items(user_id, category, status);
	CREATE INDEX IF NOT EXISTS idx_items_user_updated ON memory_items(user_id, updated_at DESC);

	CREATE TABLE IF NOT EXISTS users (
		id                         INTEGER PRIMARY KEY,
		username                   TEXT NOT NULL DEFAULT '',
		legacy_personal_info       TEXT,
		legacy_areas_to_improve    TEXT,
		legacy_knowledge_strengths TEXT,
		memory_migrated            INTEGER NOT NULL DEFAULT 0
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Upsert(ctx context.Context, p UpsertParams) (*model.MemoryItem, error) {
	if !p.Category.Valid() {
		return nil, fmt.Errorf("invalid category %q", p.Category)
	}
	if strings.TrimSpace(p.Key) == "" {
		return nil, fmt.Errorf("key is required")
	}
	if strings.TrimSpace(p.Content) == "" {
		return nil, fmt.Errorf("content is required")
	}
	if p.Status != "" && !p.Category.ValidStatus(p.Status) {
		return nil, fmt.Errorf("invalid status %q for category %q", p.Status, p.Category)
	}

	now := time.Now().UTC()
	ts := now.Format(timeLayout)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var (
		id         string
		prevStatus model.Status
		createdAt  string
		statusAt   string
	)
	err = tx.QueryRowContext(ctx,
		`SELECT id, status, created_at, status_changed_at FROM memory_items
		 WHERE user_id = ? AND category = ? AND key = ?`,
		p.UserID, p.Category, p.Key).Scan(&id, &prevStatus, &createdAt, &statusAt)

	item := &model.MemoryItem{
		UserID:   p.UserID,
		Category: p.Category,
		Key:      p.Key,
		Content:  p.Content,
		Meta:     p.Meta,
	}

	switch {
	case err == sql.ErrNoRows:
		id = newID()
		status := p.Status
		if status == "" {
			status = p.Category.DefaultStatus()
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO memory_items (id, user_id, category, key, content, status, created_at, updated_at, status_changed_at, meta)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, p.UserID, p.Category, p.Key, p.Content, status, ts, ts, ts, nullable(p.Meta))
		if err != nil {
			return nil, fmt.Errorf("insert memory item: %w", err)
		}
		item.ID = id
		item.Status = status
		item.CreatedAt = now
		item.UpdatedAt = now
		item.StatusChangedAt = now

	case err == nil:
		status := prevStatus
		newStatusAt := statusAt
		if p.Status != "" && p.Status != prevStatus {
			status = p.Status
			newStatusAt = ts
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE memory_items
			 SET content = ?, status = ?, updated_at = ?, status_changed_at = ?,
			     meta = COALESCE(?, meta)
			 WHERE id = ?`,
			p.Content, status, ts, newStatusAt, nullable(p.Meta), id)
		if err != nil {
			return nil, fmt.Errorf("update memory item: %w", err)
		}
		item.ID = id
		item.Status = status
		item.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		item.UpdatedAt = now
		item.StatusChangedAt, _ = time.Parse(time.RFC3339Nano, newStatusAt)

	default:
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *SQLiteStore) Get(ctx context.Context, p GetParams) (*model.MemoryItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, category, key, content, status, created_at, updated_at, status_changed_at, meta
		 FROM memory_items WHERE user_id = ? AND category = ? AND key = ?`,
		p.UserID, p.Category, p.Key)

	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%s/%s: %w", p.Category, p.Key, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *SQLiteStore) List(ctx context.Context, p ListParams) ([]model.MemoryItem, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := p.Offset
	if offset < 0 {
		offset = 0
	}

	where := []string{"user_id = ?"}
	args := []interface{}{p.UserID}
	if p.Category != "" {
		where = append(where, "category = ?")
		args = append(args, p.Category)
	}
	if p.Status != "" {
		where = append(where, "status = ?")
		args = append(args, p.Status)
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, category, key, content, status, created_at, updated_at, status_changed_at, meta
		FROM memory_items
		WHERE %s
		ORDER BY updated_at DESC
		LIMIT ? OFFSET ?`, strings.Join(where, " AND "))
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.MemoryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, id string, userID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM memory_items WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) ExportAll(ctx context.Context, p ExportParams) ([]model.MemoryItem, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if p.UserID != 0 {
		where = append(where, "user_id = ?")
		args = append(args, p.UserID)
	}
	if p.Category != "" {
		where = append(where, "category = ?")
		args = append(args, p.Category)
	}

	query := `SELECT id, user_id, category, key, content, status, created_at, updated_at, status_changed_at, meta
	          FROM memory_items WHERE ` + strings.Join(where, " AND ") + ` ORDER BY user_id, category, key`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.MemoryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// Import stores items from an export through the regular upsert path.
func (s *SQLiteStore) Import(ctx context.Context, items []model.MemoryItem) (int, error) {
	imported := 0
	for _, item := range items {
		_, err := s.Upsert(ctx, UpsertParams{
			UserID:   item.UserID,
			Category: item.Category,
			Key:      item.Key,
			Content:  item.Content,
			Status:   item.Status,
			Meta:     item.Meta,
		})
		if err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row scanner) (*model.MemoryItem, error) {
	var item model.MemoryItem
	var createdAt, updatedAt, statusChangedAt string
	var meta sql.NullString

	err := row.Scan(
		&item.ID, &item.UserID, &item.Category, &item.Key, &item.Content,
		&item.Status, &createdAt, &updatedAt, &statusChangedAt, &meta,
	)
	if err != nil {
		return nil, err
	}

	item.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	item.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	item.StatusChangedAt, _ = time.Parse(time.RFC3339Nano, statusChangedAt)
	if meta.Valid {
		item.Meta = meta.String
	}
	return &item, nil
}
