package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath      string          `json:"db_path"`
	DBSizeBytes int64           `json:"db_size_bytes"`
	TotalItems  int             `json:"total_items"`
	Users       int             `json:"users"`
	Categories  []CategoryStats `json:"categories"`
}

// CategoryStats holds per-category counts, optionally scoped to one user.
type CategoryStats struct {
	Category string         `json:"category"`
	Count    int            `json:"count"`
	Statuses map[string]int `json:"statuses"`
}

// Stats returns database statistics. userID 0 covers all users.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string, userID int64) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	where := ""
	args := []interface{}{}
	if userID != 0 {
		where = " WHERE user_id = ?"
		args = append(args, userID)
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM memory_items`+where, args...).Scan(&st.TotalItems)
	s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT user_id) FROM memory_items`+where, args...).Scan(&st.Users)

	rows, err := s.db.QueryContext(ctx,
		`SELECT category, status, COUNT(*) FROM memory_items`+where+` GROUP BY category, status ORDER BY category`, args...)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	byCategory := map[string]*CategoryStats{}
	var order []string
	for rows.Next() {
		var category, status string
		var count int
		rows.Scan(&category, &status, &count)
		cs, ok := byCategory[category]
		if !ok {
			cs = &CategoryStats{Category: category, Statuses: map[string]int{}}
			byCategory[category] = cs
			order = append(order, category)
		}
		cs.Count += count
		cs.Statuses[status] = count
	}
	for _, c := range order {
		st.Categories = append(st.Categories, *byCategory[c])
	}

	return st, nil
}
