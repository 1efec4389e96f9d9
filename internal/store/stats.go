package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath              string           `json:"db_path"`
	DBSizeBytes         int64            `json:"db_size_bytes"`
	TotalParticipations int              `json:"total_participations"`
	Weeks               int              `json:"weeks"`
	Publishers          int              `json:"publishers"`
	Backups             int              `json:"history_backups"`
	ByType              []TypeStats      `json:"by_type"`
	ByPublisher         []PublisherStats `json:"by_publisher"`
}

// TypeStats holds per-type counts.
type TypeStats struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// PublisherStats holds per-publisher counts.
type PublisherStats struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	// DB file size
	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM participations`).Scan(&st.TotalParticipations)
	s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT week) FROM participations`).Scan(&st.Weeks)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM publishers`).Scan(&st.Publishers)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM history_backups`).Scan(&st.Backups)

	rows, err := s.db.QueryContext(ctx, `
		SELECT type, COUNT(*) AS cnt FROM participations
		GROUP BY type ORDER BY cnt DESC, type`)
	if err != nil {
		return st, err
	}
	for rows.Next() {
		var ts TypeStats
		rows.Scan(&ts.Type, &ts.Count)
		st.ByType = append(st.ByType, ts)
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx, `
		SELECT publisher_name, COUNT(*) AS cnt FROM participations
		WHERE publisher_name <> ''
		GROUP BY publisher_name ORDER BY cnt DESC, publisher_name`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var ps PublisherStats
		rows.Scan(&ps.Name, &ps.Count)
		st.ByPublisher = append(st.ByPublisher, ps)
	}

	return st, nil
}
