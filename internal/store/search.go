package store

import (
	"context"

	"github.com/rcliao/meeting-planner/internal/model"
	"github.com/rcliao/meeting-planner/internal/weekdate"
)

// SearchParams holds parameters for searching participations.
type SearchParams struct {
	Query string
	Type  model.ParticipationType
	Limit int
}

// Search finds participations whose title, publisher or week match the query substring.
func (s *SQLiteStore) Search(ctx context.Context, p SearchParams) ([]model.Participation, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	query := "%" + p.Query + "%"
	sql := `SELECT ` + participationColumns + ` FROM participations
		WHERE (part_title LIKE ? OR publisher_name LIKE ? OR week LIKE ?)`
	args := []interface{}{query, query, query}
	if p.Type != "" {
		sql += ` AND type = ?`
		args = append(args, string(p.Type))
	}
	sql += ` ORDER BY date DESC, sort_order ASC LIMIT ?`
	args = append(args, limit)

	return s.queryParticipations(ctx, sql, args...)
}

// LastAssignments maps each publisher name to the most recent week they took
// part in, by the week label's start date.
func (s *SQLiteStore) LastAssignments(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT publisher_name, week FROM participations WHERE publisher_name <> ''`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	last := map[string]string{}
	for rows.Next() {
		var name, week string
		if err := rows.Scan(&name, &week); err != nil {
			return nil, err
		}
		prev, ok := last[name]
		if !ok || weekdate.SortKey(week) > weekdate.SortKey(prev) {
			last[name] = week
		}
	}
	return last, rows.Err()
}
