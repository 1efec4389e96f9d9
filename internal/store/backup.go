package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rcliao/meeting-planner/internal/model"
	"github.com/rcliao/meeting-planner/internal/weekdate"
)

// Backup is the snapshot of one week's records taken after an import.
type Backup struct {
	ID             string                `json:"id"`
	Week           string                `json:"week"`
	Participations []model.Participation `json:"participations"`
	ImportedAt     time.Time             `json:"imported_at"`
}

// SaveHistoryBackup snapshots every week touched by records. The snapshot
// holds the week's stored records when there are any, otherwise records
// itself. An existing snapshot of the same week is replaced.
func (s *SQLiteStore) SaveHistoryBackup(ctx context.Context, records []model.Participation) (int, error) {
	byWeek := map[string][]model.Participation{}
	var weeks []string
	for _, p := range records {
		if _, ok := byWeek[p.Week]; !ok {
			weeks = append(weeks, p.Week)
		}
		byWeek[p.Week] = append(byWeek[p.Week], p)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for _, week := range weeks {
		current, err := s.WeekParticipations(ctx, week)
		if err != nil {
			return 0, err
		}
		snapshot := current
		if len(snapshot) == 0 {
			snapshot = byWeek[week]
		}
		data, err := json.Marshal(snapshot)
		if err != nil {
			return 0, err
		}
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO history_backups (id, week, participations, imported_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT(week) DO UPDATE SET participations = excluded.participations, imported_at = excluded.imported_at`,
			s.newID(), week, string(data), now)
		if err != nil {
			return 0, fmt.Errorf("save backup %s: %w", week, err)
		}
	}
	return len(weeks), nil
}

// ListBackups returns every snapshot in chronological week order.
func (s *SQLiteStore) ListBackups(ctx context.Context) ([]Backup, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, week, participations, imported_at FROM history_backups`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Backup
	for rows.Next() {
		b, err := scanBackup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		return weekdate.SortKey(out[i].Week) < weekdate.SortKey(out[j].Week)
	})
	return out, nil
}

// RestoreBackup replaces a week's stored records with its snapshot.
func (s *SQLiteStore) RestoreBackup(ctx context.Context, week string) (int, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, week, participations, imported_at FROM history_backups WHERE week = ?`, week)
	b, err := scanBackup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("backup %s: %w", week, ErrNotFound)
	}
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM participations WHERE week = ?`, week); err != nil {
		return 0, err
	}
	for _, p := range b.Participations {
		if p.ID == "" {
			p.ID = s.newID()
		}
		if err := insertParticipation(ctx, tx, p); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(b.Participations), nil
}

func (s *SQLiteStore) DeleteBackup(ctx context.Context, week string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM history_backups WHERE week = ?`, week)
	if err != nil {
		return err
	}
	return requireAffected(res, "backup", week)
}

func scanBackup(row scanner) (Backup, error) {
	var b Backup
	var data, importedAt string
	if err := row.Scan(&b.ID, &b.Week, &data, &importedAt); err != nil {
		return b, err
	}
	if err := json.Unmarshal([]byte(data), &b.Participations); err != nil {
		return b, fmt.Errorf("backup %s: %w", b.Week, err)
	}
	b.ImportedAt, _ = time.Parse(time.RFC3339, importedAt)
	return b, nil
}
