package store

import (
	"context"
	"time"

	"github.com/rcliao/meeting-planner/internal/model"
)

// SnapshotVersion is the format version written by ExportAll.
const SnapshotVersion = 1

// Snapshot is a full JSON backup of the database.
type Snapshot struct {
	Version        int                   `json:"version"`
	ExportedAt     time.Time             `json:"exported_at"`
	Participations []model.Participation `json:"participations"`
	Publishers     []model.Publisher     `json:"publishers"`
	Templates      []model.EventTemplate `json:"event_templates"`
	SpecialEvents  []model.SpecialEvent  `json:"special_events"`
}

// ImportCounts reports how many rows of each kind ImportAll wrote.
type ImportCounts struct {
	Participations int `json:"participations"`
	Publishers     int `json:"publishers"`
	Templates      int `json:"event_templates"`
	SpecialEvents  int `json:"special_events"`
}

// ExportAll returns every stored record.
func (s *SQLiteStore) ExportAll(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{Version: SnapshotVersion, ExportedAt: time.Now().UTC()}

	var err error
	snap.Participations, err = s.queryParticipations(ctx,
		`SELECT `+participationColumns+` FROM participations ORDER BY date, sort_order, rowid`)
	if err != nil {
		return nil, err
	}
	if snap.Publishers, err = s.ListPublishers(ctx); err != nil {
		return nil, err
	}
	if snap.Templates, err = s.Templates(ctx); err != nil {
		return nil, err
	}
	if snap.SpecialEvents, err = s.SpecialEvents(ctx, ""); err != nil {
		return nil, err
	}
	return snap, nil
}

// ImportAll writes a snapshot in one transaction. Rows with an ID already
// present are replaced; participations with a known ID are skipped.
func (s *SQLiteStore) ImportAll(ctx context.Context, snap *Snapshot) (ImportCounts, error) {
	var counts ImportCounts

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return counts, err
	}
	defer tx.Rollback()

	for _, p := range snap.Publishers {
		if p.ID == "" {
			p.ID = s.newID()
		}
		if err := upsertPublisher(ctx, tx, p); err != nil {
			return counts, err
		}
		counts.Publishers++
	}
	for _, t := range snap.Templates {
		if t.ID == "" {
			t.ID = s.newID()
		}
		if err := upsertTemplate(ctx, tx, t); err != nil {
			return counts, err
		}
		counts.Templates++
	}
	for _, e := range snap.SpecialEvents {
		if e.ID == "" {
			e.ID = s.newID()
		}
		if err := upsertSpecialEvent(ctx, tx, e); err != nil {
			return counts, err
		}
		counts.SpecialEvents++
	}
	for _, p := range snap.Participations {
		if err := s.prepare(&p); err != nil {
			return counts, err
		}
		var exists int
		tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM participations WHERE id = ?`, p.ID).Scan(&exists)
		if exists > 0 {
			continue
		}
		if err := insertParticipation(ctx, tx, p); err != nil {
			return counts, err
		}
		counts.Participations++
	}

	if err := tx.Commit(); err != nil {
		return ImportCounts{}, err
	}
	return counts, nil
}
