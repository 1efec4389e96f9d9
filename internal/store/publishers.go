package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rcliao/meeting-planner/internal/model"
)

// PutPublisher inserts or replaces a publisher. A missing ID is generated and
// missing age group and availability mode default to adult and always.
func (s *SQLiteStore) PutPublisher(ctx context.Context, p model.Publisher) (*model.Publisher, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return nil, fmt.Errorf("publisher name is required")
	}
	if p.ID == "" {
		p.ID = s.newID()
	}
	if p.AgeGroup == "" {
		p.AgeGroup = model.AgeAdult
	}
	if p.Availability.Mode == "" {
		p.Availability.Mode = model.AvailableAlways
	}
	if err := upsertPublisher(ctx, s.db, p); err != nil {
		return nil, err
	}
	return &p, nil
}

func upsertPublisher(ctx context.Context, db execer, p model.Publisher) error {
	aliases, err := marshalJSON(p.Aliases)
	if err != nil {
		return err
	}
	parents, err := marshalJSON(p.ParentIDs)
	if err != nil {
		return err
	}
	availability, err := marshalJSON(p.Availability)
	if err != nil {
		return err
	}
	var serving interface{}
	if p.IsServing != nil {
		serving = boolInt(*p.IsServing)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO publishers (id, name, aliases, age_group, parent_ids, can_pair_with_non_parent, is_serving, availability, phone)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name, aliases = excluded.aliases, age_group = excluded.age_group,
		   parent_ids = excluded.parent_ids, can_pair_with_non_parent = excluded.can_pair_with_non_parent,
		   is_serving = excluded.is_serving, availability = excluded.availability, phone = excluded.phone`,
		p.ID, p.Name, aliases, p.AgeGroup, parents, boolInt(p.CanPairWithNonParent), serving, availability, p.Phone)
	if err != nil {
		return fmt.Errorf("upsert publisher: %w", err)
	}
	return nil
}

const publisherColumns = `id, name, aliases, age_group, parent_ids, can_pair_with_non_parent, is_serving, availability, phone`

func (s *SQLiteStore) GetPublisher(ctx context.Context, id string) (*model.Publisher, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+publisherColumns+` FROM publishers WHERE id = ?`, id)
	p, err := scanPublisher(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("publisher %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPublishers returns every publisher ordered by name.
func (s *SQLiteStore) ListPublishers(ctx context.Context) ([]model.Publisher, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+publisherColumns+` FROM publishers ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Publisher
	for rows.Next() {
		p, err := scanPublisher(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeletePublisher(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM publishers WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res, "publisher", id)
}

func scanPublisher(row scanner) (model.Publisher, error) {
	var p model.Publisher
	var aliases, parents, availability, phone sql.NullString
	var canPair int
	var serving sql.NullInt64

	err := row.Scan(&p.ID, &p.Name, &aliases, &p.AgeGroup, &parents, &canPair, &serving, &availability, &phone)
	if err != nil {
		return p, err
	}
	p.CanPairWithNonParent = canPair != 0
	if serving.Valid {
		v := serving.Int64 != 0
		p.IsServing = &v
	}
	p.Phone = phone.String
	if err := unmarshalJSON(aliases, &p.Aliases); err != nil {
		return p, fmt.Errorf("publisher %s aliases: %w", p.ID, err)
	}
	if err := unmarshalJSON(parents, &p.ParentIDs); err != nil {
		return p, fmt.Errorf("publisher %s parents: %w", p.ID, err)
	}
	if err := unmarshalJSON(availability, &p.Availability); err != nil {
		return p, fmt.Errorf("publisher %s availability: %w", p.ID, err)
	}
	return p, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
