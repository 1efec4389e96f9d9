package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rcliao/meeting-planner/internal/model"
)

// PutTemplate inserts or replaces an event template.
func (s *SQLiteStore) PutTemplate(ctx context.Context, t model.EventTemplate) (*model.EventTemplate, error) {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return nil, fmt.Errorf("template name is required")
	}
	action, err := model.ParseAction(string(t.Impact.Action))
	if err != nil {
		return nil, err
	}
	t.Impact.Action = action
	if t.ID == "" {
		t.ID = s.newID()
	}
	if err := upsertTemplate(ctx, s.db, t); err != nil {
		return nil, err
	}
	return &t, nil
}

func upsertTemplate(ctx context.Context, db execer, t model.EventTemplate) error {
	targets, err := marshalJSON(t.Impact.TargetTypes)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO event_templates (id, name, action, target_types) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, action = excluded.action, target_types = excluded.target_types`,
		t.ID, t.Name, string(t.Impact.Action), targets)
	if err != nil {
		return fmt.Errorf("upsert template: %w", err)
	}
	return nil
}

// Templates returns every event template ordered by name.
func (s *SQLiteStore) Templates(ctx context.Context) ([]model.EventTemplate, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, action, target_types FROM event_templates ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.EventTemplate
	for rows.Next() {
		var t model.EventTemplate
		var action string
		var targets sql.NullString
		if err := rows.Scan(&t.ID, &t.Name, &action, &targets); err != nil {
			return nil, err
		}
		t.Impact.Action = model.ImpactAction(action)
		if err := unmarshalJSON(targets, &t.Impact.TargetTypes); err != nil {
			return nil, fmt.Errorf("template %s targets: %w", t.ID, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// PutSpecialEvent inserts or replaces a special event.
func (s *SQLiteStore) PutSpecialEvent(ctx context.Context, e model.SpecialEvent) (*model.SpecialEvent, error) {
	e.Week = strings.TrimSpace(e.Week)
	if e.Week == "" || e.TemplateID == "" {
		return nil, fmt.Errorf("special event needs a week and a template")
	}
	if e.ID == "" {
		e.ID = s.newID()
	}
	if err := upsertSpecialEvent(ctx, s.db, e); err != nil {
		return nil, err
	}
	return &e, nil
}

func upsertSpecialEvent(ctx context.Context, db execer, e model.SpecialEvent) error {
	var reduction *string
	if e.TimeReduction != nil {
		r, err := marshalJSON(e.TimeReduction)
		if err != nil {
			return err
		}
		reduction = r
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO special_events (id, week, template_id, theme, assigned_to, duration, time_reduction)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET week = excluded.week, template_id = excluded.template_id,
		   theme = excluded.theme, assigned_to = excluded.assigned_to, duration = excluded.duration,
		   time_reduction = excluded.time_reduction`,
		e.ID, e.Week, e.TemplateID, e.Theme, e.AssignedTo, nullInt(e.Duration), reduction)
	if err != nil {
		return fmt.Errorf("upsert special event: %w", err)
	}
	return nil
}

// SpecialEvents lists special events, restricted to one week when week is set.
func (s *SQLiteStore) SpecialEvents(ctx context.Context, week string) ([]model.SpecialEvent, error) {
	query := `SELECT id, week, template_id, theme, assigned_to, duration, time_reduction FROM special_events`
	var args []interface{}
	if week != "" {
		query += ` WHERE week = ?`
		args = append(args, week)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SpecialEvent
	for rows.Next() {
		var e model.SpecialEvent
		var duration sql.NullInt64
		var reduction sql.NullString
		if err := rows.Scan(&e.ID, &e.Week, &e.TemplateID, &e.Theme, &e.AssignedTo, &duration, &reduction); err != nil {
			return nil, err
		}
		e.Duration = intPtr(duration)
		if reduction.Valid && reduction.String != "" {
			e.TimeReduction = &model.TimeReduction{}
			if err := unmarshalJSON(reduction, e.TimeReduction); err != nil {
				return nil, fmt.Errorf("special event %s reduction: %w", e.ID, err)
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteSpecialEvent(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM special_events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res, "special event", id)
}
