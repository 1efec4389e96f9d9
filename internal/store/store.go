// Package store provides the schedule storage interface and SQLite implementation.
package store

import (
	"context"
	"errors"

	"github.com/rcliao/meeting-planner/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ListParams holds filters for listing participations.
type ListParams struct {
	Week      string
	Publisher string
	Type      model.ParticipationType
	Limit     int
}

// Store defines the participation storage interface.
type Store interface {
	// AddParticipation stores a new record, filling ID, type and date when missing.
	AddParticipation(ctx context.Context, p model.Participation) (*model.Participation, error)

	// UpdateParticipation replaces an existing record.
	UpdateParticipation(ctx context.Context, p model.Participation) error

	// GetParticipation retrieves a record by ID.
	GetParticipation(ctx context.Context, id string) (*model.Participation, error)

	// ListParticipations lists records matching the given filters, newest week first.
	ListParticipations(ctx context.Context, p ListParams) ([]model.Participation, error)

	// WeekParticipations returns one week's records in agenda order.
	WeekParticipations(ctx context.Context, week string) ([]model.Participation, error)

	// DeleteParticipation removes a single record.
	DeleteParticipation(ctx context.Context, id string) error

	// DeleteWeek removes every record of a week and returns how many were removed.
	DeleteWeek(ctx context.Context, week string) (int64, error)

	// Weeks lists the stored week labels in chronological order.
	Weeks(ctx context.Context) ([]string, error)

	// ImportBatch inserts records atomically.
	ImportBatch(ctx context.Context, records []model.Participation) ([]model.Participation, error)

	// Close closes the store.
	Close() error
}

var _ Store = (*SQLiteStore)(nil)
