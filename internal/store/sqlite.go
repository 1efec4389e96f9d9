package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/meeting-planner/internal/model"
	"github.com/rcliao/meeting-planner/internal/weekdate"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy *rand.Rand
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

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS participations (
		id             TEXT PRIMARY KEY,
		week           TEXT NOT NULL,
		date           TEXT NOT NULL,
		part_title     TEXT NOT NULL,
		type           TEXT NOT NULL,
		publisher_name TEXT NOT NULL DEFAULT '',
		sort_order     REAL NOT NULL DEFAULT 0,
		duration       INTEGER,
		part_number    INTEGER,
		created_at     TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_participations_week ON participations(week);
	CREATE INDEX IF NOT EXISTS idx_participations_publisher ON participations(publisher_name);
	CREATE INDEX IF NOT EXISTS idx_participations_type ON participations(type);

	CREATE TABLE IF NOT EXISTS publishers (
		id                       TEXT PRIMARY KEY,
		name                     TEXT NOT NULL,
		aliases                  TEXT,
		age_group                TEXT NOT NULL DEFAULT 'Adulto',
		parent_ids               TEXT,
		can_pair_with_non_parent INTEGER NOT NULL DEFAULT 0,
		is_serving               INTEGER,
		availability             TEXT,
		phone                    TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_publishers_name ON publishers(name);

	CREATE TABLE IF NOT EXISTS event_templates (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		action       TEXT NOT NULL,
		target_types TEXT
	);

	CREATE TABLE IF NOT EXISTS special_events (
		id             TEXT PRIMARY KEY,
		week           TEXT NOT NULL,
		template_id    TEXT NOT NULL,
		theme          TEXT NOT NULL,
		assigned_to    TEXT NOT NULL DEFAULT '',
		duration       INTEGER,
		time_reduction TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_special_events_week ON special_events(week);

	CREATE TABLE IF NOT EXISTS history_backups (
		id             TEXT PRIMARY KEY,
		week           TEXT NOT NULL UNIQUE,
		participations TEXT NOT NULL,
		imported_at    TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// prepare fills the derived fields of a record before it is written.
func (s *SQLiteStore) prepare(p *model.Participation) error {
	p.Week = strings.TrimSpace(p.Week)
	p.PartTitle = strings.TrimSpace(p.PartTitle)
	p.PublisherName = strings.TrimSpace(p.PublisherName)
	if p.Week == "" || p.PartTitle == "" {
		return fmt.Errorf("week and part title are required")
	}
	if p.PublisherName == "" && !model.AllowsNamelessPublisher(p.PartTitle) {
		return fmt.Errorf("part %q needs a publisher", p.PartTitle)
	}
	if p.Type == "" {
		p.Type = model.InferType(p.PartTitle)
	}
	if !model.ValidTypes[p.Type] {
		return fmt.Errorf("unknown participation type %q", p.Type)
	}
	if p.Date == "" {
		p.Date = weekdate.CalculatePartDate(p.Week)
	}
	if p.ID == "" {
		p.ID = s.newID()
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func insertParticipation(ctx context.Context, db execer, p model.Participation) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO participations (id, week, date, part_title, type, publisher_name, sort_order, duration, part_number, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Week, p.Date, p.PartTitle, string(p.Type), p.PublisherName, p.Order,
		nullInt(p.Duration), nullInt(p.PartNumber), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert participation: %w", err)
	}
	return nil
}

func (s *SQLiteStore) AddParticipation(ctx context.Context, p model.Participation) (*model.Participation, error) {
	if err := s.prepare(&p); err != nil {
		return nil, err
	}
	if err := insertParticipation(ctx, s.db, p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *SQLiteStore) UpdateParticipation(ctx context.Context, p model.Participation) error {
	if p.ID == "" {
		return fmt.Errorf("participation id is required")
	}
	if err := s.prepare(&p); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE participations SET week = ?, date = ?, part_title = ?, type = ?, publisher_name = ?,
		        sort_order = ?, duration = ?, part_number = ?
		 WHERE id = ?`,
		p.Week, p.Date, p.PartTitle, string(p.Type), p.PublisherName, p.Order,
		nullInt(p.Duration), nullInt(p.PartNumber), p.ID)
	if err != nil {
		return fmt.Errorf("update participation: %w", err)
	}
	return requireAffected(res, "participation", p.ID)
}

const participationColumns = `id, week, date, part_title, type, publisher_name, sort_order, duration, part_number`

func (s *SQLiteStore) GetParticipation(ctx context.Context, id string) (*model.Participation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+participationColumns+` FROM participations WHERE id = ?`, id)
	p, err := scanParticipation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("participation %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *SQLiteStore) ListParticipations(ctx context.Context, p ListParams) ([]model.Participation, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 100
	}

	where := []string{"1 = 1"}
	args := []interface{}{}
	if p.Week != "" {
		where = append(where, "week = ?")
		args = append(args, p.Week)
	}
	if p.Publisher != "" {
		where = append(where, "publisher_name = ? COLLATE NOCASE")
		args = append(args, p.Publisher)
	}
	if p.Type != "" {
		where = append(where, "type = ?")
		args = append(args, string(p.Type))
	}

	query := fmt.Sprintf(`
		SELECT %s FROM participations
		WHERE %s
		ORDER BY date DESC, sort_order ASC, rowid ASC
		LIMIT ?`, participationColumns, strings.Join(where, " AND "))
	args = append(args, limit)

	return s.queryParticipations(ctx, query, args...)
}

func (s *SQLiteStore) WeekParticipations(ctx context.Context, week string) ([]model.Participation, error) {
	return s.queryParticipations(ctx,
		`SELECT `+participationColumns+` FROM participations WHERE week = ? ORDER BY sort_order ASC, rowid ASC`, week)
}

func (s *SQLiteStore) DeleteParticipation(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM participations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res, "participation", id)
}

func (s *SQLiteStore) DeleteWeek(ctx context.Context, week string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM participations WHERE week = ?`, week)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) Weeks(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT week FROM participations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var weeks []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, err
		}
		weeks = append(weeks, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortWeeks(weeks)
	return weeks, nil
}

func (s *SQLiteStore) ImportBatch(ctx context.Context, records []model.Participation) ([]model.Participation, error) {
	prepared := make([]model.Participation, len(records))
	copy(prepared, records)
	for i := range prepared {
		if err := s.prepare(&prepared[i]); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	for _, p := range prepared {
		if err := insertParticipation(ctx, tx, p); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return prepared, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) queryParticipations(ctx context.Context, query string, args ...interface{}) ([]model.Participation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Participation
	for rows.Next() {
		p, err := scanParticipation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanParticipation(row scanner) (model.Participation, error) {
	var p model.Participation
	var typ string
	var duration, partNumber sql.NullInt64

	err := row.Scan(&p.ID, &p.Week, &p.Date, &p.PartTitle, &typ, &p.PublisherName,
		&p.Order, &duration, &partNumber)
	if err != nil {
		return p, err
	}
	p.Type = model.ParticipationType(typ)
	p.Duration = intPtr(duration)
	p.PartNumber = intPtr(partNumber)
	return p, nil
}

func requireAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}

func sortWeeks(weeks []string) {
	sort.SliceStable(weeks, func(i, j int) bool {
		return weekdate.SortKey(weeks[i]) < weekdate.SortKey(weeks[j])
	})
}

func nullInt(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func marshalJSON(v interface{}) (*string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

func unmarshalJSON(ns sql.NullString, v interface{}) error {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(ns.String), v)
}
