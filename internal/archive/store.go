// Package archive keeps a history of detection runs in SQLite.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/agenthands/concord/internal/core/model"
)

// ErrNotFound is returned by LoadRun for an unknown run id.
var ErrNotFound = errors.New("run not found")

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Store struct {
	db *sqlx.DB
}

// RunInfo is a run without its conflicts.
type RunInfo struct {
	ID          string        `json:"id"`
	GeneratedAt time.Time     `json:"generatedAt"`
	Summary     model.Summary `json:"summary"`
}

type runRow struct {
	ID               string `db:"id"`
	GeneratedAt      string `db:"generated_at"`
	TotalConflicts   int    `db:"total_conflicts"`
	HighSeverity     int    `db:"high_severity"`
	MediumSeverity   int    `db:"medium_severity"`
	LowSeverity      int    `db:"low_severity"`
	AffectedEntities int    `db:"affected_entities"`
}

type groupRow struct {
	RunID    string `db:"run_id"`
	ID       string `db:"id"`
	Position int    `db:"position"`
	Title    string `db:"title"`
	Severity string `db:"severity"`
}

type detailRow struct {
	RunID        string `db:"run_id"`
	GroupID      string `db:"group_id"`
	Position     int    `db:"position"`
	Field        string `db:"field"`
	ConflictType string `db:"conflict_type"`
	Severity     string `db:"severity"`
	Description  string `db:"description"`
	Values       string `db:"conflict_values"`
}

type entityRow struct {
	RunID    string `db:"run_id"`
	GroupID  string `db:"group_id"`
	Position int    `db:"position"`
	EntityID string `db:"entity_id"`
	Name     string `db:"name"`
	Type     string `db:"type"`
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// SQLite allows one writer; a single connection also keeps :memory: databases alive.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(SchemaSQL); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "apply schema")
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun stores a run and all of its conflicts in one transaction.
func (s *Store) SaveRun(ctx context.Context, run *model.Run) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	row := runRow{
		ID:               run.ID,
		GeneratedAt:      run.GeneratedAt.UTC().Format(timeLayout),
		TotalConflicts:   run.Summary.TotalConflicts,
		HighSeverity:     run.Summary.HighSeverity,
		MediumSeverity:   run.Summary.MediumSeverity,
		LowSeverity:      run.Summary.LowSeverity,
		AffectedEntities: run.Summary.AffectedEntities,
	}
	if _, err := tx.NamedExecContext(ctx, `
		INSERT INTO runs (id, generated_at, total_conflicts, high_severity, medium_severity, low_severity, affected_entities)
		VALUES (:id, :generated_at, :total_conflicts, :high_severity, :medium_severity, :low_severity, :affected_entities)`, row); err != nil {
		return errors.Wrapf(err, "insert run %s", run.ID)
	}

	for gi, g := range run.Conflicts {
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO conflict_groups (run_id, id, position, title, severity)
			VALUES (:run_id, :id, :position, :title, :severity)`,
			groupRow{RunID: run.ID, ID: g.ID, Position: gi, Title: g.Title, Severity: string(g.Severity)}); err != nil {
			return errors.Wrapf(err, "insert conflict group %s", g.ID)
		}

		for ei, e := range g.Entities {
			if _, err := tx.NamedExecContext(ctx, `
				INSERT INTO group_entities (run_id, group_id, position, entity_id, name, type)
				VALUES (:run_id, :group_id, :position, :entity_id, :name, :type)`,
				entityRow{RunID: run.ID, GroupID: g.ID, Position: ei, EntityID: e.ID, Name: e.Name, Type: e.Type}); err != nil {
				return errors.Wrapf(err, "insert entity of group %s", g.ID)
			}
		}

		for di, d := range g.ConflictDetails {
			values, err := json.Marshal(d.Values)
			if err != nil {
				return errors.Wrap(err, "encode conflict values")
			}
			if _, err := tx.NamedExecContext(ctx, `
				INSERT INTO conflict_details (run_id, group_id, position, field, conflict_type, severity, description, conflict_values)
				VALUES (:run_id, :group_id, :position, :field, :conflict_type, :severity, :description, :conflict_values)`,
				detailRow{
					RunID:        run.ID,
					GroupID:      g.ID,
					Position:     di,
					Field:        d.Field,
					ConflictType: string(d.ConflictType),
					Severity:     string(d.Severity),
					Description:  d.Description,
					Values:       string(values),
				}); err != nil {
				return errors.Wrapf(err, "insert detail of group %s", g.ID)
			}
		}
	}

	return errors.Wrap(tx.Commit(), "commit run")
}

// ListRuns returns the newest runs first. A limit of zero or less returns all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunInfo, error) {
	if limit <= 0 {
		limit = -1
	}
	var rows []runRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM runs ORDER BY generated_at DESC, id LIMIT ?`, limit); err != nil {
		return nil, errors.Wrap(err, "list runs")
	}

	runs := make([]RunInfo, 0, len(rows))
	for _, r := range rows {
		info, err := r.info()
		if err != nil {
			return nil, err
		}
		runs = append(runs, info)
	}
	return runs, nil
}

// LoadRun rebuilds a stored run.
func (s *Store) LoadRun(ctx context.Context, id string) (*model.Run, error) {
	var row runRow
	if err := s.db.GetContext(ctx, &row, `SELECT * FROM runs WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(ErrNotFound, id)
		}
		return nil, errors.Wrapf(err, "load run %s", id)
	}
	info, err := row.info()
	if err != nil {
		return nil, err
	}

	var groups []groupRow
	if err := s.db.SelectContext(ctx, &groups,
		`SELECT * FROM conflict_groups WHERE run_id = ? ORDER BY position`, id); err != nil {
		return nil, errors.Wrapf(err, "load groups of run %s", id)
	}
	var entities []entityRow
	if err := s.db.SelectContext(ctx, &entities,
		`SELECT * FROM group_entities WHERE run_id = ? ORDER BY group_id, position`, id); err != nil {
		return nil, errors.Wrapf(err, "load entities of run %s", id)
	}
	var details []detailRow
	if err := s.db.SelectContext(ctx, &details,
		`SELECT * FROM conflict_details WHERE run_id = ? ORDER BY group_id, position`, id); err != nil {
		return nil, errors.Wrapf(err, "load details of run %s", id)
	}

	byGroup := make(map[string]*model.ConflictGroup, len(groups))
	run := &model.Run{ID: info.ID, GeneratedAt: info.GeneratedAt, Summary: info.Summary}
	run.Conflicts = make([]model.ConflictGroup, len(groups))
	for i, g := range groups {
		run.Conflicts[i] = model.ConflictGroup{ID: g.ID, Title: g.Title, Severity: model.Severity(g.Severity)}
		byGroup[g.ID] = &run.Conflicts[i]
	}
	for _, e := range entities {
		if g, ok := byGroup[e.GroupID]; ok {
			g.Entities = append(g.Entities, model.EntityRef{ID: e.EntityID, Name: e.Name, Type: e.Type})
		}
	}
	for _, d := range details {
		g, ok := byGroup[d.GroupID]
		if !ok {
			continue
		}
		var values []model.ConflictValue
		if err := json.Unmarshal([]byte(d.Values), &values); err != nil {
			return nil, errors.Wrapf(err, "decode values of group %s", d.GroupID)
		}
		g.ConflictDetails = append(g.ConflictDetails, model.ConflictDetail{
			Field:        d.Field,
			Values:       values,
			ConflictType: model.ConflictType(d.ConflictType),
			Severity:     model.Severity(d.Severity),
			Description:  d.Description,
		})
	}
	return run, nil
}

func (r runRow) info() (RunInfo, error) {
	at, err := time.Parse(timeLayout, r.GeneratedAt)
	if err != nil {
		return RunInfo{}, errors.Wrapf(err, "parse generated_at of run %s", r.ID)
	}
	return RunInfo{
		ID:          r.ID,
		GeneratedAt: at,
		Summary: model.Summary{
			TotalConflicts:   r.TotalConflicts,
			HighSeverity:     r.HighSeverity,
			MediumSeverity:   r.MediumSeverity,
			LowSeverity:      r.LowSeverity,
			AffectedEntities: r.AffectedEntities,
		},
	}, nil
}
