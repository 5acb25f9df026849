package core

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/agenthands/concord/internal/core/model"
)

// ConflictSink receives the conflict groups of a run, e.g. the graph database.
type ConflictSink interface {
	SaveGroups(ctx context.Context, runID string, groups []model.ConflictGroup) error
}

// RunStore keeps a history of runs.
type RunStore interface {
	SaveRun(ctx context.Context, run *model.Run) error
}

// Service wraps a Detector with run bookkeeping and optional persistence.
type Service struct {
	Detector *Detector
	Sink     ConflictSink
	Store    RunStore

	UUIDGenerator func() string
	Now           func() time.Time
	// OnRun is told about every finished run.
	OnRun func(elapsed time.Duration, summary model.Summary)
}

func NewService(d *Detector) *Service {
	return &Service{
		Detector:      d,
		UUIDGenerator: func() string { return uuid.New().String() },
		Now:           time.Now,
	}
}

// Run detects conflicts and summarizes them. It never fails.
func (s *Service) Run(records []model.Record) *model.Run {
	start := s.Now()
	groups := s.Detector.Detect(records)
	if groups == nil {
		groups = []model.ConflictGroup{}
	}
	run := &model.Run{
		ID:          s.UUIDGenerator(),
		GeneratedAt: start.UTC(),
		Summary:     s.Detector.Summary(groups),
		Conflicts:   groups,
	}
	if s.OnRun != nil {
		s.OnRun(s.Now().Sub(start), run.Summary)
	}
	return run
}

// Persist runs detection and writes the result to every configured backend.
// The run is returned even when a backend fails.
func (s *Service) Persist(ctx context.Context, records []model.Record) (*model.Run, error) {
	run := s.Run(records)

	if s.Sink != nil {
		if err := s.Sink.SaveGroups(ctx, run.ID, run.Conflicts); err != nil {
			return run, errors.Wrap(err, "failed to write conflicts to graph")
		}
	}
	if s.Store != nil {
		if err := s.Store.SaveRun(ctx, run); err != nil {
			return run, errors.Wrap(err, "failed to archive run")
		}
	}
	return run, nil
}
