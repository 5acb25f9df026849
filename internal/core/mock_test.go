package core

import (
	"context"

	"github.com/agenthands/concord/internal/core/model"
)

type MockSink struct {
	RunID  string
	Groups []model.ConflictGroup
	Err    error
}

func (m *MockSink) SaveGroups(ctx context.Context, runID string, groups []model.ConflictGroup) error {
	m.RunID = runID
	m.Groups = groups
	return m.Err
}

type MockStore struct {
	Runs []*model.Run
	Err  error
}

func (m *MockStore) SaveRun(ctx context.Context, run *model.Run) error {
	if m.Err != nil {
		return m.Err
	}
	m.Runs = append(m.Runs, run)
	return nil
}
