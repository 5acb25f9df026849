package server

import (
	"context"

	"github.com/agenthands/concord/internal/archive"
	"github.com/agenthands/concord/internal/core/brief"
	"github.com/agenthands/concord/internal/core/model"
)

type MockBriefer struct {
	Result *brief.Brief
	Err    error
	Groups []model.ConflictGroup
}

func (m *MockBriefer) Brief(ctx context.Context, groups []model.ConflictGroup, summary model.Summary) (*brief.Brief, error) {
	m.Groups = groups
	return m.Result, m.Err
}

type MockArchive struct {
	Runs  map[string]*model.Run
	Infos []archive.RunInfo
	Limit int
	Err   error
}

func (m *MockArchive) ListRuns(ctx context.Context, limit int) ([]archive.RunInfo, error) {
	m.Limit = limit
	return m.Infos, m.Err
}

func (m *MockArchive) LoadRun(ctx context.Context, id string) (*model.Run, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	run, ok := m.Runs[id]
	if !ok {
		return nil, archive.ErrNotFound
	}
	return run, nil
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
