package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/pkg/errors"

	"github.com/agenthands/concord/internal/core/model"
)

// GraphDriver is the Cypher endpoint the sink writes through. MemgraphDriver
// is the production implementation.
type GraphDriver interface {
	ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error)
	BuildIndices(ctx context.Context) error
	Close(ctx context.Context) error
}

// GraphSink writes detection results into the knowledge graph so conflicting
// records can be reconciled in place.
type GraphSink struct {
	Driver GraphDriver
	Now    func() time.Time
}

func NewGraphSink(d GraphDriver) *GraphSink {
	return &GraphSink{Driver: d, Now: time.Now}
}

// ConflictRef is a conflict read back from the graph.
type ConflictRef struct {
	ID       string `json:"id"`
	RunID    string `json:"runId"`
	Title    string `json:"title"`
	Severity string `json:"severity"`
}

// RecordKey is the graph identity of an entity. Records without an id get a
// key local to their group so they never merge with each other.
func RecordKey(groupID string, index int, e model.EntityRef) string {
	if e.ID == "" || e.ID == model.UnknownKey {
		return fmt.Sprintf("%s/%s#%d", model.UnknownKey, groupID, index)
	}
	return e.ID
}

func (s *GraphSink) SaveGroups(ctx context.Context, runID string, groups []model.ConflictGroup) error {
	now := s.Now().UTC()
	for _, g := range groups {
		entities := make([]map[string]interface{}, len(g.Entities))
		keys := make([]string, len(g.Entities))
		for i, e := range g.Entities {
			keys[i] = RecordKey(g.ID, i, e)
			entities[i] = map[string]interface{}{
				"key":  keys[i],
				"id":   e.ID,
				"name": e.Name,
				"type": e.Type,
			}
		}
		types := make([]string, len(g.ConflictDetails))
		for i, d := range g.ConflictDetails {
			types[i] = string(d.ConflictType)
		}

		params := map[string]interface{}{
			"id":             g.ID,
			"run_id":         runID,
			"title":          g.Title,
			"severity":       string(g.Severity),
			"detail_count":   len(g.ConflictDetails),
			"conflict_types": types,
			"created_at":     now,
			"entities":       entities,
		}
		if _, err := s.Driver.ExecuteQuery(ctx, SaveConflictQuery, params); err != nil {
			return errors.Wrapf(err, "failed to save conflict %s", g.ID)
		}

		if len(keys) < 2 {
			continue
		}
		links := make([]map[string]interface{}, 0, len(keys)-1)
		for i := 1; i < len(keys); i++ {
			links = append(links, map[string]interface{}{"source": keys[i-1], "target": keys[i]})
		}
		linkParams := map[string]interface{}{
			"conflict_id": g.ID,
			"run_id":      runID,
			"severity":    string(g.Severity),
			"links":       links,
		}
		if _, err := s.Driver.ExecuteQuery(ctx, LinkConflictingRecordsQuery, linkParams); err != nil {
			return errors.Wrapf(err, "failed to link records of conflict %s", g.ID)
		}
	}
	return nil
}

// ClearRun removes every conflict node and edge written for runID.
func (s *GraphSink) ClearRun(ctx context.Context, runID string) error {
	params := map[string]interface{}{"run_id": runID}
	if _, err := s.Driver.ExecuteQuery(ctx, ClearRunEdgesQuery, params); err != nil {
		return errors.Wrapf(err, "failed to clear conflict edges of run %s", runID)
	}
	if _, err := s.Driver.ExecuteQuery(ctx, ClearRunConflictsQuery, params); err != nil {
		return errors.Wrapf(err, "failed to clear conflicts of run %s", runID)
	}
	return nil
}

// RecordConflicts lists the stored conflicts involving a record.
func (s *GraphSink) RecordConflicts(ctx context.Context, recordID string) ([]ConflictRef, error) {
	result, err := s.Driver.ExecuteQuery(ctx, RecordConflictsQuery, map[string]interface{}{"id": recordID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load conflicts of record %s", recordID)
	}

	var refs []ConflictRef
	for _, rec := range result.Records {
		refs = append(refs, ConflictRef{
			ID:       stringValue(rec.Get("id")),
			RunID:    stringValue(rec.Get("run_id")),
			Title:    stringValue(rec.Get("title")),
			Severity: stringValue(rec.Get("severity")),
		})
	}
	return refs, nil
}

func stringValue(v interface{}, ok bool) string {
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
