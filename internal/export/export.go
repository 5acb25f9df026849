// Package export serializes a detection run for downstream tools.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/agenthands/concord/internal/core/cluster"
	"github.com/agenthands/concord/internal/core/model"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// Document is the exported shape of a run.
type Document struct {
	RunID       string                `json:"runId,omitempty" yaml:"runId,omitempty"`
	GeneratedAt time.Time             `json:"generatedAt" yaml:"generatedAt"`
	Summary     model.Summary         `json:"summary" yaml:"summary"`
	Conflicts   []model.ConflictGroup `json:"conflicts" yaml:"conflicts"`
	Clusters    []cluster.Cluster     `json:"clusters" yaml:"clusters"`
}

// NewDocument wraps a run and derives its clusters.
func NewDocument(run *model.Run) *Document {
	conflicts := run.Conflicts
	if conflicts == nil {
		conflicts = []model.ConflictGroup{}
	}
	clusters := cluster.Components(conflicts)
	if clusters == nil {
		clusters = []cluster.Cluster{}
	}
	return &Document{
		RunID:       run.ID,
		GeneratedAt: run.GeneratedAt,
		Summary:     run.Summary,
		Conflicts:   conflicts,
		Clusters:    clusters,
	}
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", errors.Errorf("unsupported export format %q", s)
}

// ContentType is the MIME type of a format.
func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatCSV:
		return "text/csv"
	}
	return "application/json"
}

// Extension is the file extension of a format, without the dot.
func (f Format) Extension() string {
	return string(f)
}

func Write(w io.Writer, doc *Document, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(doc), "encode json")
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return errors.Wrap(err, "encode yaml")
		}
		return errors.Wrap(enc.Close(), "encode yaml")
	case FormatCSV:
		return writeCSV(w, doc)
	}
	return errors.Errorf("unsupported export format %q", format)
}

var csvHeader = []string{
	"conflict_id", "title", "conflict_severity", "field", "conflict_type",
	"severity", "entity_id", "entity_name", "value",
}

// writeCSV emits one row per conflicting value.
func writeCSV(w io.Writer, doc *Document) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return errors.Wrap(err, "write csv header")
	}
	for _, g := range doc.Conflicts {
		for _, d := range g.ConflictDetails {
			for _, v := range d.Values {
				row := []string{
					g.ID, g.Title, string(g.Severity), d.Field, string(d.ConflictType),
					string(d.Severity), v.EntityID, v.EntityName, v.Value,
				}
				if err := cw.Write(row); err != nil {
					return errors.Wrap(err, "write csv row")
				}
			}
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv")
}
