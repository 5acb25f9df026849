package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/agenthands/concord/internal/core/cluster"
	"github.com/agenthands/concord/internal/core/model"
	"github.com/agenthands/concord/internal/core/textnorm"
)

const cellMaxLength = 60

var (
	highColor   = color.New(color.FgRed, color.Bold)
	mediumColor = color.New(color.FgYellow)
	lowColor    = color.New(color.FgCyan)
	okColor     = color.New(color.FgGreen)
)

func severityLabel(s model.Severity) string {
	switch s {
	case model.SeverityHigh:
		return highColor.Sprint(strings.ToUpper(string(s)))
	case model.SeverityMedium:
		return mediumColor.Sprint(strings.ToUpper(string(s)))
	default:
		return lowColor.Sprint(strings.ToUpper(string(s)))
	}
}

// renderTable prints one row per conflict detail, followed by the summary
// and the clusters that span more than two records.
func renderTable(w io.Writer, run *model.Run) error {
	if len(run.Conflicts) == 0 {
		okColor.Fprintln(w, "No conflicts found.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("#", "Severity", "Conflict", "Field", "Type", "Values")
	for i, g := range run.Conflicts {
		for _, d := range g.ConflictDetails {
			values := make([]string, len(d.Values))
			for k, v := range d.Values {
				values[k] = fmt.Sprintf("%s: %s", v.EntityID, textnorm.Truncate(v.Value, cellMaxLength))
			}
			_ = table.Append([]string{
				strconv.Itoa(i + 1),
				severityLabel(d.Severity),
				textnorm.Truncate(g.Title, cellMaxLength),
				d.Field,
				string(d.ConflictType),
				strings.Join(values, "\n"),
			})
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	renderSummary(w, run.Summary)

	for _, c := range cluster.Components(run.Conflicts) {
		if len(c.Entities) > 2 {
			fmt.Fprintf(w, "Cluster (%s): %d records linked by %d conflicts\n",
				severityLabel(c.Severity), len(c.Entities), len(c.ConflictIDs))
		}
	}
	return nil
}

func renderSummary(w io.Writer, s model.Summary) {
	fmt.Fprintf(w, "%d conflicts: %s high, %s medium, %s low across %d records\n",
		s.TotalConflicts,
		highColor.Sprint(s.HighSeverity),
		mediumColor.Sprint(s.MediumSeverity),
		lowColor.Sprint(s.LowSeverity),
		s.AffectedEntities)
}
