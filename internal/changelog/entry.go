// Package changelog renders weekly entries and maintains the markdown
// changelog document. Entries are keyed by ISO week: one entry per week,
// newest first, inserted after the document header.
package changelog

import (
	"fmt"
	"strings"
	"time"

	"github.com/gitweekly/gitweekly/internal/language"
)

// Statistics is the optional extended-analysis block of an entry.
type Statistics struct {
	LinesAdded   int
	LinesDeleted int
	FilesChanged int

	// FileChanges is the grouped file summary, already capped for size.
	// Empty means the file-changes section is omitted.
	FileChanges string
}

// Entry is one weekly changelog section, ready to render.
type Entry struct {
	Week        int
	Year        int
	Date        time.Time
	CommitCount int
	ChunkCount  int

	Technical string
	Business  string
	Links     []string

	Stats  *Statistics
	Forced bool
}

// WeekOf returns the ISO week identity for t.
func WeekOf(t time.Time) (year, week int) {
	return t.ISOWeek()
}

// Header returns the `## ...` week header line without any force suffix.
// Duplicate detection matches on this prefix.
func (e Entry) Header(labels language.Labels) string {
	return fmt.Sprintf("## %s %d, %d", labels.WeekLabel, e.Week, e.Year)
}

// Render produces the full markdown section for the entry, ending with a
// horizontal rule.
func (e Entry) Render(labels language.Labels) string {
	header := e.Header(labels)
	if e.Forced {
		header += " " + labels.ForceUpdated
	}

	parts := []string{
		header,
		"",
		fmt.Sprintf("*%s %s - %d %s*", labels.GeneratedOn, labels.FormatDate(e.Date), e.CommitCount, labels.CommitsLabel),
	}

	if e.ChunkCount > 1 {
		parts = append(parts, fmt.Sprintf(
			"> 📊 **Note**: This changelog was generated by analyzing %d commits across %d detailed chunks for comprehensive, high-quality coverage.",
			e.CommitCount, e.ChunkCount))
	}

	parts = append(parts,
		"",
		fmt.Sprintf("### %s", labels.TechChanges),
		e.Technical,
		"",
		fmt.Sprintf("### %s", labels.UserImpact),
		e.Business,
	)

	if e.Stats != nil {
		parts = append(parts,
			"",
			fmt.Sprintf("### %s", labels.Statistics),
			fmt.Sprintf("- **%d** %s", e.Stats.LinesAdded, labels.LinesAdded),
			fmt.Sprintf("- **%d** %s", e.Stats.LinesDeleted, labels.LinesDeleted),
			fmt.Sprintf("- **%d** %s", e.Stats.FilesChanged, labels.FilesChanged),
		)
		if e.Stats.FileChanges != "" {
			parts = append(parts,
				"",
				fmt.Sprintf("### %s", labels.FileChanges),
				e.Stats.FileChanges,
			)
		}
	}

	parts = append(parts,
		"",
		fmt.Sprintf("### %s", labels.AllCommits),
		strings.Join(e.Links, "\n"),
		"",
		"---",
	)

	return strings.Join(parts, "\n")
}
