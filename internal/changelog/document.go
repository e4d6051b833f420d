package changelog

import (
	"fmt"
	"os"
	"strings"

	"github.com/gitweekly/gitweekly/internal/language"
)

// Document is the changelog file with its in-memory content. Mutations
// happen in memory; Save writes the result back in one pass.
type Document struct {
	path    string
	content string
}

// Load reads the changelog at path, seeding a fresh document with the
// title and auto-update note when the file does not exist yet.
func Load(path string, labels language.Labels) (*Document, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Document{
			path:    path,
			content: fmt.Sprintf("# %s\n\n%s\n", labels.ChangelogTitle, labels.AutoUpdated),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading changelog %s: %w", path, err)
	}
	return &Document{path: path, content: string(data)}, nil
}

// HasWeek reports whether an entry for the same ISO week already exists.
func (d *Document) HasWeek(e Entry, labels language.Labels) bool {
	return strings.Contains(d.content, e.Header(labels))
}

// Upsert inserts the rendered entry after the document header. An existing
// entry for the same week blocks the insert unless the entry is forced, in
// which case the old section is removed first. Returns whether the
// document changed.
func (d *Document) Upsert(e Entry, labels language.Labels) bool {
	if d.HasWeek(e, labels) {
		if !e.Forced {
			return false
		}
		d.removeWeek(e, labels)
	}

	lines := strings.Split(d.content, "\n")
	headerEnd := 0
	for i, line := range lines {
		if strings.HasPrefix(line, "# ") || strings.TrimSpace(line) == labels.AutoUpdated {
			headerEnd = i + 1
		} else if strings.HasPrefix(line, "## ") ||
			(i > 0 && strings.TrimSpace(lines[i-1]) == labels.AutoUpdated) {
			break
		}
	}

	entry := e.Render(labels)
	merged := make([]string, 0, len(lines)+3)
	merged = append(merged, lines[:headerEnd]...)
	merged = append(merged, "", entry, "")
	merged = append(merged, lines[headerEnd:]...)
	d.content = strings.Join(merged, "\n")
	return true
}

// removeWeek drops the section starting at the entry's week header up to
// the next week header, consuming the trailing horizontal rule.
func (d *Document) removeWeek(e Entry, labels language.Labels) {
	header := e.Header(labels)
	var kept []string
	skipping := false
	for _, line := range strings.Split(d.content, "\n") {
		switch {
		case strings.HasPrefix(line, header):
			skipping = true
		case skipping && strings.HasPrefix(line, "## "):
			skipping = false
			kept = append(kept, line)
		case skipping && strings.HasPrefix(line, "---"):
			skipping = false
		case !skipping:
			kept = append(kept, line)
		}
	}
	d.content = strings.Join(kept, "\n")
}

// Content returns the current document text.
func (d *Document) Content() string {
	return d.content
}

// Save writes the document back to its path.
func (d *Document) Save() error {
	if err := os.WriteFile(d.path, []byte(d.content), 0o644); err != nil {
		return fmt.Errorf("writing changelog %s: %w", d.path, err)
	}
	return nil
}
