// Package commit parses pipe-delimited git log records and partitions them
// into bounded chunks for summarization. Records preserve their original
// order; chunk boundaries and final output ordering both depend on it.
package commit

import (
	"fmt"
	"strings"
)

// fieldCount is the number of pipe-delimited fields in a well-formed record:
// full hash, subject, author, date, short hash.
const fieldCount = 5

// Record is a single commit parsed from a pipe-delimited log line.
// A line with fewer than five fields is kept as an opaque raw record:
// Raw holds the original line and the structured fields are empty.
type Record struct {
	FullHash  string
	Subject   string
	Author    string
	Date      string
	ShortHash string

	// Raw is set only for malformed lines that could not be split into
	// the expected fields. Such records degrade in formatting but are
	// never dropped.
	Raw string
}

// IsRaw reports whether the record is an unparsed raw line.
func (r Record) IsRaw() bool {
	return r.Raw != ""
}

// Bullet renders the record as a changelog bullet for prompt context.
func (r Record) Bullet() string {
	if r.IsRaw() {
		return "• " + r.Raw
	}
	return fmt.Sprintf("• %s (%s, %s)", r.Subject, r.Author, r.Date)
}

// Link renders the record as a markdown commit link for the given
// repository URL. Raw records degrade to a plain list item.
func (r Record) Link(repoURL string) string {
	if r.IsRaw() {
		return "- " + r.Raw
	}
	return fmt.Sprintf("- [%s](%s/commit/%s) %s - %s", r.ShortHash, repoURL, r.FullHash, r.Subject, r.Author)
}

// ParseLine parses one log line. Lines without at least five pipe-delimited
// fields come back as raw records.
func ParseLine(line string) Record {
	if !strings.Contains(line, "|") {
		return Record{Raw: line}
	}
	parts := strings.Split(line, "|")
	if len(parts) < fieldCount {
		return Record{Raw: line}
	}
	return Record{
		FullHash:  parts[0],
		Subject:   parts[1],
		Author:    parts[2],
		Date:      parts[3],
		ShortHash: parts[4],
	}
}

// ParseLog parses a raw multi-line commit log into ordered records.
// Blank lines are skipped; everything else is preserved in input order.
func ParseLog(raw string) []Record {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	var records []Record
	for _, line := range strings.Split(trimmed, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		records = append(records, ParseLine(line))
	}
	return records
}

// Bullets renders every record as a prompt bullet, in order.
func Bullets(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Bullet()
	}
	return out
}

// Links renders every record as a markdown commit link, in order.
func Links(records []Record, repoURL string) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Link(repoURL)
	}
	return out
}
