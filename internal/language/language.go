// Package language provides per-language label dictionaries for changelog
// rendering. The dictionaries are embedded at build time so the binary
// needs no runtime assets.
package language

import (
	_ "embed"
	"fmt"
	"io"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed labels.yaml
var embeddedLabels []byte

// DefaultLanguage is used when the requested language is unsupported.
const DefaultLanguage = "English"

// Labels holds the language-specific text used in a changelog entry.
type Labels struct {
	WeekLabel        string `yaml:"week_label"`
	GeneratedOn      string `yaml:"generated_on"`
	CommitsLabel     string `yaml:"commits_label"`
	TechChanges      string `yaml:"tech_changes"`
	UserImpact       string `yaml:"user_impact"`
	AllCommits       string `yaml:"all_commits"`
	Statistics       string `yaml:"statistics"`
	FileChanges      string `yaml:"file_changes"`
	ChangelogTitle   string `yaml:"changelog_title"`
	AutoUpdated      string `yaml:"auto_updated"`
	FallbackTech     string `yaml:"fallback_tech"`
	FallbackBusiness string `yaml:"fallback_business"`
	LinesAdded       string `yaml:"lines_added"`
	LinesDeleted     string `yaml:"lines_deleted"`
	FilesChanged     string `yaml:"files_changed"`
	ForceUpdated     string `yaml:"force_updated"`
	// DateFormat is a Go reference-time layout for the per-language date style.
	DateFormat string `yaml:"date_format"`
}

// FormatDate renders t in the language's date style.
func (l Labels) FormatDate(t time.Time) string {
	return t.Format(l.DateFormat)
}

var dictionaries map[string]Labels

func init() {
	if err := yaml.Unmarshal(embeddedLabels, &dictionaries); err != nil {
		panic(fmt.Sprintf("language: embedded labels.yaml is invalid: %v", err))
	}
}

// Supported returns the supported language names, sorted.
func Supported() []string {
	names := make([]string, 0, len(dictionaries))
	for name := range dictionaries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the label set for the given language. Unsupported
// languages fall back to English with a warning on w.
func Lookup(name string, w io.Writer) Labels {
	if labels, ok := dictionaries[name]; ok {
		return labels
	}
	if w != nil {
		fmt.Fprintf(w, "Warning: language %q not supported, falling back to %s\n", name, DefaultLanguage)
		fmt.Fprintf(w, "Supported languages: %v\n", Supported())
	}
	return dictionaries[DefaultLanguage]
}
