// Package gitlog extracts commit records and change statistics from a git
// repository using go-git. It replaces the shell glue that would otherwise
// pipe `git log` output into the pipeline: records come straight from the
// object store, newest first, bounded by a time window.
package gitlog

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/gitweekly/gitweekly/internal/commit"
)

const (
	// File-changes context is capped before prompt inclusion to keep
	// requests under provider payload limits.
	maxFileContextChars = 5000

	// Groups with more than maxInlineFiles entries collapse to a count
	// plus the first maxGroupExamples names.
	maxInlineFiles   = 3
	maxGroupExamples = 2
)

// dateLayout is the format commit dates are rendered with in records.
const dateLayout = "2006-01-02"

// openRepo opens a git repository at the specified path or current working
// directory. DetectDotGit lets it traverse up the directory tree to find
// the repository root, so any subdirectory of a checkout works.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	return repo, nil
}

// Collect walks the repository log from HEAD, newest first, and returns a
// record for every commit committed at or after since. Merge commits are
// included; the subject is the first line of the message.
func Collect(path string, since time.Time) ([]commit.Record, error) {
	repo, err := openRepo(path)
	if err != nil {
		return nil, err
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("getting HEAD reference: %w", err)
	}

	iter, err := repo.Log(&git.LogOptions{
		From:  head.Hash(),
		Since: &since,
		Order: git.LogOrderCommitterTime,
	})
	if err != nil {
		return nil, fmt.Errorf("walking commit log: %w", err)
	}
	defer iter.Close()

	var records []commit.Record
	err = iter.ForEach(func(c *object.Commit) error {
		records = append(records, recordFromCommit(c))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading commits: %w", err)
	}

	return records, nil
}

func recordFromCommit(c *object.Commit) commit.Record {
	full := c.Hash.String()
	subject := c.Message
	if i := strings.IndexByte(subject, '\n'); i >= 0 {
		subject = subject[:i]
	}
	return commit.Record{
		FullHash:  full,
		Subject:   strings.TrimSpace(subject),
		Author:    c.Author.Name,
		Date:      c.Author.When.Format(dateLayout),
		ShortHash: full[:7],
	}
}

// RemoteURL returns a browsable https URL for the origin remote,
// normalizing ssh-style remotes. Used for commit links in the changelog.
func RemoteURL(path string) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return "", fmt.Errorf("getting origin remote: %w", err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("origin remote has no URL")
	}
	return normalizeRemoteURL(urls[0]), nil
}

func normalizeRemoteURL(url string) string {
	url = strings.TrimSuffix(url, ".git")
	if rest, ok := strings.CutPrefix(url, "git@"); ok {
		if host, repoPath, found := strings.Cut(rest, ":"); found {
			return "https://" + host + "/" + repoPath
		}
	}
	if rest, ok := strings.CutPrefix(url, "ssh://git@"); ok {
		return "https://" + rest
	}
	return url
}

// Stats aggregates change statistics over a commit range for extended
// analysis: totals across all commits plus the set of touched files.
type Stats struct {
	FilesChanged int
	LinesAdded   int
	LinesDeleted int
	Files        []string
}

// CollectStats walks the same window as Collect and accumulates per-file
// additions and deletions from each commit's diff. Commits whose diffs
// cannot be computed (e.g. partial clones) are skipped rather than failing
// the whole collection.
func CollectStats(path string, since time.Time) (*Stats, error) {
	repo, err := openRepo(path)
	if err != nil {
		return nil, err
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("getting HEAD reference: %w", err)
	}

	iter, err := repo.Log(&git.LogOptions{
		From:  head.Hash(),
		Since: &since,
		Order: git.LogOrderCommitterTime,
	})
	if err != nil {
		return nil, fmt.Errorf("walking commit log: %w", err)
	}
	defer iter.Close()

	stats := &Stats{}
	seen := make(map[string]bool)

	err = iter.ForEach(func(c *object.Commit) error {
		fileStats, statErr := c.Stats()
		if statErr != nil {
			return nil
		}
		for _, fs := range fileStats {
			stats.LinesAdded += fs.Addition
			stats.LinesDeleted += fs.Deletion
			if !seen[fs.Name] {
				seen[fs.Name] = true
				stats.Files = append(stats.Files, fs.Name)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading commit stats: %w", err)
	}

	sort.Strings(stats.Files)
	stats.FilesChanged = len(seen)
	return stats, nil
}

// GroupFiles summarizes a file list by extension so the result stays
// compact enough for prompt inclusion. Files sharing an extension bucket
// under "*.ext files"; extensionless paths under "Config/Other files".
// Small groups list every name; larger ones show a count and the first
// couple of examples.
func GroupFiles(files []string) string {
	groups := make(map[string][]string)
	for _, path := range files {
		if path == "" {
			continue
		}
		key := "Config/Other files"
		base := path
		if i := strings.LastIndexByte(path, '/'); i >= 0 {
			base = path[i+1:]
		}
		if i := strings.LastIndexByte(base, '.'); i > 0 {
			key = fmt.Sprintf("*.%s files", strings.ToLower(base[i+1:]))
		}
		groups[key] = append(groups[key], path)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	var lines []string
	for _, name := range names {
		members := groups[name]
		if len(members) <= maxInlineFiles {
			lines = append(lines, fmt.Sprintf("**%s**: %s", name, strings.Join(members, ", ")))
		} else {
			examples := strings.Join(members[:maxGroupExamples], ", ")
			lines = append(lines, fmt.Sprintf("**%s** (%d files): %s, ...", name, len(members), examples))
		}
	}
	return strings.Join(lines, "\n")
}

// FileContext renders the grouped file summary capped at the prompt
// inclusion limit, reporting whether it was truncated.
func FileContext(files []string) (string, bool) {
	grouped := GroupFiles(files)
	if len(grouped) <= maxFileContextChars {
		return grouped, false
	}
	return grouped[:maxFileContextChars] + "\n... (truncated)", true
}
