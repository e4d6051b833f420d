package summary

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitweekly/gitweekly/internal/commit"
	"github.com/gitweekly/gitweekly/internal/llm"
	"github.com/gitweekly/gitweekly/internal/redact"
)

// fakeCompleter scripts the external text-generation capability.
type fakeCompleter struct {
	mu      sync.Mutex
	fn      func(req llm.Request) (string, error)
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, req.User)
	f.mu.Unlock()
	return f.fn(req)
}

func (f *fakeCompleter) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func (f *fakeCompleter) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

// validSummary is comfortably above the minimum response length.
const validSummary = "**Overview**: several changes landed this week, covering features, fixes and cleanup work."

func testPolicy(maxRetries int) *llm.Policy {
	return llm.NewPolicy(maxRetries, 0, redact.NewFilter(""), llm.WithSleeper(func(time.Duration) {}))
}

func testRecords(n int) []commit.Record {
	records := make([]commit.Record, n)
	for i := range records {
		records[i] = commit.Record{
			FullHash:  strings.Repeat("a", 8),
			Subject:   "change " + string(rune('a'+i)),
			Author:    "dev",
			Date:      "2026-08-24",
			ShortHash: "aaaa",
		}
	}
	return records
}

func TestGenerator_WholeSet(t *testing.T) {
	fake := &fakeCompleter{fn: func(req llm.Request) (string, error) {
		return validSummary, nil
	}}
	gen := NewGenerator(fake, testPolicy(1), "English", nil)

	got, err := gen.Generate(context.Background(), Input{
		Records:      testRecords(3),
		Kind:         Technical,
		TotalCommits: 3,
	})

	require.NoError(t, err)
	assert.Equal(t, validSummary, got)
	assert.Equal(t, 1, fake.calls())

	prompt := fake.lastPrompt()
	assert.Contains(t, prompt, "Commits:\n")
	assert.Contains(t, prompt, "• change a (dev, 2026-08-24)")
	assert.Contains(t, prompt, "technical summary in English")
	assert.NotContains(t, prompt, "chunk 1 of")
}

func TestGenerator_ChunkContextHeader(t *testing.T) {
	fake := &fakeCompleter{fn: func(req llm.Request) (string, error) {
		return validSummary, nil
	}}
	gen := NewGenerator(fake, testPolicy(1), "English", nil)

	_, err := gen.Generate(context.Background(), Input{
		Records:      testRecords(5),
		Kind:         Business,
		TotalCommits: 11,
		Chunked:      true,
		Ordinal:      1,
		NumChunks:    3,
		Span:         commit.Span{Start: 5, End: 10},
	})

	require.NoError(t, err)
	assert.Contains(t, fake.lastPrompt(), "Commits (chunk 2 of 3, commits 6-10):")
	assert.Contains(t, fake.lastPrompt(), "business impact in English")
}

func TestGenerator_ConciseVersusFullTemplates(t *testing.T) {
	tests := map[string]struct {
		totalCommits int
		wantSection  bool
	}{
		"small set uses concise template":   {totalCommits: 5, wantSection: false},
		"large set uses full template":      {totalCommits: 6, wantSection: true},
		"very large set uses full template": {totalCommits: 150, wantSection: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			fake := &fakeCompleter{fn: func(req llm.Request) (string, error) {
				return validSummary, nil
			}}
			gen := NewGenerator(fake, testPolicy(1), "English", nil)

			_, err := gen.Generate(context.Background(), Input{
				Records:      testRecords(2),
				Kind:         Technical,
				TotalCommits: tc.totalCommits,
			})
			require.NoError(t, err)

			hasSection := strings.Contains(fake.lastPrompt(), "#### Main Changes by Category")
			assert.Equal(t, tc.wantSection, hasSection)
		})
	}
}

func TestGenerator_TokenBudgetScaling(t *testing.T) {
	tests := map[string]struct {
		shared       string
		totalCommits int
		expected     int
	}{
		"extended context gets the largest budget": {"\n\nFile changes summary:\n...", 10, tokenBudgetExtended},
		"large commit volume gets a larger budget": {"", 150, tokenBudgetLargeSet},
		"default budget otherwise":                 {"", 10, tokenBudgetDefault},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			var gotMax int
			fake := &fakeCompleter{fn: func(req llm.Request) (string, error) {
				gotMax = req.MaxTokens
				return validSummary, nil
			}}
			gen := NewGenerator(fake, testPolicy(1), "English", nil)

			_, err := gen.Generate(context.Background(), Input{
				Records:      testRecords(2),
				Shared:       tc.shared,
				Kind:         Technical,
				TotalCommits: tc.totalCommits,
			})
			require.NoError(t, err)
			assert.Equal(t, tc.expected, gotMax)
		})
	}
}

func TestGenerator_ShortResponseRetriedThenFails(t *testing.T) {
	fake := &fakeCompleter{fn: func(req llm.Request) (string, error) {
		return "too short", nil
	}}
	gen := NewGenerator(fake, testPolicy(3), "English", nil)

	_, err := gen.Generate(context.Background(), Input{
		Records:      testRecords(2),
		Kind:         Technical,
		TotalCommits: 2,
	})

	require.Error(t, err)
	assert.Equal(t, 3, fake.calls(), "validation failures are retried like any other")
	assert.Contains(t, err.Error(), "too short")
}

func TestCompleteText_TruncationKeepsValidUTF8(t *testing.T) {
	fake := &fakeCompleter{fn: func(req llm.Request) (string, error) {
		return validSummary, nil
	}}

	// The byte limit lands one byte into a three-byte rune.
	prompt := strings.Repeat("a", maxPromptChars-1) + strings.Repeat("€", 400)
	_, err := completeText(context.Background(), fake, testPolicy(1), completionSpec{
		system:      "s",
		prompt:      prompt,
		maxTokens:   tokenBudgetDefault,
		truncMarker: "[Extended data truncated due to size limits]",
		out:         io.Discard,
	})

	require.NoError(t, err)
	sent := fake.lastPrompt()
	assert.True(t, utf8.ValidString(sent), "truncated prompt must stay valid UTF-8")
	assert.Contains(t, sent, "[Extended data truncated due to size limits]")
	assert.NotContains(t, sent, "€", "the partial rune at the cut must be dropped, not kept")
}

func TestGenerator_OversizedPromptTruncated(t *testing.T) {
	fake := &fakeCompleter{fn: func(req llm.Request) (string, error) {
		return validSummary, nil
	}}
	gen := NewGenerator(fake, testPolicy(1), "English", nil)

	records := []commit.Record{{Raw: strings.Repeat("x", maxPromptChars+1000)}}
	_, err := gen.Generate(context.Background(), Input{
		Records:      records,
		Kind:         Technical,
		TotalCommits: 1,
	})

	require.NoError(t, err)
	prompt := fake.lastPrompt()
	assert.LessOrEqual(t, len(prompt), maxPromptChars+100)
	assert.Contains(t, prompt, "[Extended data truncated due to size limits]")
}
