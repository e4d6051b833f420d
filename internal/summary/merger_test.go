package summary

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitweekly/gitweekly/internal/llm"
)

// mergedResult pads a merge output above the minimum response length.
func mergedResult(tag string) string {
	return fmt.Sprintf("merged[%s] %s", tag, strings.Repeat("content ", 10))
}

// promptChunkCount counts how many chunk summaries a merge prompt carries.
func promptChunkCount(prompt string) int {
	return strings.Count(prompt, "Chunk ")
}

func TestMerger_EmptyAndSingle(t *testing.T) {
	fake := &fakeCompleter{fn: func(req llm.Request) (string, error) {
		t.Fatal("no external call expected")
		return "", nil
	}}
	m := NewMerger(fake, testPolicy(1), "English", nil)

	got, err := m.Merge(context.Background(), nil, Technical, 0, 5)
	require.NoError(t, err)
	assert.Equal(t, "", got)

	got, err = m.Merge(context.Background(), []string{"only one"}, Technical, 3, 5)
	require.NoError(t, err)
	assert.Equal(t, "only one", got, "degenerate merge must not spend a request")
	assert.Equal(t, 0, fake.calls())
}

func TestMerger_DirectMerge(t *testing.T) {
	fake := &fakeCompleter{fn: func(req llm.Request) (string, error) {
		return mergedResult("direct"), nil
	}}
	m := NewMerger(fake, testPolicy(1), "English", nil)

	summaries := []string{"first summary", "second summary", "third summary"}
	got, err := m.Merge(context.Background(), summaries, Technical, 15, 5)

	require.NoError(t, err)
	assert.Equal(t, mergedResult("direct"), got)
	assert.Equal(t, 1, fake.calls())

	prompt := fake.lastPrompt()
	assert.Contains(t, prompt, "You have 3 summaries covering 15 total commits")
	// Input order must be preserved in the rendered prompt.
	assert.Less(t, strings.Index(prompt, "first summary"), strings.Index(prompt, "second summary"))
	assert.Less(t, strings.Index(prompt, "second summary"), strings.Index(prompt, "third summary"))
}

func TestMerger_ShrinksBatchOnPayloadTooLarge(t *testing.T) {
	// Direct merges of more than 3 summaries overflow the transport;
	// smaller calls succeed.
	fake := &fakeCompleter{}
	fake.fn = func(req llm.Request) (string, error) {
		if promptChunkCount(req.User) > 3 {
			return "", &llm.APIError{Category: llm.PayloadTooLarge, Message: "status 413"}
		}
		return mergedResult("ok"), nil
	}
	m := NewMerger(fake, testPolicy(1), "English", nil)

	summaries := []string{"s1", "s2", "s3", "s4", "s5"}
	got, err := m.Merge(context.Background(), summaries, Business, 25, 5)

	require.NoError(t, err)
	assert.Equal(t, mergedResult("ok"), got)
	// First attempt at 5 fails, then shrink to 4 fails, then at 3 the set
	// no longer fits one call and is folded in batches.
	assert.GreaterOrEqual(t, fake.calls(), 3)
}

func TestMerger_HierarchicalFold(t *testing.T) {
	fake := &fakeCompleter{fn: func(req llm.Request) (string, error) {
		return mergedResult(fmt.Sprintf("level-%d", promptChunkCount(req.User))), nil
	}}
	m := NewMerger(fake, testPolicy(1), "English", nil)

	summaries := make([]string, 12)
	for i := range summaries {
		summaries[i] = fmt.Sprintf("chunk summary %d", i)
	}

	got, err := m.Merge(context.Background(), summaries, Technical, 60, 5)

	require.NoError(t, err)
	assert.NotEmpty(t, got)
	// 12 summaries at batch size 5: three batch merges (5,5,2) then one
	// fold of the three results.
	assert.Equal(t, 4, fake.calls())
}

func TestMerger_BatchLevelSplitOnPayloadTooLarge(t *testing.T) {
	// Batches of exactly 5 overflow; anything smaller merges fine.
	fake := &fakeCompleter{}
	fake.fn = func(req llm.Request) (string, error) {
		if promptChunkCount(req.User) >= 5 {
			return "", &llm.APIError{Category: llm.PayloadTooLarge, Message: "status 413"}
		}
		return mergedResult("ok"), nil
	}
	m := NewMerger(fake, testPolicy(1), "English", nil)

	summaries := make([]string, 12)
	for i := range summaries {
		summaries[i] = fmt.Sprintf("chunk summary %d", i)
	}

	got, err := m.Merge(context.Background(), summaries, Technical, 60, 5)

	require.NoError(t, err)
	assert.NotEmpty(t, got)
}

func TestMerger_PairwiseWorstCaseTerminates(t *testing.T) {
	fake := &fakeCompleter{fn: func(req llm.Request) (string, error) {
		return mergedResult("pair"), nil
	}}
	m := NewMerger(fake, testPolicy(1), "English", nil)

	summaries := make([]string, 9)
	for i := range summaries {
		summaries[i] = fmt.Sprintf("summary %d", i)
	}

	got, err := m.Merge(context.Background(), summaries, Business, 45, 2)

	require.NoError(t, err)
	assert.NotEmpty(t, got)
	// Every call must respect the batch size floor of 2.
	for _, p := range fake.prompts {
		assert.LessOrEqual(t, promptChunkCount(p), 2)
	}
}

func TestMerger_NonPayloadErrorPropagates(t *testing.T) {
	fake := &fakeCompleter{fn: func(req llm.Request) (string, error) {
		return "", &llm.APIError{Category: llm.Auth, Message: "status 401"}
	}}
	m := NewMerger(fake, testPolicy(1), "English", nil)

	_, err := m.Merge(context.Background(), []string{"a", "b"}, Technical, 10, 5)

	require.Error(t, err)
	assert.Equal(t, llm.Auth, llm.Classify(err))
	assert.Equal(t, 1, fake.calls())
}

func TestMerger_FloorBatchSizeStillOverflowsPropagates(t *testing.T) {
	fake := &fakeCompleter{fn: func(req llm.Request) (string, error) {
		return "", &llm.APIError{Category: llm.PayloadTooLarge, Message: "status 413"}
	}}
	m := NewMerger(fake, testPolicy(1), "English", nil)

	_, err := m.Merge(context.Background(), []string{"a", "b"}, Technical, 10, 2)

	require.Error(t, err)
	assert.True(t, llm.IsPayloadTooLarge(err))
}
