package summary

import (
	"context"
	"fmt"
	"io"

	"github.com/gitweekly/gitweekly/internal/llm"
)

// minBatchSize is the floor for adaptive batch shrinking. Pairwise merges
// are the worst case; below that there is nothing left to shrink and a
// payload-too-large failure propagates.
const minBatchSize = 2

// Merger recombines ordered chunk summaries into one document via a
// recursive, size-bounded merge. A payload-too-large failure anywhere in
// the tree shrinks the offending batch instead of failing the run; the
// recursion strictly decreases in size, so it always terminates.
type Merger struct {
	client   Completer
	policy   *llm.Policy
	language string
	out      io.Writer
}

// NewMerger creates a Merger. out receives progress lines; nil discards.
func NewMerger(client Completer, policy *llm.Policy, outputLanguage string, out io.Writer) *Merger {
	if out == nil {
		out = io.Discard
	}
	return &Merger{
		client:   client,
		policy:   policy,
		language: outputLanguage,
		out:      out,
	}
}

// Merge combines the ordered summaries into a single string. An empty
// sequence merges to ""; a single element is returned unchanged without
// an external call.
func (m *Merger) Merge(ctx context.Context, summaries []string, kind Kind, totalCommits, batchSize int) (string, error) {
	if batchSize < minBatchSize {
		batchSize = minBatchSize
	}

	switch len(summaries) {
	case 0:
		return "", nil
	case 1:
		return summaries[0], nil
	}

	if len(summaries) <= batchSize {
		merged, err := m.mergeOnce(ctx, summaries, kind, totalCommits)
		if err != nil {
			if llm.IsPayloadTooLarge(err) && batchSize > minBatchSize {
				fmt.Fprintf(m.out, "Payload too large with batch size %d, reducing to %d\n", batchSize, batchSize-1)
				return m.Merge(ctx, summaries, kind, totalCommits, batchSize-1)
			}
			return "", err
		}
		return merged, nil
	}

	fmt.Fprintf(m.out, "Hierarchical merge: %d summaries in batches of %d\n", len(summaries), batchSize)

	merged, err := m.mergeBatches(ctx, summaries, kind, totalCommits, batchSize)
	if err != nil {
		return "", err
	}

	// Each level ends with strictly fewer summaries than it started with,
	// so this recursion bottoms out at a single result.
	return m.Merge(ctx, merged, kind, totalCommits, batchSize)
}

// mergeBatches merges contiguous batches independently and returns the
// batch-level results in order. A batch that is still too large for the
// transport is split in half and each half merged recursively with a
// reduced batch size.
func (m *Merger) mergeBatches(ctx context.Context, summaries []string, kind Kind, totalCommits, batchSize int) ([]string, error) {
	totalBatches := (len(summaries) + batchSize - 1) / batchSize
	merged := make([]string, 0, totalBatches)

	for i := 0; i < len(summaries); i += batchSize {
		end := i + batchSize
		if end > len(summaries) {
			end = len(summaries)
		}
		batch := summaries[i:end]
		if len(batch) == 1 {
			// Nothing to combine; carry the summary up a level unchanged.
			merged = append(merged, batch[0])
			continue
		}
		fmt.Fprintf(m.out, "Merging batch %d/%d (%d summaries)\n", i/batchSize+1, totalBatches, len(batch))

		result, err := m.mergeOnce(ctx, batch, kind, totalCommits)
		if err != nil {
			if !llm.IsPayloadTooLarge(err) {
				return nil, err
			}

			fmt.Fprintln(m.out, "Batch too large, splitting further")
			reduced := batchSize - 2
			if reduced < minBatchSize {
				reduced = minBatchSize
			}
			for _, half := range [][]string{batch[:len(batch)/2], batch[len(batch)/2:]} {
				if len(half) == 0 {
					continue
				}
				sub, err := m.Merge(ctx, half, kind, totalCommits, reduced)
				if err != nil {
					return nil, err
				}
				merged = append(merged, sub)
			}
			continue
		}
		merged = append(merged, result)
	}

	return merged, nil
}

// mergeOnce performs one direct merge call over the given summaries,
// under the same size, truncation, and validation disciplines as chunk
// generation.
func (m *Merger) mergeOnce(ctx context.Context, summaries []string, kind Kind, totalCommits int) (string, error) {
	fmt.Fprintf(m.out, "Merging %d %s chunk summaries...\n", len(summaries), kind)

	prompt := buildMergePrompt(summaries, kind, totalCommits, m.language)

	result, err := completeText(ctx, m.client, m.policy, completionSpec{
		system:      mergeSystemPrompt,
		prompt:      prompt,
		maxTokens:   tokenBudgetMerge,
		truncMarker: "[Some chunk summaries truncated due to size limits]",
		out:         m.out,
	})
	if err != nil {
		return "", fmt.Errorf("merging %s summaries: %w", kind, err)
	}
	return result, nil
}
