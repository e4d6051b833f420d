package summary

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/gitweekly/gitweekly/internal/commit"
	"github.com/gitweekly/gitweekly/internal/llm"
)

// Completer is the external text-generation capability: given a prompt,
// return text, fail on error.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

const (
	// maxPromptChars is the hard ceiling on outgoing request text. Larger
	// prompts are truncated with an explicit marker to avoid transport-level
	// size failures.
	maxPromptChars = 100_000
	// charsPerToken is the conservative character-to-token estimate.
	charsPerToken = 4
	// maxEstimatedTokens fails a request fast when even the truncated
	// prompt would certainly be rejected by the model's context limit.
	maxEstimatedTokens = 120_000
	// largeTokenWarning triggers a size warning without failing.
	largeTokenWarning = 30_000
	// minSummaryChars is the defensive floor on returned text; shorter
	// responses are treated as failed calls so truncated or empty
	// completions cannot corrupt the changelog silently.
	minSummaryChars = 50

	defaultTemperature = 0.3
)

// Completion budgets scale with context volume: extended analysis and
// large commit sets are allotted more output, capped at a fixed ceiling.
const (
	tokenBudgetExtended     = 6000
	tokenBudgetLargeSet     = 5000
	tokenBudgetDefault      = 3000
	tokenBudgetMerge        = 6000
	largeSetCommitThreshold = 100
)

// Input describes one generation unit: either a whole commit set or a
// single chunk of it.
type Input struct {
	Records []commit.Record
	// Shared is the extended statistics/file-change context included in
	// every prompt of a run. Empty when extended analysis is off.
	Shared string
	Kind   Kind
	// TotalCommits is the size of the full run, not of this chunk.
	TotalCommits int

	// Chunked marks this input as one chunk of a larger set.
	Chunked   bool
	Ordinal   int // 0-based chunk index
	NumChunks int
	Span      commit.Span
}

// Generator produces one natural-language summary per generation unit.
type Generator struct {
	client   Completer
	policy   *llm.Policy
	language string
	out      io.Writer
}

// NewGenerator creates a Generator. out receives human-readable progress
// lines; pass nil to discard them.
func NewGenerator(client Completer, policy *llm.Policy, outputLanguage string, out io.Writer) *Generator {
	if out == nil {
		out = io.Discard
	}
	return &Generator{
		client:   client,
		policy:   policy,
		language: outputLanguage,
		out:      out,
	}
}

// ChunkText returns the prompt text for the chunk's commits. This exact
// text is also the cache-key input, so it must be deterministic.
func ChunkText(records []commit.Record) string {
	return strings.Join(commit.Bullets(records), "\n")
}

// Generate renders the input into a prompt and requests a summary,
// applying truncation, fail-fast size validation, retry, and
// minimum-length validation.
func (g *Generator) Generate(ctx context.Context, in Input) (string, error) {
	desc := in.Kind.Description()
	if in.Chunked {
		fmt.Fprintf(g.out, "Generating %s (chunk %d/%d)...\n", desc, in.Ordinal+1, in.NumChunks)
	} else {
		fmt.Fprintf(g.out, "Generating %s...\n", desc)
	}

	prompt := buildPrompt(in.Kind, g.baseContext(in), g.language, in.TotalCommits, in.Shared != "")

	result, err := completeText(ctx, g.client, g.policy, completionSpec{
		system:      generateSystemPrompt,
		prompt:      prompt,
		maxTokens:   g.tokenBudget(in),
		truncMarker: "[Extended data truncated due to size limits]",
		out:         g.out,
	})
	if err != nil {
		return "", fmt.Errorf("generating %s: %w", desc, err)
	}

	if !strings.Contains(result, "###") && !strings.Contains(result, "**") {
		fmt.Fprintf(g.out, "Warning: %s may be poorly formatted (missing markdown headers)\n", desc)
	}
	return result, nil
}

// baseContext renders the commit bullets plus the shared extended context.
func (g *Generator) baseContext(in Input) string {
	text := ChunkText(in.Records)
	if in.Chunked {
		return fmt.Sprintf("Commits (chunk %d of %d, commits %d-%d):\n%s%s",
			in.Ordinal+1, in.NumChunks, in.Span.Start+1, in.Span.End, text, in.Shared)
	}
	return fmt.Sprintf("Commits:\n%s%s", text, in.Shared)
}

func (g *Generator) tokenBudget(in Input) int {
	switch {
	case in.Shared != "":
		return tokenBudgetExtended
	case in.TotalCommits > largeSetCommitThreshold:
		return tokenBudgetLargeSet
	default:
		return tokenBudgetDefault
	}
}

// completionSpec carries everything one external call needs.
type completionSpec struct {
	system      string
	prompt      string
	maxTokens   int
	truncMarker string
	out         io.Writer
}

// completeText enforces the shared size, truncation, retry, and
// minimum-length disciplines around one text-generation call. Used by
// both the chunk generator and the merger.
func completeText(ctx context.Context, client Completer, policy *llm.Policy, spec completionSpec) (string, error) {
	prompt := spec.prompt
	if len(prompt) > maxPromptChars {
		fmt.Fprintf(spec.out, "Warning: prompt too large (%d chars), truncating to %d\n", len(prompt), maxPromptChars)
		// Back off to a rune boundary so the cut never emits invalid UTF-8.
		cut := maxPromptChars
		for cut > 0 && !utf8.RuneStart(prompt[cut]) {
			cut--
		}
		prompt = prompt[:cut] + "\n\n" + spec.truncMarker
	}

	estimatedTokens := len(prompt) / charsPerToken
	if estimatedTokens > maxEstimatedTokens {
		return "", &llm.APIError{
			Category: llm.PayloadTooLarge,
			Message:  fmt.Sprintf("prompt too large (~%d tokens) even after truncation", estimatedTokens),
		}
	}
	if estimatedTokens > largeTokenWarning {
		fmt.Fprintf(spec.out, "Warning: large payload (~%d tokens)\n", estimatedTokens)
	}

	result, err := policy.Do(func() (string, error) {
		text, err := client.Complete(ctx, llm.Request{
			System:      spec.system,
			User:        prompt,
			MaxTokens:   spec.maxTokens,
			Temperature: defaultTemperature,
		})
		if err != nil {
			return "", err
		}
		trimmed := strings.TrimSpace(text)
		if len(trimmed) < minSummaryChars {
			return "", fmt.Errorf("response too short or empty (%d chars)", len(trimmed))
		}
		return trimmed, nil
	})
	if err != nil {
		return "", err
	}
	return result, nil
}
