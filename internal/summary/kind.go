// Package summary turns commit chunks into natural-language summaries via
// an external text-generation service and recombines them with a
// size-aware hierarchical merge.
package summary

// Kind is the audience a summary is written for. Technical and business
// summaries are fully independent data flows: separate prompts, separate
// outputs, never mixed.
type Kind string

const (
	// Technical is the developer-facing summary kind.
	Technical Kind = "technical"
	// Business is the stakeholder-facing summary kind.
	Business Kind = "business"
)

// Kinds lists both summary kinds in rendering order.
var Kinds = []Kind{Technical, Business}

// Description returns the human-readable name used in progress output.
func (k Kind) Description() string {
	return string(k) + " summary"
}
