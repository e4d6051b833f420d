// Package redact strips credential material from text before it reaches
// logs, error messages, or any other reporting surface.
package redact

import (
	"regexp"
	"strings"
)

// keyPrefixPattern matches OpenRouter API keys by their known prefix,
// catching stale or rotated keys that are not the active credential.
var keyPrefixPattern = regexp.MustCompile(`sk-or-[a-zA-Z0-9_-]+`)

// minKeyLength guards against redacting trivially short values that would
// make the replacement itself leak structure.
const minKeyLength = 8

// Filter redacts an active credential value and any provider key pattern.
type Filter struct {
	apiKey string
}

// NewFilter creates a Filter for the given active credential. An empty
// key disables exact-match redaction; the prefix pattern always applies.
func NewFilter(apiKey string) *Filter {
	return &Filter{apiKey: apiKey}
}

// Redact replaces every occurrence of the active credential with a
// truncated placeholder (first four characters plus a marker) and removes
// any substring matching the provider key-prefix format.
func (f *Filter) Redact(text string) string {
	if len(f.apiKey) > minKeyLength {
		placeholder := f.apiKey[:4] + "...[REDACTED]"
		text = strings.ReplaceAll(text, f.apiKey, placeholder)
	}
	return keyPrefixPattern.ReplaceAllString(text, "sk-or-...[REDACTED]")
}
