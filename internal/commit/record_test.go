package commit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := map[string]struct {
		line     string
		expected Record
	}{
		"well-formed five-field line": {
			line: "abc123def|Fix login timeout|Alice|2026-08-24|abc123d",
			expected: Record{
				FullHash:  "abc123def",
				Subject:   "Fix login timeout",
				Author:    "Alice",
				Date:      "2026-08-24",
				ShortHash: "abc123d",
			},
		},
		"line with extra fields keeps first five": {
			line: "abc|subject|bob|2026-01-01|ab|extra",
			expected: Record{
				FullHash:  "abc",
				Subject:   "subject",
				Author:    "bob",
				Date:      "2026-01-01",
				ShortHash: "ab",
			},
		},
		"line with too few fields becomes raw": {
			line:     "abc|only two",
			expected: Record{Raw: "abc|only two"},
		},
		"line with no pipes becomes raw": {
			line:     "merge branch main",
			expected: Record{Raw: "merge branch main"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseLine(tc.line))
		})
	}
}

func TestParseLog(t *testing.T) {
	raw := "a1|first|alice|2026-08-20|a1s\n\nnot a commit line\nb2|second|bob|2026-08-21|b2s\n"

	records := ParseLog(raw)
	require.Len(t, records, 3)

	assert.Equal(t, "first", records[0].Subject)
	assert.True(t, records[1].IsRaw(), "malformed line must be kept, not dropped")
	assert.Equal(t, "second", records[2].Subject)
}

func TestParseLog_Empty(t *testing.T) {
	assert.Nil(t, ParseLog(""))
	assert.Nil(t, ParseLog("   \n  "))
}

func TestRecordRendering(t *testing.T) {
	rec := Record{
		FullHash:  "abc123def",
		Subject:   "Add caching",
		Author:    "Carol",
		Date:      "2026-08-22",
		ShortHash: "abc123d",
	}

	assert.Equal(t, "• Add caching (Carol, 2026-08-22)", rec.Bullet())
	assert.Equal(t,
		"- [abc123d](https://github.com/acme/app/commit/abc123def) Add caching - Carol",
		rec.Link("https://github.com/acme/app"))

	raw := Record{Raw: "unparsed line"}
	assert.Equal(t, "• unparsed line", raw.Bullet())
	assert.Equal(t, "- unparsed line", raw.Link("https://github.com/acme/app"))
}

func TestPartition(t *testing.T) {
	tests := map[string]struct {
		n        int
		size     int
		expected []Span
	}{
		"eleven records in chunks of five": {
			n:    11,
			size: 5,
			expected: []Span{
				{Start: 0, End: 5},
				{Start: 5, End: 10},
				{Start: 10, End: 11},
			},
		},
		"exact multiple": {
			n:    10,
			size: 5,
			expected: []Span{
				{Start: 0, End: 5},
				{Start: 5, End: 10},
			},
		},
		"single chunk": {
			n:        3,
			size:     5,
			expected: []Span{{Start: 0, End: 3}},
		},
		"chunk size one": {
			n:    3,
			size: 1,
			expected: []Span{
				{Start: 0, End: 1},
				{Start: 1, End: 2},
				{Start: 2, End: 3},
			},
		},
		"empty sequence": {
			n:        0,
			size:     5,
			expected: nil,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			spans := Partition(tc.n, tc.size)
			assert.Equal(t, tc.expected, spans)

			// The partition must cover every index exactly once, in order.
			covered := 0
			for i, s := range spans {
				require.Greater(t, s.Len(), 0, "chunk %d must be non-empty", i)
				require.Equal(t, covered, s.Start)
				covered = s.End
			}
			assert.Equal(t, tc.n, covered)
		})
	}
}

func TestUseChunking(t *testing.T) {
	assert.False(t, UseChunking(5, 5))
	assert.True(t, UseChunking(6, 5))
	assert.False(t, UseChunking(0, 5))
}

func TestNumChunks(t *testing.T) {
	assert.Equal(t, 3, NumChunks(11, 5))
	assert.Equal(t, 2, NumChunks(10, 5))
	assert.Equal(t, 1, NumChunks(1, 5))
}
