package commit

// Span is a half-open index range [Start, End) into a record sequence.
type Span struct {
	Start int
	End   int
}

// Len returns the number of records covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// UseChunking reports whether a sequence of n records needs to be split
// into chunks of the given size. A sequence that fits in one chunk is
// processed whole, with no per-chunk bookkeeping.
func UseChunking(n, size int) bool {
	return n > size
}

// NumChunks returns the number of chunks a sequence of n records splits
// into: ceil(n / size).
func NumChunks(n, size int) int {
	return (n + size - 1) / size
}

// Partition splits a sequence of n records into contiguous spans of at
// most size records each. The partition is total (every index covered
// exactly once) and stable (same inputs always yield the same spans).
// size must be >= 1.
func Partition(n, size int) []Span {
	if n <= 0 {
		return nil
	}

	spans := make([]Span, 0, NumChunks(n, size))
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		spans = append(spans, Span{Start: start, End: end})
	}
	return spans
}
