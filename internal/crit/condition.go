package crit

// Condition decides when a sampling loop stops. Each Stop call that returns
// false consumes one iteration of the budget, whether or not the sample is
// kept. Split partitions the remaining budget across n workers.
type Condition interface {
	Stop() bool
	Split(n int) []Condition
}

// MaxCondition stops after a fixed number of iterations.
type MaxCondition struct {
	index uint64
	max   uint64
}

// NewMaxCondition returns a condition that permits max iterations.
func NewMaxCondition(max uint64) *MaxCondition {
	return &MaxCondition{max: max}
}

// Stop returns false exactly max-index times, then true forever.
func (c *MaxCondition) Stop() bool {
	if c.index >= c.max {
		return true
	}
	c.index++
	return false
}

// Split divides the remaining budget into n conditions whose budgets sum to
// the remainder.
func (c *MaxCondition) Split(n int) []Condition {
	ranges := SplitRange(c.index, c.max, n)
	out := make([]Condition, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, &MaxCondition{index: r.Start, max: r.End})
	}
	return out
}

// Range is a half-open iteration span [Start, End).
type Range struct {
	Start uint64
	End   uint64
}

// Len returns the number of iterations in the range.
func (r Range) Len() uint64 { return r.End - r.Start }

// SplitRange partitions [start, max) into n contiguous ranges: the first
// begins at start, each next one begins where the previous ended, and the
// last ends at max, absorbing any remainder. A span smaller than n yields
// empty leading ranges.
func SplitRange(start, max uint64, n int) []Range {
	if n <= 0 {
		return nil
	}
	if max < start {
		max = start
	}
	step := (max - start) / uint64(n)
	out := make([]Range, 0, n)
	s := start
	for i := 0; i < n; i++ {
		e := s + step
		if i == n-1 {
			e = max
		}
		out = append(out, Range{Start: s, End: e})
		s = e
	}
	return out
}
