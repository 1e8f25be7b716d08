// Package points computes rating points from a placement and the tournament
// importance tier.
package points

// Default scoring configuration constants.
const (
	minImportance = 1
	maxImportance = 3
)

// defaultBaseTable maps places 1..10 to base points. Places outside the
// table earn nothing.
func defaultBaseTable() map[int]int {
	return map[int]int{
		1:  12,
		2:  10,
		3:  8,
		4:  6,
		5:  5,
		6:  4,
		7:  3,
		8:  2,
		9:  1,
		10: 1,
	}
}

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithBaseTable replaces the place-to-points table.
func WithBaseTable(table map[int]int) Option {
	return func(c *Calculator) {
		if len(table) == 0 {
			return
		}
		c.base = make(map[int]int, len(table))
		for place, pts := range table {
			if place >= 1 && pts >= 0 {
				c.base[place] = pts
			}
		}
	}
}

// Calculator maps (place, importance) to rating points. It is deterministic
// and has no error cases.
type Calculator struct {
	base map[int]int
}

// New creates a Calculator with the federation's standard table.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		base: defaultBaseTable(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Calculate returns base points for the place multiplied by the importance
// level clamped to [1,3]. Unknown places earn zero.
func (c *Calculator) Calculate(place, importanceLevel int) int {
	return c.base[place] * clampImportance(importanceLevel)
}

// Calculate computes points with the standard table. Shorthand for callers
// that need no customization.
func Calculate(place, importanceLevel int) int {
	return defaultBaseTable()[place] * clampImportance(importanceLevel)
}

func clampImportance(level int) int {
	if level < minImportance {
		return minImportance
	}
	if level > maxImportance {
		return maxImportance
	}
	return level
}
