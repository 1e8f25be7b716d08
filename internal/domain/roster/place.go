package roster

import (
	"strconv"
	"strings"
)

// ParsePlace turns the place cell of a data row into a winning rank.
// A bare integer parses to itself; a dash or en-dash range like "5-8"
// collapses to its lower bound; anything else (disqualification markers,
// empty cells) is "no result" and the row is skipped.
func ParsePlace(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	for _, dash := range []string{"-", "–"} {
		lo, hi, found := strings.Cut(s, dash)
		if !found {
			continue
		}
		a, errA := strconv.Atoi(strings.TrimSpace(lo))
		_, errB := strconv.Atoi(strings.TrimSpace(hi))
		if errA == nil && errB == nil {
			return a, true
		}
	}
	return 0, false
}
