// Package normalize turns free-text names and category labels into canonical
// comparison keys. The same keys are computed on import and on reconciliation,
// so any change here must keep old and new keys equal for identical input.
package normalize

import "strings"

// Normalize canonicalizes text for comparison: trim, case-fold, map the
// Cyrillic "ё" to "е" (roster exports are inconsistent about it), and collapse
// internal whitespace runs to single spaces. It is total and idempotent.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "ё", "е")
	return strings.Join(strings.Fields(s), " ")
}

// MatchKey derives the matching fingerprint from a full name: the normalized
// first two whitespace-separated tokens (surname plus given name), ignoring a
// patronymic or anything after it. A single-token name degenerates to itself;
// an empty name yields an empty key.
func MatchKey(fullName string) string {
	tokens := strings.Fields(fullName)
	if len(tokens) > 2 {
		tokens = tokens[:2]
	}
	return Normalize(strings.Join(tokens, " "))
}

// WeightKey canonicalizes a weight-category label. Organizers write the same
// category as "68", "-68" or "68kg"; the key is the first digit run, so all
// three compare equal. Labels without digits fall back to Normalize.
func WeightKey(s string) string {
	start := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			return s[start:i]
		}
	}
	if start >= 0 {
		return s[start:]
	}
	return Normalize(s)
}
