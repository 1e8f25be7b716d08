// Package decode determines the text encoding and field delimiter of an
// uploaded results export. Organizer exports are inconsistent between files
// but consistent within one, so detection is a deterministic policy rather
// than a statistical classifier.
package decode

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/ratmirov/tatami/internal/domain/roster"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Detect decodes a raw export blob into text and picks the field delimiter.
// Encoding is UTF-8 with a CP1251 fallback; there is no further fallback and
// a blob readable under neither wraps ErrUnreadableFile.
func Detect(blob []byte) (string, rune, error) {
	text, err := decodeText(blob)
	if err != nil {
		return "", 0, err
	}
	return text, detectDelimiter(text), nil
}

func decodeText(blob []byte) (string, error) {
	blob = bytes.TrimPrefix(blob, utf8BOM)

	if utf8.Valid(blob) {
		return strings.TrimPrefix(string(blob), "\ufeff"), nil
	}

	out, err := charmap.Windows1251.NewDecoder().Bytes(blob)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	// The charmap decoder substitutes U+FFFD for bytes CP1251 leaves
	// undefined; treat any substitution as a failed decode.
	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", fmt.Errorf("%w: not valid UTF-8 or CP1251", ErrUnreadableFile)
	}
	return string(out), nil
}

// detectDelimiter scans data lines in order: the first line containing ';'
// wins, a ',' anywhere is the runner-up, and a file with no data lines at all
// defaults to ';'.
func detectDelimiter(text string) rune {
	commaSeen := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" || roster.IsSectionHeader(line) {
			continue
		}
		if strings.ContainsRune(line, ';') {
			return ';'
		}
		if strings.ContainsRune(line, ',') {
			commaSeen = true
		}
	}
	if commaSeen {
		return ','
	}
	return ';'
}
