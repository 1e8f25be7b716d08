// Package roster extracts competitor placement records from the free-form
// tables third-party organizers export. There is no fixed schema: files mix
// gender/weight section headers, per-row weight columns, Russian and English
// column names, and occasional garbage lines. The extractor is a single
// forward pass that classifies each line and folds the classifications into
// an ordered record sequence; unusable lines are skipped, never fatal.
package roster

import (
	"strings"

	"github.com/ratmirov/tatami/internal/domain/model"
	"github.com/ratmirov/tatami/internal/domain/normalize"
)

// columnMap holds the cell index of each recognized column, -1 when unmapped.
type columnMap struct {
	fullName  int
	surname   int
	givenName int
	weight    int
	place     int
}

func unmappedColumns() columnMap {
	return columnMap{fullName: -1, surname: -1, givenName: -1, weight: -1, place: -1}
}

// scanState is the accumulator threaded through the line fold: the active
// section context plus the column layout of the table being read.
type scanState struct {
	weight     string
	gender     model.Gender
	columns    columnMap
	headerSeen bool
}

func initialState() scanState {
	return scanState{gender: model.GenderUnknown, columns: unmappedColumns()}
}

// lineEvent is the classification of one input line. Exactly one of the
// concrete events is produced per line; the reducer applies it to the state.
type lineEvent interface {
	isLineEvent()
}

type skipLine struct{}

// sectionLine starts a new gender/weight section; a fresh table with its own
// columns may follow, so the layout must be re-detected.
type sectionLine struct {
	gender model.Gender
	weight string
}

// headerLine establishes the column layout for subsequent data lines.
// reprocess is set when the layout was inferred from a numbered data row
// (no header line present): that row itself still holds a record.
type headerLine struct {
	columns   columnMap
	reprocess bool
}

type recordLine struct {
	record model.PlacementRecord
}

func (skipLine) isLineEvent()    {}
func (sectionLine) isLineEvent() {}
func (headerLine) isLineEvent()  {}
func (recordLine) isLineEvent()  {}

// Stats counts what the pass did with the input; Skipped is every line that
// produced neither a section, a header, nor a record.
type Stats struct {
	Lines    int
	Sections int
	Headers  int
	Records  int
	Skipped  int
}

// Extract runs the forward pass over decoded text and returns the placement
// records in input order, plus pass statistics. Order carries no semantic
// guarantee beyond deterministic output for identical input.
func Extract(text string, delim rune) ([]model.PlacementRecord, Stats) {
	var (
		records []model.PlacementRecord
		stats   Stats
	)
	st := initialState()

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		stats.Lines++

		ev := classify(st, line, delim)
		if h, ok := ev.(headerLine); ok && h.reprocess {
			// The layout came from a numbered data row; consume the header
			// and run the same line again as data.
			st = apply(st, ev)
			stats.Headers++
			ev = classify(st, line, delim)
		}

		switch e := ev.(type) {
		case sectionLine:
			stats.Sections++
		case headerLine:
			stats.Headers++
		case recordLine:
			stats.Records++
			records = append(records, e.record)
		case skipLine:
			stats.Skipped++
		}
		st = apply(st, ev)
	}
	return records, stats
}

// apply folds a line event into the scan state.
func apply(st scanState, ev lineEvent) scanState {
	switch e := ev.(type) {
	case sectionLine:
		st.gender = e.gender
		st.weight = e.weight
		// A new table may follow with different columns.
		st.columns = unmappedColumns()
		st.headerSeen = false
	case headerLine:
		st.columns = e.columns
		st.headerSeen = true
	}
	return st
}

// classify decides what a single line is under the current state.
func classify(st scanState, line string, delim rune) lineEvent {
	if strings.TrimSpace(line) == "" {
		return skipLine{}
	}

	if gender, weight, ok := parseSectionHeader(line); ok {
		return sectionLine{gender: gender, weight: weight}
	}

	cells := splitCells(line, delim)
	if len(cells) == 0 {
		return skipLine{}
	}

	if isHeaderToken(cells[0]) {
		return headerLine{columns: mapColumns(cells)}
	}

	// Fallback: a table with no header line at all. A leading row number on
	// a wide enough line reveals the common layout "№; ФИО; ...; место".
	if !st.headerSeen && isRowNumber(cells[0]) && len(cells) >= 3 {
		cols := unmappedColumns()
		cols.fullName = 1
		cols.place = len(cells) - 1
		return headerLine{columns: cols, reprocess: true}
	}

	if !st.headerSeen {
		return skipLine{}
	}
	return classifyDataLine(st, cells)
}

// classifyDataLine extracts a placement record from a data row, or skips it
// when the name, weight, or place cannot be resolved.
func classifyDataLine(st scanState, cells []string) lineEvent {
	name := extractName(st.columns, cells)
	if name == "" {
		return skipLine{}
	}

	weight := st.weight
	if w := cellAt(cells, st.columns.weight); w != "" {
		weight = w
	}
	if weight == "" {
		return skipLine{}
	}

	place, ok := ParsePlace(cellAt(cells, st.columns.place))
	if !ok || place < 1 {
		return skipLine{}
	}

	return recordLine{record: model.PlacementRecord{
		MatchKey:       normalize.MatchKey(name),
		RawFullName:    name,
		WeightCategory: weight,
		Gender:         st.gender,
		Place:          place,
	}}
}

// mapColumns resolves a genuine header line into a column layout. Full-name
// and surname/given-name columns are mutually exclusive; full-name wins when
// both are present. A table without a recognizable place header keeps the
// convention that the last column is the place.
func mapColumns(cells []string) columnMap {
	cols := unmappedColumns()
	for i, cell := range cells {
		switch {
		case fullNameHeaders.has(cell):
			cols.fullName = i
		case surnameHeaders.has(cell):
			cols.surname = i
		case givenNameHeaders.has(cell):
			cols.givenName = i
		case weightHeaders.has(cell):
			cols.weight = i
		case placeHeaders.has(cell):
			cols.place = i
		}
	}
	if cols.fullName >= 0 {
		cols.surname = -1
		cols.givenName = -1
	}
	if cols.place < 0 {
		cols.place = len(cells) - 1
	}
	return cols
}

func extractName(cols columnMap, cells []string) string {
	if cols.fullName >= 0 {
		return strings.TrimSpace(cellAt(cells, cols.fullName))
	}
	if cols.surname >= 0 && cols.givenName >= 0 {
		surname := cellAt(cells, cols.surname)
		given := cellAt(cells, cols.givenName)
		return strings.TrimSpace(strings.TrimSpace(surname) + " " + strings.TrimSpace(given))
	}
	return ""
}

func splitCells(line string, delim rune) []string {
	parts := strings.Split(line, string(delim))
	cells := make([]string, len(parts))
	empty := true
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
		if cells[i] != "" {
			empty = false
		}
	}
	if empty {
		return nil
	}
	return cells
}

func cellAt(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return cells[i]
}

// isRowNumber reports whether a cell is purely numeric, as the position
// column of a headerless table would be.
func isRowNumber(cell string) bool {
	if cell == "" {
		return false
	}
	for _, r := range cell {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
