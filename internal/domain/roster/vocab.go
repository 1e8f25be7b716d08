package roster

import (
	"regexp"

	"github.com/ratmirov/tatami/internal/domain/model"
	"github.com/ratmirov/tatami/internal/domain/normalize"
)

// sectionRE matches lines like "Мужчины 54 кг", "женщины, -58 кг". A section
// header sets the gender/weight context for rows that carry no weight column
// of their own.
var sectionRE = regexp.MustCompile(`(?i)^\s*(мужчины|женщины)\s*[,.]?\s*[-–]?\s*(\d+)\s*кг\s*$`)

// IsSectionHeader reports whether the line is a gender/weight section header.
func IsSectionHeader(line string) bool {
	return sectionRE.MatchString(line)
}

// parseSectionHeader extracts gender and weight from a section header line.
func parseSectionHeader(line string) (model.Gender, string, bool) {
	m := sectionRE.FindStringSubmatch(line)
	if m == nil {
		return model.GenderUnknown, "", false
	}
	gender := model.GenderFemale
	if normalize.Normalize(m[1]) == "мужчины" {
		gender = model.GenderMale
	}
	return gender, m[2], true
}

// vocab is a set of recognized header cell spellings, compared after
// normalization (trim, case-fold, whitespace collapse).
type vocab map[string]struct{}

func newVocab(words ...string) vocab {
	v := make(vocab, len(words))
	for _, w := range words {
		v[w] = struct{}{}
	}
	return v
}

func (v vocab) has(cell string) bool {
	_, ok := v[normalize.Normalize(cell)]
	return ok
}

// Header vocabularies seen across organizer exports. Exact match per cell
// after normalization.
var (
	fullNameHeaders  = newVocab("фамилия имя отчество", "фамилия имя", "фио", "full_name", "fullname")
	surnameHeaders   = newVocab("фамилия", "surname", "last_name", "lastname")
	givenNameHeaders = newVocab("имя", "first_name", "firstname", "name")
	weightHeaders    = newVocab("весовая категория", "весовая", "вес", "weight", "weight_category")
	placeHeaders     = newVocab("занятое место", "место", "place")
	rowNumberHeaders = newVocab("№", "n", "#", "номер")
)

// isHeaderToken reports whether a cell belongs to any known header vocabulary.
func isHeaderToken(cell string) bool {
	return fullNameHeaders.has(cell) ||
		surnameHeaders.has(cell) ||
		givenNameHeaders.has(cell) ||
		weightHeaders.has(cell) ||
		placeHeaders.has(cell) ||
		rowNumberHeaders.has(cell)
}
