// Package rostergen fabricates tournament result files in the layouts real
// federations upload: sectioned or columnar tables, UTF-8 or CP1251, with
// optional junk lines. It exists to feed imports in demos and load tests.
package rostergen

import (
	"fmt"
	"math/rand"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/ratmirov/tatami/internal/domain/model"
)

// Layout selects the overall file shape.
type Layout string

// Supported layouts.
const (
	// LayoutSections groups rows under "мужчины, NN кг" style headers.
	LayoutSections Layout = "sections"
	// LayoutColumnar writes one flat table with a weight column.
	LayoutColumnar Layout = "columnar"
)

// Encoding selects the byte encoding of the output.
type Encoding string

// Supported encodings.
const (
	EncodingUTF8   Encoding = "utf8"
	EncodingCP1251 Encoding = "cp1251"
)

// Config controls roster generation.
type Config struct {
	// Athletes is the number of result rows to produce.
	Athletes int
	// Sections is the number of weight sections (LayoutSections only).
	Sections int
	// Layout picks the file shape.
	Layout Layout
	// Encoding picks the output byte encoding.
	Encoding Encoding
	// Delimiter separates cells; ';' when zero.
	Delimiter rune
	// Noise sprinkles blank and junk lines between data rows.
	Noise bool
	// Seed makes output reproducible; 0 derives one from the athlete count.
	Seed uint64
}

// DefaultConfig returns a config producing a small sectioned UTF-8 roster.
func DefaultConfig() Config {
	return Config{
		Athletes:  20,
		Sections:  4,
		Layout:    LayoutSections,
		Encoding:  EncodingUTF8,
		Delimiter: ';',
	}
}

// Generate produces one synthetic roster file and the number of result rows
// it contains. The output is always parseable by the import pipeline.
func Generate(cfg Config) ([]byte, int, error) {
	if cfg.Athletes < 1 {
		return nil, 0, fmt.Errorf("rostergen: athletes must be positive, got %d", cfg.Athletes)
	}
	if cfg.Delimiter == 0 {
		cfg.Delimiter = ';'
	}
	if cfg.Sections < 1 {
		cfg.Sections = 1
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(cfg.Athletes) + 1
	}
	rng := rand.New(rand.NewSource(int64(seed)))

	var text string
	switch cfg.Layout {
	case LayoutColumnar:
		text = generateColumnar(cfg, rng)
	case LayoutSections, "":
		text = generateSections(cfg, rng)
	default:
		return nil, 0, fmt.Errorf("rostergen: unknown layout %q", cfg.Layout)
	}

	blob, err := encode(text, cfg.Encoding)
	if err != nil {
		return nil, 0, err
	}
	return blob, cfg.Athletes, nil
}

// generateSections emits "мужчины, NN кг" headers with place-ordered rows
// under each.
func generateSections(cfg Config, rng *rand.Rand) string {
	delim := string(cfg.Delimiter)
	var b strings.Builder

	perSection := cfg.Athletes / cfg.Sections
	remainder := cfg.Athletes % cfg.Sections
	usedWeights := map[string]bool{}

	for sec := 0; sec < cfg.Sections; sec++ {
		gender := model.GenderMale
		if sec%2 == 1 {
			gender = model.GenderFemale
		}
		weight := pickWeight(rng, gender, usedWeights)
		b.WriteString(sectionHeader(rng, gender, weight))
		b.WriteString("\n")
		if cfg.Noise {
			b.WriteString("\n")
		}
		b.WriteString("ФИО" + delim + "Место\n")

		rows := perSection
		if sec == cfg.Sections-1 {
			rows += remainder
		}
		for place := 1; place <= rows; place++ {
			b.WriteString(fullName(rng, gender) + delim + fmt.Sprint(place) + "\n")
			if cfg.Noise && rng.Intn(5) == 0 {
				b.WriteString("судья: Ковалёв В.В.\n")
			}
		}
	}
	return b.String()
}

// generateColumnar emits one flat table with a weight column, the layout
// regional offices export from spreadsheets.
func generateColumnar(cfg Config, rng *rand.Rand) string {
	delim := string(cfg.Delimiter)
	var b strings.Builder

	b.WriteString(strings.Join([]string{"№", "ФИО", "Вес", "Место"}, delim))
	b.WriteString("\n")

	for i := 0; i < cfg.Athletes; i++ {
		gender := model.GenderMale
		if rng.Intn(2) == 1 {
			gender = model.GenderFemale
		}
		weight := pickWeight(rng, gender, nil)
		row := []string{
			fmt.Sprint(i + 1),
			fullName(rng, gender),
			weight,
			fmt.Sprint(rng.Intn(10) + 1),
		}
		b.WriteString(strings.Join(row, delim))
		b.WriteString("\n")
		if cfg.Noise && rng.Intn(7) == 0 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// sectionHeader varies the punctuation the way real files do.
func sectionHeader(rng *rand.Rand, gender model.Gender, weight string) string {
	word := "Мужчины"
	if gender == model.GenderFemale {
		word = "Женщины"
	}
	switch rng.Intn(3) {
	case 0:
		return fmt.Sprintf("%s, %s кг", word, strings.TrimPrefix(weight, "+"))
	case 1:
		return fmt.Sprintf("%s - %s кг", word, strings.TrimPrefix(weight, "+"))
	default:
		return fmt.Sprintf("%s %s кг", word, strings.TrimPrefix(weight, "+"))
	}
}

func pickWeight(rng *rand.Rand, gender model.Gender, used map[string]bool) string {
	pool := maleWeights
	if gender == model.GenderFemale {
		pool = femaleWeights
	}
	for tries := 0; tries < len(pool); tries++ {
		w := pool[rng.Intn(len(pool))]
		if used == nil || !used[w] {
			if used != nil {
				used[w] = true
			}
			return w
		}
	}
	return pool[rng.Intn(len(pool))]
}

func fullName(rng *rand.Rand, gender model.Gender) string {
	if gender == model.GenderFemale {
		return femaleSurnames[rng.Intn(len(femaleSurnames))] + " " +
			femaleGivenNames[rng.Intn(len(femaleGivenNames))]
	}
	name := maleSurnames[rng.Intn(len(maleSurnames))] + " " +
		maleGivenNames[rng.Intn(len(maleGivenNames))]
	// Some offices include the patronymic, some do not.
	if rng.Intn(2) == 0 {
		name += " " + patronymics[rng.Intn(len(patronymics))]
	}
	return name
}

func encode(text string, enc Encoding) ([]byte, error) {
	switch enc {
	case EncodingCP1251:
		out, err := charmap.Windows1251.NewEncoder().Bytes([]byte(text))
		if err != nil {
			return nil, fmt.Errorf("rostergen: encode cp1251: %w", err)
		}
		return out, nil
	case EncodingUTF8, "":
		return []byte(text), nil
	default:
		return nil, fmt.Errorf("rostergen: unknown encoding %q", enc)
	}
}
