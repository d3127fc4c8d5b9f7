package derive

import (
	"math/big"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/kuisku/kuisku/internal/catalog"
	"github.com/kuisku/kuisku/internal/quiz"
)

// Extractor names.
const (
	NameMultiplierAn     = "multiplier-an"
	NameBareArithmetic   = "bare-arithmetic"
	NameExpression       = "expression"
	NameBinaryFallback   = "binary-fallback"
	NameMode             = "mode"
	NamePlaceValue       = "place-value"
	NameHoursToMinutes   = "hours-to-minutes"
	NameKgToGrams        = "kg-to-grams"
	NameQuartersToMonths = "quarters-to-months"
	NameComparison       = "comparison"
	NameParitySequence   = "parity-sequence"
	NameSquarePerimeter  = "square-perimeter"
	NameCubeVolume       = "cube-volume"
	NameDefinition       = "definition"
)

// maxSequenceLen caps the number of terms a parity sequence may produce.
const maxSequenceLen = 500

var (
	fillerRe    = regexp.MustCompile(`\b(hasil dari|berapakah|berapa|adalah)\b|=`)
	unitRe      = regexp.MustCompile(`\bcm(\^\d+|²|\b)|\b(gram|menit|bulan|tahun|hari|detik)\b`)
	timesRe     = regexp.MustCompile(`(\d)\s*[x×]\s*(\d)`)
	divideRe    = regexp.MustCompile(`(\d)\s*[:÷]\s*(\d)`)
	sqrtWordRe  = regexp.MustCompile(`akar kuadrat dari\s*(\d+(?:\.\d+)?)`)
	powerWordRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*pangkat\s*(-?\d+)`)
	perWordRe   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*per\s*(\d+(?:\.\d+)?)`)
	ellipsisRe  = regexp.MustCompile(`\.{2,}|…|\?`)
	addSubRe    = regexp.MustCompile(`\d\s*[+\-]\s*\d`)
	arithTokRe  = regexp.MustCompile(`\d+(?:[.,]\d+)?|[+\-*/]`)
	digitsRe    = regexp.MustCompile(`\d+`)

	binaryRe     = regexp.MustCompile(`(\d+)\s*([+\-x*×]|\s[/:÷]\s)\s*(\d+)`)
	modeRe       = regexp.MustCompile(`modus\s*dari\s*data\s*:?\s*([\d\s,]+)`)
	placeValueRe = regexp.MustCompile(`nilai tempat\s*(?:angka\s*)?(\d+)\s*(?:di|pada)\s*(?:bilangan\s*)?(\d[\d.]*)`)
	hoursRe      = regexp.MustCompile(`(\d+)\s*jam\s*=\s*(?:\.{3}|…)\s*menit`)
	kgRe         = regexp.MustCompile(`(\d+)\s*kg\s*=\s*(?:\.{3}|…)\s*gram`)
	quartersRe   = regexp.MustCompile(`(\d+)\s*triwulan\s*=\s*(?:\.{3}|…)\s*bulan`)
	comparisonRe = regexp.MustCompile(`([\d.,/]+)\s*(?:\.{3}|…)\s*([\d.,/]+)\s*=`)
	parityRe     = regexp.MustCompile(`(ganjil|genap)\s*antara\s*(\d+)\s*dan\s*(\d+)`)
	perimeterRe  = regexp.MustCompile(`keliling\s*(?:sisi\s*|persegi\s*)?(?:dengan\s*)?(?:sisi\s*)?(\d+)\s*cm`)
	volumeRe     = regexp.MustCompile(`volume\s*(?:kubus\s*)?(?:dengan\s*)?(?:(?:sisi|rusuk)\s*)?(\d+)\s*cm`)
)

// DefaultExtractors returns the standard chain. Order matters: earlier
// extractors shadow later ones.
func DefaultExtractors(cat *catalog.Catalog) []Extractor {
	return []Extractor{
		multiplierAn(cat),
		{Name: NameBareArithmetic, Type: quiz.TypeNumeric, Eval: evalBareArithmetic},
		{Name: NameExpression, Type: quiz.TypeNumeric, Eval: evalExpression},
		{Name: NameBinaryFallback, Pattern: binaryRe, Type: quiz.TypeNumeric, Eval: evalBinary},
		{Name: NameMode, Pattern: modeRe, Type: quiz.TypeNumeric, Eval: evalMode},
		placeValue(cat),
		scaled(NameHoursToMinutes, hoursRe, 60),
		scaled(NameKgToGrams, kgRe, 1000),
		scaled(NameQuartersToMonths, quartersRe, 3),
		{Name: NameComparison, Pattern: comparisonRe, Type: quiz.TypeComparison, Eval: evalComparison},
		{Name: NameParitySequence, Pattern: parityRe, Type: quiz.TypeSequence, Eval: evalParity},
		{Name: NameSquarePerimeter, Pattern: perimeterRe, Type: quiz.TypeNumeric, Eval: func(m []string, _ string) (string, bool) {
			s, err := strconv.Atoi(m[1])
			if err != nil {
				return "", false
			}
			return strconv.Itoa(4 * s), true
		}},
		{Name: NameCubeVolume, Pattern: volumeRe, Type: quiz.TypeNumeric, Eval: func(m []string, _ string) (string, bool) {
			s, err := strconv.ParseInt(m[1], 10, 64)
			if err != nil || s > 100000 {
				return "", false
			}
			return strconv.FormatInt(s*s*s, 10), true
		}},
		{Name: NameDefinition, Type: quiz.TypeDefinition, Eval: func(_ []string, text string) (string, bool) {
			return cat.Definition(text)
		}},
	}
}

// multiplierAn handles "tiga 100-an": the product of a number word and a
// base, rendered as a canonical magnitude word when one exists.
func multiplierAn(cat *catalog.Catalog) Extractor {
	words := make([]string, 0, len(cat.NumberWords))
	for w := range cat.NumberWords {
		words = append(words, regexp.QuoteMeta(w))
	}
	// Longest first so "sepuluh" is never shadowed by a shorter prefix.
	sort.Slice(words, func(i, j int) bool {
		if len(words[i]) != len(words[j]) {
			return len(words[i]) > len(words[j])
		}
		return words[i] < words[j]
	})
	ex := Extractor{Name: NameMultiplierAn, Type: quiz.TypeNumeric}
	if len(words) == 0 {
		ex.Eval = func([]string, string) (string, bool) { return "", false }
		return ex
	}
	ex.Pattern = regexp.MustCompile(`(` + strings.Join(words, "|") + `)\s*(\d+)-an`)
	ex.Eval = func(m []string, _ string) (string, bool) {
		mult, ok := cat.NumberWord(m[1])
		if !ok {
			return "", false
		}
		base, err := strconv.Atoi(m[2])
		if err != nil {
			return "", false
		}
		product := mult * base
		if w, ok := cat.MagnitudeWord(product); ok {
			return w, true
		}
		return strconv.Itoa(product), true
	}
	return ex
}

// sanitize strips filler words and units and maps the textual operators
// onto their arithmetic symbols.
func sanitize(text string) string {
	s := fillerRe.ReplaceAllString(text, " ")
	s = unitRe.ReplaceAllString(s, " ")
	s = replaceAllRepeated(timesRe, s, "$1 * $2")
	s = replaceAllRepeated(divideRe, s, "$1 / $2")
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// rewriteIdioms turns "akar kuadrat dari N", "N pangkat M" and "N per M"
// into evaluator syntax.
func rewriteIdioms(s string) string {
	s = sqrtWordRe.ReplaceAllString(s, "sqrt($1)")
	s = powerWordRe.ReplaceAllString(s, "($1**$2)")
	s = perWordRe.ReplaceAllString(s, "($1/$2)")
	return s
}

// replaceAllRepeated applies re until the text stops changing, so chained
// operands like "2 x 3 x 4" are all rewritten.
func replaceAllRepeated(re *regexp.Regexp, s, repl string) string {
	for i := 0; i < 8; i++ {
		next := re.ReplaceAllString(s, repl)
		if next == s {
			break
		}
		s = next
	}
	return s
}

// evalBareArithmetic rebuilds "a op b op c" from the numbers and operators
// left after sanitizing, in textual order. Two numbers with no operator
// between them mean the text is prose, not arithmetic.
func evalBareArithmetic(_ []string, text string) (string, bool) {
	s := rewriteIdioms(sanitize(text))
	if !addSubRe.MatchString(s) || strings.ContainsAny(s, "()") {
		return "", false
	}

	toks := arithTokRe.FindAllString(s, -1)
	var b strings.Builder
	prevNumber := false
	for _, t := range toks {
		isNumber := t[0] >= '0' && t[0] <= '9'
		if isNumber && prevNumber {
			return "", false
		}
		prevNumber = isNumber
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strings.ReplaceAll(t, ",", "."))
	}

	v, err := Eval(b.String())
	if err != nil {
		return "", false
	}
	return quiz.FormatNumber(v), true
}

// evalExpression evaluates the whole sanitized question. Any leftover word
// makes the evaluator refuse it.
func evalExpression(_ []string, text string) (string, bool) {
	s := rewriteIdioms(sanitize(text))
	s = strings.TrimSpace(ellipsisRe.ReplaceAllString(s, " "))
	s = strings.TrimRight(s, ". ")
	if s == "" {
		return "", false
	}
	v, err := Eval(s)
	if err != nil {
		return "", false
	}
	return quiz.FormatNumber(v), true
}

func evalBinary(m []string, _ string) (string, bool) {
	a, err1 := strconv.ParseFloat(m[1], 64)
	b, err2 := strconv.ParseFloat(m[3], 64)
	if err1 != nil || err2 != nil {
		return "", false
	}
	switch strings.TrimSpace(m[2]) {
	case "+":
		return strconv.FormatInt(int64(a+b), 10), true
	case "-":
		return strconv.FormatInt(int64(a-b), 10), true
	case "x", "*", "×":
		return strconv.FormatInt(int64(a*b), 10), true
	case "/", ":", "÷":
		if b == 0 {
			return "", false
		}
		return quiz.FormatNumber(a / b), true
	}
	return "", false
}

// evalMode returns the most frequent value; ties go to the smallest.
func evalMode(m []string, _ string) (string, bool) {
	counts := make(map[int]int)
	for _, d := range digitsRe.FindAllString(m[1], -1) {
		n, err := strconv.Atoi(d)
		if err != nil {
			return "", false
		}
		counts[n]++
	}
	if len(counts) == 0 {
		return "", false
	}
	best, bestCount := 0, 0
	for n, c := range counts {
		if c > bestCount || (c == bestCount && n < best) {
			best, bestCount = n, c
		}
	}
	return strconv.Itoa(best), true
}

// placeValue names the position of the last occurrence of a digit in a
// number, counted from the right.
func placeValue(cat *catalog.Catalog) Extractor {
	return Extractor{
		Name:    NamePlaceValue,
		Pattern: placeValueRe,
		Type:    quiz.TypeDefinition,
		Eval: func(m []string, _ string) (string, bool) {
			digit := m[1]
			number := strings.ReplaceAll(m[2], ".", "")
			idx := strings.LastIndex(number, digit)
			if idx < 0 {
				return "", false
			}
			pos := len(number) - 1 - idx
			if pos >= len(cat.PlaceNames) {
				return "", false
			}
			return cat.PlaceNames[pos], true
		},
	}
}

// scaled converts "N <unit> = ... <unit>" by a fixed factor.
func scaled(name string, re *regexp.Regexp, factor int) Extractor {
	return Extractor{
		Name:    name,
		Pattern: re,
		Type:    quiz.TypeNumeric,
		Eval: func(m []string, _ string) (string, bool) {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return "", false
			}
			return strconv.Itoa(n * factor), true
		},
	}
}

// evalComparison compares two operands as exact rationals so that
// 1/2 and 0,5 are equal.
func evalComparison(m []string, _ string) (string, bool) {
	a, ok := parseRat(m[1])
	if !ok {
		return "", false
	}
	b, ok := parseRat(m[2])
	if !ok {
		return "", false
	}
	switch a.Cmp(b) {
	case 0:
		return "=", true
	case 1:
		return ">", true
	default:
		return "<", true
	}
}

func parseRat(s string) (*big.Rat, bool) {
	s = strings.Trim(strings.ReplaceAll(s, ",", "."), ".")
	if s == "" || strings.Count(s, "/") > 1 || strings.Count(s, ".") > 1 {
		return nil, false
	}
	return new(big.Rat).SetString(s)
}

// evalParity lists the odd or even numbers strictly between two bounds.
func evalParity(m []string, _ string) (string, bool) {
	lo, err1 := strconv.Atoi(m[2])
	hi, err2 := strconv.Atoi(m[3])
	if err1 != nil || err2 != nil {
		return "", false
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi-lo > 2*maxSequenceLen {
		return "", false
	}
	want := 1
	if m[1] == "genap" {
		want = 0
	}
	var seq []string
	for i := lo + 1; i < hi; i++ {
		if i%2 == want {
			seq = append(seq, strconv.Itoa(i))
		}
	}
	if len(seq) == 0 {
		return "", false
	}
	return strings.Join(seq, " "), true
}
