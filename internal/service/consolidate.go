package service

import (
	"math"
	"strconv"
	"strings"

	"github.com/pageza/alchemorsel-v2/mealplan/internal/model"
)

var vulgarFractions = map[rune]string{
	'¼': "1/4", '½': "1/2", '¾': "3/4",
	'⅓': "1/3", '⅔': "2/3",
	'⅕': "1/5", '⅖': "2/5", '⅗': "3/5", '⅘': "4/5",
	'⅙': "1/6", '⅚': "5/6",
	'⅛': "1/8", '⅜': "3/8", '⅝': "5/8", '⅞': "7/8",
}

// ParseQuantity reads an ingredient quantity. It accepts decimals with a dot
// or comma ("2", "0.5", "1,5"), fractions ("1/2"), mixed numbers ("1 1/2")
// and unicode fractions ("½", "1½"). Anything else is not numeric.
func ParseQuantity(s string) (float64, bool) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		if frac, ok := vulgarFractions[r]; ok {
			b.WriteString(" " + frac)
			continue
		}
		b.WriteRune(r)
	}

	fields := strings.Fields(b.String())
	switch len(fields) {
	case 1:
		return parseNumber(fields[0])
	case 2:
		whole, ok := parseDecimal(fields[0])
		if !ok || whole != math.Trunc(whole) || !strings.Contains(fields[1], "/") {
			return 0, false
		}
		frac, ok := parseFraction(fields[1])
		if !ok {
			return 0, false
		}
		return whole + frac, true
	default:
		return 0, false
	}
}

func parseNumber(s string) (float64, bool) {
	if strings.Contains(s, "/") {
		return parseFraction(s)
	}
	return parseDecimal(s)
}

func parseFraction(s string) (float64, bool) {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		return 0, false
	}
	n, ok := parseDecimal(num)
	if !ok {
		return 0, false
	}
	d, ok := parseDecimal(den)
	if !ok || d == 0 {
		return 0, false
	}
	return n / d, true
}

// parseDecimal accepts only digits with at most one decimal separator, so
// strconv's exponent, hex and infinity forms are rejected.
func parseDecimal(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	seps := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' || r == ',':
			seps++
		default:
			return 0, false
		}
	}
	if seps > 1 || s == "." || s == "," {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// FormatQuantity prints q rounded to three decimals without trailing zeros.
func FormatQuantity(q float64) string {
	return strconv.FormatFloat(math.Round(q*1000)/1000, 'f', -1, 64)
}

// MergeQuantity combines two quantities of the same item. Numeric values are
// summed; otherwise both are kept as a label such as "2 + 1 batch". An empty
// side counts as absent.
func MergeQuantity(a, b string) string {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	x, okA := ParseQuantity(a)
	y, okB := ParseQuantity(b)
	if okA && okB {
		return FormatQuantity(x + y)
	}
	return a + " + " + b
}

// mergeTitles appends the titles of b that a does not already list.
func mergeTitles(a, b string) string {
	titles := model.SplitTitles(a)
	seen := make(map[string]bool, len(titles))
	for _, t := range titles {
		seen[t] = true
	}
	for _, t := range model.SplitTitles(b) {
		if !seen[t] {
			seen[t] = true
			titles = append(titles, t)
		}
	}
	return strings.Join(titles, model.TitleSeparator)
}

type mergeStats struct {
	Added   int
	Merged  int
	Skipped int
}

// Consolidate merges incoming entries into existing ones by consolidation
// key. Existing entries keep their order and come first, followed by the
// incoming entries that did not merge, in input order. Neither input slice
// is modified.
func Consolidate(existing, incoming []model.BasketEntry) []model.BasketEntry {
	out, _ := consolidate(existing, incoming)
	return out
}

func consolidate(existing, incoming []model.BasketEntry) ([]model.BasketEntry, mergeStats) {
	var stats mergeStats
	out := make([]model.BasketEntry, 0, len(existing)+len(incoming))
	index := make(map[model.ConsolidationKey]int, len(existing)+len(incoming))

	put := func(e model.BasketEntry) bool {
		k := e.Key()
		if i, ok := index[k]; ok {
			out[i] = mergeEntry(out[i], e)
			return true
		}
		index[k] = len(out)
		out = append(out, e)
		return false
	}

	for _, e := range existing {
		put(e)
	}
	for _, e := range incoming {
		if strings.TrimSpace(e.Name) == "" {
			stats.Skipped++
			continue
		}
		if put(e) {
			stats.Merged++
		} else {
			stats.Added++
		}
	}
	return out, stats
}

// mergeEntry folds e into the surviving entry. The survivor keeps its id,
// name, recipe id and checked state.
func mergeEntry(survivor, e model.BasketEntry) model.BasketEntry {
	survivor.Quantity = MergeQuantity(survivor.Quantity, e.Quantity)
	survivor.RecipeTitle = mergeTitles(survivor.RecipeTitle, e.RecipeTitle)
	if survivor.OriginalName == nil && e.OriginalName != nil {
		orig := *e.OriginalName
		survivor.OriginalName = &orig
	}
	return survivor
}
