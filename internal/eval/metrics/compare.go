package metrics

import (
	"strings"
	"unicode"

	"github.com/verdantlabs/plantid/internal/eval/dataset"
	"github.com/verdantlabs/plantid/internal/models"
)

// Field weights for the overall score. Scientific name carries the most
// weight because it is the least ambiguous ground truth.
const (
	weightScientificName  = 0.5
	weightCommonName      = 0.35
	weightAlternativeName = 0.15
)

// RecordComparison holds field-level comparison results for one
// identified record against its ground truth.
type RecordComparison struct {
	CommonNameMatch      FieldMatch
	ScientificNameMatch  FieldMatch
	AlternativeNameMatch FieldMatch

	FieldScores  map[string]float64
	OverallScore float64
}

// FieldMatch is the comparison result for a single field.
type FieldMatch struct {
	Expected string
	Actual   string
	Score    float64 // 0.0 to 1.0
	Method   string  // "exact", "fuzzy", "partial", "missing"
}

// CompareRecord scores an identification record against a dataset item.
// Fields without ground truth are excluded from the overall score, which
// is re-normalized over the fields that were scored.
func CompareRecord(record *models.Record, item dataset.Item) *RecordComparison {
	comparison := &RecordComparison{
		FieldScores: make(map[string]float64),
	}

	alternative := ""
	if record != nil && record.AlternativeName != nil {
		alternative = *record.AlternativeName
	}
	name, scientific := "", ""
	if record != nil {
		name = record.Name
		scientific = record.ScientificName
	}

	comparison.CommonNameMatch = compareField(item.CommonName, name)
	comparison.ScientificNameMatch = compareField(item.ScientificName, scientific)
	comparison.AlternativeNameMatch = compareField(item.AlternativeName, alternative)

	totalWeight := 0.0
	weighted := 0.0

	score := func(key string, weight float64, expected string, match FieldMatch) {
		if expected == "" {
			return
		}
		comparison.FieldScores[key] = match.Score
		weighted += weight * match.Score
		totalWeight += weight
	}

	score("common_name", weightCommonName, item.CommonName, comparison.CommonNameMatch)
	score("scientific_name", weightScientificName, item.ScientificName, comparison.ScientificNameMatch)
	score("alternative_name", weightAlternativeName, item.AlternativeName, comparison.AlternativeNameMatch)

	if totalWeight > 0 {
		comparison.OverallScore = weighted / totalWeight
	}

	return comparison
}

func compareField(expected, actual string) FieldMatch {
	match := FieldMatch{Expected: expected, Actual: actual}

	if expected == "" {
		return match
	}
	if actual == "" {
		match.Method = "missing"
		return match
	}

	normExpected := normalize(expected)
	normActual := normalize(actual)

	if normExpected == normActual {
		match.Score = 1.0
		match.Method = "exact"
		return match
	}

	similarity := levenshteinSimilarity(normExpected, normActual)

	// One name contained in the other counts as a partial match, e.g.
	// "Epipremnum aureum" vs "Epipremnum aureum (Golden Pothos)".
	if strings.Contains(normActual, normExpected) || strings.Contains(normExpected, normActual) {
		if similarity < 0.7 {
			similarity = 0.7
		}
		match.Score = similarity
		match.Method = "partial"
		return match
	}

	match.Score = similarity
	if similarity >= 0.7 {
		match.Method = "fuzzy"
	} else {
		match.Method = "missing"
	}
	return match
}

// normalize lowercases, strips punctuation, and collapses whitespace so
// cosmetic differences don't penalize a correct answer.
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '\'':
			// "Law's" and "Laws" compare equal.
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// levenshteinSimilarity returns 1 - distance/maxLen, in [0, 1].
func levenshteinSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(a, b))/float64(maxLen)
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
