package catalog

import (
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MinMatchScore is the lowest Jaro-Winkler similarity accepted by BestMatch.
const MinMatchScore = 0.70

// BestMatch returns the candidate whose title is most similar to title.
// Ties keep the earlier candidate, so upstream relevance breaks them.
// Returns false when no candidate scores at least MinMatchScore.
func BestMatch(title string, candidates []Summary) (Summary, float64, bool) {
	want := normalizeTitle(title)
	if want == "" {
		return Summary{}, 0, false
	}

	var best Summary
	bestScore := -1.0
	for _, c := range candidates {
		score := float64(edlib.JaroWinklerSimilarity(want, normalizeTitle(c.Title)))
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	if bestScore < MinMatchScore {
		return Summary{}, 0, false
	}
	return best, bestScore, true
}

// normalizeTitle lowercases, strips accents and punctuation, and collapses whitespace.
func normalizeTitle(title string) string {
	s := strings.ToLower(title)
	s = removeAccents(s)
	s = strings.ReplaceAll(s, "&", " and ")

	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r), r == '-', r == ':', r == '.':
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}
