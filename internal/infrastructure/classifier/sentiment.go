package classifier

import (
	"strings"
	"unicode"

	"github.com/kirillkom/docsight/internal/core/domain"
)

// lexiconEntry carries the polarity and subjectivity contribution of one
// word, on the same scales the report uses: polarity in [-1, 1],
// subjectivity in [0, 1].
type lexiconEntry struct {
	polarity     float64
	subjectivity float64
}

var sentimentLexicon = map[string]lexiconEntry{
	"good":         {0.7, 0.6},
	"great":        {0.8, 0.75},
	"excellent":    {1.0, 1.0},
	"positive":     {0.5, 0.6},
	"success":      {0.6, 0.5},
	"successful":   {0.6, 0.5},
	"benefit":      {0.5, 0.4},
	"beneficial":   {0.6, 0.5},
	"improve":      {0.4, 0.4},
	"improved":     {0.45, 0.4},
	"growth":       {0.4, 0.3},
	"profit":       {0.5, 0.3},
	"agree":        {0.3, 0.4},
	"agreement":    {0.2, 0.3},
	"happy":        {0.8, 1.0},
	"pleased":      {0.65, 0.8},
	"satisfied":    {0.5, 0.7},
	"satisfactory": {0.4, 0.6},
	"opportunity":  {0.4, 0.4},
	"win":          {0.6, 0.5},
	"approved":     {0.5, 0.4},
	"recommend":    {0.4, 0.5},
	"best":         {1.0, 0.3},
	"strong":       {0.4, 0.5},
	"reliable":     {0.5, 0.5},

	"bad":          {-0.7, 0.65},
	"poor":         {-0.6, 0.6},
	"terrible":     {-1.0, 1.0},
	"negative":     {-0.5, 0.6},
	"failure":      {-0.6, 0.5},
	"failed":       {-0.6, 0.5},
	"fail":         {-0.6, 0.5},
	"loss":         {-0.5, 0.4},
	"problem":      {-0.4, 0.4},
	"issue":        {-0.3, 0.3},
	"risk":         {-0.3, 0.4},
	"decline":      {-0.4, 0.3},
	"breach":       {-0.6, 0.4},
	"dispute":      {-0.5, 0.5},
	"complaint":    {-0.5, 0.5},
	"penalty":      {-0.5, 0.4},
	"unacceptable": {-0.8, 0.9},
	"unhappy":      {-0.8, 1.0},
	"rejected":     {-0.5, 0.4},
	"delay":        {-0.3, 0.3},
	"damage":       {-0.6, 0.4},
	"worst":        {-1.0, 0.3},
	"weak":         {-0.4, 0.5},
	"concern":      {-0.3, 0.4},
}

var negations = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "without": {}, "neither": {}, "nor": {},
}

// LexiconAnalyzer scores text against a small embedded sentiment lexicon.
// Polarity averages matched word scores, with a preceding negation
// flipping the sign; subjectivity averages matched subjectivity weights.
// Text with no lexicon hits is neutral.
type LexiconAnalyzer struct{}

func NewLexiconAnalyzer() *LexiconAnalyzer {
	return &LexiconAnalyzer{}
}

func (a *LexiconAnalyzer) Analyze(text string) domain.Sentiment {
	tokens := tokenize(text)

	var polaritySum, subjectivitySum float64
	matches := 0
	negated := false
	for _, token := range tokens {
		if _, ok := negations[token]; ok {
			negated = true
			continue
		}
		entry, ok := sentimentLexicon[token]
		if !ok {
			negated = false
			continue
		}
		polarity := entry.polarity
		if negated {
			polarity = -polarity * 0.5
			negated = false
		}
		polaritySum += polarity
		subjectivitySum += entry.subjectivity
		matches++
	}

	if matches == 0 {
		return domain.NeutralSentiment()
	}

	polarity := clamp(polaritySum/float64(matches), -1, 1)
	subjectivity := clamp(subjectivitySum/float64(matches), 0, 1)
	return domain.Sentiment{
		Polarity:     polarity,
		Subjectivity: subjectivity,
		Label:        domain.LabelForPolarity(polarity),
	}
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
