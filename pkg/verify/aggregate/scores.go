package aggregate

import (
	"strings"
	"unicode"
)

// Sentiment labels returned by Sentiment().
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Sentiment tier scores. Fixed lookup, not interpolated.
const (
	sentimentStronglyPositiveScore = 90
	sentimentPositiveScore         = 75
	sentimentNegativeScore         = 25
	sentimentNeutralScore          = 50
)

// BiasDescriptor is the result of ExtractBias: the first matched category
// and its intensity score.
type BiasDescriptor struct {
	Type  string
	Score int
}

// tokenize lowercases and splits on non-letter/digit runs. Indicator terms
// are matched against whole tokens so "unverified" never counts as a
// "verified" occurrence.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func countToken(tokens []string, term string) int {
	n := 0
	for _, tok := range tokens {
		if tok == term {
			n++
		}
	}
	return n
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CredibilityScore scans analysis and claims text for indicator terms.
// Starts at the neutral baseline, moves by IndicatorStep per occurrence,
// clamped to [0,100]. Empty input returns the baseline.
func (t KeywordTable) CredibilityScore(analysisText, claimsText string) int {
	tokens := tokenize(analysisText + " " + claimsText)
	score := t.CredibilityBaseline
	for _, term := range t.PositiveIndicators {
		score += countToken(tokens, term) * t.IndicatorStep
	}
	for _, term := range t.NegativeIndicators {
		score -= countToken(tokens, term) * t.IndicatorStep
	}
	return clamp(score, 0, 100)
}

// BiasScore scans for bias category keywords and returns the strongest
// category's accumulated intensity, clamped to [0,100]. 0 when nothing
// matches.
func (t KeywordTable) BiasScore(sentimentText string) int {
	tokens := tokenize(sentimentText)
	best := 0
	for _, cat := range t.BiasCategories {
		score := 0
		for _, kw := range cat.Keywords {
			score += countToken(tokens, kw) * cat.Intensity
		}
		if score > best {
			best = score
		}
	}
	return clamp(best, 0, 100)
}

// ExtractBias returns a descriptor for the first category with a keyword
// match, or nil when the text carries no bias vocabulary.
func (t KeywordTable) ExtractBias(text string) *BiasDescriptor {
	tokens := tokenize(text)
	for _, cat := range t.BiasCategories {
		for _, kw := range cat.Keywords {
			if n := countToken(tokens, kw); n > 0 {
				return &BiasDescriptor{
					Type:  cat.Label,
					Score: clamp(n*cat.Intensity, 0, 100),
				}
			}
		}
	}
	return nil
}

// Sentiment classifies text into positive/negative/neutral by phrase match.
func Sentiment(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "strongly positive"), strings.Contains(lower, "positive"):
		return SentimentPositive
	case strings.Contains(lower, "negative"):
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// SentimentScore maps the matched phrase class to its fixed tier:
// "strongly positive" 90, generic positive 75, negative 25, otherwise 50.
func SentimentScore(text string) int {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "strongly positive"):
		return sentimentStronglyPositiveScore
	case strings.Contains(lower, "positive"):
		return sentimentPositiveScore
	case strings.Contains(lower, "negative"):
		return sentimentNegativeScore
	default:
		return sentimentNeutralScore
	}
}
