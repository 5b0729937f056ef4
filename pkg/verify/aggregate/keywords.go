package aggregate

// KeywordTable is the enumerated vocabulary the scoring functions match
// against. Thresholds and vocabularies are data, not code, so deployments
// can tune them and tests can pin them without touching scoring logic.
type KeywordTable struct {
	// PositiveIndicators raise the credibility score per occurrence.
	PositiveIndicators []string
	// NegativeIndicators lower the credibility score per occurrence.
	NegativeIndicators []string
	// IndicatorStep is the per-occurrence increment/decrement.
	IndicatorStep int
	// CredibilityBaseline is the neutral starting score.
	CredibilityBaseline int

	// BiasCategories maps a category label (e.g. "Political") to the
	// keywords that trigger it and the intensity one match contributes.
	BiasCategories []BiasCategory

	// Affirming/Negating classify extracted claim lines as supporting or
	// refuting evidence.
	Affirming []string
	Negating  []string
}

// BiasCategory is one keyword family with its per-occurrence intensity.
type BiasCategory struct {
	Label     string
	Keywords  []string
	Intensity int
}

// DefaultKeywordTable returns the vocabulary calibrated against the
// original analyzer's observed behavior.
func DefaultKeywordTable() KeywordTable {
	return KeywordTable{
		PositiveIndicators:  []string{"verified", "confirmed", "accurate", "supported", "credible", "reliable"},
		NegativeIndicators:  []string{"misleading", "inaccurate", "false", "unverified", "fabricated", "debunked"},
		IndicatorStep:       10,
		CredibilityBaseline: 50,
		BiasCategories: []BiasCategory{
			{Label: "Political", Keywords: []string{"political", "partisan", "propaganda"}, Intensity: 30},
			{Label: "Commercial", Keywords: []string{"sponsored", "advertisement", "promotional"}, Intensity: 20},
			{Label: "Sensational", Keywords: []string{"shocking", "outrageous", "clickbait"}, Intensity: 25},
		},
		Affirming: []string{"true", "correct", "confirmed", "accurate", "supported", "verified"},
		Negating:  []string{"false", "incorrect", "wrong", "misleading", "refuted", "debunked", "not"},
	}
}
