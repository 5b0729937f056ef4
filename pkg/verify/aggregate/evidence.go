package aggregate

import (
	"strings"
)

// Evidence classification values.
const (
	EvidenceSupporting = "supporting"
	EvidenceRefuting   = "refuting"
)

// claimMarker prefixes claim lines in collaborator output.
const claimMarker = "claim:"

// Evidence is one classified claim line, in input order.
type Evidence struct {
	Text           string
	Classification string
}

// ExtractEvidence splits claims text into lines beginning with a "Claim:"
// marker and classifies each as supporting or refuting by counting
// affirming vs. negating keywords. Input order is preserved. Lines without
// the marker are ignored; malformed input yields an empty slice, never an
// error.
func (t KeywordTable) ExtractEvidence(claimsText string) []Evidence {
	var out []Evidence
	for _, line := range strings.Split(claimsText, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) < len(claimMarker) || !strings.EqualFold(trimmed[:len(claimMarker)], claimMarker) {
			continue
		}
		body := strings.TrimSpace(trimmed[len(claimMarker):])
		out = append(out, Evidence{
			Text:           body,
			Classification: t.classifyClaimLine(body),
		})
	}
	return out
}

func (t KeywordTable) classifyClaimLine(line string) string {
	tokens := tokenize(line)
	affirming, negating := 0, 0
	for _, term := range t.Affirming {
		affirming += countToken(tokens, term)
	}
	for _, term := range t.Negating {
		negating += countToken(tokens, term)
	}
	if negating > affirming {
		return EvidenceRefuting
	}
	return EvidenceSupporting
}
