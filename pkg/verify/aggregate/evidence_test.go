package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractEvidence(t *testing.T) {
	table := DefaultKeywordTable()

	t.Run("classifies and preserves order", func(t *testing.T) {
		text := "Claim: the event was confirmed by officials\n" +
			"some narration in between\n" +
			"Claim: the video is false and misleading"

		got := table.ExtractEvidence(text)
		if assert.Len(t, got, 2) {
			assert.Equal(t, "the event was confirmed by officials", got[0].Text)
			assert.Equal(t, EvidenceSupporting, got[0].Classification)
			assert.Equal(t, "the video is false and misleading", got[1].Text)
			assert.Equal(t, EvidenceRefuting, got[1].Classification)
		}
	})

	t.Run("marker is case insensitive", func(t *testing.T) {
		got := table.ExtractEvidence("CLAIM: verified by several outlets")
		if assert.Len(t, got, 1) {
			assert.Equal(t, EvidenceSupporting, got[0].Classification)
		}
	})

	t.Run("tie goes to supporting", func(t *testing.T) {
		got := table.ExtractEvidence("Claim: neither here nor there")
		if assert.Len(t, got, 1) {
			assert.Equal(t, EvidenceSupporting, got[0].Classification)
		}
	})

	t.Run("lines without marker are ignored", func(t *testing.T) {
		assert.Empty(t, table.ExtractEvidence("no claims here\njust prose"))
	})

	t.Run("empty input yields no evidence", func(t *testing.T) {
		assert.Empty(t, table.ExtractEvidence(""))
	})
}
