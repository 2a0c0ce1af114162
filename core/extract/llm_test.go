package extract

import (
	"testing"

	"github.com/jayeshbankoti007/civicgraph/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildExtractionPrompt(t *testing.T) {
	t.Run("Includes meeting info and transcript", func(t *testing.T) {
		transcript := &model.Transcript{
			Title:       "City Council Regular Session",
			MeetingDate: "2025-06-16",
		}
		prompt := BuildExtractionPrompt(transcript, "Ordinance 25-O-1271 passes.")

		assert.Contains(t, prompt, "Date: 2025-06-16")
		assert.Contains(t, prompt, "Title: City Council Regular Session")
		assert.Contains(t, prompt, "Ordinance 25-O-1271 passes.")
		assert.Contains(t, prompt, "single JSON object")
	})

	t.Run("Missing metadata falls back to Unknown", func(t *testing.T) {
		prompt := BuildExtractionPrompt(&model.Transcript{}, "")
		assert.Contains(t, prompt, "Date: Unknown")
		assert.Contains(t, prompt, "Title: Unknown")
	})
}

func TestDecodeExtraction(t *testing.T) {
	valid := `{
		"bills": [{"id": "25-O-1271", "title": "Sidewalk funding ordinance", "prediction": "APPROVED", "confidence": "HIGH", "reasoning": "vote is closed, motion passes"}],
		"people": [{"name": "Howard Shook", "role": "Councilmember", "organization": "City Council"}],
		"organizations": [{"name": "Department of Finance", "type": "department"}],
		"projects": [],
		"votes": [{"bill_id": "25-O-1271", "person": "Howard Shook", "vote": "yes"}]
	}`

	t.Run("Decodes plain JSON", func(t *testing.T) {
		extraction, err := DecodeExtraction(valid)
		require.NoError(t, err)
		require.Len(t, extraction.Bills, 1)
		assert.Equal(t, "25-O-1271", extraction.Bills[0].ID)
		assert.Equal(t, model.PredictionApproved, extraction.Bills[0].Prediction)
		require.Len(t, extraction.Votes, 1)
		assert.Equal(t, model.VoteYes, extraction.Votes[0].Value)
	})

	t.Run("Tolerates markdown fences", func(t *testing.T) {
		extraction, err := DecodeExtraction("```json\n" + valid + "\n```")
		require.NoError(t, err)
		assert.Len(t, extraction.People, 1)
	})

	t.Run("Tolerates bare fences", func(t *testing.T) {
		extraction, err := DecodeExtraction("```\n" + valid + "\n```")
		require.NoError(t, err)
		assert.Len(t, extraction.Organizations, 1)
	})

	t.Run("Rejects non-JSON responses", func(t *testing.T) {
		_, err := DecodeExtraction("I could not find any entities in the transcript.")
		assert.Error(t, err)
	})

	t.Run("Rejects invalid enum values", func(t *testing.T) {
		_, err := DecodeExtraction(`{"bills": [{"id": "25-O-1271", "title": "Sidewalk funding", "prediction": "MAYBE", "confidence": "HIGH", "reasoning": ""}]}`)
		assert.Error(t, err)
	})

	t.Run("Empty extraction is valid", func(t *testing.T) {
		extraction, err := DecodeExtraction(`{"bills": [], "people": [], "organizations": [], "projects": [], "votes": []}`)
		require.NoError(t, err)
		assert.Empty(t, extraction.Mentions())
	})
}
