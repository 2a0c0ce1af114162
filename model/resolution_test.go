package model

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAliasMapCanonical(t *testing.T) {
	aliases := AliasMap{
		EntityTypeBill: {
			"25 O 1271": "25-O-1271",
			"25-O-1271": "25-O-1271",
		},
	}

	t.Run("Known mention resolves to canonical", func(t *testing.T) {
		assert.Equal(t, "25-O-1271", aliases.Canonical(EntityTypeBill, "25 O 1271"))
	})

	t.Run("Unknown mention falls back to itself", func(t *testing.T) {
		assert.Equal(t, "99-O-0001", aliases.Canonical(EntityTypeBill, "99-O-0001"))
	})

	t.Run("Unknown entity type falls back to the mention", func(t *testing.T) {
		assert.Equal(t, "Howard Shook", aliases.Canonical(EntityTypePerson, "Howard Shook"))
	})
}

func TestNewResolution(t *testing.T) {
	aliases := AliasMap{
		EntityTypeOrganization: {
			"Finance Dept":       "Finance Department",
			"Finance Department": "Finance Department",
			"Parks Department":   "Parks Department",
		},
	}

	resolution := NewResolution(aliases)

	t.Run("Reverse lookup groups aliases under canonical names", func(t *testing.T) {
		orgs := resolution.Canonical[EntityTypeOrganization]
		require.Len(t, orgs, 2)
		assert.Equal(t, []string{"Finance Department", "Finance Dept"}, orgs["Finance Department"])
		assert.Equal(t, []string{"Parks Department"}, orgs["Parks Department"])
	})

	t.Run("CanonicalNames returns sorted names", func(t *testing.T) {
		names := resolution.CanonicalNames(EntityTypeOrganization)
		assert.Equal(t, []string{"Finance Department", "Parks Department"}, names)
	})

	t.Run("CanonicalNames of an absent type is nil", func(t *testing.T) {
		assert.Nil(t, resolution.CanonicalNames(EntityTypeProject))
	})
}

func TestResolutionSaveLoad(t *testing.T) {
	resolution := NewResolution(AliasMap{
		EntityTypeBill: {
			"25 O 1271": "25-O-1271",
			"25-O-1271": "25-O-1271",
		},
	})

	path := filepath.Join(t.TempDir(), "resolved_entities.json")
	require.NoError(t, resolution.Save(path))

	loaded, err := LoadResolution(path)
	require.NoError(t, err)
	assert.Equal(t, resolution, loaded)

	t.Run("Loading a missing file returns an error", func(t *testing.T) {
		_, err := LoadResolution(filepath.Join(t.TempDir(), "missing.json"))
		assert.Error(t, err)
	})
}

func TestMentionCorpus(t *testing.T) {
	corpus := MentionCorpus{}

	corpus.Add(Mention{Type: EntityTypePerson, Text: "Howard Shook"})
	corpus.AddAll([]Mention{
		{Type: EntityTypeBill, Text: "25-O-1271"},
		{Type: EntityTypePerson, Text: "Howard Shook"},
	})

	assert.Equal(t, []string{"Howard Shook", "Howard Shook"}, corpus[EntityTypePerson],
		"Expected duplicates to be kept for frequency counting")
	assert.Equal(t, []string{"25-O-1271"}, corpus[EntityTypeBill])
}
