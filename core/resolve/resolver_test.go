package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jayeshbankoti007/civicgraph/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T, threshold float64) *Resolver {
	resolver, err := NewResolver(model.ResolverConfig{SimilarityThreshold: threshold}, nil)
	require.NoError(t, err, "Expected NewResolver to not return an error")
	return resolver
}

func TestNewResolver(t *testing.T) {
	t.Run("Valid threshold", func(t *testing.T) {
		resolver, err := NewResolver(model.DefaultResolverConfig(), nil)
		assert.NoError(t, err)
		assert.NotNil(t, resolver)
	})

	t.Run("Threshold above 1 fails fast", func(t *testing.T) {
		_, err := NewResolver(model.ResolverConfig{SimilarityThreshold: 1.5}, nil)
		assert.Error(t, err, "Expected an out-of-range threshold to be rejected before any processing")
	})

	t.Run("Negative threshold fails fast", func(t *testing.T) {
		_, err := NewResolver(model.ResolverConfig{SimilarityThreshold: -0.1}, nil)
		assert.Error(t, err)
	})

	t.Run("Boundary thresholds are accepted", func(t *testing.T) {
		for _, threshold := range []float64{0.0, 1.0} {
			_, err := NewResolver(model.ResolverConfig{SimilarityThreshold: threshold}, nil)
			assert.NoError(t, err, "Expected threshold %v to be valid", threshold)
		}
	})
}

func TestResolve(t *testing.T) {
	t.Run("Empty corpus yields empty segments for every type", func(t *testing.T) {
		resolver := newTestResolver(t, 0.85)

		resolution, err := resolver.Resolve(model.MentionCorpus{})
		require.NoError(t, err)

		for _, entityType := range model.EntityTypes {
			segment, ok := resolution.Aliases[entityType]
			assert.True(t, ok, "Expected a segment for %s even with no mentions", entityType)
			assert.Empty(t, segment)
		}
	})

	t.Run("Every mention is covered by the alias map", func(t *testing.T) {
		resolver := newTestResolver(t, 0.85)
		corpus := model.MentionCorpus{
			model.EntityTypePerson:       {"Howard Shook", "Marci Collier Overstreet"},
			model.EntityTypeBill:         {"25-O-1271", "25 O 1271", "not a bill"},
			model.EntityTypeOrganization: {"Finance Dept", "Finance Department", "Parks Department"},
			model.EntityTypeProject:      {"Beltline Expansion"},
		}

		resolution, err := resolver.Resolve(corpus)
		require.NoError(t, err)

		for entityType, mentions := range corpus {
			for _, mention := range mentions {
				_, ok := resolution.Aliases[entityType][mention]
				assert.True(t, ok, "Expected alias map to cover %s mention %q", entityType, mention)
			}
		}
	})

	t.Run("Bill variants resolve to one canonical identifier", func(t *testing.T) {
		resolver := newTestResolver(t, 0.85)
		corpus := model.MentionCorpus{
			model.EntityTypeBill: {"25-O-1271", "25 O 1271", "25-o-1271", "Ordinance 25-O-1271"},
		}

		resolution, err := resolver.Resolve(corpus)
		require.NoError(t, err)

		bills := resolution.Aliases[model.EntityTypeBill]
		for _, raw := range corpus[model.EntityTypeBill] {
			assert.Equal(t, "25-O-1271", bills[raw], "Expected %q to resolve to 25-O-1271", raw)
		}

		// The canonical form is registered as its own alias
		assert.Equal(t, "25-O-1271", bills["25-O-1271"])
	})

	t.Run("Malformed bill identifier passes through", func(t *testing.T) {
		resolver := newTestResolver(t, 0.85)
		corpus := model.MentionCorpus{
			model.EntityTypeBill: {"the sidewalk ordinance"},
		}

		resolution, err := resolver.Resolve(corpus)
		require.NoError(t, err)

		assert.Equal(t, "THE SIDEWALK ORDINANCE",
			resolution.Aliases[model.EntityTypeBill]["the sidewalk ordinance"])
	})

	t.Run("Person mentions group by exact match only", func(t *testing.T) {
		resolver := newTestResolver(t, 0.5)
		corpus := model.MentionCorpus{
			model.EntityTypePerson: {"Howard Shook", "Howard Shooke"},
		}

		resolution, err := resolver.Resolve(corpus)
		require.NoError(t, err)

		people := resolution.Aliases[model.EntityTypePerson]
		assert.Equal(t, "Howard Shook", people["Howard Shook"])
		assert.Equal(t, "Howard Shooke", people["Howard Shooke"],
			"Expected near-identical person names to stay distinct")
	})

	t.Run("Organizations group fuzzily, projects separately", func(t *testing.T) {
		resolver := newTestResolver(t, 0.6)
		corpus := model.MentionCorpus{
			model.EntityTypeOrganization: {"Dept of Finance", "Finance Department", "Finance Department"},
			model.EntityTypeProject:      {"Finance Department"},
		}

		resolution, err := resolver.Resolve(corpus)
		require.NoError(t, err)

		orgs := resolution.Aliases[model.EntityTypeOrganization]
		assert.Equal(t, "Finance Department", orgs["Dept of Finance"])

		// The project segment is resolved independently of the organizations
		projects := resolution.Aliases[model.EntityTypeProject]
		assert.Equal(t, "Finance Department", projects["Finance Department"])
		assert.Len(t, projects, 1)
	})

	t.Run("Resolving twice yields identical resolutions", func(t *testing.T) {
		corpus := model.MentionCorpus{
			model.EntityTypePerson:       {"Howard Shook"},
			model.EntityTypeBill:         {"25-O-1271", "25 o 1271"},
			model.EntityTypeOrganization: {"Finance Dept", "Dept of Finance", "Finance Department"},
			model.EntityTypeProject:      {"Beltline Expansion", "Beltline"},
		}

		first, err := newTestResolver(t, 0.6).Resolve(corpus)
		require.NoError(t, err)
		second, err := newTestResolver(t, 0.6).Resolve(corpus)
		require.NoError(t, err)

		assert.Equal(t, first, second, "Expected resolution to be deterministic")
	})

	t.Run("Reverse lookup lists all aliases sorted", func(t *testing.T) {
		resolver := newTestResolver(t, 0.85)
		corpus := model.MentionCorpus{
			model.EntityTypeBill: {"25 O 1271", "25-o-1271"},
		}

		resolution, err := resolver.Resolve(corpus)
		require.NoError(t, err)

		aliases := resolution.Canonical[model.EntityTypeBill]["25-O-1271"]
		assert.Equal(t, []string{"25 O 1271", "25-O-1271", "25-o-1271"}, aliases)
	})
}

func TestResolutionRoundTrip(t *testing.T) {
	resolver := newTestResolver(t, 0.6)
	corpus := model.MentionCorpus{
		model.EntityTypeBill:         {"25-O-1271", "25 o 1271"},
		model.EntityTypeOrganization: {"Finance Dept", "Finance Department"},
	}

	resolution, err := resolver.Resolve(corpus)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "resolved_entities.json")
	require.NoError(t, resolution.Save(path))

	loaded, err := model.LoadResolution(path)
	require.NoError(t, err)
	assert.Equal(t, resolution, loaded, "Expected the saved artifact to round-trip")

	// Saving again reproduces the identical artifact
	secondPath := filepath.Join(t.TempDir(), "resolved_entities.json")
	require.NoError(t, loaded.Save(secondPath))

	first, err := readFile(path)
	require.NoError(t, err)
	second, err := readFile(secondPath)
	require.NoError(t, err)
	assert.Equal(t, first, second, "Expected byte-identical artifacts for identical resolutions")
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	return string(data), err
}
