package resolve

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGrouper(threshold float64) *FuzzyGrouper {
	return NewFuzzyGrouper(threshold, NewScorer(NewNormalizer()))
}

func TestGroup(t *testing.T) {
	t.Run("Empty input yields empty lookup", func(t *testing.T) {
		lookup := newTestGrouper(0.85).Group(nil)
		assert.Empty(t, lookup)
	})

	t.Run("Single name maps to itself", func(t *testing.T) {
		lookup := newTestGrouper(0.85).Group([]string{"Department of Finance"})
		assert.Equal(t, map[string]string{"Department of Finance": "Department of Finance"}, lookup)
	})

	t.Run("Finance department variants group to the most frequent variant", func(t *testing.T) {
		names := []string{
			"Dept of Finance",
			"Finance Department",
			"Finance Department",
			"Finance Dept",
		}
		lookup := newTestGrouper(0.6).Group(names)

		require.Len(t, lookup, 3, "Expected one entry per distinct name")
		assert.Equal(t, "Finance Department", lookup["Dept of Finance"])
		assert.Equal(t, "Finance Department", lookup["Finance Department"])
		assert.Equal(t, "Finance Department", lookup["Finance Dept"])
	})

	t.Run("Dissimilar names stay in separate groups", func(t *testing.T) {
		lookup := newTestGrouper(0.8).Group([]string{"Parks Department", "Finance Department"})

		assert.Equal(t, "Parks Department", lookup["Parks Department"])
		assert.Equal(t, "Finance Department", lookup["Finance Department"])
	})

	t.Run("Frequency ties break to the shortest name", func(t *testing.T) {
		lookup := newTestGrouper(0.6).Group([]string{"Finance Department", "Finance Dept"})

		assert.Equal(t, "Finance Dept", lookup["Finance Department"])
		assert.Equal(t, "Finance Dept", lookup["Finance Dept"])
	})

	t.Run("Full ties break to first-seen input order", func(t *testing.T) {
		// Same frequency, same length, only input order differs
		lookup := newTestGrouper(0.6).Group([]string{"Dept B", "Dept A"})

		if canonical, ok := lookup["Dept A"]; ok && canonical == lookup["Dept B"] {
			assert.Equal(t, "Dept B", canonical, "Expected the first-seen name to win a full tie")
		}
	})

	t.Run("Group partition is independent of input order", func(t *testing.T) {
		forward := []string{"Dept of Finance", "Parks Department", "Finance Department", "Finance Dept"}
		backward := []string{"Finance Dept", "Finance Department", "Parks Department", "Dept of Finance"}

		groupsOf := func(lookup map[string]string) map[string][]string {
			groups := make(map[string][]string)
			for alias, canonical := range lookup {
				groups[canonical] = append(groups[canonical], alias)
			}
			return groups
		}

		forwardGroups := groupsOf(newTestGrouper(0.6).Group(forward))
		backwardGroups := groupsOf(newTestGrouper(0.6).Group(backward))

		assert.Equal(t, len(forwardGroups), len(backwardGroups),
			"Expected the same number of groups regardless of input order")

		// Compare the partitions as sets of member sets
		memberSets := func(groups map[string][]string) map[string]int {
			sets := make(map[string]int)
			for _, members := range groups {
				key := ""
				for _, m := range sortedCopy(members) {
					key += m + "|"
				}
				sets[key]++
			}
			return sets
		}
		assert.Equal(t, memberSets(forwardGroups), memberSets(backwardGroups),
			"Expected identical group membership regardless of input order")
	})

	t.Run("Grouping is idempotent", func(t *testing.T) {
		names := []string{"Dept of Finance", "Finance Department", "Finance Dept"}
		first := newTestGrouper(0.6).Group(names)
		second := newTestGrouper(0.6).Group(names)
		assert.Equal(t, first, second)
	})

	t.Run("Threshold 1.0 only merges identical normalized forms", func(t *testing.T) {
		lookup := newTestGrouper(1.0).Group([]string{"Finance Dept", "Finance Department", "Dept of Finance"})

		assert.Equal(t, lookup["Finance Dept"], lookup["Finance Department"],
			"Expected abbreviation-equal names to merge even at threshold 1.0")
		assert.Equal(t, "Dept of Finance", lookup["Dept of Finance"],
			"Expected non-identical names to stay apart at threshold 1.0")
	})
}

func sortedCopy(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	sort.Strings(out)
	return out
}
