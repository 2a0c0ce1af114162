package resolve

import "sort"

// FuzzyGrouper clusters free-text names by string similarity.
//
// Grouping runs greedily over the lexicographically sorted set of unique
// names, so the resulting partition does not depend on the input order: each
// name joins the first existing group whose seed (its lexicographically
// smallest member) scores at least Threshold against it, otherwise it seeds
// a new group. This is O(n*k) for k groups, fine for corpora in the hundreds.
//
// The canonical label of a group is the most frequent original string in the
// input; ties break to the shortest string, then to first-seen input order.
// Only that last tie-break is sensitive to input order.
type FuzzyGrouper struct {
	Threshold float64

	scorer *Scorer
}

// NewFuzzyGrouper creates a grouper with the given similarity threshold
func NewFuzzyGrouper(threshold float64, scorer *Scorer) *FuzzyGrouper {
	return &FuzzyGrouper{
		Threshold: threshold,
		scorer:    scorer,
	}
}

type group struct {
	seed    string
	members []string
}

// Group partitions names into similarity clusters and returns the
// alias→canonical mapping covering every input name
func (g *FuzzyGrouper) Group(names []string) map[string]string {
	lookup := make(map[string]string, len(names))
	if len(names) == 0 {
		return lookup
	}

	counts := make(map[string]int, len(names))
	firstSeen := make(map[string]int, len(names))
	for i, name := range names {
		counts[name]++
		if _, ok := firstSeen[name]; !ok {
			firstSeen[name] = i
		}
	}

	unique := make([]string, 0, len(counts))
	for name := range counts {
		unique = append(unique, name)
	}
	sort.Strings(unique)

	var groups []*group
	for _, name := range unique {
		joined := false
		for _, grp := range groups {
			if g.scorer.Score(name, grp.seed) >= g.Threshold {
				grp.members = append(grp.members, name)
				joined = true
				break
			}
		}
		if !joined {
			groups = append(groups, &group{seed: name, members: []string{name}})
		}
	}

	for _, grp := range groups {
		canonical := g.canonicalLabel(grp.members, counts, firstSeen)
		for _, member := range grp.members {
			lookup[member] = canonical
		}
	}

	return lookup
}

// canonicalLabel picks the representative of a group: highest corpus
// frequency, then shortest string, then earliest first occurrence
func (g *FuzzyGrouper) canonicalLabel(members []string, counts map[string]int, firstSeen map[string]int) string {
	best := members[0]
	for _, candidate := range members[1:] {
		switch {
		case counts[candidate] > counts[best]:
			best = candidate
		case counts[candidate] == counts[best] && len(candidate) < len(best):
			best = candidate
		case counts[candidate] == counts[best] && len(candidate) == len(best) && firstSeen[candidate] < firstSeen[best]:
			best = candidate
		}
	}
	return best
}
