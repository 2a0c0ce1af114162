package model

import (
	"encoding/json"
	"os"
	"sort"
)

// MentionCorpus maps an entity type to the ordered sequence of raw mention
// strings collected across the whole corpus. Duplicates are kept so the
// resolver can count frequencies when picking canonical labels.
type MentionCorpus map[EntityType][]string

// Add appends a mention to the corpus
func (c MentionCorpus) Add(m Mention) {
	c[m.Type] = append(c[m.Type], m.Text)
}

// AddAll appends all mentions of an extraction to the corpus
func (c MentionCorpus) AddAll(mentions []Mention) {
	for _, m := range mentions {
		c.Add(m)
	}
}

// AliasMap maps (entity type, raw mention string) to the canonical entity
// name. It is built once per pipeline run and immutable thereafter.
type AliasMap map[EntityType]map[string]string

// Canonical returns the canonical name for a raw mention, or the mention
// itself if it was never observed during resolution
func (a AliasMap) Canonical(entityType EntityType, raw string) string {
	if segment, ok := a[entityType]; ok {
		if canonical, ok := segment[raw]; ok {
			return canonical
		}
	}
	return raw
}

// Resolution is the artifact of a resolver run: the alias→canonical map plus
// a reverse lookup of canonical→all observed aliases for audit.
type Resolution struct {
	Aliases   AliasMap                           `json:"aliases"`
	Canonical map[EntityType]map[string][]string `json:"canonical"`
}

// NewResolution builds a Resolution from an alias map, deriving the sorted
// reverse lookup
func NewResolution(aliases AliasMap) *Resolution {
	reverse := make(map[EntityType]map[string][]string, len(aliases))
	for entityType, segment := range aliases {
		reverse[entityType] = make(map[string][]string)
		for raw, canonical := range segment {
			reverse[entityType][canonical] = append(reverse[entityType][canonical], raw)
		}
		for canonical := range reverse[entityType] {
			sort.Strings(reverse[entityType][canonical])
		}
	}

	return &Resolution{
		Aliases:   aliases,
		Canonical: reverse,
	}
}

// CanonicalNames returns the sorted canonical names of one entity type
func (r *Resolution) CanonicalNames(entityType EntityType) []string {
	segment, ok := r.Canonical[entityType]
	if !ok {
		return nil
	}

	names := make([]string, 0, len(segment))
	for name := range segment {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Save writes the resolution as an indented JSON file. Map keys are sorted by
// encoding/json, so identical resolutions produce identical files.
func (r *Resolution) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadResolution reads a resolution artifact from a JSON file
func LoadResolution(path string) (*Resolution, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	resolution := &Resolution{}
	if err := json.Unmarshal(data, resolution); err != nil {
		return nil, err
	}

	return resolution, nil
}
