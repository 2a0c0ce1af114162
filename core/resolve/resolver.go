package resolve

import (
	"log/slog"

	"github.com/jayeshbankoti007/civicgraph/helper"
	"github.com/jayeshbankoti007/civicgraph/model"
)

// Resolver composes the Normalizer and the FuzzyGrouper into a single
// alias→canonical mapping across an entire mention corpus. Bill mentions go
// through the identifier normalizer, organization and project mentions
// through the fuzzy grouper, person mentions through exact-match grouping.
//
// Resolve is a pure function of the corpus and the configuration: re-running
// it with the same input reproduces an identical Resolution.
type Resolver struct {
	config     model.ResolverConfig
	normalizer *Normalizer
	grouper    *FuzzyGrouper
	log        *slog.Logger
}

// NewResolver creates a Resolver. An out-of-range similarity threshold is a
// configuration error and fails here, before any processing begins.
func NewResolver(config model.ResolverConfig, logger *slog.Logger) (*Resolver, error) {
	if err := config.Validate(); err != nil {
		return nil, helper.NewError("validate resolver configuration", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	normalizer := NewNormalizer()

	return &Resolver{
		config:     config,
		normalizer: normalizer,
		grouper:    NewFuzzyGrouper(config.SimilarityThreshold, NewScorer(normalizer)),
		log:        logger,
	}, nil
}

// Resolve builds the Resolution for the whole corpus. Every mention of the
// corpus is covered; empty per-type mention sets yield empty segments.
func (r *Resolver) Resolve(corpus model.MentionCorpus) (*model.Resolution, error) {
	aliases := make(model.AliasMap, len(model.EntityTypes))

	aliases[model.EntityTypePerson] = r.resolveExact(corpus[model.EntityTypePerson])
	aliases[model.EntityTypeBill] = r.resolveBills(corpus[model.EntityTypeBill])
	aliases[model.EntityTypeOrganization] = r.grouper.Group(corpus[model.EntityTypeOrganization])
	aliases[model.EntityTypeProject] = r.grouper.Group(corpus[model.EntityTypeProject])

	resolution := model.NewResolution(aliases)

	for _, entityType := range model.EntityTypes {
		r.log.Info("Resolved entity type",
			slog.String("entity_type", string(entityType)),
			slog.Int("mentions", len(corpus[entityType])),
			slog.Int("aliases", len(aliases[entityType])),
			slog.Int("canonical", len(resolution.Canonical[entityType])),
		)
	}

	return resolution, nil
}

// resolveBills groups bill mentions by their normalized identifier. The
// canonical name is the normalized form itself, which is also registered as
// its own alias so downstream lookups of the canonical form succeed.
func (r *Resolver) resolveBills(bills []string) map[string]string {
	lookup := make(map[string]string, len(bills))

	for _, bill := range bills {
		normalized, ok := r.normalizer.NormalizeIdentifier(bill)
		if !ok {
			r.log.Warn("Bill identifier did not match any rule, passing through",
				slog.String("bill_id", bill))
		}
		lookup[bill] = normalized
		lookup[normalized] = normalized
	}

	return lookup
}

// resolveExact maps every name to itself. Person names are resolved by exact
// match only, fuzzy-merging distinct people is worse than keeping duplicates.
func (r *Resolver) resolveExact(names []string) map[string]string {
	lookup := make(map[string]string, len(names))
	for _, name := range names {
		lookup[name] = name
	}
	return lookup
}
