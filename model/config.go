package model

import "github.com/go-playground/validator/v10"

// ResolverConfig configures the entity resolution stage
type ResolverConfig struct {
	// SimilarityThreshold is the minimum pairwise similarity score required
	// to merge two names into one group
	SimilarityThreshold float64 `json:"similarity_threshold" validate:"gte=0,lte=1"`
}

// DefaultResolverConfig returns the configuration used by the pipeline when
// none is provided
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		SimilarityThreshold: 0.85,
	}
}

// Validate checks that the configuration is usable. It must be called before
// any resolution work begins.
func (c ResolverConfig) Validate() error {
	return validator.New().Struct(c)
}
