package extract

import (
	"fmt"
	"strings"

	"github.com/jayeshbankoti007/civicgraph/helper"
	"github.com/jayeshbankoti007/civicgraph/model"
	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
)

// DefaultMentionCollector creates an offline mention collector using a local
// NER model. It maps PER entities to person mentions and ORG entities to
// organization mentions; bill and project mentions need the LLM extractor.
func DefaultMentionCollector() (MentionCollectFunc, error) {
	modelName := "KnightsAnalytics/distilbert-NER"
	modelPath, err := helper.PrepareModel(modelName, "model.onnx")
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	config := hugot.TokenClassificationConfig{
		ModelPath: modelPath,
		Name:      "mention-collector",
		Options: []hugot.TokenClassificationOption{
			pipelines.WithSimpleAggregation(),
			pipelines.WithIgnoreLabels([]string{"O"}),
		},
	}
	nerPipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create NER pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create NER pipeline: %w", err)
	}

	return func(text string) ([]model.Mention, error) {
		result, err := nerPipeline.RunPipeline([]string{text})
		if err != nil {
			return nil, fmt.Errorf("failed to run NER: %w", err)
		}

		if len(result.Entities) == 0 {
			return nil, nil
		}

		var mentions []model.Mention
		for _, entity := range result.Entities[0] {
			entityType, ok := mentionType(entity.Entity)
			if !ok {
				continue
			}
			mentions = append(mentions, model.Mention{
				Type: entityType,
				Text: strings.TrimSpace(entity.Word),
			})
		}

		return mentions, nil
	}, nil
}

// mentionType maps a NER label (with optional BIO prefix) to an entity type
func mentionType(label string) (model.EntityType, bool) {
	label = strings.TrimPrefix(label, "B-")
	label = strings.TrimPrefix(label, "I-")

	switch label {
	case "PER", "PERSON":
		return model.EntityTypePerson, true
	case "ORG", "ORGANIZATION":
		return model.EntityTypeOrganization, true
	}
	return "", false
}
