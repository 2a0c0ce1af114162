package extract

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jayeshbankoti007/civicgraph/helper"
	"github.com/jayeshbankoti007/civicgraph/model"
)

// Store persists per-transcript extractions as JSON files in a directory and
// aggregates them into a mention corpus for the resolution stage
type Store struct {
	dir string
	log *slog.Logger
}

// NewStore creates a Store rooted at dir, creating the directory if needed
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, helper.NewError("create extractions directory", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{dir: dir, log: logger}, nil
}

// Save writes an extraction named after the transcript source file
func (s *Store) Save(name string, extraction *model.TranscriptExtraction) error {
	name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if name == "" {
		return helper.NewError("save extraction", fmt.Errorf("empty extraction name"))
	}

	path := filepath.Join(s.dir, name+".json")
	if err := extraction.SaveExtraction(path); err != nil {
		return helper.NewError("save extraction", err)
	}

	return nil
}

// LoadAll reads every extraction file in the store, sorted by filename so the
// corpus order is stable across runs. Files that fail to decode are skipped
// with a warning, a noisy corpus must not abort the pipeline.
func (s *Store) LoadAll() ([]*model.TranscriptExtraction, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, helper.NewError("list extraction files", err)
	}
	sort.Strings(paths)

	s.log.Info("Loading extraction files", slog.Int("count", len(paths)))

	var extractions []*model.TranscriptExtraction
	for _, path := range paths {
		extraction, err := model.LoadExtraction(path)
		if err != nil {
			s.log.Warn("Skipping unreadable extraction file",
				slog.String("file", filepath.Base(path)),
				slog.String("error", err.Error()),
			)
			continue
		}
		extractions = append(extractions, extraction)
	}

	return extractions, nil
}

// Aggregate collects all mentions across extractions into one corpus,
// preserving per-type encounter order
func Aggregate(extractions []*model.TranscriptExtraction) model.MentionCorpus {
	corpus := model.MentionCorpus{}
	for _, extraction := range extractions {
		corpus.AddAll(extraction.Mentions())
	}
	return corpus
}
