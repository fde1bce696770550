package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/vocabquiz/internal/logger"
	"github.com/example/vocabquiz/pkg/models"
)

// WordAdder stores new vocabulary items in a topic
type WordAdder interface {
	Add(ctx context.Context, topicID string, item *models.VocabularyItem) error
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	Created int
	Skipped int
	Added   []models.VocabularyItem
}

// Importer adds parsed vocabulary to existing topics
type Importer struct {
	words WordAdder
	log   *logger.Logger
}

// New creates an importer writing through words
func New(words WordAdder, log *logger.Logger) *Importer {
	if log == nil {
		log = logger.Nop()
	}
	return &Importer{words: words, log: log}
}

// Import appends items to topic, skipping words the topic already has
// (compared case-insensitively, including earlier items of the same import)
func (im *Importer) Import(ctx context.Context, topic models.Topic, items []models.VocabularyItem) (*ImportResult, error) {
	known := make(map[string]bool, len(topic.Vocabularies))
	for _, v := range topic.Vocabularies {
		known[strings.ToLower(strings.TrimSpace(v.Word))] = true
	}

	result := &ImportResult{}
	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(item.Word))
		if known[key] {
			result.Skipped++
			continue
		}

		item := item
		item.ID = ""
		if err := im.words.Add(ctx, topic.ID, &item); err != nil {
			return result, fmt.Errorf("failed to import %q: %w", item.Word, err)
		}
		known[key] = true
		result.Created++
		result.Added = append(result.Added, item)
	}

	im.log.Info("vocabulary imported", "topic", topic.Name, "created", result.Created, "skipped", result.Skipped)
	return result, nil
}
