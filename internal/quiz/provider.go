package quiz

import (
	"context"

	"github.com/example/vocabquiz/pkg/models"
)

// DistractorProvider supplies extra wrong answers of the same part of speech.
// Distractors must never fail: on any problem it returns an empty slice,
// which the generator treats the same as the provider declining.
type DistractorProvider interface {
	Available() bool
	Distractors(ctx context.Context, item models.VocabularyItem, count int) []string
}

// NoDistractors is the provider used when no external service is configured
type NoDistractors struct{}

func (NoDistractors) Available() bool { return false }

func (NoDistractors) Distractors(context.Context, models.VocabularyItem, int) []string {
	return nil
}
