package quiz

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/example/vocabquiz/internal/logger"
	"github.com/example/vocabquiz/pkg/models"
)

// distractorCount is the number of wrong options in a multiple choice question
const distractorCount = 3

const (
	multipleChoiceTemplate = `Which vocabulary word means "%s"?`
	fillInTheBlankTemplate = `What word means "%s"?`
)

// Question is a single generated quiz question. Questions live only for one quiz session.
type Question struct {
	Type          models.QuestionType   // Format of the question
	Text          string                // Prompt shown to the learner
	CorrectAnswer string                // The vocabulary word
	Word          models.VocabularyItem // The item being tested
	Options       []string              // Shuffled answers, multiple choice only
}

// Generator turns a topic's vocabulary into a shuffled, mixed-format quiz
type Generator struct {
	provider DistractorProvider
	seed     func() int64
	log      *logger.Logger
}

// Option configures a Generator
type Option func(*Generator)

// WithSeed makes every generated quiz use the same random sequence
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = func() int64 { return seed }
	}
}

// WithLogger sets the logger used to report provider shortfalls
func WithLogger(log *logger.Logger) Option {
	return func(g *Generator) {
		g.log = log
	}
}

// NewGenerator creates a generator. A nil provider behaves like NoDistractors.
func NewGenerator(provider DistractorProvider, opts ...Option) *Generator {
	if provider == nil {
		provider = NoDistractors{}
	}
	g := &Generator{
		provider: provider,
		seed:     func() int64 { return time.Now().UnixNano() },
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds one question per vocabulary item of the topic, in shuffled order.
// The topic is read once up front, so concurrent calls never share state.
// The only error returned is the context's, when it is cancelled while waiting on the provider.
func (g *Generator) Generate(ctx context.Context, topic models.Topic) ([]Question, error) {
	rnd := rand.New(rand.NewSource(g.seed()))

	vocab := make([]models.VocabularyItem, len(topic.Vocabularies))
	copy(vocab, topic.Vocabularies)
	shuffle(rnd, vocab)

	questions := make([]Question, 0, len(vocab))
	for _, item := range vocab {
		if rnd.Float64() < topic.PracticeRatio {
			q, err := g.multipleChoice(ctx, rnd, item, vocab)
			if err != nil {
				return nil, err
			}
			questions = append(questions, q)
			continue
		}
		questions = append(questions, fillInTheBlank(item))
	}

	return questions, nil
}

func fillInTheBlank(item models.VocabularyItem) Question {
	return Question{
		Type:          models.FillInTheBlank,
		Text:          fmt.Sprintf(fillInTheBlankTemplate, item.Meaning),
		CorrectAnswer: item.Word,
		Word:          item,
	}
}

func (g *Generator) multipleChoice(ctx context.Context, rnd *rand.Rand, item models.VocabularyItem, vocab []models.VocabularyItem) (Question, error) {
	distractors := localDistractors(rnd, item, vocab, distractorCount)

	if len(distractors) < distractorCount && g.provider.Available() {
		needed := distractorCount - len(distractors)
		extra, err := g.fetchDistractors(ctx, item, needed)
		if err != nil {
			return Question{}, err
		}
		if len(extra) < needed {
			g.log.Debug("distractor provider returned fewer words than requested",
				"word", item.Word, "requested", needed, "received", len(extra))
		}
		distractors = append(distractors, extra...)
	}

	distractors = dedupe(distractors, item.Word)
	if len(distractors) < distractorCount {
		distractors = backfill(rnd, item, vocab, distractors, distractorCount)
	}
	if len(distractors) > distractorCount {
		distractors = distractors[:distractorCount]
	}

	options := make([]string, 0, len(distractors)+1)
	options = append(options, distractors...)
	options = append(options, item.Word)
	shuffle(rnd, options)

	return Question{
		Type:          models.MultipleChoice,
		Text:          fmt.Sprintf(multipleChoiceTemplate, item.Meaning),
		CorrectAnswer: item.Word,
		Word:          item,
		Options:       options,
	}, nil
}

// fetchDistractors waits for the provider unless the context ends first.
// A result arriving after cancellation lands in the buffered channel and is dropped.
func (g *Generator) fetchDistractors(ctx context.Context, item models.VocabularyItem, count int) ([]string, error) {
	result := make(chan []string, 1)
	go func() {
		result <- g.provider.Distractors(ctx, item, count)
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case words := <-result:
		return words, nil
	}
}

// localDistractors picks up to count words from other items with the same part of speech
func localDistractors(rnd *rand.Rand, item models.VocabularyItem, vocab []models.VocabularyItem, count int) []string {
	candidates := make([]models.VocabularyItem, len(vocab))
	copy(candidates, vocab)
	shuffle(rnd, candidates)

	words := make([]string, 0, count)
	for _, v := range candidates {
		if len(words) == count {
			break
		}
		if v.ID != item.ID && v.PartOfSpeech == item.PartOfSpeech {
			words = append(words, v.Word)
		}
	}
	return words
}

// dedupe drops repeated words and any copy of the correct answer, keeping first occurrences
func dedupe(words []string, correct string) []string {
	seen := map[string]bool{correct: true}
	result := make([]string, 0, len(words))
	for _, w := range words {
		if seen[w] {
			continue
		}
		seen[w] = true
		result = append(result, w)
	}
	return result
}

// backfill tops up distractors with any other word of the topic until count is reached
func backfill(rnd *rand.Rand, item models.VocabularyItem, vocab []models.VocabularyItem, chosen []string, count int) []string {
	seen := map[string]bool{item.Word: true}
	for _, w := range chosen {
		seen[w] = true
	}

	others := make([]models.VocabularyItem, 0, len(vocab))
	for _, v := range vocab {
		if v.ID != item.ID {
			others = append(others, v)
		}
	}
	shuffle(rnd, others)

	for _, v := range others {
		if len(chosen) >= count {
			break
		}
		if seen[v.Word] {
			continue
		}
		seen[v.Word] = true
		chosen = append(chosen, v.Word)
	}
	return chosen
}

// shuffle is an in-place Fisher-Yates shuffle
func shuffle[T any](rnd *rand.Rand, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

// ScoreAnswer reports whether the submitted answer matches, ignoring case and surrounding whitespace
func ScoreAnswer(q Question, submitted string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(q.CorrectAnswer))
}
