package mastery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabquiz/pkg/models"
)

func TestBuildLegacyReport(t *testing.T) {
	history := []models.PracticeAttempt{
		attempt("t1", "v1", 0, true),
		attempt("t1", "v1", 1, false),
		attempt("t1", "v2", 2, false),
		attempt("t1", "v3", 3, true),
		attempt("t2", "n1", 4, true),
		attempt("t9", "gone", 5, false),
	}

	report := BuildLegacyReport(sampleTopics(), history)

	assert.Equal(t, 6, report.TotalAttempts)
	assert.Equal(t, 3, report.TotalCorrect)
	assert.InDelta(t, 0.5, report.Accuracy, 1e-9)

	require.Len(t, report.Topics, 2)
	assert.Equal(t, models.TopicAccuracy{TopicID: "t1", Name: "Verbs", Accuracy: 0.5, Attempts: 4, HasData: true}, report.Topics[0])
	assert.Equal(t, models.TopicAccuracy{TopicID: "t2", Name: "Tech", Accuracy: 1, Attempts: 1, HasData: true}, report.Topics[1])

	require.Len(t, report.DifficultWords, 2)
	assert.Equal(t, "eat", report.DifficultWords[0].Word)
	assert.Zero(t, report.DifficultWords[0].Accuracy)
	assert.Equal(t, "run", report.DifficultWords[1].Word)
	assert.Equal(t, 1, report.DifficultWords[1].Correct)
	assert.Equal(t, 2, report.DifficultWords[1].Total)
}

func TestTopicAccuracy_NoData(t *testing.T) {
	rows := TopicAccuracy(sampleTopics(), nil)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.False(t, row.HasData)
		assert.Zero(t, row.Accuracy)
	}
}

func TestDifficultWords_Capped(t *testing.T) {
	topic := models.Topic{ID: "t1", Name: "Many"}
	var history []models.PracticeAttempt
	for i, w := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		topic.Vocabularies = append(topic.Vocabularies, models.VocabularyItem{ID: w, Word: w})
		history = append(history, attempt("t1", w, i, false))
	}

	words := DifficultWords([]models.Topic{topic}, history)
	require.Len(t, words, DifficultWordsLimit)
	assert.Equal(t, "a", words[0].Word)
}
