package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabquiz/internal/importer"
	"github.com/example/vocabquiz/internal/mastery"
	"github.com/example/vocabquiz/internal/practice"
	"github.com/example/vocabquiz/internal/quiz"
	"github.com/example/vocabquiz/pkg/models"
)

type sliceRecorder struct {
	attempts []models.PracticeAttempt
}

func (r *sliceRecorder) AppendPracticeAttempt(_ context.Context, a models.PracticeAttempt) error {
	r.attempts = append(r.attempts, a)
	return nil
}

func TestRunQuiz(t *testing.T) {
	questions := []quiz.Question{
		{Type: models.MultipleChoice, Text: `Which vocabulary word means "to move fast"?`, CorrectAnswer: "run",
			Word: models.VocabularyItem{ID: "w1", Word: "run"}, Options: []string{"eat", "run", "sleep"}},
		{Type: models.FillInTheBlank, Text: `What word means "to rest"?`, CorrectAnswer: "sleep",
			Word: models.VocabularyItem{ID: "w2", Word: "sleep"}},
	}
	rec := &sliceRecorder{}
	session := practice.NewSession("t1", questions, rec)

	var out bytes.Buffer
	err := RunQuiz(context.Background(), session, strings.NewReader("2\n\nSleepy\n"), &out)
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "  2) run")
	assert.Contains(t, output, "Correct!")
	assert.Contains(t, output, "Please type an answer.")
	assert.Contains(t, output, "Wrong. The answer is: sleep")
	assert.Contains(t, output, "Score: 1/2 (100% answered)")

	require.Len(t, rec.attempts, 2)
	assert.True(t, rec.attempts[0].Correct)
	assert.False(t, rec.attempts[1].Correct)
}

func TestRunQuiz_StopsAtEOF(t *testing.T) {
	questions := []quiz.Question{
		{Type: models.FillInTheBlank, Text: "q1", CorrectAnswer: "a", Word: models.VocabularyItem{ID: "w1"}},
		{Type: models.FillInTheBlank, Text: "q2", CorrectAnswer: "b", Word: models.VocabularyItem{ID: "w2"}},
	}
	session := practice.NewSession("t1", questions, nil)

	var out bytes.Buffer
	require.NoError(t, RunQuiz(context.Background(), session, strings.NewReader("a\n"), &out))
	assert.Contains(t, out.String(), "Score: 1/2 (50% answered)")
}

func TestResolveOption(t *testing.T) {
	opts := []string{"eat", "run"}
	assert.Equal(t, "run", resolveOption(models.MultipleChoice, opts, " 2 "))
	assert.Equal(t, "3", resolveOption(models.MultipleChoice, opts, "3"))
	assert.Equal(t, "run", resolveOption(models.MultipleChoice, opts, "run"))
	assert.Equal(t, "1", resolveOption(models.FillInTheBlank, nil, "1"))
}

func TestWriteReports(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	topics := []models.Topic{
		{ID: "t1", Name: "Verbs", Vocabularies: []models.VocabularyItem{{ID: "w1", Word: "run"}, {ID: "w2", Word: "eat"}}},
		{ID: "t2", Name: "Nouns"},
	}
	history := []models.PracticeAttempt{
		{TopicID: "t1", WordID: "w1", Timestamp: now.Add(-time.Hour), Correct: true},
		{TopicID: "t1", WordID: "w2", Timestamp: now.Add(-time.Hour), Correct: false},
	}

	var out bytes.Buffer
	require.NoError(t, WriteReport(&out, mastery.BuildReport(topics, history, now)))
	assert.Contains(t, out.String(), "Accuracy: 50.0%")
	assert.Contains(t, out.String(), "eat")

	out.Reset()
	require.NoError(t, WriteLegacyReport(&out, mastery.BuildLegacyReport(topics, history)))
	assert.Contains(t, out.String(), "Nouns  no data")
	assert.Contains(t, out.String(), "eat (Verbs): 0/1 correct")

	out.Reset()
	WriteImportErrors(&out, []importer.RowError{{Row: 3, Field: "meaning", Message: "is required"}})
	assert.Equal(t, "  row 3: meaning is required\n", out.String())
}
