package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabquiz/internal/config"
	"github.com/example/vocabquiz/pkg/models"
)

type staticSource struct {
	topics  []models.Topic
	history []models.PracticeAttempt
	err     error
}

func (s staticSource) Snapshot(context.Context) ([]models.Topic, []models.PracticeAttempt, error) {
	return s.topics, s.history, s.err
}

type recordingNotifier struct {
	sent [][]models.WordStats
}

func (n *recordingNotifier) SendReviewReminder(_ context.Context, words []models.WordStats) error {
	n.sent = append(n.sent, words)
	return nil
}

var now = time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC)

func source() staticSource {
	topic := models.Topic{ID: "t1", Name: "Verbs", Vocabularies: []models.VocabularyItem{
		{ID: "w1", Word: "run", Meaning: "to move fast"},
		{ID: "w2", Word: "eat", Meaning: "to consume food"},
	}}
	return staticSource{
		topics: []models.Topic{topic},
		history: []models.PracticeAttempt{
			{TopicID: "t1", WordID: "w1", Timestamp: now.Add(-time.Hour), Correct: false, QuestionType: models.MultipleChoice},
			{TopicID: "t1", WordID: "w2", Timestamp: now.Add(-time.Hour), Correct: true, QuestionType: models.MultipleChoice},
		},
	}
}

func newTestScheduler(src Source, n Notifier) *Scheduler {
	s := New(config.SchedulerConfig{Enabled: true, StartHour: 4, EndHour: 18, IntervalHours: 1}, src, n, nil)
	s.now = func() time.Time { return now }
	return s
}

func TestRunCheck_SendsDueWords(t *testing.T) {
	n := &recordingNotifier{}
	s := newTestScheduler(source(), n)

	count, err := s.RunCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, n.sent, 1)
	assert.Equal(t, "run", n.sent[0][0].Word)
}

func TestRunCheck_NothingDue(t *testing.T) {
	n := &recordingNotifier{}
	s := newTestScheduler(staticSource{}, n)

	count, err := s.RunCheck(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, n.sent)
}

func TestRunCheck_SourceError(t *testing.T) {
	n := &recordingNotifier{}
	s := newTestScheduler(staticSource{err: errors.New("db closed")}, n)

	_, err := s.RunCheck(context.Background())
	assert.Error(t, err)
	assert.Empty(t, n.sent)
}

func TestCheckAndSendReminders_RespectsWindow(t *testing.T) {
	n := &recordingNotifier{}
	s := newTestScheduler(source(), n)

	s.now = func() time.Time { return time.Date(2024, 6, 10, 22, 0, 0, 0, time.UTC) }
	s.checkAndSendReminders()
	assert.Empty(t, n.sent)

	s.now = func() time.Time { return now }
	s.checkAndSendReminders()
	assert.Len(t, n.sent, 1)

	assert.True(t, s.InWindow(time.Date(2024, 1, 1, 18, 59, 0, 0, time.UTC)))
	assert.False(t, s.InWindow(time.Date(2024, 1, 1, 3, 0, 0, 0, time.UTC)))
}

func TestStartStop(t *testing.T) {
	s := newTestScheduler(staticSource{}, &recordingNotifier{})
	require.NoError(t, s.Start())
	s.Stop()
}
