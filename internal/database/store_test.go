package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabquiz/pkg/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, InitSchema(db))

	store := NewStore(db)
	t.Cleanup(func() { store.Close() })
	return store
}

func createTopic(t *testing.T, store *Store, name string, words ...string) models.Topic {
	t.Helper()

	topic := models.NewTopic(name, "", models.Beginner)
	for _, w := range words {
		topic.Vocabularies = append(topic.Vocabularies, models.VocabularyItem{Word: w, PartOfSpeech: "verb", Meaning: "meaning of " + w})
	}
	require.NoError(t, store.Topics.Create(context.Background(), &topic))
	return topic
}

func TestTopicRepository_CreateAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	created := createTopic(t, store, "Verbs", "run", "eat", "sleep")
	assert.NotEmpty(t, created.ID)
	for _, v := range created.Vocabularies {
		assert.NotEmpty(t, v.ID)
	}

	got, err := store.Topics.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Verbs", got.Name)
	assert.Equal(t, models.Beginner, got.Difficulty)
	assert.Equal(t, models.DefaultPracticeRatio, got.PracticeRatio)
	require.Len(t, got.Vocabularies, 3)
	assert.Equal(t, []string{"run", "eat", "sleep"}, []string{got.Vocabularies[0].Word, got.Vocabularies[1].Word, got.Vocabularies[2].Word})

	byName, err := store.Topics.FindByName(ctx, "  verbs ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	_, err = store.Topics.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTopicRepository_CreateRejectsInvalid(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	empty := models.NewTopic("", "", models.Beginner)
	assert.Error(t, store.Topics.Create(ctx, &empty))

	badRatio := models.NewTopic("Ratio", "", models.Beginner)
	badRatio.PracticeRatio = 1.5
	assert.Error(t, store.Topics.Create(ctx, &badRatio))

	badWord := models.NewTopic("Words", "", models.Beginner)
	badWord.Vocabularies = []models.VocabularyItem{{Word: "run"}}
	assert.Error(t, store.Topics.Create(ctx, &badWord))

	topics, err := store.ListTopics(ctx)
	require.NoError(t, err)
	assert.Empty(t, topics)
}

func TestTopicRepository_UpdatePracticeRatio(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	topic := createTopic(t, store, "Verbs", "run")

	require.NoError(t, store.Topics.UpdatePracticeRatio(ctx, topic.ID, 0.8))
	got, err := store.Topics.Get(ctx, topic.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.8, got.PracticeRatio)

	assert.ErrorIs(t, store.Topics.UpdatePracticeRatio(ctx, topic.ID, -0.1), ErrInvalidPracticeRatio)
	assert.ErrorIs(t, store.Topics.UpdatePracticeRatio(ctx, topic.ID, 1.01), ErrInvalidPracticeRatio)
	assert.ErrorIs(t, store.Topics.UpdatePracticeRatio(ctx, "missing", 0.3), ErrNotFound)
}

func TestTopicRepository_Update(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	topic := createTopic(t, store, "Verbs", "run")

	topic.Name = "Action Verbs"
	topic.Difficulty = models.Advanced
	require.NoError(t, store.Topics.Update(ctx, &topic))

	got, err := store.Topics.Get(ctx, topic.ID)
	require.NoError(t, err)
	assert.Equal(t, "Action Verbs", got.Name)
	assert.Equal(t, models.Advanced, got.Difficulty)

	topic.Difficulty = "Expert"
	assert.Error(t, store.Topics.Update(ctx, &topic))
}

func TestTopicRepository_DeleteCascades(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	keep := createTopic(t, store, "Keep", "alpha")
	drop := createTopic(t, store, "Drop", "beta", "gamma")

	now := time.Now()
	require.NoError(t, store.AppendPracticeAttempt(ctx, models.PracticeAttempt{TopicID: keep.ID, WordID: keep.Vocabularies[0].ID, Timestamp: now, Correct: true, QuestionType: models.MultipleChoice}))
	require.NoError(t, store.AppendPracticeAttempt(ctx, models.PracticeAttempt{TopicID: drop.ID, WordID: drop.Vocabularies[0].ID, Timestamp: now, QuestionType: models.FillInTheBlank}))
	require.NoError(t, store.AppendPracticeAttempt(ctx, models.PracticeAttempt{TopicID: drop.ID, WordID: drop.Vocabularies[1].ID, Timestamp: now, Correct: true, QuestionType: models.MultipleChoice}))

	require.NoError(t, store.Topics.Delete(ctx, drop.ID))

	topics, history, err := store.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, keep.ID, topics[0].ID)
	require.Len(t, history, 1)
	assert.Equal(t, keep.ID, history[0].TopicID)

	words, err := store.Words.ListByTopic(ctx, drop.ID)
	require.NoError(t, err)
	assert.Empty(t, words)

	assert.ErrorIs(t, store.Topics.Delete(ctx, drop.ID), ErrNotFound)
}

func TestWordRepository_AddUpdateDelete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	topic := createTopic(t, store, "Verbs", "run", "eat")

	item := models.VocabularyItem{Word: " sleep ", PartOfSpeech: "verb", Meaning: "to rest"}
	require.NoError(t, store.Words.Add(ctx, topic.ID, &item))
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "sleep", item.Word)

	words, err := store.Words.ListByTopic(ctx, topic.ID)
	require.NoError(t, err)
	require.Len(t, words, 3)
	assert.Equal(t, "sleep", words[2].Word)

	item.Meaning = "  to rest at night "
	require.NoError(t, store.Words.Update(ctx, topic.ID, &item))
	got, err := store.Topics.Get(ctx, topic.ID)
	require.NoError(t, err)
	found, ok := got.FindWord(item.ID)
	require.True(t, ok)
	assert.Equal(t, "to rest at night", found.Meaning)

	blank := found
	blank.Word = "   "
	assert.Error(t, store.Words.Update(ctx, topic.ID, &blank))

	assert.ErrorIs(t, store.Words.Add(ctx, "missing", &models.VocabularyItem{Word: "x", Meaning: "y"}), ErrNotFound)

	run := topic.Vocabularies[0]
	eat := topic.Vocabularies[1]
	require.NoError(t, store.AppendPracticeAttempt(ctx, models.PracticeAttempt{TopicID: topic.ID, WordID: run.ID, Timestamp: time.Now(), Correct: true, QuestionType: models.MultipleChoice}))
	require.NoError(t, store.AppendPracticeAttempt(ctx, models.PracticeAttempt{TopicID: topic.ID, WordID: eat.ID, Timestamp: time.Now(), QuestionType: models.MultipleChoice}))
	require.NoError(t, store.AppendPracticeAttempt(ctx, models.PracticeAttempt{TopicID: "imported-earlier", WordID: run.ID, Timestamp: time.Now(), QuestionType: models.FillInTheBlank}))

	require.NoError(t, store.Words.Delete(ctx, topic.ID, run.ID))
	history, err := store.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, eat.ID, history[0].WordID)

	assert.ErrorIs(t, store.Words.Delete(ctx, topic.ID, run.ID), ErrNotFound)
}

func TestPracticeRepository_AppendPreservesOrder(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	attempts := []models.PracticeAttempt{
		{TopicID: "t", WordID: "w2", Timestamp: base.Add(2 * time.Minute), Correct: true, QuestionType: models.MultipleChoice},
		{TopicID: "t", WordID: "w1", Timestamp: base, Correct: false, QuestionType: models.FillInTheBlank},
		{TopicID: "t", WordID: "w3", Timestamp: base.Add(time.Minute), Correct: true, QuestionType: models.FillInTheBlank},
	}
	for _, a := range attempts {
		require.NoError(t, store.AppendPracticeAttempt(ctx, a))
	}

	history, err := store.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 3)
	for i := range attempts {
		assert.Equal(t, attempts[i].WordID, history[i].WordID)
		assert.Equal(t, attempts[i].Correct, history[i].Correct)
		assert.Equal(t, attempts[i].QuestionType, history[i].QuestionType)
		assert.True(t, attempts[i].Timestamp.Equal(history[i].Timestamp))
	}

	assert.Error(t, store.AppendPracticeAttempt(ctx, models.PracticeAttempt{WordID: "w"}))
}

func TestSeedSampleData(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	seeded, err := SeedSampleData(ctx, store)
	require.NoError(t, err)
	assert.True(t, seeded)

	topics, err := store.ListTopics(ctx)
	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, "Common English Verbs", topics[0].Name)
	assert.Len(t, topics[0].Vocabularies, 5)
	assert.Equal(t, "Technology Terms", topics[1].Name)
	assert.Equal(t, 0.7, topics[1].PracticeRatio)
	assert.Len(t, topics[1].Vocabularies, 3)

	seeded, err = SeedSampleData(ctx, store)
	require.NoError(t, err)
	assert.False(t, seeded)
}
