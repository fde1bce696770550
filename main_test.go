package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabquiz/internal/config"
	"github.com/example/vocabquiz/internal/database"
	"github.com/example/vocabquiz/pkg/models"
)

func setupTestDB(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "vocab.db")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("SQLITE_PATH", path)
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := newRootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func openStore(t *testing.T, path string) *database.Store {
	t.Helper()

	db, err := database.Connect(config.DatabaseConfig{Type: "sqlite", Path: path})
	require.NoError(t, err)
	store := database.NewStore(db)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestTopicCommands(t *testing.T) {
	path := setupTestDB(t)
	ctx := context.Background()

	out, err := execute(t, "topic", "create", "Travel", "--description", "on the road", "--difficulty", "Intermediate")
	require.NoError(t, err)
	assert.Contains(t, out, "Created Travel")

	_, err = execute(t, "topic", "create", "Bad", "--difficulty", "Expert")
	assert.Error(t, err)

	out, err = execute(t, "topic", "rename", "Travel", "--name", " Journeys ")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated Journeys")

	out, err = execute(t, "topic", "ratio", "Journeys", "0.25")
	require.NoError(t, err)
	assert.Contains(t, out, "25% multiple choice")

	_, err = execute(t, "topic", "ratio", "Journeys", "1.5")
	assert.ErrorIs(t, err, database.ErrInvalidPracticeRatio)

	out, err = execute(t, "topic", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Journeys (Intermediate, 0 words, ratio 0.25)")

	store := openStore(t, path)
	topic, err := store.Topics.FindByName(ctx, "Journeys")
	require.NoError(t, err)
	assert.Equal(t, "on the road", topic.Description)
	assert.Equal(t, models.Intermediate, topic.Difficulty)
	assert.InDelta(t, 0.25, topic.PracticeRatio, 1e-9)
	require.NoError(t, store.Close())

	out, err = execute(t, "topic", "delete", topic.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted Journeys")

	_, err = execute(t, "topic", "delete", "Journeys")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestWordCommands(t *testing.T) {
	path := setupTestDB(t)
	ctx := context.Background()

	_, err := execute(t, "topic", "create", "Verbs")
	require.NoError(t, err)

	out, err := execute(t, "word", "add", "Verbs", " run ", "to move fast", "--pos", "verb")
	require.NoError(t, err)
	assert.Contains(t, out, "Added run to Verbs")

	_, err = execute(t, "word", "add", "Verbs", "eat", "to consume food")
	require.NoError(t, err)

	out, err = execute(t, "word", "edit", "Verbs", "RUN", "--meaning", " to go quickly ")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated run in Verbs")

	_, err = execute(t, "word", "edit", "Verbs", "eat", "--word", "  ")
	assert.Error(t, err)

	store := openStore(t, path)
	topic, err := store.Topics.FindByName(ctx, "Verbs")
	require.NoError(t, err)
	require.Len(t, topic.Vocabularies, 2)
	run := topic.Vocabularies[0]
	assert.Equal(t, "to go quickly", run.Meaning)
	assert.Equal(t, "verb", run.PartOfSpeech)
	assert.Equal(t, "eat", topic.Vocabularies[1].Word)

	require.NoError(t, store.AppendPracticeAttempt(ctx, models.PracticeAttempt{
		TopicID: topic.ID, WordID: run.ID, Timestamp: time.Now(), Correct: true, QuestionType: models.MultipleChoice,
	}))
	require.NoError(t, store.Close())

	out, err = execute(t, "word", "delete", "Verbs", run.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted run from Verbs")

	_, err = execute(t, "word", "delete", "Verbs", "sleep")
	assert.ErrorIs(t, err, database.ErrNotFound)

	store = openStore(t, path)
	history, err := store.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)
	topic, err = store.Topics.Get(ctx, topic.ID)
	require.NoError(t, err)
	require.Len(t, topic.Vocabularies, 1)
	assert.Equal(t, "eat", topic.Vocabularies[0].Word)
}
