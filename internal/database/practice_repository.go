package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabquiz/pkg/models"
)

// PracticeRepository stores the append-only practice history
type PracticeRepository struct {
	db *sqlx.DB
	mu sync.Mutex
}

// NewPracticeRepository creates a new repository instance
func NewPracticeRepository(db *sqlx.DB) *PracticeRepository {
	return &PracticeRepository{db: db}
}

type attemptRow struct {
	models.PracticeAttempt
	AttemptedAt int64 `db:"attempted_at"`
}

// Append logs one attempt at the end of the history
func (r *PracticeRepository) Append(ctx context.Context, attempt models.PracticeAttempt) error {
	if attempt.TopicID == "" || attempt.WordID == "" {
		return fmt.Errorf("practice attempt needs a topic and a word")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO practice_attempts (topic_id, word_id, attempted_at, correct, question_type)
		VALUES (?, ?, ?, ?, ?)
	`), attempt.TopicID, attempt.WordID, attempt.Timestamp.UnixMilli(), attempt.Correct, attempt.QuestionType)
	if err != nil {
		return fmt.Errorf("failed to save practice attempt: %w", err)
	}
	return nil
}

// List returns the whole history in the order it was logged
func (r *PracticeRepository) List(ctx context.Context) ([]models.PracticeAttempt, error) {
	var rows []attemptRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT topic_id, word_id, attempted_at, correct, question_type
		FROM practice_attempts ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get practice history: %w", err)
	}

	history := make([]models.PracticeAttempt, len(rows))
	for i, row := range rows {
		history[i] = row.PracticeAttempt
		history[i].Timestamp = time.UnixMilli(row.AttemptedAt).UTC()
	}
	return history, nil
}

func (r *PracticeRepository) deleteByTopic(ctx context.Context, tx *sqlx.Tx, topicID string) error {
	if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM practice_attempts WHERE topic_id = ?"), topicID); err != nil {
		return fmt.Errorf("failed to delete practice attempts: %w", err)
	}
	return nil
}

func (r *PracticeRepository) deleteByWord(ctx context.Context, tx *sqlx.Tx, wordID string) error {
	_, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM practice_attempts WHERE word_id = ?"), wordID)
	if err != nil {
		return fmt.Errorf("failed to delete practice attempts: %w", err)
	}
	return nil
}
