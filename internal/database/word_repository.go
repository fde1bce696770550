package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/example/vocabquiz/pkg/models"
)

// WordRepository handles database operations for vocabulary items
type WordRepository struct {
	db       *sqlx.DB
	practice *PracticeRepository
}

// NewWordRepository creates a new repository instance
func NewWordRepository(db *sqlx.DB, practice *PracticeRepository) *WordRepository {
	return &WordRepository{db: db, practice: practice}
}

const wordColumns = "id, word, phonetic, part_of_speech, meaning"

type wordRow struct {
	TopicID string `db:"topic_id"`
	models.VocabularyItem
}

// ListByTopic returns a topic's vocabulary in insertion order
func (r *WordRepository) ListByTopic(ctx context.Context, topicID string) ([]models.VocabularyItem, error) {
	words := []models.VocabularyItem{}
	query := r.db.Rebind("SELECT " + wordColumns + " FROM vocabulary WHERE topic_id = ? ORDER BY position, id")
	if err := r.db.SelectContext(ctx, &words, query, topicID); err != nil {
		return nil, fmt.Errorf("failed to get words by topic: %w", err)
	}
	return words, nil
}

func (r *WordRepository) listAll(ctx context.Context) (map[string][]models.VocabularyItem, error) {
	var rows []wordRow
	err := r.db.SelectContext(ctx, &rows, "SELECT topic_id, "+wordColumns+" FROM vocabulary ORDER BY topic_id, position, id")
	if err != nil {
		return nil, fmt.Errorf("failed to get words: %w", err)
	}

	byTopic := make(map[string][]models.VocabularyItem)
	for _, row := range rows {
		byTopic[row.TopicID] = append(byTopic[row.TopicID], row.VocabularyItem)
	}
	return byTopic, nil
}

// Add appends a vocabulary item to the end of a topic
func (r *WordRepository) Add(ctx context.Context, topicID string, item *models.VocabularyItem) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.GetContext(ctx, &exists, tx.Rebind("SELECT COUNT(*) FROM topics WHERE id = ?"), topicID); err != nil {
		return fmt.Errorf("failed to check topic: %w", err)
	}
	if exists == 0 {
		return ErrNotFound
	}

	var position int
	err = tx.GetContext(ctx, &position, tx.Rebind("SELECT COALESCE(MAX(position), -1) + 1 FROM vocabulary WHERE topic_id = ?"), topicID)
	if err != nil {
		return fmt.Errorf("failed to get next position: %w", err)
	}

	if err := r.insert(ctx, tx, topicID, position, item); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *WordRepository) insert(ctx context.Context, tx *sqlx.Tx, topicID string, position int, item *models.VocabularyItem) error {
	item.Word = strings.TrimSpace(item.Word)
	item.Meaning = strings.TrimSpace(item.Meaning)
	if err := validate.Struct(item); err != nil {
		return fmt.Errorf("invalid vocabulary item: %w", err)
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	_, err := tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO vocabulary (id, topic_id, position, word, phonetic, part_of_speech, meaning)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), item.ID, topicID, position, item.Word, item.Phonetic, item.PartOfSpeech, item.Meaning)
	if err != nil {
		return fmt.Errorf("failed to create word: %w", err)
	}
	return nil
}

// Update replaces a vocabulary item's fields, keeping its position
func (r *WordRepository) Update(ctx context.Context, topicID string, item *models.VocabularyItem) error {
	item.Word = strings.TrimSpace(item.Word)
	item.Meaning = strings.TrimSpace(item.Meaning)
	if err := validate.Struct(item); err != nil {
		return fmt.Errorf("invalid vocabulary item: %w", err)
	}

	result, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE vocabulary SET word = ?, phonetic = ?, part_of_speech = ?, meaning = ?
		WHERE id = ? AND topic_id = ?
	`), item.Word, item.Phonetic, item.PartOfSpeech, item.Meaning, item.ID, topicID)
	if err != nil {
		return fmt.Errorf("failed to update word: %w", err)
	}
	return expectRow(result)
}

// Delete removes a vocabulary item and the practice attempts logged for it
func (r *WordRepository) Delete(ctx context.Context, topicID, wordID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM vocabulary WHERE id = ? AND topic_id = ?"), wordID, topicID)
	if err != nil {
		return fmt.Errorf("failed to delete word: %w", err)
	}
	if err := expectRow(result); err != nil {
		return err
	}

	if err := r.practice.deleteByWord(ctx, tx, wordID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
