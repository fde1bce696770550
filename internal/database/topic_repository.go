package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/example/vocabquiz/pkg/models"
)

var validate = validator.New()

// TopicRepository handles database operations for topics
type TopicRepository struct {
	db       *sqlx.DB
	words    *WordRepository
	practice *PracticeRepository
}

// NewTopicRepository creates a new repository instance
func NewTopicRepository(db *sqlx.DB, words *WordRepository, practice *PracticeRepository) *TopicRepository {
	return &TopicRepository{db: db, words: words, practice: practice}
}

const topicColumns = "id, name, description, difficulty, practice_ratio"

// List returns all topics with their vocabulary in stored order
func (r *TopicRepository) List(ctx context.Context) ([]models.Topic, error) {
	var topics []models.Topic
	err := r.db.SelectContext(ctx, &topics, "SELECT "+topicColumns+" FROM topics ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("failed to get topics: %w", err)
	}

	byTopic, err := r.words.listAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range topics {
		topics[i].Vocabularies = byTopic[topics[i].ID]
		if topics[i].Vocabularies == nil {
			topics[i].Vocabularies = []models.VocabularyItem{}
		}
	}
	return topics, nil
}

// Get returns a topic with its vocabulary
func (r *TopicRepository) Get(ctx context.Context, id string) (*models.Topic, error) {
	return r.getBy(ctx, "id = ?", id)
}

// FindByName returns the topic with the given name, ignoring case
func (r *TopicRepository) FindByName(ctx context.Context, name string) (*models.Topic, error) {
	return r.getBy(ctx, "LOWER(name) = LOWER(?)", strings.TrimSpace(name))
}

func (r *TopicRepository) getBy(ctx context.Context, where string, arg interface{}) (*models.Topic, error) {
	var topic models.Topic
	query := r.db.Rebind("SELECT " + topicColumns + " FROM topics WHERE " + where + " ORDER BY id LIMIT 1")
	err := r.db.GetContext(ctx, &topic, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get topic: %w", err)
	}

	topic.Vocabularies, err = r.words.ListByTopic(ctx, topic.ID)
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

// Create inserts a topic together with any vocabulary it already carries.
// Missing ids are generated.
func (r *TopicRepository) Create(ctx context.Context, topic *models.Topic) error {
	if !topic.Difficulty.Valid() {
		topic.Difficulty = models.Beginner
	}
	if err := validate.Struct(topic); err != nil {
		return fmt.Errorf("invalid topic: %w", err)
	}
	if topic.ID == "" {
		topic.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO topics (id, name, description, difficulty, practice_ratio)
		VALUES (?, ?, ?, ?, ?)
	`), topic.ID, topic.Name, topic.Description, topic.Difficulty, topic.PracticeRatio)
	if err != nil {
		return fmt.Errorf("failed to create topic: %w", err)
	}

	for i := range topic.Vocabularies {
		if err := r.words.insert(ctx, tx, topic.ID, i, &topic.Vocabularies[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Update changes a topic's name, description and difficulty
func (r *TopicRepository) Update(ctx context.Context, topic *models.Topic) error {
	if !topic.Difficulty.Valid() {
		return fmt.Errorf("invalid difficulty %q", topic.Difficulty)
	}
	if strings.TrimSpace(topic.Name) == "" {
		return fmt.Errorf("topic name cannot be empty")
	}

	result, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE topics SET name = ?, description = ?, difficulty = ?
		WHERE id = ?
	`), topic.Name, topic.Description, topic.Difficulty, topic.ID)
	if err != nil {
		return fmt.Errorf("failed to update topic: %w", err)
	}
	return expectRow(result)
}

// UpdatePracticeRatio sets the share of multiple choice questions for a topic
func (r *TopicRepository) UpdatePracticeRatio(ctx context.Context, id string, ratio float64) error {
	if !(ratio >= 0 && ratio <= 1) {
		return ErrInvalidPracticeRatio
	}

	result, err := r.db.ExecContext(ctx, r.db.Rebind("UPDATE topics SET practice_ratio = ? WHERE id = ?"), ratio, id)
	if err != nil {
		return fmt.Errorf("failed to update practice ratio: %w", err)
	}
	return expectRow(result)
}

// Delete removes a topic, its vocabulary and every practice attempt logged for it
func (r *TopicRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := r.practice.deleteByTopic(ctx, tx, id); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM vocabulary WHERE topic_id = ?"), id); err != nil {
		return fmt.Errorf("failed to delete vocabulary: %w", err)
	}

	result, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM topics WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete topic: %w", err)
	}
	if err := expectRow(result); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// expectRow turns "no rows affected" into ErrNotFound
func expectRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
