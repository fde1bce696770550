package database

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabquiz/pkg/models"
)

// Store groups the repositories behind one connection
type Store struct {
	db       *sqlx.DB
	Topics   *TopicRepository
	Words    *WordRepository
	Practice *PracticeRepository
}

// NewStore wires the repositories to db. The schema must already exist.
func NewStore(db *sqlx.DB) *Store {
	practice := NewPracticeRepository(db)
	words := NewWordRepository(db, practice)
	return &Store{
		db:       db,
		Topics:   NewTopicRepository(db, words, practice),
		Words:    words,
		Practice: practice,
	}
}

// ListTopics returns every topic with its vocabulary
func (s *Store) ListTopics(ctx context.Context) ([]models.Topic, error) {
	return s.Topics.List(ctx)
}

// AppendPracticeAttempt logs an answered question
func (s *Store) AppendPracticeAttempt(ctx context.Context, attempt models.PracticeAttempt) error {
	return s.Practice.Append(ctx, attempt)
}

// History returns all logged attempts in order
func (s *Store) History(ctx context.Context) ([]models.PracticeAttempt, error) {
	return s.Practice.List(ctx)
}

// Snapshot returns topics and history read together
func (s *Store) Snapshot(ctx context.Context) ([]models.Topic, []models.PracticeAttempt, error) {
	topics, err := s.ListTopics(ctx)
	if err != nil {
		return nil, nil, err
	}
	history, err := s.History(ctx)
	if err != nil {
		return nil, nil, err
	}
	return topics, history, nil
}

// Close closes the underlying connection
func (s *Store) Close() error {
	return s.db.Close()
}
