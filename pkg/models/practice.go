package models

import "time"

// QuestionType is the format a quiz question is rendered in
type QuestionType string

const (
	MultipleChoice QuestionType = "mcq"
	FillInTheBlank QuestionType = "fill-in-the-blank"
)

// PracticeAttempt is one answered question. Attempts are never modified once logged.
type PracticeAttempt struct {
	TopicID      string       `json:"topicId" db:"topic_id"`
	WordID       string       `json:"wordId" db:"word_id"`
	Timestamp    time.Time    `json:"timestamp" db:"-"`
	Correct      bool         `json:"correct" db:"correct"`
	QuestionType QuestionType `json:"questionType" db:"question_type"`
}
