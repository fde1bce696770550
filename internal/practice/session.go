package practice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/vocabquiz/internal/quiz"
	"github.com/example/vocabquiz/pkg/models"
)

var (
	// ErrSessionFinished is returned when answering after the last question
	ErrSessionFinished = errors.New("practice session is finished")
	// ErrEmptyAnswer is returned for blank fill-in-the-blank answers
	ErrEmptyAnswer = errors.New("answer cannot be empty")
)

// Recorder persists answered questions
type Recorder interface {
	AppendPracticeAttempt(ctx context.Context, attempt models.PracticeAttempt) error
}

// Result is the outcome of answering one question
type Result struct {
	Correct       bool
	CorrectAnswer string
}

// Session drives a single run through a generated quiz
type Session struct {
	topicID   string
	questions []quiz.Question
	recorder  Recorder
	now       func() time.Time

	current  int
	score    int
	lastSeen time.Time
}

// NewSession creates a session over questions generated for topicID
func NewSession(topicID string, questions []quiz.Question, recorder Recorder) *Session {
	return &Session{
		topicID:   topicID,
		questions: questions,
		recorder:  recorder,
		now:       time.Now,
	}
}

// SetClock replaces the time source used for attempt timestamps
func (s *Session) SetClock(now func() time.Time) {
	s.now = now
}

// TopicID returns the topic this session practices
func (s *Session) TopicID() string {
	return s.topicID
}

// Current returns the question waiting for an answer
func (s *Session) Current() (quiz.Question, bool) {
	if s.Finished() {
		return quiz.Question{}, false
	}
	return s.questions[s.current], true
}

// Answer scores the current question, logs the attempt and moves on.
// A recorder failure is returned after the session has advanced.
func (s *Session) Answer(ctx context.Context, answer string) (Result, error) {
	q, ok := s.Current()
	if !ok {
		return Result{}, ErrSessionFinished
	}

	if q.Type == models.FillInTheBlank && strings.TrimSpace(answer) == "" {
		return Result{}, ErrEmptyAnswer
	}

	correct := quiz.ScoreAnswer(q, answer)
	if correct {
		s.score++
	}
	s.current++

	result := Result{Correct: correct, CorrectAnswer: q.CorrectAnswer}
	if s.recorder == nil {
		return result, nil
	}

	attempt := models.PracticeAttempt{
		TopicID:      s.topicID,
		WordID:       q.Word.ID,
		Timestamp:    s.timestamp(),
		Correct:      correct,
		QuestionType: q.Type,
	}
	if err := s.recorder.AppendPracticeAttempt(ctx, attempt); err != nil {
		return result, fmt.Errorf("failed to record attempt: %w", err)
	}
	return result, nil
}

// timestamp returns the current time, nudged forward so that attempts
// within a session are strictly increasing at millisecond precision
func (s *Session) timestamp() time.Time {
	ts := s.now().Truncate(time.Millisecond)
	if !s.lastSeen.IsZero() && !ts.After(s.lastSeen) {
		ts = s.lastSeen.Add(time.Millisecond)
	}
	s.lastSeen = ts
	return ts
}

// Score returns the number of correct answers so far
func (s *Session) Score() int {
	return s.score
}

// Answered returns the number of questions answered so far
func (s *Session) Answered() int {
	return s.current
}

// Total returns the number of questions in the quiz
func (s *Session) Total() int {
	return len(s.questions)
}

// Progress returns the answered share as a percentage
func (s *Session) Progress() float64 {
	if len(s.questions) == 0 {
		return 0
	}
	return float64(s.current) / float64(len(s.questions)) * 100
}

// Finished reports whether every question has been answered
func (s *Session) Finished() bool {
	return s.current >= len(s.questions)
}

// Restart starts the same questions again with a fresh score
func (s *Session) Restart() {
	s.current = 0
	s.score = 0
}
