package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/vocabquiz/internal/config"
	"github.com/example/vocabquiz/internal/logger"
	"github.com/example/vocabquiz/internal/mastery"
	"github.com/example/vocabquiz/pkg/models"
)

// Notifier delivers review reminders
type Notifier interface {
	SendReviewReminder(ctx context.Context, words []models.WordStats) error
}

// Source provides a consistent view of topics and practice history
type Source interface {
	Snapshot(ctx context.Context) ([]models.Topic, []models.PracticeAttempt, error)
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	source    Source
	notifier  Notifier
	cfg       config.SchedulerConfig
	now       func() time.Time
	log       *logger.Logger
}

// New creates a new scheduler instance
func New(cfg config.SchedulerConfig, source Source, notifier Notifier, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.IntervalHours <= 0 {
		cfg.IntervalHours = 1
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.Local),
		source:    source,
		notifier:  notifier,
		cfg:       cfg,
		now:       time.Now,
		log:       log.With("component", "scheduler"),
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.cfg.IntervalHours).Hours().Do(s.checkAndSendReminders)
	if err != nil {
		return fmt.Errorf("failed to schedule reminders: %w", err)
	}

	s.scheduler.StartAsync()
	s.log.Info("reminder scheduler started",
		"interval_hours", s.cfg.IntervalHours,
		"start_hour", s.cfg.StartHour,
		"end_hour", s.cfg.EndHour)
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// InWindow reports whether reminders may be sent at t
func (s *Scheduler) InWindow(t time.Time) bool {
	hour := t.Hour()
	return hour >= s.cfg.StartHour && hour <= s.cfg.EndHour
}

func (s *Scheduler) checkAndSendReminders() {
	now := s.now()
	if !s.InWindow(now) {
		s.log.Debug("outside notification hours, skipping reminders", "hour", now.Hour())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := s.RunCheck(ctx); err != nil {
		s.log.Error("review reminder failed", "error", err)
	}
}

// RunCheck computes the words due for review and sends a reminder when there are any.
// It returns the number of words in the reminder.
func (s *Scheduler) RunCheck(ctx context.Context) (int, error) {
	topics, history, err := s.source.Snapshot(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load practice data: %w", err)
	}

	stats := mastery.ComputeWordStats(topics, history)
	due := mastery.WordsToReview(stats, s.now())
	if len(due) == 0 {
		s.log.Debug("no words due for review")
		return 0, nil
	}

	if err := s.notifier.SendReviewReminder(ctx, due); err != nil {
		return 0, fmt.Errorf("failed to send reminder: %w", err)
	}
	s.log.Info("review reminder sent", "words", len(due))
	return len(due), nil
}
