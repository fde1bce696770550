package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/vocabquiz/internal/ai"
	"github.com/example/vocabquiz/internal/config"
	"github.com/example/vocabquiz/internal/database"
	"github.com/example/vocabquiz/internal/logger"
	"github.com/example/vocabquiz/internal/quiz"
)

// app holds the dependencies shared by every command
type app struct {
	cfg   *config.Config
	log   *logger.Logger
	store *database.Store
}

func newApp() (*app, error) {
	cfg := config.Load()

	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}
	log.Info("connected to database", "type", db.DriverName())

	return &app{cfg: cfg, log: log, store: database.NewStore(db)}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("failed to close database", "error", err)
	}
	a.log.Sync()
}

func (a *app) generator() *quiz.Generator {
	provider := ai.NewDistractorGenerator(a.cfg.AI, a.log)
	if provider.Available() {
		a.log.Info("AI distractors enabled", "model", a.cfg.AI.Model)
	}
	return quiz.NewGenerator(provider, quiz.WithLogger(a.log))
}

// withApp opens the app for the duration of a command
func withApp(run func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()
		return run(cmd.Context(), a, cmd, args)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "vocabquiz",
		Short:         "Vocabulary quizzes with mastery tracking",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCommand(),
		newImportCommand(),
		newQuizCommand(),
		newReportCommand(),
		newSeedCommand(),
		newTopicCommand(),
		newWordCommand(),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
