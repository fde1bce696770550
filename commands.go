package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/vocabquiz/internal/bot"
	"github.com/example/vocabquiz/internal/cli"
	"github.com/example/vocabquiz/internal/database"
	"github.com/example/vocabquiz/internal/importer"
	"github.com/example/vocabquiz/internal/mastery"
	"github.com/example/vocabquiz/internal/practice"
	"github.com/example/vocabquiz/internal/scheduler"
	"github.com/example/vocabquiz/pkg/models"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot and review reminders",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
			if seeded, err := database.SeedSampleData(ctx, a.store); err != nil {
				return err
			} else if seeded {
				a.log.Info("sample topics added")
			}

			api, err := bot.NewAPI(a.cfg.Telegram.Token)
			if err != nil {
				return err
			}
			b := bot.New(api, a.store, a.generator(), a.cfg.Telegram.ChatID, a.log)
			botCfg := bot.DefaultConfig()
			botCfg.WordTimeout = a.cfg.AI.Timeout
			b.SetConfig(botCfg)

			if a.cfg.Scheduler.Enabled {
				s := scheduler.New(a.cfg.Scheduler, a.store, b, a.log)
				if err := s.Start(); err != nil {
					return err
				}
				defer s.Stop()
			}

			a.log.Info("bot started, press Ctrl+C to stop")
			b.Listen(ctx, api)
			return nil
		}),
	}
}

func newImportCommand() *cobra.Command {
	var (
		topicName  string
		create     bool
		difficulty string
		noHeader   bool
		sheet      string
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import vocabulary from a csv, json or xlsx file",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			importConfig := importer.DefaultImportConfig()
			importConfig.SkipHeader = !noHeader
			importConfig.SheetName = sheet

			parsed, err := importer.ParseFile(args[0], importConfig)
			if err != nil {
				return err
			}

			topic, err := findTopic(ctx, a.store, topicName)
			if errors.Is(err, database.ErrNotFound) && create {
				created := models.NewTopic(topicName, "", models.Difficulty(difficulty))
				if err := a.store.Topics.Create(ctx, &created); err != nil {
					return err
				}
				topic = &created
			} else if err != nil {
				return fmt.Errorf("topic %q: %w", topicName, err)
			}

			result, err := importer.New(a.store.Words, a.log).Import(ctx, *topic, parsed.Items)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d rows read, %d added, %d already present, %d rejected\n",
				topic.Name, parsed.TotalProcessed, result.Created, result.Skipped, len(parsed.Errors))
			cli.WriteImportErrors(out, parsed.Errors)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&topicName, "topic", "t", "", "topic id or name")
	cmd.Flags().BoolVar(&create, "create", false, "create the topic if it does not exist")
	cmd.Flags().StringVar(&difficulty, "difficulty", string(models.Beginner), "difficulty of a created topic")
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "the first row holds data, not column names")
	cmd.Flags().StringVar(&sheet, "sheet", "", "xlsx sheet to read (default first sheet)")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}

func newQuizCommand() *cobra.Command {
	var topicName string

	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Take a quiz in the terminal",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
			topic, err := findTopic(ctx, a.store, topicName)
			if err != nil {
				return fmt.Errorf("topic %q: %w", topicName, err)
			}

			questions, err := a.generator().Generate(ctx, *topic)
			if err != nil {
				return err
			}
			if len(questions) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s has no words yet.\n", topic.Name)
				return nil
			}

			session := practice.NewSession(topic.ID, questions, a.store)
			return cli.RunQuiz(ctx, session, cmd.InOrStdin(), cmd.OutOrStdout())
		}),
	}

	cmd.Flags().StringVarP(&topicName, "topic", "t", "", "topic id or name")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}

func newReportCommand() *cobra.Command {
	var legacy bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show practice statistics and words due for review",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
			topics, history, err := a.store.Snapshot(ctx)
			if err != nil {
				return err
			}
			if legacy {
				return cli.WriteLegacyReport(cmd.OutOrStdout(), mastery.BuildLegacyReport(topics, history))
			}
			return cli.WriteReport(cmd.OutOrStdout(), mastery.BuildReport(topics, history, time.Now()))
		}),
	}

	cmd.Flags().BoolVar(&legacy, "legacy", false, "show the simple accuracy report")
	return cmd
}

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Add the sample topics to an empty database",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
			seeded, err := database.SeedSampleData(ctx, a.store)
			if err != nil {
				return err
			}
			if seeded {
				fmt.Fprintln(cmd.OutOrStdout(), "Sample topics added.")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Topics already exist, nothing to do.")
			}
			return nil
		}),
	}
}

// findTopic looks a topic up by id first, then by name
func findTopic(ctx context.Context, store *database.Store, key string) (*models.Topic, error) {
	topic, err := store.Topics.Get(ctx, key)
	if errors.Is(err, database.ErrNotFound) {
		return store.Topics.FindByName(ctx, key)
	}
	return topic, err
}
