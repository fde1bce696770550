package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/vocabquiz/internal/database"
	"github.com/example/vocabquiz/pkg/models"
)

func newTopicCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topic",
		Short: "Manage topics",
	}
	cmd.AddCommand(
		newTopicListCommand(),
		newTopicCreateCommand(),
		newTopicUpdateCommand(),
		newTopicRatioCommand(),
		newTopicDeleteCommand(),
	)
	return cmd
}

func newTopicListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List topics",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
			topics, err := a.store.Topics.List(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(topics) == 0 {
				fmt.Fprintln(out, "No topics yet.")
				return nil
			}
			for _, t := range topics {
				fmt.Fprintf(out, "%s  %s (%s, %d words, ratio %.2f)\n", t.ID, t.Name, t.Difficulty, len(t.Vocabularies), t.PracticeRatio)
			}
			return nil
		}),
	}
}

func newTopicCreateCommand() *cobra.Command {
	var (
		description string
		difficulty  string
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty topic",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			if !models.Difficulty(difficulty).Valid() {
				return fmt.Errorf("invalid difficulty %q", difficulty)
			}
			topic := models.NewTopic(strings.TrimSpace(args[0]), description, models.Difficulty(difficulty))
			if err := a.store.Topics.Create(ctx, &topic); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", topic.Name, topic.ID)
			return nil
		}),
	}

	cmd.Flags().StringVar(&description, "description", "", "topic description")
	cmd.Flags().StringVar(&difficulty, "difficulty", string(models.Beginner), "Beginner, Intermediate or Advanced")
	return cmd
}

func newTopicUpdateCommand() *cobra.Command {
	var (
		name        string
		description string
		difficulty  string
	)

	cmd := &cobra.Command{
		Use:     "update <topic>",
		Aliases: []string{"rename"},
		Short:   "Change a topic's name, description or difficulty",
		Args:    cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			topic, err := findTopic(ctx, a.store, args[0])
			if err != nil {
				return fmt.Errorf("topic %q: %w", args[0], err)
			}

			flags := cmd.Flags()
			if flags.Changed("name") {
				topic.Name = strings.TrimSpace(name)
			}
			if flags.Changed("description") {
				topic.Description = description
			}
			if flags.Changed("difficulty") {
				topic.Difficulty = models.Difficulty(difficulty)
			}
			if err := a.store.Topics.Update(ctx, topic); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", topic.Name)
			return nil
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "new topic name")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "new difficulty")
	return cmd
}

func newTopicRatioCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ratio <topic> <ratio>",
		Short: "Set the share of multiple choice questions, from 0 to 1",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			ratio, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid ratio %q: %w", args[1], err)
			}
			topic, err := findTopic(ctx, a.store, args[0])
			if err != nil {
				return fmt.Errorf("topic %q: %w", args[0], err)
			}
			if err := a.store.Topics.UpdatePracticeRatio(ctx, topic.ID, ratio); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %.0f%% multiple choice\n", topic.Name, ratio*100)
			return nil
		}),
	}
}

func newTopicDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <topic>",
		Short: "Delete a topic with its words and practice history",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			topic, err := findTopic(ctx, a.store, args[0])
			if err != nil {
				return fmt.Errorf("topic %q: %w", args[0], err)
			}
			if err := a.store.Topics.Delete(ctx, topic.ID); err != nil {
				return err
			}
			a.log.Info("topic deleted", "topic_id", topic.ID, "words", len(topic.Vocabularies))
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", topic.Name)
			return nil
		}),
	}
}

func newWordCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "word",
		Short: "Manage the words of a topic",
	}
	cmd.AddCommand(
		newWordAddCommand(),
		newWordEditCommand(),
		newWordDeleteCommand(),
	)
	return cmd
}

func newWordAddCommand() *cobra.Command {
	var (
		partOfSpeech string
		phonetic     string
	)

	cmd := &cobra.Command{
		Use:   "add <topic> <word> <meaning>",
		Short: "Add a word to a topic",
		Args:  cobra.ExactArgs(3),
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			topic, err := findTopic(ctx, a.store, args[0])
			if err != nil {
				return fmt.Errorf("topic %q: %w", args[0], err)
			}
			item := models.VocabularyItem{Word: args[1], Meaning: args[2], PartOfSpeech: partOfSpeech, Phonetic: phonetic}
			if err := a.store.Words.Add(ctx, topic.ID, &item); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s (%s)\n", item.Word, topic.Name, item.ID)
			return nil
		}),
	}

	cmd.Flags().StringVar(&partOfSpeech, "pos", "", "part of speech")
	cmd.Flags().StringVar(&phonetic, "phonetic", "", "pronunciation")
	return cmd
}

func newWordEditCommand() *cobra.Command {
	var (
		word         string
		meaning      string
		partOfSpeech string
		phonetic     string
	)

	cmd := &cobra.Command{
		Use:   "edit <topic> <word>",
		Short: "Change a word, looked up by id or text",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			topic, item, err := findWord(ctx, a.store, args[0], args[1])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("word") {
				item.Word = word
			}
			if flags.Changed("meaning") {
				item.Meaning = meaning
			}
			if flags.Changed("pos") {
				item.PartOfSpeech = partOfSpeech
			}
			if flags.Changed("phonetic") {
				item.Phonetic = phonetic
			}
			if err := a.store.Words.Update(ctx, topic.ID, &item); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s in %s\n", item.Word, topic.Name)
			return nil
		}),
	}

	cmd.Flags().StringVar(&word, "word", "", "new spelling")
	cmd.Flags().StringVar(&meaning, "meaning", "", "new meaning")
	cmd.Flags().StringVar(&partOfSpeech, "pos", "", "new part of speech")
	cmd.Flags().StringVar(&phonetic, "phonetic", "", "new pronunciation")
	return cmd
}

func newWordDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <topic> <word>",
		Short: "Delete a word and its practice history",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			topic, item, err := findWord(ctx, a.store, args[0], args[1])
			if err != nil {
				return err
			}
			if err := a.store.Words.Delete(ctx, topic.ID, item.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s from %s\n", item.Word, topic.Name)
			return nil
		}),
	}
}

// findWord resolves a topic and one of its words, matching the word by id
// and then by text
func findWord(ctx context.Context, store *database.Store, topicKey, wordKey string) (*models.Topic, models.VocabularyItem, error) {
	topic, err := findTopic(ctx, store, topicKey)
	if err != nil {
		return nil, models.VocabularyItem{}, fmt.Errorf("topic %q: %w", topicKey, err)
	}
	if item, ok := topic.FindWord(wordKey); ok {
		return topic, item, nil
	}
	for _, item := range topic.Vocabularies {
		if strings.EqualFold(item.Word, strings.TrimSpace(wordKey)) {
			return topic, item, nil
		}
	}
	return nil, models.VocabularyItem{}, fmt.Errorf("word %q in %s: %w", wordKey, topic.Name, database.ErrNotFound)
}
