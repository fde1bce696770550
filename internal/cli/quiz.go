package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/vocabquiz/internal/practice"
	"github.com/example/vocabquiz/pkg/models"
)

// RunQuiz asks the session's questions on out and reads answers line by line from in.
// Multiple choice questions accept either the option number or the word itself.
func RunQuiz(ctx context.Context, session *practice.Session, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)

	for !session.Finished() {
		if err := ctx.Err(); err != nil {
			return err
		}

		q, _ := session.Current()
		fmt.Fprintf(out, "\nQuestion %d/%d: %s\n", session.Answered()+1, session.Total(), q.Text)
		for i, opt := range q.Options {
			fmt.Fprintf(out, "  %d) %s\n", i+1, opt)
		}
		fmt.Fprint(out, "> ")

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read answer: %w", err)
			}
			fmt.Fprintln(out)
			break
		}

		result, err := session.Answer(ctx, resolveOption(q.Type, q.Options, scanner.Text()))
		switch {
		case errors.Is(err, practice.ErrEmptyAnswer):
			fmt.Fprintln(out, "Please type an answer.")
			continue
		case err != nil && !errors.Is(err, practice.ErrSessionFinished):
			fmt.Fprintf(out, "warning: %v\n", err)
		}

		if result.Correct {
			fmt.Fprintln(out, "Correct!")
		} else {
			fmt.Fprintf(out, "Wrong. The answer is: %s\n", result.CorrectAnswer)
		}
	}

	fmt.Fprintf(out, "\nScore: %d/%d (%.0f%% answered)\n", session.Score(), session.Total(), session.Progress())
	return nil
}

func resolveOption(qt models.QuestionType, options []string, input string) string {
	if qt != models.MultipleChoice {
		return input
	}
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < 1 || n > len(options) {
		return input
	}
	return options[n-1]
}
