package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/vocabquiz/internal/mastery"
	"github.com/example/vocabquiz/internal/practice"
	"github.com/example/vocabquiz/internal/quiz"
	"github.com/example/vocabquiz/pkg/models"
)

const helpText = `Available commands:
/topics - list topics
/quiz <topic> - start a quiz
/cards <topic> - flip through flashcards
/report - mastery report
/review - words due for review
/help - show this message`

// handleCommand routes a slash command
func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	args := strings.TrimSpace(message.CommandArguments())

	switch message.Command() {
	case "start":
		return b.send(chatID, "Welcome to the vocabulary quiz bot! 🎓\n\n"+helpText, b.mainMenuButtons())
	case "help":
		return b.send(chatID, helpText, nil)
	case "menu":
		return b.showMainMenu(chatID)
	case "topics":
		return b.handleListTopics(ctx, chatID)
	case "quiz":
		return b.withTopicByName(ctx, chatID, args, b.startQuiz)
	case "cards":
		return b.withTopicByName(ctx, chatID, args, b.startCards)
	case "report":
		return b.handleReport(ctx, chatID)
	case "review":
		return b.handleReview(ctx, chatID)
	}
	return b.send(chatID, "Unknown command. Use /help to see what I can do.", b.mainMenuButtons())
}

// handleText treats free text as the answer to a fill-in-the-blank question
func (b *Bot) handleText(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID

	handled, err := b.answer(ctx, chatID, anyPosition, func(q quiz.Question) (string, bool) {
		return message.Text, q.Type == models.FillInTheBlank
	})
	if err != nil || handled {
		return err
	}
	return b.send(chatID, "I don't understand. Use /help to see what I can do.", b.mainMenuButtons())
}

func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.log.Warn("failed to acknowledge callback", "error", err)
	}
	if callback.Message == nil || callback.Message.Chat == nil {
		return nil
	}
	chatID := callback.Message.Chat.ID

	action, arg, _ := strings.Cut(callback.Data, ":")
	switch action {
	case "main_menu":
		return b.showMainMenu(chatID)
	case "topics":
		return b.handleListTopics(ctx, chatID)
	case "report":
		return b.handleReport(ctx, chatID)
	case "review":
		return b.handleReview(ctx, chatID)
	case "quiz":
		return b.withTopicByID(ctx, chatID, arg, b.startQuiz)
	case "cards":
		return b.withTopicByID(ctx, chatID, arg, b.startCards)
	case "ans":
		return b.handleOption(ctx, chatID, arg)
	case "restart":
		return b.handleRestart(chatID)
	case "cards_flip", "cards_next", "cards_prev":
		return b.handleCardAction(chatID, action)
	}

	b.log.Warn("unknown callback", "data", callback.Data)
	return nil
}

func (b *Bot) showMainMenu(chatID int64) error {
	return b.send(chatID, "Main Menu - choose an option:", b.mainMenuButtons())
}

// mainMenuButtons returns the buttons for the main menu
func (b *Bot) mainMenuButtons() [][]MenuButton {
	return [][]MenuButton{
		{{Text: "📚 Topics", CallbackData: "topics"}},
		{{Text: "📊 Report", CallbackData: "report"}, {Text: "🔁 Review", CallbackData: "review"}},
	}
}

func (b *Bot) handleListTopics(ctx context.Context, chatID int64) error {
	topics, err := b.store.ListTopics(ctx)
	if err != nil {
		return err
	}
	if len(topics) == 0 {
		return b.send(chatID, "There are no topics yet. Import some vocabulary first.", nil)
	}

	var sb strings.Builder
	sb.WriteString("Topics:\n")
	buttons := make([][]MenuButton, 0, len(topics))
	for _, t := range topics {
		fmt.Fprintf(&sb, "• %s (%s, %d %s)\n", t.Name, t.Difficulty, len(t.Vocabularies), plural(len(t.Vocabularies), "word", "words"))
		buttons = append(buttons, []MenuButton{
			{Text: "📝 " + t.Name, CallbackData: "quiz:" + t.ID},
			{Text: "🃏 Cards", CallbackData: "cards:" + t.ID},
		})
	}
	return b.send(chatID, sb.String(), buttons)
}

type topicAction func(ctx context.Context, chatID int64, topic models.Topic) error

func (b *Bot) withTopicByName(ctx context.Context, chatID int64, name string, next topicAction) error {
	if name == "" {
		return b.handleListTopics(ctx, chatID)
	}
	return b.withTopic(ctx, chatID, func(t models.Topic) bool { return strings.EqualFold(t.Name, name) }, next)
}

func (b *Bot) withTopicByID(ctx context.Context, chatID int64, id string, next topicAction) error {
	return b.withTopic(ctx, chatID, func(t models.Topic) bool { return t.ID == id }, next)
}

func (b *Bot) withTopic(ctx context.Context, chatID int64, match func(models.Topic) bool, next topicAction) error {
	topics, err := b.store.ListTopics(ctx)
	if err != nil {
		return err
	}
	for _, t := range topics {
		if match(t) {
			return next(ctx, chatID, t)
		}
	}
	return b.send(chatID, "Topic not found. Use /topics to see the list.", nil)
}

func (b *Bot) startQuiz(ctx context.Context, chatID int64, topic models.Topic) error {
	if len(topic.Vocabularies) == 0 {
		return b.send(chatID, fmt.Sprintf("%q has no words yet.", topic.Name), nil)
	}

	gctx, cancel := context.WithTimeout(ctx, b.config.generationTimeout(len(topic.Vocabularies)))
	defer cancel()
	questions, err := b.generator.Generate(gctx, topic)
	if err != nil {
		return fmt.Errorf("failed to generate quiz: %w", err)
	}

	session := practice.NewSession(topic.ID, questions, b.store)
	session.SetClock(b.now)

	b.mu.Lock()
	b.state(chatID).session = session
	b.mu.Unlock()

	b.log.Info("quiz started", "chat_id", chatID, "topic", topic.Name, "questions", len(questions))
	if err := b.send(chatID, fmt.Sprintf("Quiz: %s (%d questions)", topic.Name, len(questions)), nil); err != nil {
		return err
	}
	return b.sendQuestion(chatID, session)
}

func (b *Bot) sendQuestion(chatID int64, session *practice.Session) error {
	b.mu.Lock()
	q, ok := session.Current()
	answered, total := session.Answered(), session.Total()
	b.mu.Unlock()

	if !ok {
		return b.sendSummary(chatID, session)
	}

	header := fmt.Sprintf("Question %d/%d\n\n", answered+1, total)
	if q.Type == models.FillInTheBlank {
		return b.send(chatID, header+q.Text+"\n\nType your answer.", nil)
	}

	var buttons [][]MenuButton
	for i, opt := range q.Options {
		if i%b.config.OptionsPerRow == 0 {
			buttons = append(buttons, []MenuButton{})
		}
		row := len(buttons) - 1
		data := fmt.Sprintf("ans:%d:%d", answered, i)
		buttons[row] = append(buttons[row], MenuButton{Text: opt, CallbackData: data})
	}
	return b.send(chatID, header+q.Text, buttons)
}

// handleOption answers with the tapped option. arg is "<position>:<index>";
// taps on buttons of an earlier question are ignored.
func (b *Bot) handleOption(ctx context.Context, chatID int64, arg string) error {
	posArg, idxArg, _ := strings.Cut(arg, ":")
	position, err := strconv.Atoi(posArg)
	if err != nil {
		return fmt.Errorf("invalid question position %q: %w", posArg, err)
	}
	idx, err := strconv.Atoi(idxArg)
	if err != nil {
		return fmt.Errorf("invalid answer index %q: %w", idxArg, err)
	}

	handled, err := b.answer(ctx, chatID, position, func(q quiz.Question) (string, bool) {
		if q.Type != models.MultipleChoice || idx < 0 || idx >= len(q.Options) {
			return "", false
		}
		return q.Options[idx], true
	})
	if err != nil || handled {
		return err
	}
	b.log.Debug("stale answer ignored", "chat_id", chatID, "position", position)
	return nil
}

// anyPosition accepts the answer for whichever question is current
const anyPosition = -1

// answer records an answer for the current question if it is still at position.
// Everything up to session.Answer runs under b.mu. It reports whether the
// update was consumed.
func (b *Bot) answer(ctx context.Context, chatID int64, position int, resolve func(quiz.Question) (string, bool)) (bool, error) {
	b.mu.Lock()
	session := b.state(chatID).session
	if session == nil {
		b.mu.Unlock()
		if position == anyPosition {
			return false, nil
		}
		return true, b.send(chatID, "There is no quiz running. Use /topics to start one.", nil)
	}

	q, ok := session.Current()
	if !ok || (position != anyPosition && position != session.Answered()) {
		b.mu.Unlock()
		return false, nil
	}
	text, ok := resolve(q)
	if !ok {
		b.mu.Unlock()
		return false, nil
	}
	result, err := session.Answer(ctx, text)
	b.mu.Unlock()

	switch {
	case errors.Is(err, practice.ErrEmptyAnswer):
		return true, b.send(chatID, "Please type an answer.", nil)
	case err != nil:
		b.log.Error("failed to record practice attempt", "chat_id", chatID, "topic_id", session.TopicID(), "error", err)
	}

	feedback := "✅ Correct!"
	if !result.Correct {
		feedback = fmt.Sprintf("❌ Wrong. The answer is: %s", result.CorrectAnswer)
	}
	if err := b.send(chatID, feedback, nil); err != nil {
		return true, err
	}
	return true, b.sendQuestion(chatID, session)
}

func (b *Bot) sendSummary(chatID int64, session *practice.Session) error {
	b.mu.Lock()
	text := fmt.Sprintf("🏁 Quiz finished! Score: %d/%d", session.Score(), session.Total())
	b.mu.Unlock()

	return b.send(chatID, text, [][]MenuButton{{
		{Text: "🔄 Restart", CallbackData: "restart"},
		{Text: "🏠 Menu", CallbackData: "main_menu"},
	}})
}

func (b *Bot) handleRestart(chatID int64) error {
	b.mu.Lock()
	session := b.state(chatID).session
	if session != nil {
		session.Restart()
	}
	b.mu.Unlock()

	if session == nil {
		return b.send(chatID, "There is no quiz to restart. Use /topics to start one.", nil)
	}
	return b.sendQuestion(chatID, session)
}

func (b *Bot) startCards(_ context.Context, chatID int64, topic models.Topic) error {
	if len(topic.Vocabularies) == 0 {
		return b.send(chatID, fmt.Sprintf("%q has no words yet.", topic.Name), nil)
	}

	deck := practice.NewDeck(topic)
	b.mu.Lock()
	b.state(chatID).deck = deck
	b.mu.Unlock()

	return b.sendCard(chatID, deck)
}

func (b *Bot) handleCardAction(chatID int64, action string) error {
	b.mu.Lock()
	deck := b.state(chatID).deck
	if deck != nil {
		switch action {
		case "cards_flip":
			deck.Flip()
		case "cards_next":
			deck.Next()
		case "cards_prev":
			deck.Prev()
		}
	}
	b.mu.Unlock()

	if deck == nil {
		return b.send(chatID, "There are no flashcards open. Use /topics to pick a topic.", nil)
	}
	return b.sendCard(chatID, deck)
}

func (b *Bot) sendCard(chatID int64, deck *practice.Deck) error {
	b.mu.Lock()
	card, flipped, _ := deck.Current()
	index, total := deck.Index(), deck.Len()
	b.mu.Unlock()

	return b.send(chatID, formatCard(card, flipped, index, total), [][]MenuButton{{
		{Text: "⬅️", CallbackData: "cards_prev"},
		{Text: "🔄 Flip", CallbackData: "cards_flip"},
		{Text: "➡️", CallbackData: "cards_next"},
	}})
}

func (b *Bot) handleReport(ctx context.Context, chatID int64) error {
	topics, history, err := b.store.Snapshot(ctx)
	if err != nil {
		return err
	}
	report := mastery.BuildReport(topics, history, b.now())
	return b.send(chatID, formatReport(report, b.config.ReportTopics), b.mainMenuButtons())
}

func (b *Bot) handleReview(ctx context.Context, chatID int64) error {
	topics, history, err := b.store.Snapshot(ctx)
	if err != nil {
		return err
	}
	due := mastery.WordsToReview(mastery.ComputeWordStats(topics, history), b.now())
	return b.send(chatID, formatReview(due), nil)
}
