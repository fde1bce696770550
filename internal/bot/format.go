package bot

import (
	"fmt"
	"strings"

	"github.com/example/vocabquiz/internal/mastery"
	"github.com/example/vocabquiz/pkg/models"
)

func formatCard(card models.VocabularyItem, flipped bool, index, total int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🃏 Card %d/%d\n\n", index+1, total)
	if flipped {
		sb.WriteString(card.Meaning)
		return sb.String()
	}

	sb.WriteString(card.Word)
	if card.Phonetic != "" {
		sb.WriteString(" " + card.Phonetic)
	}
	if card.PartOfSpeech != "" {
		fmt.Fprintf(&sb, " (%s)", card.PartOfSpeech)
	}
	return sb.String()
}

func formatReport(report mastery.Report, maxTopics int) string {
	if report.Overall.TotalAttempts == 0 {
		return "No practice yet. Take a quiz to see your progress."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Overall accuracy: %.0f%% (%d/%d)\n", report.Overall.OverallAccuracy, report.Overall.TotalCorrect, report.Overall.TotalAttempts)
	fmt.Fprintf(&sb, "Words studied: %d\n", report.Overall.WordsStudied)

	if len(report.Topics) > 0 {
		sb.WriteString("\nTopics by mastery:\n")
		for i, t := range report.Topics {
			if i == maxTopics {
				break
			}
			fmt.Fprintf(&sb, "%d. %s: %.0f%% (%d words)\n", i+1, t.Name, t.AverageMastery, t.WordsStudied)
		}
	}

	if len(report.Review) > 0 {
		fmt.Fprintf(&sb, "\n%d %s due for review. Use /review to see them.", len(report.Review), plural(len(report.Review), "word", "words"))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatReview(due []models.WordStats) string {
	if len(due) == 0 {
		return "🎉 Nothing to review right now."
	}

	var sb strings.Builder
	sb.WriteString("🔁 Words to review:\n")
	for _, w := range due {
		fmt.Fprintf(&sb, "• %s - %s (%.0f%%, %s)\n", w.Word, w.Meaning, w.Mastery, w.TopicName)
	}
	return strings.TrimRight(sb.String(), "\n")
}
