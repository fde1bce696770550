package mastery

import (
	"sort"

	"github.com/example/vocabquiz/pkg/models"
)

// DifficultWordsLimit caps the simple report's words-to-review list
const DifficultWordsLimit = 5

// LegacyReport is the plain accuracy report that predates weighted mastery
type LegacyReport struct {
	TotalAttempts  int
	TotalCorrect   int
	Accuracy       float64 // 0..1
	Topics         []models.TopicAccuracy
	DifficultWords []models.DifficultWord
}

// BuildLegacyReport computes accuracy by topic and the lowest-accuracy words
func BuildLegacyReport(topics []models.Topic, history []models.PracticeAttempt) LegacyReport {
	report := LegacyReport{TotalAttempts: len(history)}
	for _, a := range history {
		if a.Correct {
			report.TotalCorrect++
		}
	}
	report.Accuracy = ratio(report.TotalCorrect, report.TotalAttempts)
	report.Topics = TopicAccuracy(topics, history)
	report.DifficultWords = DifficultWords(topics, history)
	return report
}

// TopicAccuracy returns the unweighted share of correct attempts per topic, in topic order
func TopicAccuracy(topics []models.Topic, history []models.PracticeAttempt) []models.TopicAccuracy {
	result := make([]models.TopicAccuracy, 0, len(topics))
	for _, topic := range topics {
		row := models.TopicAccuracy{TopicID: topic.ID, Name: topic.Name}
		correct := 0
		for _, a := range history {
			if a.TopicID != topic.ID {
				continue
			}
			row.Attempts++
			if a.Correct {
				correct++
			}
		}
		row.HasData = row.Attempts > 0
		row.Accuracy = ratio(correct, row.Attempts)
		result = append(result, row)
	}
	return result
}

// DifficultWords lists practiced words that were missed at least once,
// lowest accuracy first, at most DifficultWordsLimit of them.
func DifficultWords(topics []models.Topic, history []models.PracticeAttempt) []models.DifficultWord {
	type tally struct{ correct, total int }

	order := make([]string, 0)
	tallies := make(map[string]*tally)
	for _, a := range history {
		t, ok := tallies[a.WordID]
		if !ok {
			t = &tally{}
			tallies[a.WordID] = t
			order = append(order, a.WordID)
		}
		t.total++
		if a.Correct {
			t.correct++
		}
	}

	result := make([]models.DifficultWord, 0)
	for _, wordID := range order {
		topic, item, ok := lookupWord(topics, wordID)
		if !ok {
			continue
		}
		t := tallies[wordID]
		accuracy := ratio(t.correct, t.total)
		if t.total == 0 || accuracy >= 1 {
			continue
		}
		result = append(result, models.DifficultWord{
			WordID:    wordID,
			Word:      item.Word,
			TopicName: topic.Name,
			Correct:   t.correct,
			Total:     t.total,
			Accuracy:  accuracy,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Accuracy < result[j].Accuracy
	})
	if len(result) > DifficultWordsLimit {
		return result[:DifficultWordsLimit]
	}
	return result
}

func lookupWord(topics []models.Topic, wordID string) (models.Topic, models.VocabularyItem, bool) {
	for _, topic := range topics {
		if item, ok := topic.FindWord(wordID); ok {
			return topic, item, true
		}
	}
	return models.Topic{}, models.VocabularyItem{}, false
}
