package mastery

import (
	"sort"
	"time"

	"github.com/example/vocabquiz/pkg/models"
)

const (
	// ReviewLimit caps the words-due list
	ReviewLimit = 10
	// ReviewThreshold is the mastery under which a word is due regardless of its date
	ReviewThreshold = 60.0
)

// Mastery returns the recency-weighted share of correct attempts on a 0-100 scale.
// The k-th attempt in time order (0-based) weighs (k+1)^2, so recent answers dominate.
// ok is false when there are no attempts.
func Mastery(attempts []models.PracticeAttempt) (mastery float64, ok bool) {
	if len(attempts) == 0 {
		return 0, false
	}
	ordered := chronological(attempts)

	var weighted, total float64
	for rank, a := range ordered {
		weight := float64((rank + 1) * (rank + 1))
		total += weight
		if a.Correct {
			weighted += weight
		}
	}
	return 100 * weighted / total, true
}

// ReviewIntervalDays maps a mastery score to the number of days until the next review
func ReviewIntervalDays(mastery float64) int {
	switch {
	case mastery > 90:
		return 14
	case mastery > 75:
		return 7
	case mastery > 50:
		return 3
	default:
		return 1
	}
}

// ReviewDate is the moment a word practiced last at lastAttempt should be reviewed again
func ReviewDate(lastAttempt time.Time, mastery float64) time.Time {
	return lastAttempt.Add(time.Duration(ReviewIntervalDays(mastery)) * 24 * time.Hour)
}

// ComputeWordStats derives statistics for every vocabulary item that has at least one attempt.
// Results follow topic order, then vocabulary order. Attempts for unknown words are ignored.
func ComputeWordStats(topics []models.Topic, history []models.PracticeAttempt) []models.WordStats {
	byWord := make(map[string][]models.PracticeAttempt)
	for _, a := range history {
		byWord[a.WordID] = append(byWord[a.WordID], a)
	}

	stats := make([]models.WordStats, 0, len(byWord))
	for _, topic := range topics {
		for _, item := range topic.Vocabularies {
			attempts := byWord[item.ID]
			if len(attempts) == 0 {
				continue
			}
			stats = append(stats, wordStats(topic, item, attempts))
		}
	}
	return stats
}

func wordStats(topic models.Topic, item models.VocabularyItem, attempts []models.PracticeAttempt) models.WordStats {
	s := models.WordStats{
		WordID:    item.ID,
		TopicID:   topic.ID,
		TopicName: topic.Name,
		Word:      item.Word,
		Meaning:   item.Meaning,
		Frequency: len(attempts),
	}
	for _, a := range attempts {
		if a.Correct {
			s.Correct++
		}
		if a.Timestamp.After(s.LastAttempt) {
			s.LastAttempt = a.Timestamp
		}
	}
	s.RecallRate = ratio(s.Correct, s.Frequency)
	s.Mastery, _ = Mastery(attempts)
	s.ReviewDate = ReviewDate(s.LastAttempt, s.Mastery)
	return s
}

// ComputeTopicStats aggregates word statistics per topic, ranked by average mastery (highest first).
// Topics without practiced words are included with zero values.
func ComputeTopicStats(topics []models.Topic, stats []models.WordStats) []models.TopicStats {
	result := make([]models.TopicStats, 0, len(topics))
	for _, topic := range topics {
		ts := models.TopicStats{TopicID: topic.ID, Name: topic.Name}
		var masterySum float64
		for _, s := range stats {
			if s.TopicID != topic.ID {
				continue
			}
			ts.WordsStudied++
			ts.TotalAttempts += s.Frequency
			masterySum += s.Mastery
		}
		if ts.WordsStudied > 0 {
			ts.AverageMastery = masterySum / float64(ts.WordsStudied)
		}
		result = append(result, ts)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].AverageMastery > result[j].AverageMastery
	})
	return result
}

// WordsToReview returns words whose review date has passed or whose mastery is weak,
// earliest review date first, at most ReviewLimit of them.
func WordsToReview(stats []models.WordStats, now time.Time) []models.WordStats {
	due := make([]models.WordStats, 0)
	for _, s := range stats {
		if !s.ReviewDate.After(now) || s.Mastery < ReviewThreshold {
			due = append(due, s)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].ReviewDate.Before(due[j].ReviewDate)
	})

	if len(due) > ReviewLimit {
		return due[:ReviewLimit]
	}
	return due
}

// ComputeOverall summarizes accuracy across all scored words
func ComputeOverall(stats []models.WordStats) models.OverallStats {
	var overall models.OverallStats
	words := make(map[string]bool, len(stats))
	for _, s := range stats {
		overall.TotalAttempts += s.Frequency
		overall.TotalCorrect += s.Correct
		words[s.WordID] = true
	}
	overall.WordsStudied = len(words)
	overall.OverallAccuracy = 100 * ratio(overall.TotalCorrect, overall.TotalAttempts)
	return overall
}

// Report bundles everything the progress screen shows
type Report struct {
	Overall models.OverallStats
	Topics  []models.TopicStats
	Words   []models.WordStats
	Review  []models.WordStats
}

// BuildReport recomputes the full report from a snapshot of topics and history
func BuildReport(topics []models.Topic, history []models.PracticeAttempt, now time.Time) Report {
	words := ComputeWordStats(topics, history)
	return Report{
		Overall: ComputeOverall(words),
		Topics:  ComputeTopicStats(topics, words),
		Words:   words,
		Review:  WordsToReview(words, now),
	}
}

// chronological returns a copy of attempts ordered by timestamp; ties keep log order
func chronological(attempts []models.PracticeAttempt) []models.PracticeAttempt {
	ordered := make([]models.PracticeAttempt, len(attempts))
	copy(ordered, attempts)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})
	return ordered
}

func ratio(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole)
}
