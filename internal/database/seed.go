package database

import (
	"context"
	"fmt"

	"github.com/example/vocabquiz/pkg/models"
)

// SampleTopics returns the starter topics offered on an empty database
func SampleTopics() []models.Topic {
	verbs := models.NewTopic("Common English Verbs", "Everyday actions", models.Beginner)
	verbs.Vocabularies = []models.VocabularyItem{
		{Word: "run", Phonetic: "/rʌn/", PartOfSpeech: "verb", Meaning: "to move swiftly on foot"},
		{Word: "eat", Phonetic: "/iːt/", PartOfSpeech: "verb", Meaning: "to put food into the mouth and swallow it"},
		{Word: "sleep", Phonetic: "/sliːp/", PartOfSpeech: "verb", Meaning: "to rest with eyes closed and mind unconscious"},
		{Word: "think", Phonetic: "/θɪŋk/", PartOfSpeech: "verb", Meaning: "to use one's mind to consider something"},
		{Word: "talk", Phonetic: "/tɔːk/", PartOfSpeech: "verb", Meaning: "to speak in order to give information or express ideas"},
	}

	tech := models.NewTopic("Technology Terms", "Words used when talking about computers", models.Intermediate)
	tech.PracticeRatio = 0.7
	tech.Vocabularies = []models.VocabularyItem{
		{Word: "algorithm", Phonetic: "/ˈælɡərɪðəm/", PartOfSpeech: "noun", Meaning: "a set of rules to be followed in calculations or problem-solving"},
		{Word: "database", Phonetic: "/ˈdeɪtəbeɪs/", PartOfSpeech: "noun", Meaning: "a structured set of data held in a computer"},
		{Word: "network", Phonetic: "/ˈnetwɜːk/", PartOfSpeech: "noun", Meaning: "a group of interconnected computers"},
	}

	return []models.Topic{verbs, tech}
}

// SeedSampleData inserts the sample topics when no topics exist yet.
// It reports whether anything was inserted.
func SeedSampleData(ctx context.Context, store *Store) (bool, error) {
	var count int
	if err := store.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM topics"); err != nil {
		return false, fmt.Errorf("failed to count topics: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	for _, topic := range SampleTopics() {
		topic := topic
		if err := store.Topics.Create(ctx, &topic); err != nil {
			return false, err
		}
	}
	return true, nil
}
