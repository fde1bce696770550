package models

// VocabularyItem represents a single word owned by a topic
type VocabularyItem struct {
	ID           string `json:"id" db:"id"`
	Word         string `json:"word" db:"word" validate:"required"`
	Phonetic     string `json:"phonetic" db:"phonetic"`
	PartOfSpeech string `json:"partOfSpeech" db:"part_of_speech"`
	Meaning      string `json:"meaning" db:"meaning" validate:"required"`
}
