package models

// Difficulty is the level a topic is aimed at
type Difficulty string

const (
	Beginner     Difficulty = "Beginner"
	Intermediate Difficulty = "Intermediate"
	Advanced     Difficulty = "Advanced"
)

// DefaultPracticeRatio is the share of multiple choice questions for new topics
const DefaultPracticeRatio = 0.5

// Valid reports whether d is one of the known difficulty levels
func (d Difficulty) Valid() bool {
	switch d {
	case Beginner, Intermediate, Advanced:
		return true
	}
	return false
}

// Topic represents a named group of vocabulary items
type Topic struct {
	ID            string           `json:"id" db:"id"`
	Name          string           `json:"name" db:"name" validate:"required"`
	Description   string           `json:"description" db:"description"`
	Difficulty    Difficulty       `json:"difficulty" db:"difficulty"`
	PracticeRatio float64          `json:"practiceRatio" db:"practice_ratio" validate:"gte=0,lte=1"`
	Vocabularies  []VocabularyItem `json:"vocabularies" db:"-"`
}

// NewTopic returns a topic with the creation defaults applied
func NewTopic(name, description string, difficulty Difficulty) Topic {
	if !difficulty.Valid() {
		difficulty = Beginner
	}
	return Topic{
		Name:          name,
		Description:   description,
		Difficulty:    difficulty,
		PracticeRatio: DefaultPracticeRatio,
		Vocabularies:  []VocabularyItem{},
	}
}

// FindWord returns the item with the given id
func (t Topic) FindWord(id string) (VocabularyItem, bool) {
	for _, v := range t.Vocabularies {
		if v.ID == id {
			return v, true
		}
	}
	return VocabularyItem{}, false
}
