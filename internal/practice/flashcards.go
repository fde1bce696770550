package practice

import "github.com/example/vocabquiz/pkg/models"

// Deck flips through a topic's vocabulary one card at a time
type Deck struct {
	cards   []models.VocabularyItem
	index   int
	flipped bool
}

// NewDeck creates a deck in the topic's stored order
func NewDeck(topic models.Topic) *Deck {
	cards := make([]models.VocabularyItem, len(topic.Vocabularies))
	copy(cards, topic.Vocabularies)
	return &Deck{cards: cards}
}

// Len returns the number of cards
func (d *Deck) Len() int {
	return len(d.cards)
}

// Index returns the position of the current card
func (d *Deck) Index() int {
	return d.index
}

// Current returns the card on top and whether its back is showing
func (d *Deck) Current() (card models.VocabularyItem, flipped bool, ok bool) {
	if len(d.cards) == 0 {
		return models.VocabularyItem{}, false, false
	}
	return d.cards[d.index], d.flipped, true
}

// Flip turns the current card over
func (d *Deck) Flip() {
	d.flipped = !d.flipped
}

// Next moves to the following card, wrapping to the first
func (d *Deck) Next() {
	d.move(1)
}

// Prev moves to the previous card, wrapping to the last
func (d *Deck) Prev() {
	d.move(-1)
}

func (d *Deck) move(step int) {
	if len(d.cards) == 0 {
		return
	}
	n := len(d.cards)
	d.index = ((d.index+step)%n + n) % n
	d.flipped = false
}
