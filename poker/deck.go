package poker

import (
	"math/rand/v2"
)

// DeckSize is the number of cards in a standard deck.
const DeckSize = 52

// NewOrderedDeck returns all 52 cards, suit by suit, Two through Ace.
// The order is deterministic; use Deck to deal in random order.
func NewOrderedDeck() []Card {
	cards := make([]Card, 0, DeckSize)
	for _, suit := range Suits {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(rank, suit))
		}
	}
	return cards
}

// Deck represents a standard 52-card deck dealt without replacement
type Deck struct {
	cards [DeckSize]Card
	next  int
	rng   *rand.Rand
}

// NewDeck creates a new shuffled deck with explicit RNG
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}
	copy(d.cards[:], NewOrderedDeck())
	d.Shuffle()
	return d
}

// Shuffle restores all cards and shuffles them using Fisher-Yates
func (d *Deck) Shuffle() {
	d.next = 0
	for i := len(d.cards) - 1; i > 0; i-- {
		var j int
		if d.rng != nil {
			j = d.rng.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal deals n cards from the deck. It returns nil if fewer than n remain.
func (d *Deck) Deal(n int) []Card {
	if n < 0 || d.next+n > len(d.cards) {
		return nil
	}
	cards := make([]Card, n)
	copy(cards, d.cards[d.next:d.next+n])
	d.next += n
	return cards
}

// DealOne deals a single card from the deck
func (d *Deck) DealOne() (Card, bool) {
	if d.next >= len(d.cards) {
		return Card{}, false
	}
	card := d.cards[d.next]
	d.next++
	return card, true
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}
