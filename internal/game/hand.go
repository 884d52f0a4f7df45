package game

import (
	"github.com/lox/pokertables/poker"
)

// MinPlayers is the number of players with chips needed to deal a hand.
const MinPlayers = 3

// StartNewGame deals a new hand. It fails without side effects if a hand is
// already running or fewer than MinPlayers seated players have chips.
func (t *Table) StartNewGame() error {
	if t.running {
		return ErrHandInProgress
	}
	participants := 0
	for _, p := range t.seats {
		if p != nil && p.Chips > 0 {
			participants++
		}
	}
	if participants < MinPlayers {
		return ErrNotEnoughPlayers
	}

	deck := poker.NewDeck(t.rng)
	for _, p := range t.seats {
		if p == nil {
			continue
		}
		p.resetForHand()
		if p.Chips == 0 {
			// Busted players sit out the hand.
			p.Folded = true
			continue
		}
		p.HoleCards = deck.Deal(2)
	}
	copy(t.board[:], deck.Deal(len(t.board)))
	t.revealed = 0
	t.requiredBet = 0
	t.lastResult = nil
	t.running = true
	t.handNumber++

	t.button = t.nextActor(t.button)
	t.postBlinds()

	t.touch()
	return nil
}

// postBlinds makes the two participants after the button post the blind. A
// short stack posts what it has. Posting does not count as acting, so both
// blinds get a decision once the action comes round.
func (t *Table) postBlinds() {
	seat := t.button
	for i := 0; i < 2; i++ {
		seat = t.nextActor(seat)
		p := t.seats[seat]
		t.pot += p.commit(t.blind)
		t.requiredBet = max(t.requiredBet, p.CurrentBet)
	}
	t.settle(seat)
}
