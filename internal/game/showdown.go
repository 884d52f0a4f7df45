package game

import (
	"github.com/lox/pokertables/poker"
)

// Payout records the chips one seat collected at the end of a hand.
type Payout struct {
	Seat   int                  `json:"seat"`
	Name   string               `json:"name"`
	Amount int                  `json:"amount"`
	Hand   *poker.EvaluatedHand `json:"hand,omitempty"`
}

// HandResult summarises a finished hand.
type HandResult struct {
	HandNumber int          `json:"hand_number"`
	Pot        int          `json:"pot"`
	Board      []poker.Card `json:"board"`
	// Uncontested is set when everyone else folded and no cards were shown.
	Uncontested bool     `json:"uncontested"`
	Winners     []Payout `json:"winners"`
}

// BestHand evaluates the player's hole cards with the full board. It returns
// false if the player holds no cards.
func (t *Table) BestHand(seat int) (poker.EvaluatedHand, bool) {
	p := t.Seat(seat)
	if p == nil || len(p.HoleCards) != 2 {
		return poker.EvaluatedHand{}, false
	}
	var cards [7]poker.Card
	cards[0], cards[1] = p.HoleCards[0], p.HoleCards[1]
	copy(cards[2:], t.board[:])
	return poker.Evaluate(cards), true
}

func (t *Table) awardUncontested() {
	result := &HandResult{
		HandNumber:  t.handNumber,
		Pot:         t.pot,
		Board:       t.Board(),
		Uncontested: true,
	}
	if live := t.liveSeats(); len(live) == 1 {
		p := t.seats[live[0]]
		p.Chips += t.pot
		result.Winners = []Payout{{Seat: live[0], Name: p.Name, Amount: t.pot}}
		t.pot = 0
	}
	t.finish(result)
}

// showdown compares every live hand, category first, and splits the pot
// between the best. Odd chips go one at a time to the winners nearest the
// left of the button.
func (t *Table) showdown() {
	type contender struct {
		seat int
		hand poker.EvaluatedHand
	}
	var best []contender
	for i := 1; i <= NumSeats; i++ {
		seat := (t.button + i) % NumSeats
		p := t.seats[seat]
		if p == nil || p.Folded {
			continue
		}
		hand, ok := t.BestHand(seat)
		if !ok {
			continue
		}
		if len(best) == 0 {
			best = []contender{{seat, hand}}
			continue
		}
		switch poker.Compare(hand, best[0].hand) {
		case 1:
			best = []contender{{seat, hand}}
		case 0:
			best = append(best, contender{seat, hand})
		}
	}

	result := &HandResult{
		HandNumber: t.handNumber,
		Pot:        t.pot,
		Board:      t.Board(),
	}
	if len(best) > 0 {
		share := t.pot / len(best)
		remainder := t.pot % len(best)
		for i, c := range best {
			amount := share
			if i < remainder {
				amount++
			}
			p := t.seats[c.seat]
			p.Chips += amount
			hand := c.hand
			result.Winners = append(result.Winners, Payout{
				Seat:   c.seat,
				Name:   p.Name,
				Amount: amount,
				Hand:   &hand,
			})
		}
		t.pot = 0
	}
	t.finish(result)
}

func (t *Table) finish(result *HandResult) {
	t.lastResult = result
	t.running = false
	t.acting = -1
	t.requiredBet = 0
}
