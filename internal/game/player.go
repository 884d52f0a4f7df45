package game

import (
	"github.com/lox/pokertables/poker"
)

// Player occupies one seat at a table.
type Player struct {
	Name string
	// Identity is the opaque token handed out when the player joined. The
	// table only ever compares it for equality.
	Identity   string
	HoleCards  []poker.Card // nil or exactly two cards
	Chips      int
	CurrentBet int // contribution in the current betting round
	HasActed   bool
	Folded     bool
}

// IsAllIn reports whether the player is still in the hand with no chips behind.
func (p *Player) IsAllIn() bool {
	return !p.Folded && p.Chips == 0 && p.HoleCards != nil
}

// CanAct returns true if the player can still make betting decisions
func (p *Player) CanAct() bool {
	return !p.Folded && p.Chips > 0
}

func (p *Player) resetForHand() {
	p.HoleCards = nil
	p.CurrentBet = 0
	p.HasActed = false
	p.Folded = false
}

func (p *Player) resetForRound() {
	p.CurrentBet = 0
	p.HasActed = false
}

// commit moves up to amount chips from the stack into the round contribution
// and returns how many were moved.
func (p *Player) commit(amount int) int {
	amount = min(amount, p.Chips)
	p.Chips -= amount
	p.CurrentBet += amount
	return amount
}
