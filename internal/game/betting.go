package game

import (
	"fmt"
	"strings"
)

// ActionKind is the type of decision a player makes.
type ActionKind int

const (
	Fold ActionKind = iota
	Check
	Call
	Raise
)

func (k ActionKind) String() string {
	if k < Fold || k > Raise {
		return "unknown"
	}
	return [...]string{"fold", "check", "call", "raise"}[k]
}

// ParseActionKind accepts an action name in any case ("Fold", "raise").
func ParseActionKind(s string) (ActionKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fold":
		return Fold, nil
	case "check":
		return Check, nil
	case "call":
		return Call, nil
	case "raise":
		return Raise, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// Action is a player decision. Amount is only meaningful for Raise and is the
// increase over the current required bet.
type Action struct {
	Kind   ActionKind
	Amount int
}

func (a Action) String() string {
	if a.Kind == Raise {
		return fmt.Sprintf("raise %d", a.Amount)
	}
	return a.Kind.String()
}

// ProcessAction applies a decision for the acting seat. A rejected action
// leaves the table untouched, except that an acting pointer found on an empty
// seat is moved on.
func (t *Table) ProcessAction(a Action) error {
	if !t.running {
		return ErrHandNotRunning
	}
	seat := t.acting
	p := t.Seat(seat)
	if p == nil {
		t.acting = t.nextActor(seat)
		t.touch()
		return ErrEmptySeat
	}
	owed := t.requiredBet - p.CurrentBet

	switch a.Kind {
	case Fold:
		p.Folded = true

	case Check:
		if t.requiredBet > 0 {
			return fmt.Errorf("%w: required bet is %d", ErrCannotCheck, t.requiredBet)
		}

	case Call:
		t.pot += p.commit(owed)

	case Raise:
		if a.Amount <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidAmount, a.Amount)
		}
		total := a.Amount + owed
		if total > p.Chips {
			return fmt.Errorf("%w: raise needs %d, have %d", ErrInsufficientChips, total, p.Chips)
		}
		t.pot += p.commit(total)
		t.requiredBet += a.Amount

	default:
		return fmt.Errorf("%w: %d", ErrUnknownAction, a.Kind)
	}

	p.HasActed = true
	t.settle(seat)
	t.touch()
	return nil
}

// settle ends the hand if only one player is left, moves to the next street
// if the betting round is over, and otherwise passes the turn to the first
// seat after from that can still bet.
func (t *Table) settle(from int) {
	if len(t.liveSeats()) <= 1 {
		t.awardUncontested()
		return
	}
	if t.roundComplete() {
		t.advanceStreet()
		return
	}
	t.acting = t.nextActor(from)
}

// roundComplete reports whether every live player has either acted and
// matched the required bet or is all in.
func (t *Table) roundComplete() bool {
	for _, p := range t.seats {
		if p == nil || p.Folded || p.Chips == 0 {
			continue
		}
		if !p.HasActed || p.CurrentBet < t.requiredBet {
			return false
		}
	}
	return true
}

// advanceStreet reveals the next street and opens a new betting round. When
// fewer than two players can still bet, the board is run out to showdown.
func (t *Table) advanceStreet() {
	for {
		if t.revealed == len(t.board) {
			t.showdown()
			return
		}
		if t.revealed == 0 {
			t.revealed = 3
		} else {
			t.revealed++
		}

		t.requiredBet = 0
		for _, p := range t.seats {
			if p != nil {
				p.resetForRound()
			}
		}

		if t.bettorCount() >= 2 {
			t.acting = t.nextActor(t.button)
			return
		}
	}
}
