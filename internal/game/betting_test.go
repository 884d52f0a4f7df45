package game

import (
	"errors"
	"testing"

	"github.com/lox/pokertables/internal/randutil"
)

func TestProcessActionWhenIdle(t *testing.T) {
	t.Parallel()
	table := newTestTable(t, 3, DefaultSettings())

	if err := table.ProcessAction(Action{Kind: Call}); !errors.Is(err, ErrHandNotRunning) {
		t.Errorf("expected ErrHandNotRunning, got %v", err)
	}
}

func TestCheckFacingBet(t *testing.T) {
	t.Parallel()
	table := newTestTable(t, 3, DefaultSettings())
	mustStart(t, table)

	if err := table.ProcessAction(Action{Kind: Check}); !errors.Is(err, ErrCannotCheck) {
		t.Errorf("expected ErrCannotCheck, got %v", err)
	}
	if table.ActingSeat() != 0 {
		t.Error("rejected check moved the turn")
	}

	// Blind posters owe nothing but still face the required bet.
	mustAct(t, table, Call, 0)
	if err := table.ProcessAction(Action{Kind: Check}); !errors.Is(err, ErrCannotCheck) {
		t.Errorf("blind check: expected ErrCannotCheck, got %v", err)
	}
	blind := table.Seat(table.ActingSeat())
	chips := blind.Chips
	mustAct(t, table, Call, 0)
	if blind.Chips != chips {
		t.Errorf("call with nothing owed moved chips: %d -> %d", chips, blind.Chips)
	}
	mustAct(t, table, Call, 0)
	if table.Street() != Flop {
		t.Errorf("expected flop, got %s", table.Street())
	}
}

func TestRaiseLegality(t *testing.T) {
	t.Parallel()
	table := newTestTable(t, 3, DefaultSettings())
	mustStart(t, table)
	p := table.Seat(0)
	chips, pot, required, version := p.Chips, table.Pot(), table.RequiredBet(), table.Version()

	tests := []struct {
		name   string
		amount int
		want   error
	}{
		{"more than the stack", p.Chips + 1, ErrInsufficientChips},
		{"raise plus call exceeds the stack", p.Chips, ErrInsufficientChips},
		{"zero", 0, ErrInvalidAmount},
		{"negative", -10, ErrInvalidAmount},
	}
	for _, tc := range tests {
		err := table.ProcessAction(Action{Kind: Raise, Amount: tc.amount})
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	if p.Chips != chips || table.Pot() != pot || table.RequiredBet() != required {
		t.Error("rejected raises changed chip totals")
	}
	if table.Version() != version || table.ActingSeat() != 0 {
		t.Error("rejected raises changed the table")
	}

	// MinimumBid does not constrain raises.
	mustAct(t, table, Raise, 5)
	if p.Chips != chips-10 || table.Pot() != pot+10 || table.RequiredBet() != 10 {
		t.Errorf("raise 5: chips %d pot %d required %d", p.Chips, table.Pot(), table.RequiredBet())
	}
}

func TestShortAllInRaiseIsAllowed(t *testing.T) {
	t.Parallel()
	table := newTestTable(t, 3, DefaultSettings())
	mustStart(t, table)
	p := table.Seat(0)
	table.seats[1].Chips += p.Chips - 8
	p.Chips = 8

	mustAct(t, table, Raise, 3)
	if p.Chips != 0 || table.RequiredBet() != 8 {
		t.Errorf("all-in raise: chips %d required %d", p.Chips, table.RequiredBet())
	}
	if table.ActingSeat() != 1 {
		t.Errorf("expected seat 1 to act, got %d", table.ActingSeat())
	}
}

func TestRoundCompletionRevealsEachStreet(t *testing.T) {
	t.Parallel()
	table := newTestTable(t, 3, DefaultSettings())
	mustStart(t, table)

	for i := 0; i < 3; i++ {
		mustAct(t, table, Call, 0)
	}
	for _, want := range []int{4, 5} {
		for i := 0; i < 3; i++ {
			mustAct(t, table, Check, 0)
		}
		if table.Revealed() != want {
			t.Fatalf("expected %d cards, got %d", want, table.Revealed())
		}
	}

	for i := 0; i < 3; i++ {
		mustAct(t, table, Check, 0)
	}
	if table.Running() {
		t.Error("river round should end the hand")
	}
	if table.Pot() != 0 {
		t.Errorf("pot should be paid out, got %d", table.Pot())
	}
	if table.TotalChips() != 300 {
		t.Errorf("chips not conserved: %d", table.TotalChips())
	}
}

func TestRaiseReopensAction(t *testing.T) {
	t.Parallel()
	table := newTestTable(t, 3, DefaultSettings())
	mustStart(t, table)

	mustAct(t, table, Call, 0)   // seat 0
	mustAct(t, table, Raise, 10) // seat 1
	mustAct(t, table, Call, 0)   // seat 2
	if table.Street() != PreFlop {
		t.Fatal("seat 0 still owes the raise")
	}
	if table.ActingSeat() != 0 {
		t.Fatalf("expected seat 0 to act, got %d", table.ActingSeat())
	}
	mustAct(t, table, Call, 0)
	if table.Street() != Flop || table.Pot() != 45 {
		t.Errorf("expected flop with pot 45, got %s with %d", table.Street(), table.Pot())
	}
}

func TestFoldToOne(t *testing.T) {
	t.Parallel()
	table := newTestTable(t, 3, DefaultSettings())
	mustStart(t, table)

	winner := table.Seat(2)
	chips := winner.Chips
	mustAct(t, table, Fold, 0) // seat 0
	pot := table.Pot()
	mustAct(t, table, Fold, 0) // seat 1

	if table.Running() {
		t.Fatal("hand should end when one player is left")
	}
	if winner.Chips != chips+pot {
		t.Errorf("winner has %d chips, want %d", winner.Chips, chips+pot)
	}
	if table.Pot() != 0 {
		t.Errorf("pot should be empty, got %d", table.Pot())
	}
	result := table.LastResult()
	if result == nil || !result.Uncontested || len(result.Winners) != 1 || result.Winners[0].Seat != 2 {
		t.Errorf("unexpected result %+v", result)
	}
	if table.Revealed() != 0 {
		t.Error("no board should be revealed for an uncontested pot")
	}
}

func TestAllInRunsOutTheBoard(t *testing.T) {
	t.Parallel()
	table := newTestTable(t, 3, DefaultSettings())
	mustStart(t, table)

	mustAct(t, table, Raise, 95) // seat 0 all in for 100
	mustAct(t, table, Call, 0)
	mustAct(t, table, Call, 0)

	if table.Running() {
		t.Fatal("hand should run out with nobody left to bet")
	}
	if table.Revealed() != 5 {
		t.Errorf("board should be fully revealed, got %d", table.Revealed())
	}
	if table.TotalChips() != 300 {
		t.Errorf("chips not conserved: %d", table.TotalChips())
	}
	if table.LastResult() == nil || table.LastResult().Uncontested {
		t.Error("expected a showdown result")
	}
}

func TestAllInPlayerIsSkipped(t *testing.T) {
	t.Parallel()
	table := newTestTable(t, 4, DefaultSettings())
	mustStart(t, table)

	// Seat 3 acts first and shoves.
	mustAct(t, table, Raise, 95)
	mustAct(t, table, Call, 0) // seat 0 all in too
	mustAct(t, table, Fold, 0) // seat 1
	mustAct(t, table, Fold, 0) // seat 2

	if table.Running() {
		t.Fatal("two all-in players should run the board out")
	}
	if table.TotalChips() != 400 {
		t.Errorf("chips not conserved: %d", table.TotalChips())
	}
}

func TestRemoveActingPlayerMidHand(t *testing.T) {
	t.Parallel()
	table := newTestTable(t, 4, DefaultSettings())
	mustStart(t, table)
	if table.ActingSeat() != 3 {
		t.Fatalf("expected seat 3 to act, got %d", table.ActingSeat())
	}
	mustAct(t, table, Call, 0) // seat 3
	pot := table.Pot()

	// Seat 0 leaves while acting. Everyone shifts down, so the small blind
	// now sits in seat 0 and acts next.
	if err := table.RemovePlayer(0); err != nil {
		t.Fatal(err)
	}
	if table.Pot() != pot {
		t.Error("leaving player's contributions should stay in the pot")
	}
	if got := table.Seat(table.ActingSeat()); got == nil || got.Name != "p1" {
		t.Errorf("expected p1 to act, got %+v", got)
	}
	if table.Seat(table.Button()) == nil {
		t.Error("button should point at an occupied seat")
	}
}

func TestRemovePlayerLeavingOneWinner(t *testing.T) {
	t.Parallel()
	table := newTestTable(t, 3, DefaultSettings())
	mustStart(t, table)
	mustAct(t, table, Fold, 0) // seat 0

	pot := table.Pot()
	chips := table.Seat(2).Chips
	if err := table.RemovePlayer(1); err != nil {
		t.Fatal(err)
	}
	if table.Running() {
		t.Fatal("hand should end with one player left")
	}
	if got := table.Seat(1); got.Name != "p2" || got.Chips != chips+pot {
		t.Errorf("remaining player %+v should collect %d", got, pot)
	}
}

func TestEmptyActingSeat(t *testing.T) {
	t.Parallel()
	table := newTestTable(t, 4, DefaultSettings())
	mustStart(t, table)
	table.acting = 6

	if err := table.ProcessAction(Action{Kind: Call}); !errors.Is(err, ErrEmptySeat) {
		t.Fatalf("expected ErrEmptySeat, got %v", err)
	}
	if table.ActingSeat() != 0 {
		t.Errorf("pointer should wrap to the next seat that can act, got %d", table.ActingSeat())
	}
}

func TestParseActionKind(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]ActionKind{"Fold": Fold, "check": Check, " CALL ": Call, "raise": Raise} {
		got, err := ParseActionKind(in)
		if err != nil || got != want {
			t.Errorf("ParseActionKind(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseActionKind("bet"); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("expected ErrUnknownAction, got %v", err)
	}
}

// TestChipConservation plays many seeded hands with random decisions and
// checks the table invariants after every action.
func TestChipConservation(t *testing.T) {
	t.Parallel()
	for seed := int64(1); seed <= 20; seed++ {
		rng := randutil.New(seed)
		n := 3 + rng.IntN(NumSeats-2)
		table := newTestTable(t, n, DefaultSettings(), WithRNG(randutil.New(seed*7)))
		total := table.TotalChips()

		for hand := 0; hand < 50; hand++ {
			if err := table.StartNewGame(); err != nil {
				if errors.Is(err, ErrNotEnoughPlayers) {
					break
				}
				t.Fatalf("seed %d: %v", seed, err)
			}
			for steps := 0; table.Running(); steps++ {
				if steps > 5000 {
					t.Fatalf("seed %d hand %d did not finish", seed, hand)
				}
				revealed := table.Revealed()
				a := Action{Kind: ActionKind(rng.IntN(4))}
				if a.Kind == Raise {
					a.Amount = 1 + rng.IntN(40)
				}
				if err := table.ProcessAction(a); err != nil {
					mustAct(t, table, Call, 0)
				}

				if got := table.TotalChips(); got != total {
					t.Fatalf("seed %d hand %d: chips %d, want %d", seed, hand, got, total)
				}
				if table.Running() && table.Revealed() < revealed {
					t.Fatalf("seed %d: board went backwards", seed)
				}
				for _, p := range table.Players() {
					if p == nil {
						continue
					}
					if p.Chips < 0 {
						t.Fatalf("seed %d: %s has negative chips", seed, p.Name)
					}
					if n := len(p.HoleCards); n != 0 && n != 2 {
						t.Fatalf("seed %d: %s holds %d cards", seed, p.Name, n)
					}
				}
				if table.Running() && table.Seat(table.ActingSeat()) == nil {
					t.Fatalf("seed %d: acting seat %d is empty", seed, table.ActingSeat())
				}
			}
			if table.Pot() != 0 {
				t.Fatalf("seed %d: pot %d left after the hand", seed, table.Pot())
			}
		}
	}
}
