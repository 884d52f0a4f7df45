package game

import (
	"fmt"
	"testing"

	"github.com/lox/pokertables/internal/randutil"
	"github.com/lox/pokertables/poker"
)

// newTestTable seats n players named p0..pN-1 with identities key0..keyN-1.
func newTestTable(t *testing.T, n int, settings Settings, opts ...TableOption) *Table {
	t.Helper()
	opts = append([]TableOption{WithRNG(randutil.New(42))}, opts...)
	table := NewTable(settings, opts...)
	for i := 0; i < n; i++ {
		seat, err := table.AddPlayer(fmt.Sprintf("p%d", i), fmt.Sprintf("key%d", i))
		if err != nil {
			t.Fatalf("AddPlayer %d: %v", i, err)
		}
		if seat != i {
			t.Fatalf("player %d seated at %d", i, seat)
		}
	}
	return table
}

func mustAct(t *testing.T, table *Table, kind ActionKind, amount int) {
	t.Helper()
	seat := table.ActingSeat()
	if err := table.ProcessAction(Action{Kind: kind, Amount: amount}); err != nil {
		t.Fatalf("seat %d %s %d: %v", seat, kind, amount, err)
	}
}

func mustStart(t *testing.T, table *Table) {
	t.Helper()
	if err := table.StartNewGame(); err != nil {
		t.Fatalf("StartNewGame: %v", err)
	}
}

// rig replaces the dealt cards so the outcome of a hand is known.
func rig(t *testing.T, table *Table, board string, holes ...string) {
	t.Helper()
	copy(table.board[:], poker.MustParseCards(board))
	for i, h := range holes {
		p := table.seats[i]
		if p == nil {
			t.Fatalf("no player in seat %d", i)
		}
		p.HoleCards = poker.MustParseCards(h)
	}
}
