package game

import (
	"math/rand/v2"

	"github.com/lox/pokertables/internal/randutil"
	"github.com/lox/pokertables/poker"
)

// NumSeats is the fixed number of seats at every table.
const NumSeats = 8

// DefaultBlind is the forced bet posted by each of the two seats after the
// button. It does not scale with the minimum bid.
const DefaultBlind = 5

// Street represents the betting round
type Street int

const (
	Idle Street = iota
	PreFlop
	Flop
	Turn
	River
)

func (s Street) String() string {
	if s < Idle || s > River {
		return "unknown"
	}
	return [...]string{"idle", "preflop", "flop", "turn", "river"}[s]
}

// Settings is the table-wide configuration accepted at creation or edit time.
// Bounds are validated by the caller before they reach the table.
type Settings struct {
	Name          string `json:"name"`
	MinimumBid    int    `json:"minimal_bid"`
	SeatCap       int    `json:"max_players"`
	StartingChips int    `json:"starting_chips"`
}

// DefaultSettings returns the settings a table gets when the host supplies none.
func DefaultSettings() Settings {
	return Settings{
		Name:          "Table",
		MinimumBid:    10,
		SeatCap:       NumSeats - 1,
		StartingChips: 100,
	}
}

// TableOption configures a Table during creation.
type TableOption func(*Table)

// WithRNG sets the random source used to shuffle each hand's deck.
func WithRNG(rng *rand.Rand) TableOption {
	return func(t *Table) {
		t.rng = rng
	}
}

// WithBlind overrides DefaultBlind.
func WithBlind(blind int) TableOption {
	return func(t *Table) {
		if blind > 0 {
			t.blind = blind
		}
	}
}

// Table is a single poker table. It is not safe for concurrent use.
type Table struct {
	settings Settings
	blind    int
	rng      *rand.Rand

	seats    [NumSeats]*Player
	board    [5]poker.Card
	revealed int

	pot         int
	requiredBet int
	acting      int
	button      int
	running     bool
	handNumber  int
	version     uint64
	lastResult  *HandResult
}

// NewTable creates an empty table. Without WithRNG the deck is shuffled from
// an entropy-seeded source.
func NewTable(settings Settings, opts ...TableOption) *Table {
	t := &Table{
		settings: settings,
		blind:    DefaultBlind,
		acting:   -1,
		button:   -1,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.rng == nil {
		t.rng = randutil.NewRandom()
	}
	return t
}

// Settings returns the current table configuration.
func (t *Table) Settings() Settings { return t.settings }

// UpdateSettings replaces the table configuration. Lowering the seat cap
// never unseats anyone; it only limits future joins.
func (t *Table) UpdateSettings(s Settings) error {
	if t.running {
		return ErrHandInProgress
	}
	t.settings = s
	t.touch()
	return nil
}

// Blind returns the forced bet posted by each blind seat.
func (t *Table) Blind() int { return t.blind }

// Seat returns the player in seat i, or nil if it is empty or out of range.
func (t *Table) Seat(i int) *Player {
	if i < 0 || i >= NumSeats {
		return nil
	}
	return t.seats[i]
}

// Players returns the seats array. Empty seats are nil.
func (t *Table) Players() [NumSeats]*Player { return t.seats }

// Board returns the revealed board cards.
func (t *Table) Board() []poker.Card {
	board := make([]poker.Card, t.revealed)
	copy(board, t.board[:t.revealed])
	return board
}

// Revealed returns how many board cards are face up (0, 3, 4 or 5).
func (t *Table) Revealed() int { return t.revealed }

func (t *Table) Pot() int { return t.pot }

// RequiredBet is the round contribution every live player has to match.
func (t *Table) RequiredBet() int { return t.requiredBet }

// ActingSeat returns the seat whose decision the table is waiting for, or -1.
func (t *Table) ActingSeat() int { return t.acting }

func (t *Table) Button() int { return t.button }

func (t *Table) Running() bool { return t.running }

func (t *Table) HandNumber() int { return t.handNumber }

// Version increases on every successful mutation.
func (t *Table) Version() uint64 { return t.version }

// LastResult returns the outcome of the most recently finished hand, or nil.
func (t *Table) LastResult() *HandResult { return t.lastResult }

// Street reports where the current hand is.
func (t *Table) Street() Street {
	if !t.running {
		return Idle
	}
	switch t.revealed {
	case 0:
		return PreFlop
	case 3:
		return Flop
	case 4:
		return Turn
	default:
		return River
	}
}

// SeatOf returns the seat held by identity, or -1.
func (t *Table) SeatOf(identity string) int {
	for i, p := range t.seats {
		if p != nil && p.Identity == identity {
			return i
		}
	}
	return -1
}

// OccupiedCount returns the number of seated players.
func (t *Table) OccupiedCount() int {
	n := 0
	for _, p := range t.seats {
		if p != nil {
			n++
		}
	}
	return n
}

// Empty reports whether every seat is vacant.
func (t *Table) Empty() bool { return t.OccupiedCount() == 0 }

// TotalChips returns the chips on the table: every stack plus the pot.
func (t *Table) TotalChips() int {
	total := t.pot
	for _, p := range t.seats {
		if p != nil {
			total += p.Chips
		}
	}
	return total
}

func (t *Table) touch() { t.version++ }
