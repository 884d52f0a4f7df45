package game

import (
	"github.com/lox/pokertables/poker"
)

// SeatView is one seat as seen by a particular viewer.
type SeatView struct {
	Seat       int                  `json:"seat"`
	Name       string               `json:"name"`
	Chips      int                  `json:"chips"`
	CurrentBet int                  `json:"current_bet"`
	HasActed   bool                 `json:"has_acted"`
	Folded     bool                 `json:"folded"`
	HasCards   bool                 `json:"has_cards"`
	HoleCards  []poker.Card         `json:"hole_cards,omitempty"`
	BestHand   *poker.EvaluatedHand `json:"best_hand,omitempty"`
	IsViewer   bool                 `json:"is_viewer"`
	IsButton   bool                 `json:"is_button"`
	IsActing   bool                 `json:"is_acting"`
}

// View is the public projection of a table for one identity.
type View struct {
	Settings    Settings     `json:"settings"`
	Seats       []*SeatView  `json:"seats"` // NumSeats entries, nil for empty seats
	Board       []poker.Card `json:"board"`
	Pot         int          `json:"pot"`
	RequiredBet int          `json:"required_bet"`
	ActingSeat  int          `json:"acting_seat"`
	Button      int          `json:"button"`
	Running     bool         `json:"running"`
	Street      string       `json:"street"`
	HandNumber  int          `json:"hand_number"`
	ViewerSeat  int          `json:"viewer_seat"`
	LastResult  *HandResult  `json:"last_result,omitempty"`
}

// ViewFor projects the table for identity without mutating it. Other
// players' hole cards stay hidden unless the last hand went to showdown and
// they did not fold; the viewer always sees their own cards.
func (t *Table) ViewFor(identity string) View {
	viewer := -1
	if identity != "" {
		viewer = t.SeatOf(identity)
	}
	shown := !t.running && t.revealed == len(t.board)

	v := View{
		Settings:    t.settings,
		Seats:       make([]*SeatView, NumSeats),
		Board:       t.Board(),
		Pot:         t.pot,
		RequiredBet: t.requiredBet,
		ActingSeat:  t.acting,
		Button:      t.button,
		Running:     t.running,
		Street:      t.Street().String(),
		HandNumber:  t.handNumber,
		ViewerSeat:  viewer,
	}
	if !t.running {
		v.LastResult = t.lastResult
	}

	for i, p := range t.seats {
		if p == nil {
			continue
		}
		sv := &SeatView{
			Seat:       i,
			Name:       p.Name,
			Chips:      p.Chips,
			CurrentBet: p.CurrentBet,
			HasActed:   p.HasActed,
			Folded:     p.Folded,
			HasCards:   len(p.HoleCards) == 2,
			IsViewer:   i == viewer,
			IsButton:   i == t.button,
			IsActing:   t.running && i == t.acting,
		}
		own := i == viewer
		if sv.HasCards && (own || (shown && !p.Folded)) {
			sv.HoleCards = append([]poker.Card(nil), p.HoleCards...)
		}
		if sv.HasCards && t.revealed == len(t.board) && (own || (shown && !p.Folded)) {
			if hand, ok := t.BestHand(i); ok {
				sv.BestHand = &hand
			}
		}
		v.Seats[i] = sv
	}
	return v
}
