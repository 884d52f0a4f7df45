package lobby

import (
	"fmt"

	"github.com/lox/pokertables/internal/game"
)

// MaxSeatCap is the highest seat index a table may open up to.
const MaxSeatCap = game.NumSeats - 1

// ValidateSettings checks table settings before they reach a table.
func ValidateSettings(s game.Settings) error {
	switch {
	case s.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidSettings)
	case s.SeatCap < 1 || s.SeatCap > MaxSeatCap:
		return fmt.Errorf("%w: max_players must be between 1 and %d", ErrInvalidSettings, MaxSeatCap)
	case s.MinimumBid <= 0:
		return fmt.Errorf("%w: minimal_bid must be positive", ErrInvalidSettings)
	case s.StartingChips <= 0:
		return fmt.Errorf("%w: starting_chips must be positive", ErrInvalidSettings)
	}
	return nil
}
