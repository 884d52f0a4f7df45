package game

import "errors"

var (
	ErrTableFull         = errors.New("game: table is full")
	ErrSeatEmpty         = errors.New("game: seat is empty")
	ErrSeatOutOfRange    = errors.New("game: seat out of range")
	ErrNotEnoughPlayers  = errors.New("game: not enough players")
	ErrHandInProgress    = errors.New("game: hand in progress")
	ErrHandNotRunning    = errors.New("game: no hand in progress")
	ErrInsufficientChips = errors.New("game: insufficient chips")
	ErrInvalidAmount     = errors.New("game: invalid amount")
	ErrCannotCheck       = errors.New("game: cannot check facing a bet")
	ErrUnknownAction     = errors.New("game: unknown action")
	ErrEmptySeat         = errors.New("game: acting seat is empty")
)
