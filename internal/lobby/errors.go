package lobby

import "errors"

var (
	ErrTableNotFound   = errors.New("lobby: table not found")
	ErrUnknownKey      = errors.New("lobby: unknown key")
	ErrNotYourTurn     = errors.New("lobby: not your turn")
	ErrNotHost         = errors.New("lobby: only the host can do that")
	ErrInvalidSettings = errors.New("lobby: invalid table settings")
)
