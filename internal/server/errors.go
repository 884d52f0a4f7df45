package server

import (
	"errors"
	"net/http"

	"github.com/lox/pokertables/internal/game"
	"github.com/lox/pokertables/internal/lobby"
	"github.com/lox/pokertables/poker"
)

var (
	ErrBadRequest = errors.New("server: malformed request")
)

type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{lobby.ErrUnknownKey, http.StatusUnauthorized, "unknown_key"},
	{lobby.ErrNotHost, http.StatusForbidden, "not_host"},
	{lobby.ErrNotYourTurn, http.StatusForbidden, "not_your_turn"},
	{lobby.ErrTableNotFound, http.StatusNotFound, "table_not_found"},
	{lobby.ErrInvalidSettings, http.StatusBadRequest, "invalid_settings"},
	{game.ErrTableFull, http.StatusConflict, "table_full"},
	{game.ErrHandInProgress, http.StatusConflict, "hand_in_progress"},
	{game.ErrHandNotRunning, http.StatusConflict, "hand_not_running"},
	{game.ErrCannotCheck, http.StatusConflict, "cannot_check"},
	{game.ErrEmptySeat, http.StatusConflict, "empty_seat"},
	{game.ErrInsufficientChips, http.StatusUnprocessableEntity, "insufficient_chips"},
	{game.ErrInvalidAmount, http.StatusUnprocessableEntity, "invalid_amount"},
	{game.ErrNotEnoughPlayers, http.StatusTooEarly, "not_enough_players"},
	{game.ErrUnknownAction, http.StatusBadRequest, "unknown_action"},
	{poker.ErrInvalidCard, http.StatusBadRequest, "invalid_card"},
	{ErrBadRequest, http.StatusBadRequest, "bad_request"},
}

// classify maps an error to an HTTP status and a stable error code.
func classify(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "internal_error"
}
