// Package game implements the betting state machine for a single Texas
// Hold'em table.
//
// The main type is Table, which owns eight fixed seats, the board, the pot and
// the turn pointer, and drives one hand at a time from deal to payout.
//
// # Basic Usage
//
//	t := game.NewTable(game.DefaultSettings(), game.WithRNG(randutil.New(42)))
//	t.AddPlayer("alice", keyA)
//	t.AddPlayer("bob", keyB)
//	t.AddPlayer("carol", keyC)
//	if err := t.StartNewGame(); err != nil {
//	    return err
//	}
//	// The acting seat is t.ActingSeat(); actions always apply to it.
//	err := t.ProcessAction(game.Action{Kind: game.Call})
//
// # Concurrency
//
// Table is not safe for concurrent use. Callers serialise access, see
// internal/lobby for the process-wide registry that does so.
//
// # Rules
//
// Every seated player with chips takes part in a hand. After the button moves,
// the next two participants post a fixed blind (DefaultBlind unless WithBlind
// is given) and action starts with the seat after them. A betting round ends
// when every live player has acted and matched the required bet, or is all in.
// Everything goes into a single pot; there are no side pots. At showdown the
// best hands split the pot and odd chips go to the winners closest to the left
// of the button.
package game
