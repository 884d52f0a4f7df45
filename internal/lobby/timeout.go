package lobby

import (
	"github.com/lox/pokertables/internal/game"
)

// armTimer restarts the turn clock for the table's acting seat. The timer
// remembers the table version it was armed at, so a timer that fires after
// the player has acted does nothing. Must be called with e.mu held.
func (l *Lobby) armTimer(e *entry) {
	e.stopTimer()
	if l.turnTimeout <= 0 || !e.table.Running() {
		return
	}
	tableID, version := e.id, e.table.Version()
	e.timer = l.clock.AfterFunc(l.turnTimeout, func() {
		l.expire(tableID, version)
	}, "lobby", "turn")
}

func (e *entry) stopTimer() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// expire folds the acting player if the table has not moved since the timer
// was armed.
func (l *Lobby) expire(tableID string, version uint64) {
	l.mu.RLock()
	e, ok := l.tables[tableID]
	if !ok {
		l.mu.RUnlock()
		return
	}
	e.mu.Lock()
	if e.table.Version() != version || !e.table.Running() {
		e.mu.Unlock()
		l.mu.RUnlock()
		return
	}
	seat := e.table.ActingSeat()
	name := ""
	if p := e.table.Seat(seat); p != nil {
		name = p.Name
	}
	err := e.table.ProcessAction(game.Action{Kind: game.Fold})
	l.armTimer(e)
	l.logHandEnd(e)
	e.mu.Unlock()
	l.mu.RUnlock()

	if err != nil {
		l.logger.Warn("Turn timeout fold failed", "table", tableID, "seat", seat, "error", err)
	} else {
		l.logger.Info("Turn timed out, folding", "table", tableID, "seat", seat, "player", name, "timeout", l.turnTimeout)
	}
	l.notify(tableID)
}
