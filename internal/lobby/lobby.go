// Package lobby is the process-wide registry of poker tables.
//
// Lock order is always the registry lock first, then a table's own lock.
// Nothing holding a table lock ever reaches back for the registry lock.
package lobby

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/lox/pokertables/internal/game"
	"github.com/lox/pokertables/internal/randutil"
)

// HostSeat is the seat held by the player who created a table.
const HostSeat = 0

// Option configures a Lobby.
type Option func(*Lobby)

// WithLogger sets the logger. The lobby logs under the "lobby" prefix.
func WithLogger(logger *log.Logger) Option {
	return func(l *Lobby) {
		l.logger = logger
	}
}

// WithClock sets the clock that drives turn timeouts.
func WithClock(clock quartz.Clock) Option {
	return func(l *Lobby) {
		l.clock = clock
	}
}

// WithTurnTimeout folds a player who has not acted within d. Zero disables it.
func WithTurnTimeout(d time.Duration) Option {
	return func(l *Lobby) {
		l.turnTimeout = d
	}
}

// WithBlind sets the blind posted at every table.
func WithBlind(blind int) Option {
	return func(l *Lobby) {
		l.blind = blind
	}
}

// WithSeed makes every table's deck order reproducible.
func WithSeed(seed int64) Option {
	return func(l *Lobby) {
		l.seed = &seed
	}
}

// Lobby holds every open table and the identity keys of the players at them.
// It is safe for concurrent use.
type Lobby struct {
	mu     sync.RWMutex
	tables map[string]*entry
	keys   map[string]string // identity key -> table ID
	seeded int64

	logger      *log.Logger
	clock       quartz.Clock
	turnTimeout time.Duration
	blind       int
	seed        *int64

	notifyMu sync.RWMutex
	onChange []func(tableID string)
}

type entry struct {
	mu    sync.Mutex
	id    string
	table *game.Table
	timer *quartz.Timer
}

// New creates an empty lobby.
func New(opts ...Option) *Lobby {
	l := &Lobby{
		tables: make(map[string]*entry),
		keys:   make(map[string]string),
		logger: log.New(io.Discard),
		clock:  quartz.NewReal(),
		blind:  game.DefaultBlind,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.WithPrefix("lobby")
	return l
}

// OnChange registers fn to be called with a table's ID after every change to
// that table. It is called without any lobby lock held.
func (l *Lobby) OnChange(fn func(tableID string)) {
	l.notifyMu.Lock()
	defer l.notifyMu.Unlock()
	l.onChange = append(l.onChange, fn)
}

func (l *Lobby) notify(tableID string) {
	l.notifyMu.RLock()
	fns := l.onChange
	l.notifyMu.RUnlock()
	for _, fn := range fns {
		fn(tableID)
	}
}

// CreateTable opens a new table with host in the host seat. An empty
// settings name defaults to the host's name.
func (l *Lobby) CreateTable(host string, settings game.Settings) (tableID, key string, err error) {
	if settings.Name == "" {
		settings.Name = host
	}
	if err := ValidateSettings(settings); err != nil {
		return "", "", err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	seed := l.nextSeed()
	e := &entry{
		id:    uuid.NewString(),
		table: game.NewTable(settings, game.WithRNG(randutil.New(seed)), game.WithBlind(l.blind)),
	}
	key = uuid.NewString()
	if _, err := e.table.AddPlayer(host, key); err != nil {
		return "", "", err
	}
	l.tables[e.id] = e
	l.keys[key] = e.id

	l.logger.Info("Table created", "table", e.id, "name", settings.Name, "host", host, "seed", seed)
	return e.id, key, nil
}

// nextSeed must be called with l.mu held.
func (l *Lobby) nextSeed() int64 {
	if l.seed == nil {
		return randutil.RandomSeed()
	}
	l.seeded++
	return *l.seed + l.seeded
}

// JoinTable seats a new player and returns their identity key.
func (l *Lobby) JoinTable(tableID, name string) (string, error) {
	l.mu.Lock()
	e, ok := l.tables[tableID]
	if !ok {
		l.mu.Unlock()
		return "", ErrTableNotFound
	}

	e.mu.Lock()
	key := uuid.NewString()
	seat, err := e.table.AddPlayer(name, key)
	e.mu.Unlock()
	if err != nil {
		l.mu.Unlock()
		return "", err
	}
	l.keys[key] = tableID
	l.mu.Unlock()

	l.logger.Info("Player joined", "table", tableID, "player", name, "seat", seat)
	l.notify(tableID)
	return key, nil
}

// LeaveTable removes the player from their table. The table is closed once
// its last player has gone.
func (l *Lobby) LeaveTable(key string) error {
	l.mu.Lock()
	tableID, ok := l.keys[key]
	if !ok {
		l.mu.Unlock()
		return ErrUnknownKey
	}
	e := l.tables[tableID]

	e.mu.Lock()
	seat := e.table.SeatOf(key)
	if seat < 0 {
		e.mu.Unlock()
		l.mu.Unlock()
		return ErrUnknownKey
	}
	name := e.table.Seat(seat).Name
	if err := e.table.RemovePlayer(seat); err != nil {
		e.mu.Unlock()
		l.mu.Unlock()
		return err
	}
	closed := e.table.Empty()
	if closed {
		e.stopTimer()
	} else {
		l.armTimer(e)
		l.logHandEnd(e)
	}
	e.mu.Unlock()

	delete(l.keys, key)
	if closed {
		delete(l.tables, tableID)
	}
	l.mu.Unlock()

	l.logger.Info("Player left", "table", tableID, "player", name, "seat", seat)
	if closed {
		l.logger.Info("Table closed", "table", tableID)
	}
	l.notify(tableID)
	return nil
}

// EditTable replaces a table's settings. Only the host may edit.
func (l *Lobby) EditTable(key string, settings game.Settings) error {
	if err := ValidateSettings(settings); err != nil {
		return err
	}
	return l.mutate(key, func(e *entry, seat int) error {
		if seat != HostSeat {
			return ErrNotHost
		}
		return e.table.UpdateSettings(settings)
	})
}

// StartGame deals a new hand. Only the host may start one.
func (l *Lobby) StartGame(key string) error {
	return l.mutate(key, func(e *entry, seat int) error {
		if seat != HostSeat {
			return ErrNotHost
		}
		if err := e.table.StartNewGame(); err != nil {
			return err
		}
		l.logger.Info("Hand started", "table", e.id, "hand", e.table.HandNumber(), "button", e.table.Button())
		return nil
	})
}

// Act applies a decision for the player holding key, who must be the acting seat.
func (l *Lobby) Act(key string, action game.Action) error {
	return l.mutate(key, func(e *entry, seat int) error {
		if !e.table.Running() {
			return game.ErrHandNotRunning
		}
		if seat != e.table.ActingSeat() {
			return ErrNotYourTurn
		}
		if err := e.table.ProcessAction(action); err != nil {
			return err
		}
		l.logger.Debug("Action", "table", e.id, "seat", seat, "action", action)
		l.logHandEnd(e)
		return nil
	})
}

// View returns the table as seen by the player holding key.
func (l *Lobby) View(key string) (game.View, error) {
	var view game.View
	err := l.withPlayer(key, func(e *entry, _ int) error {
		view = e.table.ViewFor(key)
		return nil
	})
	return view, err
}

// TableView returns a table as seen by someone not seated at it.
func (l *Lobby) TableView(tableID string) (game.View, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.tables[tableID]
	if !ok {
		return game.View{}, ErrTableNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.table.ViewFor(""), nil
}

// FindPlayer returns the ID of the table the key is seated at, or "".
func (l *Lobby) FindPlayer(key string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.keys[key]
}

// KeysAt returns the identity keys seated at a table.
func (l *Lobby) KeysAt(tableID string) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var keys []string
	for key, id := range l.keys {
		if id == tableID {
			keys = append(keys, key)
		}
	}
	return keys
}

// Close stops every pending turn timer.
func (l *Lobby) Close() {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, e := range l.tables {
		e.mu.Lock()
		e.stopTimer()
		e.mu.Unlock()
	}
}

// withPlayer runs fn with the registry read-locked and the player's table locked.
func (l *Lobby) withPlayer(key string, fn func(e *entry, seat int) error) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	tableID, ok := l.keys[key]
	if !ok {
		return ErrUnknownKey
	}
	e, ok := l.tables[tableID]
	if !ok {
		return ErrTableNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e, e.table.SeatOf(key))
}

// mutate is withPlayer for changes: on success it re-arms the turn timer and
// notifies listeners once every lock is released.
func (l *Lobby) mutate(key string, fn func(e *entry, seat int) error) error {
	var tableID string
	err := l.withPlayer(key, func(e *entry, seat int) error {
		if err := fn(e, seat); err != nil {
			return err
		}
		tableID = e.id
		l.armTimer(e)
		return nil
	})
	if err != nil {
		return err
	}
	l.notify(tableID)
	return nil
}

func (l *Lobby) logHandEnd(e *entry) {
	if e.table.Running() {
		return
	}
	result := e.table.LastResult()
	if result == nil {
		return
	}
	for _, w := range result.Winners {
		l.logger.Info("Pot awarded", "table", e.id, "hand", result.HandNumber, "seat", w.Seat, "player", w.Name, "amount", w.Amount)
	}
}
