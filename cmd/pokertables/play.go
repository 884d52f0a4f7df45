package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/pokertables/internal/game"
	"github.com/lox/pokertables/internal/randutil"
	"github.com/lox/pokertables/internal/tui"
)

// PlayCmd runs a local hot-seat table.
type PlayCmd struct {
	Players       []string `short:"p" default:"alice,bob,carol" help:"Comma separated player names, seated in order"`
	Seed          *int64   `help:"Deterministic RNG seed (optional)"`
	MinimalBid    int      `default:"10" help:"Minimum raise"`
	StartingChips int      `default:"100" help:"Chips each player starts with"`
	LogFile       string   `default:"pokertables-play.log" help:"Where to write debug logs while the terminal is in use" type:"path"`
}

func (c *PlayCmd) Run(globals *Globals) error {
	if len(c.Players) < game.MinPlayers {
		return fmt.Errorf("need at least %d players, got %d", game.MinPlayers, len(c.Players))
	}

	logFile, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()

	// The terminal belongs to the table while it runs.
	logger, err := globals.logger("info")
	if err != nil {
		return err
	}
	logger.SetOutput(logFile)
	logger.SetTimeFormat("15:04:05")

	seed := randutil.RandomSeed()
	if c.Seed != nil {
		seed = *c.Seed
	}
	logger.Info("Starting hot-seat table", "players", c.Players, "seed", seed)

	settings := game.DefaultSettings()
	settings.MinimumBid = c.MinimalBid
	settings.StartingChips = c.StartingChips
	settings.SeatCap = len(c.Players)
	table := game.NewTable(settings, game.WithRNG(randutil.New(seed)))

	model, err := tui.NewModel(table, c.Players, logger)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
