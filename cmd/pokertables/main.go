package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command.
type Globals struct {
	LogLevel string `short:"l" help:"Log level (debug, info, warn, error); overrides config" placeholder:"LEVEL"`
	NoColor  bool   `help:"Disable colored output"`
}

type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Show version"`
	Server  ServerCmd        `cmd:"" help:"Run the table server"`
	Play    PlayCmd          `cmd:"" help:"Play a hot-seat table in the terminal"`
	Eval    EvalCmd          `cmd:"" help:"Evaluate seven cards"`
}

// logger builds the root logger. An empty level falls back to fallback.
func (g *Globals) logger(fallback string) (*log.Logger, error) {
	if g.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	name := g.LogLevel
	if name == "" {
		name = fallback
	}
	level, err := log.ParseLevel(name)
	if err != nil {
		return nil, err
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})
	if g.NoColor {
		logger.SetColorProfile(termenv.Ascii)
	}
	return logger, nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pokertables"),
		kong.Description("Multi-table Texas Hold'em server and terminal table"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
