package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/pokertables/internal/lobby"
	"github.com/lox/pokertables/internal/server"
)

// ServerCmd runs the HTTP and WebSocket server.
type ServerCmd struct {
	Config      string         `short:"c" default:"pokertables.hcl" help:"Path to HCL configuration file" type:"path"`
	Addr        string         `short:"a" help:"Address to bind to (overrides config)"`
	Port        int            `short:"p" help:"Port to listen on (overrides config)"`
	TurnTimeout *time.Duration `help:"Fold players who take longer than this; 0 disables (overrides config)"`
	Seed        *int64         `help:"Deterministic RNG seed for every table (optional)"`
}

func (c *ServerCmd) Run(globals *Globals) error {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	c.applyFlags(cfg, globals)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := globals.logger(cfg.Server.LogLevel)
	if err != nil {
		return err
	}

	opts := []lobby.Option{
		lobby.WithLogger(logger),
		lobby.WithClock(quartz.NewReal()),
		lobby.WithTurnTimeout(cfg.TurnTimeout()),
		lobby.WithBlind(cfg.TableDefaults.Blind),
	}
	if c.Seed != nil {
		logger.Info("Using deterministic seed", "seed", *c.Seed)
		opts = append(opts, lobby.WithSeed(*c.Seed))
	}
	l := lobby.New(opts...)
	defer l.Close()

	srv := server.NewServer(l, logger,
		server.WithAllowedOrigins(cfg.Server.AllowedOrigins...),
		server.WithDefaults(cfg.TableSettings()),
	)

	logger.Info("Starting pokertables server",
		"addr", cfg.Address(),
		"turn_timeout", cfg.TurnTimeout(),
		"blind", cfg.TableDefaults.Blind,
		"minimal_bid", cfg.TableDefaults.MinimumBid,
		"starting_chips", cfg.TableDefaults.StartingChips)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(cfg.Address())
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// applyFlags lets command line flags override the file and environment.
func (c *ServerCmd) applyFlags(cfg *server.Config, globals *Globals) {
	if c.Addr != "" {
		cfg.Server.Address = c.Addr
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}
	if c.TurnTimeout != nil {
		cfg.Server.TurnTimeout = c.TurnTimeout.String()
	}
	if globals.LogLevel != "" {
		cfg.Server.LogLevel = globals.LogLevel
	}
}
