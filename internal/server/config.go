package server

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/joeshaw/envdecode"

	"github.com/lox/pokertables/internal/game"
	"github.com/lox/pokertables/internal/lobby"
)

// Config represents the complete server configuration
type Config struct {
	Server        ServerSettings
	TableDefaults TableDefaults
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address        string   `hcl:"address,optional"`
	Port           int      `hcl:"port,optional"`
	LogLevel       string   `hcl:"log_level,optional"`
	TurnTimeout    string   `hcl:"turn_timeout,optional"`
	AllowedOrigins []string `hcl:"allowed_origins,optional"`
}

// TableDefaults fills in whatever a host leaves out when creating a table.
type TableDefaults struct {
	Name          string `hcl:"name,optional"`
	MinimumBid    int    `hcl:"minimum_bid,optional"`
	SeatCap       int    `hcl:"seat_cap,optional"`
	StartingChips int    `hcl:"starting_chips,optional"`
	Blind         int    `hcl:"blind,optional"`
}

// fileConfig mirrors Config with optional blocks.
type fileConfig struct {
	Server        *ServerSettings `hcl:"server,block"`
	TableDefaults *TableDefaults  `hcl:"table_defaults,block"`
}

// envOverrides are applied on top of the file.
type envOverrides struct {
	Address     string `env:"POKERTABLES_ADDRESS"`
	Port        int    `env:"POKERTABLES_PORT"`
	LogLevel    string `env:"POKERTABLES_LOG_LEVEL"`
	TurnTimeout string `env:"POKERTABLES_TURN_TIMEOUT"`
}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	settings := game.DefaultSettings()
	return &Config{
		Server: ServerSettings{
			Address:        "0.0.0.0",
			Port:           3000,
			LogLevel:       "info",
			TurnTimeout:    "30s",
			AllowedOrigins: []string{"*"},
		},
		TableDefaults: TableDefaults{
			Name:          settings.Name,
			MinimumBid:    settings.MinimumBid,
			SeatCap:       settings.SeatCap,
			StartingChips: settings.StartingChips,
			Blind:         game.DefaultBlind,
		},
	}
}

// LoadConfig loads configuration from an HCL file. A missing file yields the
// defaults.
func LoadConfig(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(src, filename)
}

// ParseConfig decodes HCL source and applies defaults for missing values.
func ParseConfig(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var fc fileConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &fc); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config := DefaultConfig()
	if s := fc.Server; s != nil {
		config.Server.Address = orString(s.Address, config.Server.Address)
		config.Server.Port = orInt(s.Port, config.Server.Port)
		config.Server.LogLevel = orString(s.LogLevel, config.Server.LogLevel)
		config.Server.TurnTimeout = orString(s.TurnTimeout, config.Server.TurnTimeout)
		if s.AllowedOrigins != nil {
			config.Server.AllowedOrigins = s.AllowedOrigins
		}
	}
	if td := fc.TableDefaults; td != nil {
		config.TableDefaults.Name = orString(td.Name, config.TableDefaults.Name)
		config.TableDefaults.MinimumBid = orInt(td.MinimumBid, config.TableDefaults.MinimumBid)
		config.TableDefaults.SeatCap = orInt(td.SeatCap, config.TableDefaults.SeatCap)
		config.TableDefaults.StartingChips = orInt(td.StartingChips, config.TableDefaults.StartingChips)
		config.TableDefaults.Blind = orInt(td.Blind, config.TableDefaults.Blind)
	}
	return config, nil
}

// ApplyEnv overrides settings from POKERTABLES_* environment variables.
func (c *Config) ApplyEnv() error {
	var env envOverrides
	if err := envdecode.Decode(&env); err != nil {
		if errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
			return nil
		}
		return fmt.Errorf("failed to read environment: %w", err)
	}
	c.Server.Address = orString(env.Address, c.Server.Address)
	c.Server.Port = orInt(env.Port, c.Server.Port)
	c.Server.LogLevel = orString(env.LogLevel, c.Server.LogLevel)
	c.Server.TurnTimeout = orString(env.TurnTimeout, c.Server.TurnTimeout)
	return nil
}

// Validate validates the server configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if _, err := log.ParseLevel(c.Server.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.Server.LogLevel)
	}
	timeout, err := time.ParseDuration(c.Server.TurnTimeout)
	if err != nil {
		return fmt.Errorf("invalid turn_timeout %q: %w", c.Server.TurnTimeout, err)
	}
	if timeout < 0 {
		return fmt.Errorf("turn_timeout must not be negative")
	}
	if c.TableDefaults.Blind <= 0 {
		return fmt.Errorf("blind must be positive")
	}
	if err := lobby.ValidateSettings(c.TableSettings()); err != nil {
		return fmt.Errorf("table_defaults: %w", err)
	}
	return nil
}

// Address returns the listen address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// TurnTimeout returns the parsed turn timeout. Call Validate first.
func (c *Config) TurnTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.TurnTimeout)
	return d
}

// TableSettings returns the defaults as table settings.
func (c *Config) TableSettings() game.Settings {
	return game.Settings{
		Name:          c.TableDefaults.Name,
		MinimumBid:    c.TableDefaults.MinimumBid,
		SeatCap:       c.TableDefaults.SeatCap,
		StartingChips: c.TableDefaults.StartingChips,
	}
}

func orString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func orInt(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}
