package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"blockflow/internal/domain"
	"blockflow/internal/geometry"
	"blockflow/internal/service"
)

type Config struct {
	Diagram DiagramConfig `yaml:"diagram"`
	MCP     MCPConfig     `yaml:"mcp"`
	Live    LiveConfig    `yaml:"live"`
}

type DiagramConfig struct {
	HeaderText  string       `yaml:"headerText"`
	HeaderColor domain.Color `yaml:"headerColor"`
	AnswerText  string       `yaml:"answerText"`
	AnswerColor domain.Color `yaml:"answerColor"`
	Origin      domain.Point `yaml:"origin"`
	RowGap      float64      `yaml:"rowGap"`
}

type MCPConfig struct {
	ApprovalTimeout time.Duration `yaml:"approvalTimeout"`
}

type LiveConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	d := service.DefaultDiagramDefaults()
	return Config{
		Diagram: DiagramConfig{
			HeaderText:  d.HeaderText,
			HeaderColor: d.HeaderColor,
			AnswerText:  d.AnswerText,
			AnswerColor: d.AnswerColor,
			Origin:      d.Origin,
			RowGap:      geometry.DefaultRowGap,
		},
		MCP:  MCPConfig{ApprovalTimeout: 2 * time.Minute},
		Live: LiveConfig{Addr: "localhost:7331"},
	}
}

// DefaultPath returns ~/.config/blockflow/config.yaml.
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "blockflow", "config.yaml")
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if !c.Diagram.HeaderColor.Valid() {
		return fmt.Errorf("diagram.headerColor: %w: %q", domain.ErrUnknownColor, c.Diagram.HeaderColor)
	}
	if !c.Diagram.AnswerColor.Valid() {
		return fmt.Errorf("diagram.answerColor: %w: %q", domain.ErrUnknownColor, c.Diagram.AnswerColor)
	}
	if c.Diagram.RowGap < 0 {
		return fmt.Errorf("diagram.rowGap must not be negative, got %v", c.Diagram.RowGap)
	}
	if c.MCP.ApprovalTimeout <= 0 {
		return fmt.Errorf("mcp.approvalTimeout must be positive, got %s", c.MCP.ApprovalTimeout)
	}
	return nil
}

// Defaults converts the diagram section for the store.
func (c DiagramConfig) Defaults() service.DiagramDefaults {
	return service.DiagramDefaults{
		HeaderText:  c.HeaderText,
		HeaderColor: c.HeaderColor,
		AnswerText:  c.AnswerText,
		AnswerColor: c.AnswerColor,
		Origin:      c.Origin,
	}
}

// Resolver returns the anchor resolver for the configured row gap.
func (c DiagramConfig) Resolver() geometry.Resolver {
	return geometry.NewResolver(c.RowGap)
}
