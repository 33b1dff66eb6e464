package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"blockflow/internal/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
	if cfg.Diagram.HeaderColor != domain.ColorDeepOrange || cfg.Live.Addr != "localhost:7331" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestLoad_OverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, `
diagram:
  headerText: "Pick one"
  answerColor: lime
  origin: {x: 10, y: 20}
mcp:
  approvalTimeout: 30s
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Diagram.HeaderText != "Pick one" || cfg.Diagram.AnswerColor != domain.ColorLime {
		t.Errorf("diagram section not applied: %+v", cfg.Diagram)
	}
	if cfg.Diagram.Origin != (domain.Point{X: 10, Y: 20}) {
		t.Errorf("expected origin (10,20), got %v", cfg.Diagram.Origin)
	}
	if cfg.Diagram.HeaderColor != domain.ColorDeepOrange {
		t.Errorf("unset key lost its default: %s", cfg.Diagram.HeaderColor)
	}
	if cfg.MCP.ApprovalTimeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %s", cfg.MCP.ApprovalTimeout)
	}

	d := cfg.Diagram.Defaults()
	if d.HeaderText != "Pick one" || d.Origin != cfg.Diagram.Origin {
		t.Errorf("Defaults() mismatch: %+v", d)
	}
}

func TestLoad_RejectsReservedColor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "diagram:\n  headerColor: amber\n")

	_, err := Load(path)
	if !errors.Is(err, domain.ErrUnknownColor) {
		t.Fatalf("expected ErrUnknownColor, got %v", err)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "diagram: [")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "diagram:\n  headerText: first\n")

	got := make(chan Config, 4)
	w, err := Watch(path, func(c Config) {
		select {
		case got <- c:
		default:
		}
	})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	writeFile(t, path, "diagram:\n  headerText: second\n")

	deadline := time.After(3 * time.Second)
	for {
		select {
		case c := <-got:
			if c.Diagram.HeaderText == "second" {
				return
			}
		case <-deadline:
			t.Fatal("no reload within 3s")
		}
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	got := make(chan Config, 1)
	w, err := Watch(path, func(c Config) {
		select {
		case got <- c:
		default:
		}
	})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	writeFile(t, filepath.Join(dir, "other.yaml"), "x: 1\n")

	select {
	case c := <-got:
		t.Fatalf("unexpected reload %+v", c)
	case <-time.After(300 * time.Millisecond):
	}
}
