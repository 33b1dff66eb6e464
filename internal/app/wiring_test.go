package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"blockflow/internal/config"
	"blockflow/internal/domain"
	"blockflow/internal/service"
)

func TestNewStore_AppliesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Diagram.HeaderText = "Why?"
	cfg.Diagram.Origin = domain.Point{X: 5, Y: 6}

	store := newStore(context.Background(), cfg, service.NoopEmitter{})
	if err := store.AddBlock("A"); err != nil {
		t.Fatal(err)
	}
	b, _ := store.Block("A")
	if b.Header.Text != "Why?" || b.Position != (domain.Point{X: 5, Y: 6}) {
		t.Errorf("config not applied: %+v", b)
	}
	id, err := store.AddAnswer("A")
	if err != nil {
		t.Fatal(err)
	}
	if len(id) <= len("out-") || id[:4] != "out-" {
		t.Errorf("expected out- prefixed answer id, got %q", id)
	}
}

func TestWatchConfig_UpdatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	store := newStore(context.Background(), config.Default(), service.NoopEmitter{})

	w := watchConfig(path, store, t.Logf)
	if w == nil {
		t.Fatal("expected watcher")
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("diagram:\n  answerText: Maybe\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for store.Defaults().AnswerText != "Maybe" {
		if time.Now().After(deadline) {
			t.Fatal("defaults not reloaded within 3s")
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestWatchConfig_MissingDirectory(t *testing.T) {
	store := newStore(context.Background(), config.Default(), service.NoopEmitter{})
	var warned bool
	w := watchConfig(filepath.Join(t.TempDir(), "missing", "config.yaml"), store, func(string, ...any) { warned = true })
	if w != nil {
		w.Close()
		t.Fatal("expected no watcher for a missing directory")
	}
	if !warned {
		t.Error("expected a warning")
	}
}
