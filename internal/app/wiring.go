package app

import (
	"context"
	"log"

	"blockflow/internal/config"
	"blockflow/internal/service"
)

// newStore builds the diagram store every entry point shares.
func newStore(ctx context.Context, cfg config.Config, emitter service.EventEmitter) *service.DiagramStore {
	defaults := cfg.Diagram.Defaults()
	return service.NewDiagramStore(service.Options{
		Context:   ctx,
		Emitter:   emitter,
		AnswerIDs: service.UUIDGenerator{Prefix: "out-"},
		Defaults:  &defaults,
		Resolver:  cfg.Diagram.Resolver(),
	})
}

// watchConfig pushes reloaded defaults into store. A missing config
// directory only disables hot reload.
func watchConfig(path string, store *service.DiagramStore, warnf func(format string, args ...any)) *config.Watcher {
	if warnf == nil {
		warnf = log.Printf
	}
	w, err := config.Watch(path, func(cfg config.Config) {
		if err := store.SetDefaults(cfg.Diagram.Defaults()); err != nil {
			warnf("[Config] apply defaults: %v", err)
		}
	})
	if err != nil {
		warnf("[Config] hot reload disabled: %v", err)
		return nil
	}
	return w
}
