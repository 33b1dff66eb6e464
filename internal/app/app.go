package app

import (
	"context"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"blockflow/internal/config"
	"blockflow/internal/domain"
	"blockflow/internal/service"
)

// App is the main Wails application struct.
// All exported methods are available as Wails bindings.
type App struct {
	ctx     context.Context
	cfgPath string

	store    *service.DiagramStore
	blockIDs service.IDGenerator
	watcher  *config.Watcher
}

// New creates a new App reading its config from cfgPath.
func New(cfgPath string) *App {
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	return &App{
		cfgPath:  cfgPath,
		blockIDs: service.UUIDGenerator{Prefix: "blk-"},
	}
}

// Startup is called when the app starts.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx

	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		wailsRuntime.LogErrorf(ctx, "Failed to load config, using defaults: %v", err)
	}

	a.store = newStore(ctx, cfg, wailsEmitter{})
	a.watcher = watchConfig(a.cfgPath, a.store, func(format string, args ...any) {
		wailsRuntime.LogWarningf(ctx, format, args...)
	})
	wailsRuntime.LogInfof(ctx, "Diagram ready (config %s)", a.cfgPath)
}

// Shutdown is called when the app is closing.
func (a *App) Shutdown(ctx context.Context) {
	if a.watcher != nil {
		a.watcher.Close()
	}
}

// wailsEmitter forwards store events to the frontend.
type wailsEmitter struct{}

func (wailsEmitter) Emit(ctx context.Context, event string, data any) {
	wailsRuntime.EventsEmit(ctx, event, data)
}

// ============================================================
// Reads
// ============================================================

// GetDiagram returns the full state; the frontend calls it once on load and
// then follows "diagram:changed".
func (a *App) GetDiagram() domain.DiagramState {
	return a.store.Snapshot()
}

func (a *App) GetPalette() []domain.Color {
	return domain.Palette()
}
