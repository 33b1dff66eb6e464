package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blockflow/internal/config"
	"blockflow/internal/live"
	"blockflow/internal/service"
)

// ServeLive runs the diagram headless behind a websocket endpoint until
// interrupted. An empty addr uses live.addr from the config.
func ServeLive(cfgPath, addr string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("[Live] config: %v (using defaults)", err)
	}
	if addr == "" {
		addr = cfg.Live.Addr
	}

	hub := live.NewHub()
	store := newStore(ctx, cfg, hub)
	hub.Bind(store, service.UUIDGenerator{Prefix: "blk-"}, nil)
	if w := watchConfig(cfgPath, store, nil); w != nil {
		defer w.Close()
	}

	srv := &http.Server{Addr: addr, Handler: hub.Handler()}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Live] listening on ws://%s/ws", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Println("[Live] shutting down...")
	hub.Close()
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	return srv.Shutdown(shutdownCtx)
}
