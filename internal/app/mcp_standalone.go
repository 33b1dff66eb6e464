package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"blockflow/internal/config"
	"blockflow/internal/live"
	mcpserver "blockflow/internal/mcp"
	"blockflow/internal/service"
)

// ServeMCP runs the diagram as a standalone MCP server on stdin/stdout with
// no GUI. When liveAddr is set, a websocket hub on that address mirrors the
// diagram and lets its clients answer approval requests.
func ServeMCP(cfgPath string, autoApprove bool, liveAddr string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("[MCP] config: %v (using defaults)", err)
	}

	var emitter service.EventEmitter = service.NoopEmitter{}
	var hub *live.Hub
	if liveAddr != "" {
		hub = live.NewHub()
		emitter = hub
	}

	store := newStore(ctx, cfg, emitter)
	if w := watchConfig(cfgPath, store, nil); w != nil {
		defer w.Close()
	}

	blockIDs := service.UUIDGenerator{Prefix: "blk-"}
	mcpSrv := mcpserver.New(ctx, mcpserver.Deps{
		Store:           store,
		Emitter:         emitter,
		BlockIDs:        blockIDs,
		ApprovalTimeout: cfg.MCP.ApprovalTimeout,
		AutoApprove:     autoApprove,
	})

	if hub != nil {
		hub.Bind(store, blockIDs, mcpSrv)
		srv := &http.Server{Addr: liveAddr, Handler: hub.Handler()}
		go func() {
			log.Printf("[Live] listening on ws://%s/ws", liveAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("[Live] server error: %v", err)
			}
		}()
		defer func() {
			hub.Close()
			srv.Close()
		}()
	} else if !autoApprove {
		log.Println("[MCP] no approval UI attached: destructive tools will time out (use --auto-approve or --live)")
	}

	errCh := make(chan error, 1)
	go func() { errCh <- mcpSrv.ServeStdio() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return nil
	}
}
