package main

import (
	"embed"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/menu"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/mac"

	"blockflow/internal/app"
)

//go:embed all:frontend/dist
var assets embed.FS

var version = "dev"

func main() {
	var cfgPath string

	rootCmd := &cobra.Command{
		Use:   "blockflow",
		Short: "Blockflow - question/answer flow editor",
		Long: `Blockflow edits diagrams of question blocks whose answers point to
follow-up blocks. Without a subcommand it opens the desktop editor.`,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDesktop(cfgPath)
		},
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ~/.config/blockflow/config.yaml)")

	rootCmd.AddCommand(newMCPCommand(&cfgPath))
	rootCmd.AddCommand(newServeCommand(&cfgPath))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newMCPCommand(cfgPath *string) *cobra.Command {
	var autoApprove bool
	var liveAddr string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the diagram over MCP on stdin/stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.ServeMCP(*cfgPath, autoApprove, liveAddr)
		},
	}
	cmd.Flags().BoolVar(&autoApprove, "auto-approve", false, "run destructive tools without asking")
	cmd.Flags().StringVar(&liveAddr, "live", "", "also serve a websocket hub on this address")
	return cmd
}

func newServeCommand(cfgPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the diagram to websocket clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.ServeLive(*cfgPath, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default live.addr from config)")
	return cmd
}

func runDesktop(cfgPath string) error {
	desktop := app.New(cfgPath)

	// macOS needs an Edit menu for Cmd+C/V/X/A to reach the WebView
	appMenu := menu.NewMenu()
	appMenu.Append(menu.EditMenu())

	return wails.Run(&options.App{
		Title:     "Blockflow",
		Width:     1280,
		Height:    800,
		MinWidth:  800,
		MinHeight: 600,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 15, G: 15, B: 20, A: 1},
		Menu:             appMenu,
		OnStartup:        desktop.Startup,
		OnShutdown:       desktop.Shutdown,
		Bind: []interface{}{
			desktop,
		},
		Mac: &mac.Options{
			TitleBar: &mac.TitleBar{
				TitlebarAppearsTransparent: true,
				HideTitle:                  true,
				FullSizeContent:            true,
			},
			About: &mac.AboutInfo{
				Title:   "Blockflow",
				Message: "Question and answer flow editor",
			},
		},
	})
}
