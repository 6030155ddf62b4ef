package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/petasbytes/moviebot/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve sessions over WebSocket on /ws, with /metrics and /healthz",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(os.Stderr)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return server.New(a.sessions, a.log).Run(ctx, a.cfg.Server.Addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	_ = v.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}
