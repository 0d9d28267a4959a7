package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	mcpserver "github.com/sandevgo/tianbot/internal/transport/mcp"
	"github.com/sandevgo/tianbot/pkg/log"
	"github.com/sandevgo/tianbot/pkg/srv"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the weather and advice tools over MCP stdio",
	Long:  `Runs an MCP server on stdin/stdout. Logs go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLoggerTo(ctx, os.Stderr)
		defer flushLog()

		tk := newToolkit(ctx)

		server, err := mcpserver.NewServer(tk.registry, os.Stdin, os.Stdout)
		if err != nil {
			log.FromCtx(ctx).Fatal().Err(err).Msg("failed to initialize mcp server")
		}
		services := append(tk.services, srv.NewForeground(server, stop))

		srv.StartServices(ctx, services)
		srv.ShutdownServices(ctx, services)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
