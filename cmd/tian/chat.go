package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/sandevgo/tianbot/internal/transport/cli"
	"github.com/sandevgo/tianbot/pkg/log"
	"github.com/sandevgo/tianbot/pkg/srv"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with 小天 in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		tk := newToolkit(ctx)
		handler := tk.newChat(ctx)

		rl, err := cli.NewReadLine(handler, tk.appCfg)
		if err != nil {
			log.FromCtx(ctx).Fatal().Err(err).Msg("failed to initialize cli")
		}
		services := append(tk.services, srv.NewForeground(rl, stop))

		srv.StartServices(ctx, services)
		srv.ShutdownServices(ctx, services)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
