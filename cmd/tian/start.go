package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/sandevgo/tianbot/internal/config"
	"github.com/sandevgo/tianbot/internal/transport/cli"
	"github.com/sandevgo/tianbot/internal/transport/telegram"
	"github.com/sandevgo/tianbot/pkg/log"
	"github.com/sandevgo/tianbot/pkg/srv"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the TianBot services",
	Long:  `Initializes and starts all configured transports (Telegram, CLI) and background workers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting tianbot")

		tk := newToolkit(ctx)
		handler := tk.newChat(ctx)
		services := tk.services

		if tk.appCfg.EnableTelegram {
			bot, err := telegram.NewBot(ctx, config.NewTelegramConfig(ctx), handler)
			if err != nil {
				logger.Fatal().Err(err).Msg("failed to initialize telegram bot")
			}
			services = append(services, bot)
		}

		if tk.appCfg.EnableCLI {
			rl, err := cli.NewReadLine(handler, tk.appCfg)
			if err != nil {
				logger.Fatal().Err(err).Msg("failed to initialize cli")
			}
			services = append(services, srv.NewForeground(rl, stop))
		}

		srv.StartServices(ctx, services)
		srv.ShutdownServices(ctx, services)
		logger.Info().Msg("tianbot has been shut down gracefully")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
