package main

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandevgo/tianbot/internal/transport/cli"
)

var askCmd = &cobra.Command{
	Use:          "ask <question>",
	Short:        "Ask a single question and print the answer",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLoggerTo(cmd.Context(), os.Stderr)
		defer flushLog()

		tk := newToolkit(ctx)
		defer tk.close(context.WithoutCancel(ctx))

		return cli.Ask(ctx, tk.newChat(ctx), cmd.OutOrStdout(), strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
