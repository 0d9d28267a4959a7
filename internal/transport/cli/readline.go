package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/sandevgo/tianbot/internal/config"
	"github.com/sandevgo/tianbot/internal/service/agent"
	"github.com/sandevgo/tianbot/internal/service/session"
	"github.com/sandevgo/tianbot/internal/service/ui"
	"github.com/sandevgo/tianbot/pkg/conv"
	"github.com/sandevgo/tianbot/pkg/log"
)

type Handler interface {
	Handle(ctx context.Context, sessionID, text string) (string, error)
}

type ReadLine struct {
	handler   Handler
	rl        *readline.Instance
	sessionID string
}

func NewReadLine(handler Handler, cfg *config.AppConfig) (*ReadLine, error) {
	// Ensure runtime directory exists
	if err := os.MkdirAll(cfg.RuntimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "🌤  ",
		HistoryFile:     cfg.GetHistoryPath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		handler:   handler,
		rl:        rl,
		sessionID: "cli-" + session.NewID(),
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("ReadLine chat started. Type 'exit' to quit.")

	out := r.rl.Stdout()
	ctx = agent.ContextWithObserver(ctx, func(s agent.Step) {
		printStep(out, s)
	})

	for {
		// Check context before blocking read
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					return nil // Exit on Ctrl+C
				}
				continue
			} else if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" {
			return nil
		}
		if line == "" {
			continue
		}

		reply, err := r.handler.Handle(ctx, r.sessionID, line)
		if err != nil {
			logger.Error().Err(err).Msg("chat turn failed")
			fmt.Fprintln(out, ui.ErrorStyle.Render(fmt.Sprintf("Error: %v", err)))
			continue
		}
		fmt.Fprintf(out, "%s\n\n", conv.MarkdownToPlainText([]byte(reply)))
	}
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}

// printStep shows tool calls as they happen, dimmed.
func printStep(w io.Writer, s agent.Step) {
	if s.State != agent.StateAwaitingObservation || s.Action == nil {
		return
	}
	fmt.Fprintln(w, ui.DescStyle.Render(fmt.Sprintf("  › %s %s", s.Action.Tool, string(s.Action.Input))))
}
