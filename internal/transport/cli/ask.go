package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/sandevgo/tianbot/internal/service/session"
	"github.com/sandevgo/tianbot/pkg/conv"
)

// Ask runs a single question through the handler and prints the answer.
func Ask(ctx context.Context, handler Handler, w io.Writer, question string) error {
	reply, err := handler.Handle(ctx, "ask-"+session.NewID(), question)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, conv.MarkdownToPlainText([]byte(reply)))
	return err
}
