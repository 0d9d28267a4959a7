package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"

	"github.com/sandevgo/tianbot/internal/core"
	"github.com/sandevgo/tianbot/internal/providers/tools"
	"github.com/sandevgo/tianbot/pkg/log"
)

const DefaultObservationTokens = 1500

type tokenizer interface {
	Encode(text string, allowedSpecial []string, disallowedSpecial []string) []int
	Decode(tokens []int) string
}

// Executor runs actions against the tool set and keeps observations small
// enough to feed back into the transcript.
type Executor struct {
	tools Invoker
	limit int

	tkOnce sync.Once
	tk     tokenizer
	loadTk func() (tokenizer, error)
}

func NewExecutor(invoker Invoker, tokenLimit int) *Executor {
	if tokenLimit <= 0 {
		tokenLimit = DefaultObservationTokens
	}
	return &Executor{
		tools: invoker,
		limit: tokenLimit,
		loadTk: func() (tokenizer, error) {
			return tiktoken.GetEncoding("cl100k_base")
		},
	}
}

// Execute invokes the action's tool and returns the outcome together with
// the observation text.
func (e *Executor) Execute(ctx context.Context, action core.Action) (tools.Outcome, string) {
	out := e.tools.Invoke(ctx, action.Tool, action.Input)
	return out, e.truncate(ctx, out.Observation())
}

func (e *Executor) tokenizer(ctx context.Context) tokenizer {
	e.tkOnce.Do(func() {
		tk, err := e.loadTk()
		if err != nil {
			log.FromCtx(ctx).Warn().Err(err).Msg("tokenizer unavailable, truncating by bytes")
			return
		}
		e.tk = tk
	})
	return e.tk
}

func (e *Executor) truncate(ctx context.Context, input string) string {
	// a token is never shorter than one byte
	if len(input) <= e.limit {
		return input
	}

	headShare := e.limit / 4

	tk := e.tokenizer(ctx)
	if tk == nil {
		head := input[:runeStart(input, headShare)]
		tail := input[runeStart(input, len(input)-(e.limit-headShare)):]
		return fmt.Sprintf("%s\n\n... [TRUNCATED %d bytes] ...\n\n%s", head, len(input)-len(head)-len(tail), tail)
	}

	ids := tk.Encode(input, nil, nil)
	if len(ids) <= e.limit {
		return input
	}

	head := strings.ToValidUTF8(tk.Decode(ids[:headShare]), "")
	tail := strings.ToValidUTF8(tk.Decode(ids[len(ids)-(e.limit-headShare):]), "")
	return fmt.Sprintf("%s\n\n... [TRUNCATED %d tokens] ...\n\n%s", head, len(ids)-e.limit, tail)
}

// runeStart moves i back to the start of the rune containing it.
func runeStart(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}
