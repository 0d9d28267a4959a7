package agent

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/sandevgo/tianbot/internal/core"
	"github.com/sandevgo/tianbot/pkg/log"
)

var (
	jsonBlockRe    = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	genericBlockRe = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
)

var finalActionNames = map[string]struct{}{
	"final answer": {},
	"final_answer": {},
	"final":        {},
}

// ParseAction extracts the first fenced JSON action from a model response.
// A ```json block wins over a bare ``` block. Anything that is not an
// object with a non-empty "action" string and a truthy "action_input"
// is not an action.
func ParseAction(ctx context.Context, text string) (core.Action, bool) {
	m := jsonBlockRe.FindStringSubmatch(text)
	if m == nil {
		m = genericBlockRe.FindStringSubmatch(text)
	}
	if m == nil {
		return core.Action{}, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(m[1]), &fields); err != nil {
		log.FromCtx(ctx).Debug().Err(err).Msg("fenced block is not a json object")
		return core.Action{}, false
	}

	var name string
	if err := json.Unmarshal(fields["action"], &name); err != nil || name == "" {
		log.FromCtx(ctx).Debug().Msg("fenced block has no action name")
		return core.Action{}, false
	}

	input, ok := fields["action_input"]
	if !ok || falsy(input) {
		log.FromCtx(ctx).Debug().Str("action", name).Msg("fenced block has no action input")
		return core.Action{}, false
	}

	kind := core.ActionTool
	if _, final := finalActionNames[strings.ToLower(strings.TrimSpace(name))]; final {
		kind = core.ActionFinal
	}

	return core.Action{Kind: kind, Tool: name, Input: input}, true
}

// FinalText renders a final action's input as reply text. A JSON string is
// unquoted; anything else is returned as its raw JSON.
func FinalText(a core.Action) string {
	var s string
	if err := json.Unmarshal(a.Input, &s); err == nil {
		return s
	}
	return string(a.Input)
}

// falsy reports whether raw is null, false, "" or a zero number.
func falsy(raw json.RawMessage) bool {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return true
	}
	switch v := v.(type) {
	case nil:
		return true
	case bool:
		return !v
	case string:
		return v == ""
	case float64:
		return v == 0
	}
	return false
}
