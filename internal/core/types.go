package core

import "encoding/json"

const (
	BotName          = "TianBot"
	BotUserAgent     = "TianBot-Agent/0.1"
	BotRepositoryURL = "https://github.com/sandevgo/tianbot"
	BotVersion       = "0.1.0"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) String() string {
	return string(r)
}

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type ActionKind int

const (
	// ActionTool asks the agent to invoke a registered tool.
	ActionTool ActionKind = iota + 1
	// ActionFinal carries the reply and ends the turn.
	ActionFinal
)

func (k ActionKind) String() string {
	switch k {
	case ActionTool:
		return "tool"
	case ActionFinal:
		return "final"
	default:
		return "unknown"
	}
}

// Action is a structured step extracted from a model response.
type Action struct {
	Kind  ActionKind
	Tool  string
	Input json.RawMessage
}

func (a Action) IsFinal() bool {
	return a.Kind == ActionFinal
}
