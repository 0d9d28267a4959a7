package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sandevgo/tianbot/internal/core"
	"github.com/sandevgo/tianbot/internal/providers/tools"
	"github.com/sandevgo/tianbot/pkg/log"
)

const (
	DefaultMaxSteps = 10
	// TimeoutReply is returned when the step budget runs out.
	TimeoutReply      = "抱歉，我处理这个问题有点超时了，请再试一次。"
	observationPrefix = "Observation: "
)

var ErrToolFailures = errors.New("too many consecutive tool failures")

type Invoker interface {
	Invoke(ctx context.Context, name string, args json.RawMessage) tools.Outcome
}

type State int

const (
	StateThinking State = iota + 1
	StateAwaitingObservation
	StateDone
)

func (s State) String() string {
	switch s {
	case StateThinking:
		return "thinking"
	case StateAwaitingObservation:
		return "awaiting_observation"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Step is reported after every model response and every observation.
type Step struct {
	Index       int
	State       State
	Response    string
	Action      *core.Action
	Observation string
}

type Config struct {
	MaxSteps              int
	FailureThreshold      int // consecutive failed tool outcomes; 0 disables
	ObservationTokenLimit int
}

type Agent struct {
	ai           core.AIProvider
	exec         *Executor
	systemPrompt string
	cfg          Config
	onStep       func(Step)
}

type Option func(*Agent)

func WithOnStep(fn func(Step)) Option {
	return func(a *Agent) { a.onStep = fn }
}

type observerKey struct{}

// ContextWithObserver attaches a per-turn step callback. Transports use it
// to show progress for the request they are serving.
func ContextWithObserver(ctx context.Context, fn func(Step)) context.Context {
	return context.WithValue(ctx, observerKey{}, fn)
}

func NewAgent(ai core.AIProvider, registry *tools.Registry, cfg Config, opts ...Option) *Agent {
	return newAgent(ai, registry, BuildSystemPrompt(registry.Describe()), cfg, opts...)
}

func newAgent(ai core.AIProvider, invoker Invoker, systemPrompt string, cfg Config, opts ...Option) *Agent {
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultMaxSteps
	}
	a := &Agent{
		ai:           ai,
		exec:         NewExecutor(invoker, cfg.ObservationTokenLimit),
		systemPrompt: systemPrompt,
		cfg:          cfg,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RunTurn answers one user utterance. history is read, never modified. A
// model failure aborts the turn with an error; tool trouble does not,
// unless FailureThreshold is set and reached.
func (a *Agent) RunTurn(ctx context.Context, utterance string, history []core.Message) (string, error) {
	logger := log.FromCtx(ctx)

	transcript := make([]core.Message, 0, len(history)+2+2*a.cfg.MaxSteps)
	transcript = append(transcript, core.Message{Role: core.RoleSystem, Content: a.systemPrompt})
	transcript = append(transcript, history...)
	transcript = append(transcript, core.Message{Role: core.RoleUser, Content: utterance})

	failures := 0
	for step := 1; step <= a.cfg.MaxSteps; step++ {
		resp, err := a.ai.Chat(ctx, transcript)
		if err != nil {
			return "", fmt.Errorf("ai chat error: %w", err)
		}
		content := resp.Content
		logger.Debug().Int("step", step).Str("response", content).Msg("model responded")

		action, ok := ParseAction(ctx, content)
		if !ok {
			a.emit(ctx, Step{Index: step, State: StateDone, Response: content})
			return content, nil
		}
		if action.IsFinal() {
			a.emit(ctx, Step{Index: step, State: StateDone, Response: content, Action: &action})
			return FinalText(action), nil
		}

		a.emit(ctx, Step{Index: step, State: StateAwaitingObservation, Response: content, Action: &action})
		logger.Info().Int("step", step).Str("tool", action.Tool).Msg("executing tool")

		out, observation := a.exec.Execute(ctx, action)
		if out.Failed() {
			failures++
			logger.Warn().Err(out.Err).Str("tool", action.Tool).Int("consecutive", failures).Msg("tool failed")
			if a.cfg.FailureThreshold > 0 && failures >= a.cfg.FailureThreshold {
				return "", fmt.Errorf("%w: %w", ErrToolFailures, out.Err)
			}
		} else {
			failures = 0
		}

		transcript = append(transcript,
			core.Message{Role: core.RoleAssistant, Content: content},
			core.Message{Role: core.RoleUser, Content: observationPrefix + observation},
		)
		a.emit(ctx, Step{Index: step, State: StateThinking, Action: &action, Observation: observation})
	}

	logger.Warn().Int("max_steps", a.cfg.MaxSteps).Msg("step budget exhausted")
	return TimeoutReply, nil
}

func (a *Agent) emit(ctx context.Context, s Step) {
	if a.onStep != nil {
		a.onStep(s)
	}
	if fn, ok := ctx.Value(observerKey{}).(func(Step)); ok && fn != nil {
		fn(s)
	}
}
