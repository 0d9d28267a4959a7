package installer

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandevgo/tianbot/internal/config"
	"github.com/sandevgo/tianbot/internal/providers/llm"
)

// BaseURLStep asks where a self-hosted or custom provider lives.
// Hosted providers skip it.
type BaseURLStep struct {
	input   textinput.Model
	started bool
}

func NewBaseURLStep() Step {
	ti := textinput.New()
	ti.Focus()
	ti.Width = 50
	return &BaseURLStep{input: ti}
}

func (s *BaseURLStep) Init() tea.Cmd { return next }

func (s *BaseURLStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if !s.started {
		switch state.Settings.LLMProvider {
		case config.ProviderOllama:
			s.input.Placeholder = llm.OllamaBaseURL
		case config.ProviderCustom:
			s.input.Placeholder = "https://api.example.com"
		default:
			return nil, nil
		}
		s.started = true
		return s, textinput.Blink
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		val := strings.TrimSpace(s.input.Value())
		if val == "" && state.Settings.LLMProvider == config.ProviderOllama {
			val = s.input.Placeholder
		}
		if val != "" {
			state.Settings.LLMBaseURL = val
			return nil, nil
		}
	}
	return s, cmd
}

func (s *BaseURLStep) View(state *InstallState) string {
	return "Enter the provider base URL:\n\n" + s.input.View() + "\n\n(press enter to confirm)\n"
}
