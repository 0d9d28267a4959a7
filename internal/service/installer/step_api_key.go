package installer

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandevgo/tianbot/internal/config"
)

// APIKeyStep collects the provider API key. Ollama needs none.
type APIKeyStep struct {
	input      textinput.Model
	title      string
	isOptional bool
	started    bool
}

func NewAPIKeyStep() Step {
	return &APIKeyStep{}
}

func (s *APIKeyStep) Init() tea.Cmd {
	return next
}

func (s *APIKeyStep) initProvider(state *InstallState) bool {
	s.input = textinput.New()
	s.input.Focus()
	s.input.CharLimit = 255
	s.input.Width = 40
	s.input.EchoMode = textinput.EchoPassword
	s.input.EchoCharacter = '•'

	switch state.Settings.LLMProvider {
	case config.ProviderDashScope:
		s.title = "DashScope API Key"
		s.input.Placeholder = "sk-..."
	case config.ProviderOpenAI:
		s.title = "OpenAI API Key"
		s.input.Placeholder = "sk-..."
	case config.ProviderAnthropic:
		s.title = "Anthropic API Key"
		s.input.Placeholder = "sk-ant-..."
	case config.ProviderOpenRouter:
		s.title = "OpenRouter API Key"
		s.input.Placeholder = "sk-or-v1-..."
	case config.ProviderCustom:
		s.title = "API Key"
		s.isOptional = true
	default:
		return false
	}
	return true
}

func (s *APIKeyStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if !s.started {
		if !s.initProvider(state) {
			return nil, nil
		}
		s.started = true
		return s, textinput.Blink
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		val := s.input.Value()
		if val == "" && !s.isOptional {
			return s, cmd
		}
		state.Settings.LLMAPIKey = val
		return nil, nil
	}
	return s, cmd
}

func (s *APIKeyStep) View(state *InstallState) string {
	optionalHint := ""
	if s.isOptional {
		optionalHint = " (optional - press Enter to skip)"
	}

	return fmt.Sprintf("Enter your %s%s:\n\n%s\n\n(press enter to confirm)\n",
		s.title, optionalHint, s.input.View())
}
