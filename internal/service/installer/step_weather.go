package installer

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// QWeatherStep collects the QWeather API host, then the key.
type QWeatherStep struct {
	host   textinput.Model
	key    textinput.Model
	onHost bool
}

func NewQWeatherStep() Step {
	host := textinput.New()
	host.Focus()
	host.Width = 50
	host.Placeholder = "xxxxxx.qweatherapi.com"

	key := textinput.New()
	key.Width = 40
	key.EchoMode = textinput.EchoPassword
	key.EchoCharacter = '•'

	return &QWeatherStep{host: host, key: key, onHost: true}
}

func (s *QWeatherStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *QWeatherStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	var cmd tea.Cmd
	if s.onHost {
		s.host, cmd = s.host.Update(msg)
	} else {
		s.key, cmd = s.key.Update(msg)
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok || key.String() != "enter" {
		return s, cmd
	}

	if s.onHost {
		if val := strings.TrimSpace(s.host.Value()); val != "" {
			state.Settings.QWeatherHost = val
			s.onHost = false
			s.host.Blur()
			return s, s.key.Focus()
		}
		return s, cmd
	}

	if val := strings.TrimSpace(s.key.Value()); val != "" {
		state.Settings.QWeatherKey = val
		return nil, nil
	}
	return s, cmd
}

func (s *QWeatherStep) View(state *InstallState) string {
	if s.onHost {
		return "Enter your QWeather API Host (from the QWeather console):\n\n" +
			s.host.View() + "\n\n(press enter to confirm)\n"
	}
	return "Enter your QWeather API Key:\n\n" + s.key.View() + "\n\n(press enter to confirm)\n"
}
