package installer

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// TelegramTokenStep collects the Telegram bot token
type TelegramTokenStep struct {
	input textinput.Model
}

func NewTelegramTokenStep() Step {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 40
	ti.Placeholder = "123456789:ABCDEF..."
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'

	return &TelegramTokenStep{
		input: ti,
	}
}

func (s *TelegramTokenStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *TelegramTokenStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if !state.telegramEnabled() {
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if val := strings.TrimSpace(s.input.Value()); val != "" {
			state.Settings.TelegramToken = val
			return nil, nil
		}
	}
	return s, cmd
}

func (s *TelegramTokenStep) View(state *InstallState) string {
	return "Enter your Telegram Bot Token:\n\n" +
		s.input.View() + "\n\n" +
		"(press enter to confirm)\n"
}

// TelegramAllowedStep collects the user IDs allowed to talk to the bot.
type TelegramAllowedStep struct {
	input textinput.Model
	err   string
}

func NewTelegramAllowedStep() Step {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 40
	ti.Placeholder = "123456789,987654321"

	return &TelegramAllowedStep{
		input: ti,
	}
}

func (s *TelegramAllowedStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *TelegramAllowedStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if !state.telegramEnabled() {
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		ids, err := normalizeIDs(s.input.Value())
		if err != nil {
			s.err = err.Error()
			return s, cmd
		}
		if ids == "" {
			s.err = "at least one user ID is required"
			return s, cmd
		}
		state.Settings.TelegramAllowedIDs = ids
		return nil, nil
	}
	return s, cmd
}

func (s *TelegramAllowedStep) View(state *InstallState) string {
	view := "Enter the Telegram user IDs allowed to chat (comma separated, at least one):\n\n" +
		s.input.View() + "\n\n"
	if s.err != "" {
		view += errorStyle.Render(s.err) + "\n\n"
	}
	return view + "(press enter to confirm)\n"
}

// normalizeIDs validates a comma separated id list and strips spaces.
func normalizeIDs(raw string) (string, error) {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, err := strconv.ParseInt(part, 10, 64); err != nil {
			return "", err
		}
		ids = append(ids, part)
	}
	return strings.Join(ids, ","), nil
}
