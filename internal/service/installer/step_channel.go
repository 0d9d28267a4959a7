package installer

import (
	tea "github.com/charmbracelet/bubbletea"
)

const (
	channelCLI      = "cli"
	channelTelegram = "telegram"
	channelBoth     = "both"
)

// ChannelStep allows selection of the chat channels started by `tian start`.
type ChannelStep struct {
	choices []item
	cursor  int
}

func NewChannelStep() Step {
	return &ChannelStep{
		choices: []item{
			{id: channelCLI, title: "Terminal"},
			{id: channelTelegram, title: "Telegram"},
			{id: channelBoth, title: "Terminal + Telegram"},
		},
	}
}

func (s *ChannelStep) Init() tea.Cmd {
	return nil
}

func (s *ChannelStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.choices)-1 {
				s.cursor++
			}
		case "enter":
			choice := s.choices[s.cursor].id
			cli := choice != channelTelegram
			telegram := choice != channelCLI
			state.Settings.EnableCLI = &cli
			state.Settings.EnableTelegram = &telegram
			return nil, nil
		}
	}
	return s, nil
}

func (s *ChannelStep) View(state *InstallState) string {
	return renderChoices("Select your Chat Channel:", s.choices, s.cursor)
}
