package installer

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandevgo/tianbot/internal/core"
	"github.com/sandevgo/tianbot/internal/providers/llm"
)

type modelLister func(ctx context.Context, state *InstallState) ([]core.Model, error)

// ModelStep lets the user pick one of the models the provider offers.
type ModelStep struct {
	list     list.Model
	lister   modelLister
	loading  bool
	fetching bool // Ensures we only trigger the API call once
	err      error
}

func NewModelStep() Step {
	return newModelStep(listProviderModels)
}

func newModelStep(lister modelLister) *ModelStep {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Select AI Model"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return &ModelStep{
		list:    l,
		lister:  lister,
		loading: true,
	}
}

func listProviderModels(ctx context.Context, state *InstallState) ([]core.Model, error) {
	p, err := llm.Build(state.Settings.LLMProvider, llm.Params{
		BaseURL: state.Settings.LLMBaseURL,
		APIKey:  state.Settings.LLMAPIKey,
	})
	if err != nil {
		return nil, err
	}
	return p.Models(ctx)
}

func (s *ModelStep) Init() tea.Cmd {
	return next
}

func (s *ModelStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	// Trigger fetch once when we enter the step
	if s.loading && !s.fetching {
		s.fetching = true

		return s, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			models, err := s.lister(ctx, state)
			if err != nil {
				return errMsg(err)
			}
			if len(models) == 0 {
				return errMsg(fmt.Errorf("provider returned no models"))
			}

			items := make([]list.Item, 0, len(models))
			for _, mod := range models {
				desc := "ID: " + mod.ID
				if mod.ContextLength > 0 {
					desc = fmt.Sprintf("ID: %s | Context: %d", mod.ID, mod.ContextLength)
				}
				items = append(items, item{id: mod.ID, title: mod.Name, desc: desc})
			}
			return modelsMsg(items)
		}
	}

	s.list.SetSize(width, height-4)

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case modelsMsg:
		s.list.SetItems(msg)
		s.loading = false
		s.fetching = false
		return s, nil

	case errMsg:
		s.loading = false
		s.fetching = false
		s.err = msg
		return s, nil

	case tea.KeyMsg:
		// If there's an error, allow retry with Enter
		if s.err != nil {
			if msg.String() == "enter" {
				s.err = nil
				s.loading = true
				s.fetching = false
			}
			return s, nil
		}

		if msg.String() == "enter" {
			wasFiltering := s.list.FilterState() == list.Filtering
			s.list, cmd = s.list.Update(msg)

			if wasFiltering || s.list.FilterState() == list.Filtering {
				return s, cmd
			}

			if i, ok := s.list.SelectedItem().(item); ok {
				state.Settings.LLMModel = i.id
				return nil, nil
			}
			return s, cmd
		}
	}

	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

func (s *ModelStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error fetching models: %v", s.err)) +
			"\n\nCheck your API key and internet connection.\n\n(press enter to retry, ctrl+c to quit)\n"
	}
	if s.loading {
		return "Fetching models...\n"
	}
	return s.list.View()
}
