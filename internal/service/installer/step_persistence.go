package installer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandevgo/tianbot/internal/config"
	"github.com/sandevgo/tianbot/pkg/env"
)

const emptyMCPServers = "{\n  \"mcpServers\": {}\n}\n"

// SaveEnvStep writes the collected configuration to .env file
type SaveEnvStep struct {
	dir   string
	err   error
	saved bool
}

func NewSaveEnvStep() Step {
	return &SaveEnvStep{dir: config.GetRuntimePath()}
}

func (s *SaveEnvStep) Init() tea.Cmd {
	return next
}

func (s *SaveEnvStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.saved {
		return nil, nil
	}

	if err := saveEnv(s.dir, &state.Settings); err != nil {
		s.err = err
		return s, nil
	}

	s.saved = true
	return nil, nil // Signal completion
}

func (s *SaveEnvStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if s.saved {
		return "Configuration saved successfully!\n"
	}
	return "Saving configuration...\n"
}

// saveEnv writes settings to dir/.env and refuses to overwrite an existing file.
func saveEnv(dir string, settings *Settings) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create runtime directory: %w", err)
	}

	envPath := filepath.Join(dir, ".env")
	if _, err := os.Stat(envPath); err == nil {
		return fmt.Errorf(".env file already exists at %s", envPath)
	}

	content, err := env.MarshalEnv(settings)
	if err != nil {
		return fmt.Errorf("failed to render settings: %w", err)
	}

	return os.WriteFile(envPath, []byte(content), 0600)
}

// InitializeFilesStep writes an empty external tool server list so users
// have a file to edit.
type InitializeFilesStep struct {
	dir  string
	err  error
	done bool
}

func NewInitializeFilesStep() Step {
	return &InitializeFilesStep{dir: config.GetRuntimePath()}
}

func (s *InitializeFilesStep) Init() tea.Cmd {
	return next
}

func (s *InitializeFilesStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.done {
		return nil, nil
	}

	if err := initFiles(s.dir); err != nil {
		s.err = err
		return s, nil
	}

	s.done = true
	return nil, nil
}

func (s *InitializeFilesStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if s.done {
		return "Runtime files initialized successfully!\n"
	}
	return "Initializing runtime files...\n"
}

func initFiles(dir string) error {
	path := filepath.Join(dir, "mcp_servers.json")
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := os.WriteFile(path, []byte(emptyMCPServers), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
