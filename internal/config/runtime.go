package config

import (
	"os"
	"path/filepath"
)

// GetRuntimePath is usable before .env is loaded, which is where .env lives.
func GetRuntimePath() string {
	return resolveRuntimePath(os.Getenv("TIAN_RUNTIME_PATH"))
}

func resolveRuntimePath(path string) string {
	if path == "" {
		path = ".tianbot"
	}

	if !filepath.IsAbs(path) {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path)
	}
	return path
}
