package app

import (
	"os"
	"path/filepath"
)

// HomeEnv overrides the deetodo home directory
const HomeEnv = "DEETODO_HOME"

// Paths holds all resolved paths under the deetodo home
type Paths struct {
	Home string // ~/.local/share/deetodo

	// Key files
	Setting   string // setting.json
	EnvFile   string // .env
	TasksJSON string // tasks.json
	TasksYAML string // tasks.yaml
	TasksDB   string // tasks.db
	Lock      string // tasks.lock
	Journal   string // journal.ndjson
}

// ResolveHome returns DEETODO_HOME, else $XDG_DATA_HOME/deetodo, else
// ~/.local/share/deetodo, else ./.deetodo when no home directory exists.
func ResolveHome() string {
	if home := os.Getenv(HomeEnv); home != "" {
		return home
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "deetodo")
	}
	if userHome, err := os.UserHomeDir(); err == nil && userHome != "" {
		return filepath.Join(userHome, ".local", "share", "deetodo")
	}
	return ".deetodo"
}

// ResolvePaths returns all paths under home. An empty home uses ResolveHome.
func ResolvePaths(home string) Paths {
	if home == "" {
		home = ResolveHome()
	}
	return Paths{
		Home:      home,
		Setting:   filepath.Join(home, "setting.json"),
		EnvFile:   filepath.Join(home, ".env"),
		TasksJSON: filepath.Join(home, "tasks.json"),
		TasksYAML: filepath.Join(home, "tasks.yaml"),
		TasksDB:   filepath.Join(home, "tasks.db"),
		Lock:      filepath.Join(home, "tasks.lock"),
		Journal:   filepath.Join(home, "journal.ndjson"),
	}
}
