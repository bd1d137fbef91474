package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/YoshitsuguKoike/deetodo/internal/app/config"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/repository"
)

// RawSettings represents the structure of setting.json file.
// Pointer fields distinguish "absent" from zero values.
type RawSettings struct {
	// Storage
	Backend  *string `json:"backend"`
	DataFile *string `json:"data_file"`

	// Behaviour
	Journal     *bool   `json:"journal"`
	DueSoonDays *int    `json:"due_soon_days"`
	StderrLevel *string `json:"stderr_level"`

	// Neo4j backend
	Neo4jURI      *string `json:"neo4j_uri"`
	Neo4jUsername *string `json:"neo4j_username"`
	Neo4jPassword *string `json:"neo4j_password"`
	Neo4jDatabase *string `json:"neo4j_database"`
}

// Environment keys, read from <home>/.env and the process environment
const (
	EnvBackend       = "DEETODO_BACKEND"
	EnvDataFile      = "DEETODO_DATA_FILE"
	EnvJournal       = "DEETODO_JOURNAL"
	EnvDueSoonDays   = "DEETODO_DUE_SOON_DAYS"
	EnvStderrLevel   = "DEETODO_STDERR_LEVEL"
	EnvNeo4jURI      = "DEETODO_NEO4J_URI"
	EnvNeo4jUsername = "DEETODO_NEO4J_USERNAME"
	EnvNeo4jPassword = "DEETODO_NEO4J_PASSWORD"
	EnvNeo4jDatabase = "DEETODO_NEO4J_DATABASE"
)

// LoadSettings loads configuration for the deetodo home baseDir.
// Priority: process environment > <home>/.env > setting.json > defaults
func LoadSettings(baseDir string) (*config.AppConfig, error) {
	settings := &RawSettings{}
	configSource := "default"
	settingPath := ""

	jsonPath := filepath.Join(baseDir, "setting.json")
	if data, err := os.ReadFile(jsonPath); err == nil {
		if err := json.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", jsonPath, err)
		}
		configSource = "json"
		settingPath = jsonPath
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", jsonPath, err)
	}

	dotenv, err := godotenv.Read(filepath.Join(baseDir, ".env"))
	if err != nil {
		dotenv = map[string]string{}
	}
	lookup := func(key string) (string, bool) {
		if v := os.Getenv(key); v != "" {
			return v, true
		}
		if v, ok := dotenv[key]; ok && v != "" {
			return v, true
		}
		return "", false
	}
	overridden, err := applyEnv(settings, lookup)
	if err != nil {
		return nil, err
	}
	if overridden {
		configSource = "env"
	}

	applyDefaults(settings)

	if err := validate(settings); err != nil {
		return nil, err
	}

	return buildAppConfig(baseDir, settings, configSource, settingPath), nil
}

// applyEnv overlays environment values on settings and reports whether any applied
func applyEnv(settings *RawSettings, lookup func(string) (string, bool)) (bool, error) {
	applied := false
	str := func(key string, dst **string) {
		if v, ok := lookup(key); ok {
			*dst = &v
			applied = true
		}
	}

	str(EnvBackend, &settings.Backend)
	str(EnvDataFile, &settings.DataFile)
	str(EnvStderrLevel, &settings.StderrLevel)
	str(EnvNeo4jURI, &settings.Neo4jURI)
	str(EnvNeo4jUsername, &settings.Neo4jUsername)
	str(EnvNeo4jPassword, &settings.Neo4jPassword)
	str(EnvNeo4jDatabase, &settings.Neo4jDatabase)

	if v, ok := lookup(EnvJournal); ok {
		b := toBool(v)
		settings.Journal = &b
		applied = true
	}
	if v, ok := lookup(EnvDueSoonDays); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return false, fmt.Errorf("%s must be an integer: %w", EnvDueSoonDays, err)
		}
		settings.DueSoonDays = &n
		applied = true
	}
	return applied, nil
}

// applyDefaults fills in default values for any nil fields
func applyDefaults(settings *RawSettings) {
	if settings.Backend == nil {
		v := "json"
		settings.Backend = &v
	}
	if settings.DataFile == nil {
		v := ""
		settings.DataFile = &v
	}
	if settings.Journal == nil {
		v := true
		settings.Journal = &v
	}
	if settings.DueSoonDays == nil {
		v := 7
		settings.DueSoonDays = &v
	}
	if settings.StderrLevel == nil {
		v := "warn"
		settings.StderrLevel = &v
	}

	if settings.Neo4jURI == nil {
		v := "neo4j://localhost:7687"
		settings.Neo4jURI = &v
	}
	if settings.Neo4jUsername == nil {
		v := "neo4j"
		settings.Neo4jUsername = &v
	}
	if settings.Neo4jPassword == nil {
		v := ""
		settings.Neo4jPassword = &v
	}
	if settings.Neo4jDatabase == nil {
		v := "neo4j"
		settings.Neo4jDatabase = &v
	}
}

func validate(settings *RawSettings) error {
	if !repository.Backend(strings.ToLower(*settings.Backend)).IsValid() {
		return fmt.Errorf("unknown backend %q (expected json, yaml, sqlite, neo4j or memory)", *settings.Backend)
	}
	if *settings.DueSoonDays < 0 {
		return fmt.Errorf("due_soon_days must not be negative, got %d", *settings.DueSoonDays)
	}
	return nil
}

// buildAppConfig converts RawSettings to AppConfig
func buildAppConfig(home string, settings *RawSettings, configSource, settingPath string) *config.AppConfig {
	return config.NewAppConfig(config.Values{
		Home:          home,
		Backend:       strings.ToLower(*settings.Backend),
		DataFile:      *settings.DataFile,
		Journal:       *settings.Journal,
		DueSoonDays:   *settings.DueSoonDays,
		StderrLevel:   *settings.StderrLevel,
		Neo4jURI:      *settings.Neo4jURI,
		Neo4jUsername: *settings.Neo4jUsername,
		Neo4jPassword: *settings.Neo4jPassword,
		Neo4jDatabase: *settings.Neo4jDatabase,
		ConfigSource:  configSource,
		SettingPath:   settingPath,
	})
}

// toBool converts various string representations to boolean
func toBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// CreateDefaultSettings creates a default setting.json content
func CreateDefaultSettings() []byte {
	settings := &RawSettings{}
	applyDefaults(settings)

	data, _ := json.MarshalIndent(settings, "", "  ")
	return data
}
