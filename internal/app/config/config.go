package config

// Config provides read-only access to application configuration.
// This interface abstracts the configuration source (JSON, .env, ENV, defaults)
// and ensures the app layer doesn't depend on infrastructure details.
type Config interface {
	// Storage
	Home() string     // Base directory for deetodo (DEETODO_HOME)
	Backend() string  // json, yaml, sqlite, neo4j or memory (DEETODO_BACKEND)
	DataFile() string // Task list path for file and sqlite backends (DEETODO_DATA_FILE)

	// Behaviour
	Journal() bool       // Record committed transactions (DEETODO_JOURNAL)
	DueSoonDays() int    // Window for "due soon" (DEETODO_DUE_SOON_DAYS)
	StderrLevel() string // Stderr log level (DEETODO_STDERR_LEVEL)

	// Neo4j backend
	Neo4jURI() string
	Neo4jUsername() string
	Neo4jPassword() string
	Neo4jDatabase() string

	// Metadata
	ConfigSource() string // "json", "env" or "default"
	SettingPath() string  // Path to setting.json if loaded from file
}

// AppConfig is the concrete implementation of Config interface.
type AppConfig struct {
	home     string
	backend  string
	dataFile string

	journal     bool
	dueSoonDays int
	stderrLevel string

	neo4jURI      string
	neo4jUsername string
	neo4jPassword string
	neo4jDatabase string

	configSource string
	settingPath  string
}

// Values is the input to NewAppConfig
type Values struct {
	Home          string
	Backend       string
	DataFile      string
	Journal       bool
	DueSoonDays   int
	StderrLevel   string
	Neo4jURI      string
	Neo4jUsername string
	Neo4jPassword string
	Neo4jDatabase string
	ConfigSource  string
	SettingPath   string
}

// NewAppConfig creates a new AppConfig
func NewAppConfig(v Values) *AppConfig {
	return &AppConfig{
		home:          v.Home,
		backend:       v.Backend,
		dataFile:      v.DataFile,
		journal:       v.Journal,
		dueSoonDays:   v.DueSoonDays,
		stderrLevel:   v.StderrLevel,
		neo4jURI:      v.Neo4jURI,
		neo4jUsername: v.Neo4jUsername,
		neo4jPassword: v.Neo4jPassword,
		neo4jDatabase: v.Neo4jDatabase,
		configSource:  v.ConfigSource,
		settingPath:   v.SettingPath,
	}
}

func (c *AppConfig) Home() string          { return c.home }
func (c *AppConfig) Backend() string       { return c.backend }
func (c *AppConfig) DataFile() string      { return c.dataFile }
func (c *AppConfig) Journal() bool         { return c.journal }
func (c *AppConfig) DueSoonDays() int      { return c.dueSoonDays }
func (c *AppConfig) StderrLevel() string   { return c.stderrLevel }
func (c *AppConfig) Neo4jURI() string      { return c.neo4jURI }
func (c *AppConfig) Neo4jUsername() string { return c.neo4jUsername }
func (c *AppConfig) Neo4jPassword() string { return c.neo4jPassword }
func (c *AppConfig) Neo4jDatabase() string { return c.neo4jDatabase }
func (c *AppConfig) ConfigSource() string  { return c.configSource }
func (c *AppConfig) SettingPath() string   { return c.settingPath }
