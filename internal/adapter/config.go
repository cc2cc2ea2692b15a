package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mmcdole/zapper/internal/domain"
)

// Config holds all application configuration
type Config struct {
	Player      PlayerConfig      `mapstructure:"player"`
	Preferences PreferencesConfig `mapstructure:"preferences"`
	UI          UIConfig          `mapstructure:"ui"`
	Fetch       FetchConfig       `mapstructure:"fetch"`
	Checker     CheckerConfig     `mapstructure:"checker"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Sources     []domain.Source   `mapstructure:"sources"`
}

// PlayerConfig holds media player configuration
type PlayerConfig struct {
	Command string   `mapstructure:"command"` // empty = auto-detect
	Args    []string `mapstructure:"args"`
}

// PreferencesConfig holds user preferences
type PreferencesConfig struct {
	DefaultSource string `mapstructure:"default_source"` // source opened when none is given
	DataDir       string `mapstructure:"data_dir"`       // bolt store location, empty = memory only
}

// UIConfig holds UI configuration
type UIConfig struct {
	Theme          string        `mapstructure:"theme"`
	GridColumns    int           `mapstructure:"grid_columns"`
	ScrollCooldown time.Duration `mapstructure:"scroll_cooldown"`
	WelcomeDelay   time.Duration `mapstructure:"welcome_delay"`
}

// FetchConfig controls playlist downloads
type FetchConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// CheckerConfig controls the channel checker
type CheckerConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	Workers       int           `mapstructure:"workers"`
	VerifyTLS     bool          `mapstructure:"verify_tls"`
	RatePerSecond float64       `mapstructure:"rate_per_second"` // 0 = unlimited
	UserAgent     string        `mapstructure:"user_agent"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Player: PlayerConfig{
			Command: "",
			Args:    []string{},
		},
		Preferences: PreferencesConfig{
			DefaultSource: "mexico",
			DataDir:       defaultDataPath(),
		},
		UI: UIConfig{
			Theme:          "default",
			GridColumns:    5,
			ScrollCooldown: 100 * time.Millisecond,
			WelcomeDelay:   2 * time.Second,
		},
		Fetch: FetchConfig{
			Timeout:   30 * time.Second,
			UserAgent: "zapper",
		},
		Checker: CheckerConfig{
			Timeout:   3 * time.Second,
			Workers:   30,
			VerifyTLS: false,
			UserAgent: browserUserAgent,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
		Sources: DefaultSources(),
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "zapper", "zapper.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "zapper", "zapper.log")
	}
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "zapper")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "zapper")
	}
}

// defaultDataPath returns the default directory of the preference store
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "zapper")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "zapper")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	return loadConfig(viper.New(), defaultConfigPath(), ".")
}

func loadConfig(v *viper.Viper, paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	// Environment variable overrides (ZAPPER_PREFERENCES_DEFAULT_SOURCE, ...).
	// AutomaticEnv only resolves keys viper knows, hence the defaults.
	v.SetEnvPrefix("ZAPPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("player.command", cfg.Player.Command)
	v.SetDefault("preferences.default_source", cfg.Preferences.DefaultSource)
	v.SetDefault("preferences.data_dir", cfg.Preferences.DataDir)
	v.SetDefault("ui.grid_columns", cfg.UI.GridColumns)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	cfg.Sources = nil
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if len(cfg.Sources) == 0 {
		cfg.Sources = DefaultSources()
	}
	for i := range cfg.Sources {
		cfg.Sources[i].Key = domain.NormalizeSourceKey(cfg.Sources[i].Key)
	}
	if cfg.UI.GridColumns < 1 {
		cfg.UI.GridColumns = 5
	}
	if cfg.Checker.Workers < 1 {
		cfg.Checker.Workers = 1
	}

	return cfg, nil
}

// SaveConfig writes the current configuration to the default config file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return writeConfig(viper.New(), cfg, filepath.Join(configPath, "config.yaml"))
}

func writeConfig(v *viper.Viper, cfg *Config, configFile string) error {
	// Set fields individually to ensure correct key names (snake_case)
	v.Set("player.command", cfg.Player.Command)
	v.Set("player.args", cfg.Player.Args)

	v.Set("preferences.default_source", cfg.Preferences.DefaultSource)
	v.Set("preferences.data_dir", cfg.Preferences.DataDir)

	v.Set("ui.theme", cfg.UI.Theme)
	v.Set("ui.grid_columns", cfg.UI.GridColumns)
	v.Set("ui.scroll_cooldown", cfg.UI.ScrollCooldown.String())
	v.Set("ui.welcome_delay", cfg.UI.WelcomeDelay.String())

	v.Set("fetch.timeout", cfg.Fetch.Timeout.String())
	v.Set("fetch.user_agent", cfg.Fetch.UserAgent)

	v.Set("checker.timeout", cfg.Checker.Timeout.String())
	v.Set("checker.workers", cfg.Checker.Workers)
	v.Set("checker.verify_tls", cfg.Checker.VerifyTLS)
	v.Set("checker.rate_per_second", cfg.Checker.RatePerSecond)
	v.Set("checker.user_agent", cfg.Checker.UserAgent)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	sources := make([]map[string]string, len(cfg.Sources))
	for i, s := range cfg.Sources {
		sources[i] = map[string]string{"key": s.Key, "name": s.Name, "url": s.URL, "kind": string(s.Kind)}
	}
	v.Set("sources", sources)

	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// FindSource looks up a source by key (case-insensitive)
func (c *Config) FindSource(key string) (domain.Source, bool) {
	key = domain.NormalizeSourceKey(key)
	for _, s := range c.Sources {
		if s.Key == key {
			return s, true
		}
	}
	return domain.Source{}, false
}
