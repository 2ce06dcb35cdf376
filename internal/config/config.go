package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jask/mapedit/internal/input"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Log      LogConfig
	Editor   EditorConfig
	Sim      SimConfig
	UI       UIConfig
	Keys     []input.Override
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// LogConfig says where logs go. The terminal belongs to the TUI, so the
// default is a file.
type LogConfig struct {
	Path  string
	Level string
}

// EditorConfig selects the map and the tool set.
type EditorConfig struct {
	Map           string
	DebugControls bool   `mapstructure:"debug_controls"`
	KML           string `mapstructure:"kml"`
}

// SimConfig seeds the simulation.
type SimConfig struct {
	Seed      int64
	Savestate bool
	RunName   string `mapstructure:"run_name"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	FrameMS int `mapstructure:"frame_ms"`
}

// flagKeys maps command line flags to the config keys they override.
var flagKeys = map[string]string{
	"map":       "editor.map",
	"debug":     "editor.debug_controls",
	"kml":       "editor.kml",
	"seed":      "sim.seed",
	"savestate": "sim.savestate",
	"run":       "sim.run_name",
	"log-level": "log.level",
	"db":        "database.path",
}

// Path is the config file in effect: $MAPEDIT_CONFIG, else the default
// under ~/.config.
func Path() string {
	if p := os.Getenv("MAPEDIT_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "mapedit", "config.toml")
}

// Load reads defaults, then the config file, then env (MAPEDIT_ prefix),
// then any flags in fs that were set. fs may be nil.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()

	// default values
	share := filepath.Join(os.Getenv("HOME"), ".local", "share", "mapedit")
	v.SetDefault("database.path", filepath.Join(share, "mapedit.db"))
	v.SetDefault("log.path", filepath.Join(share, "mapedit.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("editor.map", "")
	v.SetDefault("editor.debug_controls", false)
	v.SetDefault("editor.kml", "")
	v.SetDefault("sim.seed", 42)
	v.SetDefault("sim.savestate", false)
	v.SetDefault("sim.run_name", "unnamed")
	v.SetDefault("ui.frame_ms", 100)

	v.SetConfigType("toml")
	if cfgPath := os.Getenv("MAPEDIT_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "mapedit"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("MAPEDIT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	// A missing file is fine; a broken one is not.
	if err := v.ReadInConfig(); err != nil {
		if _, missing := err.(viper.ConfigFileNotFoundError); !missing && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.UI.FrameMS <= 0 {
		return Config{}, fmt.Errorf("ui.frame_ms must be positive, got %d", c.UI.FrameMS)
	}
	return c, nil
}

// Save writes the provided config to Path, creating its directory if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("editor.map", cfg.Editor.Map)
	v.Set("editor.debug_controls", cfg.Editor.DebugControls)
	v.Set("sim.seed", cfg.Sim.Seed)
	v.Set("sim.savestate", cfg.Sim.Savestate)
	v.Set("sim.run_name", cfg.Sim.RunName)
	v.Set("ui.frame_ms", cfg.UI.FrameMS)
	if len(cfg.Keys) > 0 {
		keys := make([]map[string]any, len(cfg.Keys))
		for i, o := range cfg.Keys {
			keys[i] = map[string]any{"scope": o.Scope, "action": o.Action, "keys": o.Keys}
		}
		v.Set("keys", keys)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
