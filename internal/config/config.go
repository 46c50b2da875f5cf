package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

const appDirName = "script-vault"

// GetVaultDir resolves the base directory for local state. SCRIPT_VAULT_DIR
// wins, then the XDG data home, then ~/.local/share.
func GetVaultDir() string {
	if explicit := os.Getenv("SCRIPT_VAULT_DIR"); explicit != "" {
		return explicit
	}

	xdg.Reload()

	dataHome := xdg.DataHome
	if dataHome == "" {
		home := xdg.Home
		if home == "" {
			var err error
			home, err = os.UserHomeDir()
			if err != nil {
				return filepath.Join(os.TempDir(), appDirName)
			}
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataHome, appDirName)
}

// GetDBPath returns the absolute path to the SQLite state database.
func GetDBPath() string {
	return filepath.Join(GetVaultDir(), "state.db")
}

// GetConfigDir returns the directory searched for config.yaml.
func GetConfigDir() string {
	xdg.Reload()
	if xdg.ConfigHome != "" {
		return filepath.Join(xdg.ConfigHome, appDirName)
	}
	return filepath.Join(GetVaultDir(), "config")
}

// Config holds tunables read from config.yaml and SCRIPTVAULT_* variables.
type Config struct {
	Log   LogConfig   `mapstructure:"log"`
	Sync  SyncConfig  `mapstructure:"sync"`
	Watch WatchConfig `mapstructure:"watch"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

type SyncConfig struct {
	// ReadConcurrency bounds parallel reads during a full import.
	ReadConcurrency int `mapstructure:"read_concurrency"`
}

type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("sync.read_concurrency", 8)
	v.SetDefault("watch.debounce", "500ms")
}

// Load reads configuration. An explicit file must exist; otherwise
// config.yaml is looked up in the config directory and may be absent.
func Load(explicitFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SCRIPTVAULT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if explicitFile != "" {
		v.SetConfigFile(explicitFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(GetConfigDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicitFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}
