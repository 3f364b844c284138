package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. EDACHAT_MODELNAME.
const EnvPrefix = "EDACHAT"

// Loader reads the configuration from the storage directory, dotenv files
// and the environment. Precedence: env > config file > defaults.
type Loader struct {
	storageDir string
	logger     func(string)
	mu         sync.RWMutex
}

// NewLoader creates a new Loader
func NewLoader(logger func(string)) *Loader {
	return &Loader{logger: logger}
}

// SetStorageDir overrides the storage directory (mainly for tests).
func (l *Loader) SetStorageDir(dir string) {
	l.mu.Lock()
	l.storageDir = dir
	l.mu.Unlock()
}

// GetStorageDir returns the storage directory (~/EDAChat by default).
func (l *Loader) GetStorageDir() (string, error) {
	l.mu.RLock()
	sd := l.storageDir
	l.mu.RUnlock()

	if sd != "" {
		return sd, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home dir: %w", err)
	}
	return filepath.Join(home, "EDAChat"), nil
}

// GetConfigPath returns the path Save writes to.
func (l *Loader) GetConfigPath() (string, error) {
	dir, err := l.GetStorageDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load builds the effective configuration. configFile may be empty, in which
// case config.{json,yaml} is looked up in the storage directory.
func (l *Loader) Load(configFile string) (Config, error) {
	dir, err := l.GetStorageDir()
	if err != nil {
		return Config{}, err
	}

	if err := l.loadDotenv(dir); err != nil {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		l.log(fmt.Sprintf("Configuration loaded from %s", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.APIKey == "" {
		for _, name := range ProviderKeyEnv(cfg.LLMProvider) {
			if key := os.Getenv(name); key != "" {
				cfg.APIKey = key
				break
			}
		}
	}
	if cfg.DataCacheDir == "" {
		cfg.DataCacheDir = dir
	}
	if cfg.LogDir == "" {
		cfg.LogDir = filepath.Join(cfg.DataCacheDir, "logs")
	}
	cfg.Validate()
	return cfg, nil
}

// Save writes cfg as JSON into the storage directory.
func (l *Loader) Save(cfg Config) error {
	path, err := l.GetConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create storage dir: %w", err)
	}

	cfg.Validate()
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// 0600: the file may hold an API key
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	l.log("Configuration saved to disk")
	return nil
}

// loadDotenv loads .env from the working directory and the storage dir.
// Variables already present in the environment win.
func (l *Loader) loadDotenv(dir string) error {
	var files []string
	for _, candidate := range []string{".env", filepath.Join(dir, ".env")} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			files = append(files, candidate)
		}
	}
	if len(files) == 0 {
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("failed to load dotenv: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("llmProvider", def.LLMProvider)
	v.SetDefault("apiKey", "")
	v.SetDefault("baseUrl", "")
	v.SetDefault("modelName", def.ModelName)
	v.SetDefault("maxTokens", def.MaxTokens)
	v.SetDefault("requestTimeoutSeconds", def.RequestTimeoutSeconds)
	v.SetDefault("language", def.Language)
	v.SetDefault("dataCacheDir", "")
	v.SetDefault("logDir", "")
	v.SetDefault("detailedLog", def.DetailedLog)
	v.SetDefault("parseDates", def.ParseDates)
	v.SetDefault("chart.width", def.Chart.Width)
	v.SetDefault("chart.height", def.Chart.Height)
	v.SetDefault("chart.heatmapMaxVars", def.Chart.HeatmapMaxVars)
	v.SetDefault("chart.clusterSeed", def.Chart.ClusterSeed)
	v.SetDefault("chart.clusterInit", def.Chart.ClusterInit)
	v.SetDefault("server.addr", def.Server.Addr)
	v.SetDefault("server.allowedOrigins", def.Server.AllowedOrigins)
	v.SetDefault("server.sessionTtlMinutes", def.Server.SessionTTLMin)
}

func (l *Loader) log(msg string) {
	if l.logger != nil {
		l.logger(msg)
	}
}
