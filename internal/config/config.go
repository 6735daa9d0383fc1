package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Conf holds the application configuration, making it accessible globally.
var Conf *Config

// Config struct is the top-level configuration structure.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Collector CollectorConfig `mapstructure:"collector"`
	Model     ModelConfig     `mapstructure:"model"`
	Scoring   ScoringConfig   `mapstructure:"scoring"`
}

// ServerConfig holds server-related settings.
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// LoggingConfig holds settings for the logger.
type LoggingConfig struct {
	Directory  string `mapstructure:"directory"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// CollectorConfig holds per-session collection loop settings.
type CollectorConfig struct {
	CollectInterval time.Duration `mapstructure:"collect_interval"`
	SaveInterval    time.Duration `mapstructure:"save_interval"`
	StopTimeout     time.Duration `mapstructure:"stop_timeout"`
	MetricWindow    time.Duration `mapstructure:"metric_window"`
}

// ModelConfig points at the serialized regressor and scaler artifacts.
// Missing files are not fatal; scoring falls back to the rule-based path.
type ModelConfig struct {
	RegressorPath string `mapstructure:"regressor_path"`
	ScalerPath    string `mapstructure:"scaler_path"`
	RefitSchedule string `mapstructure:"refit_schedule"`
}

// ScoringConfig exposes the extractor thresholds that were still being tuned
// upstream. Defaults match the current canonical values.
type ScoringConfig struct {
	ErrorRateCap      float64 `mapstructure:"error_rate_cap"`
	ShortTextChars    int     `mapstructure:"short_text_chars"`
	ShortTextLeniency float64 `mapstructure:"short_text_leniency"`
	PauseThreshold    float64 `mapstructure:"pause_threshold"`
}

// setDefaults sets the default values for the configuration.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "5050")

	// Database defaults
	v.SetDefault("database.host", "db")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "user")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.dbname", "fatigue-db")

	// Logging defaults
	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.max_size", 10)   // 10 MB
	v.SetDefault("logging.max_backups", 3) // Keep 3 backups
	v.SetDefault("logging.max_age", 7)     // 7 days
	v.SetDefault("logging.compress", true) // Compress old logs

	// Collector defaults
	v.SetDefault("collector.collect_interval", "60s")
	v.SetDefault("collector.save_interval", "300s")
	v.SetDefault("collector.stop_timeout", "1s")
	v.SetDefault("collector.metric_window", "24h")

	// Model defaults
	v.SetDefault("model.regressor_path", "artifacts/regressor.yaml")
	v.SetDefault("model.scaler_path", "artifacts/scaler.yaml")
	v.SetDefault("model.refit_schedule", "@every 1h")

	// Scoring defaults
	v.SetDefault("scoring.error_rate_cap", 50.0)
	v.SetDefault("scoring.short_text_chars", 10)
	v.SetDefault("scoring.short_text_leniency", 0.5)
	v.SetDefault("scoring.pause_threshold", 1.0)
}

// Init initializes the configuration with Viper.
func Init(projectRoot string, log *zap.Logger) error {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// --- File Configuration ---
	v.AddConfigPath(filepath.Join(projectRoot, "config"))
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// --- Environment Variable Binding ---
	v.SetEnvPrefix("FATIGUE") // e.g., FATIGUE_SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read the initial configuration from the file.
	// It's okay if the file doesn't exist; defaults and env vars will be used.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Unmarshal the config into our global Conf variable
	if err := v.Unmarshal(&Conf); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	// Set up a watch for configuration changes for hot-reloading
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("Configuration file changed, reloading.", zap.String("file", e.Name))
		if err := v.Unmarshal(&Conf); err != nil {
			log.Error("Error reloading configuration", zap.Error(err))
		}
	})

	log.Info("Configuration loaded successfully")
	return nil
}
