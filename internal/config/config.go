package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Firebase  FirebaseConfig  `yaml:"firebase"`
	Legacy    LegacyConfig    `yaml:"legacy"`
	Migration MigrationConfig `yaml:"migration"`
	Retry     RetryConfig     `yaml:"retry"`
	Backup    BackupConfig    `yaml:"backup"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP API settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// FirebaseConfig contains Firestore and Storage connection settings
type FirebaseConfig struct {
	Mode            string `yaml:"mode"` // "firestore" or "memory"
	CredentialsFile string `yaml:"credentials_file"`
	ProjectID       string `yaml:"project_id"`
	StorageBucket   string `yaml:"storage_bucket"`
}

// LegacyConfig points at the relational export read by migrations
type LegacyConfig struct {
	Driver    string `yaml:"driver"` // "sqlite3" or "postgres"
	DSN       string `yaml:"dsn"`
	ProjectID string `yaml:"project_id"`
}

// SynonymRule replaces From with To during fuzzy text normalization.
// Rules are applied in order.
type SynonymRule struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// MigrationConfig contains bulk migration settings
type MigrationConfig struct {
	BatchSize               int           `yaml:"batch_size"`
	DetectThreshold         float64       `yaml:"detect_threshold"`
	CommitThreshold         float64       `yaml:"commit_threshold"`
	PlanDir                 string        `yaml:"plan_dir"`
	ReadsPerSecond          float64       `yaml:"reads_per_second"`
	OperatorPaymentCategory string        `yaml:"operator_payment_category"`
	DefaultAccountID        string        `yaml:"default_account_id"`
	Synonyms                []SynonymRule `yaml:"synonyms"`
}

// RetryConfig contains the quota retry policy for idempotent reads
type RetryConfig struct {
	MaxAttempts int     `yaml:"max_attempts"`
	BaseDelayMS int     `yaml:"base_delay_ms"`
	Multiplier  float64 `yaml:"multiplier"`
}

// BaseDelay returns the configured initial delay
func (r RetryConfig) BaseDelay() time.Duration {
	return time.Duration(r.BaseDelayMS) * time.Millisecond
}

// BackupConfig contains SQLite export settings
type BackupConfig struct {
	Dir         string   `yaml:"dir"`
	Keep        int      `yaml:"keep"`
	Collections []string `yaml:"collections"`
}

// StorageConfig contains attachment storage settings
type StorageConfig struct {
	Type             string `yaml:"type"`       // "local" or "firebase"
	UploadDir        string `yaml:"upload_dir"` // For local storage
	BaseURL          string `yaml:"base_url"`   // Server base URL for local URLs
	SignedURLMinutes int    `yaml:"signed_url_minutes"`
	MaxFileSizeMB    int64  `yaml:"max_file_size_mb"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	Backup string `yaml:"backup"`
}

// DefaultSynonyms is the synonym table used for equipment name matching
// when the config file does not provide one.
var DefaultSynonyms = []SynonymRule{
	{From: " retro ", To: " retropala "},
	{From: "retrop ", To: " retropala "},
	{From: " retroexcavadora ", To: " retropala "},
	{From: " exc ", To: " excavadora "},
	{From: " excav ", To: " excavadora "},
	{From: " pala ", To: " retropala "},
	{From: " cat ", To: " caterpillar "},
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse builds a configuration from YAML bytes
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables if present
	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Firebase
	if val := os.Getenv("FIREBASE_CREDENTIALS"); val != "" {
		c.Firebase.CredentialsFile = val
	}
	if val := os.Getenv("FIREBASE_PROJECT_ID"); val != "" {
		c.Firebase.ProjectID = val
	}
	if val := os.Getenv("FIREBASE_BUCKET"); val != "" {
		c.Firebase.StorageBucket = val
	}
	if val := os.Getenv("FIREBASE_MODE"); val != "" {
		c.Firebase.Mode = val
	}

	// Legacy export
	if val := os.Getenv("LEGACY_DRIVER"); val != "" {
		c.Legacy.Driver = val
	}
	if val := os.Getenv("LEGACY_DSN"); val != "" {
		c.Legacy.DSN = val
	}
	if val := os.Getenv("LEGACY_PROJECT_ID"); val != "" {
		c.Legacy.ProjectID = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.Server.Port = port
		}
	}

	// Storage
	if val := os.Getenv("UPLOAD_DIR"); val != "" {
		c.Storage.UploadDir = val
	}

	// Backup
	if val := os.Getenv("BACKUP_DIR"); val != "" {
		c.Backup.Dir = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills defaults
func (c *Config) Validate() error {
	// Firebase validation
	if c.Firebase.Mode == "" {
		c.Firebase.Mode = "firestore"
	}
	switch c.Firebase.Mode {
	case "firestore":
		if c.Firebase.ProjectID == "" {
			return fmt.Errorf("firebase project id is required")
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported firebase mode: %s", c.Firebase.Mode)
	}

	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Legacy export validation
	if c.Legacy.Driver == "" {
		c.Legacy.Driver = "sqlite3"
	}
	if c.Legacy.Driver != "sqlite3" && c.Legacy.Driver != "postgres" {
		return fmt.Errorf("unsupported legacy driver: %s", c.Legacy.Driver)
	}

	// Migration defaults
	if c.Migration.BatchSize == 0 {
		c.Migration.BatchSize = 500
	}
	if c.Migration.BatchSize < 1 || c.Migration.BatchSize > 500 {
		return fmt.Errorf("migration batch size must be between 1 and 500: %d", c.Migration.BatchSize)
	}
	if c.Migration.DetectThreshold == 0 {
		c.Migration.DetectThreshold = 0.85
	}
	if c.Migration.CommitThreshold == 0 {
		c.Migration.CommitThreshold = 0.95
	}
	if c.Migration.DetectThreshold < 0 || c.Migration.DetectThreshold > 1 ||
		c.Migration.CommitThreshold < 0 || c.Migration.CommitThreshold > 1 {
		return fmt.Errorf("migration thresholds must be between 0 and 1")
	}
	if c.Migration.PlanDir == "" {
		c.Migration.PlanDir = "logs"
	}
	if c.Migration.ReadsPerSecond == 0 {
		c.Migration.ReadsPerSecond = 5
	}
	if c.Migration.OperatorPaymentCategory == "" {
		c.Migration.OperatorPaymentCategory = "PAGO HRS OPERADOR"
	}
	if len(c.Migration.Synonyms) == 0 {
		c.Migration.Synonyms = append([]SynonymRule(nil), DefaultSynonyms...)
	}

	// Retry defaults
	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = 3
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry max attempts must be positive: %d", c.Retry.MaxAttempts)
	}
	if c.Retry.BaseDelayMS == 0 {
		c.Retry.BaseDelayMS = 1000
	}
	if c.Retry.Multiplier == 0 {
		c.Retry.Multiplier = 2
	}
	if c.Retry.Multiplier < 1 {
		return fmt.Errorf("retry multiplier must be at least 1: %v", c.Retry.Multiplier)
	}

	// Backup defaults
	if c.Backup.Dir == "" {
		c.Backup.Dir = "backups"
	}
	if c.Backup.Keep == 0 {
		c.Backup.Keep = 10
	}

	// Storage validation
	if c.Storage.Type == "" {
		c.Storage.Type = "local"
	}
	switch c.Storage.Type {
	case "local":
		if c.Storage.UploadDir == "" {
			return fmt.Errorf("upload directory is required for local storage")
		}
	case "firebase":
		if c.Firebase.StorageBucket == "" {
			return fmt.Errorf("firebase storage bucket is required for firebase storage")
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}
	if c.Storage.SignedURLMinutes == 0 {
		c.Storage.SignedURLMinutes = 60
	}
	if c.Storage.MaxFileSizeMB == 0 {
		c.Storage.MaxFileSizeMB = 10
	}

	// Scheduler defaults
	if c.Scheduler.Backup == "" {
		c.Scheduler.Backup = "0 0 */6 * * *" // Every 6 hours
	}

	return nil
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
