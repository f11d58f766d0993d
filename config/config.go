package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	BackendRedis = "redis"
	BackendFile  = "file"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	App      AppConfig      `yaml:"app"`
	Redis    RedisConfig    `yaml:"redis"`
	Storage  StorageConfig  `yaml:"storage"`
	Drive    DriveConfig    `yaml:"drive"`
	AI       AIConfig       `yaml:"ai"`
	Firebase FirebaseConfig `yaml:"firebase"`
	Jobs     JobsConfig     `yaml:"jobs"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	IntakeAPIKey    string        `yaml:"intake_api_key"`
}

type AppConfig struct {
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`
	Version     string `yaml:"version"`
	ServiceName string `yaml:"service_name"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// StorageConfig selects the backends of the ephemeral project store and the
// project number registry.
type StorageConfig struct {
	EphemeralBackend string `yaml:"ephemeral_backend"`
	EphemeralDir     string `yaml:"ephemeral_dir"`
	RegistryBackend  string `yaml:"registry_backend"`
	RegistryPath     string `yaml:"registry_path"`
}

// DriveConfig holds Google Drive credentials. The *JSON fields win over the
// *Path fields when both are set.
type DriveConfig struct {
	CredentialsPath   string  `yaml:"credentials_path"`
	CredentialsJSON   string  `yaml:"credentials_json"`
	TokenPath         string  `yaml:"token_path"`
	TokenJSON         string  `yaml:"token_json"`
	RootFolderID      string  `yaml:"root_folder_id"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

func (d DriveConfig) Enabled() bool {
	return d.CredentialsJSON != "" || d.CredentialsPath != ""
}

type AIConfig struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

type FirebaseConfig struct {
	CredentialsPath string `yaml:"credentials_path"`
}

type JobsConfig struct {
	RegistryBackupSpec string `yaml:"registry_backup_spec"`
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"http://localhost:3000"},
		},
		App: AppConfig{
			Environment: "development",
			LogLevel:    "info",
			Version:     "1.0.0",
			ServiceName: "lp-intake-backend",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
			TTL:  7 * 24 * time.Hour,
		},
		Storage: StorageConfig{
			EphemeralBackend: BackendRedis,
			EphemeralDir:     "data/projects",
			RegistryBackend:  BackendFile,
			RegistryPath:     "data/project_numbers.json",
		},
		Drive: DriveConfig{
			RequestsPerSecond: 5,
			Burst:             10,
		},
		AI: AIConfig{
			Model:   "gemini-2.5-flash",
			Timeout: 60 * time.Second,
		},
		Jobs: JobsConfig{
			RegistryBackupSpec: "0 0 3 * * *",
		},
	}
}

// Load reads .env, then the YAML file named by CONFIG_FILE, then the
// environment. Environment variables win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.ShutdownTimeout = getEnvAsDuration("SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)
	c.Server.CORSOrigins = getEnvAsList("CORS_ORIGINS", c.Server.CORSOrigins)
	c.Server.IntakeAPIKey = getEnv("INTAKE_API_KEY", c.Server.IntakeAPIKey)

	c.App.Environment = getEnv("APP_ENV", c.App.Environment)
	c.App.LogLevel = getEnv("LOG_LEVEL", c.App.LogLevel)
	c.App.Version = getEnv("APP_VERSION", c.App.Version)
	c.App.ServiceName = getEnv("SERVICE_NAME", c.App.ServiceName)

	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvAsInt("REDIS_DB", c.Redis.DB)
	c.Redis.TTL = getEnvAsDuration("PROJECT_TTL", c.Redis.TTL)

	c.Storage.EphemeralBackend = strings.ToLower(getEnv("EPHEMERAL_BACKEND", c.Storage.EphemeralBackend))
	c.Storage.EphemeralDir = getEnv("EPHEMERAL_DIR", c.Storage.EphemeralDir)
	c.Storage.RegistryBackend = strings.ToLower(getEnv("REGISTRY_BACKEND", c.Storage.RegistryBackend))
	c.Storage.RegistryPath = getEnv("REGISTRY_PATH", c.Storage.RegistryPath)

	c.Drive.CredentialsPath = getEnv("GOOGLE_DRIVE_CREDENTIALS_PATH", c.Drive.CredentialsPath)
	c.Drive.CredentialsJSON = getEnv("GOOGLE_DRIVE_CREDENTIALS", c.Drive.CredentialsJSON)
	c.Drive.TokenPath = getEnv("GOOGLE_DRIVE_TOKEN_PATH", c.Drive.TokenPath)
	c.Drive.TokenJSON = getEnv("GOOGLE_DRIVE_TOKEN", c.Drive.TokenJSON)
	c.Drive.RootFolderID = getEnv("GOOGLE_DRIVE_FOLDER_ID", c.Drive.RootFolderID)
	c.Drive.RequestsPerSecond = getEnvAsFloat("GOOGLE_DRIVE_RPS", c.Drive.RequestsPerSecond)
	c.Drive.Burst = getEnvAsInt("GOOGLE_DRIVE_BURST", c.Drive.Burst)

	c.AI.APIKey = getEnv("GEMINI_API_KEY", c.AI.APIKey)
	c.AI.Model = getEnv("GEMINI_MODEL", c.AI.Model)
	c.AI.Timeout = getEnvAsDuration("AI_TIMEOUT", c.AI.Timeout)

	c.Firebase.CredentialsPath = getEnv("FIREBASE_CREDENTIALS_PATH", c.Firebase.CredentialsPath)

	c.Jobs.RegistryBackupSpec = getEnv("REGISTRY_BACKUP_SPEC", c.Jobs.RegistryBackupSpec)
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Storage.EphemeralBackend {
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis ephemeral backend")
		}
	case BackendFile:
		if c.Storage.EphemeralDir == "" {
			return fmt.Errorf("EPHEMERAL_DIR is required for the file ephemeral backend")
		}
	default:
		return fmt.Errorf("unknown EPHEMERAL_BACKEND %q", c.Storage.EphemeralBackend)
	}

	switch c.Storage.RegistryBackend {
	case BackendFile:
		if c.Storage.RegistryPath == "" {
			return fmt.Errorf("REGISTRY_PATH is required for the file registry backend")
		}
	case BackendRedis:
	default:
		return fmt.Errorf("unknown REGISTRY_BACKEND %q", c.Storage.RegistryBackend)
	}

	if c.Drive.RequestsPerSecond <= 0 {
		return fmt.Errorf("GOOGLE_DRIVE_RPS must be positive")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
