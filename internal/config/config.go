package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

const (
	DefaultMongoURI  = "mongodb://localhost:27017/"
	DefaultMongoDB   = "marine_platform"
	DefaultHost      = "0.0.0.0"
	DefaultPort      = 5000
	DefaultUploadDir = "static/uploads"
	DefaultSeedFile  = "sample_data.json"
	DefaultLogLevel  = "info"
	DefaultAPIURL    = "http://127.0.0.1:5000"

	DefaultMaxUploadBytes     int64 = 32 * 1024 * 1024
	DefaultMultipartMaxMemory int64 = 8 * 1024 * 1024

	FileName = ".marineportal.toml"

	configDirEnvKey = "MARINE_CONFIG_DIR"
)

// UploadConfig controls how submitted files are accepted and named.
type UploadConfig struct {
	MaxUploadBytes     int64 `toml:"max_upload_bytes" env:"MARINE_UPLOADS_MAX_BYTES"`
	MultipartMaxMemory int64 `toml:"multipart_max_memory" env:"MARINE_UPLOADS_MULTIPART_MEMORY"`
	UniqueNames        bool  `toml:"unique_names" env:"MARINE_UPLOADS_UNIQUE_NAMES"`
}

// Config defines runtime configuration for marineportal.
type Config struct {
	MongoURI  string       `toml:"mongo_uri" env:"MONGO_URI"`
	MongoDB   string       `toml:"mongo_db" env:"MONGO_DB"`
	Host      string       `toml:"host" env:"MARINE_HOST"`
	Port      int          `toml:"port" env:"PORT"`
	UploadDir string       `toml:"upload_dir" env:"MARINE_UPLOAD_DIR"`
	SeedFile  string       `toml:"seed_file" env:"MARINE_SEED_FILE"`
	LogLevel  string       `toml:"log_level" env:"MARINE_LOG_LEVEL"`
	APIURL    string       `toml:"api_url" env:"MARINE_API_URL"`
	Uploads   UploadConfig `toml:"uploads"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		MongoURI:  DefaultMongoURI,
		MongoDB:   DefaultMongoDB,
		Host:      DefaultHost,
		Port:      DefaultPort,
		UploadDir: DefaultUploadDir,
		SeedFile:  DefaultSeedFile,
		LogLevel:  DefaultLogLevel,
		APIURL:    DefaultAPIURL,
		Uploads: UploadConfig{
			MaxUploadBytes:     DefaultMaxUploadBytes,
			MultipartMaxMemory: DefaultMultipartMaxMemory,
		},
	}
}

func loadFile(path string, cfg *Config) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func overrideConfigPath() (string, bool) {
	dir := strings.TrimSpace(os.Getenv(configDirEnvKey))
	if dir == "" {
		return "", false
	}
	return filepath.Join(dir, FileName), true
}

var allowedKeys = []string{
	"mongo_uri",
	"mongo_db",
	"host",
	"port",
	"upload_dir",
	"seed_file",
	"log_level",
	"api_url",
	"uploads.max_upload_bytes",
	"uploads.multipart_max_memory",
	"uploads.unique_names",
}

// AllowedKeys returns the set of valid config keys.
func AllowedKeys() []string {
	return allowedKeys
}

// IsAllowedKey checks if a key is a valid config key.
func IsAllowedKey(key string) bool {
	for _, k := range allowedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "mongo_uri":
		return c.MongoURI, nil
	case "mongo_db":
		return c.MongoDB, nil
	case "host":
		return c.Host, nil
	case "port":
		return strconv.Itoa(c.Port), nil
	case "upload_dir":
		return c.UploadDir, nil
	case "seed_file":
		return c.SeedFile, nil
	case "log_level":
		return c.LogLevel, nil
	case "api_url":
		return c.APIURL, nil
	case "uploads.max_upload_bytes":
		return strconv.FormatInt(c.Uploads.MaxUploadBytes, 10), nil
	case "uploads.multipart_max_memory":
		return strconv.FormatInt(c.Uploads.MultipartMaxMemory, 10), nil
	case "uploads.unique_names":
		return strconv.FormatBool(c.Uploads.UniqueNames), nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// GlobalPath returns the path to the global config file.
func GlobalPath() (string, error) {
	if path, ok := overrideConfigPath(); ok {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, FileName), nil
}

// ProjectPath returns the path to the config file in the working directory.
func ProjectPath() (string, error) {
	if path, ok := overrideConfigPath(); ok {
		return path, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, FileName), nil
}

// SetKey reads the TOML file at path, sets key=value, and writes it back.
func SetKey(path, key, value string) error {
	if !IsAllowedKey(key) {
		return fmt.Errorf("unknown key: %s", key)
	}

	data := make(map[string]any)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &data); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	parsedValue, err := parseSetValue(key, value)
	if err != nil {
		return err
	}
	if err := setNestedKey(data, strings.Split(key, "."), parsedValue); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(data)
}

// Load layers the global file, the working-directory file and the
// environment over Default, then validates the result.
func Load() (*Config, error) {
	cfg := Default()

	if overridePath, ok := overrideConfigPath(); ok {
		if err := loadFile(overridePath, &cfg); err != nil {
			return nil, err
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			if err := loadFile(filepath.Join(home, FileName), &cfg); err != nil {
				return nil, err
			}
		}
		if cwd, err := os.Getwd(); err == nil {
			if err := loadFile(filepath.Join(cwd, FileName), &cfg); err != nil {
				return nil, err
			}
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the server cannot start with.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.Uploads.MultipartMaxMemory > c.Uploads.MaxUploadBytes {
		return fmt.Errorf("uploads.multipart_max_memory (%d) exceeds uploads.max_upload_bytes (%d)",
			c.Uploads.MultipartMaxMemory, c.Uploads.MaxUploadBytes)
	}
	return nil
}

func parseSetValue(key, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch key {
	case "port":
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 1 || parsed > 65535 {
			return nil, fmt.Errorf("%s must be between 1 and 65535", key)
		}
		return int64(parsed), nil
	case "uploads.max_upload_bytes", "uploads.multipart_max_memory":
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer", key)
		}
		return parsed, nil
	case "uploads.unique_names":
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%s must be true or false", key)
		}
		return parsed, nil
	default:
		return value, nil
	}
}

func setNestedKey(data map[string]any, parts []string, value any) error {
	if len(parts) == 0 {
		return fmt.Errorf("invalid config key")
	}
	if len(parts) == 1 {
		data[parts[0]] = value
		return nil
	}
	childRaw, ok := data[parts[0]]
	if !ok {
		child := map[string]any{}
		data[parts[0]] = child
		return setNestedKey(child, parts[1:], value)
	}
	child, ok := childRaw.(map[string]any)
	if !ok {
		return fmt.Errorf("cannot set nested key %q", strings.Join(parts, "."))
	}
	return setNestedKey(child, parts[1:], value)
}

func (c *Config) normalize() {
	if strings.TrimSpace(c.MongoURI) == "" {
		c.MongoURI = DefaultMongoURI
	}
	if strings.TrimSpace(c.MongoDB) == "" {
		c.MongoDB = DefaultMongoDB
	}
	if strings.TrimSpace(c.UploadDir) == "" {
		c.UploadDir = DefaultUploadDir
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = DefaultLogLevel
	}
	if strings.TrimSpace(c.APIURL) == "" {
		c.APIURL = DefaultAPIURL
	}
	if c.Uploads.MaxUploadBytes <= 0 {
		c.Uploads.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if c.Uploads.MultipartMaxMemory <= 0 {
		c.Uploads.MultipartMaxMemory = DefaultMultipartMaxMemory
	}
}
