package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/iwvelando/deal-calculator/internal/config"
	"github.com/iwvelando/deal-calculator/internal/property"
	"github.com/iwvelando/deal-calculator/pkg/constants"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address       string                   `yaml:"address"`
	MaxBodySize   string                   `yaml:"maxBodySize"`
	Logging       config.LoggingConfig     `yaml:"logging"`
	Store         StoreConfig              `yaml:"store"`
	Assumptions   config.AssumptionsConfig `yaml:"assumptions"`
	bodySizeBytes int64
}

// StoreConfig selects and configures the property store backend.
type StoreConfig struct {
	Backend     string `yaml:"backend"`
	Path        string `yaml:"path"`
	RedisAddr   string `yaml:"redisAddr"`
	RedisDB     int    `yaml:"redisDB"`
	RedisPrefix string `yaml:"redisPrefix"`
}

// LoadConfig loads the server configuration from YAML. If the file does not exist,
// defaults are returned without error.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Address:       constants.DefaultServerAddress,
		MaxBodySize:   fmt.Sprintf("%d", constants.DefaultMaxBodySizeBytes),
		Assumptions:   config.DefaultAssumptionsConfig(),
		bodySizeBytes: constants.DefaultMaxBodySizeBytes,
	}

	if path == "" {
		return cfg, cfg.normalize()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, cfg.normalize()
		}
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides file settings from DEALCALC_* environment variables,
// e.g. DEALCALC_STORE_BACKEND for store.backend.
func (c *Config) ApplyEnv() error {
	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	overrides := []struct {
		key  string
		dest *string
	}{
		{"address", &c.Address},
		{"store.backend", &c.Store.Backend},
		{"store.path", &c.Store.Path},
		{"redis.addr", &c.Store.RedisAddr},
		{"redis.prefix", &c.Store.RedisPrefix},
		{"log.level", &c.Logging.Level},
	}
	for _, o := range overrides {
		if v.IsSet(o.key) {
			*o.dest = v.GetString(o.key)
		}
	}
	if v.IsSet("redis.db") {
		raw := v.GetString("redis.db")
		db, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid %s_REDIS_DB %q: %w", constants.EnvPrefix, raw, err)
		}
		c.Store.RedisDB = db
	}
	return c.normalize()
}

// BodySizeBytes returns the configured request body limit in bytes.
func (c *Config) BodySizeBytes() int64 {
	return c.bodySizeBytes
}

func (c *Config) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}

	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	switch c.Store.Backend {
	case "":
		c.Store.Backend = constants.StoreBackendMemory
	case constants.StoreBackendMemory, constants.StoreBackendSQLite, constants.StoreBackendRedis:
	default:
		return fmt.Errorf("unsupported store backend %q", c.Store.Backend)
	}
	if c.Store.Path == "" {
		c.Store.Path = constants.DefaultSQLitePath
	}
	if c.Store.RedisAddr == "" {
		c.Store.RedisAddr = constants.DefaultRedisAddr
	}
	if c.Store.RedisPrefix == "" {
		c.Store.RedisPrefix = constants.DefaultRedisPrefix
	}

	sizeStr := strings.TrimSpace(c.MaxBodySize)
	if sizeStr == "" {
		c.bodySizeBytes = constants.DefaultMaxBodySizeBytes
		c.MaxBodySize = fmt.Sprintf("%d", constants.DefaultMaxBodySizeBytes)
		return nil
	}

	bytes, err := ParseSize(sizeStr)
	if err != nil {
		return err
	}
	if bytes <= 0 {
		bytes = constants.DefaultMaxBodySizeBytes
	}
	c.bodySizeBytes = bytes
	return nil
}

// OpenStore connects to the configured property store backend.
func (c *Config) OpenStore(ctx context.Context, logger *zap.Logger) (property.Store, error) {
	switch c.Store.Backend {
	case constants.StoreBackendSQLite:
		return property.NewSQLiteStore(logger, c.Store.Path)
	case constants.StoreBackendRedis:
		return property.NewRedisStore(ctx, logger, c.Store.RedisAddr, c.Store.RedisDB, c.Store.RedisPrefix)
	default:
		return property.NewMemoryStore(), nil
	}
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10M") into bytes.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxBodySizeBytes, nil
	}

	upper := strings.ToUpper(trimmed)
	idx := len(upper)
	for idx > 0 && !unicode.IsDigit(rune(upper[idx-1])) {
		idx--
	}
	if idx == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	numPart := strings.TrimSpace(upper[:idx])
	unitPart := strings.TrimSpace(upper[idx:])

	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}

	var multiplier int64
	switch unitPart {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	default:
		return 0, fmt.Errorf("unsupported size unit %q", unitPart)
	}

	result := n * multiplier
	if result < 0 {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return result, nil
}
