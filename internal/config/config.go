// Package config defines the configuration for finance-calculators and loads
// it from YAML and the environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/iwvelando/finance-calculators/internal/costmodel"
	"github.com/iwvelando/finance-calculators/internal/strategy"
	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/loans"
	"github.com/iwvelando/finance-calculators/pkg/validation"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. FINANCE_CALCULATORS_LOGGING_LEVEL.
const EnvPrefix = "FINANCE_CALCULATORS"

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Configuration holds all configuration for finance-calculators.
type Configuration struct {
	Tool    string           `mapstructure:"tool" json:"tool"`
	Logging LoggingConfig    `mapstructure:"logging" json:"logging"`
	Output  OutputConfig     `mapstructure:"output" json:"output"`
	Loan    loans.Quote      `mapstructure:"loan" json:"loan"`
	EMI     costmodel.Params `mapstructure:"emi" json:"emi"`
	Car     strategy.Inputs  `mapstructure:"car" json:"car"`
	Server  ServerConfig     `mapstructure:"server" json:"server"`
	Cache   CacheConfig      `mapstructure:"cache" json:"cache"`
	Tracing TracingConfig    `mapstructure:"tracing" json:"tracing"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" json:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" json:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" json:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" json:"format,omitempty"` // pretty, csv, json
}

// ServerConfig defines runtime parameters for the HTTP API.
type ServerConfig struct {
	Address     string `mapstructure:"address" json:"address"`
	MaxBodySize string `mapstructure:"maxBodySize" json:"maxBodySize"`
	Version     string `mapstructure:"version" json:"version,omitempty"`
}

// CacheConfig selects where computed results are memoized.
type CacheConfig struct {
	Backend       string `mapstructure:"backend" json:"backend"` // none, memory, redis
	MaxEntries    int    `mapstructure:"maxEntries" json:"maxEntries"`
	TTLSeconds    int    `mapstructure:"ttlSeconds" json:"ttlSeconds"`
	RedisAddr     string `mapstructure:"redisAddr" json:"redisAddr,omitempty"`
	RedisPassword string `mapstructure:"redisPassword" json:"-"`
	RedisDB       int    `mapstructure:"redisDB" json:"redisDB,omitempty"`
}

// TracingConfig enables OpenTelemetry tracing. An empty endpoint keeps spans
// in-process.
type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled" json:"enabled"`
	Endpoint    string `mapstructure:"endpoint" json:"endpoint,omitempty"`
	Insecure    bool   `mapstructure:"insecure" json:"insecure,omitempty"`
	ServiceName string `mapstructure:"serviceName" json:"serviceName"`
}

// Default returns the configuration used when a setting is not provided.
func Default() Configuration {
	return Configuration{
		Tool:    constants.ToolCar,
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Output:  OutputConfig{Format: constants.OutputFormatPretty},
		Loan:    loans.DefaultQuote(),
		EMI:     costmodel.DefaultParams(),
		Car:     strategy.DefaultInputs(),
		Server: ServerConfig{
			Address:     constants.DefaultServerAddress,
			MaxBodySize: strconv.FormatInt(constants.DefaultMaxBodyBytes, 10),
		},
		Cache: CacheConfig{
			Backend:    CacheMemory,
			MaxEntries: constants.DefaultCacheEntries,
			TTLSeconds: constants.DefaultCacheTTLSeconds,
		},
		Tracing: TracingConfig{ServiceName: constants.DefaultServiceName},
	}
}

// envKeys are the settings most often overridden from the environment. Viper
// only consults the environment for keys it already knows about.
var envKeys = map[string]func(Configuration) interface{}{
	"tool":                  func(c Configuration) interface{} { return c.Tool },
	"logging.level":         func(c Configuration) interface{} { return c.Logging.Level },
	"logging.format":        func(c Configuration) interface{} { return c.Logging.Format },
	"logging.outputFile":    func(c Configuration) interface{} { return c.Logging.OutputFile },
	"output.format":         func(c Configuration) interface{} { return c.Output.Format },
	"server.address":        func(c Configuration) interface{} { return c.Server.Address },
	"server.maxBodySize":    func(c Configuration) interface{} { return c.Server.MaxBodySize },
	"server.version":        func(c Configuration) interface{} { return c.Server.Version },
	"cache.backend":         func(c Configuration) interface{} { return c.Cache.Backend },
	"cache.redisAddr":       func(c Configuration) interface{} { return c.Cache.RedisAddr },
	"cache.redisPassword":   func(c Configuration) interface{} { return c.Cache.RedisPassword },
	"cache.redisDB":         func(c Configuration) interface{} { return c.Cache.RedisDB },
	"cache.ttlSeconds":      func(c Configuration) interface{} { return c.Cache.TTLSeconds },
	"tracing.enabled":       func(c Configuration) interface{} { return c.Tracing.Enabled },
	"tracing.endpoint":      func(c Configuration) interface{} { return c.Tracing.Endpoint },
	"tracing.insecure":      func(c Configuration) interface{} { return c.Tracing.Insecure },
	"tracing.serviceName":   func(c Configuration) interface{} { return c.Tracing.ServiceName },
	"emi.returnRatePercent": func(c Configuration) interface{} { return c.EMI.ReturnRatePercent },
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := Default()
	for key, value := range envKeys {
		v.SetDefault(key, value(defaults))
	}
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there on top of the defaults. An empty path loads the defaults
// and environment only.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()

	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
			}
			return nil, fmt.Errorf("error reading config file, %w", err)
		}
		v.SetConfigFile(configPath)
		v.SetConfigType("yml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file, %w", err)
		}
	}

	configuration := Default()
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if err := configuration.Validate(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

// Validate checks the settings that cannot be computed around: unknown tools,
// formats, backends and sizes.
func (c *Configuration) Validate() error {
	var errs []error

	if err := validation.ValidateTool(c.Tool); err != nil {
		errs = append(errs, err)
	}
	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		errs = append(errs, err)
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		errs = append(errs, fmt.Errorf("expected logging format of json or console, got %s", c.Logging.Format))
	}
	switch c.Cache.Backend {
	case "", CacheNone, CacheMemory:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			errs = append(errs, errors.New("cache backend redis requires cache.redisAddr"))
		}
	default:
		errs = append(errs, fmt.Errorf("expected cache backend of %s, %s or %s, got %s", CacheNone, CacheMemory, CacheRedis, c.Cache.Backend))
	}
	if _, err := ParseSize(c.Server.MaxBodySize); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// MaxBodyBytes returns the configured request body limit in bytes.
func (s ServerConfig) MaxBodyBytes() int64 {
	n, err := ParseSize(s.MaxBodySize)
	if err != nil || n <= 0 {
		return constants.DefaultMaxBodyBytes
	}
	return n
}

// YAML renders the effective configuration, omitting secrets.
func (c *Configuration) YAML() ([]byte, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	var tree map[string]interface{}
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("failed to convert configuration: %w", err)
	}
	out, err := yaml.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("failed to render configuration: %w", err)
	}
	return out, nil
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10M") into bytes.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxBodyBytes, nil
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
