package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"shortlink/internal/existence"
	"shortlink/internal/hotscore"
	"shortlink/internal/idgen"
	"shortlink/internal/logger"
	"shortlink/internal/shortcode"
	"shortlink/internal/warmup"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	envConfigFile             = "CONFIG_FILE"
	envServerAddress          = "SERVER_ADDRESS"
	envBaseURL                = "BASE_URL"
	envDatabaseDSN            = "DATABASE_DSN"
	envRedisAddress           = "REDIS_ADDRESS"
	envRedisPassword          = "REDIS_PASSWORD"
	envRedisDB                = "REDIS_DB"
	envLogLevel               = "LOG_LEVEL"
	envLogFormat              = "LOG_FORMAT"
	envMachineID              = "MACHINE_ID"
	envCodeLength             = "CODE_LENGTH"
	envFilterExpectedItems    = "FILTER_EXPECTED_ITEMS"
	envFilterFPRate           = "FILTER_FP_RATE"
	envFilterSnapshotPath     = "FILTER_SNAPSHOT_PATH"
	envWarmupEnabled          = "WARMUP_ENABLED"
	envWarmupWorkers          = "WARMUP_WORKERS"
	envWarmupWriteConcurrency = "WARMUP_WRITE_CONCURRENCY"
	envWarmupWriteTimeout     = "WARMUP_WRITE_TIMEOUT"
	envWarmupRetention        = "WARMUP_RETENTION"
	envShutdownTimeout        = "SHUTDOWN_TIMEOUT"
)

const (
	defaultServerAddress      = "localhost:8080"
	defaultBaseURL            = "http://localhost:8080"
	defaultRedisAddress       = "localhost:6379"
	defaultLogLevel           = "info"
	defaultLogFormat          = logger.FormatConsole
	defaultFilterSnapshotPath = "tmp/existence.bloom"
	defaultShutdownTimeout    = 15 * time.Second
	defaultCreateMaxAttempts  = 5
	defaultLinkCacheTTL       = time.Hour
)

var ErrInvalidConfig = errors.New("invalid config")

// Warmup is the block that may come from the YAML file.
type Warmup struct {
	Engine   warmup.Config         `yaml:"engine"`
	Schedule warmup.ScheduleConfig `yaml:"schedule"`
	Weights  hotscore.Weights      `yaml:"weights"`
}

type Config struct {
	ServerAddress   string
	BaseURL         string
	ShutdownTimeout time.Duration

	// DatabaseDSN selects the Postgres store; empty runs on the in-memory one.
	DatabaseDSN string

	RedisAddress  string
	RedisPassword string
	RedisDB       int

	LogLevel  string
	LogFormat string

	MachineID         int64
	CodeLength        int
	CreateMaxAttempts int
	LinkCacheTTL      time.Duration

	FilterExpectedItems uint
	FilterFPRate        float64
	// FilterSnapshotPath is where the filter is saved on shutdown. Empty disables snapshots.
	FilterSnapshotPath string

	Warmup Warmup
}

func Default() Config {
	return Config{
		ServerAddress:       defaultServerAddress,
		BaseURL:             defaultBaseURL,
		ShutdownTimeout:     defaultShutdownTimeout,
		RedisAddress:        defaultRedisAddress,
		LogLevel:            defaultLogLevel,
		LogFormat:           defaultLogFormat,
		CodeLength:          shortcode.DefaultLength,
		CreateMaxAttempts:   defaultCreateMaxAttempts,
		LinkCacheTTL:        defaultLinkCacheTTL,
		FilterExpectedItems: existence.DefaultExpectedItems,
		FilterFPRate:        existence.DefaultFalsePositiveRate,
		FilterSnapshotPath:  defaultFilterSnapshotPath,
		Warmup: Warmup{
			Engine:   warmup.DefaultConfig(),
			Schedule: warmup.DefaultScheduleConfig(),
			Weights:  hotscore.DefaultWeights(),
		},
	}
}

func NewConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load builds the config from defaults, command-line flags, the YAML file
// (warmup block only) and environment variables, each layer overriding the
// previous one.
func Load(args []string) (*Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("shortlink", flag.ContinueOnError)
	configFile := fs.String("config", "", "YAML file with the warmup block")
	fs.StringVar(&cfg.ServerAddress, "server-address", cfg.ServerAddress, "Server address")
	fs.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "Base URL of short links")
	fs.StringVar(&cfg.DatabaseDSN, "database-dsn", cfg.DatabaseDSN, "Postgres DSN, empty for in-memory store")
	fs.StringVar(&cfg.RedisAddress, "redis-address", cfg.RedisAddress, "Redis address")
	fs.IntVar(&cfg.RedisDB, "redis-db", cfg.RedisDB, "Redis database")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: console or json")
	fs.Int64Var(&cfg.MachineID, "machine-id", cfg.MachineID, "Snowflake machine id (0-1023)")
	fs.IntVar(&cfg.CodeLength, "code-length", cfg.CodeLength, "Short code length")
	fs.UintVar(&cfg.FilterExpectedItems, "filter-expected-items", cfg.FilterExpectedItems, "Existence filter capacity")
	fs.Float64Var(&cfg.FilterFPRate, "filter-fp-rate", cfg.FilterFPRate, "Existence filter false positive rate")
	fs.StringVar(&cfg.FilterSnapshotPath, "filter-snapshot-path", cfg.FilterSnapshotPath, "Existence filter snapshot file")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "Graceful shutdown timeout")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	path := *configFile
	if v, ok := os.LookupEnv(envConfigFile); ok {
		path = v
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnvs(); err != nil {
		return nil, err
	}

	cfg.normalizeServerAddress()
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var file struct {
		Warmup *Warmup `yaml:"warmup"`
	}
	file.Warmup = &c.Warmup
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
	}
	return nil
}

func (c *Config) applyEnvs() error {
	return errors.Join(
		c.applyEnv(envServerAddress, &c.ServerAddress),
		c.applyEnv(envBaseURL, &c.BaseURL),
		c.applyEnv(envDatabaseDSN, &c.DatabaseDSN),
		c.applyEnv(envRedisAddress, &c.RedisAddress),
		c.applyEnv(envRedisPassword, &c.RedisPassword),
		c.applyEnvInt(envRedisDB, &c.RedisDB),
		c.applyEnv(envLogLevel, &c.LogLevel),
		c.applyEnv(envLogFormat, &c.LogFormat),
		c.applyEnvInt64(envMachineID, &c.MachineID),
		c.applyEnvInt(envCodeLength, &c.CodeLength),
		c.applyEnvUint(envFilterExpectedItems, &c.FilterExpectedItems),
		c.applyEnvFloat(envFilterFPRate, &c.FilterFPRate),
		c.applyEnv(envFilterSnapshotPath, &c.FilterSnapshotPath),
		c.applyEnvBool(envWarmupEnabled, &c.Warmup.Schedule.Enabled),
		c.applyEnvInt(envWarmupWorkers, &c.Warmup.Engine.Workers),
		c.applyEnvInt(envWarmupWriteConcurrency, &c.Warmup.Engine.WriteConcurrency),
		c.applyEnvDuration(envWarmupWriteTimeout, &c.Warmup.Engine.WriteTimeout),
		c.applyEnvDuration(envWarmupRetention, &c.Warmup.Engine.Retention),
		c.applyEnvDuration(envShutdownTimeout, &c.ShutdownTimeout),
	)
}

func (c *Config) applyEnv(key string, target *string) error {
	if val, ok := os.LookupEnv(key); ok {
		*target = val
	}
	return nil
}

func (c *Config) applyEnvInt(key string, target *int) error {
	return applyParsed(key, target, strconv.Atoi)
}

func (c *Config) applyEnvInt64(key string, target *int64) error {
	return applyParsed(key, target, func(s string) (int64, error) {
		return strconv.ParseInt(s, 10, 64)
	})
}

func (c *Config) applyEnvUint(key string, target *uint) error {
	return applyParsed(key, target, func(s string) (uint, error) {
		v, err := strconv.ParseUint(s, 10, 0)
		return uint(v), err
	})
}

func (c *Config) applyEnvFloat(key string, target *float64) error {
	return applyParsed(key, target, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}

func (c *Config) applyEnvBool(key string, target *bool) error {
	return applyParsed(key, target, strconv.ParseBool)
}

func (c *Config) applyEnvDuration(key string, target *time.Duration) error {
	return applyParsed(key, target, time.ParseDuration)
}

func applyParsed[T any](key string, target *T, parse func(string) (T, error)) error {
	val, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	v, err := parse(val)
	if err != nil {
		return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, val, err)
	}
	*target = v
	return nil
}

func (c *Config) normalizeServerAddress() {
	if strings.HasPrefix(c.ServerAddress, ":") {
		c.ServerAddress = "localhost" + c.ServerAddress
	}
}

// Validate reports every out-of-range setting at once.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.ServerAddress == "" {
		fail("server address is empty")
	}
	if u, err := url.Parse(c.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		fail("base url %q must be an absolute http(s) url", c.BaseURL)
	}
	if c.RedisAddress == "" {
		fail("redis address is empty")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		fail("log level %q", c.LogLevel)
	}
	if c.LogFormat != logger.FormatConsole && c.LogFormat != logger.FormatJSON {
		fail("log format %q, want %s or %s", c.LogFormat, logger.FormatConsole, logger.FormatJSON)
	}
	if c.MachineID < 0 || c.MachineID > idgen.MaxMachineID {
		fail("machine id %d not in [0, %d]", c.MachineID, idgen.MaxMachineID)
	}
	if c.CodeLength < shortcode.MinLength || c.CodeLength > shortcode.MaxLength {
		fail("code length %d not in [%d, %d]", c.CodeLength, shortcode.MinLength, shortcode.MaxLength)
	}
	if c.CreateMaxAttempts < 1 {
		fail("create max attempts must be positive")
	}
	if c.FilterExpectedItems == 0 {
		fail("filter expected items must be positive")
	}
	if c.FilterFPRate <= 0 || c.FilterFPRate >= 1 {
		fail("filter false positive rate %v not in (0, 1)", c.FilterFPRate)
	}
	if c.ShutdownTimeout <= 0 {
		fail("shutdown timeout must be positive")
	}

	e := c.Warmup.Engine
	if e.Workers < 1 || e.QueueSize < 1 || e.WriteConcurrency < 1 {
		fail("warmup workers, queue size and write concurrency must be positive")
	}
	if e.WriteTimeout <= 0 || e.BaseTTL <= 0 || e.Retention <= 0 {
		fail("warmup write timeout, base ttl and retention must be positive")
	}

	s := c.Warmup.Schedule
	for name, spec := range map[string]string{
		"hot_links_cron":      s.HotLinksCron,
		"recent_cron":         s.RecentCron,
		"full_cron":           s.FullCron,
		"cleanup_cron":        s.CleanupCron,
		"filter_rebuild_cron": s.FilterRebuildCron,
	} {
		if spec == "" {
			continue
		}
		if err := warmup.ValidateCron(spec); err != nil {
			fail("%s: %v", name, err)
		}
	}
	for name, limit := range map[string]int{
		"hot_links_limit": s.HotLinksLimit,
		"recent_limit":    s.RecentLimit,
		"full_limit":      s.FullLimit,
	} {
		if limit < 1 || limit > warmup.MaxLimit {
			fail("%s %d not in [1, %d]", name, limit, warmup.MaxLimit)
		}
	}
	if s.BatchSize < 1 || s.BatchSize > warmup.MaxBatchSize {
		fail("batch size %d not in [1, %d]", s.BatchSize, warmup.MaxBatchSize)
	}
	if s.StartupDelay < 0 {
		fail("startup delay must not be negative")
	}

	if err := c.Warmup.Weights.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
	}

	return errors.Join(errs...)
}

// HotScore returns the calculator config with the configured weights.
func (c *Config) HotScore() hotscore.Config {
	cfg := hotscore.DefaultConfig()
	cfg.Weights = c.Warmup.Weights
	return cfg
}
