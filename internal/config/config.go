package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
}

// EthereumConfig holds ledger log source configuration
type EthereumConfig struct {
	RPCURL               string        `mapstructure:"rpc_url"`
	ContractAddress      string        `mapstructure:"contract_address"`
	WindowBlocks         uint64        `mapstructure:"window_blocks"`
	MaxRangeBlocks       uint64        `mapstructure:"max_range_blocks"`
	ChunkBlocks          uint64        `mapstructure:"chunk_blocks"`
	MinChunkBlocks       uint64        `mapstructure:"min_chunk_blocks"`
	MaxRetries           uint64        `mapstructure:"max_retries"`
	BlockHeadTTL         time.Duration `mapstructure:"block_head_ttl"`
	BlockHeadStaleWindow time.Duration `mapstructure:"block_head_stale_window"`
	BlockTimestampTTL    time.Duration `mapstructure:"block_timestamp_ttl"`
}

// CacheConfig holds snapshot cache configuration
type CacheConfig struct {
	HistoryTTL           time.Duration `mapstructure:"history_ttl"`
	ActivityTTL          time.Duration `mapstructure:"activity_ttl"`
	PruneInterval        time.Duration `mapstructure:"prune_interval"`
	DefaultActivityLimit int           `mapstructure:"default_activity_limit"`
}

// WorkerConfig holds worker configuration
type WorkerConfig struct {
	PoolSize int `mapstructure:"pool_size"`
}

// APIConfig holds configuration for the API server
type APIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig   `mapstructure:"server"`
	Ethereum   EthereumConfig `mapstructure:"ethereum"`
	Cache      CacheConfig    `mapstructure:"cache"`
	Worker     WorkerConfig   `mapstructure:"worker"`
}

// LoadAPIConfig loads configuration for the API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.idle_timeout", 60)
	v.SetDefault("ethereum.window_blocks", 14400)
	v.SetDefault("ethereum.max_range_blocks", 100000)
	v.SetDefault("ethereum.chunk_blocks", 3000)
	v.SetDefault("ethereum.min_chunk_blocks", 100)
	v.SetDefault("ethereum.max_retries", 3)
	v.SetDefault("ethereum.block_head_ttl", "12s")
	v.SetDefault("ethereum.block_head_stale_window", "60s")
	v.SetDefault("ethereum.block_timestamp_ttl", "0s")
	v.SetDefault("cache.history_ttl", "5m")
	v.SetDefault("cache.activity_ttl", "5m")
	v.SetDefault("cache.prune_interval", "10m")
	v.SetDefault("cache.default_activity_limit", 10)
	v.SetDefault("worker.pool_size", 10)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config APIConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Ethereum.RPCURL == "" {
		return nil, errors.New("ethereum.rpc_url is required")
	}
	if config.Ethereum.ContractAddress == "" {
		return nil, errors.New("ethereum.contract_address is required")
	}

	return &config, nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Search for config.yaml in multiple locations:
		// 1. Current directory
		v.AddConfigPath(".")
		// 2. Service-specific directory (e.g., cmd/api/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("PROVENANCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		// Ethereum
		"ethereum.rpc_url",
		"ethereum.contract_address",
		"ethereum.window_blocks",
		"ethereum.max_range_blocks",
		"ethereum.chunk_blocks",
		"ethereum.min_chunk_blocks",
		"ethereum.max_retries",
		"ethereum.block_head_ttl",
		"ethereum.block_head_stale_window",
		"ethereum.block_timestamp_ttl",
		// Cache
		"cache.history_ttl",
		"cache.activity_ttl",
		"cache.prune_interval",
		"cache.default_activity_limit",
		// Worker
		"worker.pool_size",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	// Default to config directory
	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}
