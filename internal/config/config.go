// Package config loads command settings from a config file, ORBMINT_* environment
// variables and command flags.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"orbMint/internal/job"
)

const envPrefix = "ORBMINT"

// Store backends.
const (
	StoreFS       = "fs"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// StoreConfig selects and locates the asset store.
type StoreConfig struct {
	Kind       string
	AssetDir   string
	PGDSN      string
	SQLitePath string
}

// JobConfig holds the settings shared by commands that execute jobs.
type JobConfig struct {
	Store             StoreConfig
	RPCURLs           []string
	Contract          string
	Sender            string
	Tracker           string
	AssetBaseURL      string
	LocalAssetBaseURL string
	CollectionName    string
	RerollPolicy      string
}

// Endpoints returns the endpoint resolver for the configured RPC URLs.
func (c JobConfig) Endpoints() Endpoints {
	return Endpoints{URLs: c.RPCURLs}
}

// PrimaryRPC returns the first configured RPC URL.
func (c JobConfig) PrimaryRPC() string {
	if len(c.RPCURLs) == 0 {
		return ""
	}
	return c.RPCURLs[0]
}

// Config holds settings for the run command.
type Config struct {
	Job               JobConfig
	FromBlock         uint64
	ToBlock           uint64
	BatchSize         uint64
	Checkpoint        string
	CheckpointEnabled bool
	MaxRetries        int
	RetryBackoff      time.Duration
	HTTPAddr          string
	LogLevel          string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v, err := newViper(cfgFile, flags, func(v *viper.Viper) {
		setJobDefaults(v)
		v.SetDefault("batch-size", uint64(2000))
		v.SetDefault("checkpoint", "./data/checkpoint.json")
		v.SetDefault("checkpoint-enabled", true)
		v.SetDefault("max-retries", 5)
		v.SetDefault("retry-backoff", 500*time.Millisecond)
	})
	if err != nil {
		return Config{}, err
	}

	jobCfg, err := loadJob(v)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Job:               jobCfg,
		FromBlock:         v.GetUint64("from"),
		ToBlock:           v.GetUint64("to"),
		BatchSize:         v.GetUint64("batch-size"),
		Checkpoint:        v.GetString("checkpoint"),
		CheckpointEnabled: v.GetBool("checkpoint-enabled"),
		MaxRetries:        v.GetInt("max-retries"),
		RetryBackoff:      v.GetDuration("retry-backoff"),
		HTTPAddr:          v.GetString("http-addr"),
		LogLevel:          v.GetString("log-level"),
	}
	if cfg.BatchSize == 0 {
		return Config{}, fmt.Errorf("batch-size must be greater than zero")
	}
	if cfg.ToBlock != 0 && cfg.ToBlock < cfg.FromBlock {
		return Config{}, fmt.Errorf("to block %d is before from block %d", cfg.ToBlock, cfg.FromBlock)
	}
	return cfg, nil
}

func newViper(cfgFile string, flags *pflag.FlagSet, defaults func(*viper.Viper)) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("log-level", "info")
	if defaults != nil {
		defaults(v)
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}
	return v, nil
}

func setStoreDefaults(v *viper.Viper) {
	v.SetDefault("store", StoreFS)
	v.SetDefault("asset-dir", "./data/assets")
	v.SetDefault("sqlite-path", "./data/orbmint.db")
}

func setJobDefaults(v *viper.Viper) {
	setStoreDefaults(v)
	v.SetDefault("collection-name", "Chainfusion")
	v.SetDefault("reroll-policy", job.PolicyDocumented)
	v.SetDefault("asset-base-url", "http://localhost:8080")
	v.SetDefault("local-asset-base-url", "http://localhost:8080")
}

func loadStore(v *viper.Viper) (StoreConfig, error) {
	cfg := StoreConfig{
		Kind:       strings.ToLower(strings.TrimSpace(v.GetString("store"))),
		AssetDir:   v.GetString("asset-dir"),
		PGDSN:      v.GetString("pg-dsn"),
		SQLitePath: v.GetString("sqlite-path"),
	}
	switch cfg.Kind {
	case StoreFS:
		if cfg.AssetDir == "" {
			return StoreConfig{}, fmt.Errorf("asset-dir is required for the fs store")
		}
	case StorePostgres:
		if cfg.PGDSN == "" {
			return StoreConfig{}, fmt.Errorf("pg-dsn is required for the postgres store")
		}
	case StoreSQLite:
		if cfg.SQLitePath == "" {
			return StoreConfig{}, fmt.Errorf("sqlite-path is required for the sqlite store")
		}
	default:
		return StoreConfig{}, fmt.Errorf("unknown store %q", cfg.Kind)
	}
	return cfg, nil
}

func loadJob(v *viper.Viper) (JobConfig, error) {
	store, err := loadStore(v)
	if err != nil {
		return JobConfig{}, err
	}
	cfg := JobConfig{
		Store:             store,
		RPCURLs:           getStringSlice(v, "rpc"),
		Contract:          strings.TrimSpace(v.GetString("contract")),
		Sender:            strings.TrimSpace(v.GetString("sender")),
		Tracker:           v.GetString("tracker"),
		AssetBaseURL:      v.GetString("asset-base-url"),
		LocalAssetBaseURL: v.GetString("local-asset-base-url"),
		CollectionName:    v.GetString("collection-name"),
		RerollPolicy:      v.GetString("reroll-policy"),
	}
	if _, err := job.PolicyByName(cfg.RerollPolicy); err != nil {
		return JobConfig{}, err
	}
	return cfg, nil
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	switch typed := v.Get(key).(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return cleanStrings(strings.Split(typed, ","))
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
