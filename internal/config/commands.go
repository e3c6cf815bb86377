package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ReplayConfig holds settings for the replay command.
type ReplayConfig struct {
	Job      JobConfig
	In       string
	Errors   string
	LogLevel string
}

// LoadReplay merges config file, environment variables, and flags into ReplayConfig.
func LoadReplay(cfgFile string, flags *pflag.FlagSet) (ReplayConfig, error) {
	v, err := newViper(cfgFile, flags, func(v *viper.Viper) {
		setJobDefaults(v)
		v.SetDefault("in", "./data/logs.jsonl")
		v.SetDefault("errors", "./data/job_errors.jsonl")
	})
	if err != nil {
		return ReplayConfig{}, err
	}
	jobCfg, err := loadJob(v)
	if err != nil {
		return ReplayConfig{}, err
	}
	cfg := ReplayConfig{
		Job:      jobCfg,
		In:       v.GetString("in"),
		Errors:   v.GetString("errors"),
		LogLevel: v.GetString("log-level"),
	}
	if cfg.In == "" {
		return ReplayConfig{}, fmt.Errorf("in is required")
	}
	return cfg, nil
}

// ServeConfig holds settings for the serve command.
type ServeConfig struct {
	Store    StoreConfig
	HTTPAddr string
	LogLevel string
}

// LoadServe merges config file, environment variables, and flags into ServeConfig.
func LoadServe(cfgFile string, flags *pflag.FlagSet) (ServeConfig, error) {
	v, err := newViper(cfgFile, flags, func(v *viper.Viper) {
		setStoreDefaults(v)
		v.SetDefault("http-addr", ":8080")
	})
	if err != nil {
		return ServeConfig{}, err
	}
	store, err := loadStore(v)
	if err != nil {
		return ServeConfig{}, err
	}
	return ServeConfig{
		Store:    store,
		HTTPAddr: v.GetString("http-addr"),
		LogLevel: v.GetString("log-level"),
	}, nil
}

// RenderConfig holds settings for the render command.
type RenderConfig struct {
	Seed           string
	TokenID        string
	Out            string
	CollectionName string
	AssetBaseURL   string
	LogLevel       string
}

// LoadRender merges config file, environment variables, and flags into RenderConfig.
func LoadRender(cfgFile string, flags *pflag.FlagSet) (RenderConfig, error) {
	v, err := newViper(cfgFile, flags, func(v *viper.Viper) {
		v.SetDefault("out", "./data/render")
		v.SetDefault("collection-name", "Chainfusion")
		v.SetDefault("asset-base-url", "http://localhost:8080")
	})
	if err != nil {
		return RenderConfig{}, err
	}
	cfg := RenderConfig{
		Seed:           strings.TrimSpace(v.GetString("seed")),
		TokenID:        strings.TrimSpace(v.GetString("token-id")),
		Out:            v.GetString("out"),
		CollectionName: v.GetString("collection-name"),
		AssetBaseURL:   v.GetString("asset-base-url"),
		LogLevel:       v.GetString("log-level"),
	}
	if cfg.Seed == "" {
		return RenderConfig{}, fmt.Errorf("seed is required")
	}
	if cfg.TokenID == "" {
		return RenderConfig{}, fmt.Errorf("token-id is required")
	}
	return cfg, nil
}
