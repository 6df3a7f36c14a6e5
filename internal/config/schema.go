// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package config loads the loupe.hjson configuration file.
package config

// Config is the top-level configuration.
type Config struct {
	Server    ServerConfig    `json:"server"`
	Documents DocumentsConfig `json:"documents"`
	Search    SearchConfig    `json:"search"`
	Regex     RegexConfig     `json:"regex"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// DocumentsConfig configures the snapshot store and tree listing.
type DocumentsConfig struct {
	Root      string   `json:"root"`
	CacheSize int      `json:"cache_size"`
	TreeDepth int      `json:"tree_depth"`
	Ignore    []string `json:"ignore"`
}

// SearchConfig holds the caller-owned limits for multi-tab search.
type SearchConfig struct {
	BudgetMs  int `json:"budget_ms"`
	MaxPerTab int `json:"max_per_tab"`
}

// RegexConfig holds the safety-gate policy knobs.
type RegexConfig struct {
	MaxPatternLength int `json:"max_pattern_length"`
}

// applyDefaults fills zero values with defaults.
func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "127.0.0.1"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 7870
	}
	if cfg.Documents.Root == "" {
		cfg.Documents.Root = "."
	}
	if cfg.Documents.CacheSize == 0 {
		cfg.Documents.CacheSize = 32
	}
	if cfg.Documents.TreeDepth == 0 {
		cfg.Documents.TreeDepth = 10
	}
	if cfg.Documents.Ignore == nil {
		cfg.Documents.Ignore = []string{"node_modules", "target", ".git"}
	}
	if cfg.Search.BudgetMs == 0 {
		cfg.Search.BudgetMs = 5000
	}
	if cfg.Search.MaxPerTab == 0 {
		cfg.Search.MaxPerTab = 50
	}
	if cfg.Regex.MaxPatternLength == 0 {
		cfg.Regex.MaxPatternLength = 256
	}
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}
