package config

import "time"

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Docs.URL == "" {
		cfg.Docs.URL = "https://docs.python-telegram-bot.org/en/stable/"
	}
	if cfg.Docs.InventoryPath == "" {
		cfg.Docs.InventoryPath = "objects.inv"
	}
	if cfg.Docs.CacheTimeoutMinutes == 0 {
		cfg.Docs.CacheTimeoutMinutes = 60
	}
	if cfg.Docs.FetchTimeout == 0 {
		cfg.Docs.FetchTimeout = 30 * time.Second
	}
	if cfg.Docs.UserAgent == "" {
		cfg.Docs.UserAgent = "docsearch (+https://github.com/hyperjump/docsearch)"
	}
	if cfg.Docs.RetryDelays == nil {
		cfg.Docs.RetryDelays = []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
	}
	if cfg.Search.CacheSize == 0 {
		cfg.Search.CacheSize = 256
	}
	if cfg.Search.PageSize == 0 {
		// Telegram answers inline queries with at most 50 results per page
		cfg.Search.PageSize = 50
	}
	if cfg.Search.ResultsPerQuery == 0 {
		cfg.Search.ResultsPerQuery = 3
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 10
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 100
	}
	if cfg.Search.MaxCombinations == 0 {
		cfg.Search.MaxCombinations = 10000
	}
	if cfg.Search.StructuralWeight == 0 {
		cfg.Search.StructuralWeight = 0.8
	}
	if cfg.Refresh.MinManualInterval == 0 {
		cfg.Refresh.MinManualInterval = 30 * time.Second
	}
	if cfg.MCP.Name == "" {
		cfg.MCP.Name = "docsearch"
	}
}
