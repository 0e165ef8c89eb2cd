package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/worklog/data/worklog.db"
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 50
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 200
	}
	if cfg.Search.SuggestionLimit == 0 {
		cfg.Search.SuggestionLimit = 5
	}
	if cfg.History.RetentionDays == 0 {
		cfg.History.RetentionDays = 30
	}
}
