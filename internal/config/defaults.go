package config

// DefaultBackupIncludes are the data-dir files captured by a backup
// archive unless the config narrows them. The sqlite database is
// derived state (queue, chat, audit) and is left out.
var DefaultBackupIncludes = []string{
	"*.json",
	"photos/**",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:           8419,
		DataDir:        "data",
		Provider:       ProviderOpenAI,
		Model:          "gpt-4o-mini",
		VisionModel:    "gpt-4o",
		OllamaHost:     "http://localhost:11434",
		OllamaModel:    "llama3",
		RequestsPerMin: 20,
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Backup: BackupConfig{
			Include: DefaultBackupIncludes,
		},
	}
}
