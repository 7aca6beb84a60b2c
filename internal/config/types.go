package config

// ProviderType identifies an AI provider backend.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// Config is the top-level seachest server configuration, corresponding
// to seachest.yml.
type Config struct {
	Port            int          `yaml:"port" koanf:"port"`
	DataDir         string       `yaml:"data_dir" koanf:"data_dir"`
	AllowAllOrigins bool         `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	Provider        ProviderType `yaml:"provider" koanf:"provider"`
	Model           string       `yaml:"model" koanf:"model"`
	VisionModel     string       `yaml:"vision_model" koanf:"vision_model"`
	OllamaHost      string       `yaml:"ollama_host" koanf:"ollama_host"`
	OllamaModel     string       `yaml:"ollama_model" koanf:"ollama_model"`
	RequestsPerMin  int          `yaml:"requests_per_min" koanf:"requests_per_min"`
	Log             LogConfig    `yaml:"log" koanf:"log"`
	Backup          BackupConfig `yaml:"backup" koanf:"backup"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level" koanf:"level"`
	Format string `yaml:"format" koanf:"format"`
}

// BackupConfig holds data backup settings.
type BackupConfig struct {
	// Include lists glob patterns (doublestar syntax) selecting data-dir
	// files for backup archives.
	Include []string `yaml:"include" koanf:"include"`
}
