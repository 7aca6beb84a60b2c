package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Port != 8419 {
		t.Errorf("port = %d", cfg.Port)
	}
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("provider = %s", cfg.Provider)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("log config = %+v", cfg.Log)
	}
	if len(cfg.Backup.Include) == 0 {
		t.Error("default backup includes must not be empty")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seachest.yml")

	cfg := DefaultConfig()
	cfg.Port = 9000
	cfg.Provider = ProviderOllama
	cfg.OllamaModel = "mistral"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Port != 9000 {
		t.Errorf("port = %d", loaded.Port)
	}
	if loaded.Provider != ProviderOllama {
		t.Errorf("provider = %s", loaded.Provider)
	}
	if loaded.OllamaModel != "mistral" {
		t.Errorf("ollama_model = %s", loaded.OllamaModel)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != DefaultConfig().Port {
		t.Errorf("missing file should fall back to defaults, port = %d", cfg.Port)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	os.Setenv("SEACHEST_PORT", "7777")
	os.Setenv("SEACHEST_MODEL", "gpt-4o")
	defer os.Unsetenv("SEACHEST_PORT")
	defer os.Unsetenv("SEACHEST_MODEL")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 7777 {
		t.Errorf("env port override not applied: %d", cfg.Port)
	}
	if cfg.Model != "gpt-4o" {
		t.Errorf("env model override not applied: %s", cfg.Model)
	}
}

func TestValidateInvalidProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "anthropic"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown provider should fail validation")
	}
}

func TestValidateBadPort(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("port 0 should fail validation")
	}
	cfg.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("port above 65535 should fail validation")
	}
}

func TestValidateEmptyModel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model = ""
	if err := cfg.Validate(); err == nil {
		t.Error("empty model should fail validation")
	}
}

func TestValidateEmptyDataDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = ""
	if err := cfg.Validate(); err == nil {
		t.Error("empty data_dir should fail validation")
	}
}

func TestValidateNegativeRate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RequestsPerMin = -1
	if err := cfg.Validate(); err == nil {
		t.Error("negative requests_per_min should fail validation")
	}
}

func TestAPIKeyEnvVar(t *testing.T) {
	if got := APIKeyEnvVar(ProviderOpenAI); got != "OPENAI_API_KEY" {
		t.Errorf("openai key var = %q", got)
	}
	if got := APIKeyEnvVar(ProviderOllama); got != "" {
		t.Errorf("ollama needs no key, got %q", got)
	}
}
