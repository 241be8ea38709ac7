package config

import (
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load(Overrides{EnvFile: "nonexistent.env"})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.HTTPAddr != ":8080" {
			t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
		}
		if cfg.LogLevel != "info" {
			t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
		}
		if cfg.DefaultAspectRatio != 1.78 {
			t.Errorf("DefaultAspectRatio = %v, want 1.78", cfg.DefaultAspectRatio)
		}
		if cfg.DefaultSubtitleLength != 0 {
			t.Errorf("DefaultSubtitleLength = %d, want 0", cfg.DefaultSubtitleLength)
		}
	})

	t.Run("cli_overrides_take_priority", func(t *testing.T) {
		cleanup := setEnvs(t, map[string]string{
			"HTTP_ADDR": ":7070",
			"LOG_LEVEL": "warn",
		})
		defer cleanup()

		cfg, err := Load(Overrides{
			EnvFile:  "nonexistent.env",
			HTTPAddr: ":9090",
			LogLevel: "debug",
		})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.HTTPAddr != ":9090" {
			t.Errorf("HTTPAddr = %q, want :9090", cfg.HTTPAddr)
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
		}
	})

	t.Run("env_vars_read", func(t *testing.T) {
		cleanup := setEnvs(t, map[string]string{
			"DEFAULT_ASPECT_RATIO":    "0.56",
			"DEFAULT_SUBTITLE_LENGTH": "42",
			"AUTH_TOKEN":              "secret",
		})
		defer cleanup()

		cfg, err := Load(Overrides{EnvFile: "nonexistent.env"})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.DefaultAspectRatio != 0.56 {
			t.Errorf("DefaultAspectRatio = %v, want 0.56", cfg.DefaultAspectRatio)
		}
		if cfg.DefaultSubtitleLength != 42 {
			t.Errorf("DefaultSubtitleLength = %d, want 42", cfg.DefaultSubtitleLength)
		}
		if cfg.AuthToken != "secret" {
			t.Errorf("AuthToken = %q, want secret", cfg.AuthToken)
		}
	})

	t.Run("empty_overrides_use_env", func(t *testing.T) {
		cleanup := setEnvs(t, map[string]string{"HTTP_ADDR": ":7070"})
		defer cleanup()

		cfg, err := Load(Overrides{EnvFile: "nonexistent.env"})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.HTTPAddr != ":7070" {
			t.Errorf("HTTPAddr = %q, want env value :7070", cfg.HTTPAddr)
		}
	})
}

// setEnvs sets environment variables and returns a cleanup function.
func setEnvs(t *testing.T, envs map[string]string) func() {
	t.Helper()
	originals := make(map[string]string)
	unset := make([]string, 0)

	for k, v := range envs {
		if orig, ok := os.LookupEnv(k); ok {
			originals[k] = orig
		} else {
			unset = append(unset, k)
		}
		os.Setenv(k, v)
	}

	return func() {
		for k, v := range originals {
			os.Setenv(k, v)
		}
		for _, k := range unset {
			os.Unsetenv(k)
		}
	}
}
