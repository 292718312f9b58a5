package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// chdir changes the working directory for the duration of the test.
// testing.T.Chdir is unavailable before Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Embedding.Model != "text-embedding-3-large" {
		t.Errorf("embedding model default: got %s", cfg.Embedding.Model)
	}
	if cfg.Embedding.Dimensions != 3072 {
		t.Errorf("embedding dimensions default: got %d", cfg.Embedding.Dimensions)
	}
	if cfg.Search.Threshold != 0.3 {
		t.Errorf("search threshold default: got %v", cfg.Search.Threshold)
	}
	if cfg.Search.MaxResults != 5 {
		t.Errorf("search max results default: got %d", cfg.Search.MaxResults)
	}
	if cfg.Cache.TTLHours != 24 {
		t.Errorf("cache ttl default: got %d", cfg.Cache.TTLHours)
	}
	if cfg.Backfill.BatchSize != 10 || cfg.Backfill.BatchDelaySec != 1 {
		t.Errorf("backfill defaults: got %+v", cfg.Backfill)
	}
	if cfg.Chat.Model != "gpt-4o-mini" || cfg.Chat.MaxTokens != 500 {
		t.Errorf("chat defaults: got %+v", cfg.Chat)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := Config{
		Embedding: EmbeddingConfig{Model: "custom-model", Dimensions: 1536},
		Search:    SearchConfig{Threshold: 0.5, MaxResults: 10},
	}
	cfg.ApplyDefaults()

	if cfg.Embedding.Model != "custom-model" || cfg.Embedding.Dimensions != 1536 {
		t.Errorf("explicit embedding settings overwritten: %+v", cfg.Embedding)
	}
	if cfg.Search.Threshold != 0.5 || cfg.Search.MaxResults != 10 {
		t.Errorf("explicit search settings overwritten: %+v", cfg.Search)
	}
}

func validConfig() Config {
	cfg := Config{
		HTTP:      HTTPConfig{Port: 8080},
		Database:  DatabaseConfig{DSN: "postgres://localhost/flowrec"},
		Embedding: EmbeddingConfig{APIKey: "key"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(_ *Config) {}, ""},
		{"zero port", func(c *Config) { c.HTTP.Port = 0 }, "http.port"},
		{"huge port", func(c *Config) { c.HTTP.Port = 70000 }, "http.port"},
		{"missing dsn", func(c *Config) { c.Database.DSN = "" }, "database.dsn"},
		{"missing api key", func(c *Config) { c.Embedding.APIKey = "" }, "embedding.api_key"},
		{"threshold too high", func(c *Config) { c.Search.Threshold = 1.0 }, "search.threshold"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("FLOWREC_TEST_VAR", "from-env")

	cases := []struct {
		in   string
		want string
	}{
		{"dsn: ${FLOWREC_TEST_VAR}", "dsn: from-env"},
		{"dsn: ${FLOWREC_TEST_VAR:-fallback}", "dsn: from-env"},
		{"dsn: ${FLOWREC_UNSET_VAR:-fallback}", "dsn: fallback"},
		{"dsn: ${FLOWREC_UNSET_VAR}", "dsn: "},
		{"dsn: plain", "dsn: plain"},
	}

	for _, tc := range cases {
		if got := string(expandEnvVars([]byte(tc.in))); got != tc.want {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}

	content := `
http:
  port: 9090
database:
  dsn: ${FLOWREC_TEST_DSN:-postgres://localhost/flowrec}
embedding:
  api_key: test-key
auth:
  api_keys:
    - secret-1
`
	if err := os.WriteFile(filepath.Join(dir, "config", "test.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("port: got %d", cfg.HTTP.Port)
	}
	if cfg.Database.DSN != "postgres://localhost/flowrec" {
		t.Errorf("dsn: got %s", cfg.Database.DSN)
	}
	if cfg.Embedding.Model != "text-embedding-3-large" {
		t.Errorf("expected defaults applied, model=%s", cfg.Embedding.Model)
	}
	if len(cfg.Auth.APIKeys) != 1 || cfg.Auth.APIKeys[0] != "secret-1" {
		t.Errorf("api keys: got %v", cfg.Auth.APIKeys)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	chdir(t, t.TempDir())

	if _, err := Load("does-not-exist"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	content := "http:\n  port: 8080\nembedding:\n  api_key: key\n"
	if err := os.WriteFile(filepath.Join(dir, "config", "test.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)

	_, err := Load("test")
	if err == nil || !strings.Contains(err.Error(), "database.dsn") {
		t.Fatalf("expected dsn validation error, got %v", err)
	}
}
