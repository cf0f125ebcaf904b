package config

import (
	"testing"
	"time"

	"github.com/riskibarqy/fixture-sync/internal/platform/logging"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("API_FOOTBALL_KEY_SECRET_REF", "projects/123/secrets/rapid-api/versions/1")
	t.Setenv("SECRET_PROVIDER", SecretProviderEnv)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "false")
}

func TestLoad_AppEnvValidation(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.APIFootballTimeout != 20*time.Second {
		t.Fatalf("unexpected APIFootballTimeout: %s", cfg.APIFootballTimeout)
	}
	if cfg.APIFootballLeagueID != 39 {
		t.Fatalf("unexpected APIFootballLeagueID: %d", cfg.APIFootballLeagueID)
	}
	if cfg.PipelineWorkers != 10 {
		t.Fatalf("unexpected PipelineWorkers: %d", cfg.PipelineWorkers)
	}
	if cfg.StoreBackend != StoreBackendPostgres {
		t.Fatalf("unexpected StoreBackend: %s", cfg.StoreBackend)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected LogLevel: %s", cfg.LogLevel)
	}
	if cfg.SecretCacheTTL != 5*time.Minute {
		t.Fatalf("unexpected SecretCacheTTL: %s", cfg.SecretCacheTTL)
	}
}

func TestLoad_RequiresSecretRef(t *testing.T) {
	setRequired(t)
	t.Setenv("API_FOOTBALL_KEY_SECRET_REF", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when API_FOOTBALL_KEY_SECRET_REF is empty")
	}
}

func TestLoad_GCPProviderRequiresAccessToken(t *testing.T) {
	setRequired(t)
	t.Setenv("SECRET_PROVIDER", SecretProviderGCP)
	t.Setenv("SECRET_MANAGER_ACCESS_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when SECRET_PROVIDER=gcp without access token")
	}

	t.Setenv("SECRET_MANAGER_ACCESS_TOKEN", "ya29.token")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.SecretManagerAccessToken != "ya29.token" {
		t.Fatalf("unexpected SecretManagerAccessToken: %q", cfg.SecretManagerAccessToken)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"PIPELINE_WORKERS":       "0",
		"API_FOOTBALL_TIMEOUT":   "nope",
		"API_FOOTBALL_LEAGUE_ID": "-1",
		"STORE_BACKEND":          "firestore",
		"SECRET_CACHE_TTL":       "-1s",
		"CACHE_ENABLED":          "maybe",
	}

	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}

func TestLoad_SecretCacheCanBeDisabled(t *testing.T) {
	setRequired(t)
	t.Setenv("SECRET_CACHE_TTL", "0s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.SecretCacheTTL != 0 {
		t.Fatalf("expected disabled secret cache, got %s", cfg.SecretCacheTTL)
	}
}

func TestSplitCSV(t *testing.T) {
	got := splitCSV(" a, ,b ,")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected split: %#v", got)
	}
}
