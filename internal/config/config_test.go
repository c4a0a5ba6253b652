package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[0] != "https://a.example.com" {
			t.Fatalf("unexpected first CORS origin: %s", cfg.CORSAllowedOrigins[0])
		}
		if cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
			t.Fatalf("unexpected second CORS origin: %s", cfg.CORSAllowedOrigins[1])
		}
	})
}

func TestLoad_DBDisablePreparedBinaryResultParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("default true", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.DBDisablePreparedBinary {
			t.Fatalf("expected DBDisablePreparedBinary=true by default")
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "not-bool")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid DB_DISABLE_PREPARED_BINARY_RESULT")
		}
	})
}

func TestLoad_DBConnectRetryParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("DB_CONNECT_MAX_ATTEMPTS", "")
		t.Setenv("DB_CONNECT_RETRY_DELAY", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.DBConnectMaxAttempts != 5 {
			t.Fatalf("unexpected default DBConnectMaxAttempts: %d", cfg.DBConnectMaxAttempts)
		}
		if cfg.DBConnectRetryDelay != 2*time.Second {
			t.Fatalf("unexpected default DBConnectRetryDelay: %s", cfg.DBConnectRetryDelay)
		}
	})

	t.Run("invalid attempts", func(t *testing.T) {
		t.Setenv("DB_CONNECT_MAX_ATTEMPTS", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for DB_CONNECT_MAX_ATTEMPTS=0")
		}
	})
}

func TestLoad_CricinfoConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("CRICINFO_BASE_URL", "")
		t.Setenv("CRICINFO_TIMEOUT", "")
		t.Setenv("CRICINFO_MAX_PAGES", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.CricinfoBaseURL != "https://stats.espncricinfo.com" {
			t.Fatalf("unexpected default CricinfoBaseURL: %q", cfg.CricinfoBaseURL)
		}
		if cfg.CricinfoTimeout != 30*time.Second {
			t.Fatalf("unexpected default CricinfoTimeout: %s", cfg.CricinfoTimeout)
		}
		if cfg.CricinfoMaxPages != 50 {
			t.Fatalf("unexpected default CricinfoMaxPages: %d", cfg.CricinfoMaxPages)
		}
		if !cfg.CricinfoCircuitEnabled {
			t.Fatalf("expected CricinfoCircuitEnabled=true by default")
		}
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("CRICINFO_TIMEOUT", "15s")
		t.Setenv("CRICINFO_MAX_RETRIES", "4")
		t.Setenv("CRICINFO_MAX_PAGES", "10")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.CricinfoTimeout != 15*time.Second {
			t.Fatalf("unexpected CricinfoTimeout: %s", cfg.CricinfoTimeout)
		}
		if cfg.CricinfoMaxRetries != 4 {
			t.Fatalf("unexpected CricinfoMaxRetries: %d", cfg.CricinfoMaxRetries)
		}
		if cfg.CricinfoMaxPages != 10 {
			t.Fatalf("unexpected CricinfoMaxPages: %d", cfg.CricinfoMaxPages)
		}
	})

	t.Run("invalid retries", func(t *testing.T) {
		t.Setenv("CRICINFO_MAX_RETRIES", "-1")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for CRICINFO_MAX_RETRIES=-1")
		}
	})
}

func TestLoad_IngestDefaultStartDateParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("default", func(t *testing.T) {
		t.Setenv("INGEST_DEFAULT_START_DATE", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		want := time.Date(2022, time.August, 13, 0, 0, 0, 0, time.UTC)
		if !cfg.IngestDefaultStartDate.Equal(want) {
			t.Fatalf("unexpected default IngestDefaultStartDate: %s", cfg.IngestDefaultStartDate)
		}
	})

	t.Run("invalid date", func(t *testing.T) {
		t.Setenv("INGEST_DEFAULT_START_DATE", "13 Aug 2022")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for malformed INGEST_DEFAULT_START_DATE")
		}
	})
}

func TestLoad_RefreshMaxWorkersParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("default", func(t *testing.T) {
		t.Setenv("REFRESH_MAX_WORKERS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.RefreshMaxWorkers != 3 {
			t.Fatalf("unexpected default RefreshMaxWorkers: %d", cfg.RefreshMaxWorkers)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		t.Setenv("REFRESH_MAX_WORKERS", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for REFRESH_MAX_WORKERS=0")
		}
	})
}

func TestLoad_LogLevelParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.LogLevel.String() != "warn" {
		t.Fatalf("unexpected LogLevel: %s", cfg.LogLevel.String())
	}
}
