package config

import (
	"strings"
	"testing"
)

func TestValidate_Defaults(t *testing.T) {
	if err := validate(DefaultConfig()); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidate_BadPort(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Port = 0

	err := validate(cfg)
	if err == nil {
		t.Fatal("expected error for port 0")
	}
	if !strings.Contains(err.Error(), "server.port") {
		t.Errorf("error should mention server.port: %v", err)
	}
}

func TestValidate_BadLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.LogLevel = "verbose"

	if err := validate(cfg); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}

func TestValidate_EmptyDataDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.DataDir = ""

	if err := validate(cfg); err == nil {
		t.Fatal("expected error for empty data_dir")
	}
}

func TestValidate_TLSRequiresFiles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.TLSEnabled = true

	err := validate(cfg)
	if err == nil {
		t.Fatal("expected error when TLS is enabled without cert/key")
	}
	if !strings.Contains(err.Error(), "cert_file") || !strings.Contains(err.Error(), "key_file") {
		t.Errorf("error should mention cert_file and key_file: %v", err)
	}
}

func TestValidate_NegativeCacheEntries(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.MaxEntries = -1

	if err := validate(cfg); err == nil {
		t.Fatal("expected error for negative cache.max_entries")
	}
}

func TestValidate_BadTracingExporter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tracing.Enabled = true
	cfg.Tracing.Exporter = "jaeger"

	err := validate(cfg)
	if err == nil {
		t.Fatal("expected error for unknown tracing exporter")
	}
	if !strings.Contains(err.Error(), "tracing.exporter") {
		t.Errorf("error should mention tracing.exporter: %v", err)
	}
}

func TestValidate_TracingDisabledSkipsExporterCheck(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tracing.Enabled = false
	cfg.Tracing.Exporter = "jaeger"

	if err := validate(cfg); err != nil {
		t.Fatalf("disabled tracing should not validate exporter: %v", err)
	}
}

func TestValidate_TracingSampleRateRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tracing.SampleRate = 1.5

	if err := validate(cfg); err == nil {
		t.Fatal("expected error for sample_rate > 1")
	}

	cfg.Tracing.SampleRate = -0.1
	if err := validate(cfg); err == nil {
		t.Fatal("expected error for negative sample_rate")
	}
}

func TestIsValidEnum_CaseInsensitive(t *testing.T) {
	if !isValidEnum("DEBUG", ValidLogLevels) {
		t.Error("DEBUG should be a valid log level")
	}
	if isValidEnum("loud", ValidLogLevels) {
		t.Error("loud should not be a valid log level")
	}
}
