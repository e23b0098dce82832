package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig err=%v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("port=%d want=8080", cfg.Server.Port)
	}
	if cfg.Aggregator.AdapterTimeout != 12*time.Second {
		t.Fatalf("adapter_timeout=%v want=12s", cfg.Aggregator.AdapterTimeout)
	}
	if cfg.Aggregator.DefaultLimit != 50 || cfg.Aggregator.MaxLimit != 500 {
		t.Fatalf("limits=%d/%d", cfg.Aggregator.DefaultLimit, cfg.Aggregator.MaxLimit)
	}
	if cfg.Series.MinRealPoints != 10 {
		t.Fatalf("min_real_points=%d want=10", cfg.Series.MinRealPoints)
	}
	if len(cfg.Aggregator.EnabledPlatforms) != 3 {
		t.Fatalf("enabled_platforms=%v", cfg.Aggregator.EnabledPlatforms)
	}
	for _, name := range cfg.Aggregator.EnabledPlatforms {
		if _, ok := cfg.Platforms[name]; !ok {
			t.Fatalf("platform %s has no config", name)
		}
	}
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: 9090
aggregator:
  enabled_platforms: [limitless]
  adapter_timeout: 3s
  default_limit: 900
  max_limit: 100
platforms:
  limitless:
    base_url: http://localhost:1234
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LIMITLESS_PROXY", "http://127.0.0.1:7890")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig err=%v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Fatalf("port=%d want=9090", cfg.Server.Port)
	}
	if cfg.Aggregator.AdapterTimeout != 3*time.Second {
		t.Fatalf("adapter_timeout=%v want=3s", cfg.Aggregator.AdapterTimeout)
	}
	// default_limit 超过上限时回落
	if cfg.Aggregator.DefaultLimit != 50 {
		t.Fatalf("default_limit=%d want=50", cfg.Aggregator.DefaultLimit)
	}
	p := cfg.Platforms["limitless"]
	if p.BaseURL != "http://localhost:1234" || p.Proxy != "http://127.0.0.1:7890" {
		t.Fatalf("limitless=%+v", p)
	}
	if p.Timeout != 3 {
		t.Fatalf("timeout=%d want=3", p.Timeout)
	}
}
