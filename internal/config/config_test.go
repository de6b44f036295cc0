package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(viper.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBaseURL != "https://www.wanandroid.com/" {
		t.Fatalf("unexpected api_base_url %q", cfg.APIBaseURL)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Fatalf("unexpected http timeout %v", cfg.HTTPTimeout)
	}
	if cfg.CrawlInterval != 15*time.Minute {
		t.Fatalf("unexpected crawl interval %v", cfg.CrawlInterval)
	}
	if cfg.StorageTTL != 14*24*time.Hour || cfg.StorageCleanupInterval != 12*time.Hour {
		t.Fatalf("unexpected storage durations ttl=%v cleanup=%v", cfg.StorageTTL, cfg.StorageCleanupInterval)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://localhost:9000/mock/")
	t.Setenv("CRAWL_INTERVAL", "60")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := load(viper.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:9000/mock/" {
		t.Fatalf("api_base_url not overridden: %q", cfg.APIBaseURL)
	}
	if cfg.CrawlInterval != time.Minute {
		t.Fatalf("crawl interval not overridden: %v", cfg.CrawlInterval)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log level not overridden: %q", cfg.LogLevel)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"CRAWL_INTERVAL":       "0",
		"HTTP_TIMEOUT_SECONDS": "-1",
		"STORAGE_TTL_SECONDS":  "0",
		"API_BASE_URL":         "not a url",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			if _, err := load(viper.New()); err == nil {
				t.Fatalf("expected error for %s=%s", key, val)
			}
		})
	}
}
