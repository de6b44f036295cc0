package providers

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	ConfigUserAgentKey      = "user_agent"
	ConfigAcceptKey         = "accept"
	ConfigAcceptLanguageKey = "accept_language"
	ConfigCacheControlKey   = "cache_control"

	ConfigPagesKey       = "pages"
	ConfigStartPageKey   = "start_page"
	ConfigCategoryIDKey  = "category_id"
	ConfigAuthorKey      = "author"
	ConfigPublisherIDKey = "publisher_id"
	ConfigSearchKey      = "search"
	ConfigKeywordKey     = "keyword"
)

// ConfigString returns the trimmed string value for key from provider.Config or a fallback.
// Numbers are formatted so ids such as publisher_id may be written unquoted.
func ConfigString(cfg Provider, key, fallback string) string {
	raw, ok := cfg.Config[key]
	if !ok || raw == nil {
		return fallback
	}

	var val string
	switch v := raw.(type) {
	case string:
		val = v
	case int:
		val = strconv.Itoa(v)
	case int64:
		val = strconv.FormatInt(v, 10)
	case float64:
		val = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fallback
	}
	if trimmed := strings.TrimSpace(val); trimmed != "" {
		return trimmed
	}
	return fallback
}

// ConfigInt returns the integer value for key, or fallback when the key is absent.
// YAML yields int, JSON float64; numeric strings are accepted too.
func ConfigInt(cfg Provider, key string, fallback int) (int, error) {
	raw, ok := cfg.Config[key]
	if !ok || raw == nil {
		return fallback, nil
	}

	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("config.%s must be an integer, got %v", key, v)
		}
		return int(v), nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return fallback, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("config.%s must be an integer: %w", key, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("config.%s has unsupported type %T", key, raw)
	}
}

// Headers builds the common request headers from a provider config (skips empty values).
func Headers(cfg Provider) map[string]string {
	headers := make(map[string]string, 4)

	if v := ConfigString(cfg, ConfigUserAgentKey, ""); v != "" {
		headers["User-Agent"] = v
	}
	if v := ConfigString(cfg, ConfigAcceptKey, ""); v != "" {
		headers["Accept"] = v
	}
	if v := ConfigString(cfg, ConfigAcceptLanguageKey, ""); v != "" {
		headers["Accept-Language"] = v
	}
	if v := ConfigString(cfg, ConfigCacheControlKey, ""); v != "" {
		headers["Cache-Control"] = v
	}

	return headers
}
