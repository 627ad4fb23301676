package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/hjson/hjson-go"

	"github.com/probekit/geoquorum/sources"
)

const (
	DefaultHTTPTimeout       = 10 * time.Second
	DefaultRateLimitInterval = 100 * time.Millisecond
	DefaultRateLimitBurst    = 10
	DefaultCacheTTLSeconds   = 3600
	DefaultCacheSize         = 16384
)

var validSourceNames = map[string]bool{
	sources.NameIPInfo:      true,
	sources.NameMaxmind:     true,
	sources.NameIP2Location: true,
	sources.NameIPStack:     true,
	sources.NameDBIP:        true,
}

type duration struct {
	time.Duration
}

func (d *duration) UnmarshalJSON(b []byte) error {
	var v interface{}

	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("cannot unmarshal duration: %w", err)
	}

	vv, ok := v.(string)
	if !ok {
		return fmt.Errorf("incorrect duration: %v", v)
	}

	dur, err := time.ParseDuration(vv)
	if err != nil {
		return fmt.Errorf("cannot parse duration: %w", err)
	}

	d.Duration = dur

	return nil
}

type config struct {
	Listen            string         `json:"listen"`
	BasicAuthUser     string         `json:"basic_auth_user"`
	BasicAuthPassword string         `json:"basic_auth_password"`
	AllowlistPath     string         `json:"allowlist_path"`
	CacheTTLSeconds   uint           `json:"cache_ttl_seconds"`
	CacheSize         uint           `json:"cache_size"`
	SourceTimeout     duration       `json:"source_timeout"`
	WorkerPoolSize    uint           `json:"worker_pool_size"`
	Sources           []configSource `json:"sources"`
}

func (c config) GetListen() string {
	if c.Listen != "" {
		return c.Listen
	}

	return "127.0.0.1:8000"
}

func (c config) GetCacheTTL() time.Duration {
	if c.CacheTTLSeconds == 0 {
		return DefaultCacheTTLSeconds * time.Second
	}

	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func (c config) GetCacheSize() uint {
	if c.CacheSize == 0 {
		return DefaultCacheSize
	}

	return c.CacheSize
}

// configSource describes a single source. The order of sources within
// a config is their priority order.
type configSource struct {
	Name               string            `json:"name"`
	RateLimitInterval  duration          `json:"rate_limit_interval"`
	RateLimitBurst     uint              `json:"rate_limit_burst"`
	HTTPTimeout        duration          `json:"http_timeout"`
	SpecificParameters map[string]string `json:"specific_parameters"`
}

func (c configSource) GetRateLimitInterval() time.Duration {
	if c.RateLimitInterval.Duration == 0 {
		return DefaultRateLimitInterval
	}

	return c.RateLimitInterval.Duration
}

func (c configSource) GetRateLimitBurst() int {
	if c.RateLimitBurst == 0 {
		return DefaultRateLimitBurst
	}

	return int(c.RateLimitBurst)
}

func (c configSource) GetHTTPTimeout() time.Duration {
	if c.HTTPTimeout.Duration == 0 {
		return DefaultHTTPTimeout
	}

	return c.HTTPTimeout.Duration
}

func (c configSource) GetSpecificParameters() map[string]string {
	if c.SpecificParameters == nil {
		return map[string]string{}
	}

	return c.SpecificParameters
}

func parseConfig(reader io.Reader) (*config, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	conf := config{}
	rawMap := map[string]interface{}{}

	if err := hjson.Unmarshal(content, &rawMap); err != nil {
		return nil, fmt.Errorf("cannot parse json: %w", err)
	}

	rawBytes, err := json.Marshal(rawMap)
	if err != nil {
		return nil, fmt.Errorf("cannot convert to json: %w", err)
	}

	if err := json.Unmarshal(rawBytes, &conf); err != nil {
		return nil, fmt.Errorf("cannot parse config: %w", err)
	}

	if len(conf.Sources) == 0 {
		return nil, fmt.Errorf("at least one source has to be configured")
	}

	for _, v := range conf.Sources {
		if !validSourceNames[v.Name] {
			return nil, fmt.Errorf("unknown source %s", v.Name)
		}
	}

	return &conf, nil
}
