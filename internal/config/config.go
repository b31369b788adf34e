// Package config loads Feishu app credentials and client settings.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethrylan/feishu-reader/internal/feishu"
	"gopkg.in/yaml.v3"
)

const defaultTimeout = 30 * time.Second

// Config holds everything needed to build a feishu.Client.
type Config struct {
	AppID     string `yaml:"app_id"`
	AppSecret string `yaml:"app_secret"`
	BaseURL   string `yaml:"base_url"`

	// HomeDepartment overrides auto-discovery of the home department.
	HomeDepartment string `yaml:"home_department"`

	// AccessToken is a pre-issued app access token. When set, the app
	// credentials are not exchanged at the token endpoint.
	AccessToken string `yaml:"access_token"`

	Timeout time.Duration `yaml:"timeout"`
}

// Load builds a Config from defaults, an optional YAML file, a .env file in
// the working directory and FEISHU_* environment variables, in increasing
// order of precedence. path falls back to FEISHU_CONFIG.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	cfg := &Config{
		BaseURL: feishu.DefaultBaseURL,
		Timeout: defaultTimeout,
	}

	if path == "" {
		path = os.Getenv("FEISHU_CONFIG")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.AppID, "FEISHU_APP_ID")
	setString(&c.AppSecret, "FEISHU_APP_SECRET")
	setString(&c.BaseURL, "FEISHU_BASE_URL")
	setString(&c.HomeDepartment, "FEISHU_HOME_DEPARTMENT")
	setString(&c.AccessToken, "FEISHU_ACCESS_TOKEN")

	if v := os.Getenv("FEISHU_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: FEISHU_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks that the config can produce a working client.
func (c *Config) Validate() error {
	if c.AccessToken == "" && (c.AppID == "" || c.AppSecret == "") {
		return errors.New("config: FEISHU_APP_ID and FEISHU_APP_SECRET are required (or set FEISHU_ACCESS_TOKEN)")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: base URL %q must be an absolute http(s) URL", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config: timeout must be positive, got %s", c.Timeout)
	}
	return nil
}
