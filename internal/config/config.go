package config

import (
	"bytes"
	_ "embed"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed defaults.yaml
var defaults []byte

// ---- Root ----

type Config struct {
	HTTP      HTTPConfig      `mapstructure:"http"`
	Links     LinksConfig     `mapstructure:"links"`
	Mail      MailConfig      `mapstructure:"mail"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Cleanup   CleanupConfig   `mapstructure:"cleanup"`
	Log       LogConfig       `mapstructure:"log"`
}

// ---- Leaf structs ----

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
	Port string `mapstructure:"port"`
}

// ListenAddr resolves the listen address; a bare port (legacy PORT env)
// takes effect only when no full address is set.
func (h HTTPConfig) ListenAddr() string {
	if h.Addr != "" {
		return h.Addr
	}
	if h.Port != "" {
		return ":" + h.Port
	}
	return ":3001"
}

type LinksConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	EnforceRegistry bool          `mapstructure:"enforce_registry"`
	RegistryTTL     time.Duration `mapstructure:"registry_ttl"`
}

type MailConfig struct {
	Transport string        `mapstructure:"transport"` // smtp | ses
	Host      string        `mapstructure:"host"`
	Port      string        `mapstructure:"port"`
	Username  string        `mapstructure:"username"`
	Password  string        `mapstructure:"password"`
	FromName  string        `mapstructure:"from_name"`
	Reviewer  string        `mapstructure:"reviewer"`
	Region    string        `mapstructure:"region"` // ses only
	Breaker   BreakerConfig `mapstructure:"breaker"`
}

type BreakerConfig struct {
	FailThreshold int           `mapstructure:"fail_threshold"`
	OpenFor       time.Duration `mapstructure:"open_for"`
}

type RedisConfig struct {
	Addr        string        `mapstructure:"addr"` // empty disables redis
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

type RateLimitConfig struct {
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

type CleanupConfig struct {
	Delay time.Duration `mapstructure:"delay"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads embedded defaults, merges user YAML (if provided), and applies
// env overrides (PAYLINK_*). The legacy flat env names of the original
// deployment are bound to their keys so existing environments keep working.
func Load(path string) (Config, error) {
	v := viper.New()

	// embedded defaults
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return Config{}, err
	}

	if path != "" {
		v.SetConfigFile(path)
		_ = v.MergeInConfig()
	}

	// env override (PAYLINK_*)
	v.SetEnvPrefix("PAYLINK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// legacy env names
	_ = v.BindEnv("mail.username", "PAYLINK_MAIL_USERNAME", "EMAIL_USER")
	_ = v.BindEnv("mail.password", "PAYLINK_MAIL_PASSWORD", "EMAIL_PASS")
	_ = v.BindEnv("mail.reviewer", "PAYLINK_MAIL_REVIEWER", "RESPONSIBLE_EMAIL")
	_ = v.BindEnv("links.base_url", "PAYLINK_LINKS_BASE_URL", "FRONTEND_URL")
	_ = v.BindEnv("http.port", "PAYLINK_HTTP_PORT", "PORT")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
