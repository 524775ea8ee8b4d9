package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 2333
	defaultEnv        = "development"

	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "inkvault"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "Local"

	defaultRedisURL = "redis://localhost:6379/0"

	defaultMaxDevices    = 2
	defaultCategoryLimit = 2
	defaultClaimPrefix   = "INK"
	defaultLinkTTLHours  = 72
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int             `yaml:"port"`
	Env            string          `yaml:"env"` // "development" | "production"
	Database       DatabaseConfig  `yaml:"database"`
	RedisURL       string          `yaml:"redis_url"`
	AllowedOrigins []string        `yaml:"allowed_origins"`
	Licensing      LicensingConfig `yaml:"licensing"`
	Mail           MailConfig      `yaml:"mail"`
	Gateway        GatewayConfig   `yaml:"gateway"`
	AdminToken     string          `yaml:"admin_token"`
	JWTSecret      string          `yaml:"jwt_secret"`
}

type DatabaseConfig struct {
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Charset  string `yaml:"charset"`
	Loc      string `yaml:"loc"`
}

// LicensingConfig carries the admission policy. MaxDevices is the number
// shown to the buyer; CategoryLimit is the per-category cap that actually
// gates admission. They are deliberately independent values: collapsing them
// into one changes observable behavior.
type LicensingConfig struct {
	MaxDevices     int    `yaml:"max_devices"`
	CategoryLimit  int    `yaml:"category_limit"`
	ClaimPrefix    string `yaml:"claim_prefix"`
	SupportBaseURL string `yaml:"support_base_url"`
	WebBaseURL     string `yaml:"web_base_url"`
	LinkTTLHours   int    `yaml:"link_ttl_hours"`
	OperatorEmail  string `yaml:"operator_email"`
}

// LinkTTL is the lifetime of signed download links.
func (c LicensingConfig) LinkTTL() time.Duration {
	return time.Duration(c.LinkTTLHours) * time.Hour
}

type MailConfig struct {
	Enable    bool   `yaml:"enable"`
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	User      string `yaml:"user"`
	Pass      string `yaml:"pass"`
	From      string `yaml:"from"`
	ReplyTo   string `yaml:"reply_to"`
	UseResend bool   `yaml:"use_resend"`
	ResendKey string `yaml:"resend_key"`
}

// GatewayConfig holds the shared secret used to verify inbound
// payment-provider webhook signatures.
type GatewayConfig struct {
	WebhookSecret string `yaml:"webhook_secret"`
}

// Load reads and normalizes the YAML config at path. A missing file is not an
// error; defaults plus environment overrides apply.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	cfg := &AppConfig{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// fall through to defaults
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *AppConfig) applyEnvOverrides() {
	if v := os.Getenv("INK_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("INK_REDIS_URL"); v != "" {
		c.RedisURL = v
	}
	if v := os.Getenv("INK_ADMIN_TOKEN"); v != "" {
		c.AdminToken = v
	}
	if v := os.Getenv("INK_JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv("INK_WEBHOOK_SECRET"); v != "" {
		c.Gateway.WebhookSecret = v
	}
	if v := os.Getenv("INK_RESEND_KEY"); v != "" {
		c.Mail.ResendKey = v
	}
}

func (c *AppConfig) applyDefaults() {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if strings.TrimSpace(c.Env) == "" {
		c.Env = defaultEnv
	}
	if c.RedisURL == "" {
		c.RedisURL = defaultRedisURL
	}
	if c.Licensing.MaxDevices <= 0 {
		c.Licensing.MaxDevices = defaultMaxDevices
	}
	if c.Licensing.CategoryLimit <= 0 {
		c.Licensing.CategoryLimit = defaultCategoryLimit
	}
	if c.Licensing.ClaimPrefix == "" {
		c.Licensing.ClaimPrefix = defaultClaimPrefix
	}
	if c.Licensing.LinkTTLHours <= 0 {
		c.Licensing.LinkTTLHours = defaultLinkTTLHours
	}
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "development")
}
