package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr    string `env:"LISTEN_ADDR,default=:5000"`
	DatabasePath  string `env:"DATABASE_PATH,default=blog.db"`
	SessionSecret string `env:"SECRET_KEY"`
	SessionSecure bool   `env:"SESSION_SECURE,default=false"`
	GinMode       string `env:"GIN_MODE,default=release"`

	MailSender       string        `env:"MY_EMAIL"`
	MailPassword     string        `env:"PASSWORD"`
	ContactRecipient string        `env:"CONTACT_RECIPIENT"`
	SMTPHost         string        `env:"SMTP_HOST,default=smtp.gmail.com"`
	SMTPPort         int           `env:"SMTP_PORT,default=587"`
	MailTimeout      time.Duration `env:"MAIL_TIMEOUT,default=15s"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`
}

// Load reads envFile when it exists, decodes the environment into an
// AppConfig and validates it. A missing required key is an error so the
// server refuses to start instead of failing on first use.
func Load(envFile string) (AppConfig, error) {
	cfg, err := Decode(envFile)
	if err != nil {
		return AppConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Decode is Load without validation, for commands that only touch the
// database.
func Decode(envFile string) (AppConfig, error) {
	if path := strings.TrimSpace(envFile); path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return AppConfig{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	var cfg AppConfig
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return AppConfig{}, fmt.Errorf("decode environment: %w", err)
	}

	cfg.SessionSecret = strings.TrimSpace(cfg.SessionSecret)
	cfg.MailSender = strings.TrimSpace(cfg.MailSender)
	cfg.ContactRecipient = strings.TrimSpace(cfg.ContactRecipient)
	if cfg.ContactRecipient == "" {
		cfg.ContactRecipient = cfg.MailSender
	}
	return cfg, nil
}

// Validate 检查必填项，返回的错误会列出全部缺失的变量。
func (c AppConfig) Validate() error {
	var missing []string
	if c.SessionSecret == "" {
		missing = append(missing, "SECRET_KEY")
	}
	if c.MailSender == "" {
		missing = append(missing, "MY_EMAIL")
	}
	if c.MailPassword == "" {
		missing = append(missing, "PASSWORD")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
		return fmt.Errorf("invalid SMTP_PORT %d", c.SMTPPort)
	}
	if c.MailTimeout <= 0 {
		return errors.New("MAIL_TIMEOUT must be positive")
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid GIN_MODE %q", c.GinMode)
	}
	return nil
}
