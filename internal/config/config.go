package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Server
	ServerPort string `env:"SERVER_PORT" envDefault:":8080"`
	CertFile   string `env:"CERT_FILE"`
	KeyFile    string `env:"KEY_FILE"`
	AppEnv     string `env:"APP_ENV" envDefault:"development"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	// Database
	DBUser     string `env:"DB_USER,required"`
	DBPassword string `env:"DB_PASSWORD,required"`
	DBName     string `env:"DB_NAME,required"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"3306"`

	// Auth
	JWTSecret       string `env:"JWT_SECRET,required"`
	JWTExpiryHours  int    `env:"JWT_EXPIRY_HOURS" envDefault:"24"`
	InviteExpiryHrs int    `env:"INVITE_EXPIRY_HOURS" envDefault:"72"`

	// SMTP
	SMTPEmail string `env:"SMTP_EMAIL"`
	SMTPPass  string `env:"SMTP_PASS"`
	SMTPHost  string `env:"SMTP_HOST"`
	SMTPPort  int    `env:"SMTP_PORT" envDefault:"587"`

	// AI assistant
	OpenRouterKey   string `env:"OPENROUTER_API_KEY"`
	AssistantModel  string `env:"ASSISTANT_MODEL" envDefault:"openai/gpt-4o-mini"`
	BudgetAlertPct  int    `env:"BUDGET_ALERT_PERCENT" envDefault:"90"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=false", c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}
