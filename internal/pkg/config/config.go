package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Racer      RacerConfig      `yaml:"racer"`
	Fetch      FetchConfig      `yaml:"fetch"`
	Prediction PredictionConfig `yaml:"prediction"`
	Redis      RedisConfig      `yaml:"redis"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type RacerConfig struct {
	No          string `yaml:"no"`           // registration number, e.g. "4320"
	DailyBudget int    `yaml:"daily_budget"` // yen
	Timezone    string `yaml:"timezone"`     // defaults to Asia/Tokyo
}

type FetchConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	Delay     time.Duration `yaml:"delay"` // pause between page fetches
	UserAgent string        `yaml:"user_agent"`
}

type PredictionConfig struct {
	ModelName string `yaml:"model_name"`
	APIKey    string `yaml:"api_key"` // or GEMINI_API_KEY env
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"` // or POSTGRES_DSN env
}

type SchedulerConfig struct {
	GroupName  string        `yaml:"group_name"`
	TargetArn  string        `yaml:"target_arn"`
	RoleArn    string        `yaml:"role_arn"`
	NamePrefix string        `yaml:"name_prefix"`
	PreOffset  time.Duration `yaml:"pre_offset"`  // negative, relative to deadline
	PostOffset time.Duration `yaml:"post_offset"` // positive, relative to deadline
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"` // or TELEGRAM_BOT_TOKEN env
	ChatID   int64  `yaml:"chat_id"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // DEBUG, INFO, WARN, ERROR
	JSON  bool   `yaml:"json"`  // emit a JSON stream alongside text
}

func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	config.applyEnv()

	if config.Racer.No == "" {
		return nil, fmt.Errorf("racer.no is required")
	}
	if config.Racer.Timezone == "" {
		config.Racer.Timezone = "Asia/Tokyo"
	}
	if config.Racer.DailyBudget <= 0 {
		config.Racer.DailyBudget = 5000
	}

	return &config, nil
}

// applyEnv fills secrets from the environment when the file leaves them
// empty, so config files can be committed without credentials.
func (c *Config) applyEnv() {
	if c.Prediction.APIKey == "" {
		c.Prediction.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.Postgres.DSN == "" {
		c.Postgres.DSN = os.Getenv("POSTGRES_DSN")
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		c.Redis.Addr = addr
	}
	if c.Telegram.BotToken == "" {
		c.Telegram.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	}
}
