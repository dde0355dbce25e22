// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token    string  `yaml:"token"`
	Username string  `yaml:"username"`
	Workers  int     `yaml:"workers"` // update handler workers
	AdminIDs []int64 `yaml:"admin_ids"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AdminConfig struct {
	Port   int    `yaml:"port"`
	Secret string `yaml:"secret"` // HMAC secret for admin API sessions
	APIKey string `yaml:"api_key"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"` // payload cache TTL
}

type UltraDNSConfig struct {
	BaseURL      string        `yaml:"base_url"`
	Username     string        `yaml:"username"`
	Password     string        `yaml:"password"`
	StatusURL    string        `yaml:"status_url"`
	PollInterval time.Duration `yaml:"poll_interval"`
	PollMaxWait  time.Duration `yaml:"poll_max_wait"`
}

// AssistantsConfig maps the four logical assistant roles onto OpenAI
// assistant ids. Ids are validated once at load time.
type AssistantsConfig struct {
	ZoneAnalyzer    string `yaml:"zone_analyzer"`
	DNSHelper       string `yaml:"dns_helper"`
	ZoneHealthCheck string `yaml:"zone_healthcheck"`
	SystemStatus    string `yaml:"system_status"`
}

type AIConfig struct {
	OpenAIKey  string           `yaml:"openai_key"`
	Assistants AssistantsConfig `yaml:"assistants"`
}

type BatchConfig struct {
	Workers int `yaml:"workers"` // concurrent zones per batch; 1 = sequential
}

type Config struct {
	Bot      BotConfig      `yaml:"bot"`
	Log      LogConfig      `yaml:"log"`
	Admin    AdminConfig    `yaml:"admin"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	UltraDNS UltraDNSConfig `yaml:"ultradns"`
	AI       AIConfig       `yaml:"ai"`
	Batch    BatchConfig    `yaml:"batch"`

	Runtime RuntimeConfig `yaml:"-"`
}

// assistant ids look like "asst_" followed by an alphanumeric suffix
var assistantIDRe = regexp.MustCompile(`^asst_[A-Za-z0-9]{12,}$`)

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = time.Hour
	}
	if cfg.UltraDNS.BaseURL == "" {
		cfg.UltraDNS.BaseURL = "https://api.ultradns.com"
	}
	if cfg.UltraDNS.StatusURL == "" {
		cfg.UltraDNS.StatusURL = "https://wpaas.statuspage.io/api/v2/summary.json"
	}
	if cfg.UltraDNS.PollInterval <= 0 {
		cfg.UltraDNS.PollInterval = 10 * time.Second
	}
	if cfg.UltraDNS.PollMaxWait <= 0 {
		cfg.UltraDNS.PollMaxWait = 10 * time.Minute
	}
	if cfg.Batch.Workers <= 0 {
		cfg.Batch.Workers = 1
	}
	if cfg.Admin.Port <= 0 {
		cfg.Admin.Port = 8081
	}

	// Minimal validation
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is required")
	}
	if cfg.UltraDNS.Username == "" || cfg.UltraDNS.Password == "" {
		return nil, errors.New("ultradns.username and ultradns.password are required")
	}
	if cfg.AI.OpenAIKey == "" {
		return nil, errors.New("ai.openai_key is required")
	}
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if err := cfg.AI.Assistants.validate(); err != nil {
		return nil, err
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func (a AssistantsConfig) validate() error {
	for name, id := range map[string]string{
		"zone_analyzer":    a.ZoneAnalyzer,
		"dns_helper":       a.DNSHelper,
		"zone_healthcheck": a.ZoneHealthCheck,
		"system_status":    a.SystemStatus,
	} {
		if id == "" {
			return fmt.Errorf("ai.assistants.%s is required", name)
		}
		if !assistantIDRe.MatchString(id) {
			return fmt.Errorf("ai.assistants.%s: %q is not a valid assistant id", name, id)
		}
	}
	return nil
}
