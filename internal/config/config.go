package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ArticlesPerSource int              `yaml:"articles_per_source"`
	Schedule          string           `yaml:"schedule"`
	RunOnStart        bool             `yaml:"run_on_start"`
	LogLevel          string           `yaml:"log_level"`
	OutputDir         string           `yaml:"output_dir"`
	Sources           SourcesConfig    `yaml:"sources"`
	Summarizer        SummarizerConfig `yaml:"summarizer"`
	Email             EmailConfig      `yaml:"email"`
}

type SourcesConfig struct {
	HackerNews     SourceConfig `yaml:"hacker_news"`
	Reddit         RedditConfig `yaml:"reddit"`
	DevTo          SourceConfig `yaml:"devto"`
	GitHubTrending GitHubConfig `yaml:"github_trending"`
	Arxiv          ArxivConfig  `yaml:"arxiv"`
}

type SourceConfig struct {
	Enabled *bool `yaml:"enabled"`
}

type RedditConfig struct {
	Enabled      *bool    `yaml:"enabled"`
	Subreddits   []string `yaml:"subreddits"`
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	UserAgent    string   `yaml:"user_agent"`
}

type GitHubConfig struct {
	Enabled  *bool  `yaml:"enabled"`
	Language string `yaml:"language"`
}

type ArxivConfig struct {
	Enabled    *bool    `yaml:"enabled"`
	Categories []string `yaml:"categories"`
}

type SummarizerConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
}

type EmailConfig struct {
	Enabled  bool     `yaml:"enabled"`
	SMTPHost string   `yaml:"smtp_host"`
	SMTPPort int      `yaml:"smtp_port"`
	From     string   `yaml:"from"`
	Password string   `yaml:"password"`
	To       []string `yaml:"to"`
}

// SourceEnabled reports whether a source flag is on. A nil flag means the
// source is enabled, so a bare config scrapes everything.
func SourceEnabled(flag *bool) bool {
	return flag == nil || *flag
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func expandEnvVars(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

func setDefaults(cfg *Config) {
	if cfg.ArticlesPerSource == 0 {
		cfg.ArticlesPerSource = 5
	}
	if cfg.Schedule == "" {
		cfg.Schedule = "0 8 * * *"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "output"
	}
	if len(cfg.Sources.Reddit.Subreddits) == 0 {
		cfg.Sources.Reddit.Subreddits = []string{"programming", "webdev", "MachineLearning"}
	}
	if cfg.Sources.Reddit.UserAgent == "" {
		cfg.Sources.Reddit.UserAgent = "tech-curator digest bot"
	}
	if len(cfg.Sources.Arxiv.Categories) == 0 {
		cfg.Sources.Arxiv.Categories = []string{"cs.AI", "cs.LG"}
	}
	if cfg.Summarizer.Endpoint == "" {
		cfg.Summarizer.Endpoint = "https://api-inference.huggingface.co/models/facebook/bart-large-cnn"
	}
	if cfg.Email.SMTPHost == "" {
		cfg.Email.SMTPHost = "smtp.gmail.com"
	}
	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = 587
	}
}

func validate(cfg *Config) error {
	if cfg.ArticlesPerSource < 0 {
		return fmt.Errorf("config: articles_per_source must not be negative")
	}
	if cfg.Email.Enabled {
		if cfg.Email.From == "" || cfg.Email.Password == "" {
			return fmt.Errorf("config: email.from and email.password are required when email is enabled")
		}
		if len(cfg.Email.To) == 0 {
			return fmt.Errorf("config: email.to is required when email is enabled")
		}
	}
	return nil
}

// Load reads the config file, expands environment variables, applies defaults,
// and validates the configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns a config built purely from defaults and environment
// variables, for running without a config file.
func Default() *Config {
	cfg := &Config{}

	cfg.Sources.Reddit.ClientID = os.Getenv("REDDIT_CLIENT_ID")
	cfg.Sources.Reddit.ClientSecret = os.Getenv("REDDIT_CLIENT_SECRET")
	cfg.Summarizer.APIKey = os.Getenv("HF_API_KEY")
	cfg.Email.From = os.Getenv("SMTP_EMAIL")
	cfg.Email.Password = os.Getenv("SMTP_PASSWORD")
	if v := os.Getenv("EMAIL_RECIPIENTS"); v != "" {
		cfg.Email.To = strings.Split(v, ",")
		cfg.Email.Enabled = true
	}

	setDefaults(cfg)
	return cfg
}
