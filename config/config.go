package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the satire pipeline and the content API
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Sources   SourcesConfig   `mapstructure:"sources"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	History   HistoryConfig   `mapstructure:"history"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Publisher PublisherConfig `mapstructure:"publisher"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig contains HTTP settings for the content API
type ServerConfig struct {
	Address        string   `mapstructure:"address"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LLMConfig describes the OpenAI-compatible chat completion endpoint.
type LLMConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Models  LLMModels     `mapstructure:"models"`
}

// LLMModels routes agents to models by task complexity.
type LLMModels struct {
	Fast      string `mapstructure:"fast"`      // summarising, headlines, final edit
	Reasoning string `mapstructure:"reasoning"` // selection, angles, drafting, critique
}

func (l LLMConfig) Validate() error {
	if strings.TrimSpace(l.BaseURL) == "" {
		return fmt.Errorf("llm.base_url required")
	}
	if strings.TrimSpace(l.Models.Fast) == "" || strings.TrimSpace(l.Models.Reasoning) == "" {
		return fmt.Errorf("llm.models.fast and llm.models.reasoning required")
	}
	if l.Timeout <= 0 {
		return fmt.Errorf("llm.timeout must be > 0")
	}
	return nil
}

// SourcesConfig contains news source configurations
type SourcesConfig struct {
	GNews        GNewsConfig   `mapstructure:"gnews"`
	NewsAPI      NewsAPIConfig `mapstructure:"newsapi"`
	Delay        time.Duration `mapstructure:"delay"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxPerSource int           `mapstructure:"max_per_source"`
}

// GNewsConfig contains gnews.io settings. An empty key disables the source.
type GNewsConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Endpoint string `mapstructure:"endpoint"`
	Country  string `mapstructure:"country"`
	Lang     string `mapstructure:"lang"`
}

// NewsAPIConfig contains newsapi.org settings. An empty key disables the source.
type NewsAPIConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Endpoint string `mapstructure:"endpoint"`
	Country  string `mapstructure:"country"`
}

// PipelineConfig tunes the writing workflow.
type PipelineConfig struct {
	MaxRevisions int           `mapstructure:"max_revisions"`
	Cooldown     time.Duration `mapstructure:"cooldown"`
	Author       string        `mapstructure:"author"`
}

// Normalize applies defaults for unset pipeline values.
func (p PipelineConfig) Normalize() PipelineConfig {
	if p.MaxRevisions < 1 {
		p.MaxRevisions = 1
	}
	if p.Cooldown < 0 {
		p.Cooldown = 0
	}
	p.Author = strings.TrimSpace(p.Author)
	if p.Author == "" {
		p.Author = DefaultAuthor
	}
	return p
}

// HistoryConfig selects where used source titles are remembered.
type HistoryConfig struct {
	Backend  string `mapstructure:"backend"` // file, redis
	Path     string `mapstructure:"path"`
	RedisKey string `mapstructure:"redis_key"`
}

func (h HistoryConfig) Validate() error {
	switch h.Backend {
	case "file":
		if strings.TrimSpace(h.Path) == "" {
			return fmt.Errorf("history.path required for file backend")
		}
	case "redis":
		if strings.TrimSpace(h.RedisKey) == "" {
			return fmt.Errorf("history.redis_key required for redis backend")
		}
	default:
		return fmt.Errorf("history.backend must be file or redis, got %q", h.Backend)
	}
	return nil
}

// StorageConfig contains storage and persistence settings
type StorageConfig struct {
	Backend  string         `mapstructure:"backend"` // file, postgres
	File     FileConfig     `mapstructure:"file"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

func (s StorageConfig) Validate() error {
	switch s.Backend {
	case "file":
		if strings.TrimSpace(s.File.Path) == "" {
			return fmt.Errorf("storage.file.path required for file backend")
		}
	case "postgres":
		return s.Postgres.Validate()
	default:
		return fmt.Errorf("storage.backend must be file or postgres, got %q", s.Backend)
	}
	return nil
}

// FileConfig points at the flat JSON article database.
type FileConfig struct {
	Path string `mapstructure:"path"`
}

// PostgresConfig contains Postgres connection settings
type PostgresConfig struct {
	URL      string        `mapstructure:"url"`
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	User     string        `mapstructure:"user"`
	Password string        `mapstructure:"password"`
	DBName   string        `mapstructure:"dbname"`
	SSLMode  string        `mapstructure:"sslmode"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

func (p PostgresConfig) Validate() error {
	if strings.TrimSpace(p.URL) != "" {
		return nil
	}
	if strings.TrimSpace(p.Host) == "" {
		return fmt.Errorf("storage.postgres.host required when url is not provided")
	}
	if strings.TrimSpace(p.DBName) == "" {
		return fmt.Errorf("storage.postgres.dbname required when url is not provided")
	}
	return nil
}

// DSN builds a connection string, preferring an explicit URL.
func (p PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}
	port := p.Port
	if port == "" {
		port = "5432"
	}
	ssl := p.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", p.User, p.Password, p.Host, port, p.DBName, ssl)
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

func (r RedisConfig) Validate() error {
	if strings.TrimSpace(r.Host) == "" {
		return fmt.Errorf("storage.redis.host required")
	}
	if strings.TrimSpace(r.Port) == "" {
		return fmt.Errorf("storage.redis.port required")
	}
	return nil
}

// Addr returns host:port.
func (r RedisConfig) Addr() string { return r.Host + ":" + r.Port }

// PublisherConfig controls how finished articles reach the store.
type PublisherConfig struct {
	Mode     string        `mapstructure:"mode"` // http, store
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

func (p PublisherConfig) Validate() error {
	switch p.Mode {
	case "http":
		if strings.TrimSpace(p.Endpoint) == "" {
			return fmt.Errorf("publisher.endpoint required for http mode")
		}
	case "store":
	default:
		return fmt.Errorf("publisher.mode must be http or store, got %q", p.Mode)
	}
	return nil
}

// TelemetryConfig contains telemetry and monitoring settings
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// DefaultAuthor is the byline attached to every generated article.
const DefaultAuthor = "AI Agent Team"

func setDefaults(v *viper.Viper) {
	v.SetDefault("general.log_level", "info")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("llm.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("llm.timeout", 45*time.Second)
	v.SetDefault("llm.models.fast", "llama-3.1-8b-instant")
	v.SetDefault("llm.models.reasoning", "meta-llama/llama-4-maverick-17b-128e-instruct")
	v.SetDefault("sources.gnews.endpoint", "https://gnews.io/api/v4/top-headlines")
	v.SetDefault("sources.gnews.country", "in")
	v.SetDefault("sources.gnews.lang", "en")
	v.SetDefault("sources.newsapi.endpoint", "https://newsapi.org/v2/top-headlines")
	v.SetDefault("sources.newsapi.country", "us")
	v.SetDefault("sources.delay", time.Second)
	v.SetDefault("sources.timeout", 10*time.Second)
	v.SetDefault("sources.max_per_source", 10)
	v.SetDefault("pipeline.max_revisions", 2)
	v.SetDefault("pipeline.cooldown", 2*time.Second)
	v.SetDefault("pipeline.author", DefaultAuthor)
	v.SetDefault("history.backend", "file")
	v.SetDefault("history.path", "used_articles.json")
	v.SetDefault("history.redis_key", "satirist:history")
	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.file.path", "database.json")
	v.SetDefault("storage.redis.host", "localhost")
	v.SetDefault("storage.redis.port", "6379")
	v.SetDefault("storage.redis.timeout", 5*time.Second)
	v.SetDefault("publisher.mode", "http")
	v.SetDefault("publisher.endpoint", "http://127.0.0.1:8000/api/articles")
	v.SetDefault("publisher.timeout", 15*time.Second)
	v.SetDefault("telemetry.enabled", true)
}

// LoadConfig reads config (file optional), applies SATIRIST_* env overrides and validates.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		v.SetConfigName("config")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		if exe, err := os.Executable(); err == nil {
			exeDir := filepath.Dir(exe)
			v.AddConfigPath(exeDir)
			v.AddConfigPath(filepath.Join(exeDir, "..", "config"))
		}
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("SATIRIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// provider keys keep their conventional names
	_ = v.BindEnv("llm.api_key", "SATIRIST_LLM_API_KEY", "GROQ_API_KEY")
	_ = v.BindEnv("sources.gnews.api_key", "SATIRIST_SOURCES_GNEWS_API_KEY", "GNEWS_API_KEY")
	_ = v.BindEnv("sources.newsapi.api_key", "SATIRIST_SOURCES_NEWSAPI_API_KEY", "NEWS_API_KEY")
	_ = v.BindEnv("storage.postgres.url", "SATIRIST_STORAGE_POSTGRES_URL", "DATABASE_URL")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Pipeline = cfg.Pipeline.Normalize()

	if err := cfg.LLM.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.History.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Storage.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Publisher.Validate(); err != nil {
		return nil, err
	}
	if cfg.History.Backend == "redis" {
		if err := cfg.Storage.Redis.Validate(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}
