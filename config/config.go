package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Cron       CronConfig       `yaml:"cron"`
	Moderation ModerationConfig `yaml:"moderation"`
	Redis      RedisConfig      `yaml:"redis"`
	APIs       APIConfig        `yaml:"apis"`
	Auth       AuthConfig       `yaml:"auth"`
	Articles   ArticlesConfig   `yaml:"articles"`
	Log        LogConfig        `yaml:"log"`
}

type ServerConfig struct {
	Port        string `yaml:"port"`
	Mode        string `yaml:"mode"` // debug, release
	FrontendURL string `yaml:"frontend_url"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type CronConfig struct {
	SweepInterval      string        `yaml:"sweep_interval"`       // 重新投递卡在 pending 的资源
	CachePurgeInterval string        `yaml:"cache_purge_interval"` // 清理过期缓存
	PendingGrace       time.Duration `yaml:"pending_grace"`
}

type ModerationConfig struct {
	CacheTTL         time.Duration `yaml:"cache_ttl"`
	CacheBackend     string        `yaml:"cache_backend"` // memory, redis
	ScrapeTimeout    time.Duration `yaml:"scrape_timeout"`
	RequestTimeout   time.Duration `yaml:"request_timeout"`
	MaxRedirects     int           `yaml:"max_redirects"`
	MaxURLLength     int           `yaml:"max_url_length"`
	MaxContentLength int           `yaml:"max_content_length"`
	MinConfidence    float64       `yaml:"min_confidence"`
	Workers          int           `yaml:"workers"`
	QueueSize        int           `yaml:"queue_size"`
	OutboundRPS      float64       `yaml:"outbound_rps"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type APIConfig struct {
	GoogleAPIKey      string `yaml:"google_api_key"`
	YouTubeAPIKey     string `yaml:"youtube_api_key"`
	UnsplashAccessKey string `yaml:"unsplash_access_key"`
	SafeBrowsingURL   string `yaml:"safe_browsing_url"`
	PerspectiveURL    string `yaml:"perspective_url"`
	YouTubeURL        string `yaml:"youtube_url"`
	UnsplashURL       string `yaml:"unsplash_url"`
}

type AuthConfig struct {
	JWTSecret   string        `yaml:"jwt_secret"`
	TokenExpiry time.Duration `yaml:"token_expiry"`
}

type ArticlesConfig struct {
	FeedURL string `yaml:"feed_url"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default 默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "3001",
			Mode: "debug",
		},
		Database: DatabaseConfig{
			Path: "data/resources.db",
		},
		Cron: CronConfig{
			SweepInterval:      "*/5 * * * *",
			CachePurgeInterval: "*/15 * * * *",
			PendingGrace:       10 * time.Minute,
		},
		Moderation: ModerationConfig{
			CacheTTL:         time.Hour,
			CacheBackend:     "memory",
			ScrapeTimeout:    10 * time.Second,
			RequestTimeout:   5 * time.Second,
			MaxRedirects:     3,
			MaxURLLength:     1000,
			MaxContentLength: 3000,
			MinConfidence:    0.7,
			Workers:          4,
			QueueSize:        100,
			OutboundRPS:      5,
		},
		Redis: RedisConfig{
			Address: "localhost:6379",
		},
		APIs: APIConfig{
			SafeBrowsingURL: "https://safebrowsing.googleapis.com/v4/threatMatches:find",
			PerspectiveURL:  "https://commentanalyzer.googleapis.com/v1alpha1/comments:analyze",
			YouTubeURL:      "https://www.googleapis.com/youtube/v3",
			UnsplashURL:     "https://api.unsplash.com",
		},
		Auth: AuthConfig{
			TokenExpiry: time.Hour,
		},
		Articles: ArticlesConfig{
			FeedURL: "https://dev.to/feed",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load 加载配置文件
func Load(configPath string) (*Config, error) {
	// .env 不存在时忽略
	_ = godotenv.Load()

	cfg := Default()

	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", configPath, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// 环境变量覆盖配置
func applyEnv(cfg *Config) {
	setString(&cfg.Server.Port, "PORT")
	setString(&cfg.Server.Mode, "GIN_MODE")
	setString(&cfg.Server.FrontendURL, "FRONTEND_URL")
	setString(&cfg.Database.Path, "DB_PATH")
	setString(&cfg.Moderation.CacheBackend, "CACHE_BACKEND")
	setString(&cfg.Redis.Address, "REDIS_ADDRESS")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.APIs.GoogleAPIKey, "GOOGLE_SAFE_API_KEY")
	setString(&cfg.APIs.YouTubeAPIKey, "YOUTUBE_API_KEY")
	setString(&cfg.APIs.UnsplashAccessKey, "UNSPLASH_ACCESS_KEY")
	setString(&cfg.Auth.JWTSecret, "JWT_SECRET")
	setString(&cfg.Log.Level, "LOG_LEVEL")

	if v := os.Getenv("MODERATION_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Moderation.Workers = n
		}
	}

	// 原服务 YouTube 和 Safe Browsing 共用一个 key
	if cfg.APIs.YouTubeAPIKey == "" {
		cfg.APIs.YouTubeAPIKey = cfg.APIs.GoogleAPIKey
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	m := c.Moderation
	if m.MinConfidence < 0 || m.MinConfidence > 1 {
		return fmt.Errorf("moderation.min_confidence must be within [0,1], got %v", m.MinConfidence)
	}
	if m.Workers <= 0 {
		return fmt.Errorf("moderation.workers must be positive, got %d", m.Workers)
	}
	if m.QueueSize <= 0 {
		return fmt.Errorf("moderation.queue_size must be positive, got %d", m.QueueSize)
	}
	if m.OutboundRPS <= 0 {
		return fmt.Errorf("moderation.outbound_rps must be positive, got %v", m.OutboundRPS)
	}
	if m.CacheBackend != "memory" && m.CacheBackend != "redis" {
		return fmt.Errorf("moderation.cache_backend must be memory or redis, got %q", m.CacheBackend)
	}
	return nil
}

// GetServerAddress 获取服务器监听地址
func (c *Config) GetServerAddress() string {
	// 如果端口是纯数字,加上冒号前缀
	if _, err := strconv.Atoi(c.Server.Port); err == nil {
		return ":" + c.Server.Port
	}
	return c.Server.Port
}
