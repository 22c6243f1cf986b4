package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/rushteam/seedrec/core"
)

// 环境变量：SEEDREC_CONFIG 指定配置文件，其它以 SEEDREC_ 为前缀，
// 第一个下划线分隔段名，例如 SEEDREC_SERVER_ADDR -> server.addr，
// SEEDREC_RECOMMEND_MAX_LIMIT -> recommend.max_limit。
const (
	EnvPrefix     = "SEEDREC_"
	ConfigPathEnv = "SEEDREC_CONFIG"
)

// App 是服务配置。
type App struct {
	Server    ServerConfig    `koanf:"server"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Store     StoreConfig     `koanf:"store"`
	Recommend RecommendConfig `koanf:"recommend"`
	Pipeline  PipelineConfig  `koanf:"pipeline"`
	Log       LogConfig       `koanf:"log"`
}

type ServerConfig struct {
	Addr            string        `koanf:"addr" validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	RequestTimeout  time.Duration `koanf:"request_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	// RateLimit 每个客户端 IP 每个窗口允许的请求数，0 表示不限流
	RateLimit       int           `koanf:"rate_limit" validate:"gte=0"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

type CatalogConfig struct {
	DataDir    string `koanf:"data_dir"`
	BookFile   string `koanf:"book_file"`
	AnimeFile  string `koanf:"anime_file"`
	MovieFile  string `koanf:"movie_file"`
	IMDbRaw    string `koanf:"imdb_raw"`
	SampleSize int    `koanf:"imdb_sample_size" validate:"gte=0"`
	// Tables 可选的领域描述表（YAML），为空时使用内置表
	Tables string `koanf:"tables"`
}

type StoreConfig struct {
	Backend   string `koanf:"backend" validate:"oneof=memory redis"`
	RedisAddr string `koanf:"redis_addr" validate:"required_if=Backend redis"`
	RedisPass string `koanf:"redis_password"`
	RedisDB   int    `koanf:"redis_db" validate:"gte=0"`
	KeyPrefix string `koanf:"key_prefix"`
}

type RecommendConfig struct {
	DefaultLimit  int `koanf:"default_limit" validate:"gte=1"`
	MaxLimit      int `koanf:"max_limit" validate:"gtefield=DefaultLimit"`
	MaxComponents int `koanf:"max_components" validate:"gte=1"`
}

type PipelineConfig struct {
	// File 可选的链路配置（YAML），为空时使用内置链路
	File string `koanf:"file"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Defaults 返回默认配置。
func Defaults() *App {
	return &App{
		Server: ServerConfig{
			Addr:            ":8000",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			RequestTimeout:  20 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimit:       120,
			RateLimitWindow: time.Minute,
		},
		Catalog: CatalogConfig{
			DataDir:    "data",
			BookFile:   "book_processed.csv",
			AnimeFile:  "anime_processed.csv",
			MovieFile:  "movie_processed.csv",
			IMDbRaw:    "title.basics.tsv",
			SampleSize: 100000,
		},
		Store: StoreConfig{
			Backend:   "memory",
			KeyPrefix: "seedrec:",
		},
		Recommend: RecommendConfig{
			DefaultLimit:  5,
			MaxLimit:      50,
			MaxComponents: 50,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load 分层加载配置：默认值 → YAML 文件（SEEDREC_CONFIG）→ 环境变量。
func Load() (*App, error) {
	return LoadFile(os.Getenv(ConfigPathEnv))
}

// LoadFile 与 Load 相同，但显式指定配置文件（为空表示不读文件）。
func LoadFile(path string) (*App, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}
	if err := splitList(k, "server.cors_origins"); err != nil {
		return nil, err
	}

	cfg := &App{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// envKey 把 SEEDREC_SERVER_ADDR 转换为 server.addr。
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if s == "config" {
		return ""
	}
	section, rest, ok := strings.Cut(s, "_")
	if !ok {
		return s
	}
	return section + "." + rest
}

// splitList 把环境变量给出的逗号分隔字符串转换为列表。
func splitList(k *koanf.Koanf, path string) error {
	s, ok := k.Get(path).(string)
	if !ok {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return k.Set(path, out)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate 校验配置。
func (c *App) Validate() error {
	return validate.Struct(c)
}

// RecallConfig 返回推荐链路的默认值配置。
func (c *App) RecallConfig() core.RecallConfig {
	return &core.StaticRecallConfig{
		Limit:      c.Recommend.DefaultLimit,
		Max:        c.Recommend.MaxLimit,
		Components: c.Recommend.MaxComponents,
	}
}

// CatalogFiles 返回每个领域的目录文件。
func (c *App) CatalogFiles() map[core.Domain]string {
	return map[core.Domain]string{
		core.DomainBook:  c.Catalog.BookFile,
		core.DomainAnime: c.Catalog.AnimeFile,
		core.DomainMovie: c.Catalog.MovieFile,
	}
}
