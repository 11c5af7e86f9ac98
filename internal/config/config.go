// 包 config：集中读取环境变量（.env 由入口通过 godotenv 预先加载），提供默认值
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config：服务与处理流水线的运行参数
type Config struct {
	Addr    string
	APIBase string

	POISource    string // file | db
	POIPath      string
	EventsPath   string
	StrictRows   bool
	MemoSize     int
	RunTimeout   time.Duration
	GeoIPPath    string
	RecordStats  bool
	CacheTTL     time.Duration
	RedisEnabled bool

	PG    PostgresConfig
	Redis RedisConfig

	RateLimitEnabled bool
	RateLimitQPS     int
}

// PostgresConfig：PG_* 环境变量
type PostgresConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	DB       string
	SSLMode  string
	MaxOpen  int
	MaxIdle  int
}

// RedisConfig：REDIS_* 环境变量
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	n, err := strconv.Atoi(getenv(key, ""))
	if err != nil {
		return def
	}
	return n
}

func boolenv(key string, def bool) bool {
	b, err := strconv.ParseBool(getenv(key, ""))
	if err != nil {
		return def
	}
	return b
}

// Load：读取全部配置；解析失败的数值项回退默认值
func Load() Config {
	c := Config{
		Addr:       getenv("ADDR", ":3000"),
		APIBase:    strings.TrimRight(getenv("API_BASE", ""), "/"),
		POISource:  strings.ToLower(getenv("POI_SOURCE", "file")),
		POIPath:    getenv("POI_PATH", "points-of-interest.json"),
		EventsPath: getenv("EVENTS_PATH", filepath.Join("data", "events.csv")),
		StrictRows: boolenv("POI_STRICT_ROWS", false),
		MemoSize:   atoienv("POI_MATCH_CACHE_SIZE", 0),
		RunTimeout: time.Duration(atoienv("PIPELINE_TIMEOUT_S", 60)) * time.Second,
		GeoIPPath:  getenv("GEOIP_DB_PATH", ""),
		CacheTTL:   time.Duration(atoienv("POI_CACHE_TTL_S", 300)) * time.Second,
		PG: PostgresConfig{
			Enabled:  boolenv("PG_ENABLED", false),
			Host:     getenv("PG_HOST", "localhost"),
			Port:     getenv("PG_PORT", "5432"),
			User:     getenv("PG_USER", "postgres"),
			Password: getenv("PG_PASSWORD", ""),
			DB:       getenv("PG_DB", "poiapi"),
			SSLMode:  getenv("PG_SSLMODE", "disable"),
			MaxOpen:  atoienv("PG_MAX_OPEN_CONNS", 10),
			MaxIdle:  atoienv("PG_MAX_IDLE_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getenv("REDIS_HOST", "127.0.0.1"),
			Port:     getenv("REDIS_PORT", "6379"),
			Password: getenv("REDIS_PASS", ""),
		},
		RedisEnabled:     boolenv("REDIS_ENABLED", false),
		RateLimitEnabled: boolenv("RATE_LIMIT_ENABLED", false),
		RateLimitQPS:     atoienv("RATE_LIMIT_QPS", 20),
	}
	// REDIS_DB 非法或为负时使用 0
	if n := atoienv("REDIS_DB", 0); n > 0 {
		c.Redis.DB = n
	}
	if c.POISource == "db" {
		c.PG.Enabled = true
	}
	c.RecordStats = c.PG.Enabled && boolenv("POI_RECORD_STATS", true)
	if c.MemoSize < 0 {
		c.MemoSize = 0
	}
	if c.RunTimeout <= 0 {
		c.RunTimeout = 60 * time.Second
	}
	if c.RateLimitQPS <= 0 {
		c.RateLimitQPS = 20
	}
	return c
}

// DSN：构建 lib/pq 连接串
func (p PostgresConfig) DSN() string {
	dsn := "postgres://" + p.User
	if p.Password != "" {
		dsn += ":" + p.Password
	}
	return dsn + "@" + p.Host + ":" + p.Port + "/" + p.DB + "?sslmode=" + p.SSLMode
}

// Addr：host:port
func (r RedisConfig) Addr() string { return r.Host + ":" + r.Port }
