package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const DefaultUserAgent = "NewsCardBot/1.0 (+https://github.com/LJTian/NewsCard)"

// DefaultPlaceholderImage 没有任何图片来源时使用的占位图
const DefaultPlaceholderImage = "https://via.placeholder.com/640"

type Config struct {
	AppPort string

	FetchTimeout     time.Duration
	MaxCount         int
	TitleMaxLen      int
	UserAgent        string
	PlaceholderImage string

	// TopicsFile 可选的 YAML 主题表，覆盖/追加内置主题
	TopicsFile string

	// PostgresDSN 为空时不启用数据库主题表
	PostgresDSN string
	// RedisAddr 为空时图片缓存使用进程内 LRU
	RedisAddr string

	ImageCacheSize int
	ImageCacheTTL  time.Duration

	// CronSpec 主题表定时重载周期
	CronSpec string

	LogFile string
}

func Load() *Config {
	// .env 可选，不存在时直接使用进程环境变量
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warn: load .env: %v", err)
	}

	cfg := &Config{
		AppPort:          getEnv("APP_PORT", "9000"),
		FetchTimeout:     getDuration("FETCH_TIMEOUT", 5*time.Second),
		MaxCount:         getInt("MAX_COUNT", 5),
		TitleMaxLen:      getInt("TITLE_MAX_LEN", 40),
		UserAgent:        getEnv("USER_AGENT", DefaultUserAgent),
		PlaceholderImage: getEnv("PLACEHOLDER_IMAGE", DefaultPlaceholderImage),
		TopicsFile:       os.Getenv("TOPICS_FILE"),
		PostgresDSN:      os.Getenv("POSTGRES_DSN"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		ImageCacheSize:   getInt("IMAGE_CACHE_SIZE", 512),
		ImageCacheTTL:    getDuration("IMAGE_CACHE_TTL", 6*time.Hour),
		CronSpec:         getEnv("CRON_SPEC", "*/10 * * * *"),
		LogFile:          os.Getenv("LOG_FILE"),
	}

	log.Printf("config loaded: port=%s timeout=%s max=%d cron=%s", cfg.AppPort, cfg.FetchTimeout, cfg.MaxCount, cfg.CronSpec)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getInt 非法或非正数时回退默认值
func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("warn: invalid %s=%q, use %d", key, v, def)
		return def
	}
	return n
}

// getDuration 同时接受 "5s" 这类写法和纯数字秒数
func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	log.Printf("warn: invalid %s=%q, use %s", key, v, def)
	return def
}
