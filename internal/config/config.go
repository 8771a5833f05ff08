package config

import (
	"log"
	"os"
)

type Config struct {
	AppPort string

	// NewsAPI 的凭证；未配置时只有显式携带 key 的请求才能成功
	NewsAPIKey string

	DBPath    string
	RedisAddr string

	CronSpec string
	Country  string
}

func Load() *Config {
	cfg := &Config{
		AppPort:    getEnv("APP_PORT", "8001"),
		NewsAPIKey: getEnv("NEWSAPI_KEY", ""),
		DBPath:     getEnv("NEWS_DB_PATH", "news_gauge.db"),
		RedisAddr:  getEnv("REDIS_ADDR", "localhost:6379"),
		CronSpec:   getEnv("CRON_SPEC", "@every 1h"),
		Country:    getEnv("NEWS_COUNTRY", "us"),
	}

	log.Printf("config loaded: port=%s db=%s cron=%s country=%s", cfg.AppPort, cfg.DBPath, cfg.CronSpec, cfg.Country)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
