package config

import (
	"os"
	"strconv"
	"time"

	commoncfg "realtor-site/common/config"
)

// Config realtor-site HTTP API configuration.
type Config struct {
	HTTP struct {
		Addr string
	}
	Database commoncfg.DatabaseConfig
	Redis    commoncfg.RedisConfig
	Log      struct {
		Level  string
		Format string
	}
	Search SearchConfig
	MLS    MLSConfig
	Mail   MailConfig
	Auth   struct {
		JWTSecret string
	}
	Leads struct {
		Stream string
	}
	MQTT MQTTConfig
}

// SearchConfig controls property search limits and caching.
type SearchConfig struct {
	DefaultLimit int
	MaxLimit     int
	CacheTTL     time.Duration // 0 disables caching
}

// MLSConfig external MLS web API.
type MLSConfig struct {
	APIURL  string
	Token   string
	Timeout time.Duration
}

// MailConfig selects and configures the outbound mailer.
type MailConfig struct {
	Provider   string // "api" or "smtp"
	APIURL     string
	APIKey     string
	From       string
	AgentEmail string // recipient for lead and sold notifications
	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
}

// MQTTConfig MLS replication update listener.
type MQTTConfig struct {
	Enabled bool
	commoncfg.MQTTConfig
	Topic string
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	cfg.Database = commoncfg.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		Database: "realtor",
		SSLMode:  "disable",
		MaxConns: 20,
		MaxIdle:  5,
	}
	cfg.Database.LoadFromEnv("DB")

	cfg.Redis = commoncfg.RedisConfig{Addr: "localhost:6379"}
	cfg.Redis.LoadFromEnv("REDIS")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.Search.DefaultLimit = parseInt(getEnv("SEARCH_DEFAULT_LIMIT", "50"), 50)
	cfg.Search.MaxLimit = parseInt(getEnv("SEARCH_MAX_LIMIT", "200"), 200)
	cfg.Search.CacheTTL = time.Duration(parseInt(getEnv("SEARCH_CACHE_TTL", "60"), 60)) * time.Second

	cfg.MLS.APIURL = getEnv("MLS_API_URL", "https://query.ampre.ca/odata")
	cfg.MLS.Token = getEnv("MLS_API_TOKEN", "")
	cfg.MLS.Timeout = time.Duration(parseInt(getEnv("MLS_API_TIMEOUT", "15"), 15)) * time.Second

	cfg.Mail.Provider = getEnv("MAIL_PROVIDER", "api")
	cfg.Mail.APIURL = getEnv("MAIL_API_URL", "https://api.resend.com")
	cfg.Mail.APIKey = getEnv("MAIL_API_KEY", "")
	cfg.Mail.From = getEnv("MAIL_FROM", "no-reply@localhost")
	cfg.Mail.AgentEmail = getEnv("AGENT_EMAIL", "")
	cfg.Mail.SMTPHost = getEnv("SMTP_HOST", "")
	cfg.Mail.SMTPPort = parseInt(getEnv("SMTP_PORT", "465"), 465)
	cfg.Mail.SMTPUser = getEnv("SMTP_USER", "")
	cfg.Mail.SMTPPass = getEnv("SMTP_PASS", "")

	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.Leads.Stream = getEnv("LEADS_STREAM", "leads:events")

	// MLS update listener is off unless a broker is configured explicitly.
	cfg.MQTT.Enabled = getEnv("MQTT_ENABLED", "false") == "true"
	cfg.MQTT.MQTTConfig = commoncfg.MQTTConfig{
		Broker:   "tcp://localhost:1883",
		ClientID: "realtor-site",
		QoS:      1,
	}
	cfg.MQTT.LoadFromEnv("MQTT")
	cfg.MQTT.Topic = getEnv("MLS_UPDATE_TOPIC", "mls/listings/updated")

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
