package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	GeodataFile     string        // path to the country/coordinate yaml file
	FetchTimeout    time.Duration // timeout for fetching a source page
	RefreshInterval time.Duration // interval between background refresh walks (default: 24h)
	SweepInterval   time.Duration // interval between orphaned-cache sweeps (default: 24h)

	// OpenAI
	OpenAIKey   string // API key for the extraction model
	OpenAIModel string // optional model override, empty = package default

	// MongoDB
	MongoURI            string        // ex: "mongodb://localhost:27017"
	MongoDatabase       string        // database name
	MongoConnectTimeout time.Duration // total time to retry connecting (ex: 30s)
	MongoPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	MongoRetryInterval  time.Duration // initial wait between retries (ex: 2s, grows exponentially)
	MongoMaxWait        time.Duration // max wait between retries (ex: 10s)

	// Redis (rate limiting)
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	// Rate limiting for the scrape-backed endpoints
	RateLimitRequests int           // allowed requests per window per client IP
	RateLimitWindow   time.Duration // fixed window length

	AdminCIDRS []string // restrict admin routes to specific networks (e.g. "10.0.0.0/8")
	AdminHosts []string // restrict admin routes to specific Host headers (optional)
	TrustProxy bool     // true => trust X-Forwarded-For headers
}

func Load() *Config {
	// Local development reads a .env file; missing is fine in production.
	_ = godotenv.Load()

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("VA_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("VA_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("VA_LOG_LEVEL", "info"),
		PrettyLog: mustBool("VA_PRETTY_LOG", true),

		// Directory building
		GeodataFile:     getenv("VA_GEODATA_FILE", "/app/geodata.yaml"),
		FetchTimeout:    mustDuration("VA_FETCH_TIMEOUT", 30*time.Second),
		RefreshInterval: mustDuration("VA_REFRESH_INTERVAL", 24*time.Hour),
		SweepInterval:   mustDuration("VA_SWEEP_INTERVAL", 24*time.Hour),

		// OpenAI settings
		OpenAIKey:   requireEnv("VA_OPENAI_API_KEY"),
		OpenAIModel: getenv("VA_OPENAI_MODEL", ""),

		// MongoDB settings
		MongoURI:            requireEnv("VA_MONGO_URI"),
		MongoDatabase:       getenv("VA_MONGO_DB", "destinations"),
		MongoConnectTimeout: mustDuration("VA_MONGO_CONNECT_TIMEOUT", 30*time.Second),
		MongoPingTimeout:    mustDuration("VA_MONGO_PING_TIMEOUT", 5*time.Second),
		MongoRetryInterval:  mustDuration("VA_MONGO_RETRY_INTERVAL", 2*time.Second),
		MongoMaxWait:        mustDuration("VA_MONGO_MAX_WAIT", 10*time.Second),

		// Redis settings
		RedisAddr:             requireEnv("VA_REDIS_ADDR"),
		RedisUser:             getenv("VA_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("VA_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("VA_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("VA_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Rate limiting
		RateLimitRequests: getenvInt("VA_RATE_LIMIT_REQUESTS", 30),
		RateLimitWindow:   mustDuration("VA_RATE_LIMIT_WINDOW", time.Minute),

		// Access restrictions
		AdminCIDRS: parseAllowedIPs(getenv("VA_ADMIN_CIDRS", "")),
		AdminHosts: splitAndTrim(getenv("VA_ADMIN_HOSTS", "")),
		TrustProxy: mustBool("VA_TRUST_PROXY", true),
	}

	// Validate Redis password configuration
	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: VA_REDIS_PASSWORD is required when VA_REDIS_PASSWORD_REQUIRED=true")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.OpenAIKey = "***REDACTED***"
		cfgCopy.RedisPassword = "***REDACTED***"
		cfgCopy.MongoURI = "***REDACTED***"
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
