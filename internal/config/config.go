package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	Env            string
	MongoURI       string
	MongoDB        string
	RequestTimeout time.Duration

	TokenTTL        time.Duration
	DefaultDuration time.Duration
	MaxDuration     time.Duration // 0 = unbounded
	DefaultContent  string
	MaxContentBytes int
	MaxFiles        int
	MaxFileBytes    int64
	BcryptCost      int

	CORSOrigins      []string
	RedisAddr        string
	UnlockRatePerMin int

	RabbitURL      string
	RabbitExchange string
	RabbitQueue    string

	S3 S3Config

	StatsCron string
	DDEnabled bool
}

type S3Config struct {
	Bucket          string
	Region          string
	EndpointURL     string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
	PresignTTL      time.Duration
}

// Enabled reports whether an object store is configured for attachments.
func (c S3Config) Enabled() bool { return c.Bucket != "" }

// Load reads the process environment, after merging an optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	var n ints
	cfg := Config{
		Port:           getenv("APP_PORT", "8080"),
		Env:            getenv("APP_ENV", "development"),
		MongoURI:       getenv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:        getenv("MONGODB_DB", "sendy"),
		RequestTimeout: time.Duration(n.get("REQUEST_TIMEOUT_SECONDS", "10")) * time.Second,

		TokenTTL:        time.Duration(n.get("ACCESS_TOKEN_TTL_SECONDS", "3600")) * time.Second,
		DefaultDuration: time.Duration(n.get("DEFAULT_DURATION_MS", "3600000")) * time.Millisecond,
		MaxDuration:     time.Duration(n.get("MAX_DURATION_MS", "0")) * time.Millisecond,
		DefaultContent:  os.Getenv("DEFAULT_CONTENT"),
		MaxContentBytes: n.get("MAX_CONTENT_BYTES", "1048576"),
		MaxFiles:        n.get("MAX_FILES", "5"),
		MaxFileBytes:    int64(n.get("MAX_FILE_BYTES", "10485760")),
		BcryptCost:      n.get("BCRYPT_COST", "12"),

		CORSOrigins:      splitList(getenv("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		UnlockRatePerMin: n.get("UNLOCK_RATE_PER_MIN", "10"),

		RabbitURL:      os.Getenv("RABBIT_URL"),
		RabbitExchange: getenv("RABBIT_EXCHANGE", "sendy.events"),
		RabbitQueue:    getenv("RABBIT_QUEUE", "sendy.audit"),

		S3: S3Config{
			Bucket:          os.Getenv("S3_BUCKET"),
			Region:          getenv("S3_REGION", "us-east-1"),
			EndpointURL:     os.Getenv("S3_ENDPOINT_URL"),
			AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
			PublicBaseURL:   strings.TrimRight(os.Getenv("S3_PUBLIC_BASE_URL"), "/"),
			PresignTTL:      time.Duration(n.get("S3_PRESIGN_TTL_SECONDS", "900")) * time.Second,
		},

		StatsCron: getenv("STATS_CRON", "@every 1m"),
		DDEnabled: getenv("DD_ENABLED", "false") == "true",
	}

	if n.err != nil {
		return Config{}, n.err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("APP_PORT is required")
	}
	if c.MongoURI == "" {
		return fmt.Errorf("MONGODB_URI is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL_SECONDS must be positive")
	}
	if c.DefaultDuration < time.Minute {
		return fmt.Errorf("DEFAULT_DURATION_MS must be at least 60000")
	}
	if c.MaxDuration != 0 && c.MaxDuration < c.DefaultDuration {
		return fmt.Errorf("MAX_DURATION_MS must not be below DEFAULT_DURATION_MS")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}
	if c.MaxFiles < 0 || c.MaxContentBytes <= 0 || c.MaxFileBytes <= 0 {
		return fmt.Errorf("content and file limits must be positive")
	}
	return nil
}

// Dev reports whether the service runs outside production.
func (c Config) Dev() bool { return c.Env != "production" }

// ints parses integer variables and keeps the first failure.
type ints struct{ err error }

func (n *ints) get(k, def string) int {
	raw := getenv(k, def)
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		if n.err == nil {
			n.err = fmt.Errorf("%s: invalid integer %q", k, raw)
		}
		return 0
	}
	return v
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
