package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr   string
	GinMode   string
	LogMode   string
	DBDSN     string
	Store     string
	RedisAddr string

	JWTSecret string

	NotificationTTL  time.Duration
	SubmitDelay      time.Duration
	LocationInterval time.Duration

	UploadDir      string
	MaxUploadBytes int64

	CORSAllowedOrigins []string
}

const (
	StoreMySQL  = "mysql"
	StoreMemory = "memory"
)

// LoadEnv reads configuration from the process environment. A .env file in the
// working directory is loaded first when present; real env vars win.
func LoadEnv() Env {
	_ = godotenv.Load()

	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	store := strings.ToLower(strings.TrimSpace(os.Getenv("STORE")))
	if store != StoreMemory {
		store = StoreMySQL
	}

	dsn := strings.TrimSpace(os.Getenv("DB_DSN"))
	if dsn == "" {
		dsn = "root:@tcp(127.0.0.1:3306)/speed_app?parseTime=true&loc=UTC&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s"
	}

	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		secret = "super-secret-key-change-me"
	}

	uploadDir := strings.TrimSpace(os.Getenv("UPLOAD_DIR"))
	if uploadDir == "" {
		uploadDir = "./uploads"
	}

	var origins []string
	if raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); raw != "" {
		for _, o := range strings.Split(raw, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				origins = append(origins, o)
			}
		}
	}

	return Env{
		AppAddr:            appAddr,
		GinMode:            strings.TrimSpace(os.Getenv("GIN_MODE")),
		LogMode:            strings.TrimSpace(os.Getenv("LOG_MODE")),
		DBDSN:              dsn,
		Store:              store,
		RedisAddr:          strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		JWTSecret:          secret,
		NotificationTTL:    durationEnv("NOTIFICATION_TTL", 5*time.Second),
		SubmitDelay:        durationEnv("SUBMIT_DELAY", 2*time.Second),
		LocationInterval:   durationEnv("LOCATION_INTERVAL", 10*time.Second),
		UploadDir:          uploadDir,
		MaxUploadBytes:     int64Env("MAX_UPLOAD_BYTES", 5<<20),
		CORSAllowedOrigins: origins,
	}
}

func durationEnv(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return def
	}
	return d
}

func int64Env(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
