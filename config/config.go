package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	OAuth      OAuthConfig
	Cloudinary CloudinaryConfig
	Storage    StorageConfig
	Hunt       HuntConfig
	RateLimit  RateLimitConfig
	Admin      AdminConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// StorageConfig picks where camera captures go: "cloudinary" (default) or "s3".
type StorageConfig struct {
	Backend     string
	S3Bucket    string
	S3Region    string
	S3PublicURL string
}

// HuntConfig tunes ghost spawning and how the server gates tool use.
type HuntConfig struct {
	MinSpawnMeters    float64
	MaxSpawnMeters    float64
	MaxAccuracyMeters float64 // fixes worse than this are discarded
	SignalRadius      float64 // proximity label radius; matches the EMF range
	SpiritBoxHold     time.Duration
	RadarPushInterval time.Duration
	Seed              int64 // 0 = seed from clock
}

// AdminConfig bootstraps the first admin account; empty disables it.
type AdminConfig struct {
	Email    string
	Password string
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         env("PORT", "8099"),
			Env:          env("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             env("DATABASE_DSN", "deadsignal:deadsignal@tcp(localhost:3306)/deadsignal?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  env("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: env("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  envDuration("JWT_ACCESS_EXPIRY", 30*time.Minute),
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "deadsignal",
		},
		OAuth: OAuthConfig{
			GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			GoogleRedirectURL:  env("GOOGLE_REDIRECT_URL", "http://localhost:8099/api/v1/auth/google/callback"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
			Folder:    env("CLOUDINARY_FOLDER", "DeadSignal/captures"),
		},
		Storage: StorageConfig{
			Backend:     env("PHOTO_STORAGE", "cloudinary"),
			S3Bucket:    os.Getenv("S3_CAPTURE_BUCKET"),
			S3Region:    env("AWS_REGION", "us-east-1"),
			S3PublicURL: os.Getenv("S3_PUBLIC_URL"),
		},
		Hunt: HuntConfig{
			MinSpawnMeters:    envFloat("HUNT_MIN_SPAWN_METERS", 60),
			MaxSpawnMeters:    envFloat("HUNT_MAX_SPAWN_METERS", 250),
			MaxAccuracyMeters: envFloat("HUNT_MAX_ACCURACY_METERS", 50),
			SignalRadius:      40,
			SpiritBoxHold:     envDuration("HUNT_SPIRIT_BOX_HOLD", 2*time.Second),
			RadarPushInterval: time.Second,
			Seed:              envInt64("HUNT_SEED", 0),
		},
		RateLimit: RateLimitConfig{
			Requests: 300,
			Window:   60 * time.Second,
		},
		Admin: AdminConfig{
			Email:    os.Getenv("ADMIN_EMAIL"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
	}
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return def
}

func envInt64(key string, def int64) int64 {
	if v, err := strconv.ParseInt(os.Getenv(key), 10, 64); err == nil {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return def
}
