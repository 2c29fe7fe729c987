// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
	"golang.org/x/crypto/bcrypt"
)

var configFile = altsrc.StringSourcer("config.toml")

type Config struct { //nolint:govet // fieldalignment not critical for config structs
	Server    ServerConfig
	Log       LogConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Auth      AuthConfig
	SMTP      SMTPConfig
	Cookie    CookieConfig
	Images    ImagesConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host        string
	Port        int
	BaseURL     string   // externally reachable URL, used in activation links
	APIURL      string   // prefix for public image URLs, defaults to BaseURL
	MaxBodySize int      // in MB
	CORSOrigins []string // allowed origins, empty allows all
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text, json
}

type DatabaseConfig struct {
	DSN string // sqlite file path or postgres:// URL
}

type JWTConfig struct { //nolint:govet // fieldalignment not critical for config structs
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type AuthConfig struct {
	BcryptCost    int
	AdminEmail    string // bootstrap admin, optional
	AdminPassword string
}

type SMTPConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	TLS      bool
}

type CookieConfig struct {
	HashKey  string // hex, signs the refresh token cookie
	BlockKey string // hex, optional encryption
	Secure   bool
}

type ImagesConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Backend       string // disk, s3
	Dir           string
	AvatarMaxSize int // longest edge in pixels, 0 disables downscaling
	S3            S3Config
}

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

type RedisConfig struct {
	Addr     string // empty keeps refresh tokens in the database
	Password string
	DB       int
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

var (
	ErrMissingJWTSecret = errors.New("jwt access and refresh secrets are required")
	ErrSameJWTSecret    = errors.New("jwt access and refresh secrets must differ")
	ErrBcryptCost       = errors.New("bcrypt cost out of range")
	ErrSMTPRequired     = errors.New("smtp host is required unless the server binds to localhost")
)

func NewFromCLI(cmd *cli.Command) *Config {
	cfg := &Config{
		Server: ServerConfig{
			Host:        cmd.String("host"),
			Port:        int(cmd.Int("port")),
			BaseURL:     cmd.String("base-url"),
			APIURL:      cmd.String("api-url"),
			MaxBodySize: int(cmd.Int("max-body-size")),
			CORSOrigins: cmd.StringSlice("cors-origins"),
		},
		Log: LogConfig{
			Level:  cmd.String("log-level"),
			Format: cmd.String("log-format"),
		},
		Database: DatabaseConfig{
			DSN: cmd.String("database-dsn"),
		},
		JWT: JWTConfig{
			AccessSecret:  cmd.String("jwt-access-secret"),
			RefreshSecret: cmd.String("jwt-refresh-secret"),
			AccessTTL:     cmd.Duration("jwt-access-ttl"),
			RefreshTTL:    cmd.Duration("jwt-refresh-ttl"),
		},
		Auth: AuthConfig{
			BcryptCost:    int(cmd.Int("bcrypt-cost")),
			AdminEmail:    cmd.String("admin-email"),
			AdminPassword: cmd.String("admin-password"),
		},
		SMTP: SMTPConfig{
			Host:     cmd.String("smtp-host"),
			Port:     int(cmd.Int("smtp-port")),
			Username: cmd.String("smtp-username"),
			Password: cmd.String("smtp-password"),
			From:     cmd.String("smtp-from"),
			FromName: cmd.String("smtp-from-name"),
			TLS:      cmd.Bool("smtp-tls"),
		},
		Cookie: CookieConfig{
			HashKey:  cmd.String("cookie-hash-key"),
			BlockKey: cmd.String("cookie-block-key"),
		},
		Images: ImagesConfig{
			Backend:       cmd.String("images-backend"),
			Dir:           cmd.String("images-dir"),
			AvatarMaxSize: int(cmd.Int("avatar-max-size")),
			S3: S3Config{
				Bucket:    cmd.String("s3-bucket"),
				Region:    cmd.String("s3-region"),
				Endpoint:  cmd.String("s3-endpoint"),
				AccessKey: cmd.String("s3-access-key"),
				SecretKey: cmd.String("s3-secret-key"),
			},
		},
		Redis: RedisConfig{
			Addr:     cmd.String("redis-addr"),
			Password: cmd.String("redis-password"),
			DB:       int(cmd.Int("redis-db")),
		},
		RateLimit: RateLimitConfig{
			Requests: int(cmd.Int("otp-rate-limit")),
			Window:   cmd.Duration("otp-rate-window"),
		},
	}

	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = buildBaseURL(cfg.Server.Host, cfg.Server.Port)
	}
	cfg.Server.BaseURL = strings.TrimSuffix(cfg.Server.BaseURL, "/")
	if cfg.Server.APIURL == "" {
		cfg.Server.APIURL = cfg.Server.BaseURL
	}
	cfg.Server.APIURL = strings.TrimSuffix(cfg.Server.APIURL, "/")

	cfg.Cookie.Secure = strings.HasPrefix(cfg.Server.BaseURL, "https://")

	return cfg
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
		return ErrMissingJWTSecret
	}
	if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		return ErrSameJWTSecret
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("%w: %d", ErrBcryptCost, c.Auth.BcryptCost)
	}
	// Without SMTP, mail (activation links, reset codes) only goes to the log.
	if c.SMTP.Host == "" && !IsLocalhost(c.Server.Host) {
		return fmt.Errorf("%w: host %q", ErrSMTPRequired, c.Server.Host)
	}
	return nil
}

// UsePostgres reports whether the DSN points at a PostgreSQL server.
func (c *DatabaseConfig) UsePostgres() bool {
	return strings.HasPrefix(c.DSN, "postgres://") || strings.HasPrefix(c.DSN, "postgresql://")
}

func buildBaseURL(host string, port int) string {
	if host == "" {
		host = "localhost"
	}
	if port == 80 {
		return fmt.Sprintf("http://%s", host)
	}
	return fmt.Sprintf("http://%s:%d", host, port)
}

// IsLocalhost checks if the host is a localhost address.
func IsLocalhost(host string) bool {
	switch host {
	case "", "localhost", "127.0.0.1", "::1":
		return true
	}
	return strings.HasSuffix(host, ".localhost")
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Value:   "localhost",
			Usage:   "Host to bind to",
			Sources: cli.NewValueSourceChain(cli.EnvVar("HOST"), toml.TOML("server.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "port",
			Value:   5000,
			Usage:   "Port to listen on",
			Sources: cli.NewValueSourceChain(cli.EnvVar("PORT"), toml.TOML("server.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "Externally reachable base URL used in activation links",
			Sources: cli.NewValueSourceChain(cli.EnvVar("BASE_URL"), toml.TOML("server.base_url", configFile)),
		},
		&cli.StringFlag{
			Name:    "api-url",
			Usage:   "Base URL for public image links (defaults to base-url)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("API_URL"), toml.TOML("server.api_url", configFile)),
		},
		&cli.IntFlag{
			Name:    "max-body-size",
			Value:   20,
			Usage:   "Maximum request body size in MB",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MAX_BODY_SIZE"), toml.TOML("server.max_body_size", configFile)),
		},
		&cli.StringSliceFlag{
			Name:    "cors-origins",
			Usage:   "Allowed CORS origins (empty allows all)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("CORS_ORIGINS"), toml.TOML("server.cors_origins", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "Log level (debug, info, warn, error)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_LEVEL"), toml.TOML("log.level", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "text",
			Usage:   "Log format (text, json)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_FORMAT"), toml.TOML("log.format", configFile)),
		},
		&cli.StringFlag{
			Name:    "database-dsn",
			Value:   "./data/app.db",
			Usage:   "Database DSN (sqlite path or postgres:// URL)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DATABASE_DSN"), toml.TOML("database.dsn", configFile)),
		},
		// JWT flags
		&cli.StringFlag{
			Name:    "jwt-access-secret",
			Usage:   "Secret for signing access tokens",
			Sources: cli.NewValueSourceChain(cli.EnvVar("JWT_ACCESS_SECRET"), toml.TOML("jwt.access_secret", configFile)),
		},
		&cli.StringFlag{
			Name:    "jwt-refresh-secret",
			Usage:   "Secret for signing refresh tokens",
			Sources: cli.NewValueSourceChain(cli.EnvVar("JWT_REFRESH_SECRET"), toml.TOML("jwt.refresh_secret", configFile)),
		},
		&cli.DurationFlag{
			Name:    "jwt-access-ttl",
			Value:   30 * time.Minute,
			Usage:   "Access token lifetime",
			Sources: cli.NewValueSourceChain(cli.EnvVar("JWT_ACCESS_TTL"), toml.TOML("jwt.access_ttl", configFile)),
		},
		&cli.DurationFlag{
			Name:    "jwt-refresh-ttl",
			Value:   30 * 24 * time.Hour,
			Usage:   "Refresh token lifetime",
			Sources: cli.NewValueSourceChain(cli.EnvVar("JWT_REFRESH_TTL"), toml.TOML("jwt.refresh_ttl", configFile)),
		},
		// Auth flags
		&cli.IntFlag{
			Name:    "bcrypt-cost",
			Value:   bcrypt.DefaultCost,
			Usage:   "bcrypt cost factor for password hashes",
			Sources: cli.NewValueSourceChain(cli.EnvVar("BCRYPT_COST"), toml.TOML("auth.bcrypt_cost", configFile)),
		},
		&cli.StringFlag{
			Name:    "admin-email",
			Usage:   "Email of the bootstrap admin account",
			Sources: cli.NewValueSourceChain(cli.EnvVar("ADMIN_EMAIL"), toml.TOML("auth.admin_email", configFile)),
		},
		&cli.StringFlag{
			Name:    "admin-password",
			Usage:   "Password of the bootstrap admin account",
			Sources: cli.NewValueSourceChain(cli.EnvVar("ADMIN_PASSWORD"), toml.TOML("auth.admin_password", configFile)),
		},
		// SMTP flags
		&cli.StringFlag{
			Name:    "smtp-host",
			Usage:   "SMTP server host",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_HOST"), toml.TOML("smtp.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "smtp-port",
			Value:   587,
			Usage:   "SMTP server port",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PORT"), toml.TOML("smtp.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-username",
			Usage:   "SMTP username",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_USER"), toml.TOML("smtp.username", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-password",
			Usage:   "SMTP password",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PASSWORD"), toml.TOML("smtp.password", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from",
			Usage:   "Sender address",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM"), toml.TOML("smtp.from", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from-name",
			Value:   "Alumni",
			Usage:   "Sender display name",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM_NAME"), toml.TOML("smtp.from_name", configFile)),
		},
		&cli.BoolFlag{
			Name:    "smtp-tls",
			Value:   true,
			Usage:   "Require TLS for SMTP",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_TLS"), toml.TOML("smtp.tls", configFile)),
		},
		// Cookie flags
		&cli.StringFlag{
			Name:    "cookie-hash-key",
			Usage:   "Refresh cookie hash key (hex, generated if empty)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("COOKIE_HASH_KEY"), toml.TOML("cookie.hash_key", configFile)),
		},
		&cli.StringFlag{
			Name:    "cookie-block-key",
			Usage:   "Refresh cookie block key for encryption (hex, optional)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("COOKIE_BLOCK_KEY"), toml.TOML("cookie.block_key", configFile)),
		},
		// Image flags
		&cli.StringFlag{
			Name:    "images-backend",
			Value:   "disk",
			Usage:   "Image storage backend (disk, s3)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("IMAGES_BACKEND"), toml.TOML("images.backend", configFile)),
		},
		&cli.StringFlag{
			Name:    "images-dir",
			Value:   "./data/images",
			Usage:   "Directory for uploaded images (disk backend)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("IMAGES_DIR"), toml.TOML("images.dir", configFile)),
		},
		&cli.IntFlag{
			Name:    "avatar-max-size",
			Value:   512,
			Usage:   "Longest avatar edge in pixels (0 keeps originals)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("AVATAR_MAX_SIZE"), toml.TOML("images.avatar_max_size", configFile)),
		},
		&cli.StringFlag{
			Name:    "s3-bucket",
			Usage:   "S3 bucket for images",
			Sources: cli.NewValueSourceChain(cli.EnvVar("S3_BUCKET"), toml.TOML("images.s3.bucket", configFile)),
		},
		&cli.StringFlag{
			Name:    "s3-region",
			Value:   "us-east-1",
			Usage:   "S3 region",
			Sources: cli.NewValueSourceChain(cli.EnvVar("S3_REGION"), toml.TOML("images.s3.region", configFile)),
		},
		&cli.StringFlag{
			Name:    "s3-endpoint",
			Usage:   "S3 endpoint for S3-compatible stores (optional)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("S3_ENDPOINT"), toml.TOML("images.s3.endpoint", configFile)),
		},
		&cli.StringFlag{
			Name:    "s3-access-key",
			Usage:   "S3 access key",
			Sources: cli.NewValueSourceChain(cli.EnvVar("S3_ACCESS_KEY"), toml.TOML("images.s3.access_key", configFile)),
		},
		&cli.StringFlag{
			Name:    "s3-secret-key",
			Usage:   "S3 secret key",
			Sources: cli.NewValueSourceChain(cli.EnvVar("S3_SECRET_KEY"), toml.TOML("images.s3.secret_key", configFile)),
		},
		// Redis flags
		&cli.StringFlag{
			Name:    "redis-addr",
			Usage:   "Redis address for refresh tokens (empty uses the database)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("REDIS_ADDR"), toml.TOML("redis.addr", configFile)),
		},
		&cli.StringFlag{
			Name:    "redis-password",
			Usage:   "Redis password",
			Sources: cli.NewValueSourceChain(cli.EnvVar("REDIS_PASSWORD"), toml.TOML("redis.password", configFile)),
		},
		&cli.IntFlag{
			Name:    "redis-db",
			Usage:   "Redis database number",
			Sources: cli.NewValueSourceChain(cli.EnvVar("REDIS_DB"), toml.TOML("redis.db", configFile)),
		},
		// Rate limit flags
		&cli.IntFlag{
			Name:    "otp-rate-limit",
			Value:   5,
			Usage:   "Requests per window allowed on OTP endpoints",
			Sources: cli.NewValueSourceChain(cli.EnvVar("OTP_RATE_LIMIT"), toml.TOML("rate_limit.requests", configFile)),
		},
		&cli.DurationFlag{
			Name:    "otp-rate-window",
			Value:   15 * time.Minute,
			Usage:   "Window for the OTP rate limit",
			Sources: cli.NewValueSourceChain(cli.EnvVar("OTP_RATE_WINDOW"), toml.TOML("rate_limit.window", configFile)),
		},
	}
}
