// Package config builds the runtime configuration from CLI flags,
// environment variables and an optional TOML file.
package config

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

var configFile = altsrc.StringSourcer("config.toml")

type Config struct { //nolint:govet // fieldalignment not critical for config structs
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	Session  SessionConfig
	Admin    AdminConfig
	SMTP     SMTPConfig
	Reset    ResetConfig
	Upload   UploadConfig
}

type ServerConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host    string
	Port    int
	BaseURL string
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text, json
}

type DatabaseConfig struct {
	DSN            string
	QueryTimeoutMS int // per-request deadline for database work
}

type SessionConfig struct { //nolint:govet // fieldalignment not critical
	CookieName    string
	CookieSecure  bool
	LifetimeHours int
}

// AdminConfig bootstraps the first admin account when no admin exists.
type AdminConfig struct {
	Email    string
	Password string
}

type SMTPConfig struct { //nolint:govet // fieldalignment not critical
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	TLS      bool
	DevMode  bool // log reset links instead of sending mail
}

type ResetConfig struct {
	TokenExpiryMinutes int
	CleanupHours       int
}

type UploadConfig struct {
	Dir       string
	MaxSizeMB int
}

func NewFromCLI(cmd *cli.Command) *Config {
	return &Config{
		Server: ServerConfig{
			Host:    cmd.String("host"),
			Port:    int(cmd.Int("port")),
			BaseURL: cmd.String("base-url"),
		},
		Log: LogConfig{
			Level:  cmd.String("log-level"),
			Format: cmd.String("log-format"),
		},
		Database: DatabaseConfig{
			DSN:            cmd.String("database-dsn"),
			QueryTimeoutMS: int(cmd.Int("database-timeout-ms")),
		},
		Session: SessionConfig{
			CookieName:    cmd.String("session-cookie-name"),
			CookieSecure:  cmd.Bool("session-cookie-secure"),
			LifetimeHours: int(cmd.Int("session-lifetime")),
		},
		Admin: AdminConfig{
			Email:    cmd.String("admin-email"),
			Password: cmd.String("admin-password"),
		},
		SMTP: SMTPConfig{
			Host:     cmd.String("smtp-host"),
			Port:     int(cmd.Int("smtp-port")),
			Username: cmd.String("smtp-username"),
			Password: cmd.String("smtp-password"),
			From:     cmd.String("smtp-from"),
			FromName: cmd.String("smtp-from-name"),
			TLS:      cmd.Bool("smtp-tls"),
			DevMode:  cmd.Bool("email-dev-mode"),
		},
		Reset: ResetConfig{
			TokenExpiryMinutes: int(cmd.Int("reset-token-expiry")),
			CleanupHours:       int(cmd.Int("reset-cleanup-hours")),
		},
		Upload: UploadConfig{
			Dir:       cmd.String("upload-dir"),
			MaxSizeMB: int(cmd.Int("upload-max-size")),
		},
	}
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
			Value:   8080,
			Usage:   "Port to listen on",
			Sources: cli.NewValueSourceChain(cli.EnvVar("PORT"), toml.TOML("server.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "base-url",
			Value:   "http://localhost:8080",
			Usage:   "Base URL used in password reset links",
			Sources: cli.NewValueSourceChain(cli.EnvVar("BASE_URL"), toml.TOML("server.base_url", configFile)),
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
			Value:   "./data/ballotbox.db",
			Usage:   "Database DSN",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DATABASE_DSN"), toml.TOML("database.dsn", configFile)),
		},
		&cli.IntFlag{
			Name:    "database-timeout-ms",
			Value:   5000,
			Usage:   "Per-request database deadline in milliseconds",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DATABASE_TIMEOUT_MS"), toml.TOML("database.timeout_ms", configFile)),
		},
		&cli.StringFlag{
			Name:    "session-cookie-name",
			Value:   "_session",
			Usage:   "Session cookie name",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_COOKIE_NAME"), toml.TOML("session.cookie_name", configFile)),
		},
		&cli.BoolFlag{
			Name:    "session-cookie-secure",
			Usage:   "HTTPS-only session cookie",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_COOKIE_SECURE"), toml.TOML("session.cookie_secure", configFile)),
		},
		&cli.IntFlag{
			Name:    "session-lifetime",
			Value:   24,
			Usage:   "Session lifetime in hours",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_LIFETIME"), toml.TOML("session.lifetime", configFile)),
		},
		&cli.StringFlag{
			Name:    "admin-email",
			Usage:   "Bootstrap admin email (created when no admin exists)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("ADMIN_EMAIL"), toml.TOML("admin.email", configFile)),
		},
		&cli.StringFlag{
			Name:    "admin-password",
			Usage:   "Bootstrap admin password",
			Sources: cli.NewValueSourceChain(cli.EnvVar("ADMIN_PASSWORD"), toml.TOML("admin.password", configFile)),
		},
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
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_USERNAME"), toml.TOML("smtp.username", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-password",
			Usage:   "SMTP password",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PASSWORD"), toml.TOML("smtp.password", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from",
			Value:   "noreply@localhost",
			Usage:   "From address for outgoing mail",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM"), toml.TOML("smtp.from", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from-name",
			Value:   "Ballotbox",
			Usage:   "From display name for outgoing mail",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM_NAME"), toml.TOML("smtp.from_name", configFile)),
		},
		&cli.BoolFlag{
			Name:    "smtp-tls",
			Value:   true,
			Usage:   "Require TLS for SMTP",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_TLS"), toml.TOML("smtp.tls", configFile)),
		},
		&cli.BoolFlag{
			Name:    "email-dev-mode",
			Usage:   "Log reset links instead of sending mail",
			Sources: cli.NewValueSourceChain(cli.EnvVar("EMAIL_DEV_MODE"), toml.TOML("smtp.dev_mode", configFile)),
		},
		&cli.IntFlag{
			Name:    "reset-token-expiry",
			Value:   30,
			Usage:   "Password reset token expiry in minutes",
			Sources: cli.NewValueSourceChain(cli.EnvVar("RESET_TOKEN_EXPIRY"), toml.TOML("reset.token_expiry", configFile)),
		},
		&cli.IntFlag{
			Name:    "reset-cleanup-hours",
			Value:   24,
			Usage:   "Age in hours after which reset tokens are garbage collected",
			Sources: cli.NewValueSourceChain(cli.EnvVar("RESET_CLEANUP_HOURS"), toml.TOML("reset.cleanup_hours", configFile)),
		},
		&cli.StringFlag{
			Name:    "upload-dir",
			Value:   "./data/uploads",
			Usage:   "Directory for candidate photos",
			Sources: cli.NewValueSourceChain(cli.EnvVar("UPLOAD_DIR"), toml.TOML("upload.dir", configFile)),
		},
		&cli.IntFlag{
			Name:    "upload-max-size",
			Value:   5,
			Usage:   "Maximum photo size in MB",
			Sources: cli.NewValueSourceChain(cli.EnvVar("UPLOAD_MAX_SIZE"), toml.TOML("upload.max_size", configFile)),
		},
	}
}
