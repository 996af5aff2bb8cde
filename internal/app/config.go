package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config represents the runtime configuration for the faculty site backend.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Auth        AuthConfig        `mapstructure:"auth"`
	App         SiteConfig        `mapstructure:"app"`
	Email       EmailConfig       `mapstructure:"email"`
	Uploads     UploadsConfig     `mapstructure:"uploads"`
	Content     ContentConfig     `mapstructure:"content"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	CORS        CORSConfig        `mapstructure:"cors"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	LogLevel        string        `mapstructure:"log_level"`
	LogFormat       string        `mapstructure:"log_format"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Metrics         bool          `mapstructure:"metrics"`
}

// DatabaseConfig describes connection options for the supported databases.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Path            string        `mapstructure:"path"`
	DSN             string        `mapstructure:"dsn"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Name            string        `mapstructure:"name"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogQueries      bool          `mapstructure:"log_queries"`
}

// AuthConfig captures all authentication-related settings.
type AuthConfig struct {
	JWT          JWTSettings     `mapstructure:"jwt"`
	Session      SessionSettings `mapstructure:"session"`
	Verification TokenSettings   `mapstructure:"verification"`
	Reset        TokenSettings   `mapstructure:"reset"`
	PasswordCost int             `mapstructure:"password_cost"`
}

// JWTSettings configures JWT access tokens and emailed action tokens.
type JWTSettings struct {
	Secret string        `mapstructure:"secret"`
	Issuer string        `mapstructure:"issuer"`
	TTL    time.Duration `mapstructure:"access_token_ttl"`
}

// SessionSettings configures refresh tokens and session lifetimes.
type SessionSettings struct {
	RefreshTTL    time.Duration `mapstructure:"refresh_token_ttl"`
	RefreshLength int           `mapstructure:"refresh_token_length"`
}

// TokenSettings configures one kind of emailed token.
type TokenSettings struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// SiteConfig holds the public facing values used in emails and links.
type SiteConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	SiteName string `mapstructure:"site_name"`
}

// EmailConfig captures outbound email settings.
type EmailConfig struct {
	Driver   string         `mapstructure:"driver"`
	From     string         `mapstructure:"from"`
	FromName string         `mapstructure:"from_name"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	SendGrid SendGridConfig `mapstructure:"sendgrid"`
}

// SMTPConfig defines SMTP dialer settings for sending email.
type SMTPConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	UseTLS   bool          `mapstructure:"use_tls"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// SendGridConfig configures the SendGrid API driver.
type SendGridConfig struct {
	APIKey string `mapstructure:"api_key"`
	Host   string `mapstructure:"host"`
}

// UploadsConfig controls where uploaded files land and how they are served.
type UploadsConfig struct {
	Dir          string `mapstructure:"dir"`
	URLPrefix    string `mapstructure:"url_prefix"`
	UniqueNames  bool   `mapstructure:"unique_names"`
	SniffContent bool   `mapstructure:"sniff_content"`
	ImageLimit   int64  `mapstructure:"image_limit"`
	PDFLimit     int64  `mapstructure:"pdf_limit"`
}

// ContentConfig overrides the seeded profile and social records.
type ContentConfig struct {
	Profile ProfileSeed `mapstructure:"profile"`
	Social  SocialSeed  `mapstructure:"social"`
}

// ProfileSeed mirrors the scalar profile fields plus specializations.
type ProfileSeed struct {
	TeacherName     string   `mapstructure:"teacher_name"`
	Title           string   `mapstructure:"title"`
	Department      string   `mapstructure:"department"`
	University      string   `mapstructure:"university"`
	UniversityFull  string   `mapstructure:"university_full"`
	Bio             string   `mapstructure:"bio"`
	DetailedBio     string   `mapstructure:"detailed_bio"`
	Specializations []string `mapstructure:"specializations"`
}

// SocialSeed mirrors the social record.
type SocialSeed struct {
	Github       string `mapstructure:"github"`
	Linkedin     string `mapstructure:"linkedin"`
	Researchgate string `mapstructure:"researchgate"`
	Email        string `mapstructure:"email"`
	Phone        string `mapstructure:"phone"`
}

// MaintenanceConfig schedules background purges.
type MaintenanceConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	TokenSchedule   string `mapstructure:"token_cleanup_schedule"`
	SessionSchedule string `mapstructure:"session_cleanup_schedule"`
}

// RateLimitConfig applies to the public account endpoints.
// Store selects where counters live: "memory" (default) or "database".
type RateLimitConfig struct {
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
	Store    string        `mapstructure:"store"`
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LoadConfig initialises application configuration using Viper with sensible defaults.
// A .env file in the working directory is loaded into the environment first.
func LoadConfig(paths ...string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName("config")

	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/facultysite")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	v.SetEnvPrefix("FACULTYSITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var cfgErr viper.ConfigFileNotFoundError
		if !errors.As(err, &cfgErr) {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config, decodeHook()); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	return &config, nil
}

// loadDotEnv populates unset environment variables from path. A missing file
// is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config: stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_format", "json")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.metrics", true)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/facultysite.sqlite")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 0)
	v.SetDefault("database.name", "")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.max_open_conns", 0)
	v.SetDefault("database.max_idle_conns", 0)
	v.SetDefault("database.conn_max_lifetime", "0s")
	v.SetDefault("database.log_queries", false)

	v.SetDefault("auth.jwt.secret", "")
	v.SetDefault("auth.jwt.issuer", "facultysite")
	v.SetDefault("auth.jwt.access_token_ttl", "15m")
	v.SetDefault("auth.session.refresh_token_ttl", "168h") // 7 days
	v.SetDefault("auth.session.refresh_token_length", 48)
	v.SetDefault("auth.verification.ttl", "24h")
	v.SetDefault("auth.reset.ttl", "1h")
	v.SetDefault("auth.password_cost", 0)

	v.SetDefault("app.base_url", "http://localhost:3000")
	v.SetDefault("app.site_name", "Faculty Site")

	v.SetDefault("email.driver", "log")
	v.SetDefault("email.from", "no-reply@localhost.localdomain")
	v.SetDefault("email.from_name", "")
	v.SetDefault("email.smtp.host", "")
	v.SetDefault("email.smtp.port", 587)
	v.SetDefault("email.smtp.username", "")
	v.SetDefault("email.smtp.password", "")
	v.SetDefault("email.smtp.use_tls", false)
	v.SetDefault("email.smtp.timeout", "10s")
	v.SetDefault("email.sendgrid.api_key", "")
	v.SetDefault("email.sendgrid.host", "")

	v.SetDefault("uploads.dir", "./uploads")
	v.SetDefault("uploads.url_prefix", "/uploads")
	v.SetDefault("uploads.unique_names", false)
	v.SetDefault("uploads.sniff_content", false)
	v.SetDefault("uploads.image_limit", 5<<20)
	v.SetDefault("uploads.pdf_limit", 20<<20)

	for _, key := range []string{
		"teacher_name", "title", "department", "university",
		"university_full", "bio", "detailed_bio",
	} {
		v.SetDefault("content.profile."+key, "")
	}
	v.SetDefault("content.profile.specializations", []string{})
	for _, key := range []string{"github", "linkedin", "researchgate", "email", "phone"} {
		v.SetDefault("content.social."+key, "")
	}

	v.SetDefault("maintenance.enabled", true)
	v.SetDefault("maintenance.token_cleanup_schedule", "@hourly")
	v.SetDefault("maintenance.session_cleanup_schedule", "@hourly")

	v.SetDefault("rate_limit.requests", 10)
	v.SetDefault("rate_limit.window", "15m")
	v.SetDefault("rate_limit.store", "memory")

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}
