package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the top-level application configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Docstore   DocstoreConfig   `koanf:"docstore"`
	Log        LogConfig        `koanf:"log"`
	Auth       AuthConfig       `koanf:"auth"`
	Pagination PaginationConfig `koanf:"pagination"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string     `koanf:"host"`
	Port    int        `koanf:"port"`
	Mode    string     `koanf:"mode"`
	Timeout string     `koanf:"timeout"`
	CORS    CORSConfig `koanf:"cors"`
}

// CORSConfig holds CORS middleware settings.
type CORSConfig struct {
	AllowOrigins     []string `koanf:"allow_origins"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           string   `koanf:"max_age"`
}

// DatabaseConfig holds the SQL connection used by the "sql" document store.
type DatabaseConfig struct {
	Driver   string         `koanf:"driver"`
	SQLite   SQLiteConfig   `koanf:"sqlite"`
	Postgres PostgresConfig `koanf:"postgres"`
	Pool     PoolConfig     `koanf:"pool"`
}

// SQLiteConfig holds SQLite-specific settings.
type SQLiteConfig struct {
	Path string `koanf:"path"`
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	DBName   string `koanf:"dbname"`
	SSLMode  string `koanf:"sslmode"`
}

// PoolConfig holds database connection pool settings.
type PoolConfig struct {
	MaxIdleConns    int    `koanf:"max_idle_conns"`
	MaxOpenConns    int    `koanf:"max_open_conns"`
	ConnMaxLifetime string `koanf:"conn_max_lifetime"`
}

// DocstoreConfig selects the document store backend.
type DocstoreConfig struct {
	// Driver is "sql" (documents in the database section's engine) or
	// "firestore".
	Driver    string          `koanf:"driver"`
	Firestore FirestoreConfig `koanf:"firestore"`
}

// FirestoreConfig holds Cloud Firestore settings.
type FirestoreConfig struct {
	ProjectID       string `koanf:"project_id"`
	CredentialsFile string `koanf:"credentials_file"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level           string `koanf:"level"`
	Format          string `koanf:"format"`
	Color           *bool  `koanf:"color"`
	FilePath        string `koanf:"file_path"`
	MaxSizeMB       int    `koanf:"max_size_mb"`
	RetentionDays   int    `koanf:"retention_days"`
	MaxBackups      int    `koanf:"max_backups"`
	CompressRotated *bool  `koanf:"compress_rotated"`
}

// AuthConfig holds session token and sign-in provider settings.
type AuthConfig struct {
	JWTSecret   string       `koanf:"jwt_secret"`
	TokenExpiry string       `koanf:"token_expiry"`
	Issuer      string       `koanf:"issuer"`
	BcryptCost  int          `koanf:"bcrypt_cost"`
	Google      GoogleConfig `koanf:"google"`
}

// GoogleConfig holds the OAuth client used for Google sign-in.
type GoogleConfig struct {
	Enabled      bool   `koanf:"enabled"`
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
	RedirectURL  string `koanf:"redirect_url"`
}

// PaginationConfig holds list sizing used by the admin console stores.
type PaginationConfig struct {
	PageSize int `koanf:"page_size"`
}

// TokenTTL returns the parsed token expiry. It is only meaningful after
// Validate has succeeded.
func (a AuthConfig) TokenTTL() time.Duration {
	d, _ := time.ParseDuration(a.TokenExpiry)
	return d
}

// Load reads configuration from a YAML file and overlays environment variables.
// Environment variables use the prefix "APP__" and double-underscore as the
// hierarchy separator. Single underscores are preserved as part of the key name.
// For example, APP__SERVER__PORT=9090 overrides server.port and
// APP__AUTH__GOOGLE__CLIENT_ID=x overrides auth.google.client_id.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}

	if err := k.Load(env.Provider("APP__", ".", func(s string) string {
		key := strings.TrimPrefix(s, "APP__")
		key = strings.ToLower(key)
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cross-field constraints and supported values, normalising
// fields in place.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDocstore(); err != nil {
		return err
	}
	if err := c.validateAuth(); err != nil {
		return err
	}

	switch {
	case c.Pagination.PageSize == 0:
		c.Pagination.PageSize = 20
	case c.Pagination.PageSize < 1 || c.Pagination.PageSize > 100:
		return fmt.Errorf("invalid pagination.page_size %d: must be between 1 and 100", c.Pagination.PageSize)
	}

	level := strings.ToLower(strings.TrimSpace(c.Log.Level))
	switch level {
	case "debug", "info", "warn", "error":
		c.Log.Level = level
	case "warning":
		c.Log.Level = "warn"
	default:
		return fmt.Errorf("invalid log.level %q: must be one of %q, %q, %q, %q", c.Log.Level, "debug", "info", "warn", "error")
	}

	format := strings.ToLower(strings.TrimSpace(c.Log.Format))
	switch format {
	case "text", "json":
		c.Log.Format = format
	default:
		return fmt.Errorf("invalid log.format %q: must be one of %q, %q", c.Log.Format, "text", "json")
	}

	return nil
}

func (c *Config) validateServer() error {
	mode := strings.TrimSpace(c.Server.Mode)
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		c.Server.Mode = mode
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", c.Server.Mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", c.Server.Port)
	}

	host := strings.TrimSpace(c.Server.Host)
	if host == "" {
		return fmt.Errorf("server.host is required")
	}
	c.Server.Host = host

	if err := optionalDuration("server.timeout", &c.Server.Timeout); err != nil {
		return err
	}
	if err := optionalDuration("server.cors.max_age", &c.Server.CORS.MaxAge); err != nil {
		return err
	}

	origins := c.Server.CORS.AllowOrigins[:0]
	for _, o := range c.Server.CORS.AllowOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.Server.CORS.AllowOrigins = origins
	if c.Server.Mode == gin.ReleaseMode && c.Server.CORS.AllowCredentials {
		for _, o := range origins {
			if o == "*" {
				return fmt.Errorf("server.cors.allow_origins must list explicit origins when allow_credentials is set in release mode")
			}
		}
	}
	return nil
}

func (c *Config) validateDocstore() error {
	driver := strings.ToLower(strings.TrimSpace(c.Docstore.Driver))
	if driver == "" {
		driver = "sql"
	}
	c.Docstore.Driver = driver

	switch driver {
	case "sql":
		return c.validateDatabase()
	case "firestore":
		project := strings.TrimSpace(c.Docstore.Firestore.ProjectID)
		if project == "" {
			return fmt.Errorf("docstore.firestore.project_id is required when docstore.driver is firestore")
		}
		c.Docstore.Firestore.ProjectID = project
		c.Docstore.Firestore.CredentialsFile = strings.TrimSpace(c.Docstore.Firestore.CredentialsFile)
		return nil
	default:
		return fmt.Errorf("invalid docstore.driver %q: must be one of %q, %q", c.Docstore.Driver, "sql", "firestore")
	}
}

func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case "sqlite":
		path := strings.TrimSpace(c.Database.SQLite.Path)
		if path == "" {
			return fmt.Errorf("database.sqlite.path is required when driver is sqlite")
		}
		c.Database.SQLite.Path = path
	case "postgres":
		pg := &c.Database.Postgres
		pg.Host = strings.TrimSpace(pg.Host)
		pg.User = strings.TrimSpace(pg.User)
		pg.DBName = strings.TrimSpace(pg.DBName)
		pg.SSLMode = strings.TrimSpace(pg.SSLMode)

		if pg.Host == "" {
			return fmt.Errorf("database.postgres.host is required when driver is postgres")
		}
		if pg.Port < 1 || pg.Port > 65535 {
			return fmt.Errorf("invalid database.postgres.port %d: must be between 1 and 65535", pg.Port)
		}
		if pg.User == "" {
			return fmt.Errorf("database.postgres.user is required when driver is postgres")
		}
		if pg.DBName == "" {
			return fmt.Errorf("database.postgres.dbname is required when driver is postgres")
		}
		switch pg.SSLMode {
		case "disable", "allow", "prefer", "require", "verify-ca", "verify-full":
		default:
			return fmt.Errorf("invalid database.postgres.sslmode %q: must be one of %q, %q, %q, %q, %q, %q", pg.SSLMode, "disable", "allow", "prefer", "require", "verify-ca", "verify-full")
		}
		if c.Server.Mode == gin.ReleaseMode {
			switch pg.SSLMode {
			case "require", "verify-ca", "verify-full":
			default:
				return fmt.Errorf("invalid database.postgres.sslmode %q for server.mode %q: must be one of %q, %q, %q", pg.SSLMode, gin.ReleaseMode, "require", "verify-ca", "verify-full")
			}
		}
	default:
		return fmt.Errorf("invalid database.driver %q: must be one of %q, %q", c.Database.Driver, "sqlite", "postgres")
	}

	return optionalDuration("database.pool.conn_max_lifetime", &c.Database.Pool.ConnMaxLifetime)
}

func (c *Config) validateAuth() error {
	a := &c.Auth

	a.JWTSecret = strings.TrimSpace(a.JWTSecret)
	if a.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if len(a.JWTSecret) < 32 {
		return fmt.Errorf("invalid auth.jwt_secret: must be at least 32 characters")
	}
	if c.Server.Mode == gin.ReleaseMode && CountSecretClasses(a.JWTSecret) < 3 {
		return fmt.Errorf("auth.jwt_secret must include at least 3 character classes (lowercase, uppercase, digit, symbol) in release mode")
	}

	a.TokenExpiry = strings.TrimSpace(a.TokenExpiry)
	if a.TokenExpiry == "" {
		return fmt.Errorf("auth.token_expiry is required")
	}
	if err := optionalDuration("auth.token_expiry", &a.TokenExpiry); err != nil {
		return err
	}

	a.Issuer = strings.TrimSpace(a.Issuer)
	if a.Issuer == "" {
		a.Issuer = "transitdesk"
	}

	switch {
	case a.BcryptCost == 0:
		a.BcryptCost = 10
	case a.BcryptCost < 4 || a.BcryptCost > 31:
		return fmt.Errorf("invalid auth.bcrypt_cost %d: must be between 4 and 31", a.BcryptCost)
	}

	if a.Google.Enabled {
		g := &a.Google
		g.ClientID = strings.TrimSpace(g.ClientID)
		g.ClientSecret = strings.TrimSpace(g.ClientSecret)
		g.RedirectURL = strings.TrimSpace(g.RedirectURL)
		if g.ClientID == "" {
			return fmt.Errorf("auth.google.client_id is required when google sign-in is enabled")
		}
		if g.RedirectURL != "" {
			u, err := url.Parse(g.RedirectURL)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return fmt.Errorf("invalid auth.google.redirect_url %q: must be an absolute URL", g.RedirectURL)
			}
			if g.ClientSecret == "" {
				return fmt.Errorf("auth.google.client_secret is required when auth.google.redirect_url is set")
			}
		}
	}
	return nil
}

// optionalDuration trims *v and, when non-empty, requires a positive Go
// duration.
func optionalDuration(name string, v *string) error {
	*v = strings.TrimSpace(*v)
	if *v == "" {
		return nil
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", name, *v, err)
	}
	if d <= 0 {
		return fmt.Errorf("invalid %s %q: must be greater than 0", name, *v)
	}
	return nil
}

// CountSecretClasses counts how many character classes (lowercase, uppercase,
// digit, symbol) are present in the given secret string.
func CountSecretClasses(secret string) int {
	var lower, upper, digit, symbol int
	for _, r := range secret {
		switch {
		case unicode.IsLower(r):
			lower = 1
		case unicode.IsUpper(r):
			upper = 1
		case unicode.IsDigit(r):
			digit = 1
		default:
			symbol = 1
		}
	}
	return lower + upper + digit + symbol
}
