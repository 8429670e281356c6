package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Identity provider names.
const (
	ProviderJWT     = "jwt"
	ProviderSession = "session"
)

// Config holds all service configuration. It is built once by Load and
// passed by value; nothing mutates it afterwards.
type Config struct {
	Port        string
	PostgresDSN string
	AutoMigrate bool

	MongoURI string
	MongoDB  string

	RedisAddr     string
	RedisPassword string

	IdentityProvider string
	JWTSecret        string

	MinioEndpoint      string
	MinioRegion        string
	MinioUseSSL        bool
	MinioBucket        string
	MinioAccessKey     string
	MinioSecretKey     string
	MinioAnonAccessKey string
	MinioAnonSecretKey string

	// AllowedOrigin, when set, is the only cross-origin caller admitted.
	AllowedOrigin string

	LogLevel  string
	LogFormat string
}

// HasAnonStorageKey reports whether the low-privilege storage credential is set.
func (c Config) HasAnonStorageKey() bool {
	return c.MinioAnonAccessKey != "" && c.MinioAnonSecretKey != ""
}

// HasServiceStorageKey reports whether the elevated storage credential is set.
func (c Config) HasServiceStorageKey() bool {
	return c.MinioAccessKey != "" && c.MinioSecretKey != ""
}

// Load reads configuration from the environment and, when path is not
// empty, from that YAML file. Environment variables win over the file.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		Port:               v.GetString("port"),
		PostgresDSN:        v.GetString("postgres_dsn"),
		AutoMigrate:        v.GetBool("auto_migrate"),
		MongoURI:           v.GetString("mongo_uri"),
		MongoDB:            v.GetString("mongo_db"),
		RedisAddr:          v.GetString("redis_addr"),
		RedisPassword:      v.GetString("redis_password"),
		IdentityProvider:   strings.ToLower(strings.TrimSpace(v.GetString("identity_provider"))),
		JWTSecret:          v.GetString("jwt_secret"),
		MinioEndpoint:      v.GetString("minio_endpoint"),
		MinioRegion:        v.GetString("minio_region"),
		MinioUseSSL:        v.GetBool("minio_use_ssl"),
		MinioBucket:        v.GetString("minio_bucket"),
		MinioAccessKey:     v.GetString("minio_access_key"),
		MinioSecretKey:     v.GetString("minio_secret_key"),
		MinioAnonAccessKey: v.GetString("minio_anon_access_key"),
		MinioAnonSecretKey: v.GetString("minio_anon_secret_key"),
		AllowedOrigin:      strings.TrimSpace(v.GetString("allowed_origin")),
		LogLevel:           v.GetString("log_level"),
		LogFormat:          v.GetString("log_format"),
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("postgres_dsn", "")
	v.SetDefault("auto_migrate", false)
	v.SetDefault("mongo_uri", "")
	v.SetDefault("mongo_db", "item_catalog")
	v.SetDefault("redis_addr", "redis:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("identity_provider", ProviderJWT)
	v.SetDefault("jwt_secret", "")
	v.SetDefault("minio_endpoint", "minio:9000")
	v.SetDefault("minio_region", "us-east-1")
	v.SetDefault("minio_use_ssl", false)
	v.SetDefault("minio_bucket", "item-images")
	v.SetDefault("minio_access_key", "")
	v.SetDefault("minio_secret_key", "")
	v.SetDefault("minio_anon_access_key", "")
	v.SetDefault("minio_anon_secret_key", "")
	v.SetDefault("allowed_origin", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
}

func (c Config) validate() error {
	var errs []error
	if c.PostgresDSN == "" {
		errs = append(errs, errors.New("postgres_dsn is required"))
	}
	switch c.IdentityProvider {
	case ProviderJWT:
		if c.JWTSecret == "" {
			errs = append(errs, errors.New("jwt_secret is required for the jwt identity provider"))
		}
	case ProviderSession:
	default:
		errs = append(errs, fmt.Errorf("unknown identity_provider %q", c.IdentityProvider))
	}
	return errors.Join(errs...)
}
