package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	MinIO     MinIOConfig
	Compilers CompilersConfig
	AI        AIConfig
	JWT       JWTConfig
	OIDC      OIDCConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type MinIOConfig struct {
	Endpoint       string
	AccessKey      string
	SecretKey      string
	UseSSL         bool
	TemplateBucket string
	ArchiveBucket  string
}

// CompilerEndpoint describes one external LaTeX compilation service.
// Kind selects the wire format: "json" posts a build-request document,
// "form" posts url-encoded filename/filecontents fields.
type CompilerEndpoint struct {
	Name    string
	Kind    string
	URL     string
	Timeout time.Duration
}

type CompilersConfig struct {
	Endpoints []CompilerEndpoint
}

type AIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

type JWTConfig struct {
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type OIDCConfig struct {
	IssuerURL string
	ClientID  string
}

type RateLimitConfig struct {
	Enabled       bool
	UseRedis      bool
	RPS           float64
	Burst         int
	WindowSeconds int
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "5002")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("MONGODB_DATABASE", "mathplanner")
	viper.SetDefault("MINIO_TEMPLATE_BUCKET", "latex-templates")
	viper.SetDefault("MINIO_ARCHIVE_BUCKET", "generated-pdfs")
	viper.SetDefault("COMPILER_TIMEOUT", 20)
	viper.SetDefault("AI_MODEL", "deepseek-chat")
	viper.SetDefault("AI_TIMEOUT", 30)
	viper.SetDefault("JWT_ACCESS_TOKEN_TTL", 15)
	viper.SetDefault("JWT_REFRESH_TOKEN_TTL", 10080)
	viper.SetDefault("RATE_LIMIT_ENABLED", false)
	viper.SetDefault("RATE_LIMIT_RPS", 5.0)
	viper.SetDefault("RATE_LIMIT_BURST", 10)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:      viper.GetString("MONGODB_URI"),
			Database: viper.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       0,
		},
		MinIO: MinIOConfig{
			Endpoint:       viper.GetString("MINIO_ENDPOINT"),
			AccessKey:      viper.GetString("MINIO_ACCESS_KEY"),
			SecretKey:      viper.GetString("MINIO_SECRET_KEY"),
			UseSSL:         viper.GetString("MINIO_USE_SSL") == "true",
			TemplateBucket: viper.GetString("MINIO_TEMPLATE_BUCKET"),
			ArchiveBucket:  viper.GetString("MINIO_ARCHIVE_BUCKET"),
		},
		Compilers: CompilersConfig{
			Endpoints: parseCompilerEndpoints(
				viper.GetString("COMPILER_ENDPOINTS"),
				time.Duration(viper.GetInt("COMPILER_TIMEOUT"))*time.Second,
			),
		},
		AI: AIConfig{
			BaseURL: viper.GetString("AI_BASE_URL"),
			APIKey:  viper.GetString("AI_API_KEY"),
			Model:   viper.GetString("AI_MODEL"),
			Timeout: time.Duration(viper.GetInt("AI_TIMEOUT")) * time.Second,
		},
		JWT: JWTConfig{
			Secret:          viper.GetString("JWT_SECRET"),
			AccessTokenTTL:  time.Duration(viper.GetInt("JWT_ACCESS_TOKEN_TTL")) * time.Minute,
			RefreshTokenTTL: time.Duration(viper.GetInt("JWT_REFRESH_TOKEN_TTL")) * time.Minute,
		},
		OIDC: OIDCConfig{
			IssuerURL: viper.GetString("OIDC_ISSUER_URL"),
			ClientID:  viper.GetString("OIDC_CLIENT_ID"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
	}

	if cfg.JWT.Secret == "" && cfg.Server.Environment != "development" {
		return nil, fmt.Errorf("JWT_SECRET is required outside development")
	}

	return cfg, nil
}

// parseCompilerEndpoints parses COMPILER_ENDPOINTS, a comma-separated list of
// name=kind=url entries, e.g.
//
//	ytotech=json=https://latex.api.ytotech.com/builds/sync,texlive=form=https://texlive.net/cgi-bin/latexcgi
//
// Entries with an unrecognized kind are skipped. All endpoints share the
// COMPILER_TIMEOUT deadline.
func parseCompilerEndpoints(raw string, timeout time.Duration) []CompilerEndpoint {
	var out []CompilerEndpoint
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 3)
		if len(parts) != 3 {
			continue
		}
		kind := strings.ToLower(parts[1])
		if kind != "json" && kind != "form" {
			continue
		}
		out = append(out, CompilerEndpoint{
			Name:    parts[0],
			Kind:    kind,
			URL:     parts[2],
			Timeout: timeout,
		})
	}
	return out
}
