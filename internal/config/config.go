package config

import (
	"crypto"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/golang-jwt/jwt/v4"
)

const jwtSigningAlgorithmEd25519 = "EdDSA"

type HTTPCfg struct {
	Port            int           `env:"HTTP_PORT" envDefault:"3000"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	HTTPS           bool          `env:"HTTP_HTTPS" envDefault:"false"`
}

type PostgresCfg struct {
	User        string `env:"POSTGRES_USER"`
	Password    string `env:"POSTGRES_PASSWORD"`
	Host        string `env:"POSTGRES_HOST" envDefault:"pg-rentals"`
	Database    string `env:"POSTGRES_DB"`
	SslMode     string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
	Port        int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PoolMaxConn int    `env:"POSTGRES_POOL_MAX_CONN" envDefault:"100"`
}

type MongoCfg struct {
	User        string `env:"MONGO_USER" envDefault:""`
	Password    string `env:"MONGO_PASSWORD" envDefault:""`
	Host        string `env:"MONGO_HOST" envDefault:"mongo-rentals"`
	Port        int    `env:"MONGO_PORT" envDefault:"27017"`
	Database    string `env:"MONGO_DB" envDefault:"rentals"`
	MaxPoolSize int    `env:"MONGO_MAX_POOL_SIZE" envDefault:"100"`
}

type RedisCfg struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"redis-rentals:6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type AuthCfg struct {
	Required      bool   `env:"AUTH_REQUIRED" envDefault:"true"`
	PublicKeyFile string `env:"AUTH_JWT_PUBLIC_KEY_FILE"`
	SigningMethod jwt.SigningMethod
	PublicKey     crypto.PublicKey
}

type AuditCfg struct {
	Store         string        `env:"AUDIT_STORE" envDefault:"mongo"`
	BatchSize     int           `env:"AUDIT_BATCH_SIZE" envDefault:"100"`
	FlushInterval time.Duration `env:"AUDIT_FLUSH_INTERVAL" envDefault:"5s"`
}

type RetentionCfg struct {
	Enabled  bool   `env:"RETENTION_ENABLED" envDefault:"true"`
	Schedule string `env:"RETENTION_SCHEDULE" envDefault:"0 2 * * *"`
}

type LogCfg struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type Config struct {
	HTTPCfg      HTTPCfg
	PostgresCfg  PostgresCfg
	MongoCfg     MongoCfg
	RedisCfg     RedisCfg
	AuthCfg      AuthCfg
	AuditCfg     AuditCfg
	RetentionCfg RetentionCfg
	LogCfg       LogCfg
}

const (
	AuditStoreMongo    = "mongo"
	AuditStorePostgres = "postgres"
)

func Build() (Config, error) {
	var cfg Config
	opts := env.Options{RequiredIfNoDef: true}

	if err := env.Parse(&cfg, opts); err != nil {
		return cfg, fmt.Errorf("failed to parse environment variables - %w", err)
	}

	if cfg.AuditCfg.Store != AuditStoreMongo && cfg.AuditCfg.Store != AuditStorePostgres {
		return cfg, fmt.Errorf("unknown audit store %q, expected %s or %s", cfg.AuditCfg.Store, AuditStoreMongo, AuditStorePostgres)
	}

	cfg.AuthCfg.SigningMethod = jwt.GetSigningMethod(jwtSigningAlgorithmEd25519)

	jwtPublicKeyBytes, err := os.ReadFile(cfg.AuthCfg.PublicKeyFile)
	if err != nil {
		return cfg, fmt.Errorf("failed to read public key file for jwt - %w", err)
	}

	jwtPublicKey, err := jwt.ParseEdPublicKeyFromPEM(jwtPublicKeyBytes)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse public key for jwt - %w", err)
	}
	cfg.AuthCfg.PublicKey = jwtPublicKey

	return cfg, nil
}
