package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultDomainPrice is the fixed marketplace price for a domain purchase, in
// base currency units.
const DefaultDomainPrice uint64 = 1_000_000_000

// RegistrationTerm is the fixed lifetime of a domain binding. There is no
// renewal operation; expiry is always assignment time plus this term.
const RegistrationTerm = 365 * 24 * time.Hour

// DomainCacheTTL bounds how long a read-through cached domain record may be
// served before going back to the store.
var DomainCacheTTL = 5 * time.Minute

// EnvDevelopment is the only environment in which the fallback admin
// principal and signing key below are acceptable.
const EnvDevelopment = "development"

const (
	devAdminPrincipal = "dev-admin"
	devJWTSigningKey  = "dev-secret-key-change-in-production"
)

// Server captures process level configuration.
type Server struct {
	Environment    string
	Addr           string
	AdminPrincipal string
	DomainPrice    uint64
	JWTSigningKey  string
	PostgresDSN    string
	EventBuffer    int
	Redis          RedisConfig
}

// RedisConfig holds connection settings for the optional domain read cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays
// lean. A local .env file is honored when present.
func FromEnv() Server {
	_ = godotenv.Load()

	addr := os.Getenv("NAMEMARKET_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	environment := os.Getenv("NAMEMARKET_ENV")
	if environment == "" {
		environment = EnvDevelopment
	}

	admin := os.Getenv("NAMEMARKET_ADMIN_PRINCIPAL")
	if admin == "" {
		// Development fallback; Validate rejects it everywhere else.
		admin = devAdminPrincipal
	}

	price := DefaultDomainPrice
	if raw := os.Getenv("NAMEMARKET_DOMAIN_PRICE"); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil && parsed > 0 {
			price = parsed
		}
	}

	jwtSigningKey := os.Getenv("NAMEMARKET_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development fallback; Validate rejects it everywhere else.
		jwtSigningKey = devJWTSigningKey
	}

	eventBuffer := 0
	if raw := os.Getenv("NAMEMARKET_EVENT_BUFFER"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			eventBuffer = parsed
		}
	}

	return Server{
		Environment:    environment,
		Addr:           addr,
		AdminPrincipal: admin,
		DomainPrice:    price,
		JWTSigningKey:  jwtSigningKey,
		PostgresDSN:    os.Getenv("NAMEMARKET_POSTGRES_DSN"),
		EventBuffer:    eventBuffer,
		Redis:          redisFromEnv(),
	}
}

// Validate fails fast on development fallbacks outside development. A
// deployment with a guessable signing key or admin principal must refuse to
// start rather than serve.
func (s Server) Validate() error {
	if s.Environment == EnvDevelopment {
		return nil
	}
	if s.AdminPrincipal == devAdminPrincipal {
		return errors.New("NAMEMARKET_ADMIN_PRINCIPAL must be set outside development")
	}
	if s.JWTSigningKey == devJWTSigningKey {
		return errors.New("NAMEMARKET_JWT_SIGNING_KEY must be set outside development")
	}
	return nil
}

func redisFromEnv() RedisConfig {
	cfg := RedisConfig{
		URL:          os.Getenv("NAMEMARKET_REDIS_URL"),
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
	if raw := os.Getenv("NAMEMARKET_REDIS_POOL_SIZE"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			cfg.PoolSize = parsed
		}
	}
	return cfg
}
