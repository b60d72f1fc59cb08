package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration so main stays lean.
type Server struct {
	Addr                string
	DatabaseURL         string
	Redis               RedisConfig
	KafkaBrokers        []string
	KafkaAuditTopic     string
	JWTSigningKey       string
	IdentityProviderURL string
	AuthorizeCacheTTL   time.Duration
}

// RedisConfig configures the optional authorize cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("LEXID_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default; override in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}
	topic := os.Getenv("KAFKA_AUDIT_TOPIC")
	if topic == "" {
		topic = "lexid.audit.entries"
	}

	cacheTTL := 30 * time.Second
	if raw := os.Getenv("AUTHORIZE_CACHE_TTL_SECONDS"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			cacheTTL = time.Duration(secs) * time.Second
		}
	}

	return Server{
		Addr:                addr,
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		Redis:               redisFromEnv(),
		KafkaBrokers:        brokers,
		KafkaAuditTopic:     topic,
		JWTSigningKey:       jwtSigningKey,
		IdentityProviderURL: os.Getenv("IDENTITY_PROVIDER_URL"),
		AuthorizeCacheTTL:   cacheTTL,
	}
}

func redisFromEnv() RedisConfig {
	return RedisConfig{
		URL:          os.Getenv("REDIS_URL"),
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}
