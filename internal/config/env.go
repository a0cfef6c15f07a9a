package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "TIKBOOK_"

// parseEnv loads dotenv (when present) without overriding variables already
// set in the process, then overlays cfg with TIKBOOK_* variables.
func parseEnv(cfg *Config, dotenv string) error {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load env file [%s]: %w", dotenv, err)
		}
	}

	var errs []error
	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			*dst = v
		}
	}
	num := func(name string, dst *int) {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, name, err))
				return
			}
			*dst = n
		}
	}
	boolean := func(name string, dst *bool) {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, name, err))
				return
			}
			*dst = b
		}
	}
	dur := func(name string, dst *time.Duration) {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, name, err))
				return
			}
			*dst = d
		}
	}

	str("SLOT_BACKEND", &cfg.SlotBackend)
	str("DATA_DSN", &cfg.DataDSN)
	str("REDIS_ADDR", &cfg.RedisAddr)
	str("REDIS_PASSWORD", &cfg.RedisPassword)
	num("REDIS_DB", &cfg.RedisDB)
	str("PROFILE_BACKEND", &cfg.ProfileBackend)
	str("DATABASE_DSN", &cfg.DatabaseDSN)
	boolean("UNIQUE_IDENTITIES", &cfg.UniqueIdentities)
	dur("SIMULATED_LATENCY", &cfg.SimulatedLatency)
	str("SESSION_SECRET", &cfg.SessionSecret)
	dur("SESSION_TTL", &cfg.SessionTTL)
	str("ADMIN_IDENTIFIER", &cfg.AdminIdentifier)
	str("ADMIN_PASSWORD", &cfg.AdminPassword)
	str("EVIDENCE_BACKEND", &cfg.EvidenceBackend)
	str("EVIDENCE_DIR", &cfg.EvidenceDir)
	str("EVIDENCE_KEY", &cfg.EvidenceKey)
	str("S3_ACCESS_KEY", &cfg.S3AccessKey)
	str("S3_SECRET_KEY", &cfg.S3SecretKey)
	str("S3_BUCKET", &cfg.S3Bucket)
	str("S3_REGION", &cfg.S3Region)
	str("S3_BASE_ENDPOINT", &cfg.S3BaseEndpoint)
	str("AMQP_URL", &cfg.AMQPURL)
	str("AMQP_QUEUE", &cfg.AMQPQueue)
	dur("ACTIVITY_RETENTION", &cfg.ActivityRetention)
	str("RETENTION_SCHEDULE", &cfg.RetentionSchedule)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FORMAT", &cfg.LogFormat)

	return errors.Join(errs...)
}
