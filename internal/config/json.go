package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/tikbook/internal/flagx"
	"github.com/dmitrijs2005/tikbook/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent
// fields leave the current value untouched.
type JsonConfig struct {
	SlotBackend   *string `json:"slot_backend"`
	DataDSN       *string `json:"data_dsn"`
	RedisAddr     *string `json:"redis_addr"`
	RedisPassword *string `json:"redis_password"`
	RedisDB       *int    `json:"redis_db"`

	ProfileBackend   *string         `json:"profile_backend"`
	DatabaseDSN      *string         `json:"database_dsn"`
	UniqueIdentities *bool           `json:"unique_identities"`
	SimulatedLatency *timex.Duration `json:"simulated_latency"`

	SessionSecret   *string         `json:"session_secret"`
	SessionTTL      *timex.Duration `json:"session_ttl"`
	AdminIdentifier *string         `json:"admin_identifier"`
	AdminPassword   *string         `json:"admin_password"`

	EvidenceBackend *string `json:"evidence_backend"`
	EvidenceDir     *string `json:"evidence_dir"`
	EvidenceKey     *string `json:"evidence_key"`
	S3AccessKey     *string `json:"s3_access_key"`
	S3SecretKey     *string `json:"s3_secret_key"`
	S3Bucket        *string `json:"s3_bucket"`
	S3Region        *string `json:"s3_region"`
	S3BaseEndpoint  *string `json:"s3_base_endpoint"`

	AMQPURL   *string `json:"amqp_url"`
	AMQPQueue *string `json:"amqp_queue"`

	ActivityRetention *timex.Duration `json:"activity_retention"`
	RetentionSchedule *string         `json:"retention_schedule"`

	LogLevel  *string `json:"log_level"`
	LogFormat *string `json:"log_format"`
}

// parseJson overlays cfg with the file named by -c or -config in args.
// Without either flag nothing is loaded.
func parseJson(cfg *Config, args []string) error {
	path := flagx.JsonConfigFlags(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file [%s]: %w", path, err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("failed to parse config file [%s]: %w", path, err)
	}
	jc.apply(cfg)
	return nil
}

func (jc *JsonConfig) apply(cfg *Config) {
	setIf(&cfg.SlotBackend, jc.SlotBackend)
	setIf(&cfg.DataDSN, jc.DataDSN)
	setIf(&cfg.RedisAddr, jc.RedisAddr)
	setIf(&cfg.RedisPassword, jc.RedisPassword)
	setIf(&cfg.RedisDB, jc.RedisDB)
	setIf(&cfg.ProfileBackend, jc.ProfileBackend)
	setIf(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setIf(&cfg.UniqueIdentities, jc.UniqueIdentities)
	setDuration(&cfg.SimulatedLatency, jc.SimulatedLatency)
	setIf(&cfg.SessionSecret, jc.SessionSecret)
	setDuration(&cfg.SessionTTL, jc.SessionTTL)
	setIf(&cfg.AdminIdentifier, jc.AdminIdentifier)
	setIf(&cfg.AdminPassword, jc.AdminPassword)
	setIf(&cfg.EvidenceBackend, jc.EvidenceBackend)
	setIf(&cfg.EvidenceDir, jc.EvidenceDir)
	setIf(&cfg.EvidenceKey, jc.EvidenceKey)
	setIf(&cfg.S3AccessKey, jc.S3AccessKey)
	setIf(&cfg.S3SecretKey, jc.S3SecretKey)
	setIf(&cfg.S3Bucket, jc.S3Bucket)
	setIf(&cfg.S3Region, jc.S3Region)
	setIf(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setIf(&cfg.AMQPURL, jc.AMQPURL)
	setIf(&cfg.AMQPQueue, jc.AMQPQueue)
	setDuration(&cfg.ActivityRetention, jc.ActivityRetention)
	setIf(&cfg.RetentionSchedule, jc.RetentionSchedule)
	setIf(&cfg.LogLevel, jc.LogLevel)
	setIf(&cfg.LogFormat, jc.LogFormat)
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
