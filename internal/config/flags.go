package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/tikbook/internal/flagx"
)

var knownFlags = []string{
	"-slots", "-data", "-redis", "-profiles", "-d", "-s",
	"-admin", "-admin-password", "-unique", "-latency",
	"-evidence", "-evidence-dir", "-evidence-key", "-amqp",
	"-retention", "-log-level", "-log-format",
}

// parseFlags overlays cfg with the command-line flags it recognizes in
// args. Other flags are filtered out with flagx.FilterArgs so -c and
// friends do not trip the parser.
//
//	-slots string          slot backend: sqlite, memory or redis
//	-data string           SQLite DSN for the slot store
//	-redis string          Redis address
//	-profiles string       profile backend: collection or postgres
//	-d string              PostgreSQL DSN
//	-s string              session signing secret
//	-admin string          seeded admin identifier
//	-admin-password string seeded admin password
//	-unique bool           reject signups reusing an email or username
//	-latency duration      simulated latency on full user listings
//	-evidence string       evidence backend: file or s3
//	-evidence-dir string   directory for the file evidence backend
//	-evidence-key string   hex AES key sealing evidence at rest
//	-amqp string           AMQP URL for notification events
//	-retention duration    activity retention, 0 disables pruning
func parseFlags(cfg *Config, args []string) error {
	filtered := flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("tikbook", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.SlotBackend, "slots", cfg.SlotBackend, "slot backend")
	fs.StringVar(&cfg.DataDSN, "data", cfg.DataDSN, "SQLite DSN")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address")
	fs.StringVar(&cfg.ProfileBackend, "profiles", cfg.ProfileBackend, "profile backend")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.SessionSecret, "s", cfg.SessionSecret, "session secret")
	fs.StringVar(&cfg.AdminIdentifier, "admin", cfg.AdminIdentifier, "admin identifier")
	fs.StringVar(&cfg.AdminPassword, "admin-password", cfg.AdminPassword, "admin password")
	fs.BoolVar(&cfg.UniqueIdentities, "unique", cfg.UniqueIdentities, "unique identities")
	fs.DurationVar(&cfg.SimulatedLatency, "latency", cfg.SimulatedLatency, "simulated latency")
	fs.StringVar(&cfg.EvidenceBackend, "evidence", cfg.EvidenceBackend, "evidence backend")
	fs.StringVar(&cfg.EvidenceDir, "evidence-dir", cfg.EvidenceDir, "evidence directory")
	fs.StringVar(&cfg.EvidenceKey, "evidence-key", cfg.EvidenceKey, "evidence sealing key")
	fs.StringVar(&cfg.AMQPURL, "amqp", cfg.AMQPURL, "AMQP URL")
	fs.DurationVar(&cfg.ActivityRetention, "retention", cfg.ActivityRetention, "activity retention")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format")

	return fs.Parse(filtered)
}
