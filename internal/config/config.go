package config

import "time"

type Config struct {
	Service  *ServiceConfig
	Logger   *LoggerConfig
	Tracer   *TracerConfig
	Presence *PresenceConfig
	Archive  *ArchiveConfig
	Redis    *RedisConfig
	Postgres *PostgresConfig
	Badger   *BadgerConfig
}

type ServiceConfig struct {
	Name string
	Env  string
	Addr string
}

type LoggerConfig struct {
	Level  string
	Format string
}

type TracerConfig struct {
	Address string
}

type PresenceConfig struct {
	Interval time.Duration
}

// ArchiveConfig selects the durable write-through backend. An empty Backend
// disables archiving entirely; the in-memory path is always authoritative.
type ArchiveConfig struct {
	Backend string // "", "postgres" or "badger"
	Group   string
}

type RedisConfig struct {
	URL          string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
	PingTimeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

type BadgerConfig struct {
	Dir string
}
