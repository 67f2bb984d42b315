package config

import (
	"fmt"
	"time"

	"github.com/mohitkumar/wfnotify/analytics"
	"github.com/mohitkumar/wfnotify/links"
	"github.com/mohitkumar/wfnotify/notify"
)

type StorageType string

const STORAGE_TYPE_REDIS StorageType = "redis"
const STORAGE_TYPE_INMEM StorageType = "memory"
const STORAGE_TYPE_SQLITE StorageType = "sqlite"

type Config struct {
	RedisConfig     RedisStorageConfig
	SqliteConfig    SqliteStorageConfig
	MailConfig      notify.SMTPConfig
	LinkConfig      LinkConfig
	AnalyticsConfig analytics.DataCollectorConfig
	HttpPort        int
	StorageType     StorageType
	StateCacheTTL   time.Duration
	NotifyCapacity  int
	LogLevel        string
}

type RedisStorageConfig struct {
	Addrs     []string
	Namespace string
	Password  string
	PoolSize  int
}

type SqliteStorageConfig struct {
	Path string
}

type LinkConfig struct {
	PublicSite string
	ShellPath  string
	Sites      []links.SiteDefinition
	// AmbientSite resolves production links by switching the shared active
	// site instead of passing the site explicitly.
	AmbientSite bool
}

func (c Config) Validate() error {
	switch c.StorageType {
	case STORAGE_TYPE_INMEM:
	case STORAGE_TYPE_REDIS:
		if len(c.RedisConfig.Addrs) == 0 || c.RedisConfig.Addrs[0] == "" {
			return fmt.Errorf("redis storage needs at least one address")
		}
	case STORAGE_TYPE_SQLITE:
		if c.SqliteConfig.Path == "" {
			return fmt.Errorf("sqlite storage needs a database path")
		}
	default:
		return fmt.Errorf("unknown storage type %q", c.StorageType)
	}
	if c.HttpPort <= 0 {
		return fmt.Errorf("invalid http port %d", c.HttpPort)
	}
	if c.NotifyCapacity <= 0 {
		return fmt.Errorf("notify capacity must be positive")
	}
	return nil
}
