package redis

import "github.com/mohitkumar/wfnotify/persistence"

var _ persistence.Storage = new(Storage)

// Storage bundles the redis backed stores behind one client.
type Storage struct {
	*redisMetadataStorage
	*redisItemStorage
	*redisEventLog
	base *baseDao
}

func NewRedisStorage(conf Config) *Storage {
	base := newBaseDao(conf)
	return &Storage{
		redisMetadataStorage: newRedisMetadataStorage(base),
		redisItemStorage:     newRedisItemStorage(base),
		redisEventLog:        newRedisEventLog(base),
		base:                 base,
	}
}

func (s *Storage) Close() error {
	return s.base.Close()
}
