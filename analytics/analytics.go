package analytics

import "sync"

type DataCollectorConfig struct {
	FileName       string
	CollectorTypes []DataCollectorType
}

type DataCollectorType string

const LOG_FILE_DATA_COLLECTOR DataCollectorType = "log"
const STATS_DATA_COLLECTOR DataCollectorType = "stats"

// NotificationRecord describes one dispatch attempt.
type NotificationRecord struct {
	Id       string
	Workflow string
	Action   string
	Item     string
	To       []string
	Cc       []string
	Subject  string
}

type NotificationDataCollector interface {
	RecordNotificationSent(rec NotificationRecord)
	RecordNotificationFailure(rec NotificationRecord, status string, reason string)
}

type noopCollector struct{}

func (noopCollector) RecordNotificationSent(NotificationRecord)                    {}
func (noopCollector) RecordNotificationFailure(NotificationRecord, string, string) {}

// MultiDataCollector fans every record out to all of its collectors.
type MultiDataCollector []NotificationDataCollector

func (m MultiDataCollector) RecordNotificationSent(rec NotificationRecord) {
	for _, c := range m {
		c.RecordNotificationSent(rec)
	}
}

func (m MultiDataCollector) RecordNotificationFailure(rec NotificationRecord, status string, reason string) {
	for _, c := range m {
		c.RecordNotificationFailure(rec, status, reason)
	}
}

var (
	mu                    sync.RWMutex
	notificationCollector NotificationDataCollector = noopCollector{}
)

func InitDataCollector(config DataCollectorConfig) error {
	var collectors MultiDataCollector
	for _, t := range config.CollectorTypes {
		switch t {
		case LOG_FILE_DATA_COLLECTOR:
			c, err := NewLogFileDataCollector(config.FileName)
			if err != nil {
				return err
			}
			collectors = append(collectors, c)
		case STATS_DATA_COLLECTOR:
			c, err := NewStatsDataCollector()
			if err != nil {
				return err
			}
			collectors = append(collectors, c)
		}
	}
	if len(collectors) > 0 {
		SetDataCollector(collectors)
	}
	return nil
}

func SetDataCollector(c NotificationDataCollector) {
	mu.Lock()
	defer mu.Unlock()
	notificationCollector = c
}

func collector() NotificationDataCollector {
	mu.RLock()
	defer mu.RUnlock()
	return notificationCollector
}

func RecordNotificationSent(rec NotificationRecord) {
	collector().RecordNotificationSent(rec)
}

func RecordNotificationFailure(rec NotificationRecord, status string, reason string) {
	collector().RecordNotificationFailure(rec, status, reason)
}
