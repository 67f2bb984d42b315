package analytics

import (
	"context"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

var (
	KeyStatus   = tag.MustNewKey("status")
	KeyWorkflow = tag.MustNewKey("workflow")

	NotificationCount = stats.Int64("wfnotify/notifications", "Number of notification dispatch attempts", stats.UnitDimensionless)

	NotificationCountView = &view.View{
		Name:        "wfnotify/notifications_count",
		Description: "Notification dispatch attempts by outcome",
		Measure:     NotificationCount,
		Aggregation: view.Count(),
		TagKeys:     []tag.Key{KeyStatus, KeyWorkflow},
	}
)

const STATUS_SENT string = "sent"

type StatsDataCollector struct{}

func NewStatsDataCollector() (*StatsDataCollector, error) {
	if err := view.Register(NotificationCountView); err != nil {
		return nil, err
	}
	return &StatsDataCollector{}, nil
}

func (sc *StatsDataCollector) RecordNotificationSent(rec NotificationRecord) {
	sc.record(rec, STATUS_SENT)
}

func (sc *StatsDataCollector) RecordNotificationFailure(rec NotificationRecord, status string, _ string) {
	sc.record(rec, status)
}

func (sc *StatsDataCollector) record(rec NotificationRecord, status string) {
	_ = stats.RecordWithTags(context.Background(),
		[]tag.Mutator{tag.Upsert(KeyStatus, status), tag.Upsert(KeyWorkflow, rec.Workflow)},
		NotificationCount.M(1))
}
