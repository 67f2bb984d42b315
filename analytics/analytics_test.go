package analytics

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opencensus.io/stats/view"
)

func TestLogFileDataCollector(t *testing.T) {
	file := filepath.Join(t.TempDir(), "notifications.log")
	c, err := NewLogFileDataCollector(file)
	require.NoError(t, err)

	rec := NotificationRecord{Id: "n-1", Workflow: "sample", Action: "approve-email", Item: "home", To: []string{"a@x.com"}}
	c.RecordNotificationSent(rec)
	c.RecordNotificationFailure(rec, "failed", "relay unreachable")
	_ = c.Sync()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &entry))
	require.Equal(t, "failure", entry["msg"])
	require.Equal(t, "relay unreachable", entry["reason"])
	require.Equal(t, "n-1", entry["id"])
}

func TestStatsDataCollector(t *testing.T) {
	c, err := NewStatsDataCollector()
	require.NoError(t, err)
	defer view.Unregister(NotificationCountView)

	rec := NotificationRecord{Workflow: "stats-test"}
	c.RecordNotificationSent(rec)
	c.RecordNotificationSent(rec)
	c.RecordNotificationFailure(rec, "invalid", "missing To")

	rows, err := view.RetrieveData(NotificationCountView.Name)
	require.NoError(t, err)
	counts := map[string]int64{}
	for _, row := range rows {
		for _, tg := range row.Tags {
			if tg.Key == KeyStatus {
				counts[tg.Value] += row.Data.(*view.CountData).Value
			}
		}
	}
	require.Equal(t, int64(2), counts[STATUS_SENT])
	require.Equal(t, int64(1), counts["invalid"])
}

type recordingCollector struct {
	sent, failed int
}

func (r *recordingCollector) RecordNotificationSent(NotificationRecord) { r.sent++ }
func (r *recordingCollector) RecordNotificationFailure(NotificationRecord, string, string) {
	r.failed++
}

func TestMultiDataCollector(t *testing.T) {
	a, b := &recordingCollector{}, &recordingCollector{}
	SetDataCollector(MultiDataCollector{a, b})
	defer SetDataCollector(noopCollector{})

	RecordNotificationSent(NotificationRecord{})
	RecordNotificationFailure(NotificationRecord{}, "failed", "x")

	require.Equal(t, 1, a.sent)
	require.Equal(t, 1, b.failed)
}
