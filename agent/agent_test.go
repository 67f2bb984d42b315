package agent

import (
	"testing"

	"github.com/mohitkumar/wfnotify/config"
	"github.com/stretchr/testify/require"
)

func TestAgentLifecycle(t *testing.T) {
	a, err := New(config.Config{
		StorageType:    config.STORAGE_TYPE_INMEM,
		HttpPort:       0,
		NotifyCapacity: 4,
	})
	require.NoError(t, err)

	require.NoError(t, a.Shutdown())
	require.NoError(t, a.Shutdown())

	select {
	case <-a.Done():
	default:
		t.Fatal("done channel not closed")
	}
}

func TestAgentRejectsUnknownStorage(t *testing.T) {
	_, err := New(config.Config{StorageType: "dynamo", NotifyCapacity: 4})
	require.Error(t, err)
}
