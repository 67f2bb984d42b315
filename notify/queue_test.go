package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/mohitkumar/wfnotify/fixture"
	"github.com/mohitkumar/wfnotify/model"
	"github.com/stretchr/testify/require"
)

func TestQueueDispatchesInBackground(t *testing.T) {
	d, transport, f := setup(t)
	var wg sync.WaitGroup
	results := make(chan Result, 4)
	q := NewQueue(d, &wg, 4).WithResults(results)
	q.Start()

	ok := q.Enqueue(model.TransitionRequest{
		ItemId: f.Items[0].Id, Language: "en", Version: 1,
		ActionId: fixture.SAMPLE_ACTION, Actor: fixture.SAMPLE_REVIEWER,
	})
	require.True(t, ok)

	select {
	case res := <-results:
		require.Equal(t, StatusSent, res.Status)
	case <-time.After(5 * time.Second):
		t.Fatal("dispatch did not finish")
	}

	require.NoError(t, q.Stop())
	wg.Wait()
	require.Len(t, transport.sent, 1)
}
