package util

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type sample struct {
	Name string `json:"name"`
}

func TestJsonEncDec(t *testing.T) {
	encdec := NewJsonEncoderDecoder[sample]()
	data, err := encdec.Encode(sample{Name: "home"})
	require.NoError(t, err)

	all, err := encdec.DecodeAll([]string{string(data), `{"name":"about"}`})
	require.NoError(t, err)
	require.Equal(t, []sample{{Name: "home"}, {Name: "about"}}, all)

	_, err = encdec.DecodeAll([]string{"{"})
	require.Error(t, err)
}

func TestSplitList(t *testing.T) {
	require.Equal(t, []string{"a", "b", "c"}, SplitList(" a ,b;; c ", ",;"))
	require.Equal(t, []string{"a;b"}, SplitList("a;b"))
	require.Empty(t, SplitList(" ; , ", ",;"))
}

func TestWorkerDrainsOnStop(t *testing.T) {
	var wg sync.WaitGroup
	var mu sync.Mutex
	handled := 0
	w := NewWorker("test", &wg, func(Task) error {
		mu.Lock()
		handled++
		mu.Unlock()
		return nil
	}, 10)

	for i := 0; i < 5; i++ {
		require.True(t, w.Submit(i))
	}
	w.Start()
	w.Stop()
	w.Stop()

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}
	require.Equal(t, 5, handled)
}

func TestWorkerSubmitWhenFull(t *testing.T) {
	var wg sync.WaitGroup
	w := NewWorker("full", &wg, func(Task) error { return nil }, 1)
	require.True(t, w.Submit(1))
	require.False(t, w.Submit(2))
}
