package site

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithinRestoresOnError(t *testing.T) {
	sc := NewContext("shell")
	var seen string
	err := sc.Within("website", func() error {
		seen = sc.Active()
		return errors.New("link service down")
	})
	require.Error(t, err)
	require.Equal(t, "website", seen)
	require.Equal(t, "shell", sc.Active())
}

func TestWithinRestoresOnPanic(t *testing.T) {
	sc := NewContext("shell")
	require.Panics(t, func() {
		_ = sc.Within("website", func() error {
			panic("boom")
		})
	})
	require.Equal(t, "shell", sc.Active())
}

func TestWithinSerialisesSwitches(t *testing.T) {
	sc := NewContext("")
	require.Equal(t, DEFAULT_SITE, sc.Active())

	var wg sync.WaitGroup
	mismatches := make(chan string, 100)
	for i := 0; i < 50; i++ {
		name := "website"
		if i%2 == 0 {
			name = "intranet"
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = sc.Within(name, func() error {
				if got := sc.Active(); got != name {
					mismatches <- got
				}
				return nil
			})
		}()
	}
	wg.Wait()
	close(mismatches)
	require.Empty(t, mismatches)
	require.Equal(t, DEFAULT_SITE, sc.Active())
}
