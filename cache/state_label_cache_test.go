package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStateLabelCache(t *testing.T) {
	ch := NewStateLabelCache(time.Minute)
	_, found := ch.GetLabel("draft")
	require.False(t, found)

	ch.SaveLabel("draft", "Draft")
	ch.SaveLabel("gone", "")

	label, found := ch.GetLabel("draft")
	require.True(t, found)
	require.Equal(t, "Draft", label)

	label, found = ch.GetLabel("gone")
	require.True(t, found)
	require.Empty(t, label)

	ch.Invalidate()
	_, found = ch.GetLabel("draft")
	require.False(t, found)
}
