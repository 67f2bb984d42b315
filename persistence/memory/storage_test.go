package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mohitkumar/wfnotify/model"
	"github.com/mohitkumar/wfnotify/persistence"
	"github.com/stretchr/testify/require"
)

func TestStateIndexFollowsWorkflowSaves(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	wf := model.Workflow{Id: "wf", States: []model.WorkflowState{{Id: "draft", DisplayName: "Draft"}, {Id: "review", DisplayName: "Review"}}}
	require.NoError(t, s.SaveWorkflowDefinition(ctx, wf))

	state, err := s.GetStateDefinition(ctx, "review")
	require.NoError(t, err)
	require.Equal(t, "Review", state.DisplayName)

	wf.States = wf.States[:1]
	require.NoError(t, s.SaveWorkflowDefinition(ctx, wf))
	_, err = s.GetStateDefinition(ctx, "review")
	require.True(t, errors.Is(err, persistence.ErrNotFound))

	require.NoError(t, s.DeleteWorkflowDefinition(ctx, "wf"))
	_, err = s.GetStateDefinition(ctx, "draft")
	require.True(t, errors.Is(err, persistence.ErrNotFound))
}

func TestEventsKeepAppendOrder(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	key := model.ItemKey{Id: "item", Language: "en", Version: 1}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, user := range []string{"alice", "bob", "carol"} {
		require.NoError(t, s.AppendEvent(ctx, key, model.WorkflowEvent{User: user, Date: base.Add(time.Duration(i) * time.Hour)}))
	}
	events, err := s.GetEvents(ctx, key)
	require.NoError(t, err)
	require.Len(t, events, 3)
	require.Equal(t, "carol", events[2].User)

	other, err := s.GetEvents(ctx, model.ItemKey{Id: "item", Language: "de", Version: 1})
	require.NoError(t, err)
	require.Empty(t, other)
}
