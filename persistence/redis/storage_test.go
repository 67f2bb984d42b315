package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/mohitkumar/wfnotify/model"
	"github.com/mohitkumar/wfnotify/persistence"
	"github.com/stretchr/testify/require"
)

func TestRedisStorage(t *testing.T) {
	for scenario, fn := range map[string]func(
		t *testing.T, storage *Storage,
	){
		"workflow definitions and state index": testWorkflowDefinition,
		"action definitions":                   testActionDefinition,
		"items and users":                      testItemsAndUsers,
		"event log keeps order":                testEventLog,
	} {
		t.Run(scenario, func(t *testing.T) {
			mr := miniredis.RunT(t)
			storage := NewRedisStorage(Config{
				Addrs:     []string{mr.Addr()},
				Namespace: "test",
			})
			t.Cleanup(func() { _ = storage.Close() })
			fn(t, storage)
		})
	}
}

func testWorkflowDefinition(t *testing.T, storage *Storage) {
	ctx := context.Background()
	wf := model.Workflow{
		Id:           "sample",
		DisplayName:  "Sample Workflow",
		InitialState: "draft",
		States: []model.WorkflowState{
			{Id: "draft", DisplayName: "Draft", Commands: []model.WorkflowCommand{{Id: "submit", DisplayName: "Submit", NextStateId: "review"}}},
			{Id: "review", DisplayName: "Awaiting Approval"},
		},
	}
	require.NoError(t, storage.SaveWorkflowDefinition(ctx, wf))

	got, err := storage.GetWorkflowDefinition(ctx, "sample")
	require.NoError(t, err)
	require.Equal(t, wf, *got)

	state, err := storage.GetStateDefinition(ctx, "review")
	require.NoError(t, err)
	require.Equal(t, "Awaiting Approval", state.DisplayName)

	require.NoError(t, storage.DeleteWorkflowDefinition(ctx, "sample"))
	_, err = storage.GetStateDefinition(ctx, "review")
	require.True(t, errors.Is(err, persistence.ErrNotFound))
	_, err = storage.GetWorkflowDefinition(ctx, "sample")
	require.True(t, errors.Is(err, persistence.ErrNotFound))
}

func testActionDefinition(t *testing.T, storage *Storage) {
	ctx := context.Background()
	action := model.ActionDefinition{Id: "mail", Path: "/sitecore/system/Workflows/Sample/Draft/Submit/Mail", To: "a@x.com"}
	require.NoError(t, storage.SaveActionDefinition(ctx, action))
	got, err := storage.GetActionDefinition(ctx, "mail")
	require.NoError(t, err)
	require.Equal(t, action, *got)

	require.NoError(t, storage.DeleteActionDefinition(ctx, "mail"))
	_, err = storage.GetActionDefinition(ctx, "mail")
	require.True(t, errors.Is(err, persistence.ErrNotFound))
}

func testItemsAndUsers(t *testing.T, storage *Storage) {
	ctx := context.Background()
	item := model.Item{Id: "home", Name: "home", DisplayName: "Home", Language: "en", Version: 2, Path: "/sitecore/content/home"}
	require.NoError(t, storage.SaveItem(ctx, item))

	got, err := storage.GetItem(ctx, item.Key())
	require.NoError(t, err)
	require.Equal(t, item, *got)

	_, err = storage.GetItem(ctx, model.ItemKey{Id: "home", Language: "en", Version: 1})
	require.True(t, errors.Is(err, persistence.ErrNotFound))

	user := model.UserProfile{Name: "sitecore\\alice", Email: "alice@x.com", FullName: "Alice"}
	require.NoError(t, storage.SaveUser(ctx, user))
	gotUser, err := storage.GetUser(ctx, user.Name)
	require.NoError(t, err)
	require.Equal(t, "alice@x.com", gotUser.Email)
}

func testEventLog(t *testing.T, storage *Storage) {
	ctx := context.Background()
	key := model.ItemKey{Id: "home", Language: "en", Version: 1}
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, storage.AppendEvent(ctx, key, model.WorkflowEvent{Id: "1", NewStateId: "draft", User: "alice", Date: base}))
	require.NoError(t, storage.AppendEvent(ctx, key, model.WorkflowEvent{Id: "2", OldStateId: "draft", NewStateId: "review", User: "bob", Date: base.Add(time.Hour), Text: "ready"}))

	events, err := storage.GetEvents(ctx, key)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "1", events[0].Id)
	require.Equal(t, "ready", events[1].Text)
	require.True(t, events[1].Date.Equal(base.Add(time.Hour)))

	empty, err := storage.GetEvents(ctx, model.ItemKey{Id: "other", Language: "en", Version: 1})
	require.NoError(t, err)
	require.Empty(t, empty)
}
