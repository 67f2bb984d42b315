package panel

import (
	"context"
	"testing"

	"github.com/mohitkumar/wfnotify/fixture"
	"github.com/mohitkumar/wfnotify/model"
	"github.com/mohitkumar/wfnotify/persistence/memory"
	"github.com/mohitkumar/wfnotify/workflow"
	"github.com/stretchr/testify/require"
)

func labels(m Model) []string {
	out := []string{}
	for _, b := range m.Buttons {
		out = append(out, b.Label)
	}
	return out
}

func TestBuild(t *testing.T) {
	storage := memory.NewStorage()
	f := fixture.Sample()
	require.NoError(t, f.Load(context.Background(), storage))
	b := NewBuilder(workflow.NewStorageProvider(storage, storage, nil), RoleAuthorizer{})

	author, reviewer := f.Users[0], f.Users[1]
	admin := model.UserProfile{Name: `sitecore\admin`, Administrator: true}
	home := f.Items[0]

	for scenario, tc := range map[string]struct {
		item    func() model.Item
		viewer  model.UserProfile
		text    string
		buttons []string
	}{
		"author on unlocked item": {
			item: func() model.Item { return home }, viewer: author,
			text: TEXT_CLICK_EDIT, buttons: []string{"Edit", "History"},
		},
		"reviewer without write access": {
			item: func() model.Item { return home }, viewer: reviewer,
			text:    "The item is in the <b>Awaiting Approval</b> state<br/>in the <b>Sample Workflow</b> workflow.",
			buttons: []string{"Approve", "Reject", "History"},
		},
		"author holding the lock": {
			item:   func() model.Item { i := home; i.LockedBy = fixture.SAMPLE_AUTHOR; return i },
			viewer: author, text: TEXT_LOCKED_BY_YOU, buttons: []string{"Check In", "History"},
		},
		"admin on item locked by other": {
			item:   func() model.Item { i := home; i.LockedBy = fixture.SAMPLE_AUTHOR; return i },
			viewer: admin, text: `<b>"jdoe"</b> has locked this item.`,
			buttons: []string{"Check In", "Approve", "Reject", "History"},
		},
		"read only item": {
			item:   func() model.Item { i := home; i.ReadOnly = true; return i },
			viewer: admin, text: "", buttons: []string{"History"},
		},
		"approved item": {
			item:   func() model.Item { i := home; i.StateId = "approved"; return i },
			viewer: reviewer, text: TEXT_APPROVED, buttons: []string{"History"},
		},
		"item outside any workflow": {
			item:   func() model.Item { i := home; i.WorkflowId, i.StateId = "", ""; return i },
			viewer: reviewer, text: TEXT_NO_PERMISSION, buttons: []string{},
		},
	} {
		t.Run(scenario, func(t *testing.T) {
			m := b.Build(context.Background(), tc.item(), tc.viewer)
			require.Equal(t, tc.text, m.Text)
			require.Equal(t, tc.buttons, labels(m))
		})
	}
}

func TestCommandButtons(t *testing.T) {
	storage := memory.NewStorage()
	f := fixture.Sample()
	require.NoError(t, f.Load(context.Background(), storage))
	b := NewBuilder(workflow.NewStorageProvider(storage, storage, nil), RoleAuthorizer{})

	m := b.Build(context.Background(), f.Items[0], f.Users[1])

	require.Equal(t, "item:workflow(id=home,language=en,version=1,command=approve,workflow=sample-workflow)", m.Buttons[0].Command)
	require.Equal(t, COMMAND_HISTORY, m.Buttons[2].Command)
}

func TestOwnerWithoutDomain(t *testing.T) {
	require.Equal(t, "jdoe", ownerWithoutDomain(`sitecore\jdoe`))
	require.Equal(t, "jdoe", ownerWithoutDomain("jdoe"))
	require.Equal(t, "?", ownerWithoutDomain(`sitecore\`))
}
