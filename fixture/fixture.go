// Package fixture imports bundles of workflows, actions, items, users and
// history events into a storage backend.
package fixture

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mohitkumar/wfnotify/model"
	"github.com/mohitkumar/wfnotify/persistence"
	"github.com/mohitkumar/wfnotify/util"
)

type EventEntry struct {
	Item  model.ItemKey       `json:"item"`
	Event model.WorkflowEvent `json:"event"`
}

type Fixture struct {
	Workflows []model.Workflow         `json:"workflows"`
	Actions   []model.ActionDefinition `json:"actions"`
	Items     []model.Item             `json:"items"`
	Users     []model.UserProfile      `json:"users"`
	Events    []EventEntry             `json:"events"`
}

func ReadFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := util.NewJsonEncoderDecoder[Fixture]().Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding fixture %s: %w", path, err)
	}
	return f, nil
}

// Load writes every entry of the fixture, stopping at the first failure.
func (f *Fixture) Load(ctx context.Context, storage persistence.Storage) error {
	for _, wf := range f.Workflows {
		if err := storage.SaveWorkflowDefinition(ctx, wf); err != nil {
			return fmt.Errorf("workflow %s: %w", wf.Id, err)
		}
	}
	for _, a := range f.Actions {
		if err := storage.SaveActionDefinition(ctx, a); err != nil {
			return fmt.Errorf("action %s: %w", a.Id, err)
		}
	}
	for _, item := range f.Items {
		if err := storage.SaveItem(ctx, item); err != nil {
			return fmt.Errorf("item %s: %w", item.Key(), err)
		}
	}
	for _, u := range f.Users {
		if err := storage.SaveUser(ctx, u); err != nil {
			return fmt.Errorf("user %s: %w", u.Name, err)
		}
	}
	for _, e := range f.Events {
		if err := storage.AppendEvent(ctx, e.Item, e.Event); err != nil {
			return fmt.Errorf("event %s of %s: %w", e.Event.Id, e.Item, err)
		}
	}
	return nil
}

const (
	SAMPLE_WORKFLOW string = "sample-workflow"
	SAMPLE_ACTION   string = "approve-email"
	SAMPLE_ITEM     string = "home"
	SAMPLE_AUTHOR   string = `sitecore\jdoe`
	SAMPLE_REVIEWER string = `sitecore\rsmith`
)

// Sample is a small three state workflow with one item awaiting approval.
func Sample() *Fixture {
	item := model.Item{
		Id:           SAMPLE_ITEM,
		Name:         "home",
		DisplayName:  "Home",
		Path:         "/sitecore/content/home",
		Language:     "en",
		LanguageName: "English",
		Version:      1,
		WorkflowId:   SAMPLE_WORKFLOW,
		StateId:      "awaiting",
		WriteRoles:   []string{`sitecore\Author`},
	}
	return &Fixture{
		Workflows: []model.Workflow{{
			Id:           SAMPLE_WORKFLOW,
			DisplayName:  "Sample Workflow",
			InitialState: "draft",
			States: []model.WorkflowState{
				{Id: "draft", DisplayName: "Draft", Commands: []model.WorkflowCommand{
					{Id: "submit", DisplayName: "Submit", NextStateId: "awaiting"},
				}},
				{Id: "awaiting", DisplayName: "Awaiting Approval", ExecuteRoles: []string{`sitecore\Reviewer`}, Commands: []model.WorkflowCommand{
					{Id: "approve", DisplayName: "Approve", NextStateId: "approved"},
					{Id: "reject", DisplayName: "Reject", NextStateId: "draft"},
				}},
				{Id: "approved", DisplayName: "Approved", FinalState: true, Commands: []model.WorkflowCommand{
					{Id: "reopen", DisplayName: "Reopen", NextStateId: "draft"},
				}},
			},
		}},
		Actions: []model.ActionDefinition{{
			Id:         SAMPLE_ACTION,
			Path:       "/sitecore/system/Workflows/Sample Workflow/Awaiting Approval/Approve/Email",
			WorkflowId: SAMPLE_WORKFLOW,
			CommandId:  "approve",
			To:         "a@x.com,b@x.com",
			From:       "wf@x.com",
			Subject:    "Approve $itemtitle$",
			Message:    "Item at $itempath$ is $itemworkflowstate$",
			MailServer: "mail.x.com",
			HostName:   "http://cms.x.com",
		}},
		Items: []model.Item{item},
		Users: []model.UserProfile{
			{Name: SAMPLE_AUTHOR, Email: "jdoe@x.com", FullName: "Jane Doe", Roles: []string{`sitecore\Author`}},
			{Name: SAMPLE_REVIEWER, Email: "rsmith@x.com", FullName: "Rob Smith", Roles: []string{`sitecore\Reviewer`}},
		},
		Events: []EventEntry{
			{Item: item.Key(), Event: model.WorkflowEvent{
				Id: "ev-1", NewStateId: "draft", User: SAMPLE_AUTHOR,
				Date: time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC),
			}},
			{Item: item.Key(), Event: model.WorkflowEvent{
				Id: "ev-2", OldStateId: "draft", NewStateId: "awaiting", User: SAMPLE_AUTHOR,
				Date: time.Date(2024, time.March, 2, 10, 30, 0, 0, time.UTC), Text: "ready for review",
			}},
		},
	}
}
