// Package panel computes the workflow ribbon shown to a viewer of an item:
// a status line and the buttons the viewer may press.
package panel

import (
	"context"
	"fmt"
	"html"

	"github.com/mohitkumar/wfnotify/logger"
	"github.com/mohitkumar/wfnotify/model"
	"github.com/mohitkumar/wfnotify/workflow"
	"go.uber.org/zap"
)

const (
	TEXT_LOCKED_BY_YOU   string = "<b>You</b> have locked this item."
	TEXT_LOCKED_BY_OTHER string = "<b>\"%s\"</b> has locked this item."
	TEXT_CLICK_EDIT      string = "Click Edit to lock and edit this item."
	TEXT_NO_PERMISSION   string = "You do not have permission to<br/>edit the content of this item."
	TEXT_APPROVED        string = "This item has been approved."
	TEXT_IN_STATE        string = "The item is in the <b>%s</b> state<br/>in the <b>%s</b> workflow."
)

const (
	COMMAND_CHECKOUT string = "item:checkout"
	COMMAND_HISTORY  string = "item:workflowhistory"
)

type Button struct {
	Label   string `json:"label"`
	Icon    string `json:"icon"`
	Tooltip string `json:"tooltip"`
	Command string `json:"command"`
}

type Model struct {
	Text    string   `json:"text"`
	Buttons []Button `json:"buttons"`
}

type Builder struct {
	provider workflow.Provider
	auth     Authorizer
}

func NewBuilder(provider workflow.Provider, auth Authorizer) *Builder {
	return &Builder{provider: provider, auth: auth}
}

func (b *Builder) Build(ctx context.Context, item model.Item, viewer model.UserProfile) Model {
	wf, state, commands := b.commands(ctx, item)
	canWrite := b.auth.CanWrite(viewer, item)

	checkout := !item.ReadOnly && canWrite && !isLocked(item)
	checkin := isLocked(item) && (hasLock(viewer, item) || viewer.Administrator)
	showCommands := b.canShowCommands(viewer, item, state, commands, canWrite)

	m := Model{Text: text(item, wf, state, canWrite, viewer), Buttons: []Button{}}
	if wf == nil && !checkout && !showCommands && !checkin {
		return m
	}
	if checkout {
		m.Buttons = append(m.Buttons, Button{
			Label:   "Edit",
			Icon:    "Applications/24x24/document_edit.png",
			Tooltip: "Start editing this item.",
			Command: COMMAND_CHECKOUT,
		})
	}
	if checkin {
		m.Buttons = append(m.Buttons, Button{
			Label:   "Check In",
			Icon:    "Network/16x16/checkin.png",
			Tooltip: "Check this item in.",
			Command: fmt.Sprintf("item:checkin(id=%s,language=%s,version=%d)", item.Id, item.Language, item.Version),
		})
	}
	if showCommands {
		for _, cmd := range commands {
			m.Buttons = append(m.Buttons, Button{
				Label:   cmd.DisplayName,
				Icon:    cmd.Icon,
				Tooltip: cmd.DisplayName,
				Command: fmt.Sprintf("item:workflow(id=%s,language=%s,version=%d,command=%s,workflow=%s)",
					item.Id, item.Language, item.Version, cmd.Id, wf.Id),
			})
		}
	}
	if wf != nil {
		m.Buttons = append(m.Buttons, Button{
			Label:   "History",
			Icon:    "Applications/16x16/history.png",
			Tooltip: "Show the workflow history.",
			Command: COMMAND_HISTORY,
		})
	}
	return m
}

// commands returns the workflow, current state and visible commands of item.
// All three are empty when the item is not in a known workflow state.
func (b *Builder) commands(ctx context.Context, item model.Item) (*model.Workflow, *model.WorkflowState, []model.WorkflowCommand) {
	if item.WorkflowId == "" {
		return nil, nil, nil
	}
	wf, err := b.provider.GetWorkflow(ctx, item)
	if err != nil {
		logger.Error("error loading workflow for panel", zap.String("item", item.Id), zap.Error(err))
		return nil, nil, nil
	}
	state := wf.State(item.StateId)
	if state == nil {
		return nil, nil, nil
	}
	all, err := b.provider.GetCommands(ctx, wf.Id, state.Id)
	if err != nil {
		logger.Error("error loading commands for panel", zap.String("item", item.Id), zap.Error(err))
		return wf, state, nil
	}
	visible := make([]model.WorkflowCommand, 0, len(all))
	for _, c := range all {
		if !c.Hidden {
			visible = append(visible, c)
		}
	}
	return wf, state, visible
}

func (b *Builder) canShowCommands(viewer model.UserProfile, item model.Item, state *model.WorkflowState, commands []model.WorkflowCommand, canWrite bool) bool {
	if item.ReadOnly || len(commands) == 0 {
		return false
	}
	if allowed, declared := b.auth.CanExecute(viewer, state); declared {
		return allowed
	}
	if viewer.Administrator {
		return true
	}
	canLock := canWrite && !isLocked(item)
	return canWrite && (canLock || hasLock(viewer, item))
}

func text(item model.Item, wf *model.Workflow, state *model.WorkflowState, canWrite bool, viewer model.UserProfile) string {
	if item.ReadOnly {
		return ""
	}
	if canWrite {
		switch {
		case hasLock(viewer, item):
			return TEXT_LOCKED_BY_YOU
		case isLocked(item):
			return fmt.Sprintf(TEXT_LOCKED_BY_OTHER, html.EscapeString(ownerWithoutDomain(item.LockedBy)))
		default:
			return TEXT_CLICK_EDIT
		}
	}
	if wf == nil || state == nil {
		return TEXT_NO_PERMISSION
	}
	if state.FinalState {
		return TEXT_APPROVED
	}
	return fmt.Sprintf(TEXT_IN_STATE, html.EscapeString(orUnknown(state.DisplayName)), html.EscapeString(orUnknown(wf.DisplayName)))
}

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}
	return s
}
