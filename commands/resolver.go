// Package commands resolves the state a notification announces and the
// commands that lead out of it.
package commands

import (
	"context"
	"fmt"

	"github.com/mohitkumar/wfnotify/logger"
	"github.com/mohitkumar/wfnotify/model"
	"github.com/mohitkumar/wfnotify/workflow"
	"go.uber.org/zap"
)

type Resolver struct {
	provider workflow.Provider
}

func NewResolver(provider workflow.Provider) *Resolver {
	return &Resolver{provider: provider}
}

// ResolveNextState returns the state the pending transition leads to, or nil
// when it cannot be determined. Failures are logged, never returned.
func (r *Resolver) ResolveNextState(ctx context.Context, ac *model.ActionContext) *model.WorkflowState {
	state, err := r.nextState(ctx, ac)
	if err != nil {
		logger.Error("error resolving next workflow state", zap.String("operation", "ResolveNextState"),
			zap.String("item", ac.Item.Id), zap.String("action", ac.Action.Id), zap.Error(err))
		return nil
	}
	return state
}

func (r *Resolver) nextState(ctx context.Context, ac *model.ActionContext) (*model.WorkflowState, error) {
	wf, err := r.provider.GetWorkflow(ctx, ac.Item)
	if err != nil {
		return nil, err
	}
	nextStateId := ac.Action.NextStateId
	if nextStateId == "" {
		cmd := findCommand(wf, ac.Action.CommandId)
		if cmd == nil {
			return nil, fmt.Errorf("owning command %q of action %s not found in workflow %s", ac.Action.CommandId, ac.Action.Id, wf.Id)
		}
		nextStateId = cmd.NextStateId
	}
	return r.provider.GetState(ctx, wf.Id, nextStateId)
}

// ListCommands returns all commands leaving state regardless of who is
// looking; callers that render for a viewer filter them. A nil state or any
// lookup failure gives an empty list.
func (r *Resolver) ListCommands(ctx context.Context, ac *model.ActionContext, state *model.WorkflowState) []model.WorkflowCommand {
	if state == nil {
		return []model.WorkflowCommand{}
	}
	commands, err := r.provider.GetCommands(ctx, ac.Item.WorkflowId, state.Id)
	if err != nil {
		logger.Error("error listing workflow commands", zap.String("operation", "ListCommands"),
			zap.String("item", ac.Item.Id), zap.String("state", state.Id), zap.Error(err))
		return []model.WorkflowCommand{}
	}
	return commands
}

func findCommand(wf *model.Workflow, commandId string) *model.WorkflowCommand {
	if commandId == "" {
		return nil
	}
	for i := range wf.States {
		for j := range wf.States[i].Commands {
			if wf.States[i].Commands[j].Id == commandId {
				return &wf.States[i].Commands[j]
			}
		}
	}
	return nil
}
