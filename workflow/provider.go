// Package workflow exposes the workflow engine operations the notification
// core reads from: definitions, states, commands and the persisted history.
package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/mohitkumar/wfnotify/cache"
	"github.com/mohitkumar/wfnotify/logger"
	"github.com/mohitkumar/wfnotify/model"
	"github.com/mohitkumar/wfnotify/persistence"
	"go.uber.org/zap"
)

type Provider interface {
	GetWorkflow(ctx context.Context, item model.Item) (*model.Workflow, error)
	GetState(ctx context.Context, workflowId string, stateId string) (*model.WorkflowState, error)
	// GetCommands returns every command leaving the state, without any
	// permission filtering.
	GetCommands(ctx context.Context, workflowId string, stateId string) ([]model.WorkflowCommand, error)
	GetHistory(ctx context.Context, item model.Item) ([]model.WorkflowEvent, error)
	// StateLabel returns the display name of a state, or "" if it no longer exists.
	StateLabel(ctx context.Context, stateId string) (string, error)
}

var _ Provider = new(StorageProvider)

type StorageProvider struct {
	metadata persistence.MetadataStorage
	events   persistence.EventLog
	labels   *cache.StateLabelCache
}

func NewStorageProvider(metadata persistence.MetadataStorage, events persistence.EventLog, labels *cache.StateLabelCache) *StorageProvider {
	return &StorageProvider{
		metadata: metadata,
		events:   events,
		labels:   labels,
	}
}

func (p *StorageProvider) GetWorkflow(ctx context.Context, item model.Item) (*model.Workflow, error) {
	if item.WorkflowId == "" {
		return nil, fmt.Errorf("item %s is not in a workflow", item.Id)
	}
	wf, err := p.metadata.GetWorkflowDefinition(ctx, item.WorkflowId)
	if err != nil {
		return nil, fmt.Errorf("workflow %s: %w", item.WorkflowId, err)
	}
	return wf, nil
}

func (p *StorageProvider) GetState(ctx context.Context, workflowId string, stateId string) (*model.WorkflowState, error) {
	wf, err := p.metadata.GetWorkflowDefinition(ctx, workflowId)
	if err != nil {
		return nil, fmt.Errorf("workflow %s: %w", workflowId, err)
	}
	state := wf.State(stateId)
	if state == nil {
		return nil, fmt.Errorf("state %q in workflow %s: %w", stateId, workflowId, persistence.ErrNotFound)
	}
	return state, nil
}

func (p *StorageProvider) GetCommands(ctx context.Context, workflowId string, stateId string) ([]model.WorkflowCommand, error) {
	state, err := p.GetState(ctx, workflowId, stateId)
	if err != nil {
		return nil, err
	}
	commands := make([]model.WorkflowCommand, len(state.Commands))
	copy(commands, state.Commands)
	return commands, nil
}

func (p *StorageProvider) GetHistory(ctx context.Context, item model.Item) ([]model.WorkflowEvent, error) {
	return p.events.GetEvents(ctx, item.Key())
}

func (p *StorageProvider) StateLabel(ctx context.Context, stateId string) (string, error) {
	if stateId == "" {
		return "", nil
	}
	if p.labels != nil {
		if label, ok := p.labels.GetLabel(stateId); ok {
			return label, nil
		}
	}
	state, err := p.metadata.GetStateDefinition(ctx, stateId)
	label := ""
	switch {
	case err == nil:
		label = state.DisplayName
	case errors.Is(err, persistence.ErrNotFound):
		logger.Debug("state no longer exists", zap.String("state", stateId))
	default:
		return "", err
	}
	if p.labels != nil {
		p.labels.SaveLabel(stateId, label)
	}
	return label, nil
}
