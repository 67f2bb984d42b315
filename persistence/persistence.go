package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/mohitkumar/wfnotify/model"
)

type StorageLayerError struct {
	Message string
}

func (e StorageLayerError) Error() string {
	return fmt.Sprintf("storage layer error %s", e.Message)
}

var ErrNotFound = errors.New("not found")

type MetadataStorage interface {
	SaveWorkflowDefinition(ctx context.Context, wf model.Workflow) error
	DeleteWorkflowDefinition(ctx context.Context, id string) error
	GetWorkflowDefinition(ctx context.Context, id string) (*model.Workflow, error)
	// GetStateDefinition looks a state up by id across all workflows.
	GetStateDefinition(ctx context.Context, stateId string) (*model.WorkflowState, error)
	SaveActionDefinition(ctx context.Context, action model.ActionDefinition) error
	DeleteActionDefinition(ctx context.Context, id string) error
	GetActionDefinition(ctx context.Context, id string) (*model.ActionDefinition, error)
}

type ItemStorage interface {
	SaveItem(ctx context.Context, item model.Item) error
	GetItem(ctx context.Context, key model.ItemKey) (*model.Item, error)
}

type UserStorage interface {
	SaveUser(ctx context.Context, user model.UserProfile) error
	GetUser(ctx context.Context, name string) (*model.UserProfile, error)
}

// EventLog is the append-only transition history of item versions, oldest first.
type EventLog interface {
	AppendEvent(ctx context.Context, key model.ItemKey, event model.WorkflowEvent) error
	GetEvents(ctx context.Context, key model.ItemKey) ([]model.WorkflowEvent, error)
}

type Storage interface {
	MetadataStorage
	ItemStorage
	UserStorage
	EventLog
}
