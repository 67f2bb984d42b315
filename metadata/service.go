package metadata

import (
	"context"
	"fmt"

	"github.com/mohitkumar/wfnotify/cache"
	"github.com/mohitkumar/wfnotify/model"
	"github.com/mohitkumar/wfnotify/persistence"
)

type MetadataService interface {
	ValidateWorkflow(wf model.Workflow) error
	ValidateAction(ctx context.Context, action model.ActionDefinition) error
	SaveWorkflow(ctx context.Context, wf model.Workflow) error
	SaveAction(ctx context.Context, action model.ActionDefinition) error
	GetMetadataStorage() persistence.MetadataStorage
}

type MetadataServiceImpl struct {
	storage persistence.MetadataStorage
	labels  *cache.StateLabelCache
}

func NewMetadataService(storage persistence.MetadataStorage, labels *cache.StateLabelCache) MetadataService {
	return &MetadataServiceImpl{
		storage: storage,
		labels:  labels,
	}
}

func (s *MetadataServiceImpl) ValidateWorkflow(wf model.Workflow) error {
	if len(wf.Id) == 0 {
		return fmt.Errorf("workflow id can not be empty")
	}
	if len(wf.States) == 0 {
		return fmt.Errorf("workflow %s has no states", wf.Id)
	}
	states := make(map[string]bool)
	for _, st := range wf.States {
		if len(st.Id) == 0 {
			return fmt.Errorf("workflow %s has a state without id", wf.Id)
		}
		if states[st.Id] {
			return fmt.Errorf("state id %s is duplicate", st.Id)
		}
		states[st.Id] = true
	}
	commands := make(map[string]bool)
	for _, st := range wf.States {
		for _, cmd := range st.Commands {
			if len(cmd.Id) == 0 {
				return fmt.Errorf("state %s has a command without id", st.Id)
			}
			if commands[cmd.Id] {
				return fmt.Errorf("command id %s is duplicate", cmd.Id)
			}
			commands[cmd.Id] = true
			if !states[cmd.NextStateId] {
				return fmt.Errorf("command %s, next state %s not defined", cmd.Id, cmd.NextStateId)
			}
		}
	}
	if len(wf.InitialState) > 0 && !states[wf.InitialState] {
		return fmt.Errorf("no state with initial state id %s in workflow", wf.InitialState)
	}
	return nil
}

func (s *MetadataServiceImpl) ValidateAction(ctx context.Context, action model.ActionDefinition) error {
	if len(action.Id) == 0 {
		return fmt.Errorf("action id can not be empty")
	}
	if len(action.WorkflowId) == 0 {
		return nil
	}
	wf, err := s.storage.GetWorkflowDefinition(ctx, action.WorkflowId)
	if err != nil {
		return fmt.Errorf("action %s, workflow %s not registered", action.Id, action.WorkflowId)
	}
	if len(action.CommandId) > 0 && !hasCommand(wf, action.CommandId) {
		return fmt.Errorf("action %s, command %s not defined in workflow %s", action.Id, action.CommandId, wf.Id)
	}
	if len(action.NextStateId) > 0 && wf.State(action.NextStateId) == nil {
		return fmt.Errorf("action %s, next state %s not defined in workflow %s", action.Id, action.NextStateId, wf.Id)
	}
	return nil
}

func (s *MetadataServiceImpl) SaveWorkflow(ctx context.Context, wf model.Workflow) error {
	if err := s.ValidateWorkflow(wf); err != nil {
		return err
	}
	if err := s.storage.SaveWorkflowDefinition(ctx, wf); err != nil {
		return err
	}
	if s.labels != nil {
		s.labels.Invalidate()
	}
	return nil
}

func (s *MetadataServiceImpl) SaveAction(ctx context.Context, action model.ActionDefinition) error {
	if err := s.ValidateAction(ctx, action); err != nil {
		return err
	}
	return s.storage.SaveActionDefinition(ctx, action)
}

func (s *MetadataServiceImpl) GetMetadataStorage() persistence.MetadataStorage {
	return s.storage
}

func hasCommand(wf *model.Workflow, commandId string) bool {
	for _, st := range wf.States {
		for _, cmd := range st.Commands {
			if cmd.Id == commandId {
				return true
			}
		}
	}
	return false
}
