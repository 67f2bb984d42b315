package memory

import (
	"context"
	"sync"

	"github.com/mohitkumar/wfnotify/model"
	"github.com/mohitkumar/wfnotify/persistence"
)

var _ persistence.Storage = new(Storage)

// Storage keeps everything in process memory. It is used by tests and the
// "memory" storage type.
type Storage struct {
	mu        sync.RWMutex
	workflows map[string]model.Workflow
	states    map[string]string
	actions   map[string]model.ActionDefinition
	items     map[model.ItemKey]model.Item
	users     map[string]model.UserProfile
	events    map[model.ItemKey][]model.WorkflowEvent
}

func NewStorage() *Storage {
	return &Storage{
		workflows: make(map[string]model.Workflow),
		states:    make(map[string]string),
		actions:   make(map[string]model.ActionDefinition),
		items:     make(map[model.ItemKey]model.Item),
		users:     make(map[string]model.UserProfile),
		events:    make(map[model.ItemKey][]model.WorkflowEvent),
	}
}

func (s *Storage) SaveWorkflowDefinition(_ context.Context, wf model.Workflow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.workflows[wf.Id]; ok {
		for _, st := range old.States {
			delete(s.states, st.Id)
		}
	}
	s.workflows[wf.Id] = wf
	for _, st := range wf.States {
		s.states[st.Id] = wf.Id
	}
	return nil
}

func (s *Storage) DeleteWorkflowDefinition(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if wf, ok := s.workflows[id]; ok {
		for _, st := range wf.States {
			delete(s.states, st.Id)
		}
	}
	delete(s.workflows, id)
	return nil
}

func (s *Storage) GetWorkflowDefinition(_ context.Context, id string) (*model.Workflow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wf, ok := s.workflows[id]
	if !ok {
		return nil, persistence.ErrNotFound
	}
	return &wf, nil
}

func (s *Storage) GetStateDefinition(ctx context.Context, stateId string) (*model.WorkflowState, error) {
	s.mu.RLock()
	wfId, ok := s.states[stateId]
	s.mu.RUnlock()
	if !ok {
		return nil, persistence.ErrNotFound
	}
	wf, err := s.GetWorkflowDefinition(ctx, wfId)
	if err != nil {
		return nil, err
	}
	state := wf.State(stateId)
	if state == nil {
		return nil, persistence.ErrNotFound
	}
	return state, nil
}

func (s *Storage) SaveActionDefinition(_ context.Context, action model.ActionDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions[action.Id] = action
	return nil
}

func (s *Storage) DeleteActionDefinition(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.actions, id)
	return nil
}

func (s *Storage) GetActionDefinition(_ context.Context, id string) (*model.ActionDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	action, ok := s.actions[id]
	if !ok {
		return nil, persistence.ErrNotFound
	}
	return &action, nil
}

func (s *Storage) SaveItem(_ context.Context, item model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.Key()] = item
	return nil
}

func (s *Storage) GetItem(_ context.Context, key model.ItemKey) (*model.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[key]
	if !ok {
		return nil, persistence.ErrNotFound
	}
	return &item, nil
}

func (s *Storage) SaveUser(_ context.Context, user model.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.Name] = user
	return nil
}

func (s *Storage) GetUser(_ context.Context, name string) (*model.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[name]
	if !ok {
		return nil, persistence.ErrNotFound
	}
	return &user, nil
}

func (s *Storage) AppendEvent(_ context.Context, key model.ItemKey, event model.WorkflowEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[key] = append(s.events[key], event)
	return nil
}

func (s *Storage) GetEvents(_ context.Context, key model.ItemKey) ([]model.WorkflowEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := s.events[key]
	out := make([]model.WorkflowEvent, len(events))
	copy(out, events)
	return out, nil
}
