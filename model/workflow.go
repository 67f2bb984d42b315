package model

import "time"

type Workflow struct {
	Id           string          `json:"id"`
	DisplayName  string          `json:"displayName"`
	InitialState string          `json:"initialState"`
	States       []WorkflowState `json:"states"`
}

// State returns the state with the given id, or nil.
func (w *Workflow) State(stateId string) *WorkflowState {
	for i := range w.States {
		if w.States[i].Id == stateId {
			return &w.States[i]
		}
	}
	return nil
}

type WorkflowState struct {
	Id           string            `json:"id"`
	DisplayName  string            `json:"displayName"`
	FinalState   bool              `json:"finalState"`
	ExecuteRoles []string          `json:"executeRoles"`
	Commands     []WorkflowCommand `json:"commands"`
}

type WorkflowCommand struct {
	Id          string `json:"id"`
	DisplayName string `json:"displayName"`
	Icon        string `json:"icon"`
	NextStateId string `json:"nextStateId"`
	Hidden      bool   `json:"hidden"`
}

// WorkflowEvent is one persisted transition as written by the workflow engine.
type WorkflowEvent struct {
	Id         string    `json:"id"`
	OldStateId string    `json:"oldStateId"`
	NewStateId string    `json:"newStateId"`
	User       string    `json:"user"`
	Date       time.Time `json:"date"`
	Text       string    `json:"text"`
}

// WorkflowEventRecord is a display ready history row.
type WorkflowEventRecord struct {
	Timestamp      time.Time `json:"timestamp"`
	Actor          string    `json:"actor"`
	FromStateLabel string    `json:"fromState"`
	ToStateLabel   string    `json:"toState"`
	Comment        string    `json:"comment"`
}
