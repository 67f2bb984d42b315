package metadata

import (
	"context"
	"testing"
	"time"

	"github.com/mohitkumar/wfnotify/cache"
	"github.com/mohitkumar/wfnotify/model"
	"github.com/mohitkumar/wfnotify/persistence/memory"
	"github.com/stretchr/testify/require"
)

func sampleWorkflow() model.Workflow {
	return model.Workflow{
		Id:           "sample",
		InitialState: "draft",
		States: []model.WorkflowState{
			{Id: "draft", DisplayName: "Draft", Commands: []model.WorkflowCommand{{Id: "submit", NextStateId: "review"}}},
			{Id: "review", DisplayName: "Review", Commands: []model.WorkflowCommand{{Id: "approve", NextStateId: "approved"}, {Id: "reject", NextStateId: "draft"}}},
			{Id: "approved", DisplayName: "Approved", FinalState: true},
		},
	}
}

func TestValidateWorkflow(t *testing.T) {
	svc := NewMetadataService(memory.NewStorage(), nil)
	require.NoError(t, svc.ValidateWorkflow(sampleWorkflow()))

	for scenario, mutate := range map[string]func(wf *model.Workflow){
		"missing id":            func(wf *model.Workflow) { wf.Id = "" },
		"no states":             func(wf *model.Workflow) { wf.States = nil },
		"duplicate state":       func(wf *model.Workflow) { wf.States[2].Id = "draft" },
		"unknown next state":    func(wf *model.Workflow) { wf.States[0].Commands[0].NextStateId = "nowhere" },
		"duplicate command":     func(wf *model.Workflow) { wf.States[1].Commands[1].Id = "submit" },
		"unknown initial state": func(wf *model.Workflow) { wf.InitialState = "nowhere" },
	} {
		t.Run(scenario, func(t *testing.T) {
			wf := sampleWorkflow()
			mutate(&wf)
			require.Error(t, svc.ValidateWorkflow(wf))
		})
	}
}

func TestValidateAction(t *testing.T) {
	ctx := context.Background()
	storage := memory.NewStorage()
	svc := NewMetadataService(storage, nil)
	require.NoError(t, svc.SaveWorkflow(ctx, sampleWorkflow()))

	require.NoError(t, svc.SaveAction(ctx, model.ActionDefinition{Id: "mail", WorkflowId: "sample", CommandId: "submit", NextStateId: "review"}))
	require.Error(t, svc.SaveAction(ctx, model.ActionDefinition{Id: "mail", WorkflowId: "sample", CommandId: "publish"}))
	require.Error(t, svc.SaveAction(ctx, model.ActionDefinition{Id: "mail", WorkflowId: "sample", NextStateId: "archived"}))
	require.Error(t, svc.SaveAction(ctx, model.ActionDefinition{Id: "mail", WorkflowId: "missing"}))
	require.Error(t, svc.SaveAction(ctx, model.ActionDefinition{}))
}

func TestSaveWorkflowInvalidatesLabels(t *testing.T) {
	ctx := context.Background()
	labels := cache.NewStateLabelCache(time.Minute)
	labels.SaveLabel("draft", "Old Draft")
	svc := NewMetadataService(memory.NewStorage(), labels)

	require.NoError(t, svc.SaveWorkflow(ctx, sampleWorkflow()))
	_, found := labels.GetLabel("draft")
	require.False(t, found)
}
