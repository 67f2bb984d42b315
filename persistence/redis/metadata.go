package redis

import (
	"context"
	"errors"

	"github.com/mohitkumar/wfnotify/logger"
	"github.com/mohitkumar/wfnotify/model"
	"github.com/mohitkumar/wfnotify/persistence"
	"github.com/mohitkumar/wfnotify/util"
	"go.uber.org/zap"
)

const WORKFLOW_DEF string = "WORKFLOW"
const STATE_INDEX string = "STATE"
const ACTION_DEF string = "ACTION"

type redisMetadataStorage struct {
	*baseDao
	workflowEncoderDecoder util.EncoderDecoder[model.Workflow]
	actionEncoderDecoder   util.EncoderDecoder[model.ActionDefinition]
}

func newRedisMetadataStorage(base *baseDao) *redisMetadataStorage {
	return &redisMetadataStorage{
		baseDao:                base,
		workflowEncoderDecoder: util.NewJsonEncoderDecoder[model.Workflow](),
		actionEncoderDecoder:   util.NewJsonEncoderDecoder[model.ActionDefinition](),
	}
}

func (rfd *redisMetadataStorage) SaveWorkflowDefinition(ctx context.Context, wf model.Workflow) error {
	data, err := rfd.workflowEncoderDecoder.Encode(wf)
	if err != nil {
		return err
	}
	old, err := rfd.GetWorkflowDefinition(ctx, wf.Id)
	if err != nil && !errors.Is(err, persistence.ErrNotFound) {
		return err
	}
	key := rfd.getNamespaceKey(WORKFLOW_DEF)
	indexKey := rfd.getNamespaceKey(STATE_INDEX)
	stateFields := make([]string, 0, 2*len(wf.States))
	for _, st := range wf.States {
		stateFields = append(stateFields, st.Id, wf.Id)
	}
	pipe := rfd.redisClient.TxPipeline()
	if old != nil {
		for _, st := range old.States {
			pipe.HDel(ctx, indexKey, st.Id)
		}
	}
	pipe.HSet(ctx, key, []string{wf.Id, string(data)})
	if len(stateFields) > 0 {
		pipe.HSet(ctx, indexKey, stateFields)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Error("error in saving workflow definition", zap.String("workflow", wf.Id), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (rfd *redisMetadataStorage) DeleteWorkflowDefinition(ctx context.Context, id string) error {
	old, err := rfd.GetWorkflowDefinition(ctx, id)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return nil
		}
		return err
	}
	pipe := rfd.redisClient.TxPipeline()
	for _, st := range old.States {
		pipe.HDel(ctx, rfd.getNamespaceKey(STATE_INDEX), st.Id)
	}
	pipe.HDel(ctx, rfd.getNamespaceKey(WORKFLOW_DEF), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (rfd *redisMetadataStorage) GetWorkflowDefinition(ctx context.Context, id string) (*model.Workflow, error) {
	data, err := rfd.hget(ctx, rfd.getNamespaceKey(WORKFLOW_DEF), id)
	if err != nil {
		return nil, err
	}
	return rfd.workflowEncoderDecoder.Decode(data)
}

func (rfd *redisMetadataStorage) GetStateDefinition(ctx context.Context, stateId string) (*model.WorkflowState, error) {
	wfId, err := rfd.hget(ctx, rfd.getNamespaceKey(STATE_INDEX), stateId)
	if err != nil {
		return nil, err
	}
	wf, err := rfd.GetWorkflowDefinition(ctx, string(wfId))
	if err != nil {
		return nil, err
	}
	state := wf.State(stateId)
	if state == nil {
		return nil, persistence.ErrNotFound
	}
	return state, nil
}

func (td *redisMetadataStorage) SaveActionDefinition(ctx context.Context, action model.ActionDefinition) error {
	data, err := td.actionEncoderDecoder.Encode(action)
	if err != nil {
		return err
	}
	key := td.getNamespaceKey(ACTION_DEF)
	if err := td.redisClient.HSet(ctx, key, []string{action.Id, string(data)}).Err(); err != nil {
		logger.Error("error in saving action definition", zap.String("action", action.Id), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (td *redisMetadataStorage) DeleteActionDefinition(ctx context.Context, id string) error {
	key := td.getNamespaceKey(ACTION_DEF)
	if err := td.redisClient.HDel(ctx, key, id).Err(); err != nil {
		logger.Error("error in deleting action definition", zap.String("action", id), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (td *redisMetadataStorage) GetActionDefinition(ctx context.Context, id string) (*model.ActionDefinition, error) {
	data, err := td.hget(ctx, td.getNamespaceKey(ACTION_DEF), id)
	if err != nil {
		return nil, err
	}
	return td.actionEncoderDecoder.Decode(data)
}
