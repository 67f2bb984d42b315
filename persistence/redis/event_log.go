package redis

import (
	"context"

	"github.com/mohitkumar/wfnotify/model"
	"github.com/mohitkumar/wfnotify/persistence"
	"github.com/mohitkumar/wfnotify/util"
)

const HISTORY_KEY string = "HISTORY"

type redisEventLog struct {
	*baseDao
	encoderDecoder util.EncoderDecoder[model.WorkflowEvent]
}

func newRedisEventLog(base *baseDao) *redisEventLog {
	return &redisEventLog{
		baseDao:        base,
		encoderDecoder: util.NewJsonEncoderDecoder[model.WorkflowEvent](),
	}
}

func (r *redisEventLog) AppendEvent(ctx context.Context, key model.ItemKey, event model.WorkflowEvent) error {
	data, err := r.encoderDecoder.Encode(event)
	if err != nil {
		return err
	}
	if err := r.redisClient.RPush(ctx, r.getNamespaceKey(HISTORY_KEY, key.String()), string(data)).Err(); err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (r *redisEventLog) GetEvents(ctx context.Context, key model.ItemKey) ([]model.WorkflowEvent, error) {
	values, err := r.redisClient.LRange(ctx, r.getNamespaceKey(HISTORY_KEY, key.String()), 0, -1).Result()
	if err != nil {
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	return r.encoderDecoder.DecodeAll(values)
}
