package redis

import (
	"context"

	"github.com/mohitkumar/wfnotify/model"
	"github.com/mohitkumar/wfnotify/persistence"
	"github.com/mohitkumar/wfnotify/util"
)

const ITEM_KEY string = "ITEM"
const USER_KEY string = "USER"

type redisItemStorage struct {
	*baseDao
	itemEncoderDecoder util.EncoderDecoder[model.Item]
	userEncoderDecoder util.EncoderDecoder[model.UserProfile]
}

func newRedisItemStorage(base *baseDao) *redisItemStorage {
	return &redisItemStorage{
		baseDao:            base,
		itemEncoderDecoder: util.NewJsonEncoderDecoder[model.Item](),
		userEncoderDecoder: util.NewJsonEncoderDecoder[model.UserProfile](),
	}
}

func (r *redisItemStorage) SaveItem(ctx context.Context, item model.Item) error {
	data, err := r.itemEncoderDecoder.Encode(item)
	if err != nil {
		return err
	}
	key := r.getNamespaceKey(ITEM_KEY, item.Id)
	if err := r.redisClient.HSet(ctx, key, []string{item.Key().String(), string(data)}).Err(); err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (r *redisItemStorage) GetItem(ctx context.Context, key model.ItemKey) (*model.Item, error) {
	data, err := r.hget(ctx, r.getNamespaceKey(ITEM_KEY, key.Id), key.String())
	if err != nil {
		return nil, err
	}
	return r.itemEncoderDecoder.Decode(data)
}

func (r *redisItemStorage) SaveUser(ctx context.Context, user model.UserProfile) error {
	data, err := r.userEncoderDecoder.Encode(user)
	if err != nil {
		return err
	}
	if err := r.redisClient.HSet(ctx, r.getNamespaceKey(USER_KEY), []string{user.Name, string(data)}).Err(); err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (r *redisItemStorage) GetUser(ctx context.Context, name string) (*model.UserProfile, error) {
	data, err := r.hget(ctx, r.getNamespaceKey(USER_KEY), name)
	if err != nil {
		return nil, err
	}
	return r.userEncoderDecoder.Decode(data)
}
