package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"

	errx "github.com/lista-compras/server/internal/core/error"
	"github.com/lista-compras/server/internal/list/model"
	logx "github.com/lista-compras/server/pkg/logger"
)

// RedisItemStore keeps each (user, category) collection as a Redis list of
// JSON-encoded items. The purchased bucket is a second list per category
// under its own key prefix.
type RedisItemStore struct {
	rdb redis.Cmdable
}

func NewRedisItemStore(rdb redis.Cmdable) *RedisItemStore {
	return &RedisItemStore{rdb: rdb}
}

func (s *RedisItemStore) listKey(userID string, category model.Category) string {
	return fmt.Sprintf("list:%s:%s", userID, category)
}

func (s *RedisItemStore) purchasedKey(userID string, category model.Category) string {
	return fmt.Sprintf("purchased:%s:%s", userID, category)
}

func (s *RedisItemStore) ListByCategory(ctx context.Context, userID string, category model.Category) ([]model.Item, error) {
	return s.listAll(ctx, s.listKey(userID, category))
}

func (s *RedisItemStore) ListPurchased(ctx context.Context, userID string, category model.Category) ([]model.Item, error) {
	return s.listAll(ctx, s.purchasedKey(userID, category))
}

func (s *RedisItemStore) listAll(ctx context.Context, key string) ([]model.Item, error) {
	rows, err := s.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return []model.Item{}, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load items from redis")
		return nil, errx.WrapRedis(err)
	}

	items := make([]model.Item, 0, len(rows))
	for i, row := range rows {
		var item model.Item
		if err := json.Unmarshal([]byte(row), &item); err != nil {
			logx.Error().Err(err).Str("key", key).Int("index", i).Msg("failed to unmarshal item")
			return nil, fmt.Errorf("unmarshal item at index %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *RedisItemStore) AddItem(ctx context.Context, userID string, category model.Category, item model.Item) error {
	return s.push(ctx, s.listKey(userID, category), item)
}

func (s *RedisItemStore) AddPurchased(ctx context.Context, userID string, category model.Category, item model.Item) error {
	return s.push(ctx, s.purchasedKey(userID, category), item)
}

func (s *RedisItemStore) push(ctx context.Context, key string, item model.Item) error {
	b, err := json.Marshal(item)
	if err != nil {
		logx.Error().Err(err).Str("itemID", item.ID).Msg("failed to marshal item")
		return fmt.Errorf("marshal item: %w", err)
	}
	if err := s.rdb.RPush(ctx, key, b).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to push item to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

// UpdateItem replaces the stored row holding the same identifier. Redis
// lists have no keyed access, so the list is scanned for the matching ID and
// overwritten in place with LSET.
func (s *RedisItemStore) UpdateItem(ctx context.Context, userID string, category model.Category, item model.Item) error {
	key := s.listKey(userID, category)
	idx, _, err := s.find(ctx, key, item.ID)
	if err != nil {
		return err
	}
	if idx < 0 {
		return errx.New(nil, http.StatusNotFound, errx.ItemNotFoundMessage)
	}

	b, err := json.Marshal(item)
	if err != nil {
		logx.Error().Err(err).Str("itemID", item.ID).Msg("failed to marshal item")
		return fmt.Errorf("marshal item: %w", err)
	}
	if err := s.rdb.LSet(ctx, key, int64(idx), b).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Str("itemID", item.ID).Msg("failed to overwrite item in redis")
		return errx.WrapRedis(err)
	}
	return nil
}

// DeleteItem removes the row holding the given identifier. The raw stored
// value is located first so LREM can match it exactly.
func (s *RedisItemStore) DeleteItem(ctx context.Context, userID string, category model.Category, itemID string) error {
	key := s.listKey(userID, category)
	idx, raw, err := s.find(ctx, key, itemID)
	if err != nil {
		return err
	}
	if idx < 0 {
		return errx.New(nil, http.StatusNotFound, errx.ItemNotFoundMessage)
	}

	if err := s.rdb.LRem(ctx, key, 1, raw).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Str("itemID", itemID).Msg("failed to remove item from redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (s *RedisItemStore) ClearLists(ctx context.Context, userID string) error {
	keys := make([]string, 0, 4)
	for _, category := range model.Categories() {
		keys = append(keys, s.listKey(userID, category))
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		logx.Error().Err(err).Str("userID", userID).Msg("failed to clear lists in redis")
		return errx.WrapRedis(err)
	}
	return nil
}

// find returns the index and raw row of the item with the given ID, or -1
// when absent.
func (s *RedisItemStore) find(ctx context.Context, key, itemID string) (int, string, error) {
	rows, err := s.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return -1, "", nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to scan items in redis")
		return -1, "", errx.WrapRedis(err)
	}

	for i, row := range rows {
		var item model.Item
		if err := json.Unmarshal([]byte(row), &item); err != nil {
			logx.Warn().Err(err).Str("key", key).Int("index", i).Msg("skipping undecodable item row")
			continue
		}
		if item.ID == itemID {
			return i, row, nil
		}
	}
	return -1, "", nil
}

var _ model.ItemStore = (*RedisItemStore)(nil)
