package repo

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errx "github.com/lista-compras/server/internal/core/error"
	"github.com/lista-compras/server/internal/list/model"
)

// fakeRedis backs the handful of list commands the store issues with an
// in-memory map. The embedded Cmdable panics on anything unexpected, which
// is exactly what a test wants.
type fakeRedis struct {
	redis.Cmdable
	lists map[string][]string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{lists: make(map[string][]string)}
}

func row(v interface{}) string {
	switch b := v.(type) {
	case []byte:
		return string(b)
	case string:
		return b
	default:
		return fmt.Sprint(v)
	}
}

func (f *fakeRedis) LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd {
	// the store only ever asks for the full list
	rows := f.lists[key]
	out := make([]string, len(rows))
	copy(out, rows)
	return redis.NewStringSliceResult(out, nil)
}

func (f *fakeRedis) RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	for _, v := range values {
		f.lists[key] = append(f.lists[key], row(v))
	}
	return redis.NewIntResult(int64(len(f.lists[key])), nil)
}

func (f *fakeRedis) LRem(ctx context.Context, key string, count int64, value interface{}) *redis.IntCmd {
	target := row(value)
	var removed int64
	kept := make([]string, 0, len(f.lists[key]))
	for _, r := range f.lists[key] {
		if removed < count && r == target {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	f.lists[key] = kept
	return redis.NewIntResult(removed, nil)
}

func (f *fakeRedis) LSet(ctx context.Context, key string, index int64, value interface{}) *redis.StatusCmd {
	rows := f.lists[key]
	if index < 0 || index >= int64(len(rows)) {
		return redis.NewStatusResult("", fmt.Errorf("ERR index out of range"))
	}
	rows[index] = row(value)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var deleted int64
	for _, key := range keys {
		if _, ok := f.lists[key]; ok {
			delete(f.lists, key)
			deleted++
		}
	}
	return redis.NewIntResult(deleted, nil)
}

func intPtr(n int) *int {
	return &n
}

func requireNotFound(t *testing.T, err error) {
	t.Helper()
	var appErr *errx.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Equal(t, errx.ItemNotFoundMessage, appErr.Message)
}

func TestRedisItemStore_AddAndListRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewRedisItemStore(newFakeRedis())

	queijo := model.Item{ID: "c1", Name: "queijo", Price: "10.00", Quantity: intPtr(2)}
	presunto := model.Item{ID: "c2", Name: "presunto", Price: "7.00"}
	require.NoError(t, store.AddItem(ctx, "u1", model.CategoryCold, queijo))
	require.NoError(t, store.AddItem(ctx, "u1", model.CategoryCold, presunto))

	items, err := store.ListByCategory(ctx, "u1", model.CategoryCold)
	require.NoError(t, err)
	assert.Equal(t, []model.Item{queijo, presunto}, items)

	// no leakage across categories or users
	others, err := store.ListByCategory(ctx, "u1", model.CategoryOthers)
	require.NoError(t, err)
	assert.Empty(t, others)
	foreign, err := store.ListByCategory(ctx, "u2", model.CategoryCold)
	require.NoError(t, err)
	assert.Empty(t, foreign)
}

func TestRedisItemStore_ListByCategory_MissingKeyIsEmpty(t *testing.T) {
	store := NewRedisItemStore(newFakeRedis())

	items, err := store.ListByCategory(context.Background(), "u1", model.CategoryCleaning)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestRedisItemStore_ListByCategory_CorruptRowFails(t *testing.T) {
	rdb := newFakeRedis()
	store := NewRedisItemStore(rdb)
	rdb.lists[store.listKey("u1", model.CategoryCold)] = []string{"{not json"}

	_, err := store.ListByCategory(context.Background(), "u1", model.CategoryCold)
	assert.Error(t, err)
}

func TestRedisItemStore_PurchasedBucketRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewRedisItemStore(newFakeRedis())

	queijo := model.Item{ID: "c1", Name: "queijo", Price: "10.00"}
	presunto := model.Item{ID: "c2", Name: "presunto", Price: "7.00"}
	require.NoError(t, store.AddPurchased(ctx, "u1", model.CategoryCold, queijo))
	require.NoError(t, store.AddPurchased(ctx, "u1", model.CategoryCold, presunto))

	bought, err := store.ListPurchased(ctx, "u1", model.CategoryCold)
	require.NoError(t, err)
	assert.Equal(t, []model.Item{queijo, presunto}, bought)

	// the bucket is separate from the category list in both directions
	items, err := store.ListByCategory(ctx, "u1", model.CategoryCold)
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, store.AddItem(ctx, "u1", model.CategoryCold, queijo))
	bought, err = store.ListPurchased(ctx, "u1", model.CategoryCold)
	require.NoError(t, err)
	assert.Len(t, bought, 2)
}

func TestRedisItemStore_DeleteItem(t *testing.T) {
	ctx := context.Background()
	store := NewRedisItemStore(newFakeRedis())

	a := model.Item{ID: "c1", Name: "queijo", Price: "10.00"}
	b := model.Item{ID: "c2", Name: "presunto", Price: "7.00"}
	c := model.Item{ID: "c3", Name: "iogurte", Price: "4.50"}
	for _, item := range []model.Item{a, b, c} {
		require.NoError(t, store.AddItem(ctx, "u1", model.CategoryCold, item))
	}

	require.NoError(t, store.DeleteItem(ctx, "u1", model.CategoryCold, "c2"))

	items, err := store.ListByCategory(ctx, "u1", model.CategoryCold)
	require.NoError(t, err)
	assert.Equal(t, []model.Item{a, c}, items)
}

func TestRedisItemStore_DeleteItem_AbsentID(t *testing.T) {
	ctx := context.Background()
	store := NewRedisItemStore(newFakeRedis())

	a := model.Item{ID: "c1", Name: "queijo", Price: "10.00"}
	require.NoError(t, store.AddItem(ctx, "u1", model.CategoryCold, a))

	requireNotFound(t, store.DeleteItem(ctx, "u1", model.CategoryCold, "missing"))
	requireNotFound(t, store.DeleteItem(ctx, "u1", model.CategoryOthers, "c1"))

	// list is untouched after the failed deletes
	items, err := store.ListByCategory(ctx, "u1", model.CategoryCold)
	require.NoError(t, err)
	assert.Equal(t, []model.Item{a}, items)
}

func TestRedisItemStore_DeleteItem_SkipsUndecodableRows(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	store := NewRedisItemStore(rdb)
	key := store.listKey("u1", model.CategoryCold)

	rdb.lists[key] = []string{"{not json"}
	a := model.Item{ID: "c1", Name: "queijo", Price: "10.00"}
	require.NoError(t, store.AddItem(ctx, "u1", model.CategoryCold, a))

	require.NoError(t, store.DeleteItem(ctx, "u1", model.CategoryCold, "c1"))

	// the garbage row is skipped, not matched or removed
	assert.Equal(t, []string{"{not json"}, rdb.lists[key])
}

func TestRedisItemStore_UpdateItem(t *testing.T) {
	ctx := context.Background()
	store := NewRedisItemStore(newFakeRedis())

	a := model.Item{ID: "c1", Name: "queijo", Price: "10.00"}
	b := model.Item{ID: "c2", Name: "presunto", Price: "7.00"}
	require.NoError(t, store.AddItem(ctx, "u1", model.CategoryCold, a))
	require.NoError(t, store.AddItem(ctx, "u1", model.CategoryCold, b))

	edited := model.Item{ID: "c2", Name: "presunto fatiado", Price: "8.50", Quantity: intPtr(3)}
	require.NoError(t, store.UpdateItem(ctx, "u1", model.CategoryCold, edited))

	items, err := store.ListByCategory(ctx, "u1", model.CategoryCold)
	require.NoError(t, err)
	assert.Equal(t, []model.Item{a, edited}, items)

	requireNotFound(t, store.UpdateItem(ctx, "u1", model.CategoryCold, model.Item{ID: "missing"}))
}

func TestRedisItemStore_ClearLists(t *testing.T) {
	ctx := context.Background()
	store := NewRedisItemStore(newFakeRedis())

	item := model.Item{ID: "x", Name: "algo", Price: "1.00"}
	for _, category := range model.Categories() {
		require.NoError(t, store.AddItem(ctx, "u1", category, item))
		require.NoError(t, store.AddItem(ctx, "u2", category, item))
	}
	require.NoError(t, store.AddPurchased(ctx, "u1", model.CategoryCold, item))

	require.NoError(t, store.ClearLists(ctx, "u1"))

	for _, category := range model.Categories() {
		items, err := store.ListByCategory(ctx, "u1", category)
		require.NoError(t, err)
		assert.Empty(t, items, "category %s should be empty", category)

		kept, err := store.ListByCategory(ctx, "u2", category)
		require.NoError(t, err)
		assert.Len(t, kept, 1, "other users' lists must survive")
	}

	// the purchased bucket is not part of the clear
	bought, err := store.ListPurchased(ctx, "u1", model.CategoryCold)
	require.NoError(t, err)
	assert.Len(t, bought, 1)
}
