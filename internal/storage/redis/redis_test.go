package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gea/studyabroad/internal/checklist"
	"github.com/gea/studyabroad/internal/models"
	"github.com/gea/studyabroad/internal/storage"
)

var testNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	store := NewWithClient(client, "")
	store.now = func() time.Time { return testNow }
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func TestNew_PingsServer(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := New(context.Background(), Config{Address: mr.Addr(), KeyPrefix: "test:"})
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.CreateProgress(context.Background(), checklist.New("u1", "Asha", testNow)))
	assert.True(t, mr.Exists("test:u1"))
}

func TestNew_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := New(context.Background(), Config{Address: addr})
	assert.Error(t, err)
}

func TestCreateAndGet(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	p := checklist.New("u1", "Asha", testNow)
	require.NoError(t, store.CreateProgress(ctx, p))
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, int64(1), p.Version)
	assert.True(t, mr.Exists(DefaultKeyPrefix+"u1"))

	got, err := store.GetProgress(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "Asha", got.UserName)
	assert.Equal(t, 52, got.Stages.GS.Total)
	assert.Equal(t, models.StageOffer, got.CurrentStage)
	assert.True(t, got.CreatedAt.Equal(testNow))
}

func TestCreate_Duplicate(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateProgress(ctx, checklist.New("u1", "Asha", testNow)))
	err := store.CreateProgress(ctx, checklist.New("u1", "Other", testNow))
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	got, err := store.GetProgress(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Asha", got.UserName)
}

func TestGet_NotFound(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.GetProgress(context.Background(), "nobody")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGet_CorruptValue(t *testing.T) {
	store, mr := newTestStore(t)
	require.NoError(t, mr.Set(DefaultKeyPrefix+"u1", "{not json"))

	_, err := store.GetProgress(context.Background(), "u1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrNotFound)
}

func TestSave(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	p := checklist.New("u1", "Asha", testNow)
	require.NoError(t, store.CreateProgress(ctx, p))
	createdID := p.ID

	require.NoError(t, checklist.SetChecked(p.Stages.Offer.Items, []string{"cv"}, true))
	checklist.Recalculate(p, testNow)
	p.ID = "ignored"
	require.NoError(t, store.SaveProgress(ctx, p))
	assert.Equal(t, int64(2), p.Version)
	assert.Equal(t, createdID, p.ID)

	got, err := store.GetProgress(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Version)
	assert.Equal(t, 1, got.Stages.Offer.Completed)
	assert.Equal(t, 33, got.Stages.Offer.Percentage)
}

func TestSave_StaleVersion(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	p := checklist.New("u1", "Asha", testNow)
	require.NoError(t, store.CreateProgress(ctx, p))

	first, err := store.GetProgress(ctx, "u1")
	require.NoError(t, err)
	second, err := store.GetProgress(ctx, "u1")
	require.NoError(t, err)

	require.NoError(t, store.SaveProgress(ctx, first))
	err = store.SaveProgress(ctx, second)
	assert.ErrorIs(t, err, storage.ErrConflict)
	assert.Equal(t, int64(1), second.Version)
}

func TestSave_NotFound(t *testing.T) {
	store, _ := newTestStore(t)
	p := checklist.New("ghost", "Ghost", testNow)
	err := store.SaveProgress(context.Background(), p)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGet_MalformedItemsCountAsZero(t *testing.T) {
	store, mr := newTestStore(t)
	doc := `{"id":"x","userId":"u1","userName":"Asha","version":1,"currentStage":"offer",` +
		`"stages":{"offer":{"items":"oops","completed":2,"total":4,"percentage":50},` +
		`"gs":{"items":[{"id":"a","label":"A"}],"completed":0,"total":1,"percentage":0}}}`
	require.NoError(t, mr.Set(DefaultKeyPrefix+"u1", doc))

	got, err := store.GetProgress(context.Background(), "u1")
	require.NoError(t, err)

	assert.Empty(t, got.Stages.Offer.Items)
	assert.Equal(t, models.Stage{}, got.Stages.Offer)
	assert.Len(t, got.Stages.GS.Items, 1)
	assert.Equal(t, 1, got.Stages.GS.Total)
	assert.Equal(t, int64(1), got.Version)
}
