package cachesessionrepo

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"cloudstorage/internal/cache/memory"
	"cloudstorage/internal/models"
	cacherepo "cloudstorage/internal/repositories/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCache struct {
	mock.Mock
}

type mockResponse[T any] struct {
	val T
	err error
}

func (m *mockCache) Get(ctx context.Context, key string) cacherepo.CacheResponse[string] {
	args := m.Called(ctx, key)
	return args.Get(0).(cacherepo.CacheResponse[string])
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) cacherepo.CacheResponse[string] {
	args := m.Called(ctx, key, value, expiration)
	return args.Get(0).(cacherepo.CacheResponse[string])
}

func (m *mockCache) Del(ctx context.Context, keys ...string) cacherepo.CacheResponse[int64] {
	args := m.Called(ctx, keys)
	return args.Get(0).(cacherepo.CacheResponse[int64])
}

func (r *mockResponse[T]) Err() error {
	return r.err
}

func (r *mockResponse[T]) Result() (T, error) {
	return r.val, r.err
}

var fixedNow = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func newRepo(c cacherepo.Cache) *repository {
	repo := New(c)
	repo.now = func() time.Time { return fixedNow }
	return repo
}

func TestSaveSession_Success(t *testing.T) {
	t.Parallel()

	session := models.Session{UserID: "u1", Login: "alice", ExpiresAt: fixedNow.Add(time.Hour)}
	raw, _ := json.Marshal(session)

	mockCache := new(mockCache)
	mockCache.On("Set", mock.Anything, "token123", string(raw), time.Hour).
		Return(&mockResponse[string]{val: "OK"})

	err := newRepo(mockCache).SaveSession(context.Background(), "token123", session)
	assert.NoError(t, err)
	mockCache.AssertExpectations(t)
}

func TestSaveSession_AlreadyExpired(t *testing.T) {
	t.Parallel()

	mockCache := new(mockCache)

	err := newRepo(mockCache).SaveSession(context.Background(), "token123",
		models.Session{Login: "alice", ExpiresAt: fixedNow.Add(-time.Second)})
	assert.ErrorIs(t, err, errSessionExpired)
	mockCache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveSession_CacheError(t *testing.T) {
	t.Parallel()

	mockCache := new(mockCache)
	mockCache.On("Set", mock.Anything, "token123", mock.Anything, time.Hour).
		Return(&mockResponse[string]{err: errors.New("connection error")})

	err := newRepo(mockCache).SaveSession(context.Background(), "token123",
		models.Session{Login: "alice", ExpiresAt: fixedNow.Add(time.Hour)})
	assert.ErrorContains(t, err, "SaveSession")
}

func TestDeleteSession_Success(t *testing.T) {
	t.Parallel()

	mockCache := new(mockCache)
	mockCache.On("Del", mock.Anything, []string{"token123"}).
		Return(&mockResponse[int64]{val: 1})

	err := newRepo(mockCache).DeleteSession(context.Background(), "token123")
	assert.NoError(t, err)
}

func TestSessionByToken_Success(t *testing.T) {
	t.Parallel()

	session := models.Session{UserID: "u1", Login: "alice", ExpiresAt: fixedNow.Add(time.Hour)}
	raw, _ := json.Marshal(session)

	mockCache := new(mockCache)
	mockCache.On("Get", mock.Anything, "token123").
		Return(&mockResponse[string]{val: string(raw)})

	result, err := newRepo(mockCache).SessionByToken(context.Background(), "token123")
	require.NoError(t, err)
	assert.Equal(t, "u1", result.UserID)
	assert.Equal(t, "alice", result.Login)
	assert.True(t, session.ExpiresAt.Equal(result.ExpiresAt))
}

func TestSessionByToken_NotFound(t *testing.T) {
	t.Parallel()

	mockCache := new(mockCache)
	mockCache.On("Get", mock.Anything, "invalid").
		Return(&mockResponse[string]{val: ""})

	result, err := newRepo(mockCache).SessionByToken(context.Background(), "invalid")
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
	assert.Nil(t, result)
}

func TestSessionByToken_Error(t *testing.T) {
	t.Parallel()

	mockCache := new(mockCache)
	mockCache.On("Get", mock.Anything, "error-token").
		Return(&mockResponse[string]{err: errors.New("connection error")})

	result, err := newRepo(mockCache).SessionByToken(context.Background(), "error-token")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrSessionNotFound)
	assert.Nil(t, result)
}

func TestSessionByToken_CorruptEntry(t *testing.T) {
	t.Parallel()

	mockCache := new(mockCache)
	mockCache.On("Get", mock.Anything, "token123").
		Return(&mockResponse[string]{val: "{not json"})

	result, err := newRepo(mockCache).SessionByToken(context.Background(), "token123")
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestRegistryLifecycle_InMemory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := New(memory.New())

	session := models.Session{UserID: "u1", Login: "alice", ExpiresAt: time.Now().Add(time.Hour)}

	require.NoError(t, repo.SaveSession(ctx, "t1", session))
	require.NoError(t, repo.SaveSession(ctx, "t2", session))

	got, err := repo.SessionByToken(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Login)

	require.NoError(t, repo.DeleteSession(ctx, "t1"))
	require.NoError(t, repo.DeleteSession(ctx, "t1"))

	_, err = repo.SessionByToken(ctx, "t1")
	assert.ErrorIs(t, err, models.ErrSessionNotFound)

	got, err = repo.SessionByToken(ctx, "t2")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
}
