package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polkiloo/ashconsole/internal/domain/model"
	testhelpers "github.com/polkiloo/ashconsole/internal/test"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewStoreRestoresPersistedPair(t *testing.T) {
	repo := &testhelpers.TokenRepositoryStub{Pair: model.TokenPair{AccessToken: "a", RefreshToken: "r"}}
	store, err := NewStore(context.Background(), repo, testLogger())
	require.NoError(t, err)

	assert.True(t, store.Authenticated())
	assert.Equal(t, "a", store.AccessToken())
	assert.Equal(t, "r", store.Tokens().RefreshToken)
}

func TestNewStorePropagatesLoadError(t *testing.T) {
	repo := &testhelpers.TokenRepositoryStub{LoadErr: errors.New("disk gone")}
	_, err := NewStore(context.Background(), repo, testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "restore session")
}

func TestSetPersistsAndNotifies(t *testing.T) {
	repo := &testhelpers.TokenRepositoryStub{}
	store, err := NewStore(context.Background(), repo, testLogger())
	require.NoError(t, err)

	var seen []model.TokenPair
	unsubscribe := store.Subscribe(func(p model.TokenPair) { seen = append(seen, p) })

	pair := model.TokenPair{AccessToken: "a1", RefreshToken: "r1"}
	require.NoError(t, store.Set(context.Background(), pair))
	assert.Equal(t, pair, repo.Stored())
	assert.Equal(t, []model.TokenPair{pair}, seen)

	unsubscribe()
	require.NoError(t, store.Set(context.Background(), model.TokenPair{AccessToken: "a2"}))
	assert.Len(t, seen, 1, "unsubscribed listener must not be called")
}

func TestSetKeepsPreviousPairWhenPersistFails(t *testing.T) {
	repo := &testhelpers.TokenRepositoryStub{Pair: model.TokenPair{AccessToken: "old"}}
	store, err := NewStore(context.Background(), repo, testLogger())
	require.NoError(t, err)

	repo.SaveErr = errors.New("read-only")
	err = store.Set(context.Background(), model.TokenPair{AccessToken: "new"})
	require.Error(t, err)
	assert.Equal(t, "old", store.AccessToken())
}

func TestClearIsIdempotent(t *testing.T) {
	repo := &testhelpers.TokenRepositoryStub{Pair: model.TokenPair{AccessToken: "a", RefreshToken: "r"}}
	store, err := NewStore(context.Background(), repo, testLogger())
	require.NoError(t, err)

	notifications := 0
	store.Subscribe(func(model.TokenPair) { notifications++ })

	require.NoError(t, store.Clear(context.Background()))
	require.NoError(t, store.Clear(context.Background()))

	assert.False(t, store.Authenticated())
	assert.True(t, store.Tokens().Empty())
	assert.True(t, repo.Stored().Empty())
	assert.Equal(t, 1, notifications, "only the first clear changes the session")
}

func TestClearDropsMemoryEvenWhenPersistenceFails(t *testing.T) {
	repo := &testhelpers.TokenRepositoryStub{Pair: model.TokenPair{AccessToken: "a"}}
	store, err := NewStore(context.Background(), repo, testLogger())
	require.NoError(t, err)

	repo.ClearErr = errors.New("locked")
	require.Error(t, store.Clear(context.Background()))
	assert.False(t, store.Authenticated())
}

func TestInfoReadsExpiryFromAccessToken(t *testing.T) {
	exp := time.Date(2026, 10, 15, 18, 0, 0, 0, time.UTC)
	repo := &testhelpers.TokenRepositoryStub{Pair: model.TokenPair{AccessToken: testhelpers.SignedToken("admin", exp)}}
	store, err := NewStore(context.Background(), repo, testLogger())
	require.NoError(t, err)

	info := store.Info()
	assert.True(t, info.Authenticated)
	require.NotNil(t, info.ExpiresAt)
	assert.True(t, info.ExpiresAt.Equal(exp))

	require.NoError(t, store.Set(context.Background(), model.TokenPair{AccessToken: "opaque"}))
	info = store.Info()
	assert.True(t, info.Authenticated)
	assert.Nil(t, info.ExpiresAt)

	require.NoError(t, store.Clear(context.Background()))
	assert.Equal(t, model.SessionInfo{}, store.Info())
}

func TestRedirectorConsumesExpiredMarkOnce(t *testing.T) {
	r := NewRedirector(testLogger())
	assert.False(t, r.ConsumeExpired())

	r.ToLogin(context.Background())
	assert.True(t, r.ConsumeExpired())
	assert.False(t, r.ConsumeExpired())
}
