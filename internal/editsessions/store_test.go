package editsessions

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront-configurator/internal/configurator"
	"github.com/angelmondragon/storefront-configurator/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-configurator/pkg/errors"
)

func newSession() *Session {
	p := configurator.NewProduct(enums.ProductShapeVariable)
	p.Title = "Tee"
	p.Variable.AddAxis("Size", "S, M")
	return &Session{ID: uuid.New(), Product: p}
}

func TestRedisStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	session := newSession()

	require.NoError(t, env.store.Create(ctx, session))
	assert.Equal(t, testTTL, env.mr.TTL("sfc:edit_session:"+session.ID.String()))

	loaded, err := env.store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tee", loaded.Product.Title)
	assert.Equal(t, 2, loaded.Product.Variable.Len())

	loaded.Version = 3
	require.NoError(t, env.store.Save(ctx, loaded))
	reloaded, err := env.store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.Version)

	err = env.store.Create(ctx, session)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeConflict))

	require.NoError(t, env.store.Delete(ctx, session.ID))
	_, err = env.store.Get(ctx, session.ID)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeSessionExpired))
	assert.True(t, pkgerrors.Is(env.store.Delete(ctx, session.ID), pkgerrors.CodeSessionExpired))
}

func TestRedisStoreDoesNotReviveExpiredSession(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	session := newSession()
	require.NoError(t, env.store.Create(ctx, session))

	env.mr.FastForward(testTTL + 1)

	err := env.store.Save(ctx, session)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeSessionExpired))
	assert.False(t, env.mr.Exists("sfc:edit_session:"+session.ID.String()))
}

func TestRedisStoreSaveRefreshesTTL(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	session := newSession()
	require.NoError(t, env.store.Create(ctx, session))

	env.mr.FastForward(testTTL / 2)
	require.NoError(t, env.store.Save(ctx, session))
	env.mr.FastForward(testTTL/2 + 1)

	_, err := env.store.Get(ctx, session.ID)
	assert.NoError(t, err)
}

func TestNewRedisStoreValidation(t *testing.T) {
	_, err := NewRedisStore(nil, testTTL)
	assert.Error(t, err)
}
