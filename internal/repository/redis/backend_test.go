package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/rueidis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/quantum-mirror/internal/model"
)

func setupTest(t *testing.T) (*Backend, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)

	b := New(client, "qm:")
	t.Cleanup(func() {
		_ = b.Close()
		mr.Close()
	})
	return b, mr
}

func TestBackend_LoadSaveDelete(t *testing.T) {
	ctx := context.Background()
	b, mr := setupTest(t)

	_, err := b.Load(ctx, "achievements")
	assert.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, b.Save(ctx, "achievements", []byte(`{"firstStep":true}`)))

	stored, err := mr.Get("qm:achievements")
	require.NoError(t, err)
	assert.Equal(t, `{"firstStep":true}`, stored)

	got, err := b.Load(ctx, "achievements")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"firstStep":true}`), got)

	require.NoError(t, b.Delete(ctx, "achievements"))
	require.NoError(t, b.Delete(ctx, "achievements"))
	assert.False(t, mr.Exists("qm:achievements"))

	_, err = b.Load(ctx, "achievements")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestBackend_PrefixIsolation(t *testing.T) {
	ctx := context.Background()
	b, mr := setupTest(t)
	require.NoError(t, mr.Set("other:theme", `"light"`))

	_, err := b.Load(ctx, "theme")
	assert.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, b.Save(ctx, "theme", []byte(`"dark"`)))
	other, err := mr.Get("other:theme")
	require.NoError(t, err)
	assert.Equal(t, `"light"`, other)
}
