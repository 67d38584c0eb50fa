package sessions

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisRepositoryCreateGetDelete(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	repo := NewRedisRepository(client, "test:session:")

	ctx := context.Background()
	s := &Session{
		RefreshToken: "r1",
		Sub:          "local|marie@example.com",
		Email:        "marie@example.com",
		CreatedAt:    time.Now().UTC(),
		ExpiresAt:    time.Now().UTC().Add(5 * time.Second),
	}

	require.NoError(t, repo.Create(ctx, s))

	got, err := repo.GetByRefresh(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, s.Sub, got.Sub)
	require.Equal(t, s.Email, got.Email)

	require.NoError(t, repo.DeleteByRefresh(ctx, "r1"))
	got2, err := repo.GetByRefresh(ctx, "r1")
	require.NoError(t, err)
	require.Nil(t, got2)
}

func TestRedisRepositoryTTLExpiry(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	repo := NewRedisRepository(client, "test:session:")

	ctx := context.Background()
	s := &Session{
		RefreshToken: "r2",
		Sub:          "sub-2",
		CreatedAt:    time.Now().UTC(),
		ExpiresAt:    time.Now().UTC().Add(1 * time.Second),
	}
	require.NoError(t, repo.Create(ctx, s))

	got, err := repo.GetByRefresh(ctx, "r2")
	require.NoError(t, err)
	require.NotNil(t, got)

	m.FastForward(2 * time.Second)

	got2, err := repo.GetByRefresh(ctx, "r2")
	require.NoError(t, err)
	require.Nil(t, got2)
}

func TestServiceCreateAndValidate(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	refresh, err := svc.CreateSession(ctx, "sub-1", "marie@example.com", time.Hour)
	require.NoError(t, err)
	require.Len(t, refresh, 64) // 32 random bytes, hex encoded

	sess, err := svc.ValidateRefresh(ctx, refresh)
	require.NoError(t, err)
	require.NotNil(t, sess)
	require.Equal(t, "sub-1", sess.Sub)

	require.NoError(t, svc.DeleteRefresh(ctx, refresh))
	sess, err = svc.ValidateRefresh(ctx, refresh)
	require.NoError(t, err)
	require.Nil(t, sess)
}

func TestServiceExpiredSessionInvalid(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	s := &Session{
		RefreshToken: "expired",
		Sub:          "sub-1",
		CreatedAt:    time.Now().UTC().Add(-2 * time.Hour),
		ExpiresAt:    time.Now().UTC().Add(-time.Hour),
	}
	require.NoError(t, repo.Create(ctx, s))

	sess, err := svc.ValidateRefresh(ctx, "expired")
	require.NoError(t, err)
	require.Nil(t, sess)
}
