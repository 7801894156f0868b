package repository

import (
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"expense_tracker/internal/models"
)

func TestSessionRedis_Lifecycle(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	require.NoError(t, client.Ping(ctx(t)).Err())

	repo := NewSessionRedis(client, "test:session:")
	token := uuid.NewString()
	exp := time.Now().UTC().Add(time.Minute)

	require.NoError(t, repo.Create(ctx(t), models.Session{Token: token, UserID: 9, ExpiresAt: exp}))

	got, err := repo.Get(ctx(t), token)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, int64(9), got.UserID)

	ttl, err := client.TTL(ctx(t), "test:session:"+token).Result()
	require.NoError(t, err)
	require.True(t, ttl > 0 && ttl <= time.Minute)

	require.NoError(t, repo.Renew(ctx(t), token, exp.Add(time.Hour)))
	got, err = repo.Get(ctx(t), token)
	require.NoError(t, err)
	require.WithinDuration(t, exp.Add(time.Hour), got.ExpiresAt, time.Second)

	require.NoError(t, repo.Delete(ctx(t), token))
	got, err = repo.Get(ctx(t), token)
	require.NoError(t, err)
	require.Nil(t, got)
}
