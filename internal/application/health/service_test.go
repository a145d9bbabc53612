package health

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pinger struct{ err error }

func (p pinger) PingContext(context.Context) error { return p.err }

func TestCollect_NoDependencies(t *testing.T) {
	r := Collect(context.Background(), nil, nil)
	assert.Equal(t, StatusIssue, r.Status)
	assert.Equal(t, "disconnected", r.Dependencies["database"].Status)
	assert.Equal(t, "disconnected", r.Dependencies["redis"].Status)
	assert.Equal(t, 0, r.Traffic.TotalRequests)
}

func TestCollect_WithMiniredis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	ctx := context.Background()

	r := Collect(ctx, rdb, pinger{})
	assert.Equal(t, StatusOK, r.Status)
	assert.Equal(t, "100", r.Traffic.SuccessRate)
	require.NotNil(t, r.Dependencies["redis"].PingMs)

	require.NoError(t, rdb.Set(ctx, "health:global:req_total", "10", 0).Err())
	require.NoError(t, rdb.Set(ctx, "health:global:req_errors", "2", 0).Err())
	require.NoError(t, rdb.Set(ctx, "health:global:res_time_total", "150.5", 0).Err())
	require.NoError(t, rdb.Set(ctx, "health:global:res_count", "10", 0).Err())
	require.NoError(t, rdb.Set(ctx, "health:global:last_request", `{"method":"GET","path":"/user/my-profile"}`, 0).Err())

	r = Collect(ctx, rdb, pinger{})
	assert.Equal(t, 10, r.Traffic.TotalRequests)
	assert.Equal(t, 8, r.Traffic.SuccessCount)
	assert.Equal(t, "80.0", r.Traffic.SuccessRate)
	assert.Equal(t, "15.05", r.Traffic.AvgResponseTime)
	assert.Equal(t, "/user/my-profile", r.Traffic.LastRequest["path"])
}

func TestCollect_DatabaseError(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	r := Collect(context.Background(), rdb, pinger{err: errors.New("down")})
	assert.Equal(t, StatusIssue, r.Status)
	assert.Equal(t, "error", r.Dependencies["database"].Status)
}
