package rediscluster

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"cotask/debug"
)

// ClusterFixture manages a Redis Cluster client for tests, mirroring
// RedisClusterClientTest's SetUpTestSuite/TearDownTestSuite/SetUp lifecycle:
// connect once, verify the cluster is reachable, and flush every shard
// between tests so they don't see each other's keys.
type ClusterFixture struct {
	addrs  []string
	client *redis.ClusterClient
}

// NewClusterFixture builds a fixture that will connect to the given seed
// addresses when SetUp is called.
func NewClusterFixture(addrs []string) *ClusterFixture {
	return &ClusterFixture{addrs: addrs}
}

// SetUp connects to the cluster and verifies it responds, the equivalent of
// RedisClusterClientTest::SetUpTestSuite's version probe via "info server".
func (f *ClusterFixture) SetUp(ctx context.Context) error {
	f.client = redis.NewClusterClient(&redis.ClusterOptions{
		Addrs: f.addrs,
	})
	if err := f.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("rediscluster: ping failed: %w", err)
	}
	debug.DPrintf(debug.REDISCLUSTER, "connected to %d seed node(s)", len(f.addrs))
	return nil
}

// Client returns the underlying cluster client, the GetClient() analogue.
func (f *ClusterFixture) Client() *redis.ClusterClient {
	return f.client
}

// FlushAll flushes every shard in the cluster, the per-test "flushdb per
// shard" step RedisClusterClientTest runs in SetUp.
func (f *ClusterFixture) FlushAll(ctx context.Context) error {
	return f.client.ForEachMaster(ctx, func(ctx context.Context, shard *redis.Client) error {
		return shard.FlushDB(ctx).Err()
	})
}

// TearDown closes the cluster client, the TearDownTestSuite analogue.
func (f *ClusterFixture) TearDown() error {
	if f.client == nil {
		return nil
	}
	return f.client.Close()
}
