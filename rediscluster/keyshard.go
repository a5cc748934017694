// Package rediscluster provides a key-to-shard hash and a test fixture for
// exercising a Redis Cluster deployment, grounded on the userver
// RedisClusterClientTest fixture and the teacher's own key2shard/key2server
// FNV-1a hashing in cacheclnt and cachedsvcclnt.
package rediscluster

import "hash/fnv"

// KeyShard hashes key into one of nshard shards with FNV-1a, the same
// hashing scheme the teacher's cacheclnt.key2shard uses for its in-memory
// shard table.
func KeyShard(key string, nshard int) int {
	if nshard <= 0 {
		return 0
	}
	h := fnv.New32a()
	h.Write([]byte(key))
	return int(h.Sum32()) % nshard
}
