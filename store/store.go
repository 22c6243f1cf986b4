package store

// 注意：此包只包含实现，接口定义在 core 包。
// 使用 core.Store 和 core.KeyValueStore 接口。
//
// 示例：
//   var kv core.KeyValueStore = NewMemoryStore()
//   catalogs := NewCatalogStore(registry, kv, opts, logger)
//   err := catalogs.LoadAll(ctx)

import (
	"fmt"

	"github.com/rushteam/seedrec/core"
)

// 存储后端名称
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Options 描述 KeyValueStore 后端。
type Options struct {
	Backend   string
	RedisAddr string
	RedisPass string
	RedisDB   int
	KeyPrefix string
}

// New 按配置创建 KeyValueStore。
func New(opts Options) (core.KeyValueStore, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendRedis:
		return NewRedisStore(RedisOptions{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPass,
			DB:       opts.RedisDB,
			Prefix:   opts.KeyPrefix,
		})
	default:
		return nil, fmt.Errorf("store: unknown backend %q", opts.Backend)
	}
}
