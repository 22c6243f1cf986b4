package core

import "context"

// Store 是键值存储的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 遵循依赖倒置原则：领域层定义接口，基础设施层实现接口
//
// 使用场景：
//   - 目录加载信息（来源、行数、加载时间），供健康检查读取
//   - 热度排行（见 KeyValueStore），供冷启动召回读取
//
// 实现：
//   - store.MemoryStore 实现此接口（默认）
//   - store.RedisStore 实现此接口（多实例共享排行时使用）
type Store interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// Get 读取单个 key 的值
	Get(ctx context.Context, key string) ([]byte, error)

	// Set 写入单个 key-value，ttl 单位为秒，0 表示不过期
	Set(ctx context.Context, key string, value []byte, ttl ...int) error

	// Delete 删除单个 key
	Delete(ctx context.Context, key string) error

	// Close 关闭连接/释放资源
	Close() error
}

// ScoredMember 是有序集合中的一个成员。
type ScoredMember struct {
	Member string
	Score  float64
}

// KeyValueStore 是 Store 的扩展接口，支持有序集合。
//
// 有序集合用于保存每个领域的热度排行：member 为物品 id，score 为热度。
// 如果后端不支持某些操作，可返回 ErrStoreNotSupported。
type KeyValueStore interface {
	Store

	// ZAdd 批量写入有序集合成员
	ZAdd(ctx context.Context, key string, members ...ScoredMember) error

	// ZRange 按分数降序获取 [start, stop] 区间的成员（与 Redis ZREVRANGE 语义一致）
	ZRange(ctx context.Context, key string, start, stop int64) ([]string, error)

	// ZCard 返回有序集合的成员数
	ZCard(ctx context.Context, key string) (int64, error)
}

// Store 错误定义（使用统一的 DomainError）
var (
	// ErrStoreNotFound 表示 key 不存在
	ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: key not found")

	// ErrStoreNotSupported 表示操作不支持
	ErrStoreNotSupported = NewDomainError(ModuleStore, ErrorCodeNotSupported, "store: operation not supported")
)

// IsStoreNotFound 检查错误是否为 key 不存在
func IsStoreNotFound(err error) bool {
	domainErr := GetDomainError(err)
	return domainErr != nil && domainErr.Module == ModuleStore && domainErr.Code == ErrorCodeNotFound
}

// PopularKey 返回领域热度排行（有序集合）的 key。
func PopularKey(d Domain) string {
	return "popular:" + string(d)
}

// CatalogInfoKey 返回领域目录加载信息的 key。
func CatalogInfoKey(d Domain) string {
	return "catalog:" + string(d) + ":info"
}
