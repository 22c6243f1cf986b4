package core

import "context"

// NeighborIndex 是近邻检索的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（vector）实现
//   - 索引按请求构建，只在单次请求内存在
//   - 结果使用行号（Row）标识，与过滤子集的行顺序一致
//
// 注意：
//   - 种子自身不会从索引中剔除，调用方需要多取（N + 种子数）后再过滤
//   - TopK 大于索引行数时返回全部行
type NeighborIndex interface {
	// Search 向量搜索，结果按距离升序
	Search(ctx context.Context, req *VectorSearchRequest) (*VectorSearchResult, error)

	// Len 返回索引中的行数
	Len() int
}

// VectorSearchRequest 向量搜索请求
type VectorSearchRequest struct {
	// Vector 查询向量
	Vector []float64

	// TopK 返回 TopK 个最近邻
	TopK int

	// Metric 距离度量方式，目前只支持 cosine
	Metric string
}

// VectorSearchItem 单个向量搜索结果项
type VectorSearchItem struct {
	// Row 结果在索引中的行号
	Row int

	// Distance 距离（cosine 距离 = 1 - 余弦相似度）
	Distance float64
}

// VectorSearchResult 向量搜索结果
type VectorSearchResult struct {
	// Items 搜索结果项列表（按距离升序）
	Items []VectorSearchItem
}

// ValidateVectorMetric 验证距离度量类型
func ValidateVectorMetric(metric string) bool {
	switch MetricType(metric) {
	case "", MetricCosine:
		return true
	default:
		return false
	}
}

// MetricType 距离度量类型
type MetricType string

const (
	MetricCosine MetricType = "cosine"
)
