package core

import (
	"github.com/rushteam/seedrec/pkg/utils"
	"gonum.org/v1/gonum/mat"
)

// RecommendContext 承载单次请求的输入与中间产物，贯穿整个 Pipeline 透传。
// 每个请求创建一个新的 RecommendContext，响应后即丢弃。
type RecommendContext struct {
	RequestID string

	// Criteria 是过滤条件（领域、情绪、年代、类型、表达式）
	Criteria Criteria

	// Titles 是用户提供的种子标题
	Titles []string

	// Limit 是期望返回的结果数 N
	Limit int

	// Catalog 是该领域未经过滤的完整目录（只读，进程级共享）
	Catalog *Catalog

	// Frame 保存请求级中间产物，由各节点依次填充
	Frame *Frame

	// Labels 是请求级标签，例如过滤回退层级、冷启动标记
	Labels map[string]utils.Label
}

// Frame 是单次请求的中间产物容器。
//
// Subset 由过滤节点写入且只写入一次，之后特征、降维、索引、召回节点都读取同一个切片；
// 任何节点都不能重排或替换它，否则行号对齐会被破坏。
type Frame struct {
	Subset   []*Item
	Features *mat.Dense
	Latent   *mat.Dense
	Index    NeighborIndex

	// Vocabulary 是本次请求构建的标签词表（已排序，小写）
	Vocabulary []string
}

// NewRecommendContext 创建请求上下文。
func NewRecommendContext(requestID string, criteria Criteria, titles []string, limit int, catalog *Catalog) *RecommendContext {
	return &RecommendContext{
		RequestID: requestID,
		Criteria:  criteria,
		Titles:    titles,
		Limit:     limit,
		Catalog:   catalog,
		Frame:     &Frame{},
		Labels:    make(map[string]utils.Label),
	}
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
