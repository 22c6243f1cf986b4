package pipeline

import (
	"context"

	"github.com/rushteam/seedrec/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindFilter  Kind = "filter"  // 过滤阶段：按情绪/年代/类型收窄目录
	KindFeature Kind = "feature" // 特征阶段：构建特征矩阵、降维
	KindIndex   Kind = "index"   // 索引阶段：基于隐向量构建近邻索引
	KindRecall  Kind = "recall"  // 召回阶段：种子匹配 + 近邻检索 / 冷启动
	KindReRank  Kind = "rerank"  // 重排阶段：截断等
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用“输入 items -> 输出 items”的形态：过滤节点输出子集，特征/索引节点原样透传子集
// 并把中间产物写入 rctx.Frame，召回节点输出最终候选。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		items []*core.Item,
	) ([]*core.Item, error)
}

// NodeBuilder 根据配置构建 Node。
type NodeBuilder func(config map[string]interface{}) (Node, error)
