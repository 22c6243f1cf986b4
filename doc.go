// Package seedrec 是一个基于种子标题的相似推荐服务（书籍 / 动画 / 影视）。
//
// 设计要点：
// - Pipeline-first: 单次请求按 Node 串联（Filter → Feature → Reduce → Index → Recall → ReRank）
// - Descriptor-first: 领域差异收敛在 domain.Descriptor，链路代码不按领域分支
// - Labels-first: 过滤回退层级、冷启动、召回来源通过 labels 透传，便于观测与解释
package seedrec

import "github.com/rushteam/seedrec/pipeline"

// 轻量 facade：便于直接 import "seedrec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindFilter  = pipeline.KindFilter
	KindFeature = pipeline.KindFeature
	KindIndex   = pipeline.KindIndex
	KindRecall  = pipeline.KindRecall
	KindReRank  = pipeline.KindReRank
)
