package vector

import (
	"context"

	"github.com/rushteam/seedrec/core"
	"github.com/rushteam/seedrec/pipeline"
)

// IndexNode 基于 rctx.Frame.Latent 构建近邻索引并写入 rctx.Frame.Index。
type IndexNode struct{}

func (n *IndexNode) Name() string {
	return "vector.index"
}

func (n *IndexNode) Kind() pipeline.Kind {
	return pipeline.KindIndex
}

func (n *IndexNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}
	if rctx.Frame.Latent == nil {
		return nil, core.NewDomainError(core.ModuleVector, core.ErrorCodeInternalError, "vector index: latent matrix is missing")
	}
	rctx.Frame.Index = NewCosineIndex(rctx.Frame.Latent)
	return items, nil
}
