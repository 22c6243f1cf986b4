package feature

import (
	"context"

	"github.com/rushteam/seedrec/core"
	"github.com/rushteam/seedrec/logging"
	"github.com/rushteam/seedrec/model"
	"github.com/rushteam/seedrec/pipeline"
)

// ReduceNode 把特征矩阵降维为隐向量矩阵，写入 rctx.Frame.Latent。
type ReduceNode struct {
	// MaxComponents 最大分量数，<= 0 时使用 model.DefaultMaxComponents
	MaxComponents int
}

func (n *ReduceNode) Name() string {
	return "feature.reduce"
}

func (n *ReduceNode) Kind() pipeline.Kind {
	return pipeline.KindFeature
}

func (n *ReduceNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}
	if rctx.Frame.Features == nil {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInternalError,
			"feature reduce: feature matrix is missing")
	}

	svd := model.NewTruncatedSVD(n.MaxComponents)
	rctx.Frame.Latent = svd.FitTransform(rctx.Frame.Features)
	if !svd.Converged {
		logging.Ctx(ctx).Warn().
			Int("rows", len(items)).
			Msg("svd did not converge, using feature projection")
	}
	if rctx.Frame.Latent == nil {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInternalError,
			"feature reduce: empty latent matrix")
	}
	return items, nil
}
