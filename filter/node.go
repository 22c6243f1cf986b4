package filter

import (
	"context"

	"github.com/rushteam/seedrec/core"
	"github.com/rushteam/seedrec/pipeline"
)

// FilterNode 是过滤 Node，可以组合多个过滤器进行过滤。
// 如果任何一个过滤器返回 true，该物品就会被过滤掉；输出保持输入顺序。
//
// FilterNode 只能放在 filter.constraint 之前，用于预先收窄目录；
// 子集一旦写入 Frame，再删减物品会破坏行号对齐。
type FilterNode struct {
	Filters []Filter
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if rctx.Frame != nil && rctx.Frame.Subset != nil {
		return nil, core.NewDomainError(core.ModuleFilter, core.ErrorCodeInternalError,
			"filter.node: must run before the subset is built")
	}
	return Apply(ctx, rctx, items, n.Filters), nil
}

// Apply 依次用 filters 检查每个物品，返回保留下来的物品（顺序不变）。
// 过滤器返回错误时视为不过滤，不中断流程。
func Apply(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
	filters []Filter,
) []*core.Item {
	if len(filters) == 0 || len(items) == 0 {
		return items
	}

	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}

		shouldFilter := false
		for _, f := range filters {
			ok, err := f.ShouldFilter(ctx, rctx, item)
			if err != nil {
				continue
			}
			if ok {
				shouldFilter = true
				break
			}
		}
		if shouldFilter {
			continue
		}
		out = append(out, item)
	}
	return out
}
