package filter

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rushteam/seedrec/core"
	"github.com/rushteam/seedrec/domain"
	"github.com/rushteam/seedrec/pipeline"
	"github.com/rushteam/seedrec/pkg/utils"
)

// 过滤子集来源层级
const (
	TierConstraint  = "constraint"   // 组合过滤命中
	TierGenreOnly   = "genre_only"   // 仅类型过滤（tiered 回退第二级）
	TierPopular     = "popular"      // 热度 TopN（tiered 回退第三级）
	TierFullCatalog = "full_catalog" // 完整目录（full_catalog 回退）
)

// ConstraintNode 按情绪 / 年代 / 类型收窄目录，并在结果为空时按领域策略回退。
//
// 过滤规则：
//   - 类型别名映射到规范标签，与情绪映射的标签取并集，物品标签与之有交集即保留
//   - movie / anime：年代映射到 [start, end) 年份区间，无年份的物品被排除
//   - book：年代映射到代理标签集合，作为第二个独立的 OR 标签过滤，与类型过滤取 AND
//   - 可选的 CEL 表达式与上述条件取 AND
//
// 回退规则（组合过滤结果为空且目录非空时）：
//   - tiered：同时设置了年代与目标标签时，先尝试仅类型过滤，行数 >= GenreOnlyMin 才接受；
//     否则取完整目录热度最高的 PopularTop 行
//   - full_catalog：直接使用完整目录
//
// 输出子集会重新编号（Row），并写入 rctx.Frame.Subset，后续所有节点只读这一份子集。
type ConstraintNode struct {
	Descriptor *domain.Descriptor
	Logger     zerolog.Logger
}

func (n *ConstraintNode) Name() string {
	return "filter.constraint"
}

func (n *ConstraintNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *ConstraintNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Descriptor == nil {
		return nil, core.NewDomainError(core.ModuleFilter, core.ErrorCodeInternalError, "constraint filter: descriptor is nil")
	}

	criteria := rctx.Criteria
	target := n.Descriptor.TargetTags(criteria)
	genreFilter := NewTagFilter("genre", target)

	filters := []Filter{genreFilter}
	if yr, ok := n.Descriptor.EraYears(criteria.Era); ok {
		filters = append(filters, &YearRangeFilter{Range: yr})
	}
	if eraTags, ok := n.Descriptor.EraTags(criteria.Era); ok {
		filters = append(filters, NewTagFilter("era", eraTags))
	}
	if criteria.Expr != "" {
		ef, err := NewExprFilter(criteria.Expr)
		if err != nil {
			return nil, err
		}
		filters = append(filters, ef)
	}

	out := Apply(ctx, rctx, items, filters)
	tier := TierConstraint

	if len(out) == 0 && len(items) > 0 {
		out, tier = n.fallback(ctx, rctx, items, genreFilter)
		n.Logger.Warn().
			Str("mood", criteria.Mood).
			Str("era", criteria.Era).
			Str("genre", criteria.Genre).
			Strs("target_tags", genreFilter.SortedTags()).
			Str("tier", tier).
			Int("rows", len(out)).
			Msg("filters matched no rows, using broader dataset")
	}

	subset := reindex(out, tier)
	rctx.Frame.Subset = subset
	rctx.PutLabel(utils.LabelFilterTier, utils.Label{Value: tier, Source: "filter"})
	return subset, nil
}

// fallback 按领域策略返回回退子集与层级。
func (n *ConstraintNode) fallback(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
	genreFilter *TagFilter,
) ([]*core.Item, string) {
	policy := n.Descriptor.Fallback
	if policy.Strategy != domain.FallbackTiered {
		return items, TierFullCatalog
	}

	if rctx.Criteria.EraConstrained() && len(genreFilter.Tags) > 0 {
		genreOnly := Apply(ctx, rctx, items, []Filter{genreFilter})
		if len(genreOnly) >= policy.GenreOnlyMin {
			return genreOnly, TierGenreOnly
		}
	}

	return topByPopularity(items, policy.PopularTop), TierPopular
}

// topByPopularity 返回热度最高的 n 个物品（降序，热度相同保持原顺序）。
func topByPopularity(items []*core.Item, n int) []*core.Item {
	records := make([]*core.Record, len(items))
	byRecord := make(map[*core.Record]*core.Item, len(items))
	for i, it := range items {
		records[i] = it.Record
		byRecord[it.Record] = it
	}
	sorted := core.SortByPopularity(records)
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	out := make([]*core.Item, len(sorted))
	for i, r := range sorted {
		out[i] = byRecord[r]
	}
	return out
}

// reindex 为子集重新编号，Row 与子集下标一致。
func reindex(items []*core.Item, tier string) []*core.Item {
	out := make([]*core.Item, len(items))
	for i, it := range items {
		cp := it.Clone()
		cp.Row = i
		cp.PutLabel(utils.LabelFilterTier, utils.Label{Value: tier, Source: "filter"})
		out[i] = cp
	}
	return out
}
