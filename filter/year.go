package filter

import (
	"context"

	"github.com/rushteam/seedrec/core"
	"github.com/rushteam/seedrec/domain"
)

// YearRangeFilter 保留发行年份落在 [Start, End) 内的物品；没有年份的物品一律过滤。
type YearRangeFilter struct {
	Range domain.YearRange
}

func (f *YearRangeFilter) Name() string {
	return "filter.year"
}

func (f *YearRangeFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || !item.Record.HasYear() {
		return true, nil
	}
	return !f.Range.Contains(*item.Record.Year), nil
}
