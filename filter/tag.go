package filter

import (
	"context"
	"sort"

	"github.com/rushteam/seedrec/core"
)

// TagFilter 保留标签集合与 Tags 有交集的物品（OR 语义，精确匹配，大小写敏感）。
// Tags 为空时不过滤任何物品。
type TagFilter struct {
	// Label 用于区分用途：genre（类型 + 情绪）或 era（book 的年代代理标签）
	Label string
	Tags  map[string]struct{}
}

// NewTagFilter 创建标签过滤器。
func NewTagFilter(label string, tags map[string]struct{}) *TagFilter {
	return &TagFilter{Label: label, Tags: tags}
}

func (f *TagFilter) Name() string {
	if f.Label == "" {
		return "filter.tag"
	}
	return "filter.tag." + f.Label
}

func (f *TagFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if len(f.Tags) == 0 {
		return false, nil
	}
	if item == nil || item.Record == nil {
		return true, nil
	}
	return !item.Record.HasAnyTag(f.Tags), nil
}

// SortedTags 返回排序后的标签列表，用于日志。
func (f *TagFilter) SortedTags() []string {
	out := make([]string, 0, len(f.Tags))
	for t := range f.Tags {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
