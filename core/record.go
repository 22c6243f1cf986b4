package core

import (
	"math"
	"sort"
	"strings"
)

// UnknownTag 是缺失类型标签时使用的占位标签。
const UnknownTag = "Unknown"

// Record 是目录中的一条物品记录（书籍 / 动画 / 影视）。
// 加载完成后不可修改；所有请求共享同一份 Record。
type Record struct {
	ID         string
	Title      string
	Creator    string
	Tags       []string // 有序去重的类型标签，缺失时为 ["Unknown"]
	Rating     float64
	Popularity int64
	Year       *int // 可选发行年份
	Image      string
	Domain     Domain
	Kind       string // 可选条目类型（movie / tvSeries / tvMiniSeries）
}

// HasYear 返回记录是否带有发行年份。
func (r *Record) HasYear() bool {
	return r != nil && r.Year != nil
}

// HasAnyTag 判断记录的标签集合与 tags 是否有交集（OR 语义，大小写敏感）。
func (r *Record) HasAnyTag(tags map[string]struct{}) bool {
	if r == nil || len(tags) == 0 {
		return false
	}
	for _, t := range r.Tags {
		if _, ok := tags[t]; ok {
			return true
		}
	}
	return false
}

// GenreString 返回以逗号拼接的标签串，与源数据格式一致。
func (r *Record) GenreString() string {
	return strings.Join(r.Tags, ",")
}

// Valid 检查记录在结果组装阶段是否可用。
func (r *Record) Valid() bool {
	if r == nil {
		return false
	}
	if strings.TrimSpace(r.Title) == "" {
		return false
	}
	return !math.IsNaN(r.Rating) && !math.IsInf(r.Rating, 0)
}

// NormalizeTags 拆分、去空白、去重标签；结果为空时返回 ["Unknown"]。
func NormalizeTags(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) == 0 {
		return []string{UnknownTag}
	}
	return out
}

// SplitTags 按逗号拆分源数据中的类型字段。
func SplitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return NormalizeTags(nil)
	}
	return NormalizeTags(strings.Split(s, ","))
}

// SortByPopularity 返回按热度降序排列的记录副本；热度相同时保持原有顺序。
func SortByPopularity(records []*Record) []*Record {
	out := make([]*Record, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Popularity > out[j].Popularity
	})
	return out
}
