// Package domain 定义领域描述（Descriptor）：一个领域的字段映射、情绪/类型/年代表、
// 过滤回退策略与响应形态。
//
// 三个领域（book / anime / movie）共用同一条推荐链路，差异全部收敛在 Descriptor 中，
// 每个请求只在入口处按 domain 选择一次。
package domain

import (
	"github.com/rushteam/seedrec/core"
)

// 回退策略
const (
	// FallbackFullCatalog 组合过滤为空时直接使用完整目录（book / anime）
	FallbackFullCatalog = "full_catalog"
	// FallbackTiered 组合过滤为空时先尝试仅类型过滤，再退到热度 TopN（movie）
	FallbackTiered = "tiered"
)

// Descriptor 是单个领域的静态配置。
type Descriptor struct {
	Domain   core.Domain         `yaml:"domain"`
	Fields   FieldMap            `yaml:"fields"`
	Moods    map[string][]string `yaml:"moods"`
	Genres   map[string]string   `yaml:"genres"`
	Eras     map[string]Era      `yaml:"eras"`
	Fallback FallbackPolicy      `yaml:"fallback"`
	Response ResponseShape       `yaml:"response"`
}

// FieldMap 是源数据列名映射，每个字段按顺序尝试多个候选列名。
type FieldMap struct {
	ID         []string `yaml:"id"`
	Title      []string `yaml:"title"`
	Creator    []string `yaml:"creator"`
	Tags       []string `yaml:"tags"`
	Rating     []string `yaml:"rating"`
	Popularity []string `yaml:"popularity"`
	Year       []string `yaml:"year"`
	Image      []string `yaml:"image"`
	Kind       []string `yaml:"kind"`
}

// Era 是年代限制：年份区间（movie / anime）或代理标签集合（book）。
type Era struct {
	Years *YearRange `yaml:"years"`
	Tags  []string   `yaml:"tags"`
}

// YearRange 是左闭右开的年份区间 [Start, End)。
type YearRange struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// Contains 判断年份是否落在区间内。
func (r YearRange) Contains(year int) bool {
	return year >= r.Start && year < r.End
}

// FallbackPolicy 是过滤结果为空时的回退策略。
type FallbackPolicy struct {
	Strategy     string `yaml:"strategy"`
	GenreOnlyMin int    `yaml:"genre_only_min"`
	PopularTop   int    `yaml:"popular_top"`
}

// ResponseShape 描述响应中的可选字段与默认值。
type ResponseShape struct {
	IncludeGenre     bool   `yaml:"include_genre"`
	IncludeKind      bool   `yaml:"include_kind"`
	DefaultKind      string `yaml:"default_kind"`
	PlaceholderImage string `yaml:"placeholder_image"`
}

// TargetTags 根据类型别名与情绪构建目标标签集合（并集）。
// 未知的类型或情绪不贡献任何标签。
func (d *Descriptor) TargetTags(c core.Criteria) map[string]struct{} {
	tags := make(map[string]struct{})
	if c.Genre != "" {
		if canonical, ok := d.Genres[c.Genre]; ok {
			tags[canonical] = struct{}{}
		}
	}
	if c.Mood != "" {
		for _, t := range d.Moods[c.Mood] {
			tags[t] = struct{}{}
		}
	}
	return tags
}

// EraYears 返回年代对应的年份区间；未设置、any、未知年代或该领域按标签代理时返回 false。
func (d *Descriptor) EraYears(era string) (YearRange, bool) {
	if era == "" || era == core.EraAny {
		return YearRange{}, false
	}
	e, ok := d.Eras[era]
	if !ok || e.Years == nil {
		return YearRange{}, false
	}
	return *e.Years, true
}

// EraTags 返回年代对应的代理标签集合（仅 book 领域配置）。
func (d *Descriptor) EraTags(era string) (map[string]struct{}, bool) {
	if era == "" || era == core.EraAny {
		return nil, false
	}
	e, ok := d.Eras[era]
	if !ok || len(e.Tags) == 0 {
		return nil, false
	}
	tags := make(map[string]struct{}, len(e.Tags))
	for _, t := range e.Tags {
		tags[t] = struct{}{}
	}
	return tags, true
}

// PlaceholderImage 返回该领域的占位图。
func (d *Descriptor) PlaceholderImage() string {
	if d.Response.PlaceholderImage != "" {
		return d.Response.PlaceholderImage
	}
	return "https://via.placeholder.com/150x225?text=No+Cover"
}
