package core

import "strings"

// Domain 是目录所属的领域。
type Domain string

const (
	DomainBook  Domain = "book"
	DomainAnime Domain = "anime"
	DomainMovie Domain = "movie"
)

// Domains 返回所有支持的领域，顺序固定。
func Domains() []Domain {
	return []Domain{DomainBook, DomainAnime, DomainMovie}
}

// ParseDomain 解析领域名称，空串视为 book（与历史接口默认值一致）。
func ParseDomain(s string) (Domain, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "book", "books":
		return DomainBook, true
	case "anime":
		return DomainAnime, true
	case "movie", "movies":
		return DomainMovie, true
	default:
		return "", false
	}
}

// EraAny 表示不限制年代。
const EraAny = "any"

// Criteria 是单次请求的过滤条件。
// Mood / Era / Genre 为空表示不限制；未知取值同样视为不限制。
type Criteria struct {
	Domain Domain
	Mood   string
	Era    string
	Genre  string

	// Expr 是可选的 CEL 过滤表达式，与其它条件取 AND。
	Expr string
}

// EraConstrained 判断是否设置了年代限制。
func (c Criteria) EraConstrained() bool {
	return c.Era != "" && c.Era != EraAny
}
