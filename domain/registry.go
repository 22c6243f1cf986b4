package domain

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/seedrec/core"
)

//go:embed tables.yaml
var builtinTables []byte

// tablesFile 是 tables.yaml 的顶层结构。
type tablesFile struct {
	Domains []*Descriptor `yaml:"domains"`
}

// Registry 保存所有领域描述，构建完成后只读。
type Registry struct {
	descriptors map[core.Domain]*Descriptor
}

// Builtin 加载内置的领域描述表。
func Builtin() (*Registry, error) {
	return Parse(builtinTables)
}

// LoadFromYAML 从 YAML 文件加载领域描述表。
func LoadFromYAML(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Parse(data)
}

// Parse 解析 YAML 格式的领域描述表。
func Parse(data []byte) (*Registry, error) {
	var tf tablesFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	r := &Registry{descriptors: make(map[core.Domain]*Descriptor, len(tf.Domains))}
	for _, d := range tf.Domains {
		if d == nil {
			continue
		}
		if err := validate(d); err != nil {
			return nil, err
		}
		r.descriptors[d.Domain] = d
	}
	return r, nil
}

func validate(d *Descriptor) error {
	parsed, ok := core.ParseDomain(string(d.Domain))
	if !ok || d.Domain == "" {
		return fmt.Errorf("unknown domain %q", d.Domain)
	}
	d.Domain = parsed
	switch d.Fallback.Strategy {
	case "":
		d.Fallback.Strategy = FallbackFullCatalog
	case FallbackFullCatalog:
	case FallbackTiered:
		if d.Fallback.GenreOnlyMin <= 0 {
			d.Fallback.GenreOnlyMin = 10
		}
		if d.Fallback.PopularTop <= 0 {
			d.Fallback.PopularTop = 100
		}
	default:
		return fmt.Errorf("domain %s: unsupported fallback strategy %q", d.Domain, d.Fallback.Strategy)
	}
	for era, e := range d.Eras {
		if e.Years != nil && e.Years.End <= e.Years.Start {
			return fmt.Errorf("domain %s: era %s has empty year range", d.Domain, era)
		}
	}
	if len(d.Fields.ID) == 0 || len(d.Fields.Title) == 0 {
		return fmt.Errorf("domain %s: id and title fields are required", d.Domain)
	}
	return nil
}

// Get 返回指定领域的描述。
func (r *Registry) Get(d core.Domain) (*Descriptor, bool) {
	desc, ok := r.descriptors[d]
	return desc, ok
}

// MustGet 返回指定领域的描述，不存在时 panic；仅用于启动阶段。
func (r *Registry) MustGet(d core.Domain) *Descriptor {
	desc, ok := r.Get(d)
	if !ok {
		panic(fmt.Sprintf("domain descriptor %q not registered", d))
	}
	return desc
}

// Domains 返回已注册的领域（排序）。
func (r *Registry) Domains() []core.Domain {
	out := make([]core.Domain, 0, len(r.descriptors))
	for d := range r.descriptors {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
