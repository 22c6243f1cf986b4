package builders

import (
	"fmt"
	"math"

	"github.com/rushteam/seedrec/config"
	"github.com/rushteam/seedrec/core"
	"github.com/rushteam/seedrec/domain"
	"github.com/rushteam/seedrec/feature"
	"github.com/rushteam/seedrec/filter"
	"github.com/rushteam/seedrec/pipeline"
	"github.com/rushteam/seedrec/pkg/conv"
	"github.com/rushteam/seedrec/recall"
	"github.com/rushteam/seedrec/rerank"
	"github.com/rushteam/seedrec/vector"
)

func init() {
	config.Register("filter.node", BuildFilterNode)
	config.Register("filter.constraint", BuildConstraintNode)
	config.Register("feature.matrix", BuildMatrixNode)
	config.Register("feature.reduce", BuildReduceNode)
	config.Register("vector.index", BuildIndexNode)
	config.Register("recall.seed", BuildSeedNode)
	config.Register("recall.hot", BuildHotNode)
	config.Register("rerank.topn", BuildTopNNode)
}

func BuildConstraintNode(deps config.Deps, _ map[string]interface{}) (pipeline.Node, error) {
	if deps.Descriptor == nil {
		return nil, fmt.Errorf("filter.constraint: descriptor is required")
	}
	return &filter.ConstraintNode{
		Descriptor: deps.Descriptor,
		Logger:     deps.Logger.With().Str("node", "filter.constraint").Logger(),
	}, nil
}

// BuildFilterNode 按配置组合预过滤器：
//
//	tags: [Drama, Crime]        # 标签交集
//	year_start: 1990            # 年份区间 [year_start, year_end)
//	year_end: 2010
//	expr: "item.rating >= 4.0"  # CEL 表达式
func BuildFilterNode(_ config.Deps, cfg map[string]interface{}) (pipeline.Node, error) {
	var filters []filter.Filter

	if tags := conv.ConfigGetStrings(cfg, "tags"); len(tags) > 0 {
		set := make(map[string]struct{}, len(tags))
		for _, t := range tags {
			set[t] = struct{}{}
		}
		filters = append(filters, filter.NewTagFilter("config", set))
	}

	start := conv.ConfigGetInt(cfg, "year_start", 0)
	end := conv.ConfigGetInt(cfg, "year_end", 0)
	if start != 0 || end != 0 {
		if end == 0 {
			end = math.MaxInt32
		}
		if end <= start {
			return nil, fmt.Errorf("filter.node: year_end must be greater than year_start, got [%d, %d)", start, end)
		}
		filters = append(filters, &filter.YearRangeFilter{Range: domain.YearRange{Start: start, End: end}})
	}

	if expr := conv.ConfigGet(cfg, "expr", ""); expr != "" {
		ef, err := filter.NewExprFilter(expr)
		if err != nil {
			return nil, fmt.Errorf("filter.node: %w", err)
		}
		filters = append(filters, ef)
	}

	return &filter.FilterNode{Filters: filters}, nil
}

func BuildMatrixNode(_ config.Deps, _ map[string]interface{}) (pipeline.Node, error) {
	return &feature.MatrixNode{}, nil
}

func BuildReduceNode(deps config.Deps, cfg map[string]interface{}) (pipeline.Node, error) {
	def := 0
	if deps.Recall != nil {
		def = deps.Recall.MaxComponents()
	}
	k := conv.ConfigGetInt(cfg, "max_components", def)
	if k < 0 {
		return nil, fmt.Errorf("feature.reduce: max_components must be >= 0, got %d", k)
	}
	return &feature.ReduceNode{MaxComponents: k}, nil
}

func BuildIndexNode(_ config.Deps, _ map[string]interface{}) (pipeline.Node, error) {
	return &vector.IndexNode{}, nil
}

func BuildSeedNode(deps config.Deps, cfg map[string]interface{}) (pipeline.Node, error) {
	node := &recall.SeedRecall{
		Logger: deps.Logger.With().Str("node", "recall.seed").Logger(),
	}
	switch fb := conv.ConfigGet(cfg, "fallback", "recall.hot"); fb {
	case "recall.hot":
		node.Fallback = newHot(deps)
	case "", "none":
	default:
		return nil, fmt.Errorf("recall.seed: unknown fallback %q", fb)
	}
	return node, nil
}

func BuildHotNode(deps config.Deps, _ map[string]interface{}) (pipeline.Node, error) {
	return newHot(deps), nil
}

func newHot(deps config.Deps) *recall.Hot {
	var store core.Store
	if deps.Store != nil {
		store = deps.Store
	}
	return &recall.Hot{
		Store:  store,
		Logger: deps.Logger.With().Str("node", "recall.hot").Logger(),
	}
}

func BuildTopNNode(_ config.Deps, cfg map[string]interface{}) (pipeline.Node, error) {
	n := conv.ConfigGetInt(cfg, "n", 0)
	if n < 0 {
		return nil, fmt.Errorf("rerank.topn: n must be >= 0, got %d", n)
	}
	return &rerank.TopNNode{N: n}, nil
}
