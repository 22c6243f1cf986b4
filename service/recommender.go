// Package service 实现推荐服务：校验请求、选择领域描述、构建并运行单次请求的 Pipeline、组装响应。
package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/seedrec/config"
	_ "github.com/rushteam/seedrec/config/builders"
	"github.com/rushteam/seedrec/core"
	"github.com/rushteam/seedrec/domain"
	"github.com/rushteam/seedrec/filter"
	"github.com/rushteam/seedrec/logging"
	"github.com/rushteam/seedrec/metrics"
	"github.com/rushteam/seedrec/pipeline"
	"github.com/rushteam/seedrec/pkg/utils"
	"github.com/rushteam/seedrec/recall"
)

// CatalogSource 提供各领域的只读目录。
type CatalogSource interface {
	Get(d core.Domain) (*core.Catalog, error)
}

// Request 是一次推荐请求。
type Request struct {
	Titles []string
	Mood   string
	Era    string
	Genre  string
	Domain string
	Limit  int
	// Filter 可选的 CEL 过滤表达式
	Filter string
}

// Recommendation 是响应中的一条推荐。
type Recommendation struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Author string  `json:"author"`
	Rating float64 `json:"rating"`
	Image  string  `json:"image"`
	Year   *int    `json:"year,omitempty"`
	Genre  string  `json:"genre,omitempty"`
	Type   string  `json:"type,omitempty"`
}

// Response 是推荐结果。
type Response struct {
	Recommendations []Recommendation `json:"recommendations"`
	Domain          core.Domain      `json:"domain"`
}

// Recommender 是推荐服务入口，构建完成后可并发使用。
type Recommender struct {
	registry *domain.Registry
	catalogs CatalogSource
	store    core.KeyValueStore
	recall   core.RecallConfig
	pipeline *pipeline.Config
	logger   zerolog.Logger
}

// Options 是 Recommender 的依赖。
type Options struct {
	Registry *domain.Registry
	Catalogs CatalogSource
	// Store 可选，提供热度排行
	Store  core.KeyValueStore
	Recall core.RecallConfig
	// Pipeline 可选，为空时使用内置链路
	Pipeline *pipeline.Config
	Logger   zerolog.Logger
}

func NewRecommender(opts Options) (*Recommender, error) {
	if opts.Registry == nil || opts.Catalogs == nil {
		return nil, core.NewDomainError(core.ModuleService, core.ErrorCodeInternalError, "recommender: registry and catalogs are required")
	}
	if opts.Recall == nil {
		opts.Recall = &core.DefaultRecallConfig{}
	}
	if opts.Pipeline == nil {
		cfg, err := config.DefaultPipeline()
		if err != nil {
			return nil, err
		}
		opts.Pipeline = cfg
	}
	if err := config.ValidatePipelineConfig(opts.Pipeline); err != nil {
		return nil, err
	}
	return &Recommender{
		registry: opts.Registry,
		catalogs: opts.Catalogs,
		store:    opts.Store,
		recall:   opts.Recall,
		pipeline: opts.Pipeline,
		logger:   opts.Logger.With().Str("component", "recommender").Logger(),
	}, nil
}

// Recommend 执行一次推荐。
// 输入无效时返回 INVALID_INPUT 的 DomainError。
func (s *Recommender) Recommend(ctx context.Context, req Request) (*Response, error) {
	if len(req.Titles) == 0 {
		return nil, core.ErrNoTitles
	}
	d, ok := core.ParseDomain(req.Domain)
	if !ok {
		return nil, core.InvalidInputf(core.ModuleService, "unsupported domain %q", req.Domain)
	}
	limit, err := s.limit(req.Limit)
	if err != nil {
		return nil, err
	}
	desc, ok := s.registry.Get(d)
	if !ok {
		return nil, core.InvalidInputf(core.ModuleService, "unsupported domain %q", req.Domain)
	}
	catalog, err := s.catalogs.Get(d)
	if err != nil {
		return nil, err
	}

	criteria := core.Criteria{
		Domain: d,
		Mood:   strings.TrimSpace(req.Mood),
		Era:    strings.TrimSpace(req.Era),
		Genre:  strings.TrimSpace(req.Genre),
		Expr:   strings.TrimSpace(req.Filter),
	}
	rctx := core.NewRecommendContext(logging.RequestIDFromContext(ctx), criteria, req.Titles, limit, catalog)
	log := logging.Ctx(ctx).With().Str("domain", string(d)).Logger()

	p, err := s.build(desc, log)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	items, err := p.Run(ctx, rctx, catalog.Items())
	if err != nil {
		return nil, err
	}
	s.observe(rctx, d)

	resp := &Response{
		Recommendations: s.assemble(desc, items, log),
		Domain:          d,
	}
	metrics.RecommendationsReturned.WithLabelValues(string(d)).Observe(float64(len(resp.Recommendations)))
	log.Debug().
		Int("subset", len(rctx.Frame.Subset)).
		Int("results", len(resp.Recommendations)).
		Dur("elapsed", time.Since(start)).
		Msg("recommendation served")
	return resp, nil
}

func (s *Recommender) limit(n int) (int, error) {
	switch {
	case n < 0:
		return 0, core.InvalidInputf(core.ModuleService, "limit must be positive, got %d", n)
	case n == 0:
		return s.recall.DefaultLimit(), nil
	case n > s.recall.MaxLimit():
		return s.recall.MaxLimit(), nil
	default:
		return n, nil
	}
}

// build 为本次请求构建 Pipeline。
func (s *Recommender) build(desc *domain.Descriptor, log zerolog.Logger) (*pipeline.Pipeline, error) {
	factory := config.Factory(config.Deps{
		Descriptor: desc,
		Store:      s.store,
		Recall:     s.recall,
		Logger:     log,
	})
	p, err := s.pipeline.BuildPipeline(factory)
	if err != nil {
		return nil, err
	}
	domainName := string(desc.Domain)
	p.Observer = func(node pipeline.Node, in, out int, elapsed time.Duration, err error) {
		metrics.RecordStage(domainName, node.Name(), string(node.Kind()), elapsed, err)
		log.Trace().
			Str("node", node.Name()).
			Int("in", in).
			Int("out", out).
			Dur("elapsed", elapsed).
			Err(err).
			Msg("node finished")
	}
	return p, nil
}

func (s *Recommender) observe(rctx *core.RecommendContext, d core.Domain) {
	if lbl, ok := rctx.GetLabel(utils.LabelFilterTier); ok && lbl.Value != filter.TierConstraint {
		metrics.FilterFallbacks.WithLabelValues(string(d), lbl.Value).Inc()
	}
	if _, ok := rctx.GetLabel(recall.LabelColdStart); ok {
		metrics.ColdStarts.WithLabelValues(string(d)).Inc()
	}
}

// assemble 按领域响应形态组装结果；无效记录被跳过。
func (s *Recommender) assemble(desc *domain.Descriptor, items []*core.Item, log zerolog.Logger) []Recommendation {
	out := make([]Recommendation, 0, len(items))
	shape := desc.Response
	for _, it := range items {
		if it == nil || !it.Record.Valid() {
			log.Warn().Str("id", itemID(it)).Msg("skipping invalid record")
			continue
		}
		r := it.Record
		rec := Recommendation{
			ID:     r.ID,
			Title:  r.Title,
			Author: r.Creator,
			Rating: r.Rating,
			Image:  imageOrPlaceholder(r.Image, desc.PlaceholderImage()),
			Year:   r.Year,
		}
		if shape.IncludeGenre {
			rec.Genre = r.GenreString()
		}
		if shape.IncludeKind {
			rec.Type = r.Kind
			if rec.Type == "" {
				rec.Type = shape.DefaultKind
			}
		}
		out = append(out, rec)
	}
	return out
}

func imageOrPlaceholder(img, placeholder string) string {
	img = strings.TrimSpace(img)
	if img == "" || img == core.UnknownTag {
		return placeholder
	}
	return img
}

func itemID(it *core.Item) string {
	if it == nil {
		return ""
	}
	return it.ID
}
