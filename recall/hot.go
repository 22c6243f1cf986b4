package recall

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rushteam/seedrec/core"
	"github.com/rushteam/seedrec/pipeline"
	"github.com/rushteam/seedrec/pkg/utils"
)

// 冷启动相关的请求级标签
const (
	LabelColdStart = "cold_start"
	SourcePopular  = "popular"
)

// Hot 是热门召回源：返回完整目录中热度最高的 N 条记录。
//   - 如果 Store 实现了 KeyValueStore，优先使用 ZRange 读取热度排行（目录加载时写入）
//   - 排行不可用、成员数（ZCard）不足或成员无法映射回目录时，退化为在内存中按热度排序
//
// 冷启动与过滤条件无关，始终基于完整目录。
// Hot 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type Hot struct {
	Store  core.Store
	Logger zerolog.Logger
}

func (r *Hot) Name() string        { return "recall.hot" }
func (r *Hot) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *Hot) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *Hot) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	n := rctx.Limit
	if n <= 0 {
		n = (&core.DefaultRecallConfig{}).DefaultLimit()
	}
	catalog := rctx.Catalog
	if catalog == nil {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeUnavailable, "recall.hot: catalog is nil")
	}
	rctx.PutLabel(LabelColdStart, utils.Label{Value: "true", Source: "recall"})

	records := r.fromStore(ctx, catalog, n)
	if records == nil {
		records = catalog.TopByPopularity(n)
	}

	out := make([]*core.Item, 0, len(records))
	for _, rec := range records {
		it := core.NewItem(rec.ID)
		it.Record = rec
		it.Row = -1
		it.PutLabel(utils.LabelRecallSource, utils.Label{Value: SourcePopular, Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

// fromStore 从有序集合读取前 n 个成员并映射回目录记录；任何一步失败都返回 nil。
func (r *Hot) fromStore(ctx context.Context, catalog *core.Catalog, n int) []*core.Record {
	kv, ok := r.Store.(core.KeyValueStore)
	if !ok {
		return nil
	}
	key := core.PopularKey(catalog.Domain())
	want := n
	if catalog.Len() < want {
		want = catalog.Len()
	}
	card, err := kv.ZCard(ctx, key)
	if err != nil {
		r.Logger.Debug().Err(err).Str("domain", string(catalog.Domain())).Msg("popularity ranking unavailable")
		return nil
	}
	if card < int64(want) {
		return nil
	}
	members, err := kv.ZRange(ctx, key, 0, int64(n-1))
	if err != nil {
		r.Logger.Debug().Err(err).Str("domain", string(catalog.Domain())).Msg("popularity ranking unavailable")
		return nil
	}
	if len(members) < want {
		return nil
	}
	out := make([]*core.Record, 0, len(members))
	for _, m := range members {
		rec, ok := catalog.Get(m)
		if !ok {
			return nil
		}
		out = append(out, rec)
	}
	return out
}
