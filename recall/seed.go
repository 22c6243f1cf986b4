package recall

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"

	"github.com/rushteam/seedrec/core"
	"github.com/rushteam/seedrec/pipeline"
	"github.com/rushteam/seedrec/pkg/utils"
)

// SourceSeed 是种子近邻召回的来源标记。
const SourceSeed = "seed"

// SeedRecall 基于种子标题做近邻召回。
//
// 流程：
//  1. 每个种子标题（去空白、转小写）在过滤子集中做子串匹配，取第一条命中的行
//  2. 所有命中行的隐向量取均值作为查询向量
//  3. 向索引请求 N + 命中数 个近邻，剔除种子行后保留前 N 个
//
// 没有任何种子命中（或子集为空）时，转交 Fallback 做冷启动。
// 输出 Item 的 Score 为余弦距离，顺序为距离升序。
type SeedRecall struct {
	Fallback Source
	Logger   zerolog.Logger
}

func (r *SeedRecall) Name() string        { return "recall.seed" }
func (r *SeedRecall) Kind() pipeline.Kind { return pipeline.KindRecall }

func (r *SeedRecall) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *SeedRecall) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	subset := rctx.Frame.Subset
	seeds := MatchSeeds(subset, rctx.Titles)
	if len(seeds) == 0 || rctx.Frame.Index == nil || rctx.Frame.Latent == nil {
		r.Logger.Info().
			Strs("titles", rctx.Titles).
			Int("subset", len(subset)).
			Msg("no seed title matched, returning popular items")
		return r.fallback(ctx, rctx)
	}

	n := rctx.Limit
	if n <= 0 {
		n = (&core.DefaultRecallConfig{}).DefaultLimit()
	}

	query := meanVector(rctx, seeds)
	res, err := rctx.Frame.Index.Search(ctx, &core.VectorSearchRequest{
		Vector: query,
		TopK:   n + len(seeds),
		Metric: string(core.MetricCosine),
	})
	if err != nil {
		return nil, err
	}

	seedRows := make(map[int]struct{}, len(seeds))
	for _, row := range seeds {
		seedRows[row] = struct{}{}
	}
	seedTitles := make([]string, 0, len(seeds))
	for _, row := range seeds {
		seedTitles = append(seedTitles, subset[row].Record.Title)
	}
	seedLabel := utils.Label{Value: strings.Join(seedTitles, "|"), Source: "recall"}

	out := make([]*core.Item, 0, n)
	for _, hit := range res.Items {
		if _, isSeed := seedRows[hit.Row]; isSeed {
			continue
		}
		if hit.Row < 0 || hit.Row >= len(subset) {
			continue
		}
		it := subset[hit.Row].Clone()
		it.Score = hit.Distance
		it.PutLabel(utils.LabelRecallSource, utils.Label{Value: SourceSeed, Source: "recall"})
		it.PutLabel(utils.LabelSeed, seedLabel)
		out = append(out, it)
		if len(out) >= n {
			break
		}
	}
	return out, nil
}

func (r *SeedRecall) fallback(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if r.Fallback == nil {
		return nil, nil
	}
	return r.Fallback.Recall(ctx, rctx)
}

// MatchSeeds 返回每个种子标题在 subset 中第一条命中的行号（大小写不敏感的子串匹配）。
// 空白标题被忽略；同一行被多个标题命中时会重复出现。
func MatchSeeds(subset []*core.Item, titles []string) []int {
	rows := make([]int, 0, len(titles))
	for _, t := range titles {
		needle := strings.ToLower(strings.TrimSpace(t))
		if needle == "" {
			continue
		}
		for i, it := range subset {
			if it.Record == nil {
				continue
			}
			if strings.Contains(strings.ToLower(it.Record.Title), needle) {
				rows = append(rows, i)
				break
			}
		}
	}
	return rows
}

// meanVector 计算种子行隐向量的均值。
func meanVector(rctx *core.RecommendContext, rows []int) []float64 {
	_, dim := rctx.Frame.Latent.Dims()
	sum := make([]float64, dim)
	for _, row := range rows {
		floats.Add(sum, rctx.Frame.Latent.RawRowView(row))
	}
	floats.Scale(1/float64(len(rows)), sum)
	return sum
}

var _ Source = (*SeedRecall)(nil)
var _ Source = (*Hot)(nil)
