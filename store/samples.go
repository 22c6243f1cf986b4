package store

import (
	_ "embed"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/rushteam/seedrec/core"
)

//go:embed samples.json
var sampleData []byte

type sampleRecord struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Creator    string   `json:"creator"`
	Tags       []string `json:"tags"`
	Rating     float64  `json:"rating"`
	Popularity int64    `json:"popularity"`
	Year       *int     `json:"year"`
	Image      string   `json:"image"`
	Kind       string   `json:"kind"`
}

// SampleRecords 返回领域的内置样例目录（每次调用返回新的记录，调用方可自由修改）。
// 目录文件缺失或无法解析时用于兜底，保证推荐链路总有非空输入。
func SampleRecords(d core.Domain) ([]*core.Record, error) {
	var all map[string][]sampleRecord
	if err := json.Unmarshal(sampleData, &all); err != nil {
		return nil, fmt.Errorf("decode samples: %w", err)
	}
	rows, ok := all[string(d)]
	if !ok {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeNotFound, "no sample catalog for domain "+string(d))
	}
	out := make([]*core.Record, len(rows))
	for i, s := range rows {
		out[i] = &core.Record{
			ID:         s.ID,
			Title:      s.Title,
			Creator:    s.Creator,
			Tags:       core.NormalizeTags(s.Tags),
			Rating:     s.Rating,
			Popularity: s.Popularity,
			Year:       s.Year,
			Image:      s.Image,
			Domain:     d,
			Kind:       s.Kind,
		}
	}
	return out, nil
}

// SampleCatalog 返回领域的内置样例目录。
func SampleCatalog(d core.Domain) (*core.Catalog, error) {
	records, err := SampleRecords(d)
	if err != nil {
		return nil, err
	}
	return core.NewCatalog(d, records), nil
}
