package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rushteam/seedrec/core"
)

// IMDb title.basics 的占位数值：该数据集不含评分与票数。
const (
	IMDbPlaceholderRating = 7.0
	IMDbPlaceholderVotes  = 1000
	IMDbSampleSeed        = 42
	DefaultIMDbSampleSize = 100000
)

// imdbKinds 是保留的条目类型。
var imdbKinds = map[string]struct{}{
	"movie":        {},
	"tvSeries":     {},
	"tvMiniSeries": {},
}

// IMDbOptions 控制原始 title.basics.tsv 的处理。
type IMDbOptions struct {
	// SampleSize 处理结果超过该行数时做确定性抽样，<= 0 表示使用默认值
	SampleSize int
}

// ReadIMDbBasics 解析 IMDb title.basics.tsv。
//
// 规则：
//   - 只保留 titleType 为 movie / tvSeries / tvMiniSeries 且 isAdult == 0 的行
//   - 缺少年份或类型的行被丢弃
//   - 评分与票数使用占位值，海报地址由 tconst 推导
//   - creator 为 Director（movie）或 Creator（剧集）
//   - 超过 SampleSize 时以固定种子抽样，结果保持源文件顺序
func ReadIMDbBasics(r io.Reader, opts IMDbOptions) ([]*core.Record, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	for _, col := range []string{"tconst", "titleType", "primaryTitle", "startYear", "genres", "isAdult"} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var out []*core.Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				continue
			}
			return nil, err
		}

		kind := cell(row, idx["titleType"])
		if _, ok := imdbKinds[kind]; !ok {
			continue
		}
		if strings.TrimSpace(cell(row, idx["isAdult"])) != "0" {
			continue
		}
		year := parseYear(cell(row, idx["startYear"]))
		genres := nullable(cell(row, idx["genres"]))
		if year == nil || strings.TrimSpace(genres) == "" {
			continue
		}
		id := strings.TrimSpace(cell(row, idx["tconst"]))
		title := strings.TrimSpace(cell(row, idx["primaryTitle"]))
		if id == "" || title == "" {
			continue
		}

		creator := "Creator"
		if kind == "movie" {
			creator = "Director"
		}
		out = append(out, &core.Record{
			ID:         id,
			Title:      title,
			Creator:    creator,
			Tags:       core.SplitTags(genres),
			Rating:     IMDbPlaceholderRating,
			Popularity: IMDbPlaceholderVotes,
			Year:       year,
			Image:      PosterURL(id),
			Domain:     core.DomainMovie,
			Kind:       kind,
		})
	}

	size := opts.SampleSize
	if size <= 0 {
		size = DefaultIMDbSampleSize
	}
	return sample(out, size), nil
}

// PosterURL 由 tconst 推导海报地址。
func PosterURL(tconst string) string {
	id := tconst
	if len(id) > 2 {
		id = id[2:]
	}
	return "https://m.media-amazon.com/images/M/" + id + "._V1_SX300.jpg"
}

// sample 以固定种子抽取 n 条记录，保持原有相对顺序。
func sample(records []*core.Record, n int) []*core.Record {
	if len(records) <= n {
		return records
	}
	rng := rand.New(rand.NewPCG(IMDbSampleSeed, 0))
	picked := rng.Perm(len(records))[:n]
	sort.Ints(picked)
	out := make([]*core.Record, n)
	for i, p := range picked {
		out[i] = records[p]
	}
	return out
}

// ProcessIMDbFile 处理原始 TSV，并把结果写入 processedPath 以便下次直接加载。
// 写入失败不影响返回的记录。
func ProcessIMDbFile(rawPath, processedPath string, opts IMDbOptions) ([]*core.Record, error) {
	f, err := os.Open(rawPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := ReadIMDbBasics(f, opts)
	if err != nil {
		return nil, fmt.Errorf("process %s: %w", filepath.Base(rawPath), err)
	}
	if processedPath == "" {
		return records, nil
	}
	if err := writeCatalogFile(processedPath, records); err != nil {
		return records, &writeError{path: processedPath, err: err}
	}
	return records, nil
}

// writeError 表示处理结果已生成但未能持久化。
type writeError struct {
	path string
	err  error
}

func (e *writeError) Error() string { return "write " + e.path + ": " + e.err.Error() }
func (e *writeError) Unwrap() error { return e.err }

func writeCatalogFile(path string, records []*core.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := WriteCatalog(f, records); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
