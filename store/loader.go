package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rushteam/seedrec/core"
	"github.com/rushteam/seedrec/domain"
)

// nullToken 是 IMDb 数据集中表示缺失值的占位符。
const nullToken = `\N`

// columns 是解析后的列下标，-1 表示源数据中没有该列。
type columns struct {
	id, title, creator, tags, rating, popularity, year, image, kind int
}

func resolveColumns(header []string, fields domain.FieldMap) (columns, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, ok := pos[h]; !ok {
			pos[h] = i
		}
	}
	pick := func(candidates []string) int {
		for _, c := range candidates {
			if i, ok := pos[c]; ok {
				return i
			}
		}
		return -1
	}
	cols := columns{
		id:         pick(fields.ID),
		title:      pick(fields.Title),
		creator:    pick(fields.Creator),
		tags:       pick(fields.Tags),
		rating:     pick(fields.Rating),
		popularity: pick(fields.Popularity),
		year:       pick(fields.Year),
		image:      pick(fields.Image),
		kind:       pick(fields.Kind),
	}
	if cols.title < 0 {
		return cols, fmt.Errorf("missing title column (tried %v)", fields.Title)
	}
	return cols, nil
}

// ReadCatalog 按领域描述的字段映射把分隔文本解析为记录列表。
// comma 为字段分隔符（CSV 用 ','，TSV 用 '\t'）。
//
// 缺失值处理：类型为空记为 ["Unknown"]，评分/热度无法解析记为 0，年份无法解析视为缺失。
// 没有 id 列时使用行号（从 1 开始）作为 id；标题为空的行被跳过。
func ReadCatalog(r io.Reader, comma rune, desc *domain.Descriptor) ([]*core.Record, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	header = append([]string(nil), header...)
	cols, err := resolveColumns(header, desc.Fields)
	if err != nil {
		return nil, err
	}

	var out []*core.Record
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				continue
			}
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}

		title := strings.TrimSpace(cell(row, cols.title))
		if title == "" {
			continue
		}
		id := strings.TrimSpace(cell(row, cols.id))
		if id == "" {
			id = strconv.Itoa(line - 1)
		}
		rec := &core.Record{
			ID:         id,
			Title:      title,
			Creator:    strings.TrimSpace(cell(row, cols.creator)),
			Tags:       core.SplitTags(nullable(cell(row, cols.tags))),
			Rating:     parseFloat(cell(row, cols.rating)),
			Popularity: parseCount(cell(row, cols.popularity)),
			Year:       parseYear(cell(row, cols.year)),
			Image:      strings.TrimSpace(cell(row, cols.image)),
			Kind:       strings.TrimSpace(nullable(cell(row, cols.kind))),
			Domain:     desc.Domain,
		}
		out = append(out, rec)
	}
	return out, nil
}

// ReadCatalogFile 读取目录文件，扩展名为 .tsv 时按制表符分隔。
func ReadCatalogFile(path string, desc *domain.Descriptor) ([]*core.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	comma := ','
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		comma = '\t'
	}
	return ReadCatalog(f, comma, desc)
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func nullable(s string) string {
	if strings.TrimSpace(s) == nullToken {
		return ""
	}
	return s
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(nullable(s)), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func parseCount(s string) int64 {
	v := parseFloat(s)
	if v < 0 {
		return 0
	}
	return int64(v)
}

func parseYear(s string) *int {
	s = strings.TrimSpace(nullable(s))
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	y := int(v)
	return &y
}

// WriteCatalog 以规范列名写出 CSV，可被同领域的 ReadCatalog 读回。
func WriteCatalog(w io.Writer, records []*core.Record) error {
	cw := csv.NewWriter(w)
	header := []string{"item_id", "title", "titleType", "author", "genre", "year", "avg_rating", "num_votes", "img"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		year := ""
		if r.Year != nil {
			year = strconv.Itoa(*r.Year)
		}
		row := []string{
			r.ID,
			r.Title,
			r.Kind,
			r.Creator,
			r.GenreString(),
			year,
			strconv.FormatFloat(r.Rating, 'f', -1, 64),
			strconv.FormatInt(r.Popularity, 10),
			r.Image,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
