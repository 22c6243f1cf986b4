package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/seedrec/core"
	"github.com/rushteam/seedrec/domain"
)

// 目录来源
const (
	SourceFile   = "file"
	SourceIMDb   = "imdb"
	SourceSample = "sample"
)

// zaddBatch 是写入热度排行时单次 ZAdd 的成员数上限。
const zaddBatch = 1000

// CatalogOptions 描述目录文件的位置。
type CatalogOptions struct {
	// DataDir 是目录文件所在目录，Files 中的相对路径基于它解析
	DataDir string
	// Files 是每个领域的已处理目录文件（CSV / TSV）
	Files map[core.Domain]string
	// IMDbRaw 是 movie 领域的原始 title.basics.tsv，仅在已处理文件不存在时使用
	IMDbRaw string
	// IMDbSampleSize 原始数据抽样行数
	IMDbSampleSize int
}

// CatalogInfo 是单个领域目录的加载信息。
type CatalogInfo struct {
	Domain   core.Domain `json:"domain"`
	Source   string      `json:"source"`
	Path     string      `json:"path,omitempty"`
	Rows     int         `json:"rows"`
	LoadedAt time.Time   `json:"loaded_at"`
	Error    string      `json:"error,omitempty"`
}

// CatalogStore 负责在启动时加载所有领域目录，并把热度排行与加载信息写入 KeyValueStore。
// 加载完成后目录只读，Get 可并发调用。
type CatalogStore struct {
	registry *domain.Registry
	kv       core.KeyValueStore
	opts     CatalogOptions
	logger   zerolog.Logger

	mu       sync.RWMutex
	catalogs map[core.Domain]*core.Catalog
	infos    map[core.Domain]CatalogInfo
}

func NewCatalogStore(registry *domain.Registry, kv core.KeyValueStore, opts CatalogOptions, logger zerolog.Logger) *CatalogStore {
	return &CatalogStore{
		registry: registry,
		kv:       kv,
		opts:     opts,
		logger:   logger.With().Str("component", "catalog").Logger(),
		catalogs: make(map[core.Domain]*core.Catalog),
		infos:    make(map[core.Domain]CatalogInfo),
	}
}

// LoadAll 并发加载所有领域。单个领域加载失败会被样例目录兜底，不会返回错误；
// 热度排行写入失败只记录告警（冷启动会退化为内存排序），只有 ctx 取消时返回错误。
func (s *CatalogStore) LoadAll(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	for _, d := range s.registry.Domains() {
		d := d
		eg.Go(func() error {
			return s.Load(ctx, d)
		})
	}
	return eg.Wait()
}

// Load 加载单个领域并发布热度排行。
func (s *CatalogStore) Load(ctx context.Context, d core.Domain) error {
	desc, ok := s.registry.Get(d)
	if !ok {
		return core.NewDomainError(core.ModuleCatalog, core.ErrorCodeNotFound, "no descriptor for domain "+string(d))
	}

	start := time.Now()
	records, info := s.read(desc)
	if len(records) == 0 {
		sample, err := SampleRecords(d)
		if err != nil {
			return err
		}
		records = sample
		info.Source = SourceSample
		info.Path = ""
	}
	catalog := core.NewCatalog(d, records)
	info.Domain = d
	info.Rows = catalog.Len()
	info.LoadedAt = time.Now().UTC()

	s.mu.Lock()
	s.catalogs[d] = catalog
	s.infos[d] = info
	s.mu.Unlock()

	if err := s.publish(ctx, catalog, info); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		s.logger.Warn().Err(err).Str("domain", string(d)).Msg("publish popularity ranking")
	}

	s.logger.Info().
		Str("domain", string(d)).
		Str("source", info.Source).
		Str("path", info.Path).
		Int("rows", info.Rows).
		Dur("elapsed", time.Since(start)).
		Msg("catalog loaded")
	return nil
}

// read 按优先级读取目录：已处理文件 → IMDb 原始数据（仅 movie）。
func (s *CatalogStore) read(desc *domain.Descriptor) ([]*core.Record, CatalogInfo) {
	info := CatalogInfo{}
	path := s.path(s.opts.Files[desc.Domain])

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			records, err := ReadCatalogFile(path, desc)
			if err == nil && len(records) > 0 {
				info.Source, info.Path = SourceFile, path
				return records, info
			}
			if err == nil {
				err = fmt.Errorf("no rows")
			}
			info.Error = err.Error()
			s.logger.Warn().Err(err).Str("domain", string(desc.Domain)).Str("path", path).Msg("catalog file unusable")
		}
	}

	if desc.Domain == core.DomainMovie && s.opts.IMDbRaw != "" {
		raw := s.path(s.opts.IMDbRaw)
		if _, err := os.Stat(raw); err == nil {
			records, err := ProcessIMDbFile(raw, path, IMDbOptions{SampleSize: s.opts.IMDbSampleSize})
			if err != nil {
				s.logger.Warn().Err(err).Str("path", raw).Msg("imdb dump processing")
			}
			if len(records) > 0 {
				info.Source, info.Path = SourceIMDb, raw
				return records, info
			}
		}
	}

	s.logger.Warn().Str("domain", string(desc.Domain)).Msg("catalog not found, using built-in sample")
	return nil, info
}

func (s *CatalogStore) path(p string) string {
	if p == "" || filepath.IsAbs(p) || s.opts.DataDir == "" {
		return p
	}
	return filepath.Join(s.opts.DataDir, p)
}

// publish 写入热度排行与加载信息。
// 排行的分数按名次编码（第一名分数最高），保证各后端返回的顺序与目录内稳定排序一致。
func (s *CatalogStore) publish(ctx context.Context, catalog *core.Catalog, info CatalogInfo) error {
	if s.kv == nil {
		return nil
	}
	key := core.PopularKey(catalog.Domain())
	if err := s.kv.Delete(ctx, key); err != nil {
		return err
	}
	sorted := core.SortByPopularity(catalog.Records())
	total := len(sorted)
	batch := make([]core.ScoredMember, 0, zaddBatch)
	for i, r := range sorted {
		batch = append(batch, core.ScoredMember{Member: r.ID, Score: float64(total - i)})
		if len(batch) == zaddBatch {
			if err := s.kv.ZAdd(ctx, key, batch...); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := s.kv.ZAdd(ctx, key, batch...); err != nil {
			return err
		}
	}

	data, err := json.Marshal(info)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, core.CatalogInfoKey(catalog.Domain()), data)
}

// Get 返回领域目录。
func (s *CatalogStore) Get(d core.Domain) (*core.Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.catalogs[d]
	if !ok {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeUnavailable, "catalog not loaded: "+string(d))
	}
	return c, nil
}

// Info 返回领域目录的加载信息：优先读 KeyValueStore（多实例共享），读不到时使用本进程的记录。
func (s *CatalogStore) Info(ctx context.Context, d core.Domain) (*CatalogInfo, error) {
	if s.kv != nil {
		data, err := s.kv.Get(ctx, core.CatalogInfoKey(d))
		if err == nil {
			var info CatalogInfo
			if err := json.Unmarshal(data, &info); err == nil {
				return &info, nil
			}
		}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.infos[d]
	if !ok {
		return nil, core.ErrStoreNotFound
	}
	return &info, nil
}

// Ready 判断所有领域是否都已加载。
func (s *CatalogStore) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.registry.Domains() {
		if _, ok := s.catalogs[d]; !ok {
			return false
		}
	}
	return true
}

