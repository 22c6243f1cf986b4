package core

// Catalog 是单个领域的只读目录表。
//
// 设计原则：
//   - 进程启动时加载一次，之后不再修改
//   - 并发读无需加锁
//   - 行顺序即源数据顺序，过滤/特征/降维/检索各阶段都依赖该顺序
type Catalog struct {
	domain  Domain
	records []*Record
	byID    map[string]int
}

// NewCatalog 创建目录；id 重复的记录只保留第一条。
func NewCatalog(domain Domain, records []*Record) *Catalog {
	c := &Catalog{
		domain:  domain,
		records: make([]*Record, 0, len(records)),
		byID:    make(map[string]int, len(records)),
	}
	for _, r := range records {
		if r == nil {
			continue
		}
		if _, dup := c.byID[r.ID]; dup {
			continue
		}
		r.Domain = domain
		c.byID[r.ID] = len(c.records)
		c.records = append(c.records, r)
	}
	return c
}

func (c *Catalog) Domain() Domain { return c.domain }

// Len 返回记录数。
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.records)
}

// At 返回第 i 行记录。
func (c *Catalog) At(i int) *Record {
	return c.records[i]
}

// Get 按 id 查找记录。
func (c *Catalog) Get(id string) (*Record, bool) {
	if c == nil {
		return nil, false
	}
	i, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return c.records[i], true
}

// Records 返回记录切片的副本，调用方可以自由重排。
func (c *Catalog) Records() []*Record {
	if c == nil {
		return nil
	}
	out := make([]*Record, len(c.records))
	copy(out, c.records)
	return out
}

// Items 把目录转换为 Pipeline 的输入 Item 列表，Row 为目录中的行号。
func (c *Catalog) Items() []*Item {
	if c == nil {
		return nil
	}
	out := make([]*Item, len(c.records))
	for i, r := range c.records {
		it := NewItem(r.ID)
		it.Record = r
		it.Row = i
		out[i] = it
	}
	return out
}

// TopByPopularity 返回热度最高的 n 条记录（降序，热度相同保持目录顺序）。
func (c *Catalog) TopByPopularity(n int) []*Record {
	sorted := SortByPopularity(c.records)
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
