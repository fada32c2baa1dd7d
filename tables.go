package typeset

// cachedTable is one memoized raw-table lookup. Missing tables are cached
// too, so repeated probes for a table the font lacks stay cheap.
type cachedTable struct {
	data []byte
	err  error
}

// tableCache memoizes raw font tables for a FontEntry. The raw bytes are
// shared between every caller and every Font created from the entry, so
// callers must not modify the returned slices.
type tableCache struct {
	tables map[TableTag]cachedTable
}

// get returns the cached table for tag, loading it with load on first use.
func (c *tableCache) get(tag TableTag, load func(TableTag) ([]byte, error)) ([]byte, error) {
	if t, ok := c.tables[tag]; ok {
		return t.data, t.err
	}
	data, err := load(tag)
	if c.tables == nil {
		c.tables = make(map[TableTag]cachedTable)
	}
	c.tables[tag] = cachedTable{data: data, err: err}
	return data, err
}
