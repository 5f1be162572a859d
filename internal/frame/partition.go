package frame

// Partition groups the columns of t by category. Each sub-table keeps the
// original column order. Columns without a category are left out, and
// categories naming columns absent from t are ignored.
func Partition(t *Table, categories map[string]string) map[string]*Table {
	groups := make(map[string][]int)
	for j, name := range t.names {
		if cat, ok := categories[name]; ok {
			groups[cat] = append(groups[cat], j)
		}
	}

	out := make(map[string]*Table, len(groups))
	for cat, idx := range groups {
		names := make([]string, len(idx))
		cols := make([][]Cell, len(idx))
		for k, j := range idx {
			names[k] = t.names[j]
			cols[k] = t.ColumnAt(j)
		}
		// names are a subset of t's unique names and share its row count
		sub, _ := FromColumns(names, cols)
		out[cat] = sub
	}
	return out
}
