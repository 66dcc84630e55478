package extract

// BuildRows runs the item segmenter over section text and extracts every
// schema column from each item. Rows with no non-empty value are dropped.
// Deterministic given identical inputs; row order follows document order.
func BuildRows(section string, schema Schema) RowSet {
	var rows RowSet
	for _, item := range SegmentItems(section) {
		row := make(Row, len(schema))
		for _, col := range schema {
			row[col.Name] = ExtractField(item, col)
		}
		if row.HasValue() {
			rows = append(rows, row)
		}
	}
	return rows
}
