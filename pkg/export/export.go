package export

// Dataset is a column-ordered table handed to the exporters. Rows map header
// name to cell value; missing keys render empty.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}
