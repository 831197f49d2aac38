package dataprocessing

import (
	"strings"

	"stockanalytica/internal/errors"
)

const utf8BOM = "\ufeff"

// ColumnIndex maps header names to their position. Names are trimmed and a
// leading byte order mark on the first header is removed.
func ColumnIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		name = strings.TrimSpace(name)
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}
	return index
}

// RequireColumns returns a MissingColumnError naming the first required column
// absent from index.
func RequireColumns(index map[string]int, required []string, source string) error {
	for _, column := range required {
		if _, ok := index[column]; !ok {
			return errors.NewMissingColumnError(column, source)
		}
	}
	return nil
}
