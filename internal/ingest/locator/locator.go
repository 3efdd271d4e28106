// Package locator picks the field or column that carries the primary text of a record
// when the source does not say which one it is.
package locator

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// PriorityNames are checked in order, exact and case-sensitive.
var PriorityNames = []string{"content", "text", "description", "abstract", "body"}

// MinFieldLength is the rune count a string field must exceed to be picked by length.
const MinFieldLength = 50

// Field is one key of a record in document order. Value holds a decoded scalar
// (string, int64, float64, bool, nil) or a nested object/list.
type Field struct {
	Key   string
	Value any
}

// ContentColumn returns the content column for a table. Rows may be shorter than the header;
// missing cells are treated as empty.
func ContentColumn(header []string, rows [][]string) string {
	if len(header) == 0 {
		return ""
	}
	for _, name := range PriorityNames {
		for _, col := range header {
			if col == name {
				return name
			}
		}
	}

	best := -1
	bestMean := -1.0
	for i := range header {
		if !isTextColumn(rows, i) {
			continue
		}
		mean := meanLength(rows, i)
		if mean > bestMean {
			best, bestMean = i, mean
		}
	}
	if best >= 0 {
		return header[best]
	}
	return header[0]
}

// ContentField returns the content key of a record, false when no field qualifies.
func ContentField(fields []Field) (string, bool) {
	for _, name := range PriorityNames {
		for _, f := range fields {
			if f.Key != name {
				continue
			}
			if _, ok := f.Value.(string); ok {
				return name, true
			}
		}
	}

	bestKey := ""
	bestLen := MinFieldLength
	for _, f := range fields {
		s, ok := f.Value.(string)
		if !ok {
			continue
		}
		if n := utf8.RuneCountInString(s); n > bestLen {
			bestKey, bestLen = f.Key, n
		}
	}
	if bestKey == "" {
		return "", false
	}
	return bestKey, true
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// a column is text-like when some non-empty cell is neither a number nor a boolean
func isTextColumn(rows [][]string, i int) bool {
	for _, row := range rows {
		v := strings.TrimSpace(cell(row, i))
		if v == "" || isNumeric(v) || isBoolLiteral(v) {
			continue
		}
		return true
	}
	return false
}

func meanLength(rows [][]string, i int) float64 {
	if len(rows) == 0 {
		return 0
	}
	total := 0
	for _, row := range rows {
		total += utf8.RuneCountInString(cell(row, i))
	}
	return float64(total) / float64(len(rows))
}

func isNumeric(v string) bool {
	_, err := strconv.ParseFloat(v, 64)
	return err == nil
}

func isBoolLiteral(v string) bool {
	switch v {
	case "True", "False", "true", "false", "TRUE", "FALSE":
		return true
	}
	return false
}
