package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"unicode/utf8"

	"github.com/akolanti/DocIngest/internal/domain/commonModels"
	"github.com/akolanti/DocIngest/internal/ingest/locator"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func extractTabularFile(path string, source string, ext string) ([]commonModels.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tabular file: %w", err)
	}
	delimiter := ','
	if ext == ".tsv" {
		delimiter = '\t'
	}
	return extractTabular(source, data, delimiter)
}

// extractTabular turns every row into one document. The whole table is parsed before any
// document is built, so a malformed row fails the file without partial output.
func extractTabular(source string, data []byte, delimiter rune) ([]commonModels.Document, error) {
	if !utf8.Valid(data) {
		return nil, commonModels.ErrInvalidEncoding
	}

	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	reader.Comma = delimiter

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: no header row", commonModels.ErrEmptyPayload)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", commonModels.ErrMalformedPayload, err)
	}
	header = dedupeColumns(header)

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", commonModels.ErrMalformedPayload, err)
	}

	contentColumn := locator.ContentColumn(header, rows)
	contentIndex := 0
	for i, col := range header {
		if col == contentColumn {
			contentIndex = i
			break
		}
	}

	docs := make([]commonModels.Document, 0, len(rows))
	for _, row := range rows {
		md := newMetadata(source, commonModels.Tabular)
		for i, col := range header {
			if i == contentIndex || row[i] == "" {
				continue
			}
			putMetadata(md, col, row[i])
		}
		docs = append(docs, commonModels.Document{
			Content:  row[contentIndex],
			Metadata: md,
		})
	}
	return docs, nil
}

// dedupeColumns renames repeated header names to name.1, name.2, ...
func dedupeColumns(header []string) []string {
	seen := make(map[string]int, len(header))
	out := make([]string, len(header))
	for i, col := range header {
		name := col
		for {
			if _, dup := seen[name]; !dup {
				break
			}
			seen[col]++
			name = col + "." + strconv.Itoa(seen[col])
		}
		seen[name] = 0
		out[i] = name
	}
	return out
}
