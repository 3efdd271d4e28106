package ingest

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/akolanti/DocIngest/internal/domain/commonModels"
	"github.com/akolanti/DocIngest/internal/ingest/locator"
)

// LongTextThreshold is the rune count a top-level string must exceed to become its own document.
const LongTextThreshold = 100

func extractRecordFile(path string, source string, ext string) ([]commonModels.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record file: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, commonModels.ErrInvalidEncoding
	}

	var root any
	switch ext {
	case ".yaml", ".yml":
		root, err = parseYAMLRecord(data)
	default:
		root, err = parseJSONRecord(data)
	}
	if err != nil {
		return nil, err
	}
	return extractRecords(source, root)
}

func extractRecords(source string, root any) ([]commonModels.Document, error) {
	var docs []commonModels.Document

	switch payload := root.(type) {
	case []any:
		for _, item := range payload {
			fields, ok := item.([]locator.Field)
			if !ok {
				continue
			}
			if doc, found := recordDocument(source, fields, ""); found {
				docs = append(docs, doc)
			}
		}

	case []locator.Field:
		for _, field := range payload {
			switch value := field.Value.(type) {
			case string:
				if utf8.RuneCountInString(value) <= LongTextThreshold {
					continue
				}
				md := newMetadata(source, commonModels.StructuredRecord)
				md[commonModels.MetaKey] = field.Key
				docs = append(docs, commonModels.Document{Content: value, Metadata: md})

			case []locator.Field:
				if doc, found := recordDocument(source, value, field.Key); found {
					docs = append(docs, doc)
				}
			}
		}
	}

	if len(docs) == 0 {
		return nil, commonModels.ErrNoValidDocuments
	}
	return docs, nil
}

// recordDocument builds a document from one object. found is false when the object has no
// content field; the caller skips it without an error.
func recordDocument(source string, fields []locator.Field, documentId string) (commonModels.Document, bool) {
	contentField, found := locator.ContentField(fields)
	if !found {
		return commonModels.Document{}, false
	}

	md := newMetadata(source, commonModels.StructuredRecord)
	if documentId != "" {
		md[commonModels.MetaDocumentId] = documentId
	}

	var content string
	for _, field := range fields {
		if field.Key == contentField {
			content, _ = field.Value.(string)
			continue
		}
		putMetadata(md, field.Key, field.Value)
	}
	return commonModels.Document{Content: content, Metadata: md}, true
}
