package ingest

import (
	"path/filepath"
	"strings"

	"github.com/akolanti/DocIngest/internal/domain/commonModels"
)

var extensionTypes = map[string]commonModels.FileType{
	".txt":  commonModels.Text,
	".md":   commonModels.Text,
	".docx": commonModels.Text,
	".odt":  commonModels.Text,
	".rtf":  commonModels.Text,
	".csv":  commonModels.Tabular,
	".tsv":  commonModels.Tabular,
	".json": commonModels.StructuredRecord,
	".yaml": commonModels.StructuredRecord,
	".yml":  commonModels.StructuredRecord,
	".pdf":  commonModels.Paginated,
}

func GetFileType(path string) commonModels.FileType {
	if fileType, ok := extensionTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return fileType
	}
	return commonModels.Unknown
}

// matchesFilter accepts a format tag ("tabular") or an extension (".csv" or "csv").
// An empty filter matches every file.
func matchesFilter(path string, filter string) bool {
	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" {
		return true
	}
	if fileType := commonModels.FileType(filter); fileType.IsKnown() {
		return GetFileType(path) == fileType
	}
	if !strings.HasPrefix(filter, ".") {
		filter = "." + filter
	}
	return strings.ToLower(filepath.Ext(path)) == filter
}

// dispatch routes an existing file to its extractor. Extractor failures come back as failed results.
func (in *Ingestor) dispatch(path string, fileType commonModels.FileType) commonModels.IngestionResult {
	source := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(path))

	switch fileType {
	case commonModels.Text:
		doc, err := extractTextFile(path, source, ext)
		if err != nil {
			return commonModels.FailedResult(err)
		}
		return commonModels.SingleResult(doc)

	case commonModels.Tabular:
		docs, err := extractTabularFile(path, source, ext)
		if err != nil {
			return commonModels.FailedResult(err)
		}
		return commonModels.MultiResult(docs)

	case commonModels.StructuredRecord:
		docs, err := extractRecordFile(path, source, ext)
		if err != nil {
			return commonModels.FailedResult(err)
		}
		return commonModels.MultiResult(docs)

	case commonModels.Paginated:
		doc, err := extractPaginatedFile(path, source, in.pageTimeout, in.logger)
		if err != nil {
			return commonModels.FailedResult(err)
		}
		return commonModels.SingleResult(doc)

	default:
		return commonModels.FailedResult(commonModels.ErrUnsupportedFormat)
	}
}
