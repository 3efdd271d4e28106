package commonModels

type FileType string

const (
	Text             FileType = "text"
	Tabular          FileType = "tabular"
	StructuredRecord FileType = "structured-record"
	Paginated        FileType = "paginated-document"
	Unknown          FileType = "unknown"
)

func (f FileType) IsKnown() bool {
	switch f {
	case Text, Tabular, StructuredRecord, Paginated:
		return true
	default:
		return false
	}
}

// Metadata values are restricted to string, int64, float64 and bool.
type Metadata map[string]any

// reserved metadata keys
const (
	MetaSource     = "source"
	MetaFileType   = "file_type"
	MetaKey        = "key"
	MetaDocumentId = "document_id"
	MetaNumPages   = "num_pages"
)

type Document struct {
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
}

// IngestionResult is the outcome of one file. Text and paginated files set Document,
// tabular and structured-record files set Documents.
type IngestionResult struct {
	Success   bool       `json:"success"`
	Document  *Document  `json:"document,omitempty"`
	Documents []Document `json:"documents,omitempty"`
	Error     string     `json:"error,omitempty"`
}

func (r IngestionResult) DocumentCount() int {
	if !r.Success {
		return 0
	}
	if r.Document != nil {
		return 1
	}
	return len(r.Documents)
}

// AllDocuments flattens the single and multi document forms.
func (r IngestionResult) AllDocuments() []Document {
	if r.Document != nil {
		return []Document{*r.Document}
	}
	return r.Documents
}

func SingleResult(doc Document) IngestionResult {
	return IngestionResult{Success: true, Document: &doc}
}

func MultiResult(docs []Document) IngestionResult {
	if docs == nil {
		docs = []Document{}
	}
	return IngestionResult{Success: true, Documents: docs}
}

func FailedResult(err error) IngestionResult {
	return IngestionResult{Success: false, Error: err.Error()}
}

type RunStats struct {
	FilesProcessed    int64 `json:"files_processed"`
	DocumentsIngested int64 `json:"documents_ingested"`
	Errors            int64 `json:"errors"`
	FilesSkipped      int64 `json:"files_skipped"`
}
