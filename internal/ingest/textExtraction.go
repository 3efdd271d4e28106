package ingest

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/akolanti/DocIngest/internal/domain/commonModels"
	"github.com/lu4p/cat"
)

func extractTextFile(path string, source string, ext string) (commonModels.Document, error) {
	var text string
	switch ext {
	case ".docx", ".odt", ".rtf":
		// cat reads .odt, .docx and .rtf into plain text
		content, err := cat.File(path)
		if err != nil {
			return commonModels.Document{}, fmt.Errorf("failed to extract %s: %w", ext, err)
		}
		text = content
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return commonModels.Document{}, fmt.Errorf("failed to read text file: %w", err)
		}
		text = string(data)
	}
	return textDocument(source, text)
}

func textDocument(source string, text string) (commonModels.Document, error) {
	if !utf8.ValidString(text) {
		return commonModels.Document{}, commonModels.ErrInvalidEncoding
	}
	return commonModels.Document{
		Content:  text,
		Metadata: newMetadata(source, commonModels.Text),
	}, nil
}
