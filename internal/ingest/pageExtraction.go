package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/akolanti/DocIngest/internal/domain/commonModels"
	"github.com/akolanti/DocIngest/pkg/logger_i"
	"github.com/dslipak/pdf"
)

var errPageTimeout = errors.New("page extraction timeout")

func extractPaginatedFile(path string, source string, pageTimeout time.Duration, log *logger_i.Logger) (commonModels.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return commonModels.Document{}, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return commonModels.Document{}, fmt.Errorf("failed to stat pdf: %w", err)
	}
	return extractPaginated(source, f, info.Size(), pageTimeout, log)
}

// extractPaginated always yields one document. Pages without text add nothing to the content,
// a page that fails to extract is logged and treated as empty.
func extractPaginated(source string, r io.ReaderAt, size int64, pageTimeout time.Duration, log *logger_i.Logger) (doc commonModels.Document, err error) {
	// the pdf parser panics on some broken cross reference tables
	defer func() {
		if rec := recover(); rec != nil {
			doc = commonModels.Document{}
			err = fmt.Errorf("%w: unreadable pdf: %v", commonModels.ErrMalformedPayload, rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return commonModels.Document{}, fmt.Errorf("%w: failed to read pdf: %v", commonModels.ErrMalformedPayload, err)
	}

	numPages := reader.NumPage()
	log.Debug("extractPaginated", "source", source, "number of pages", numPages)

	var content strings.Builder
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			log.Debug("extractPaginated", "page value is null", i)
			continue
		}

		text, err := protectExtract(page, pageTimeout)
		if err != nil {
			log.Warn("Error parsing page content", "source", source, "page", i, "error", err)
			continue
		}
		if text == "" {
			continue
		}
		content.WriteString("--- Page " + strconv.Itoa(i) + " ---\n")
		content.WriteString(text)
		content.WriteString("\n\n")
	}

	md := newMetadata(source, commonModels.Paginated)
	md[commonModels.MetaNumPages] = int64(numPages)
	copyDocumentInfo(md, reader.Trailer().Key("Info"))

	return commonModels.Document{
		Content:  content.String(),
		Metadata: md,
	}, nil
}

// copyDocumentInfo copies string valued Info entries, keys without the name marker and lower cased.
func copyDocumentInfo(md commonModels.Metadata, info pdf.Value) {
	if info.Kind() != pdf.Dict {
		return
	}
	for _, key := range info.Keys() {
		value := info.Key(key)
		if value.Kind() != pdf.String {
			continue
		}
		text := value.Text()
		cleanKey := strings.ToLower(strings.TrimPrefix(key, "/"))
		if cleanKey == "" || text == "" {
			continue
		}
		putMetadata(md, cleanKey, text)
	}
}

func protectExtract(page pdf.Page, timeout time.Duration) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				resChan <- result{"", fmt.Errorf("page parser panic: %v", rec)}
			}
		}()
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(timeout):
		return "", errPageTimeout
	}
}
