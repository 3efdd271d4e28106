package ingest

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/akolanti/DocIngest/internal/domain/commonModels"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir string, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// buildPDF writes a minimal PDF with one Helvetica text run per page. An empty page string
// produces a page with an empty content stream.
func buildPDF(pages []string, info map[string]string) []byte {
	var objects []string

	// 1 catalog, 2 page tree, 3 font, then page/content pairs, then info
	pageIds := make([]string, len(pages))
	for i := range pages {
		pageIds[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(pageIds, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)
	for i, text := range pages {
		contentId := 5 + 2*i
		objects = append(objects, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			contentId))
		stream := ""
		if text != "" {
			stream = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		}
		objects = append(objects, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	infoId := 0
	if len(info) > 0 {
		keys := make([]string, 0, len(info))
		for k := range info {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var dict strings.Builder
		dict.WriteString("<<")
		for _, k := range keys {
			fmt.Fprintf(&dict, " /%s (%s)", k, info[k])
		}
		dict.WriteString(" >>")
		objects = append(objects, dict.String())
		infoId = len(objects)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	trailer := fmt.Sprintf("<< /Size %d /Root 1 0 R", len(objects)+1)
	if infoId > 0 {
		trailer += fmt.Sprintf(" /Info %d 0 R", infoId)
	}
	trailer += " >>"
	fmt.Fprintf(&buf, "trailer\n%s\nstartxref\n%d\n%%%%EOF\n", trailer, xrefOffset)
	return buf.Bytes()
}

type recordingSink struct {
	sources []string
	docs    int
	err     error
}

func (s *recordingSink) Deliver(_ context.Context, source string, docs []commonModels.Document) error {
	s.sources = append(s.sources, source)
	s.docs += len(docs)
	return s.err
}
