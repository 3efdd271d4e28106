package ingest

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/akolanti/DocIngest/internal/domain/commonModels"
	"github.com/akolanti/DocIngest/internal/ingest/locator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonRecords(t *testing.T, payload string) ([]commonModels.Document, error) {
	t.Helper()
	root, err := parseJSONRecord([]byte(payload))
	require.NoError(t, err)
	return extractRecords("records.json", root)
}

func TestExtractRecords_Collection(t *testing.T) {
	docs, err := jsonRecords(t, `[
		{"title": "A", "content": "first", "year": 2020, "tags": ["x"], "nested": {"k": 1}},
		{"id": 7},
		{"body": "third", "ratio": 0.25, "draft": false, "missing": null}
	]`)

	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "first", docs[0].Content)
	assert.Equal(t, commonModels.Metadata{
		commonModels.MetaSource:   "records.json",
		commonModels.MetaFileType: "structured-record",
		"title":                   "A",
		"year":                    int64(2020),
	}, docs[0].Metadata)

	assert.Equal(t, "third", docs[1].Content)
	assert.Equal(t, 0.25, docs[1].Metadata["ratio"])
	assert.Equal(t, false, docs[1].Metadata["draft"])
	assert.NotContains(t, docs[1].Metadata, "missing")
}

func TestExtractRecords_SingleMapping(t *testing.T) {
	intro := strings.Repeat("a", 120)
	docs, err := jsonRecords(t, `{"intro": "`+intro+`", "short": "tiny", "meta": {"content": "c", "tag": "x"}}`)

	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, intro, docs[0].Content)
	assert.Equal(t, "intro", docs[0].Metadata[commonModels.MetaKey])

	assert.Equal(t, "c", docs[1].Content)
	assert.Equal(t, "meta", docs[1].Metadata[commonModels.MetaDocumentId])
	assert.Equal(t, "x", docs[1].Metadata["tag"])
}

func TestExtractRecords_LongestStringFallback(t *testing.T) {
	long := strings.Repeat("word ", 20)
	docs, err := jsonRecords(t, `[{"summary": "short", "notes": "`+long+`"}]`)

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, long, docs[0].Content)
	assert.Equal(t, "short", docs[0].Metadata["summary"])
}

func TestExtractRecords_NoValidDocuments(t *testing.T) {
	_, err := jsonRecords(t, `{"id": 1, "note": "short"}`)
	assert.ErrorIs(t, err, commonModels.ErrNoValidDocuments)

	_, err = jsonRecords(t, `[]`)
	assert.ErrorIs(t, err, commonModels.ErrNoValidDocuments)

	_, err = jsonRecords(t, `"just a string"`)
	assert.ErrorIs(t, err, commonModels.ErrNoValidDocuments)
}

func TestParseJSONRecord_Malformed(t *testing.T) {
	_, err := parseJSONRecord([]byte(`{"content": "x",`))
	assert.ErrorIs(t, err, commonModels.ErrMalformedPayload)

	_, err = parseJSONRecord([]byte("  \n"))
	assert.ErrorIs(t, err, commonModels.ErrEmptyPayload)
}

func TestParseJSONRecord_DuplicateKeysLastWins(t *testing.T) {
	root, err := parseJSONRecord([]byte(`{"a": 1, "b": 2, "a": 3}`))
	require.NoError(t, err)

	docs, err := extractRecords("dup.json", []any{root})
	assert.ErrorIs(t, err, commonModels.ErrNoValidDocuments, "no string field means no content")
	assert.Nil(t, docs)

	fields := root.([]locator.Field)
	require.Len(t, fields, 2)
	assert.Equal(t, "a", fields[0].Key)
	assert.Equal(t, int64(3), fields[0].Value)
}

func TestParseYAMLRecord(t *testing.T) {
	payload := `
defaults: &d
  lang: en
items:
  - text: hello world
    count: 3
    ratio: 1.5
    active: true
    <<: *d
`
	root, err := parseYAMLRecord([]byte(payload))
	require.NoError(t, err)

	fields := root.([]locator.Field)
	require.Len(t, fields, 2)
	items := fields[1].Value.([]any)
	require.Len(t, items, 1)

	docs, err := extractRecords("records.yaml", items)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "hello world", docs[0].Content)
	assert.Equal(t, int64(3), docs[0].Metadata["count"])
	assert.Equal(t, 1.5, docs[0].Metadata["ratio"])
	assert.Equal(t, true, docs[0].Metadata["active"])
}

func TestParseYAMLRecord_Malformed(t *testing.T) {
	_, err := parseYAMLRecord([]byte("a: [1, 2"))
	assert.ErrorIs(t, err, commonModels.ErrMalformedPayload)

	_, err = parseYAMLRecord([]byte(""))
	assert.ErrorIs(t, err, commonModels.ErrEmptyPayload)
}

func TestExtractRecordFile_InvalidEncoding(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.json", []byte("{\"content\": \"\xff\"}"))

	_, err := extractRecordFile(path, "bad.json", ".json")

	assert.ErrorIs(t, err, commonModels.ErrInvalidEncoding)
}

func TestParseYAMLRecord_AliasExpansionBounded(t *testing.T) {
	var payload strings.Builder
	payload.WriteString("a0: &a0 lol\n")
	for level := 1; level <= 8; level++ {
		refs := strings.TrimSuffix(strings.Repeat(fmt.Sprintf("*a%d, ", level-1), 10), ", ")
		fmt.Fprintf(&payload, "a%d: &a%d [%s]\n", level, level, refs)
	}

	_, err := parseYAMLRecord([]byte(payload.String()))

	assert.ErrorIs(t, err, commonModels.ErrMalformedPayload)
}

func TestParseYAMLRecord_ModestAliasReuse(t *testing.T) {
	var payload strings.Builder
	payload.WriteString("shared: &s {lang: en, team: docs}\nitems:\n")
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&payload, "  - {content: note %d, owner: *s}\n", i)
	}

	root, err := parseYAMLRecord([]byte(payload.String()))

	require.NoError(t, err)
	items := root.([]locator.Field)[1].Value.([]any)
	assert.Len(t, items, 50)
}

func TestExtractRecordFile_NonFiniteFloatsDropped(t *testing.T) {
	path := writeFile(t, t.TempDir(), "scores.yaml", []byte("- content: hello\n  score: .nan\n  high: .inf\n  low: -.inf\n  ratio: 0.5\n"))

	docs, err := extractRecordFile(path, "scores.yaml", ".yaml")

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.NotContains(t, docs[0].Metadata, "score")
	assert.NotContains(t, docs[0].Metadata, "high")
	assert.NotContains(t, docs[0].Metadata, "low")
	assert.Equal(t, 0.5, docs[0].Metadata["ratio"])
	_, err = json.Marshal(docs[0])
	assert.NoError(t, err)
}
