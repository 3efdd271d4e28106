package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/akolanti/DocIngest/internal/api"
	"github.com/akolanti/DocIngest/internal/config"
	"github.com/akolanti/DocIngest/internal/data/store"
	"github.com/akolanti/DocIngest/internal/domain/commonModels"
	"github.com/akolanti/DocIngest/internal/domain/jobModel"
	"github.com/akolanti/DocIngest/internal/job"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testService    *job.Service
	testUploadDir  string
	testIngestRoot string
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "handlers-upload")
	if err != nil {
		panic(err)
	}
	testUploadDir = dir
	testService = job.InitJobService(job.ServiceConfig{
		JobChannel:        make(chan jobModel.Job, 10),
		DispatcherChannel: make(chan bool, 1),
		JobStore:          store.InitInMemoryJobStore(),
		DocumentStore:     store.InitInMemoryDocumentStore(),
	})
	testIngestRoot = os.TempDir()
	InitJobHandler(testService, config.IngestConfig{UploadDirectory: testUploadDir, Root: testIngestRoot})

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func testRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Get("/health", GetHandler)
	r.Post("/ingest", PostIngestHandler)
	r.Post("/ingest/upload", PostUploadHandler)
	r.Get("/status/{id}", GetStatusHandler)
	r.Get("/documents/{id}", GetDocumentsHandler)
	return r
}

func nextJob(t *testing.T) jobModel.Job {
	t.Helper()
	select {
	case queued := <-testService.JobChannel:
		return queued
	default:
		t.Fatal("expected a queued job")
		return jobModel.Job{}
	}
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPostIngest_Directory(t *testing.T) {
	dir := t.TempDir()
	body := `{"path": "` + filepath.ToSlash(dir) + `", "file_type": "tabular"}`

	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ingest", bytes.NewBufferString(body)))

	require.Equal(t, http.StatusAccepted, rec.Code)
	var res api.InitJobResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "status/"+res.Id, res.StatusURL)

	queued := nextJob(t)
	assert.Equal(t, res.Id, queued.Id)
	assert.Equal(t, jobModel.JobTypeDirectory, queued.JobType)
	assert.Equal(t, "tabular", queued.JobPayload.TypeFilter)

	statusRec := httptest.NewRecorder()
	testRouter().ServeHTTP(statusRec, httptest.NewRequest(http.MethodGet, "/status/"+res.Id, nil))
	require.Equal(t, http.StatusOK, statusRec.Code)
	var status api.JobResponse
	require.NoError(t, json.Unmarshal(statusRec.Body.Bytes(), &status))
	assert.Equal(t, string(jobModel.JobStatusQueued), status.Result.Status)
}

func TestPostIngest_FilePath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-file.csv")
	body, err := json.Marshal(api.IngestRequest{Path: missing})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ingest", bytes.NewBuffer(body)))

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, jobModel.JobTypeFile, nextJob(t).JobType)
}

func TestPostIngest_PathOutsideRoot(t *testing.T) {
	inside := t.TempDir()
	outside := filepath.Dir(resolveRoot(testIngestRoot))
	tests := []struct {
		name string
		path string
	}{
		{"absolute system file", "/etc/passwd"},
		{"relative traversal", "../etc/passwd"},
		{"traversal from a nested directory", filepath.Join(inside, "..", "..", "..", "etc")},
		{"parent of the root", outside},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(api.IngestRequest{Path: tt.path})
			require.NoError(t, err)

			rec := httptest.NewRecorder()
			testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ingest", bytes.NewBuffer(body)))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, testService.JobChannel)
		})
	}
}

func TestPostIngest_SymlinkOutOfRoot(t *testing.T) {
	link := filepath.Join(t.TempDir(), "escape")
	if err := os.Symlink("/etc", link); err != nil {
		t.Skip("symlinks not supported:", err)
	}
	body, err := json.Marshal(api.IngestRequest{Path: filepath.Join(link, "passwd")})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ingest", bytes.NewBuffer(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, testService.JobChannel)
}

func TestResolveIngestPath(t *testing.T) {
	root := t.TempDir()
	resolvedRoot := resolveRoot(root)

	path, inside := resolveIngestPath(resolvedRoot, "docs/a.csv")
	assert.True(t, inside)
	assert.Equal(t, filepath.Join(resolvedRoot, "docs", "a.csv"), path)

	path, inside = resolveIngestPath(resolvedRoot, "docs/../a.csv")
	assert.True(t, inside)
	assert.Equal(t, filepath.Join(resolvedRoot, "a.csv"), path)

	_, inside = resolveIngestPath(resolvedRoot, "docs/../../a.csv")
	assert.False(t, inside)
}

func TestPostIngest_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"path":`},
		{"missing path", `{"file_type": "tabular"}`},
		{"bad filter", `{"path": "/tmp", "file_type": "../etc"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ingest", bytes.NewBufferString(tt.body)))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var res api.JobResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
			require.NotNil(t, res.Error)
			assert.Equal(t, http.StatusBadRequest, res.Error.Code)
		})
	}
}

func TestPostUpload(t *testing.T) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("document", "rows.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("content\nhello\n"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/ingest/upload", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	queued := nextJob(t)
	assert.True(t, queued.JobPayload.Uploaded)
	assert.Equal(t, "rows.csv", queued.JobPayload.OriginalName)

	data, err := os.ReadFile(queued.JobPayload.Path)
	require.NoError(t, err)
	assert.Equal(t, "content\nhello\n", string(data))
}

func TestPostUpload_MissingFile(t *testing.T) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("other", "value"))
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/ingest/upload", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetStatus_NotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status/ghost", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/documents/ghost", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetDocuments(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, testService.JobStore.SaveJob(ctx, jobModel.Job{Id: "done-job", Status: jobModel.JobStatusComplete}))
	require.NoError(t, testService.DocumentStore.AppendDocuments(ctx, "done-job", []commonModels.Document{
		{Content: "one", Metadata: commonModels.Metadata{"source": "a.txt", "file_type": "text"}},
		{Content: "two", Metadata: commonModels.Metadata{"source": "b.txt", "file_type": "text"}},
	}))

	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/documents/done-job", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var res api.DocumentsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, "one", res.Documents[0].Content)
	assert.Equal(t, "b.txt", res.Documents[1].Metadata["source"])
}
