package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/akolanti/DocIngest/internal/adapter"
	"github.com/akolanti/DocIngest/internal/adapter/utils"
	"github.com/akolanti/DocIngest/internal/api"
	"github.com/akolanti/DocIngest/internal/config"
	"github.com/akolanti/DocIngest/internal/domain/jobModel"
	"github.com/akolanti/DocIngest/pkg/logger_i"
)

var logRH *logger_i.Logger

// decouples the http layer from the job model
type newJobData struct {
	id           string
	traceId      string
	jobType      jobModel.JobType
	path         string
	typeFilter   string
	uploaded     bool
	originalName string
}

// GetHandler godoc
// @Summary      Health check
// @Tags         Health
// @Success      200
// @Router       /health [get]
func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// PostIngestHandler godoc
// @Summary      Ingest a server side path
// @Description  Queues an ingestion job for a directory (non recursive) or a single file under the ingest root and returns a job ID to track status. Relative paths resolve against the root.
// @Tags         Ingestion
// @Accept       json
// @Produce      json
// @Param        request  body      api.IngestRequest    true  "Path and optional file type filter"
// @Success      202      {object}  api.InitJobResponse  "Job successfully created"
// @Failure      400      {object}  api.JobResponse      "Invalid request data or path outside the ingest root"
// @Router       /ingest [post]
func PostIngestHandler(w http.ResponseWriter, request *http.Request) {
	if !validateContext(request.Context()) {
		logRH.Warn("Invalid Context by request", "remote", request.RemoteAddr)
		return
	}

	var requestData api.IngestRequest
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logRH.Error("Couldn't close the ingest handler reader", "err", err)
		}
	}(request.Body)

	if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || !validateIngestRequest(requestData) {
		logRH.Warn("Bad Ingest Request", "error", err, "request data", requestData)
		WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
		return
	}

	path, inside := resolveIngestPath(handlerInstance.ingestRoot, requestData.Path)
	if !inside {
		logRH.Warn("Ingest path outside the ingest root", "path", requestData.Path)
		WriteErrorResponse(w, http.StatusBadRequest, "", "Path outside the ingest root")
		return
	}

	jobType := jobModel.JobTypeFile
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		jobType = jobModel.JobTypeDirectory
	}

	processNewJobData(request, w, newJobData{
		jobType:    jobType,
		path:       path,
		typeFilter: requestData.FileType,
	})
}

// PostUploadHandler godoc
// @Summary      Upload a document for ingestion
// @Description  Receives a file via multipart/form-data, saves it to a temporary directory, and queues a single file ingestion job. The file is removed once the job ends.
// @Tags         Ingestion
// @Accept       multipart/form-data
// @Produce      json
// @Param        document       formData  file    true  "The file to ingest"
// @Success      202  {object}  api.InitJobResponse "Accepted - returns job_id"
// @Failure      400  {object}  api.JobResponse "Bad Request - Missing fields or file too large"
// @Failure      500  {object}  api.JobResponse "Internal Server Error - Storage or Write Error"
// @Router       /ingest/upload [post]
func PostUploadHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request", "remote", r.RemoteAddr)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize)
	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("document")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	originalName := filepath.Base(fileMetadata.Filename)
	if originalName == "." || originalName == string(filepath.Separator) {
		WriteErrorResponse(w, http.StatusBadRequest, "", "Invalid file name")
		return
	}

	jobId := utils.GetNewUUID()
	// one directory per job keeps the original name as the document source
	targetDir, errString := getTargetDirectory(handlerInstance.uploadDir, jobId)
	if errString != "" {
		logRH.Error("Couldn't get target directory", "err", errString)
		WriteErrorResponse(w, http.StatusInternalServerError, "", errString)
		return
	}

	tempFilePath := filepath.Join(targetDir, originalName)
	destinationFileWriter, err := os.Create(tempFilePath)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, originalName, "Storage error")
		return
	}
	defer destinationFileWriter.Close()

	if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
		_ = os.RemoveAll(targetDir)
		WriteErrorResponse(w, http.StatusInternalServerError, originalName, "Write error")
		return
	}

	processNewJobData(r, w, newJobData{
		id:           jobId,
		jobType:      jobModel.JobTypeFile,
		path:         tempFilePath,
		uploaded:     true,
		originalName: originalName,
	})
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of a job; directory jobs report run statistics, file jobs the file outcome.
// @Tags         Job Status
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Job ID "
// @Success      200  {object}  api.JobResponse   "Successful retrieval of job status"
// @Failure      404  {object}  api.JobResponse   "Job not found (returns Error object within JobResponse)"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	idString := utils.GetChiURLParam(r, "id")
	result, isFound := validateId(idString, traceIdFrom(r))

	logRH.Debug("Get Status Request", "URL path", r.URL.Path)
	if !isFound {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
}

// GetDocumentsHandler godoc
// @Summary      Get job documents
// @Description  Returns the normalized documents produced by a job, in delivery order.
// @Tags         Job Status
// @Produce      json
// @Param        id   path      string  true  "Job ID "
// @Success      200  {object}  api.DocumentsResponse "Documents produced so far"
// @Failure      404  {object}  api.JobResponse       "Job not found"
// @Failure      500  {object}  api.JobResponse       "Document store error"
// @Router       /documents/{id} [get]
func GetDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	idString := utils.GetChiURLParam(r, "id")
	traceId := traceIdFrom(r)
	if _, isFound := validateId(idString, traceId); !isFound {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
		return
	}

	docs, err := GetJobDocuments(idString, traceId)
	if err != nil {
		logRH.Error("Failed reading documents", "jobId", idString, "err", err)
		WriteErrorResponse(w, http.StatusInternalServerError, idString, "Document store error")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToDocumentsResponse(idString, docs))
}
