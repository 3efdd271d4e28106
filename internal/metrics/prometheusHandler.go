package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var countJobsInQueue = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "count_jobs_in_queue",
	Help: "Number of jobs in queue",
})

var dispatcherSignalCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "dispatcher_signal_count",
	Help: "How often the dispatcher has signaled to start worker",
})

var activeWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_worker_count",
	Help: "Number of active workers",
})

var filesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ingest_files_processed_total",
	Help: "Files extracted successfully, labelled by file type",
}, []string{"file_type"})

var fileErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ingest_file_errors_total",
	Help: "Files that failed extraction, labelled by file type",
}, []string{"file_type"})

var documentsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ingest_documents_total",
	Help: "Normalized documents produced, labelled by file type",
}, []string{"file_type"})

var extractionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "ingest_file_duration_seconds",
	Help:    "Time spent extracting one file.",
	Buckets: []float64{.005, .01, .05, .1, .5, 1, 5, 10},
}, []string{"file_type"})

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "process_job_duration_seconds",
	Help:    "Total time spent executing an ingest job.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30, 120},
}, []string{"status"})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func IncrementJobsInQueue() {
	countJobsInQueue.Inc()
}

func DecrementJobsInQueue() {
	countJobsInQueue.Dec()
}

func StartDispatcherSignalCount() {
	dispatcherSignalCount.Inc()
}

func IncrementActiveWorkerCount() {
	activeWorkerCount.Inc()
}
func DecrementActiveWorkerCount() {
	activeWorkerCount.Dec()
}

func CaptureFileSuccess(fileType string, documents int, timeElapsed time.Duration) {
	filesProcessed.WithLabelValues(fileType).Inc()
	documentsIngested.WithLabelValues(fileType).Add(float64(documents))
	extractionDuration.WithLabelValues(fileType).Observe(timeElapsed.Seconds())
}

func CaptureFileError(fileType string, timeElapsed time.Duration) {
	fileErrors.WithLabelValues(fileType).Inc()
	extractionDuration.WithLabelValues(fileType).Observe(timeElapsed.Seconds())
}

func CaptureJobMetrics(label string, timeElapsed time.Duration) {
	requestDuration.WithLabelValues(label).Observe(timeElapsed.Seconds())
}
