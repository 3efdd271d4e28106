package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/DocIngest/internal/config"
	"github.com/akolanti/DocIngest/internal/handlers"
	"github.com/akolanti/DocIngest/internal/metrics"
	"github.com/akolanti/DocIngest/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

var (
	authToken = config.AuthToken
	noAuth    = config.NoAuthBypass
)

// Configure sets the bearer token checked by every wrapped handler.
func Configure(cfg config.ServerConfig) {
	authToken = cfg.AuthToken
	noAuth = cfg.NoAuth
}

var GetHandler = Wrap(handlers.GetHandler)

var PostIngestHandler = Wrap(handlers.PostIngestHandler)
var PostUploadHandler = Wrap(handlers.PostUploadHandler)
var GetStatusHandler = Wrap(handlers.GetStatusHandler)
var GetDocumentsHandler = Wrap(handlers.GetDocumentsHandler)

func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if !re.badRequest.isBadRequest {
			next(rec, re.req)
		}

		metrics.HttpRequestsTotal.WithLabelValues(routePattern(r), strconv.Itoa(rec.Status)).Inc() //metrics
	}
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re.logger.Debug("New request received", "method", re.req.Method, "path", re.req.URL.Path)
	re = injectTrace(re)
	re = authenticate(re)
	if !handleBadRequest(re) {
		return re //stop if auth fails
	}
	re = rateLimiter(re)
	handleBadRequest(re)
	return re
}
