package middleware

import (
	"net/http"
	"strconv"

	"github.com/ritvikra/PDFEmbedder/internal/handlers"
	"github.com/ritvikra/PDFEmbedder/internal/metrics"
	"github.com/ritvikra/PDFEmbedder/pkg/logger_i"
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

var GetHandler = Wrap(handlers.GetHandler)

var CreateJobHandler = Wrap(handlers.CreateJobHandler)
var ListJobsHandler = Wrap(handlers.ListJobsHandler)
var GetJobsByStatusHandler = Wrap(handlers.GetJobsByStatusHandler)
var GetJobsByTypeHandler = Wrap(handlers.GetJobsByTypeHandler)
var GetJobHandler = Wrap(handlers.GetJobHandler)
var DeleteJobHandler = Wrap(handlers.DeleteJobHandler)
var RetryJobHandler = Wrap(handlers.RetryJobHandler)

var ListDocumentsHandler = Wrap(handlers.ListDocumentsHandler)
var SearchDocumentsHandler = Wrap(handlers.SearchDocumentsHandler)
var GetDocumentsByUrlHandler = Wrap(handlers.GetDocumentsByUrlHandler)
var GetDocumentsByJobHandler = Wrap(handlers.GetDocumentsByJobHandler)
var GetDocumentsByTypeHandler = Wrap(handlers.GetDocumentsByTypeHandler)
var GetDocumentHandler = Wrap(handlers.GetDocumentHandler)
var GetDocumentChunksHandler = Wrap(handlers.GetDocumentChunksHandler)
var GetDocumentPagesHandler = Wrap(handlers.GetDocumentPagesHandler)
var GetDocumentWithJobHandler = Wrap(handlers.GetDocumentWithJobHandler)
var DeleteDocumentHandler = Wrap(handlers.DeleteDocumentHandler)

func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if re.badRequest.isBadRequest {
			handleBadRequest(re)
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc() //metrics
	}
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re.logger.Debug("New request received")
	re = injectTrace(re)
	if re.badRequest.isBadRequest {
		return re
	}
	re = rateLimiter(re)

	return re
}
