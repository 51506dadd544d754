package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/ritvikra/PDFEmbedder/internal/adapter"
	"github.com/ritvikra/PDFEmbedder/internal/adapter/utils"
	"github.com/ritvikra/PDFEmbedder/internal/api"
	"github.com/ritvikra/PDFEmbedder/internal/doc"
	"github.com/ritvikra/PDFEmbedder/internal/domain/jobModel"
	"github.com/ritvikra/PDFEmbedder/internal/job"
	"github.com/ritvikra/PDFEmbedder/pkg/logger_i"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           *logger_i.Logger
)

type JobHandler struct {
	jobService *job.Service
	docService *doc.Service
}

func InitJobHandler(jobService *job.Service, docService *doc.Service) {
	once.Do(func() {
		handlerInstance = &JobHandler{jobService: jobService, docService: docService}

		logJH = logger_i.NewLogger("JobHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logJH.Info("Starting job handler")
	})

}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func CreateJobHandler(w http.ResponseWriter, request *http.Request) {
	if !validateContext(request.Context()) {
		logRH.Warn("Invalid Context by request ", request.RemoteAddr)
		return
	}

	var requestData api.CreateJobRequest
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			logRH.Error("Couldn't close the create job reader :", err)
		}
	}(request.Body)
	if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil {
		logRH.Warn("Bad create job request: ", "error:", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
		return
	}

	created, err := handlerInstance.jobService.CreateJob(request.Context(), requestData.Url, jobModel.JobType(requestData.Type))
	if err != nil {
		logRH.Warn("Rejected create job request: ", "error:", err, "request data:", requestData)
		WriteErrorResponse(w, adapter.ToHttpStatus(err), "", err.Error())
		return
	}

	writeJsonResponse(w, http.StatusCreated, adapter.ToInitJobResponse(created.Id))
}

func ListJobsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	snapshots, err := handlerInstance.jobService.GetAllJobs(r.Context())
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "", err.Error())
		return
	}
	writeJsonResponse(w, http.StatusOK, snapshots)
}

func GetJobsByStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	status := jobModel.JobStatus(utils.GetChiURLParam(r, "status"))
	if !jobModel.ValidStatus(status) {
		WriteErrorResponse(w, http.StatusBadRequest, "", "unknown job status")
		return
	}
	snapshots, err := handlerInstance.jobService.GetJobsByStatus(r.Context(), status)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "", err.Error())
		return
	}
	writeJsonResponse(w, http.StatusOK, snapshots)
}

func GetJobsByTypeHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	jobType := jobModel.JobType(utils.GetChiURLParam(r, "type"))
	if !jobModel.ValidType(jobType) {
		WriteErrorResponse(w, http.StatusBadRequest, "", "unknown job type")
		return
	}
	snapshots, err := handlerInstance.jobService.GetJobsByType(r.Context(), jobType)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "", err.Error())
		return
	}
	writeJsonResponse(w, http.StatusOK, snapshots)
}

func GetJobHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	idString := utils.GetChiURLParam(r, "id")
	snapshot, err := handlerInstance.jobService.GetJobById(r.Context(), idString)
	if err != nil {
		logRH.Debug("Get job request miss:", "URL path", r.URL.Path)
		WriteErrorResponse(w, adapter.ToHttpStatus(err), idString, "Job not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, snapshot)
}

func DeleteJobHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	idString := utils.GetChiURLParam(r, "id")
	existed, err := handlerInstance.jobService.DeleteJob(r.Context(), idString)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, idString, err.Error())
		return
	}
	if !existed {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func RetryJobHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	idString := utils.GetChiURLParam(r, "id")
	if _, err := handlerInstance.jobService.RetryJob(r.Context(), idString); err != nil {
		if errors.Is(err, jobModel.ErrJobNotFound) {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
			return
		}
		WriteErrorResponse(w, adapter.ToHttpStatus(err), idString, err.Error())
		return
	}
	snapshot, err := handlerInstance.jobService.GetJobById(r.Context(), idString)
	if err != nil {
		WriteErrorResponse(w, adapter.ToHttpStatus(err), idString, "Job not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, snapshot)
}
