package adapter

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ritvikra/PDFEmbedder/internal/api"
	"github.com/ritvikra/PDFEmbedder/internal/domain/jobModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		JobId:     id,
		StatusURL: fmt.Sprintf("jobs/%s", id),
	}
}

func BadRequest(id string, error string, code int) api.ErrorResponse {
	return api.ErrorResponse{
		Id: id,
		Error: api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}

// ToHttpStatus maps service errors onto response codes. Validation
// failures are the caller's fault, state conflicts are retryable later,
// missing records are 404s.
func ToHttpStatus(err error) int {
	switch {
	case jobModel.IsValidation(err):
		return http.StatusBadRequest
	case jobModel.IsInvalidState(err):
		return http.StatusConflict
	case errors.Is(err, jobModel.ErrJobNotFound), errors.Is(err, jobModel.ErrDocumentNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
