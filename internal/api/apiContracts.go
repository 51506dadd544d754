package api

type JobOutgoingError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"can_retry"`
}

type ErrorResponse struct {
	Id    string           `json:"id,omitempty"`
	Error JobOutgoingError `json:"error"`
}

type InitJobResponse struct {
	JobId     string `json:"jobId"`
	StatusURL string `json:"status_url"`
}

// requests---------------------

type CreateJobRequest struct {
	Url  string `json:"url" validate:"required"`
	Type string `json:"type" validate:"required"`
}
