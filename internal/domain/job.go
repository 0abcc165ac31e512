package domain

// JobRequest is the adapter request envelope: {"id": ..., "data": {...}}.
type JobRequest struct {
	ID   string         `json:"id"`
	Data JobRequestData `json:"data"`
}

// JobRequestData holds the adapter parameters.
type JobRequestData struct {
	Domain     string `json:"domain"`
	DRCAddress string `json:"drcAddress"`
	// Endpoint overrides the manifest path on the domain.
	Endpoint string `json:"endpoint,omitempty"`
	// Caller, when set, makes the job apply the registry decision as well.
	Caller string `json:"caller,omitempty"`
}

// JobResponse is the success body returned to the requester.
type JobResponse struct {
	JobRunID   string         `json:"jobRunID"`
	Data       bool           `json:"data"`
	Result     bool           `json:"result"`
	StatusCode int            `json:"statusCode"`
	Outcome    *UpdateOutcome `json:"outcome,omitempty"`
}

// JobError is the error envelope returned when a job fails.
type JobError struct {
	JobRunID   string       `json:"jobRunID"`
	Status     string       `json:"status"`
	Error      JobErrorBody `json:"error"`
	StatusCode int          `json:"statusCode"`
}

// JobErrorBody carries the error class and message.
type JobErrorBody struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// NewJobError builds the errored envelope for a failed job.
func NewJobError(jobID string, err error) *JobError {
	return &JobError{
		JobRunID: jobID,
		Status:   "errored",
		Error: JobErrorBody{
			Name:    ErrorName(err),
			Message: err.Error(),
		},
		StatusCode: StatusCode(err),
	}
}
