package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/trebuchet-org/drc/internal/domain"
	"github.com/trebuchet-org/drc/internal/usecase"
)

// Callback receives the status and body of a finished job
type Callback func(status int, body any)

// Runner adapts the job pipeline to callback and serverless invocation styles
type Runner struct {
	jobs *usecase.ProcessJob
}

// NewRunner creates a Runner
func NewRunner(jobs *usecase.ProcessJob) *Runner {
	return &Runner{jobs: jobs}
}

// CreateRequest runs a job and hands the result to callback
func (r *Runner) CreateRequest(ctx context.Context, input domain.JobRequest, callback Callback) {
	status, body := r.jobs.Execute(ctx, input)
	callback(status, body)
}

// Handle is the v1 serverless entry point: the event is the job request and
// the return value is the response body.
func (r *Runner) Handle(ctx context.Context, event domain.JobRequest) (any, error) {
	_, body := r.jobs.Execute(ctx, event)
	return body, nil
}

// APIGatewayRequest is the subset of an API gateway proxy event used here
type APIGatewayRequest struct {
	Body            string `json:"body"`
	IsBase64Encoded bool   `json:"isBase64Encoded"`
}

// APIGatewayResponse is an API gateway proxy response
type APIGatewayResponse struct {
	StatusCode      int               `json:"statusCode"`
	Body            string            `json:"body"`
	IsBase64Encoded bool              `json:"isBase64Encoded"`
	Headers         map[string]string `json:"headers"`
}

// HandleV2 is the v2 serverless entry point: the job request arrives as the
// JSON-encoded body of a gateway event.
func (r *Runner) HandleV2(ctx context.Context, event APIGatewayRequest) (APIGatewayResponse, error) {
	raw := []byte(event.Body)
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return badBody(err)
		}
		raw = decoded
	}

	var req domain.JobRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return badBody(err)
	}

	status, body := r.jobs.Execute(ctx, req)
	return gatewayResponse(status, body)
}

func badBody(err error) (APIGatewayResponse, error) {
	jobErr := domain.NewJobError("", domain.MissingParameterError{
		Param:  "body",
		Reason: fmt.Sprintf("invalid job request: %v", err),
	})
	return gatewayResponse(jobErr.StatusCode, jobErr)
}

func gatewayResponse(status int, body any) (APIGatewayResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return APIGatewayResponse{}, fmt.Errorf("failed to marshal response: %w", err)
	}
	return APIGatewayResponse{
		StatusCode:      status,
		Body:            string(data),
		IsBase64Encoded: false,
		Headers:         map[string]string{"Content-Type": "application/json"},
	}, nil
}
