package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/trebuchet-org/drc/internal/domain"
)

// ProcessJob is the single pipeline behind every adapter entry point:
// validate the manifest and, when a caller is given, apply the registry
// decision with that verdict.
type ProcessJob struct {
	validator *ValidateDomain
	registry  *RequestUpdate
	log       *slog.Logger
}

// NewProcessJob creates a new process job use case
func NewProcessJob(validator *ValidateDomain, registry *RequestUpdate, log *slog.Logger) *ProcessJob {
	return &ProcessJob{
		validator: validator,
		registry:  registry,
		log:       log,
	}
}

// Execute runs the job and returns the HTTP-style status with either a
// *domain.JobResponse or a *domain.JobError body.
func (p *ProcessJob) Execute(ctx context.Context, req domain.JobRequest) (int, any) {
	jobID := req.ID
	if jobID == "" {
		jobID = uuid.NewString()
	}

	resp, err := p.run(ctx, jobID, req.Data)
	if err != nil {
		p.log.Warn("job failed", "job_id", jobID, "domain", req.Data.Domain, "error", err)
		jobErr := domain.NewJobError(jobID, err)
		return jobErr.StatusCode, jobErr
	}
	return resp.StatusCode, resp
}

func (p *ProcessJob) run(ctx context.Context, jobID string, data domain.JobRequestData) (*domain.JobResponse, error) {
	name, candidate, err := CheckParams(data.Domain, data.DRCAddress)
	if err != nil {
		return nil, err
	}

	var caller common.Address
	if data.Caller != "" {
		caller, err = domain.ParseAddress(data.Caller)
		if err != nil || caller == (common.Address{}) {
			return nil, domain.MissingParameterError{Param: "caller", Reason: "not a valid non-zero address"}
		}
	}

	verdict, err := p.validator.Validate(ctx, ValidateParams{
		JobID:     jobID,
		Domain:    name,
		Candidate: candidate.Hex(),
		Endpoint:  data.Endpoint,
	})
	if err != nil {
		return nil, err
	}

	resp := &domain.JobResponse{
		JobRunID:   jobID,
		Data:       verdict.Valid,
		Result:     verdict.Valid,
		StatusCode: http.StatusOK,
	}

	if data.Caller == "" {
		return resp, nil
	}

	outcome, err := p.registry.Apply(ctx, name, candidate, caller, verdict)
	if err != nil && !errors.Is(err, domain.ErrCooldownNotElapsed) {
		return nil, err
	}
	resp.Outcome = outcome
	return resp, nil
}
