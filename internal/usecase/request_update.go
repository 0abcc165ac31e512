package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/drc/internal/domain"
	"github.com/trebuchet-org/drc/internal/domain/config"
)

// RequestUpdate applies the registry transition rules to binding update
// requests. Requests are applied one at a time, standing in for ledger
// transaction ordering.
type RequestUpdate struct {
	repo      BindingRepository
	validator DomainValidator
	clock     Clock
	cooldown  time.Duration
	observer  ValidationObserver
	log       *slog.Logger

	mu sync.Mutex
}

// NewRequestUpdate creates a new request update use case
func NewRequestUpdate(
	cfg *config.RuntimeConfig,
	repo BindingRepository,
	validator DomainValidator,
	clock Clock,
	observer ValidationObserver,
	log *slog.Logger,
) *RequestUpdate {
	return &RequestUpdate{
		repo:      repo,
		validator: validator,
		clock:     clock,
		cooldown:  cfg.Registry.Cooldown,
		observer:  observer,
		log:       log,
	}
}

// RequestUpdateParams contains parameters for an update request
type RequestUpdateParams struct {
	JobID           string
	Domain          string
	ProposedAddress string
	Caller          string
	Endpoint        string
}

// Execute validates the proposal and applies the transition rules.
// ErrCooldownNotElapsed is returned together with the Rejected outcome.
func (r *RequestUpdate) Execute(ctx context.Context, params RequestUpdateParams) (*domain.UpdateOutcome, error) {
	name, proposed, caller, err := r.checkParams(params)
	if err != nil {
		return nil, err
	}

	verdict, err := r.validator.Validate(ctx, ValidateParams{
		JobID:     params.JobID,
		Domain:    name,
		Candidate: proposed.Hex(),
		Endpoint:  params.Endpoint,
	})
	if err != nil {
		return nil, err
	}

	return r.Apply(ctx, name, proposed, caller, verdict)
}

// Apply runs the transition rules for an already computed verdict. The
// verdict must come from a validation run for this domain; a verdict for
// another domain is refused with domain.ErrVerdictMismatch.
func (r *RequestUpdate) Apply(
	ctx context.Context,
	name string,
	proposed, caller common.Address,
	verdict *domain.Verdict,
) (*domain.UpdateOutcome, error) {
	name = domain.NormalizeDomain(name)
	if verdict != nil && domain.NormalizeDomain(verdict.Domain) != name {
		return nil, fmt.Errorf("%w: verdict for %q applied to %q", domain.ErrVerdictMismatch, verdict.Domain, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var outcome *domain.UpdateOutcome
	err := r.repo.UpdateBinding(ctx, name, func(current *domain.Binding) (*domain.Binding, error) {
		if current == nil {
			current = &domain.Binding{Domain: name}
		}

		now := r.clock.Now()
		var next *domain.Binding
		outcome, next = r.transition(*current, proposed, caller, verdict, now)
		if next != nil {
			next.UpdatedAt = now
			outcome.Binding = *next
		}
		return next, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update binding for %s: %w", name, err)
	}

	r.observer.ObserveOutcome(outcome)
	r.log.Info("binding update resolved",
		"domain", name,
		"caller", caller.Hex(),
		"proposed", proposed.Hex(),
		"outcome", outcome.Kind,
		"reason", outcome.Reason,
	)

	if outcome.Reason == domain.RejectCooldownNotElapsed {
		return outcome, domain.ErrCooldownNotElapsed
	}
	return outcome, nil
}

// transition computes the outcome and, when state changes, the new binding.
// It never mutates current.
func (r *RequestUpdate) transition(
	current domain.Binding,
	proposed, caller common.Address,
	verdict *domain.Verdict,
	now time.Time,
) (*domain.UpdateOutcome, *domain.Binding) {
	if verdict == nil || !verdict.Valid {
		return &domain.UpdateOutcome{
			Kind:    domain.OutcomeRejected,
			Reason:  domain.RejectValidationFailed,
			Binding: current,
		}, nil
	}

	next := current
	switch {
	case !current.IsRegistered():
		next.DappAddress = proposed
		next.Admin = caller
		next.PendingTransition = nil
		return &domain.UpdateOutcome{Kind: domain.OutcomeCommitted}, &next

	case caller == current.Admin:
		next.DappAddress = proposed
		next.PendingTransition = nil
		return &domain.UpdateOutcome{Kind: domain.OutcomeCommitted}, &next

	case current.HasPending() &&
		current.PendingTransition.Proposer == caller &&
		current.PendingTransition.ProposedAddress == proposed:
		pending := *current.PendingTransition
		endsAt := pending.RecordedAt.Add(r.cooldown)
		if now.Before(endsAt) {
			return &domain.UpdateOutcome{
				Kind:           domain.OutcomeRejected,
				Reason:         domain.RejectCooldownNotElapsed,
				Binding:        current,
				CooldownEndsAt: &endsAt,
			}, nil
		}
		next.DappAddress = pending.ProposedAddress
		next.Admin = pending.Proposer
		next.PendingTransition = nil
		return &domain.UpdateOutcome{Kind: domain.OutcomeCommitted}, &next

	default:
		next.PendingTransition = &domain.PendingTransition{
			ProposedAddress: proposed,
			Proposer:        caller,
			RecordedAt:      now,
		}
		endsAt := now.Add(r.cooldown)
		return &domain.UpdateOutcome{Kind: domain.OutcomeRecorded, CooldownEndsAt: &endsAt}, &next
	}
}

func (r *RequestUpdate) checkParams(params RequestUpdateParams) (string, common.Address, common.Address, error) {
	name, proposed, err := CheckParams(params.Domain, params.ProposedAddress)
	if err != nil {
		return "", common.Address{}, common.Address{}, err
	}
	if params.Caller == "" {
		return "", common.Address{}, common.Address{}, domain.MissingParameterError{Param: "caller"}
	}
	caller, err := domain.ParseAddress(params.Caller)
	if err != nil || caller == (common.Address{}) {
		return "", common.Address{}, common.Address{}, domain.MissingParameterError{Param: "caller", Reason: "not a valid non-zero address"}
	}
	return name, proposed, caller, nil
}
