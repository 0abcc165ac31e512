package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/drc/internal/domain"
)

// ValidateDomain checks a domain's manifest against the canonical allow-list.
// It holds no state between calls and never caches verdicts.
type ValidateDomain struct {
	fetcher   ManifestFetcher
	allowList AllowListStore
	observer  ValidationObserver
	log       *slog.Logger
}

// NewValidateDomain creates a new validate domain use case
func NewValidateDomain(
	fetcher ManifestFetcher,
	allowList AllowListStore,
	observer ValidationObserver,
	log *slog.Logger,
) *ValidateDomain {
	return &ValidateDomain{
		fetcher:   fetcher,
		allowList: allowList,
		observer:  observer,
		log:       log,
	}
}

// ValidateParams contains parameters for a validation
type ValidateParams struct {
	JobID     string
	Domain    string
	Candidate string
	// Endpoint overrides the manifest path
	Endpoint string
}

// Validate fetches the manifest and checks every declared address in order,
// stopping at the first one missing from the allow-list.
func (v *ValidateDomain) Validate(ctx context.Context, params ValidateParams) (*domain.Verdict, error) {
	start := time.Now()
	verdict, err := v.validate(ctx, params)
	v.observer.ObserveVerdict(verdict, err, time.Since(start))
	return verdict, err
}

func (v *ValidateDomain) validate(ctx context.Context, params ValidateParams) (*domain.Verdict, error) {
	name, _, err := CheckParams(params.Domain, params.Candidate)
	if err != nil {
		return nil, err
	}

	records, err := v.fetcher.Fetch(ctx, ManifestRequest{
		JobID:  params.JobID,
		Domain: name,
		Path:   params.Endpoint,
	})
	if err != nil {
		return nil, err
	}

	verdict := &domain.Verdict{
		Domain:   name,
		JobID:    params.JobID,
		Declared: len(records),
	}

	// An empty manifest vouches for nothing
	if len(records) == 0 {
		v.log.Info("manifest declares no contracts", "domain", name, "job_id", params.JobID)
		return verdict, nil
	}

	for _, record := range records {
		ok, err := v.allowList.Contains(ctx, record.ContractAddress)
		if err != nil {
			return nil, fmt.Errorf("failed to check allowlist for %s: %w", record.ContractAddress.Hex(), err)
		}
		verdict.Checked++
		if !ok {
			rejected := record.ContractAddress
			verdict.Rejected = &rejected
			v.log.Info("manifest address not allow-listed",
				"domain", name,
				"job_id", params.JobID,
				"address", rejected.Hex(),
			)
			return verdict, nil
		}
	}

	verdict.Valid = true
	v.log.Debug("manifest validated", "domain", name, "job_id", params.JobID, "checked", verdict.Checked)
	return verdict, nil
}

// CheckParams validates the mandatory inputs before any network call
func CheckParams(domainName, candidate string) (string, common.Address, error) {
	name := domain.NormalizeDomain(domainName)
	if name == "" {
		return "", common.Address{}, domain.MissingParameterError{Param: "domain"}
	}
	if !isBareHost(name) {
		return "", common.Address{}, domain.MissingParameterError{Param: "domain", Reason: "not a bare host name"}
	}
	if strings.TrimSpace(candidate) == "" {
		return "", common.Address{}, domain.MissingParameterError{Param: "drcAddress"}
	}
	addr, err := domain.ParseAddress(candidate)
	if err != nil {
		return "", common.Address{}, domain.MissingParameterError{Param: "drcAddress", Reason: err.Error()}
	}
	if addr == (common.Address{}) {
		return "", common.Address{}, domain.MissingParameterError{Param: "drcAddress", Reason: "zero address"}
	}
	return name, addr, nil
}

// isBareHost reports whether name is exactly the authority of
// https://<name>/ with no userinfo, path, query or fragment.
func isBareHost(name string) bool {
	if strings.ContainsAny(name, "/?#@\\ ") {
		return false
	}
	u, err := url.Parse("//" + name)
	if err != nil {
		return false
	}
	return u.User == nil && u.Host == name
}
