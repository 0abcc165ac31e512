package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/drc/internal/domain"
	"github.com/trebuchet-org/drc/internal/usecase"
)

func TestValidateDomain(t *testing.T) {
	ctx := context.Background()

	t.Run("every declared address allow-listed", func(t *testing.T) {
		allow := newAllowList(addrA, addrB)
		v := usecase.NewValidateDomain(staticFetcher{"x.com": {addrA, addrB}}, allow, usecase.NopObserver{}, discardLogger())

		verdict, err := v.Validate(ctx, usecase.ValidateParams{Domain: "x.com", Candidate: addrA.Hex()})
		require.NoError(t, err)
		assert.True(t, verdict.Valid)
		assert.Equal(t, 2, verdict.Checked)
		assert.Equal(t, 2, verdict.Declared)
		assert.Nil(t, verdict.Rejected)
	})

	t.Run("one address outside the allowlist invalidates", func(t *testing.T) {
		allow := newAllowList(addrA)
		v := usecase.NewValidateDomain(staticFetcher{"x.com": {addrA, addrX}}, allow, usecase.NopObserver{}, discardLogger())

		verdict, err := v.Validate(ctx, usecase.ValidateParams{Domain: "x.com", Candidate: addrA.Hex()})
		require.NoError(t, err)
		assert.False(t, verdict.Valid)
		require.NotNil(t, verdict.Rejected)
		assert.Equal(t, addrX, *verdict.Rejected)
	})

	t.Run("stops at the first negative", func(t *testing.T) {
		allow := newAllowList(addrA, addrB)
		v := usecase.NewValidateDomain(staticFetcher{"x.com": {addrX, addrA, addrB}}, allow, usecase.NopObserver{}, discardLogger())

		verdict, err := v.Validate(ctx, usecase.ValidateParams{Domain: "x.com", Candidate: addrA.Hex()})
		require.NoError(t, err)
		assert.False(t, verdict.Valid)
		assert.Equal(t, 1, allow.lookups)
		assert.Equal(t, 1, verdict.Checked)
	})

	t.Run("empty manifest is invalid", func(t *testing.T) {
		allow := newAllowList(addrA)
		v := usecase.NewValidateDomain(staticFetcher{}, allow, usecase.NopObserver{}, discardLogger())

		verdict, err := v.Validate(ctx, usecase.ValidateParams{Domain: "x.com", Candidate: addrA.Hex()})
		require.NoError(t, err)
		assert.False(t, verdict.Valid)
		assert.Equal(t, 0, verdict.Declared)
		assert.Equal(t, 0, allow.lookups)
	})

	t.Run("candidate is not required to appear in the manifest", func(t *testing.T) {
		allow := newAllowList(addrA)
		v := usecase.NewValidateDomain(staticFetcher{"x.com": {addrA}}, allow, usecase.NopObserver{}, discardLogger())

		verdict, err := v.Validate(ctx, usecase.ValidateParams{Domain: "x.com", Candidate: addrB.Hex()})
		require.NoError(t, err)
		assert.True(t, verdict.Valid)
	})

	t.Run("fetch errors propagate", func(t *testing.T) {
		fetcher := new(MockManifestFetcher)
		upstream := &domain.UpstreamUnavailableError{Domain: "x.com", Attempts: 4, Cause: errors.New("503")}
		fetcher.On("Fetch", mock.Anything, mock.MatchedBy(func(req usecase.ManifestRequest) bool {
			return req.Domain == "x.com" && req.JobID == "job-1" && req.Path == "alt.json"
		})).Return(nil, upstream)

		obs := &recordingObserver{}
		v := usecase.NewValidateDomain(fetcher, newAllowList(), obs, discardLogger())

		_, err := v.Validate(ctx, usecase.ValidateParams{JobID: "job-1", Domain: "x.com", Candidate: addrA.Hex(), Endpoint: "alt.json"})
		assert.ErrorIs(t, err, upstream)
		fetcher.AssertExpectations(t)
		require.Len(t, obs.errs, 1)
		assert.Error(t, obs.errs[0])
	})

	t.Run("allowlist errors propagate", func(t *testing.T) {
		allow := newAllowList()
		allow.err = errors.New("rpc down")
		v := usecase.NewValidateDomain(staticFetcher{"x.com": {addrA}}, allow, usecase.NopObserver{}, discardLogger())

		_, err := v.Validate(ctx, usecase.ValidateParams{Domain: "x.com", Candidate: addrA.Hex()})
		assert.ErrorContains(t, err, "rpc down")
	})

	t.Run("missing parameters fail before fetching", func(t *testing.T) {
		fetcher := new(MockManifestFetcher)
		v := usecase.NewValidateDomain(fetcher, newAllowList(), usecase.NopObserver{}, discardLogger())

		_, err := v.Validate(ctx, usecase.ValidateParams{Domain: "", Candidate: addrA.Hex()})
		var missing domain.MissingParameterError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, "domain", missing.Param)
		fetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
	})
}

func TestCheckParams(t *testing.T) {
	tests := []struct {
		name      string
		domain    string
		candidate string
		wantName  string
		wantParam string
	}{
		{name: "valid", domain: "x.com", candidate: addrA.Hex(), wantName: "x.com"},
		{name: "normalized", domain: " HTTPS://X.com/ ", candidate: addrA.Hex(), wantName: "x.com"},
		{name: "empty domain", domain: "", candidate: addrA.Hex(), wantParam: "domain"},
		{name: "domain with path", domain: "x.com/evil", candidate: addrA.Hex(), wantParam: "domain"},
		{name: "domain with port", domain: "127.0.0.1:8080", candidate: addrA.Hex(), wantName: "127.0.0.1:8080"},
		{name: "domain with userinfo", domain: "victim.com@attacker.example", candidate: addrA.Hex(), wantParam: "domain"},
		{name: "domain with credentials", domain: "victim.com:pw@attacker.example", candidate: addrA.Hex(), wantParam: "domain"},
		{name: "domain with backslash", domain: "attacker.example\\victim.com", candidate: addrA.Hex(), wantParam: "domain"},
		{name: "domain with bad port", domain: "x.com:port", candidate: addrA.Hex(), wantParam: "domain"},
		{name: "empty candidate", domain: "x.com", candidate: " ", wantParam: "drcAddress"},
		{name: "malformed candidate", domain: "x.com", candidate: "0x1234", wantParam: "drcAddress"},
		{name: "zero candidate", domain: "x.com", candidate: common.Address{}.Hex(), wantParam: "drcAddress"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, addr, err := usecase.CheckParams(tt.domain, tt.candidate)
			if tt.wantParam != "" {
				var missing domain.MissingParameterError
				require.True(t, errors.As(err, &missing))
				assert.Equal(t, tt.wantParam, missing.Param)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, addrA, addr)
		})
	}
}
