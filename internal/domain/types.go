package domain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// AllowListEntry is a single approved contract address.
type AllowListEntry struct {
	Address common.Address `json:"address"`
	AddedAt time.Time      `json:"addedAt"`
}

// ManifestRecord is one entry of a domain's contracts.json.
type ManifestRecord struct {
	ContractAddress common.Address `json:"contractAddress"`
}

// Verdict is the result of checking a domain's manifest against the allow-list.
type Verdict struct {
	Valid    bool   `json:"valid"`
	Domain   string `json:"domain"`
	JobID    string `json:"jobId,omitempty"`
	Checked  int    `json:"checked"`
	Declared int    `json:"declared"`
	// Rejected is the first manifest address missing from the allow-list.
	Rejected *common.Address `json:"rejected,omitempty"`
}

// PendingTransition is a challenger's not-yet-committed proposal.
type PendingTransition struct {
	ProposedAddress common.Address `json:"proposedAddress"`
	Proposer        common.Address `json:"proposer"`
	RecordedAt      time.Time      `json:"recordedAt"`
}

// Binding links a domain to its active dapp address and admin.
type Binding struct {
	Domain            string             `json:"domain"`
	DappAddress       common.Address     `json:"dappAddress"`
	Admin             common.Address     `json:"admin"`
	PendingTransition *PendingTransition `json:"pendingTransition,omitempty"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

// IsRegistered reports whether the binding points at a dapp.
func (b Binding) IsRegistered() bool {
	return b.DappAddress != (common.Address{})
}

// HasPending reports whether a challenger proposal is outstanding.
func (b Binding) HasPending() bool {
	return b.PendingTransition != nil
}

// OutcomeKind is the result class of an update request.
type OutcomeKind string

const (
	OutcomeCommitted OutcomeKind = "COMMITTED"
	OutcomeRecorded  OutcomeKind = "RECORDED"
	OutcomeRejected  OutcomeKind = "REJECTED"
)

// RejectReason explains a Rejected outcome.
type RejectReason string

const (
	RejectNone               RejectReason = ""
	RejectValidationFailed   RejectReason = "VALIDATION_FAILED"
	RejectCooldownNotElapsed RejectReason = "COOLDOWN_NOT_ELAPSED"
)

// UpdateOutcome is what every update request resolves to.
type UpdateOutcome struct {
	Kind    OutcomeKind  `json:"kind"`
	Reason  RejectReason `json:"reason,omitempty"`
	Binding Binding      `json:"binding"`
	// CooldownEndsAt is set for Recorded and CooldownNotElapsed outcomes.
	CooldownEndsAt *time.Time `json:"cooldownEndsAt,omitempty"`
}
