package embedded

import "github.com/pkg/errors"

var (
	ErrUnknownMethod = errors.New("unknown method")

	ErrUnauthorized        = errors.New("sender is not a chairperson")
	ErrAlreadyVoted        = errors.New("voter has already voted")
	ErrAlreadyHasRights    = errors.New("voter already has the right to vote")
	ErrInvalidProposal     = errors.New("invalid proposal")
	ErrNoRightToVote       = errors.New("voter has no right to vote")
	ErrSelfDelegation      = errors.New("self-delegation is disallowed")
	ErrDelegationCycle     = errors.New("found loop in delegation")
	ErrAlreadyDelegated    = errors.New("voter has already delegated")
	ErrDelegationTooDeep   = errors.New("delegation chain is too long")
	ErrNoProposals         = errors.New("at least one proposal is required")
	ErrInvalidProposalName = errors.New("invalid proposal name")
)
