package events

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/idena-network/idena-ballot/common/eventbus"
)

const (
	BallotDeployedEventID = eventbus.EventID("ballot-deployed")
	RightGrantedEventID   = eventbus.EventID("ballot-right-granted")
	VoteCastEventID       = eventbus.EventID("ballot-vote-cast")
	DelegatedEventID      = eventbus.EventID("ballot-delegated")
)

type BallotDeployedEvent struct {
	Contract    common.Address
	Chairperson common.Address
	Proposals   []string
}

func (e *BallotDeployedEvent) EventID() eventbus.EventID {
	return BallotDeployedEventID
}

type RightGrantedEvent struct {
	Contract common.Address
	Grantee  common.Address
}

func (e *RightGrantedEvent) EventID() eventbus.EventID {
	return RightGrantedEventID
}

type VoteCastEvent struct {
	Contract common.Address
	Voter    common.Address
	Proposal uint64
	Weight   uint64
}

func (e *VoteCastEvent) EventID() eventbus.EventID {
	return VoteCastEventID
}

// DelegatedEvent has Proposal set when the resolved delegate had already voted
// and the weight went straight into the tally.
type DelegatedEvent struct {
	Contract common.Address
	From     common.Address
	To       common.Address
	Resolved common.Address
	Weight   uint64
	Proposal *uint64
}

func (e *DelegatedEvent) EventID() eventbus.EventID {
	return DelegatedEventID
}
