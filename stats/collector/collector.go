package collector

import (
	"github.com/ethereum/go-ethereum/common"
)

type StatsCollector interface {
	AddBallotDeploy(contract common.Address, chairperson common.Address, proposals int)
	AddBallotRightGranted(contract common.Address, grantee common.Address)
	AddBallotVote(contract common.Address, voter common.Address, proposal uint64, weight uint64)
	AddBallotDelegation(contract common.Address, from common.Address, resolved common.Address, weight uint64, hops int)
}

type collectorStub struct {
}

func NewStatsCollector() StatsCollector {
	return &collectorStub{}
}

func (c *collectorStub) AddBallotDeploy(contract common.Address, chairperson common.Address, proposals int) {
	// do nothing
}

func AddBallotDeploy(c StatsCollector, contract common.Address, chairperson common.Address, proposals int) {
	if c == nil {
		return
	}
	c.AddBallotDeploy(contract, chairperson, proposals)
}

func (c *collectorStub) AddBallotRightGranted(contract common.Address, grantee common.Address) {
	// do nothing
}

func AddBallotRightGranted(c StatsCollector, contract common.Address, grantee common.Address) {
	if c == nil {
		return
	}
	c.AddBallotRightGranted(contract, grantee)
}

func (c *collectorStub) AddBallotVote(contract common.Address, voter common.Address, proposal uint64, weight uint64) {
	// do nothing
}

func AddBallotVote(c StatsCollector, contract common.Address, voter common.Address, proposal uint64, weight uint64) {
	if c == nil {
		return
	}
	c.AddBallotVote(contract, voter, proposal, weight)
}

func (c *collectorStub) AddBallotDelegation(contract common.Address, from common.Address, resolved common.Address, weight uint64, hops int) {
	// do nothing
}

func AddBallotDelegation(c StatsCollector, contract common.Address, from common.Address, resolved common.Address, weight uint64, hops int) {
	if c == nil {
		return
	}
	c.AddBallotDelegation(contract, from, resolved, weight, hops)
}
