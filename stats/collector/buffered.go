package collector

import (
	"github.com/ethereum/go-ethereum/common"
)

// BufferedCollector holds stats updates of the current call until Flush passes them to the target.
// Updates of a call whose state is dropped are removed with Discard.
type BufferedCollector struct {
	target  StatsCollector
	pending []func(c StatsCollector)
}

func NewBufferedCollector(target StatsCollector) *BufferedCollector {
	return &BufferedCollector{target: target}
}

func (b *BufferedCollector) AddBallotDeploy(contract common.Address, chairperson common.Address, proposals int) {
	b.pending = append(b.pending, func(c StatsCollector) {
		c.AddBallotDeploy(contract, chairperson, proposals)
	})
}

func (b *BufferedCollector) AddBallotRightGranted(contract common.Address, grantee common.Address) {
	b.pending = append(b.pending, func(c StatsCollector) {
		c.AddBallotRightGranted(contract, grantee)
	})
}

func (b *BufferedCollector) AddBallotVote(contract common.Address, voter common.Address, proposal uint64, weight uint64) {
	b.pending = append(b.pending, func(c StatsCollector) {
		c.AddBallotVote(contract, voter, proposal, weight)
	})
}

func (b *BufferedCollector) AddBallotDelegation(contract common.Address, from common.Address, resolved common.Address, weight uint64, hops int) {
	b.pending = append(b.pending, func(c StatsCollector) {
		c.AddBallotDelegation(contract, from, resolved, weight, hops)
	})
}

func (b *BufferedCollector) Flush() {
	if b.target != nil {
		for _, f := range b.pending {
			f(b.target)
		}
	}
	b.pending = nil
}

func (b *BufferedCollector) Discard() {
	b.pending = nil
}
