package collector

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/rcrowley/go-metrics"
)

const delegationHopsSampleSize = 1028

type metricsCollector struct {
	deploys         metrics.Counter
	grants          metrics.Counter
	votes           metrics.Counter
	votedWeight     metrics.Counter
	delegations     metrics.Counter
	delegatedWeight metrics.Counter
	delegationHops  metrics.Histogram
}

// NewMetricsCollector registers ballot counters named "<prefix>.<metric>" in the registry.
func NewMetricsCollector(prefix string, registry metrics.Registry) StatsCollector {
	if registry == nil {
		registry = metrics.DefaultRegistry
	}
	name := func(metric string) string {
		return prefix + "." + metric
	}
	return &metricsCollector{
		deploys:         metrics.GetOrRegisterCounter(name("deploys"), registry),
		grants:          metrics.GetOrRegisterCounter(name("rights_granted"), registry),
		votes:           metrics.GetOrRegisterCounter(name("votes"), registry),
		votedWeight:     metrics.GetOrRegisterCounter(name("voted_weight"), registry),
		delegations:     metrics.GetOrRegisterCounter(name("delegations"), registry),
		delegatedWeight: metrics.GetOrRegisterCounter(name("delegated_weight"), registry),
		delegationHops:  metrics.GetOrRegisterHistogram(name("delegation_hops"), registry, metrics.NewUniformSample(delegationHopsSampleSize)),
	}
}

func (m *metricsCollector) AddBallotDeploy(contract common.Address, chairperson common.Address, proposals int) {
	m.deploys.Inc(1)
}

func (m *metricsCollector) AddBallotRightGranted(contract common.Address, grantee common.Address) {
	m.grants.Inc(1)
}

func (m *metricsCollector) AddBallotVote(contract common.Address, voter common.Address, proposal uint64, weight uint64) {
	m.votes.Inc(1)
	m.votedWeight.Inc(int64(weight))
}

func (m *metricsCollector) AddBallotDelegation(contract common.Address, from common.Address, resolved common.Address, weight uint64, hops int) {
	m.delegations.Inc(1)
	m.delegatedWeight.Inc(int64(weight))
	m.delegationHops.Update(int64(hops))
}
