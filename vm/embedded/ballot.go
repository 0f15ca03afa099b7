package embedded

import (
	"bytes"

	mapset "github.com/deckarep/golang-set"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	ballotcommon "github.com/idena-network/idena-ballot/common"
	"github.com/idena-network/idena-ballot/config"
	"github.com/idena-network/idena-ballot/events"
	"github.com/idena-network/idena-ballot/stats/collector"
	"github.com/idena-network/idena-ballot/vm/env"
	"github.com/idena-network/idena-ballot/vm/helpers"
	"github.com/pkg/errors"
)

type Proposal struct {
	Name      string
	VoteCount uint64
}

// Voter is the stored state of a single identity. Vote is nil until the identity has voted
// directly or through its delegate.
type Voter struct {
	Weight   uint64
	Voted    bool
	Delegate *common.Address `rlp:"nil"`
	// encoded as an empty list when unset, a zero index is an empty string
	Vote     *uint64         `rlp:"nilList"`
}

type VoterEntry struct {
	Address common.Address
	Voter   Voter
}

// Ballot lets the chairperson grant voting rights, voters vote for one of the proposals
// or delegate their weight to another voter.
type Ballot struct {
	*BaseContract
	proposals *env.Map
	voters    *env.Map
	cfg       *config.BallotConfig
}

func NewBallot(ctx env.CallContext, e env.Env, statsCollector collector.StatsCollector, cfg *config.BallotConfig) *Ballot {
	if cfg == nil {
		cfg = config.GetDefaultBallotConfig()
	}
	return &Ballot{
		&BaseContract{
			ctx:            ctx,
			env:            e,
			statsCollector: statsCollector,
		},
		env.NewMap([]byte("p"), e, ctx),
		env.NewMap([]byte("v"), e, ctx),
		cfg,
	}
}

func (b *Ballot) Deploy(args ...[]byte) error {
	if len(args) == 0 {
		return ErrNoProposals
	}
	names := make([]string, len(args))
	for i, arg := range args {
		if b.cfg.StrictNames && len(arg) > b.cfg.MaxProposalNameLength {
			return errors.Wrapf(ErrInvalidProposalName, "proposal %v is longer than %v bytes", i, b.cfg.MaxProposalNameLength)
		}
		names[i] = string(arg)
	}

	b.BaseContract.Deploy()
	sender := b.ctx.Sender()
	b.SetOwner(sender)
	b.SetUint64("count", uint64(len(names)))
	for i, name := range names {
		if err := b.setProposal(uint64(i), &Proposal{Name: name}); err != nil {
			return err
		}
	}
	if err := b.setVoter(sender, &Voter{Weight: 1}); err != nil {
		return err
	}

	b.env.Event(&events.BallotDeployedEvent{
		Contract:    b.ctx.ContractAddr(),
		Chairperson: sender,
		Proposals:   names,
	})
	collector.AddBallotDeploy(b.statsCollector, b.ctx.ContractAddr(), sender, len(names))
	return nil
}

func (b *Ballot) Call(method string, args ...[]byte) error {
	switch method {
	case "giveRightToVote":
		grantee, err := helpers.ExtractAddr(0, args...)
		if err != nil {
			return err
		}
		return b.GiveRightToVote(grantee)
	case "vote":
		proposal, err := helpers.ExtractUInt64(0, args...)
		if err != nil {
			return err
		}
		return b.Vote(proposal)
	case "delegate":
		to, err := helpers.ExtractAddr(0, args...)
		if err != nil {
			return err
		}
		return b.Delegate(to)
	default:
		return ErrUnknownMethod
	}
}

func (b *Ballot) Read(method string, args ...[]byte) ([]byte, error) {
	switch method {
	case "chairperson":
		return b.Owner().Bytes(), nil
	case "proposalsCount":
		return ballotcommon.ToBytes(b.ProposalsCount()), nil
	case "proposal":
		index, err := helpers.ExtractUInt64(0, args...)
		if err != nil {
			return nil, err
		}
		proposal, err := b.Proposal(index)
		if err != nil {
			return nil, err
		}
		return rlp.EncodeToBytes(proposal)
	case "proposals":
		proposals, err := b.Proposals()
		if err != nil {
			return nil, err
		}
		return rlp.EncodeToBytes(proposals)
	case "voter":
		addr, err := helpers.ExtractAddr(0, args...)
		if err != nil {
			return nil, err
		}
		voter, err := b.Voter(addr)
		if err != nil {
			return nil, err
		}
		return rlp.EncodeToBytes(voter)
	case "voters":
		voters, err := b.Voters()
		if err != nil {
			return nil, err
		}
		return rlp.EncodeToBytes(voters)
	case "winningProposal":
		winner, err := b.WinningProposal()
		if err != nil {
			return nil, err
		}
		return ballotcommon.ToBytes(winner), nil
	case "winnerName":
		name, err := b.WinnerName()
		if err != nil {
			return nil, err
		}
		return []byte(name), nil
	default:
		return nil, ErrUnknownMethod
	}
}

func (b *Ballot) GiveRightToVote(grantee common.Address) error {
	if !b.IsOwner() {
		return ErrUnauthorized
	}
	voter, err := b.Voter(grantee)
	if err != nil {
		return err
	}
	if voter.Voted {
		return ErrAlreadyVoted
	}
	// a delegator has moved its weight away, granting again would duplicate it
	if voter.Weight > 0 || voter.Delegate != nil {
		return ErrAlreadyHasRights
	}
	voter.Weight = 1
	if err := b.setVoter(grantee, voter); err != nil {
		return err
	}

	b.env.Event(&events.RightGrantedEvent{
		Contract: b.ctx.ContractAddr(),
		Grantee:  grantee,
	})
	collector.AddBallotRightGranted(b.statsCollector, b.ctx.ContractAddr(), grantee)
	return nil
}

func (b *Ballot) Vote(index uint64) error {
	proposal, err := b.Proposal(index)
	if err != nil {
		return err
	}
	sender := b.ctx.Sender()
	voter, err := b.Voter(sender)
	if err != nil {
		return err
	}
	if voter.Voted {
		return ErrAlreadyVoted
	}
	if voter.Delegate != nil {
		return ErrAlreadyDelegated
	}
	if voter.Weight == 0 {
		return ErrNoRightToVote
	}

	voter.Voted = true
	voter.Vote = &index
	proposal.VoteCount += voter.Weight
	if err := b.setProposal(index, proposal); err != nil {
		return err
	}
	if err := b.setVoter(sender, voter); err != nil {
		return err
	}

	b.env.Event(&events.VoteCastEvent{
		Contract: b.ctx.ContractAddr(),
		Voter:    sender,
		Proposal: index,
		Weight:   voter.Weight,
	})
	collector.AddBallotVote(b.statsCollector, b.ctx.ContractAddr(), sender, index, voter.Weight)
	return nil
}

func (b *Ballot) Delegate(to common.Address) error {
	sender := b.ctx.Sender()
	if sender == to {
		return ErrSelfDelegation
	}
	voter, err := b.Voter(sender)
	if err != nil {
		return err
	}
	if voter.Voted {
		return ErrAlreadyVoted
	}
	if voter.Delegate != nil {
		return ErrAlreadyDelegated
	}
	if voter.Weight == 0 {
		return ErrNoRightToVote
	}

	resolved, delegate, hops, err := b.resolveDelegate(sender, to)
	if err != nil {
		return err
	}

	weight := voter.Weight
	target := to
	voter.Delegate = &target
	voter.Weight = 0

	var proposalIndex *uint64
	if delegate.Voted && delegate.Vote != nil {
		index := *delegate.Vote
		proposal, err := b.Proposal(index)
		if err != nil {
			return err
		}
		proposal.VoteCount += weight
		if err := b.setProposal(index, proposal); err != nil {
			return err
		}
		voter.Voted = true
		voter.Vote = &index
		proposalIndex = &index
	} else {
		delegate.Weight += weight
		if err := b.setVoter(resolved, delegate); err != nil {
			return err
		}
	}
	if err := b.setVoter(sender, voter); err != nil {
		return err
	}

	b.env.Event(&events.DelegatedEvent{
		Contract: b.ctx.ContractAddr(),
		From:     sender,
		To:       to,
		Resolved: resolved,
		Weight:   weight,
		Proposal: proposalIndex,
	})
	collector.AddBallotDelegation(b.statsCollector, b.ctx.ContractAddr(), sender, resolved, weight, hops)
	return nil
}

// resolveDelegate follows the delegation chain starting at to and returns the last identity of the chain.
func (b *Ballot) resolveDelegate(sender common.Address, to common.Address) (common.Address, *Voter, int, error) {
	visited := mapset.NewSet()
	visited.Add(sender)
	current := to
	hops := 0
	for {
		if visited.Contains(current) {
			return common.Address{}, nil, hops, ErrDelegationCycle
		}
		visited.Add(current)
		voter, err := b.Voter(current)
		if err != nil {
			return common.Address{}, nil, hops, err
		}
		if voter.Delegate == nil {
			return current, voter, hops, nil
		}
		hops++
		if b.cfg.MaxDelegationDepth > 0 && hops > b.cfg.MaxDelegationDepth {
			return common.Address{}, nil, hops, ErrDelegationTooDeep
		}
		current = *voter.Delegate
	}
}

// WinningProposal returns the proposal with the most votes, the lowest index wins a tie.
func (b *Ballot) WinningProposal() (uint64, error) {
	proposals, err := b.Proposals()
	if err != nil {
		return 0, err
	}
	var winner, winningVoteCount uint64
	for i, p := range proposals {
		if p.VoteCount > winningVoteCount {
			winningVoteCount = p.VoteCount
			winner = uint64(i)
		}
	}
	return winner, nil
}

func (b *Ballot) WinnerName() (string, error) {
	winner, err := b.WinningProposal()
	if err != nil {
		return "", err
	}
	proposal, err := b.Proposal(winner)
	if err != nil {
		return "", err
	}
	return proposal.Name, nil
}

func (b *Ballot) ProposalsCount() uint64 {
	return b.GetUint64("count")
}

func (b *Ballot) Proposal(index uint64) (*Proposal, error) {
	if index >= b.ProposalsCount() {
		return nil, ErrInvalidProposal
	}
	data := b.proposals.Get(ballotcommon.ToBytes(index))
	if data == nil {
		return nil, ErrInvalidProposal
	}
	proposal := new(Proposal)
	if err := rlp.Decode(bytes.NewReader(data), proposal); err != nil {
		return nil, errors.Wrapf(err, "invalid proposal %v", index)
	}
	return proposal, nil
}

func (b *Ballot) Proposals() ([]*Proposal, error) {
	count := b.ProposalsCount()
	proposals := make([]*Proposal, 0, count)
	for i := uint64(0); i < count; i++ {
		proposal, err := b.Proposal(i)
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, proposal)
	}
	return proposals, nil
}

func (b *Ballot) setProposal(index uint64, proposal *Proposal) error {
	data, err := rlp.EncodeToBytes(proposal)
	if err != nil {
		return errors.Wrap(err, "failed to RLP encode proposal")
	}
	b.proposals.Set(ballotcommon.ToBytes(index), data)
	return nil
}

// Voter returns the stored voter or an empty record for an unknown identity.
func (b *Ballot) Voter(addr common.Address) (*Voter, error) {
	data := b.voters.Get(addr.Bytes())
	voter := new(Voter)
	if data == nil {
		return voter, nil
	}
	if err := rlp.Decode(bytes.NewReader(data), voter); err != nil {
		return nil, errors.Wrapf(err, "invalid voter %v", addr.Hex())
	}
	return voter, nil
}

// Voters returns every stored voter ordered by address.
func (b *Ballot) Voters() ([]*VoterEntry, error) {
	var result []*VoterEntry
	var err error
	b.voters.Iterate(func(key []byte, value []byte) bool {
		entry := &VoterEntry{Address: common.BytesToAddress(key)}
		if err = rlp.Decode(bytes.NewReader(value), &entry.Voter); err != nil {
			err = errors.Wrapf(err, "invalid voter %v", entry.Address.Hex())
			return true
		}
		result = append(result, entry)
		return false
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (b *Ballot) setVoter(addr common.Address, voter *Voter) error {
	data, err := rlp.EncodeToBytes(voter)
	if err != nil {
		return errors.Wrap(err, "failed to RLP encode voter")
	}
	b.voters.Set(addr.Bytes(), data)
	return nil
}
