package embedded

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/idena-network/idena-ballot/blockchain/types"
	"github.com/idena-network/idena-ballot/common/eventbus"
	"github.com/idena-network/idena-ballot/config"
	"github.com/idena-network/idena-ballot/database"
	"github.com/idena-network/idena-ballot/vm/env"
	"github.com/pkg/errors"
	dbm "github.com/tendermint/tm-db"
)

func newAddress() common.Address {
	key, _ := crypto.GenerateKey()
	return crypto.PubkeyToAddress(key.PublicKey)
}

// contractTester commits the env after every call, failed calls included,
// so a contract method that fails must not have written anything.
type contractTester struct {
	repo        *database.Repo
	env         *env.EnvImp
	cfg         *config.BallotConfig
	chairperson common.Address
	identities  []common.Address

	contractAddr common.Address
	nonce        uint32
	events       []eventbus.Event
}

type contractTesterBuilder struct {
	identities int
	cfg        *config.BallotConfig
}

func createTestContractBuilder(identities int) *contractTesterBuilder {
	return &contractTesterBuilder{identities: identities, cfg: config.GetDefaultBallotConfig()}
}

func (b *contractTesterBuilder) SetConfig(cfg *config.BallotConfig) *contractTesterBuilder {
	b.cfg = cfg
	return b
}

func (b *contractTesterBuilder) Build() *contractTester {
	repo, err := database.NewRepo(dbm.NewMemDB())
	if err != nil {
		panic(err)
	}
	var identities []common.Address
	for i := 0; i < b.identities; i++ {
		identities = append(identities, newAddress())
	}
	return &contractTester{
		repo:        repo,
		env:         env.NewEnvImp(repo),
		cfg:         b.cfg,
		chairperson: newAddress(),
		identities:  identities,
	}
}

func (c *contractTester) nextNonce() uint32 {
	c.nonce++
	return c.nonce
}

func (c *contractTester) commit() {
	c.events = append(c.events, c.env.Events()...)
	if err := c.env.Commit(); err != nil {
		panic(err)
	}
}

func (c *contractTester) Deploy(names ...string) error {
	var args [][]byte
	for _, name := range names {
		args = append(args, []byte(name))
	}
	tx := &types.Transaction{
		AccountNonce: c.nextNonce(),
		Type:         types.DeployContractTx,
		From:         c.chairperson,
	}
	ctx := env.NewDeployContextImpl(tx, BallotContract)
	c.contractAddr = ctx.ContractAddr()
	err := NewBallot(ctx, c.env, nil, c.cfg).Deploy(args...)
	c.commit()
	return err
}

func (c *contractTester) Call(sender common.Address, method string, args ...[]byte) error {
	tx := &types.Transaction{
		AccountNonce: c.nextNonce(),
		Type:         types.CallContractTx,
		From:         sender,
		To:           &c.contractAddr,
	}
	err := NewBallot(env.NewCallContextImpl(tx, BallotContract), c.env, nil, c.cfg).Call(method, args...)
	c.commit()
	return err
}

func (c *contractTester) OwnerCall(method string, args ...[]byte) error {
	return c.Call(c.chairperson, method, args...)
}

func (c *contractTester) IdentityCall(identityIndex int, method string, args ...[]byte) error {
	return c.Call(c.identities[identityIndex], method, args...)
}

func (c *contractTester) Read(method string, args ...[]byte) ([]byte, error) {
	return c.contract().Read(method, args...)
}

func (c *contractTester) contract() *Ballot {
	return NewBallot(&env.ReadContextImpl{Contract: c.contractAddr, Hash: BallotContract}, c.env, nil, c.cfg)
}

func (c *contractTester) voter(addr common.Address) *Voter {
	voter, err := c.contract().Voter(addr)
	if err != nil {
		panic(err)
	}
	return voter
}

func (c *contractTester) proposal(index uint64) *Proposal {
	proposal, err := c.contract().Proposal(index)
	if err != nil {
		panic(errors.Wrapf(err, "proposal %v", index))
	}
	return proposal
}

func (c *contractTester) totalVotes() uint64 {
	var total uint64
	for i := uint64(0); i < c.contract().ProposalsCount(); i++ {
		total += c.proposal(i).VoteCount
	}
	return total
}
