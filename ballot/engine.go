package ballot

import (
	"bytes"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/idena-network/idena-ballot/blockchain/attachments"
	"github.com/idena-network/idena-ballot/blockchain/types"
	ballotcommon "github.com/idena-network/idena-ballot/common"
	"github.com/idena-network/idena-ballot/common/eventbus"
	"github.com/idena-network/idena-ballot/common/math"
	"github.com/idena-network/idena-ballot/config"
	"github.com/idena-network/idena-ballot/database"
	"github.com/idena-network/idena-ballot/log"
	"github.com/idena-network/idena-ballot/stats/collector"
	"github.com/idena-network/idena-ballot/vm"
	"github.com/idena-network/idena-ballot/vm/embedded"
	"github.com/idena-network/idena-ballot/vm/helpers"
	"github.com/pkg/errors"
	"github.com/rcrowley/go-metrics"
	"github.com/shopspring/decimal"
	dbm "github.com/tendermint/tm-db"
)

// Handle identifies a deployed ballot.
type Handle = common.Address

type ProposalResult struct {
	Index     uint64
	Name      string
	VoteCount uint64
	Share     decimal.Decimal
}

// Engine serializes every call to the ballots it hosts.
type Engine struct {
	mutex sync.Mutex

	cfg      *config.Config
	db       dbm.DB
	repo     *database.Repo
	bus      eventbus.Bus
	vm       vm.VM
	registry metrics.Registry
	log      log.Logger
}

func New(cfg *config.Config) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.SetVerbosity(cfg.Verbosity)
	db, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}
	engine, err := NewWithDb(cfg, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return engine, nil
}

// NewWithDb creates an engine over an already opened database, for example one filled by Export.
func NewWithDb(cfg *config.Config, db dbm.DB) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	repo, err := database.NewRepo(db)
	if err != nil {
		return nil, err
	}
	bus := eventbus.New()
	registry := metrics.NewRegistry()
	statsCollector := collector.NewStatsCollector()
	if cfg.Metrics.Enabled {
		statsCollector = collector.NewMetricsCollector(cfg.Metrics.Prefix, registry)
	}
	return &Engine{
		cfg:      cfg,
		db:       db,
		repo:     repo,
		bus:      bus,
		vm:       vm.NewVmImpl(repo, bus, statsCollector, cfg.Ballot),
		registry: registry,
		log:      log.New("component", "ballot"),
	}, nil
}

func openDatabase(cfg *config.Config) (dbm.DB, error) {
	switch cfg.Database.Backend {
	case config.LevelDbBackend:
		db, err := dbm.NewGoLevelDB(cfg.Database.Name, cfg.DataDir)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open database %v in %v", cfg.Database.Name, cfg.DataDir)
		}
		return db, nil
	default:
		return dbm.NewMemDB(), nil
	}
}

func (e *Engine) Close() error {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.db.Close()
}

// Export copies the whole engine state into dest, an in-memory engine can be persisted this way.
func (e *Engine) Export(dest dbm.DB) error {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return ballotcommon.Copy(e.db, dest)
}

func (e *Engine) Metrics() metrics.Registry {
	return e.registry
}

// Subscribe registers a handler called synchronously after a call is committed.
// Handlers run while the engine is locked and must not call it.
func (e *Engine) Subscribe(id eventbus.EventID, handler eventbus.Handler) error {
	return e.bus.Subscribe(id, handler)
}

func (e *Engine) Unsubscribe(id eventbus.EventID, handler eventbus.Handler) error {
	return e.bus.Unsubscribe(id, handler)
}

// Submit runs a copy of a prepared transaction with the next nonce of its sender, tx is not modified.
// Every submitted transaction uses up a nonce, failed ones included.
func (e *Engine) Submit(tx *types.Transaction) *types.TxReceipt {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.run(tx)
}

// run assigns the next stored nonce of the sender. Nonces are kept in the database so contract
// addresses of a reopened or restored engine never repeat.
func (e *Engine) run(tx *types.Transaction) *types.TxReceipt {
	signed := *tx
	signed.AccountNonce = e.repo.ReadNonce(tx.From) + 1
	if err := e.repo.WriteNonce(tx.From, signed.AccountNonce); err != nil {
		return &types.TxReceipt{
			TxHash:  signed.Hash(),
			From:    signed.From,
			Success: false,
			Error:   errors.Wrap(err, "failed to write nonce"),
		}
	}
	receipt := e.vm.Run(&signed)
	if receipt.Success {
		e.log.Debug("Transaction applied", "hash", receipt.TxHash.Hex(), "contract", receipt.ContractAddress.Hex(), "method", receipt.Method)
	}
	return receipt
}

func (e *Engine) call(caller common.Address, h Handle, method string, args ...[]byte) error {
	payload, err := attachments.CreateCallContractAttachment(method, args...).ToBytes()
	if err != nil {
		return errors.Wrap(err, "failed to encode call attachment")
	}
	contract := h
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.run(&types.Transaction{
		Type:    types.CallContractTx,
		From:    caller,
		To:      &contract,
		Payload: payload,
	}).Error
}

func (e *Engine) read(h Handle, method string, args ...[]byte) ([]byte, error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.vm.Read(h, method, args...)
}

// Construct deploys a ballot with the given proposals, the creator becomes its chairperson.
func (e *Engine) Construct(creator common.Address, names []string) (Handle, error) {
	args := make([][]byte, len(names))
	for i, name := range names {
		args[i] = []byte(name)
	}
	payload, err := attachments.CreateDeployContractAttachment(embedded.BallotContract, args...).ToBytes()
	if err != nil {
		return Handle{}, errors.Wrap(err, "failed to encode deploy attachment")
	}
	e.mutex.Lock()
	defer e.mutex.Unlock()
	receipt := e.run(&types.Transaction{
		Type:    types.DeployContractTx,
		From:    creator,
		Payload: payload,
	})
	if receipt.Error != nil {
		return Handle{}, receipt.Error
	}
	return receipt.ContractAddress, nil
}

func (e *Engine) GiveRightToVote(h Handle, caller common.Address, grantee common.Address) error {
	return e.call(caller, h, "giveRightToVote", grantee.Bytes())
}

func (e *Engine) Vote(h Handle, caller common.Address, proposal uint64) error {
	return e.call(caller, h, "vote", ballotcommon.ToBytes(proposal))
}

func (e *Engine) Delegate(h Handle, caller common.Address, to common.Address) error {
	return e.call(caller, h, "delegate", to.Bytes())
}

func (e *Engine) WinningProposal(h Handle) (uint64, error) {
	data, err := e.read(h, "winningProposal")
	if err != nil {
		return 0, err
	}
	return helpers.ExtractUInt64(0, data)
}

func (e *Engine) WinnerName(h Handle) (string, error) {
	data, err := e.read(h, "winnerName")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (e *Engine) Chairperson(h Handle) (common.Address, error) {
	data, err := e.read(h, "chairperson")
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(data), nil
}

func (e *Engine) ProposalsCount(h Handle) (uint64, error) {
	data, err := e.read(h, "proposalsCount")
	if err != nil {
		return 0, err
	}
	return helpers.ExtractUInt64(0, data)
}

func (e *Engine) Proposal(h Handle, index uint64) (embedded.Proposal, error) {
	var proposal embedded.Proposal
	data, err := e.read(h, "proposal", ballotcommon.ToBytes(index))
	if err != nil {
		return proposal, err
	}
	if err := rlp.Decode(bytes.NewReader(data), &proposal); err != nil {
		return proposal, errors.Wrap(err, "invalid proposal RLP")
	}
	return proposal, nil
}

// Voter returns the voter record, an identity the ballot has never seen has an empty record.
func (e *Engine) Voter(h Handle, addr common.Address) (embedded.Voter, error) {
	var voter embedded.Voter
	data, err := e.read(h, "voter", addr.Bytes())
	if err != nil {
		return voter, err
	}
	if err := rlp.Decode(bytes.NewReader(data), &voter); err != nil {
		return voter, errors.Wrap(err, "invalid voter RLP")
	}
	return voter, nil
}

func (e *Engine) Voters(h Handle) ([]*embedded.VoterEntry, error) {
	data, err := e.read(h, "voters")
	if err != nil {
		return nil, err
	}
	var voters []*embedded.VoterEntry
	if err := rlp.Decode(bytes.NewReader(data), &voters); err != nil {
		return nil, errors.Wrap(err, "invalid voters RLP")
	}
	return voters, nil
}

// Results returns every proposal with its share of all counted votes.
func (e *Engine) Results(h Handle) ([]*ProposalResult, error) {
	data, err := e.read(h, "proposals")
	if err != nil {
		return nil, err
	}
	var proposals []*embedded.Proposal
	if err := rlp.Decode(bytes.NewReader(data), &proposals); err != nil {
		return nil, errors.Wrap(err, "invalid proposals RLP")
	}
	var total uint64
	for _, p := range proposals {
		total += p.VoteCount
	}
	results := make([]*ProposalResult, 0, len(proposals))
	for i, p := range proposals {
		results = append(results, &ProposalResult{
			Index:     uint64(i),
			Name:      p.Name,
			VoteCount: p.VoteCount,
			Share:     math.Share(p.VoteCount, total, e.cfg.Ballot.ResultsPrecision),
		})
	}
	return results, nil
}

// StateRoot is the root hash of the committed contract state.
func (e *Engine) StateRoot() common.Hash {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.repo.StateRoot()
}

func (e *Engine) Receipt(hash common.Hash) *types.TxReceipt {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.repo.ReadReceipt(hash)
}
