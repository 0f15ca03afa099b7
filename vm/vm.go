package vm

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/idena-network/idena-ballot/blockchain/attachments"
	"github.com/idena-network/idena-ballot/blockchain/types"
	"github.com/idena-network/idena-ballot/common/eventbus"
	"github.com/idena-network/idena-ballot/config"
	"github.com/idena-network/idena-ballot/database"
	"github.com/idena-network/idena-ballot/log"
	"github.com/idena-network/idena-ballot/stats/collector"
	"github.com/idena-network/idena-ballot/vm/embedded"
	env2 "github.com/idena-network/idena-ballot/vm/env"
	"github.com/pkg/errors"
)

const deployMethod = "deploy"

var (
	UnexpectedTx            = errors.New("unexpected tx type")
	ErrInvalidAttachment    = errors.New("can't parse attachment")
	ErrUnknownContract      = errors.New("unknown contract")
	ErrContractNotFound     = errors.New("contract not found")
	ErrContractAlreadyExist = errors.New("contract already deployed")
)

type VM interface {
	Run(tx *types.Transaction) *types.TxReceipt
	Read(contractAddr common.Address, method string, args ...[]byte) ([]byte, error)
}

// VmImpl executes one transaction at a time, callers must not share it between goroutines.
type VmImpl struct {
	env            *env2.EnvImp
	repo           *database.Repo
	bus            eventbus.Bus
	statsCollector *collector.BufferedCollector
	cfg            *config.BallotConfig
	log            log.ThrottlingLogger
}

func NewVmImpl(repo *database.Repo, bus eventbus.Bus, statsCollector collector.StatsCollector, cfg *config.BallotConfig) *VmImpl {
	return &VmImpl{
		env:            env2.NewEnvImp(repo),
		repo:           repo,
		bus:            bus,
		statsCollector: collector.NewBufferedCollector(statsCollector),
		cfg:            cfg,
		log:            log.NewThrottlingLogger(log.New("component", "vm"), log.DefaultThrottlingWindow),
	}
}

func (vm *VmImpl) createContract(ctx env2.CallContext, codeHash common.Hash) embedded.Contract {
	switch codeHash {
	case embedded.BallotContract:
		return embedded.NewBallot(ctx, vm.env, vm.statsCollector, vm.cfg)
	default:
		return nil
	}
}

func (vm *VmImpl) deploy(tx *types.Transaction) (common.Address, string, error) {
	attach := attachments.ParseDeployContractAttachment(tx)
	if attach == nil {
		return env2.ComputeContractAddr(tx.From, tx.AccountNonce), deployMethod, ErrInvalidAttachment
	}
	ctx := env2.NewDeployContextImpl(tx, attach.CodeHash)
	if vm.repo.ReadCodeHash(ctx.ContractAddr()) != nil {
		return ctx.ContractAddr(), deployMethod, ErrContractAlreadyExist
	}
	contract := vm.createContract(ctx, attach.CodeHash)
	if contract == nil {
		return ctx.ContractAddr(), deployMethod, ErrUnknownContract
	}
	return ctx.ContractAddr(), deployMethod, contract.Deploy(attach.Args...)
}

func (vm *VmImpl) call(tx *types.Transaction) (common.Address, string, error) {
	if tx.To == nil {
		return common.Address{}, "", ErrContractNotFound
	}
	attach := attachments.ParseCallContractAttachment(tx)
	if attach == nil {
		return *tx.To, "", ErrInvalidAttachment
	}
	codeHash := vm.repo.ReadCodeHash(*tx.To)
	if codeHash == nil {
		return *tx.To, attach.Method, ErrContractNotFound
	}
	ctx := env2.NewCallContextImpl(tx, *codeHash)
	contract := vm.createContract(ctx, *codeHash)
	if contract == nil {
		return *tx.To, attach.Method, ErrUnknownContract
	}
	return *tx.To, attach.Method, contract.Call(attach.Method, attach.Args...)
}

// Run applies the transaction and stores its receipt. State changes of a failed transaction are dropped,
// events and stats of a successful one are published after the changes are committed.
func (vm *VmImpl) Run(tx *types.Transaction) *types.TxReceipt {
	var err error
	var method string
	var contractAddr common.Address
	switch tx.Type {
	case types.CallContractTx:
		contractAddr, method, err = vm.call(tx)
	case types.DeployContractTx:
		contractAddr, method, err = vm.deploy(tx)
	default:
		err = UnexpectedTx
	}

	var events []eventbus.Event
	if err != nil {
		vm.env.Reset()
		vm.statsCollector.Discard()
		vm.log.Warn("Contract call failed", "contract", contractAddr.Hex(), "method", method, "err", err)
	} else {
		events = vm.env.Events()
		if commitErr := vm.env.Commit(); commitErr != nil {
			vm.env.Reset()
			vm.statsCollector.Discard()
			events = nil
			err = errors.Wrap(commitErr, "failed to commit contract state")
			vm.log.Error("Contract state commit failed", "contract", contractAddr.Hex(), "err", commitErr)
		} else {
			vm.statsCollector.Flush()
		}
	}

	receipt := &types.TxReceipt{
		TxHash:          tx.Hash(),
		From:            tx.From,
		ContractAddress: contractAddr,
		Method:          method,
		Error:           err,
		Success:         err == nil,
		StateRoot:       vm.repo.StateRoot(),
	}
	if writeErr := vm.repo.WriteReceipt(receipt); writeErr != nil {
		vm.log.Error("Failed to write receipt", "hash", receipt.TxHash.Hex(), "err", writeErr)
	}
	if vm.bus != nil {
		for _, e := range events {
			vm.bus.Publish(e)
		}
	}
	return receipt
}

// Read executes a read-only contract method against committed state.
func (vm *VmImpl) Read(contractAddr common.Address, method string, args ...[]byte) ([]byte, error) {
	codeHash := vm.repo.ReadCodeHash(contractAddr)
	if codeHash == nil {
		return nil, ErrContractNotFound
	}
	contract := vm.createContract(&env2.ReadContextImpl{Contract: contractAddr, Hash: *codeHash}, *codeHash)
	if contract == nil {
		return nil, ErrUnknownContract
	}
	return contract.Read(method, args...)
}
