package env

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	ballotcommon "github.com/idena-network/idena-ballot/common"
	"github.com/idena-network/idena-ballot/blockchain/types"
)

type CallContext interface {
	Sender() common.Address
	ContractAddr() common.Address
	CodeHash() common.Hash
	Nonce() uint32
}

func ComputeContractAddr(from common.Address, nonce uint32) common.Address {
	return common.BytesToAddress(crypto.Keccak256(from.Bytes(), ballotcommon.ToBytes(nonce)))
}

type CallContextImpl struct {
	tx       *types.Transaction
	codeHash common.Hash
}

func NewCallContextImpl(tx *types.Transaction, codeHash common.Hash) *CallContextImpl {
	return &CallContextImpl{tx: tx, codeHash: codeHash}
}

func (c *CallContextImpl) Sender() common.Address {
	return c.tx.From
}

func (c *CallContextImpl) ContractAddr() common.Address {
	return *c.tx.To
}

func (c *CallContextImpl) CodeHash() common.Hash {
	return c.codeHash
}

func (c *CallContextImpl) Nonce() uint32 {
	return c.tx.AccountNonce
}

type DeployContextImpl struct {
	tx       *types.Transaction
	codeHash common.Hash
}

func NewDeployContextImpl(tx *types.Transaction, codeHash common.Hash) *DeployContextImpl {
	return &DeployContextImpl{tx: tx, codeHash: codeHash}
}

func (d *DeployContextImpl) Sender() common.Address {
	return d.tx.From
}

func (d *DeployContextImpl) ContractAddr() common.Address {
	return ComputeContractAddr(d.tx.From, d.tx.AccountNonce)
}

func (d *DeployContextImpl) CodeHash() common.Hash {
	return d.codeHash
}

func (d *DeployContextImpl) Nonce() uint32 {
	return d.tx.AccountNonce
}

// ReadContextImpl is used for read-only calls which have no sender.
type ReadContextImpl struct {
	Contract common.Address
	Hash     common.Hash
}

func (r *ReadContextImpl) Sender() common.Address {
	return common.Address{}
}

func (r *ReadContextImpl) ContractAddr() common.Address {
	return r.Contract
}

func (r *ReadContextImpl) CodeHash() common.Hash {
	return r.Hash
}

func (r *ReadContextImpl) Nonce() uint32 {
	return 0
}
