package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

type TxType = uint16

const (
	DeployContractTx TxType = 0xF
	CallContractTx   TxType = 0x10
)

// Transaction is a contract call submitted by the hosting environment.
// From is the caller identity the host has already authenticated.
type Transaction struct {
	AccountNonce uint32
	Type         TxType
	From         common.Address
	To           *common.Address `rlp:"nil"`
	Payload      []byte
}

func (tx *Transaction) Hash() common.Hash {
	data, err := rlp.EncodeToBytes(tx)
	if err != nil {
		return common.Hash{}
	}
	return crypto.Keccak256Hash(data)
}

type TxReceipt struct {
	TxHash          common.Hash
	From            common.Address
	ContractAddress common.Address
	Method          string
	Success         bool
	Error           error
	// StateRoot is the contract state root after the transaction
	StateRoot       common.Hash
}
