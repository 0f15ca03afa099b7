package database

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/idena-network/idena-ballot/blockchain/types"
	"github.com/idena-network/idena-ballot/log"
	"github.com/pkg/errors"
	dbm "github.com/tendermint/tm-db"
)

// Repo keeps contract state in a versioned state tree, receipts and nonces are stored next to it.
type Repo struct {
	db   dbm.DB
	tree *stateTree
}

// NewRepo loads the latest saved state version of db.
func NewRepo(db dbm.DB) (*Repo, error) {
	tree, err := newStateTree(dbm.NewPrefixDB(db, stateTreePrefix))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create state tree")
	}
	if _, err := tree.Load(); err != nil {
		return nil, errors.Wrap(err, "failed to load state tree")
	}
	return &Repo{
		db:   db,
		tree: tree,
	}, nil
}

func contractStoreKey(contract common.Address, key []byte) []byte {
	res := make([]byte, 0, len(contractStorePrefix)+common.AddressLength+len(key))
	res = append(res, contractStorePrefix...)
	res = append(res, contract.Bytes()...)
	return append(res, key...)
}

func codeHashKey(contract common.Address) []byte {
	return append(append([]byte{}, codeHashPrefix...), contract.Bytes()...)
}

func receiptKey(hash common.Hash) []byte {
	return append(append([]byte{}, receiptIndexPrefix...), hash.Bytes()...)
}

func nonceKey(addr common.Address) []byte {
	return append(append([]byte{}, noncePrefix...), addr.Bytes()...)
}

func (r *Repo) ReadContractValue(contract common.Address, key []byte) []byte {
	return r.tree.Get(contractStoreKey(contract, key))
}

// IterateContractStore calls f for every stored key of the contract within [minKey; maxKey]
// until f returns true.
func (r *Repo) IterateContractStore(contract common.Address, minKey []byte, maxKey []byte, f func(key []byte, value []byte) bool) {
	start := contractStoreKey(contract, minKey)
	// range end is exclusive
	end := append(contractStoreKey(contract, maxKey), 0x0)
	prefixLen := len(contractStorePrefix) + common.AddressLength
	r.tree.IterateRange(start, end, func(key []byte, value []byte) bool {
		return f(append([]byte{}, key[prefixLen:]...), value)
	})
}

func (r *Repo) ReadCodeHash(contract common.Address) *common.Hash {
	data := r.tree.Get(codeHashKey(contract))
	if len(data) == 0 {
		return nil
	}
	hash := common.BytesToHash(data)
	return &hash
}

// StateRoot is the hash of the last saved state version.
func (r *Repo) StateRoot() common.Hash {
	return r.tree.Hash()
}

func (r *Repo) StateVersion() int64 {
	return r.tree.Version()
}

// ReadNonce returns the last nonce used by addr, 0 if it has sent nothing yet.
func (r *Repo) ReadNonce(addr common.Address) uint32 {
	data, err := r.db.Get(nonceKey(addr))
	if err != nil {
		log.Error("Failed to read nonce", "addr", addr, "err", err)
		return 0
	}
	if data == nil {
		return 0
	}
	var nonce uint32
	if err := rlp.DecodeBytes(data, &nonce); err != nil {
		log.Error("Invalid nonce RLP", "addr", addr, "err", err)
		return 0
	}
	return nonce
}

func (r *Repo) WriteNonce(addr common.Address, nonce uint32) error {
	data, err := rlp.EncodeToBytes(nonce)
	if err != nil {
		return errors.Wrap(err, "failed to RLP encode nonce")
	}
	return r.db.Set(nonceKey(addr), data)
}

type storedReceipt struct {
	TxHash          common.Hash
	From            common.Address
	ContractAddress common.Address
	Method          string
	Success         bool
	Error           string
	StateRoot       common.Hash
}

func (r *Repo) WriteReceipt(receipt *types.TxReceipt) error {
	stored := &storedReceipt{
		TxHash:          receipt.TxHash,
		From:            receipt.From,
		ContractAddress: receipt.ContractAddress,
		Method:          receipt.Method,
		Success:         receipt.Success,
		StateRoot:       receipt.StateRoot,
	}
	if receipt.Error != nil {
		stored.Error = receipt.Error.Error()
	}
	data, err := rlp.EncodeToBytes(stored)
	if err != nil {
		return errors.Wrap(err, "failed to RLP encode receipt")
	}
	return r.db.Set(receiptKey(receipt.TxHash), data)
}

// ReadReceipt returns a stored receipt. The receipt error keeps only the error message.
func (r *Repo) ReadReceipt(hash common.Hash) *types.TxReceipt {
	data, err := r.db.Get(receiptKey(hash))
	if err != nil {
		log.Error("Failed to read receipt", "hash", hash, "err", err)
		return nil
	}
	if data == nil {
		return nil
	}
	stored := new(storedReceipt)
	if err := rlp.Decode(bytes.NewReader(data), stored); err != nil {
		log.Error("Invalid receipt RLP", "hash", hash, "err", err)
		return nil
	}
	receipt := &types.TxReceipt{
		TxHash:          stored.TxHash,
		From:            stored.From,
		ContractAddress: stored.ContractAddress,
		Method:          stored.Method,
		Success:         stored.Success,
		StateRoot:       stored.StateRoot,
	}
	if stored.Error != "" {
		receipt.Error = errors.New(stored.Error)
	}
	return receipt
}

// Batch applies contract state changes to the working state tree. Write saves them as a new
// state version at once, Discard drops them.
type Batch struct {
	tree *stateTree
}

func (r *Repo) NewBatch() *Batch {
	return &Batch{tree: r.tree}
}

func (b *Batch) SetContractValue(contract common.Address, key []byte, value []byte) {
	b.tree.Set(contractStoreKey(contract, key), value)
}

func (b *Batch) RemoveContractValue(contract common.Address, key []byte) {
	b.tree.Remove(contractStoreKey(contract, key))
}

func (b *Batch) SetCodeHash(contract common.Address, codeHash common.Hash) {
	b.tree.Set(codeHashKey(contract), codeHash.Bytes())
}

func (b *Batch) Write() error {
	if _, _, err := b.tree.SaveVersion(); err != nil {
		b.tree.Rollback()
		return errors.Wrap(err, "failed to save state version")
	}
	return nil
}

func (b *Batch) Discard() {
	b.tree.Rollback()
}
