package database

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tm-db"
)

const stateTreeCacheSize = 1024

// stateTree is a versioned iavl tree, every saved version is an atomic snapshot of contract state.
type stateTree struct {
	tree *iavl.MutableTree

	lock sync.RWMutex
}

func newStateTree(db dbm.DB) (*stateTree, error) {
	tree, err := iavl.NewMutableTree(db, stateTreeCacheSize)
	if err != nil {
		return nil, err
	}
	return &stateTree{tree: tree}, nil
}

func (t *stateTree) Load() (int64, error) {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.tree.Load()
}

func (t *stateTree) Get(key []byte) []byte {
	t.lock.RLock()
	defer t.lock.RUnlock()
	_, value := t.tree.Get(key)
	return value
}

func (t *stateTree) Set(key, value []byte) bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	// iavl does not store nil values
	if value == nil {
		value = []byte{}
	}
	return t.tree.Set(key, value)
}

func (t *stateTree) Remove(key []byte) ([]byte, bool) {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.tree.Remove(key)
}

func (t *stateTree) SaveVersion() ([]byte, int64, error) {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.tree.SaveVersion()
}

func (t *stateTree) Rollback() {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.tree.Rollback()
}

func (t *stateTree) Version() int64 {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.tree.Version()
}

func (t *stateTree) Hash() common.Hash {
	t.lock.RLock()
	defer t.lock.RUnlock()
	var result common.Hash
	copy(result[:], t.tree.Hash())
	return result
}

// IterateRange visits keys within [start; end) in ascending order until fn returns true.
func (t *stateTree) IterateRange(start, end []byte, fn func(key []byte, value []byte) bool) (stopped bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.tree.IterateRange(start, end, true, fn)
}
