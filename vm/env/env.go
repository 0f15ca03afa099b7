package env

import (
	"bytes"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/idena-network/idena-ballot/common/eventbus"
	"github.com/idena-network/idena-ballot/database"
)

const maxEnvKeyLength = 32

type Env interface {
	SetValue(ctx CallContext, key []byte, value []byte)
	GetValue(ctx CallContext, key []byte) []byte
	RemoveValue(ctx CallContext, key []byte)
	Deploy(ctx CallContext)
	Iterate(ctx CallContext, minKey []byte, maxKey []byte, f func(key []byte, value []byte) bool)
	ReadContractData(contractAddr common.Address, key []byte) []byte
	Event(event eventbus.Event)
}

type contractValue struct {
	value   []byte
	removed bool
}

// EnvImp keeps every change in memory until Commit, so a failed call can be dropped with Reset.
type EnvImp struct {
	repo *database.Repo

	contractStoreCache    map[common.Address]map[string]*contractValue
	deployedContractCache map[common.Address]common.Hash
	events                []eventbus.Event
}

func NewEnvImp(repo *database.Repo) *EnvImp {
	return &EnvImp{
		repo:                  repo,
		contractStoreCache:    map[common.Address]map[string]*contractValue{},
		deployedContractCache: map[common.Address]common.Hash{},
	}
}

func (e *EnvImp) Deploy(ctx CallContext) {
	e.deployedContractCache[ctx.ContractAddr()] = ctx.CodeHash()
}

func (e *EnvImp) SetValue(ctx CallContext, key []byte, value []byte) {
	e.contractCache(ctx.ContractAddr())[string(key)] = &contractValue{
		value:   value,
		removed: false,
	}
}

func (e *EnvImp) GetValue(ctx CallContext, key []byte) []byte {
	return e.ReadContractData(ctx.ContractAddr(), key)
}

func (e *EnvImp) RemoveValue(ctx CallContext, key []byte) {
	e.contractCache(ctx.ContractAddr())[string(key)] = &contractValue{removed: true}
}

func (e *EnvImp) contractCache(addr common.Address) map[string]*contractValue {
	cache, ok := e.contractStoreCache[addr]
	if !ok {
		cache = make(map[string]*contractValue)
		e.contractStoreCache[addr] = cache
	}
	return cache
}

func (e *EnvImp) ReadContractData(contractAddr common.Address, key []byte) []byte {
	if cache, ok := e.contractStoreCache[contractAddr]; ok {
		if value, ok := cache[string(key)]; ok {
			if value.removed {
				return nil
			}
			return value.value
		}
	}
	return e.repo.ReadContractValue(contractAddr, key)
}

// Iterate visits keys within [minKey; maxKey] in ascending order, cached changes included.
func (e *EnvImp) Iterate(ctx CallContext, minKey []byte, maxKey []byte, f func(key []byte, value []byte) (stopped bool)) {
	addr := ctx.ContractAddr()

	merged := make(map[string][]byte)
	e.repo.IterateContractStore(addr, minKey, maxKey, func(key []byte, value []byte) bool {
		merged[string(key)] = value
		return false
	})
	if cache, ok := e.contractStoreCache[addr]; ok {
		for key, value := range cache {
			keyBytes := []byte(key)
			if bytes.Compare(keyBytes, minKey) < 0 || bytes.Compare(keyBytes, maxKey) > 0 {
				continue
			}
			if value.removed {
				delete(merged, key)
			} else {
				merged[key] = value.value
			}
		}
	}

	keys := make([]string, 0, len(merged))
	for key := range merged {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if f([]byte(key), merged[key]) {
			return
		}
	}
}

func (e *EnvImp) Event(event eventbus.Event) {
	e.events = append(e.events, event)
}

// Events returns events emitted since the last Commit or Reset.
func (e *EnvImp) Events() []eventbus.Event {
	return e.events
}

func (e *EnvImp) Commit() error {
	batch := e.repo.NewBatch()
	for contract, cache := range e.contractStoreCache {
		for k, v := range cache {
			if v.removed {
				batch.RemoveContractValue(contract, []byte(k))
			} else {
				batch.SetContractValue(contract, []byte(k), v.value)
			}
		}
	}
	for contract, codeHash := range e.deployedContractCache {
		batch.SetCodeHash(contract, codeHash)
	}
	if err := batch.Write(); err != nil {
		return err
	}
	e.Reset()
	return nil
}

func (e *EnvImp) Reset() {
	e.contractStoreCache = map[common.Address]map[string]*contractValue{}
	e.deployedContractCache = map[common.Address]common.Hash{}
	e.events = nil
}
