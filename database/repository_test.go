package database

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/idena-network/idena-ballot/blockchain/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	dbm "github.com/tendermint/tm-db"
	"testing"
)

func newTestRepo(t *testing.T, db dbm.DB) *Repo {
	repo, err := NewRepo(db)
	require.NoError(t, err)
	return repo
}

func TestRepo_ContractStore(t *testing.T) {
	repo := newTestRepo(t, dbm.NewMemDB())
	contract := common.Address{0x1}
	other := common.Address{0x2}

	batch := repo.NewBatch()
	batch.SetContractValue(contract, []byte{0x1}, []byte{0xA})
	batch.SetContractValue(contract, []byte{0x2}, []byte{0xB})
	batch.SetContractValue(contract, []byte{0x3}, []byte{0xC})
	batch.SetContractValue(other, []byte{0x2}, []byte{0xD})
	batch.SetCodeHash(contract, common.Hash{0x5})
	require.NoError(t, batch.Write())

	require.Equal(t, []byte{0xB}, repo.ReadContractValue(contract, []byte{0x2}))
	require.Equal(t, []byte{0xD}, repo.ReadContractValue(other, []byte{0x2}))
	require.Nil(t, repo.ReadContractValue(contract, []byte{0x4}))
	require.Equal(t, common.Hash{0x5}, *repo.ReadCodeHash(contract))
	require.Nil(t, repo.ReadCodeHash(other))

	var keys [][]byte
	repo.IterateContractStore(contract, []byte{0x2}, []byte{0x3}, func(key []byte, value []byte) bool {
		keys = append(keys, key)
		return false
	})
	require.Equal(t, [][]byte{{0x2}, {0x3}}, keys)

	keys = nil
	repo.IterateContractStore(contract, []byte{0x1}, []byte{0x3}, func(key []byte, value []byte) bool {
		keys = append(keys, key)
		return true
	})
	require.Equal(t, [][]byte{{0x1}}, keys)

	batch = repo.NewBatch()
	batch.RemoveContractValue(contract, []byte{0x2})
	require.NoError(t, batch.Write())
	require.Nil(t, repo.ReadContractValue(contract, []byte{0x2}))
}

func TestRepo_Receipts(t *testing.T) {
	repo := newTestRepo(t, dbm.NewMemDB())

	success := &types.TxReceipt{
		TxHash:          common.Hash{0x1},
		From:            common.Address{0x2},
		ContractAddress: common.Address{0x3},
		Method:          "vote",
		Success:         true,
		StateRoot:       common.Hash{0x7},
	}
	failed := &types.TxReceipt{
		TxHash:  common.Hash{0x4},
		From:    common.Address{0x2},
		Method:  "delegate",
		Success: false,
		Error:   errors.New("self-delegation is disallowed"),
	}
	require.NoError(t, repo.WriteReceipt(success))
	require.NoError(t, repo.WriteReceipt(failed))

	require.Equal(t, success, repo.ReadReceipt(common.Hash{0x1}))

	stored := repo.ReadReceipt(common.Hash{0x4})
	require.NotNil(t, stored)
	require.False(t, stored.Success)
	require.EqualError(t, stored.Error, "self-delegation is disallowed")

	require.Nil(t, repo.ReadReceipt(common.Hash{0x9}))
}

func TestRepo_StateVersions(t *testing.T) {
	db := dbm.NewMemDB()
	repo := newTestRepo(t, db)
	contract := common.Address{0x1}
	require.Equal(t, int64(0), repo.StateVersion())

	batch := repo.NewBatch()
	batch.SetContractValue(contract, []byte{0x1}, []byte{0xA})
	require.NoError(t, batch.Write())
	require.Equal(t, int64(1), repo.StateVersion())
	root := repo.StateRoot()
	require.NotEqual(t, common.Hash{}, root)

	batch = repo.NewBatch()
	batch.SetContractValue(contract, []byte{0x1}, []byte{0xB})
	batch.SetCodeHash(contract, common.Hash{0x5})
	batch.Discard()
	require.Equal(t, []byte{0xA}, repo.ReadContractValue(contract, []byte{0x1}))
	require.Nil(t, repo.ReadCodeHash(contract))
	require.Equal(t, root, repo.StateRoot())
	require.Equal(t, int64(1), repo.StateVersion())

	reopened := newTestRepo(t, db)
	require.Equal(t, int64(1), reopened.StateVersion())
	require.Equal(t, root, reopened.StateRoot())
	require.Equal(t, []byte{0xA}, reopened.ReadContractValue(contract, []byte{0x1}))
}

func TestRepo_Nonces(t *testing.T) {
	db := dbm.NewMemDB()
	repo := newTestRepo(t, db)
	addr := common.Address{0x1}

	require.Zero(t, repo.ReadNonce(addr))
	require.NoError(t, repo.WriteNonce(addr, 7))
	require.Equal(t, uint32(7), repo.ReadNonce(addr))
	require.Zero(t, repo.ReadNonce(common.Address{0x2}))

	require.Equal(t, uint32(7), newTestRepo(t, db).ReadNonce(addr))
}
