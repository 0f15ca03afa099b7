package env

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/idena-network/idena-ballot/blockchain/types"
	"github.com/idena-network/idena-ballot/common/eventbus"
	"github.com/idena-network/idena-ballot/database"
	"github.com/stretchr/testify/require"
	dbm "github.com/tendermint/tm-db"
	"testing"
)

type testEvent struct{}

func (testEvent) EventID() eventbus.EventID {
	return "test"
}

func createRepo() *database.Repo {
	repo, err := database.NewRepo(dbm.NewMemDB())
	if err != nil {
		panic(err)
	}
	return repo
}

func createDeployContext() *DeployContextImpl {
	tx := &types.Transaction{
		AccountNonce: 1,
		Type:         types.DeployContractTx,
		From:         common.Address{0x1},
	}
	return NewDeployContextImpl(tx, common.Hash{0x1})
}

func TestEnvImp_Caches(t *testing.T) {
	repo := createRepo()
	ctx := createDeployContext()
	env := NewEnvImp(repo)

	env.Deploy(ctx)
	env.SetValue(ctx, []byte{0x1}, []byte{0x1})
	env.SetValue(ctx, []byte{0x2}, []byte{0x2})
	env.Event(testEvent{})

	require.Equal(t, []byte{0x1}, env.GetValue(ctx, []byte{0x1}))
	require.Nil(t, repo.ReadContractValue(ctx.ContractAddr(), []byte{0x1}))
	require.Nil(t, repo.ReadCodeHash(ctx.ContractAddr()))
	require.Len(t, env.Events(), 1)

	env.Reset()
	require.Nil(t, env.GetValue(ctx, []byte{0x1}))
	require.Empty(t, env.Events())

	env.Deploy(ctx)
	env.SetValue(ctx, []byte{0x1}, []byte{0x1})
	env.SetValue(ctx, []byte{0x2}, []byte{0x2})
	env.Event(testEvent{})
	require.NoError(t, env.Commit())
	require.Empty(t, env.Events())

	require.Equal(t, []byte{0x1}, repo.ReadContractValue(ctx.ContractAddr(), []byte{0x1}))
	require.Equal(t, common.Hash{0x1}, *repo.ReadCodeHash(ctx.ContractAddr()))

	env.RemoveValue(ctx, []byte{0x1})
	require.Nil(t, env.GetValue(ctx, []byte{0x1}))
	require.Equal(t, []byte{0x1}, repo.ReadContractValue(ctx.ContractAddr(), []byte{0x1}))
	require.NoError(t, env.Commit())
	require.Nil(t, repo.ReadContractValue(ctx.ContractAddr(), []byte{0x1}))
	require.Equal(t, []byte{0x2}, env.GetValue(ctx, []byte{0x2}))
}

func TestEnvImp_Iterate(t *testing.T) {
	repo := createRepo()
	ctx := createDeployContext()
	env := NewEnvImp(repo)

	env.SetValue(ctx, []byte{0x1}, []byte{0x1})
	env.SetValue(ctx, []byte{0x3}, []byte{0x3})
	env.SetValue(ctx, []byte{0x5}, []byte{0x5})
	require.NoError(t, env.Commit())

	env.SetValue(ctx, []byte{0x2}, []byte{0x2})
	env.SetValue(ctx, []byte{0x3}, []byte{0x33})
	env.RemoveValue(ctx, []byte{0x5})
	env.SetValue(ctx, []byte{0x6}, []byte{0x6})

	var keys, values [][]byte
	env.Iterate(ctx, []byte{0x1}, []byte{0x5}, func(key []byte, value []byte) bool {
		keys = append(keys, key)
		values = append(values, value)
		return false
	})
	require.Equal(t, [][]byte{{0x1}, {0x2}, {0x3}}, keys)
	require.Equal(t, [][]byte{{0x1}, {0x2}, {0x33}}, values)

	keys = nil
	env.Iterate(ctx, []byte{0x1}, []byte{0x6}, func(key []byte, value []byte) bool {
		keys = append(keys, key)
		return len(keys) == 2
	})
	require.Equal(t, [][]byte{{0x1}, {0x2}}, keys)
}

func TestContexts(t *testing.T) {
	ctx := createDeployContext()
	require.Equal(t, ComputeContractAddr(common.Address{0x1}, 1), ctx.ContractAddr())
	require.NotEqual(t, ComputeContractAddr(common.Address{0x1}, 2), ctx.ContractAddr())
	require.Equal(t, common.Address{0x1}, ctx.Sender())

	contract := ctx.ContractAddr()
	callCtx := NewCallContextImpl(&types.Transaction{
		AccountNonce: 2,
		Type:         types.CallContractTx,
		From:         common.Address{0x2},
		To:           &contract,
	}, common.Hash{0x1})
	require.Equal(t, contract, callCtx.ContractAddr())
	require.Equal(t, common.Address{0x2}, callCtx.Sender())
	require.Equal(t, common.Hash{0x1}, callCtx.CodeHash())
	require.Equal(t, uint32(2), callCtx.Nonce())
}
