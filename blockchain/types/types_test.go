package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestTransaction_Hash(t *testing.T) {
	to := common.Address{0x2}
	tx := &Transaction{
		AccountNonce: 1,
		Type:         CallContractTx,
		From:         common.Address{0x1},
		To:           &to,
		Payload:      []byte{0x1, 0x2},
	}
	hash := tx.Hash()
	require.NotEqual(t, common.Hash{}, hash)
	require.Equal(t, hash, tx.Hash())

	other := *tx
	other.AccountNonce = 2
	require.NotEqual(t, hash, other.Hash())

	deploy := &Transaction{AccountNonce: 1, Type: DeployContractTx, From: common.Address{0x1}}
	require.NotEqual(t, hash, deploy.Hash())
}
