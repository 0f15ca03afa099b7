package embedded

import (
	"github.com/ethereum/go-ethereum/common"
	ballotcommon "github.com/idena-network/idena-ballot/common"
	"github.com/idena-network/idena-ballot/stats/collector"
	"github.com/idena-network/idena-ballot/vm/env"
	"github.com/idena-network/idena-ballot/vm/helpers"
)

type EmbeddedContractType = common.Hash

var (
	BallotContract     EmbeddedContractType
	AvailableContracts map[EmbeddedContractType]struct{}
)

func init() {
	BallotContract.SetBytes([]byte{0x1})

	AvailableContracts = map[EmbeddedContractType]struct{}{
		BallotContract: {},
	}
}

type Contract interface {
	Deploy(args ...[]byte) error
	Call(method string, args ...[]byte) error
	Read(method string, args ...[]byte) ([]byte, error)
}

// base contract with useful common methods

type BaseContract struct {
	ctx            env.CallContext
	env            env.Env
	statsCollector collector.StatsCollector
}

func (b *BaseContract) SetOwner(address common.Address) {
	b.env.SetValue(b.ctx, []byte("owner"), address.Bytes())
}

func (b *BaseContract) Owner() common.Address {
	return common.BytesToAddress(b.env.GetValue(b.ctx, []byte("owner")))
}

func (b *BaseContract) Deploy() {
	b.env.Deploy(b.ctx)
}

func (b *BaseContract) SetUint64(s string, value uint64) {
	b.env.SetValue(b.ctx, []byte(s), ballotcommon.ToBytes(value))
}

func (b *BaseContract) GetUint64(s string) uint64 {
	data := b.env.GetValue(b.ctx, []byte(s))
	ret, _ := helpers.ExtractUInt64(0, data)
	return ret
}

func (b *BaseContract) IsOwner() bool {
	return b.Owner() == b.ctx.Sender()
}
