package attachments

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/idena-network/idena-ballot/blockchain/types"
)

type DeployContractAttachment struct {
	CodeHash common.Hash
	Args     [][]byte
}

func CreateDeployContractAttachment(codeHash common.Hash, args ...[]byte) *DeployContractAttachment {
	return &DeployContractAttachment{
		CodeHash: codeHash,
		Args:     args,
	}
}

func (d *DeployContractAttachment) ToBytes() ([]byte, error) {
	return rlp.EncodeToBytes(d)
}

func ParseDeployContractAttachment(tx *types.Transaction) *DeployContractAttachment {
	var attachment DeployContractAttachment
	if err := rlp.Decode(bytes.NewReader(tx.Payload), &attachment); err != nil {
		return nil
	}
	return &attachment
}

type CallContractAttachment struct {
	Method string
	Args   [][]byte
}

func CreateCallContractAttachment(method string, args ...[]byte) *CallContractAttachment {
	return &CallContractAttachment{
		Method: method,
		Args:   args,
	}
}

func (c *CallContractAttachment) ToBytes() ([]byte, error) {
	return rlp.EncodeToBytes(c)
}

func ParseCallContractAttachment(tx *types.Transaction) *CallContractAttachment {
	var attachment CallContractAttachment
	if err := rlp.Decode(bytes.NewReader(tx.Payload), &attachment); err != nil {
		return nil
	}
	return &attachment
}
