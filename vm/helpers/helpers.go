package helpers

import (
	"bytes"
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

var indexOufOfRange = errors.New("index out of range")

func assertLen(index int, args ...[]byte) error {
	if index >= len(args) {
		return indexOufOfRange
	}
	return nil
}

func ExtractAddr(index int, args ...[]byte) (common.Address, error) {
	if err := assertLen(index, args...); err != nil {
		return common.Address{}, err
	}
	if len(args[index]) != common.AddressLength {
		return common.Address{}, errors.Errorf("invalid address length %v", len(args[index]))
	}
	return common.BytesToAddress(args[index]), nil
}

func ExtractUInt64(index int, args ...[]byte) (uint64, error) {
	if err := assertLen(index, args...); err != nil {
		return 0, err
	}
	var ret uint64
	buf := bytes.NewBuffer(args[index])
	if err := binary.Read(buf, binary.LittleEndian, &ret); err != nil {
		return 0, errors.Wrap(err, "invalid uint64 value")
	}
	return ret, nil
}

func ExtractArray(index int, args ...[]byte) ([]byte, error) {
	if err := assertLen(index, args...); err != nil {
		return nil, err
	}
	return args[index], nil
}
