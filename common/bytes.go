package common

import (
	"bytes"
	"encoding/binary"
)

// ToBytes encodes a fixed-size value (uint64, uint32, uint16, byte...) in little endian order.
func ToBytes(v interface{}) []byte {
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
		return nil
	}
	return buf.Bytes()
}
