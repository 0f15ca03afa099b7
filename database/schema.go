package database

var (
	stateTreePrefix = []byte("st") // iavl nodes of the contract state tree

	contractStorePrefix = []byte("cs") // state tree: contractStorePrefix + contract address + key -> value

	codeHashPrefix = []byte("ch") // state tree: codeHashPrefix + contract address -> code hash

	receiptIndexPrefix = []byte("ri") // receiptIndexPrefix + tx hash -> rlp(storedReceipt)

	noncePrefix = []byte("nn") // noncePrefix + address -> rlp(uint32)
)
