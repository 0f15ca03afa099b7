package common

import (
	"github.com/pkg/errors"
	db "github.com/tendermint/tm-db"
)

// Copy writes every key of source into dest in a single batch.
func Copy(source, dest db.DB) error {
	it, err := source.Iterator(nil, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create iterator")
	}

	batch := dest.NewBatch()
	defer batch.Close()
	copied := 0
	for ; it.Valid(); it.Next() {
		batch.Set(it.Key(), it.Value())
		copied++
	}
	// source and dest may share one database, the iterator must be released before writing
	it.Close()
	if copied == 0 {
		return nil
	}
	return batch.Write()
}
