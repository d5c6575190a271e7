package cep47

import (
	"encoding/binary"

	"github.com/iov-one/cep47/store"
)

// Sequence maintains a monotonic counter in the store. Each value is greater
// than the last, both as an integer and under bytes.Compare on the encoded
// form.
type Sequence struct {
	id []byte
}

// NewSequence returns a sequence counter. Sequence is using following pattern
// to construct a key:
//    _s.<bucket>:<name>
func NewSequence(bucket, name string) Sequence {
	id := "_s." + bucket + ":" + name
	return Sequence{
		id: []byte(id),
	}
}

// Latest returns the current state of the sequence without modifying it. A
// sequence that was never incremented reports zero.
func (s *Sequence) Latest(db store.ReadOnlyKVStore) (uint64, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, err
	}
	return decodeSequence(raw), nil
}

// Advance increments the sequence by n and returns the value it had before.
func (s *Sequence) Advance(db store.KVStore, n uint64) (uint64, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, err
	}
	val := decodeSequence(raw)
	if err := db.Set(s.id, encodeSequence(val+n)); err != nil {
		return 0, err
	}
	return val, nil
}

func decodeSequence(bz []byte) uint64 {
	if bz == nil {
		return 0
	}
	return binary.BigEndian.Uint64(bz)
}

func encodeSequence(val uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, val)
	return bz
}
