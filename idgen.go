package cep47

import (
	"encoding/binary"
	"encoding/hex"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/iov-one/cep47/store"
)

// TokenIDGenerator derives fresh token identifiers from a monotonic nonce
// kept in the store and an injected time source. Identifiers are the hex
// encoded blake2b digest of the time value concatenated with the nonce, so
// given the same time value and nonce state the output is reproducible.
//
// Uniqueness across invocations comes from the nonce alone: it is advanced
// unconditionally on every Generate call, even when the minting that
// requested the identifiers fails later on.
type TokenIDGenerator struct {
	nonce Sequence
	now   func() time.Time
}

// NewTokenIDGenerator returns a generator reading the time from given
// source. A nil source defaults to time.Now.
func NewTokenIDGenerator(now func() time.Time) *TokenIDGenerator {
	if now == nil {
		now = time.Now
	}
	return &TokenIDGenerator{
		nonce: NewSequence("cep47", "nonce"),
		now:   now,
	}
}

// Generate produces n fresh token identifiers and advances the nonce by n.
func (g *TokenIDGenerator) Generate(db store.KVStore, n uint64) ([]TokenID, error) {
	nonce, err := g.nonce.Advance(db, n)
	if err != nil {
		return nil, err
	}

	at := make([]byte, 8)
	binary.BigEndian.PutUint64(at, uint64(g.now().Unix()))

	ids := make([]TokenID, 0, n)
	for i := nonce; i < nonce+n; i++ {
		input := make([]byte, 0, 16)
		input = append(input, at...)
		input = binary.BigEndian.AppendUint64(input, i)
		digest := blake2b.Sum256(input)
		ids = append(ids, TokenID(hex.EncodeToString(digest[:])))
	}
	return ids, nil
}

// ValidateUnique returns false if any of given identifiers already denotes a
// live token. It is used to vet both generated and caller supplied IDs.
func ValidateUnique(db store.KVStore, ids []TokenID) (bool, error) {
	l := ledger{db: db}
	for _, id := range ids {
		owner, err := l.Owner(id)
		if err != nil {
			return false, err
		}
		if owner != nil {
			return false, nil
		}
	}
	return true, nil
}
