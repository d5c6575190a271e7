package cep47

import (
	"encoding/binary"

	"github.com/iov-one/cep47/store"
)

// Key layout of the four ledger collections and the registry scalars. Token
// IDs are variable length and therefore always the last key component.
// Addresses are fixed size (AddressLength), which keeps compound keys
// unambiguous.
const (
	prefixOwner      = "owners:"
	prefixMeta       = "meta:"
	prefixAllowance  = "allow:"
	prefixOwnedToken = "owned:"
	prefixOwnedIndex = "ownedx:"
	prefixBalance    = "balance:"

	keyName         = "_c.name"
	keySymbol       = "_c.symbol"
	keyContractMeta = "_c.meta"
	keySupply       = "_c.supply"
)

// ledger gives typed access to the raw registry state: the owner, owned
// index, metadata and allowance collections plus the scalar cells. It adds no
// validation beyond data encoding; invariants are the Registry's business.
type ledger struct {
	db store.KVStore
}

func ownerKey(id TokenID) []byte {
	return append([]byte(prefixOwner), id...)
}

func metaKey(id TokenID) []byte {
	return append([]byte(prefixMeta), id...)
}

func allowanceKey(owner Address, id TokenID) []byte {
	key := append([]byte(prefixAllowance), owner...)
	return append(key, id...)
}

func ownedTokenKey(owner Address, index uint64) []byte {
	key := append([]byte(prefixOwnedToken), owner...)
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, index)
	return append(key, raw...)
}

func ownedIndexKey(owner Address, id TokenID) []byte {
	key := append([]byte(prefixOwnedIndex), owner...)
	return append(key, id...)
}

func balanceKey(owner Address) []byte {
	return append([]byte(prefixBalance), owner...)
}

// ----- owners collection

func (l ledger) Owner(id TokenID) (Address, error) {
	raw, err := l.db.Get(ownerKey(id))
	if err != nil {
		return nil, err
	}
	return Address(raw), nil
}

func (l ledger) SetOwner(id TokenID, owner Address) error {
	return l.db.Set(ownerKey(id), owner)
}

func (l ledger) DeleteOwner(id TokenID) error {
	return l.db.Delete(ownerKey(id))
}

// ----- metadata collection

func (l ledger) TokenMeta(id TokenID) (Meta, error) {
	raw, err := l.db.Get(metaKey(id))
	if err != nil || raw == nil {
		return nil, err
	}
	return decodeMeta(raw)
}

func (l ledger) SetTokenMeta(id TokenID, meta Meta) error {
	raw, err := encodeMeta(meta)
	if err != nil {
		return err
	}
	return l.db.Set(metaKey(id), raw)
}

func (l ledger) DeleteTokenMeta(id TokenID) error {
	return l.db.Delete(metaKey(id))
}

// ----- allowances collection

func (l ledger) Allowance(owner Address, id TokenID) (Address, error) {
	raw, err := l.db.Get(allowanceKey(owner, id))
	if err != nil {
		return nil, err
	}
	return Address(raw), nil
}

func (l ledger) SetAllowance(owner Address, id TokenID, spender Address) error {
	return l.db.Set(allowanceKey(owner, id), spender)
}

func (l ledger) DeleteAllowance(owner Address, id TokenID) error {
	return l.db.Delete(allowanceKey(owner, id))
}

// ----- owned index

func (l ledger) Balance(owner Address) (uint64, error) {
	raw, err := l.db.Get(balanceKey(owner))
	if err != nil {
		return 0, err
	}
	return decodeSequence(raw), nil
}

// TokenAt returns the token held by owner at given position, empty when the
// index is out of range.
func (l ledger) TokenAt(owner Address, index uint64) (TokenID, error) {
	raw, err := l.db.Get(ownedTokenKey(owner, index))
	if err != nil {
		return "", err
	}
	return TokenID(raw), nil
}

// AppendToken adds the token at the end of the owner's collection and bumps
// the balance.
func (l ledger) AppendToken(owner Address, id TokenID) error {
	balance, err := l.Balance(owner)
	if err != nil {
		return err
	}
	if err := l.db.Set(ownedTokenKey(owner, balance), []byte(id)); err != nil {
		return err
	}
	if err := l.db.Set(ownedIndexKey(owner, id), encodeSequence(balance)); err != nil {
		return err
	}
	return l.db.Set(balanceKey(owner), encodeSequence(balance+1))
}

// RemoveToken removes the token from the owner's collection. The last token
// of the collection is moved into the freed position so that indexes stay
// dense.
func (l ledger) RemoveToken(owner Address, id TokenID) error {
	rawIdx, err := l.db.Get(ownedIndexKey(owner, id))
	if err != nil {
		return err
	}
	balance, err := l.Balance(owner)
	if err != nil {
		return err
	}
	index := decodeSequence(rawIdx)
	last := balance - 1

	if index != last {
		lastToken, err := l.TokenAt(owner, last)
		if err != nil {
			return err
		}
		if err := l.db.Set(ownedTokenKey(owner, index), []byte(lastToken)); err != nil {
			return err
		}
		if err := l.db.Set(ownedIndexKey(owner, lastToken), encodeSequence(index)); err != nil {
			return err
		}
	}

	if err := l.db.Delete(ownedTokenKey(owner, last)); err != nil {
		return err
	}
	if err := l.db.Delete(ownedIndexKey(owner, id)); err != nil {
		return err
	}
	return l.db.Set(balanceKey(owner), encodeSequence(last))
}

// ----- registry scalars

func (l ledger) Initialized() (bool, error) {
	return l.db.Has([]byte(keyName))
}

func (l ledger) Name() (string, error) {
	raw, err := l.db.Get([]byte(keyName))
	return string(raw), err
}

func (l ledger) SetName(name string) error {
	return l.db.Set([]byte(keyName), []byte(name))
}

func (l ledger) Symbol() (string, error) {
	raw, err := l.db.Get([]byte(keySymbol))
	return string(raw), err
}

func (l ledger) SetSymbol(symbol string) error {
	return l.db.Set([]byte(keySymbol), []byte(symbol))
}

func (l ledger) ContractMeta() (Meta, error) {
	raw, err := l.db.Get([]byte(keyContractMeta))
	if err != nil || raw == nil {
		return nil, err
	}
	return decodeMeta(raw)
}

func (l ledger) SetContractMeta(meta Meta) error {
	raw, err := encodeMeta(meta)
	if err != nil {
		return err
	}
	return l.db.Set([]byte(keyContractMeta), raw)
}

func (l ledger) TotalSupply() (uint64, error) {
	raw, err := l.db.Get([]byte(keySupply))
	if err != nil {
		return 0, err
	}
	return decodeSequence(raw), nil
}

func (l ledger) SetTotalSupply(supply uint64) error {
	return l.db.Set([]byte(keySupply), encodeSequence(supply))
}
