package cep47

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/iov-one/cep47/errors"
)

// AddressLength is the length of all addresses. You can modify it in init()
// before any addresses are calculated, but it must not change during the
// lifetime of the kvstore.
var AddressLength = 20

// Address is an opaque principal identity: the holder of tokens and the
// subject of allowances. The registry trusts addresses as-is; deriving them
// from keys or conditions is the business of the host environment.
type Address []byte

// Equals checks if two addresses are the same
func (a Address) Equals(b Address) bool {
	return bytes.Equal(a, b)
}

// Validate returns an error if the address is not the expected size.
func (a Address) Validate() error {
	if len(a) != AddressLength {
		return ErrWrongArguments.Newf("address length: %d", len(a))
	}
	return nil
}

// String returns a human readable string.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return strings.ToUpper(hex.EncodeToString(a))
}

// Clone returns a copy that shares no memory with the original.
func (a Address) Clone() Address {
	if a == nil {
		return nil
	}
	cp := make(Address, len(a))
	copy(cp, a)
	return cp
}

// MarshalJSON provides a hex representation for JSON,
// to override the standard base64 []byte encoding
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToUpper(hex.EncodeToString(a)))
}

func (a *Address) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	if len(enc) == 0 {
		*a = nil
		return nil
	}
	val, err := hex.DecodeString(enc)
	if err != nil {
		return errors.Wrap(err, "cannot decode hex")
	}
	if err := Address(val).Validate(); err != nil {
		return err
	}
	*a = val
	return nil
}

// ParseAddress decodes a hex serialized address.
func ParseAddress(enc string) (Address, error) {
	val, err := hex.DecodeString(enc)
	if err != nil {
		return nil, errors.Wrap(err, "cannot decode hex")
	}
	a := Address(val)
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}
