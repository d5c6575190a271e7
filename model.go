package cep47

import (
	"encoding/json"

	"github.com/iov-one/cep47/errors"
)

// TokenID is an opaque string identifier, globally unique while the token
// exists. It is either supplied by the caller at mint time or derived by the
// generator.
type TokenID string

// Meta is an arbitrary key-value metadata blob attached to a token or to the
// registry itself.
type Meta map[string]string

// Clone returns a copy that shares no memory with the original.
func (m Meta) Clone() Meta {
	if m == nil {
		return nil
	}
	cp := make(Meta, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

// Equals compares two metadata blobs by content.
func (m Meta) Equals(o Meta) bool {
	if len(m) != len(o) {
		return false
	}
	for k, v := range m {
		if ov, ok := o[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

func encodeMeta(m Meta) ([]byte, error) {
	if m == nil {
		m = Meta{}
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, errors.Wrap(err, "encode meta")
	}
	return raw, nil
}

func decodeMeta(raw []byte) (Meta, error) {
	var m Meta
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, errors.Wrap(err, "decode meta")
	}
	return m, nil
}
