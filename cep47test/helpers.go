// Package cep47test provides test fixtures for the registry: a caller
// authenticator stub, deterministic addresses and an event sink that records
// all emissions.
package cep47test

import (
	"context"
	"encoding/binary"

	"github.com/iov-one/cep47"
)

// Auth is a mock implementing the cep47.Authenticator interface. It reports
// the configured address as the caller of every call, ignoring the context.
type Auth struct {
	// Signer is reported as the caller of every operation.
	Signer cep47.Address
}

var _ cep47.Authenticator = (*Auth)(nil)

func (a *Auth) Caller(context.Context) cep47.Address {
	return a.Signer
}

// addressIndex is used to power NewAddress address generation.
var addressIndex uint64

// NewAddress returns a new unique address. Each call returns a different
// value, deterministic within a process run.
func NewAddress() cep47.Address {
	addressIndex++
	addr := make(cep47.Address, cep47.AddressLength)
	binary.BigEndian.PutUint64(addr[cep47.AddressLength-8:], addressIndex)
	return addr
}

// RecordingSink is an event sink that remembers all emitted events in order.
type RecordingSink struct {
	Events []cep47.Event
}

var _ cep47.EventSink = (*RecordingSink)(nil)

func (s *RecordingSink) Emit(ev cep47.Event) {
	s.Events = append(s.Events, ev)
}
