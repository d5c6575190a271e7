/*
Package cep47 implements the ledger core of a non fungible token registry.

The registry maps unique token identifiers to owners, metadata and delegated
transfer rights. It supports minting (with caller supplied or generated
identifiers), burning, transfers, per token allowances and metadata updates,
all as atomic batch operations over an abstract key-value store.

The package is storage agnostic: state is kept in a store.KVStore provided by
the caller, which may be the in-memory btree store, the SQLite store, or any
other implementation. Callers are expected to serialize operations on a single
registry instance; there is no internal locking.
*/
package cep47
