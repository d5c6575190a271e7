package cep47

import "github.com/iov-one/cep47/errors"

// Error kinds of the registry. Every operation failure wraps one of these, so
// a client can branch on the kind with ErrXyz.Is(err). The numeric codes are
// part of the public contract and must not be renumbered.
var (
	// ErrPermissionDenied is returned when the caller lacks ownership or
	// an active allowance for a token being burned, transferred or
	// approved away.
	ErrPermissionDenied = errors.Register(1, "permission denied")

	// ErrWrongArguments is returned on a malformed batch shape or when a
	// token without an owner is referenced where one was expected.
	ErrWrongArguments = errors.Register(2, "wrong arguments")

	// ErrTokenIDAlreadyExists is returned when a caller supplied token ID
	// collides with a currently live token during mint.
	ErrTokenIDAlreadyExists = errors.Register(3, "token id already exists")

	// ErrTokenIDDoesntExist is returned when an operation targets a token
	// that is not currently live.
	ErrTokenIDDoesntExist = errors.Register(4, "token id doesn't exist")

	// ErrAlreadyInitialized is returned when Init is called on a registry
	// that carries state already. Re-initialization would silently orphan
	// the existing ledger data.
	ErrAlreadyInitialized = errors.Register(5, "already initialized")
)
