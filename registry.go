package cep47

import (
	"context"
	"time"

	"github.com/iov-one/cep47/errors"
	"github.com/iov-one/cep47/store"
)

// Registry is the token ledger state machine. It owns the ledger state kept
// in the backing store and enforces the registry invariants: token ID
// uniqueness, ownership consistency, authorization of burns and transfers,
// and aggregate counters.
//
// Batch operations follow a two pass protocol. The whole batch is validated
// without side effects first and state is only touched once every item
// passed, so a failing call never applies partially. The single exception is
// the ID generator nonce, which advances on every generation regardless of
// what happens to the minting afterwards.
//
// A registry instance must not be used from multiple goroutines without
// external serialization.
type Registry struct {
	state ledger
	auth  Authenticator
	idgen *TokenIDGenerator
	sink  EventSink
}

// Option configures a Registry during construction.
type Option func(*Registry)

// WithEventSink routes emitted domain events into given sink. Default is to
// drop all events.
func WithEventSink(sink EventSink) Option {
	return func(r *Registry) {
		r.sink = sink
	}
}

// WithTimeSource replaces the time source used for token ID generation.
// Useful for deterministic tests.
func WithTimeSource(now func() time.Time) Option {
	return func(r *Registry) {
		r.idgen = NewTokenIDGenerator(now)
	}
}

// NewRegistry returns a registry operating on given store. The authenticator
// provides the identity of the principal performing each call.
func NewRegistry(db store.KVStore, auth Authenticator, opts ...Option) *Registry {
	r := &Registry{
		state: ledger{db: db},
		auth:  auth,
		idgen: NewTokenIDGenerator(nil),
		sink:  NopSink{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Init sets the registry scalars and prepares the empty collections. It must
// be called exactly once before any other operation; calling it on a
// registry that carries state fails with ErrAlreadyInitialized.
func (r *Registry) Init(name, symbol string, meta Meta) error {
	switch ok, err := r.state.Initialized(); {
	case err != nil:
		return err
	case ok:
		return ErrAlreadyInitialized.Newf("registry %q", name)
	}
	if err := r.state.SetName(name); err != nil {
		return err
	}
	if err := r.state.SetSymbol(symbol); err != nil {
		return err
	}
	if err := r.state.SetContractMeta(meta); err != nil {
		return err
	}
	return r.state.SetTotalSupply(0)
}

// ----- queries
//
// Queries are read only and never fail on absent data: an unknown owner has
// balance zero, an unknown token has no owner and no metadata.

// Name returns the registry name.
func (r *Registry) Name() (string, error) {
	return r.state.Name()
}

// Symbol returns the registry symbol.
func (r *Registry) Symbol() (string, error) {
	return r.state.Symbol()
}

// Meta returns the registry level metadata.
func (r *Registry) Meta() (Meta, error) {
	return r.state.ContractMeta()
}

// TotalSupply returns the number of live tokens.
func (r *Registry) TotalSupply() (uint64, error) {
	return r.state.TotalSupply()
}

// BalanceOf returns the number of tokens held by given owner.
func (r *Registry) BalanceOf(owner Address) (uint64, error) {
	return r.state.Balance(owner)
}

// OwnerOf returns the current owner of the token, nil when the token is not
// live.
func (r *Registry) OwnerOf(id TokenID) (Address, error) {
	return r.state.Owner(id)
}

// TokenMeta returns the metadata of the token, nil when the token is not
// live.
func (r *Registry) TokenMeta(id TokenID) (Meta, error) {
	return r.state.TokenMeta(id)
}

// TokenByIndex returns the i-th token held by given owner, empty when the
// index is out of range.
func (r *Registry) TokenByIndex(owner Address, index uint64) (TokenID, error) {
	return r.state.TokenAt(owner, index)
}

// GetApproved returns the active spender for given owner and token, nil when
// there is no allowance.
func (r *Registry) GetApproved(owner Address, id TokenID) (Address, error) {
	return r.state.Allowance(owner, id)
}

// IsApproved returns true if spender holds an active allowance for given
// owner and token.
func (r *Registry) IsApproved(owner Address, id TokenID, spender Address) (bool, error) {
	approved, err := r.state.Allowance(owner, id)
	if err != nil {
		return false, err
	}
	return approved != nil && approved.Equals(spender), nil
}

// ----- mutations

// SetMeta replaces the registry level metadata.
func (r *Registry) SetMeta(ctx context.Context, meta Meta) error {
	if err := r.state.SetContractMeta(meta); err != nil {
		return err
	}
	r.sink.Emit(MetaUpdateEvent{})
	return nil
}

// Mint creates the given tokens for the recipient. When ids is nil, fresh
// identifiers are generated, one per metadata blob (a single empty blob when
// metas is empty too). The minted identifiers are returned in order.
func (r *Registry) Mint(ctx context.Context, recipient Address, ids []TokenID, metas []Meta) ([]TokenID, error) {
	if err := recipient.Validate(); err != nil {
		return nil, errors.Wrap(err, "recipient")
	}

	if ids != nil {
		if len(ids) != len(metas) {
			return nil, ErrWrongArguments.Newf("%d token ids, %d metadata", len(ids), len(metas))
		}
		switch unique, err := ValidateUnique(r.state.db, ids); {
		case err != nil:
			return nil, err
		case !unique:
			return nil, ErrTokenIDAlreadyExists.New("token id collision")
		}
	} else {
		if len(metas) == 0 {
			metas = []Meta{{}}
		}
		var err error
		if ids, err = r.idgen.Generate(r.state.db, uint64(len(metas))); err != nil {
			return nil, err
		}
	}

	for i, id := range ids {
		if err := r.state.SetTokenMeta(id, metas[i]); err != nil {
			return nil, err
		}
		if err := r.state.SetOwner(id, recipient); err != nil {
			return nil, err
		}
		if err := r.state.AppendToken(recipient, id); err != nil {
			return nil, err
		}
	}

	supply, err := r.state.TotalSupply()
	if err != nil {
		return nil, err
	}
	if err := r.state.SetTotalSupply(supply + uint64(len(ids))); err != nil {
		return nil, err
	}

	r.sink.Emit(MintEvent{Recipient: recipient, TokenIDs: ids})
	return ids, nil
}

// MintCopies mints count tokens carrying the same metadata. When ids is
// provided its length must equal count.
func (r *Registry) MintCopies(ctx context.Context, recipient Address, ids []TokenID, meta Meta, count int) ([]TokenID, error) {
	if ids != nil && len(ids) != count {
		return nil, ErrWrongArguments.Newf("%d token ids for %d copies", len(ids), count)
	}
	metas := make([]Meta, count)
	for i := range metas {
		metas[i] = meta.Clone()
	}
	return r.Mint(ctx, recipient, ids, metas)
}

// Burn destroys the given tokens of the owner. The caller must be the owner
// or hold an active allowance for every listed token.
func (r *Registry) Burn(ctx context.Context, owner Address, ids []TokenID) error {
	if err := owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	caller := r.auth.Caller(ctx)
	if !caller.Equals(owner) {
		for _, id := range ids {
			switch approved, err := r.IsApproved(owner, id, caller); {
			case err != nil:
				return err
			case !approved:
				return ErrPermissionDenied.Newf("token %q", id)
			}
		}
	}
	return r.burn(owner, ids)
}

// burn validates that every token is live and owned by owner, then removes
// owner, owned index, metadata and allowance entries together.
func (r *Registry) burn(owner Address, ids []TokenID) error {
	if err := r.validateAllOwned(owner, ids); err != nil {
		return err
	}

	for _, id := range ids {
		if err := r.state.RemoveToken(owner, id); err != nil {
			return err
		}
		if err := r.state.DeleteTokenMeta(id); err != nil {
			return err
		}
		if err := r.state.DeleteOwner(id); err != nil {
			return err
		}
		if err := r.state.DeleteAllowance(owner, id); err != nil {
			return err
		}
	}

	supply, err := r.state.TotalSupply()
	if err != nil {
		return err
	}
	if err := r.state.SetTotalSupply(supply - uint64(len(ids))); err != nil {
		return err
	}

	r.sink.Emit(BurnEvent{Owner: owner, TokenIDs: ids})
	return nil
}

// Approve lets spender transfer or burn the given tokens on behalf of the
// caller. The caller must own every listed token. A previous allowance for
// the same token is overwritten.
func (r *Registry) Approve(ctx context.Context, spender Address, ids []TokenID) error {
	if err := spender.Validate(); err != nil {
		return errors.Wrap(err, "spender")
	}
	caller := r.auth.Caller(ctx)

	for _, id := range ids {
		switch owner, err := r.state.Owner(id); {
		case err != nil:
			return err
		case owner == nil:
			return ErrWrongArguments.Newf("token %q has no owner", id)
		case !owner.Equals(caller):
			return ErrPermissionDenied.Newf("token %q", id)
		}
	}

	for _, id := range ids {
		if err := r.state.SetAllowance(caller, id, spender); err != nil {
			return err
		}
	}

	r.sink.Emit(ApproveEvent{Owner: caller, Spender: spender, TokenIDs: ids})
	return nil
}

// Transfer moves the caller's tokens to the recipient.
func (r *Registry) Transfer(ctx context.Context, recipient Address, ids []TokenID) error {
	return r.TransferFrom(ctx, r.auth.Caller(ctx), recipient, ids)
}

// TransferFrom moves the owner's tokens to the recipient. A self transfer by
// the owner needs no authorization; any other caller must hold an active
// allowance for every listed token, and those allowances are consumed by the
// transfer.
func (r *Registry) TransferFrom(ctx context.Context, owner, recipient Address, ids []TokenID) error {
	if err := owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := recipient.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}

	caller := r.auth.Caller(ctx)
	consume := !owner.Equals(caller)
	if consume {
		for _, id := range ids {
			switch approved, err := r.IsApproved(owner, id, caller); {
			case err != nil:
				return err
			case !approved:
				return ErrPermissionDenied.Newf("token %q", id)
			}
		}
	}

	if err := r.validateAllOwned(owner, ids); err != nil {
		return err
	}

	for _, id := range ids {
		if consume {
			if err := r.state.DeleteAllowance(owner, id); err != nil {
				return err
			}
		}
		if err := r.state.RemoveToken(owner, id); err != nil {
			return err
		}
		if err := r.state.AppendToken(recipient, id); err != nil {
			return err
		}
		if err := r.state.SetOwner(id, recipient); err != nil {
			return err
		}
	}

	r.sink.Emit(TransferEvent{Sender: owner, Recipient: recipient, TokenIDs: ids})
	return nil
}

// SetTokenMeta replaces the metadata of a live token.
func (r *Registry) SetTokenMeta(ctx context.Context, id TokenID, meta Meta) error {
	switch owner, err := r.state.Owner(id); {
	case err != nil:
		return err
	case owner == nil:
		return ErrTokenIDDoesntExist.Newf("token %q", id)
	}
	if err := r.state.SetTokenMeta(id, meta); err != nil {
		return err
	}
	r.sink.Emit(MetadataUpdateEvent{TokenID: id})
	return nil
}

// validateAllOwned is the side effect free validation pass shared by burn
// and transfer: every token must be live and held by owner.
func (r *Registry) validateAllOwned(owner Address, ids []TokenID) error {
	for _, id := range ids {
		switch holder, err := r.state.Owner(id); {
		case err != nil:
			return err
		case holder == nil:
			return ErrTokenIDDoesntExist.Newf("token %q", id)
		case !holder.Equals(owner):
			return ErrPermissionDenied.Newf("token %q", id)
		}
	}
	return nil
}
