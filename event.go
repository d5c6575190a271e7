package cep47

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Event is a domain event emitted by the registry after a successful state
// change. Delivery is fire-and-forget: the registry never waits for or acts
// upon sink feedback.
type Event interface {
	// EventType returns a stable name identifying the kind of event.
	EventType() string
}

// MintEvent is emitted once per successful Mint or MintCopies call.
type MintEvent struct {
	Recipient Address
	TokenIDs  []TokenID
}

func (MintEvent) EventType() string { return "mint" }

// BurnEvent is emitted once per successful Burn call.
type BurnEvent struct {
	Owner    Address
	TokenIDs []TokenID
}

func (BurnEvent) EventType() string { return "burn" }

// TransferEvent is emitted once per successful Transfer or TransferFrom call.
type TransferEvent struct {
	Sender    Address
	Recipient Address
	TokenIDs  []TokenID
}

func (TransferEvent) EventType() string { return "transfer" }

// ApproveEvent is emitted once per successful Approve call.
type ApproveEvent struct {
	Owner    Address
	Spender  Address
	TokenIDs []TokenID
}

func (ApproveEvent) EventType() string { return "approve" }

// MetadataUpdateEvent is emitted when a single token's metadata is replaced.
type MetadataUpdateEvent struct {
	TokenID TokenID
}

func (MetadataUpdateEvent) EventType() string { return "metadata_update" }

// MetaUpdateEvent is emitted when the registry level metadata is replaced.
type MetaUpdateEvent struct{}

func (MetaUpdateEvent) EventType() string { return "meta_update" }

// EventSink receives domain events for external consumption (indexing,
// notification). Implementations must not block.
type EventSink interface {
	Emit(Event)
}

// NopSink drops all events.
type NopSink struct{}

var _ EventSink = NopSink{}

func (NopSink) Emit(Event) {}

// MultiSink fans every event out to all member sinks, in order.
type MultiSink []EventSink

var _ EventSink = MultiSink(nil)

func (s MultiSink) Emit(ev Event) {
	for _, sink := range s {
		sink.Emit(ev)
	}
}

// LogSink writes every event as a structured log record. Each emission is
// stamped with a fresh envelope ID so that downstream consumers can
// deduplicate records.
type LogSink struct {
	log zerolog.Logger
}

var _ EventSink = (*LogSink)(nil)

// NewLogSink returns a sink logging all events through given logger.
func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Emit(ev Event) {
	entry := s.log.Info().
		Str("event_id", uuid.New().String()).
		Str("event", ev.EventType())

	switch ev := ev.(type) {
	case MintEvent:
		entry = entry.
			Stringer("recipient", ev.Recipient).
			Strs("token_ids", tokenIDStrings(ev.TokenIDs))
	case BurnEvent:
		entry = entry.
			Stringer("owner", ev.Owner).
			Strs("token_ids", tokenIDStrings(ev.TokenIDs))
	case TransferEvent:
		entry = entry.
			Stringer("sender", ev.Sender).
			Stringer("recipient", ev.Recipient).
			Strs("token_ids", tokenIDStrings(ev.TokenIDs))
	case ApproveEvent:
		entry = entry.
			Stringer("owner", ev.Owner).
			Stringer("spender", ev.Spender).
			Strs("token_ids", tokenIDStrings(ev.TokenIDs))
	case MetadataUpdateEvent:
		entry = entry.Str("token_id", string(ev.TokenID))
	}

	entry.Msg("registry event")
}

func tokenIDStrings(ids []TokenID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
