package cep47

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestLogSinkWritesStructuredRecords(t *testing.T) {
	var out bytes.Buffer
	sink := NewLogSink(zerolog.New(&out))

	recipient := make(Address, AddressLength)
	recipient[0] = 1
	sink.Emit(MintEvent{Recipient: recipient, TokenIDs: []TokenID{"a", "b"}})

	var record map[string]interface{}
	if err := json.Unmarshal(out.Bytes(), &record); err != nil {
		t.Fatalf("cannot decode log record: %+v\n%s", err, out.String())
	}
	if got := record["event"]; got != "mint" {
		t.Fatalf("want mint event, got %v", got)
	}
	if got := record["recipient"]; got != recipient.String() {
		t.Fatalf("want recipient %s, got %v", recipient, got)
	}
	if got, ok := record["event_id"].(string); !ok || len(got) == 0 {
		t.Fatalf("want an envelope id, got %v", record["event_id"])
	}
	ids, ok := record["token_ids"].([]interface{})
	if !ok || len(ids) != 2 {
		t.Fatalf("want two token ids, got %v", record["token_ids"])
	}
}

func TestMultiSinkFansOut(t *testing.T) {
	var a, b countingSink
	sink := MultiSink{&a, &b}
	sink.Emit(MetaUpdateEvent{})
	sink.Emit(MetadataUpdateEvent{TokenID: "x"})

	if a.count != 2 || b.count != 2 {
		t.Fatalf("want 2 events in each sink, got %d and %d", a.count, b.count)
	}
}

type countingSink struct {
	count int
}

func (s *countingSink) Emit(Event) {
	s.count++
}
