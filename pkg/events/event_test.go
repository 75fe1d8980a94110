package events

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewBaseEvent(t *testing.T) {
	aggregateID := "app-123"

	before := time.Now().UTC()
	event := NewBaseEvent("credit.application.submitted", aggregateID, "CreditApplication")
	after := time.Now().UTC()

	if event.EventID() == "" {
		t.Error("expected non-empty event ID")
	}

	if event.EventType() != "credit.application.submitted" {
		t.Errorf("expected event type %q, got %q", "credit.application.submitted", event.EventType())
	}

	if event.AggregateID() != aggregateID {
		t.Errorf("expected aggregate ID %v, got %v", aggregateID, event.AggregateID())
	}

	if event.AggregateType() != "CreditApplication" {
		t.Errorf("expected aggregate type %q, got %q", "CreditApplication", event.AggregateType())
	}

	if event.OccurredAt().Before(before) || event.OccurredAt().After(after) {
		t.Errorf("expected occurredAt between %v and %v, got %v", before, after, event.OccurredAt())
	}
}

func TestBaseEventImplementsDomainEvent(t *testing.T) {
	var _ DomainEvent = BaseEvent{}
}

func TestNewBaseEventUniqueIDs(t *testing.T) {
	a := NewBaseEvent("x", "agg", "Aggregate")
	b := NewBaseEvent("x", "agg", "Aggregate")
	if a.EventID() == b.EventID() {
		t.Errorf("expected distinct event IDs, both were %q", a.EventID())
	}
}

func TestBaseEventJSONEnvelope(t *testing.T) {
	type affiliateRegistered struct {
		BaseEvent
		Document string `json:"document"`
	}

	evt := affiliateRegistered{
		BaseEvent: NewBaseEvent("credit.affiliate.registered", "aff-1", "Affiliate"),
		Document:  "1234567890",
	}

	data, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, key := range []string{"event_id", "event_type", "aggregate_id", "aggregate_type", "occurred_at", "document"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("expected key %q in serialised event, got %v", key, decoded)
		}
	}
	if decoded["aggregate_id"] != "aff-1" {
		t.Errorf("expected aggregate_id %q, got %v", "aff-1", decoded["aggregate_id"])
	}
}
