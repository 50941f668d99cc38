package queue

import (
	"testing"
)

func TestCleanupEvent_RoundTripThroughStreamValues(t *testing.T) {
	event := NewArrestDeletedEvent("507f1f77bcf86cd799439011")

	values, err := event.ToMap()
	if err != nil {
		t.Fatalf("ToMap failed: %v", err)
	}
	if values["type"] != EventArrestDeleted {
		t.Errorf("type field = %v, want %s", values["type"], EventArrestDeleted)
	}

	parsed, err := ParseCleanupEvent(values)
	if err != nil {
		t.Fatalf("ParseCleanupEvent failed: %v", err)
	}
	if parsed.ArrestID != event.ArrestID {
		t.Errorf("arrestId = %q, want %q", parsed.ArrestID, event.ArrestID)
	}
	if parsed.Type != EventArrestDeleted {
		t.Errorf("type = %q, want %q", parsed.Type, EventArrestDeleted)
	}
	if parsed.Timestamp != event.Timestamp {
		t.Errorf("timestamp = %d, want %d", parsed.Timestamp, event.Timestamp)
	}
	if parsed.ID == "" || parsed.ID != event.ID {
		t.Errorf("event id = %q, want %q", parsed.ID, event.ID)
	}
}

func TestNewArrestDeletedEvent_UniqueIDs(t *testing.T) {
	a := NewArrestDeletedEvent("507f1f77bcf86cd799439011")
	b := NewArrestDeletedEvent("507f1f77bcf86cd799439011")
	if a.ID == b.ID {
		t.Errorf("two events share id %q", a.ID)
	}
}

func TestParseCleanupEvent_MissingData(t *testing.T) {
	_, err := ParseCleanupEvent(map[string]interface{}{"type": EventArrestDeleted})
	if err == nil {
		t.Fatal("expected error for missing data field")
	}
}

func TestParseCleanupEvent_MalformedJSON(t *testing.T) {
	_, err := ParseCleanupEvent(map[string]interface{}{"data": "{not json"})
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}
