package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event types for the cleanup stream.
const (
	EventArrestDeleted = "arrest_deleted"
)

// Stream and consumer group names.
const (
	StreamCleanup        = "stream:cleanup"
	ConsumerGroupCleanup = "cleanup_workers"
)

// CleanupEvent is published when an arrest record is removed. The worker
// consumes it and bulk-deletes the record's comments, the compensating step
// for the non-atomic arrest/comment deletion.
type CleanupEvent struct {
	// ID correlates publisher and worker log lines for one event. The
	// stream message ID cannot serve here: it is assigned by Redis after
	// the publisher logs.
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`

	ArrestID string `json:"arrest_id"`
}

// NewArrestDeletedEvent creates the event for a removed arrest record.
func NewArrestDeletedEvent(arrestID string) CleanupEvent {
	return CleanupEvent{
		ID:        uuid.NewString(),
		Type:      EventArrestDeleted,
		Timestamp: time.Now().Unix(),
		ArrestID:  arrestID,
	}
}

// ToMap converts the event to a map for Redis XADD. Redis Streams store
// field-value pairs, so the event is serialized to JSON in a "data" field.
func (e CleanupEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseCleanupEvent parses a CleanupEvent from Redis stream message values.
func ParseCleanupEvent(values map[string]interface{}) (CleanupEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return CleanupEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event CleanupEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return CleanupEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
