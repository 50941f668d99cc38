package queue

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// Publisher defines the interface for publishing cleanup events.
type Publisher interface {
	// Publish adds an event to the stream and returns the message ID
	// assigned by Redis.
	Publish(ctx context.Context, stream string, event CleanupEvent) (messageID string, err error)
}

// RedisPublisher implements Publisher using Redis Streams.
type RedisPublisher struct {
	client *redis.Client
}

// NewPublisher creates a new Publisher backed by Redis Streams.
func NewPublisher(client *redis.Client) Publisher {
	return &RedisPublisher{client: client}
}

// Publish adds an event to the stream using XADD with an auto-generated
// message ID.
func (p *RedisPublisher) Publish(ctx context.Context, stream string, event CleanupEvent) (string, error) {
	values, err := event.ToMap()
	if err != nil {
		log.Printf("[Publisher] Publish FAILED: stream=%s type=%s err=%v", stream, event.Type, err)
		return "", fmt.Errorf("serialize event: %w", err)
	}

	messageID, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: values,
	}).Result()
	if err != nil {
		log.Printf("[Publisher] Publish FAILED: stream=%s type=%s err=%v", stream, event.Type, err)
		return "", fmt.Errorf("xadd to stream: %w", err)
	}

	log.Printf("[Publisher] Publish OK: stream=%s type=%s event=%s arrest=%s msgID=%s",
		stream, event.Type, event.ID, event.ArrestID, messageID)
	return messageID, nil
}

// PublishArrestDeleted is a convenience method for the one event the system
// publishes today.
func (p *RedisPublisher) PublishArrestDeleted(ctx context.Context, arrestID string) (string, error) {
	return p.Publish(ctx, StreamCleanup, NewArrestDeletedEvent(arrestID))
}
