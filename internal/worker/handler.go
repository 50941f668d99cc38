package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"nycarrests/internal/queue"
)

// CommentRemover abstracts the comment data module so the worker does not
// depend on the service package directly.
type CommentRemover interface {
	// RemoveByArrest deletes every comment attached to the arrest and
	// returns the number removed.
	RemoveByArrest(ctx context.Context, arrestID string) (int64, error)
}

// Handler processes cleanup events from the stream.
type Handler struct {
	comments CommentRemover
}

// NewHandler creates a new event handler.
func NewHandler(comments CommentRemover) *Handler {
	return &Handler{comments: comments}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.CleanupEvent) error {
	startTime := time.Now()
	var err error

	switch event.Type {
	case queue.EventArrestDeleted:
		err = h.handleArrestDeleted(ctx, event)
	default:
		log.Printf("[Worker] Unknown event type: %s", event.Type)
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	if err != nil {
		log.Printf("[Worker] HandleEvent FAILED: type=%s event=%s duration=%v err=%v",
			event.Type, event.ID, time.Since(startTime), err)
		return err
	}
	return nil
}

// handleArrestDeleted removes the comments a deleted arrest left behind.
func (h *Handler) handleArrestDeleted(ctx context.Context, event queue.CleanupEvent) error {
	removed, err := h.comments.RemoveByArrest(ctx, event.ArrestID)
	if err != nil {
		return fmt.Errorf("remove comments for arrest %s: %w", event.ArrestID, err)
	}
	log.Printf("[Worker] ArrestDeleted: arrest=%s removed %d comments", event.ArrestID, removed)
	return nil
}
