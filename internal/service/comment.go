package service

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"nycarrests/internal/model"
	"nycarrests/internal/repository"
	"nycarrests/internal/validate"
)

// CommentService handles comment CRUD. A comment is owned exclusively by
// its creating user; update and delete check ownership and fail rather than
// silently no-op.
type CommentService struct {
	repo  repository.CommentRepository
	users repository.UserRepository
}

func NewCommentService(repo repository.CommentRepository, users repository.UserRepository) *CommentService {
	return &CommentService{repo: repo, users: users}
}

// Add validates both ids, trims and sanitizes the text, inserts the comment
// and records a best-effort back-reference on the user document.
func (s *CommentService) Add(ctx context.Context, userID, arrestID, text string) (*model.Comment, error) {
	userID, err := validate.ID(userID, "userId")
	if err != nil {
		return nil, err
	}
	arrestID, err = validate.ID(arrestID, "arrestId")
	if err != nil {
		return nil, err
	}

	// Text is untrusted until sanitized exactly once; the sanitizer is
	// idempotent so an upstream pass does no harm.
	text = validate.SanitizeText(text)
	if _, err := validate.String(text, "text"); err != nil {
		return nil, err
	}

	userOID, _ := primitive.ObjectIDFromHex(userID)
	arrestOID, _ := primitive.ObjectIDFromHex(arrestID)

	now := time.Now().UTC()
	comment := &model.Comment{
		UserID:    userOID,
		ArrestID:  arrestOID,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, comment); err != nil {
		return nil, err
	}

	// Denormalized back-reference, best effort: a failure here leaves the
	// comment intact and is only logged.
	if err := s.users.AddCommentRef(ctx, userID, comment.ID.Hex()); err != nil {
		log.Printf("[CommentService] comment back-reference failed: user=%s comment=%s err=%v",
			userID, comment.ID.Hex(), err)
	}

	return comment, nil
}

func (s *CommentService) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	id, err := validate.ID(id, "commentId")
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// GetByArrest returns an arrest's comments, newest first.
func (s *CommentService) GetByArrest(ctx context.Context, arrestID string) ([]model.Comment, error) {
	arrestID, err := validate.ID(arrestID, "arrestId")
	if err != nil {
		return nil, err
	}
	return s.repo.FindByArrestID(ctx, arrestID)
}

// GetByUser returns a user's comments, newest first.
func (s *CommentService) GetByUser(ctx context.Context, userID string) ([]model.Comment, error) {
	userID, err := validate.ID(userID, "userId")
	if err != nil {
		return nil, err
	}
	return s.repo.FindByUserID(ctx, userID)
}

// Update replaces the text and refreshes updatedAt. Only the owner may
// update; anyone else gets ErrNotCommentOwner.
func (s *CommentService) Update(ctx context.Context, commentID, userID, text string) (*model.Comment, error) {
	commentID, err := validate.ID(commentID, "commentId")
	if err != nil {
		return nil, err
	}
	userID, err = validate.ID(userID, "userId")
	if err != nil {
		return nil, err
	}

	text = validate.SanitizeText(text)
	if _, err := validate.String(text, "text"); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if existing.UserID.Hex() != userID {
		return nil, model.ErrNotCommentOwner
	}

	return s.repo.UpdateText(ctx, commentID, text)
}

// Delete removes a comment after the same ownership check as Update.
func (s *CommentService) Delete(ctx context.Context, commentID, userID string) error {
	commentID, err := validate.ID(commentID, "commentId")
	if err != nil {
		return err
	}
	userID, err = validate.ID(userID, "userId")
	if err != nil {
		return err
	}

	existing, err := s.repo.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if existing.UserID.Hex() != userID {
		return model.ErrNotCommentOwner
	}

	if err := s.repo.Delete(ctx, commentID); err != nil {
		return err
	}

	if err := s.users.RemoveCommentRef(ctx, userID, commentID); err != nil {
		log.Printf("[CommentService] comment back-reference removal failed: user=%s comment=%s err=%v",
			userID, commentID, err)
	}
	return nil
}

// RemoveByArrest bulk-deletes every comment on an arrest and returns the
// count. Invoked by the cleanup worker after an arrest record is removed.
func (s *CommentService) RemoveByArrest(ctx context.Context, arrestID string) (int64, error) {
	arrestID, err := validate.ID(arrestID, "arrestId")
	if err != nil {
		return 0, err
	}
	return s.repo.DeleteByArrestID(ctx, arrestID)
}
