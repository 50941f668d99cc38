package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"nycarrests/internal/model"
	"nycarrests/internal/validate"
)

type mockCommentRepository struct {
	insertFn           func(ctx context.Context, comment *model.Comment) error
	findByIDFn         func(ctx context.Context, id string) (*model.Comment, error)
	findByArrestIDFn   func(ctx context.Context, arrestID string) ([]model.Comment, error)
	findByUserIDFn     func(ctx context.Context, userID string) ([]model.Comment, error)
	updateTextFn       func(ctx context.Context, id, text string) (*model.Comment, error)
	deleteFn           func(ctx context.Context, id string) error
	deleteByArrestIDFn func(ctx context.Context, arrestID string) (int64, error)

	insertCalls     []*model.Comment
	updateTextCalls [][2]string
	deleteCalls     []string
}

func (m *mockCommentRepository) Insert(ctx context.Context, comment *model.Comment) error {
	m.insertCalls = append(m.insertCalls, comment)
	if m.insertFn != nil {
		return m.insertFn(ctx, comment)
	}
	comment.ID = primitive.NewObjectID()
	return nil
}

func (m *mockCommentRepository) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, model.ErrCommentNotFound
}

func (m *mockCommentRepository) FindByArrestID(ctx context.Context, arrestID string) ([]model.Comment, error) {
	if m.findByArrestIDFn != nil {
		return m.findByArrestIDFn(ctx, arrestID)
	}
	return nil, nil
}

func (m *mockCommentRepository) FindByUserID(ctx context.Context, userID string) ([]model.Comment, error) {
	if m.findByUserIDFn != nil {
		return m.findByUserIDFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockCommentRepository) UpdateText(ctx context.Context, id, text string) (*model.Comment, error) {
	m.updateTextCalls = append(m.updateTextCalls, [2]string{id, text})
	if m.updateTextFn != nil {
		return m.updateTextFn(ctx, id, text)
	}
	return &model.Comment{Text: text, UpdatedAt: time.Now().UTC()}, nil
}

func (m *mockCommentRepository) Delete(ctx context.Context, id string) error {
	m.deleteCalls = append(m.deleteCalls, id)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockCommentRepository) DeleteByArrestID(ctx context.Context, arrestID string) (int64, error) {
	if m.deleteByArrestIDFn != nil {
		return m.deleteByArrestIDFn(ctx, arrestID)
	}
	return 0, nil
}

// =============================================================================
// ADD TESTS
// =============================================================================

func TestCommentService_Add_Success(t *testing.T) {
	// ARRANGE
	mockRepo := &mockCommentRepository{}
	mockUsers := &mockUserRepository{}
	svc := NewCommentService(mockRepo, mockUsers)

	userID := primitive.NewObjectID().Hex()
	arrestID := primitive.NewObjectID().Hex()

	// ACT
	comment, err := svc.Add(context.Background(), userID, arrestID, "  Stay safe out there.  ")

	// ASSERT
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if comment.Text != "Stay safe out there." {
		t.Errorf("text = %q, want trimmed text", comment.Text)
	}
	if comment.UserID.Hex() != userID {
		t.Errorf("userId = %q, want %q", comment.UserID.Hex(), userID)
	}
	if comment.CreatedAt.IsZero() || !comment.CreatedAt.Equal(comment.UpdatedAt) {
		t.Error("createdAt and updatedAt should both be set to the same instant")
	}
	if len(mockRepo.insertCalls) != 1 {
		t.Errorf("Insert called %d times, want 1", len(mockRepo.insertCalls))
	}
}

func TestCommentService_Add_SanitizesMarkup(t *testing.T) {
	mockRepo := &mockCommentRepository{}
	svc := NewCommentService(mockRepo, &mockUserRepository{})

	comment, err := svc.Add(context.Background(),
		primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex(),
		`<script>alert("x")</script>careful out there`)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if comment.Text != `alert("x")careful out there` {
		t.Errorf("text = %q, markup should be stripped", comment.Text)
	}
}

func TestCommentService_Add_EmptyAfterSanitize(t *testing.T) {
	svc := NewCommentService(&mockCommentRepository{}, &mockUserRepository{})

	_, err := svc.Add(context.Background(),
		primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex(),
		"<b></b>   ")
	var verr *validate.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *validate.ValidationError", err)
	}
	if verr.Field != "text" {
		t.Errorf("field = %q, want text", verr.Field)
	}
}

func TestCommentService_Add_BackReferenceFailureIsNotFatal(t *testing.T) {
	mockUsers := &mockUserRepository{
		addCommentRefFn: func(ctx context.Context, userID, commentID string) error {
			return errors.New("user write failed")
		},
	}
	svc := NewCommentService(&mockCommentRepository{}, mockUsers)

	_, err := svc.Add(context.Background(),
		primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex(), "hello")
	if err != nil {
		t.Fatalf("back-reference failure should not fail the add, got: %v", err)
	}
}

// =============================================================================
// OWNERSHIP TESTS
// =============================================================================

func TestCommentService_Update_WrongUserFails(t *testing.T) {
	owner := primitive.NewObjectID()
	commentID := primitive.NewObjectID()
	mockRepo := &mockCommentRepository{
		findByIDFn: func(ctx context.Context, id string) (*model.Comment, error) {
			return &model.Comment{ID: commentID, UserID: owner, Text: "original"}, nil
		},
	}
	svc := NewCommentService(mockRepo, &mockUserRepository{})

	stranger := primitive.NewObjectID().Hex()
	_, err := svc.Update(context.Background(), commentID.Hex(), stranger, "hijacked")

	if !errors.Is(err, model.ErrNotCommentOwner) {
		t.Errorf("error = %v, want %v", err, model.ErrNotCommentOwner)
	}
	if len(mockRepo.updateTextCalls) != 0 {
		t.Error("UpdateText should not run for a non-owner")
	}
}

func TestCommentService_Update_OwnerSucceeds(t *testing.T) {
	owner := primitive.NewObjectID()
	commentID := primitive.NewObjectID()
	created := time.Now().UTC().Add(-time.Hour)
	mockRepo := &mockCommentRepository{
		findByIDFn: func(ctx context.Context, id string) (*model.Comment, error) {
			return &model.Comment{ID: commentID, UserID: owner, Text: "original", CreatedAt: created, UpdatedAt: created}, nil
		},
		updateTextFn: func(ctx context.Context, id, text string) (*model.Comment, error) {
			return &model.Comment{ID: commentID, UserID: owner, Text: text, CreatedAt: created, UpdatedAt: time.Now().UTC()}, nil
		},
	}
	svc := NewCommentService(mockRepo, &mockUserRepository{})

	updated, err := svc.Update(context.Background(), commentID.Hex(), owner.Hex(), "revised")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if updated.Text != "revised" {
		t.Errorf("text = %q, want revised", updated.Text)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Error("updatedAt should move forward on update")
	}
}

func TestCommentService_Delete_WrongUserFails(t *testing.T) {
	owner := primitive.NewObjectID()
	commentID := primitive.NewObjectID()
	mockRepo := &mockCommentRepository{
		findByIDFn: func(ctx context.Context, id string) (*model.Comment, error) {
			return &model.Comment{ID: commentID, UserID: owner}, nil
		},
	}
	svc := NewCommentService(mockRepo, &mockUserRepository{})

	err := svc.Delete(context.Background(), commentID.Hex(), primitive.NewObjectID().Hex())
	if !errors.Is(err, model.ErrNotCommentOwner) {
		t.Errorf("error = %v, want %v", err, model.ErrNotCommentOwner)
	}
	if len(mockRepo.deleteCalls) != 0 {
		t.Error("Delete should not run for a non-owner")
	}
}

func TestCommentService_Delete_OwnerSucceeds(t *testing.T) {
	owner := primitive.NewObjectID()
	commentID := primitive.NewObjectID()
	mockRepo := &mockCommentRepository{
		findByIDFn: func(ctx context.Context, id string) (*model.Comment, error) {
			return &model.Comment{ID: commentID, UserID: owner}, nil
		},
	}
	svc := NewCommentService(mockRepo, &mockUserRepository{})

	if err := svc.Delete(context.Background(), commentID.Hex(), owner.Hex()); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(mockRepo.deleteCalls) != 1 {
		t.Errorf("Delete called %d times, want 1", len(mockRepo.deleteCalls))
	}
}

func TestCommentService_Update_NotFound(t *testing.T) {
	svc := NewCommentService(&mockCommentRepository{}, &mockUserRepository{})

	_, err := svc.Update(context.Background(),
		primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex(), "text")
	if !errors.Is(err, model.ErrCommentNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrCommentNotFound)
	}
}

// =============================================================================
// BULK CLEANUP TESTS
// =============================================================================

func TestCommentService_RemoveByArrest(t *testing.T) {
	mockRepo := &mockCommentRepository{
		deleteByArrestIDFn: func(ctx context.Context, arrestID string) (int64, error) {
			return 3, nil
		},
	}
	svc := NewCommentService(mockRepo, &mockUserRepository{})

	n, err := svc.RemoveByArrest(context.Background(), primitive.NewObjectID().Hex())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if n != 3 {
		t.Errorf("removed = %d, want 3", n)
	}
}

func TestCommentService_RemoveByArrest_InvalidID(t *testing.T) {
	svc := NewCommentService(&mockCommentRepository{}, &mockUserRepository{})

	_, err := svc.RemoveByArrest(context.Background(), "nope")
	var verr *validate.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *validate.ValidationError", err)
	}
}
