package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nycarrests/internal/database"
	"nycarrests/internal/model"
)

// commentRepository implements CommentRepository against the comments
// collection.
type commentRepository struct {
	db *database.Database
}

// NewCommentRepository creates a new comment repository.
func NewCommentRepository(db *database.Database) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	return r.db.Comments(ctx)
}

func (r *commentRepository) Insert(ctx context.Context, comment *model.Comment) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	col, err := r.collection(ctx)
	if err != nil {
		return err
	}

	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}

	if _, err := col.InsertOne(ctx, comment); err != nil {
		return fmt.Errorf("%w: insert comment: %v", model.ErrStorage, err)
	}
	return nil
}

func (r *commentRepository) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	col, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, model.ErrCommentNotFound
	}

	var comment model.Comment
	err = col.FindOne(ctx, bson.M{"_id": oid}).Decode(&comment)
	if err == mongo.ErrNoDocuments {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find comment: %v", model.ErrStorage, err)
	}
	return &comment, nil
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

func (r *commentRepository) FindByArrestID(ctx context.Context, arrestID string) ([]model.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	col, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	oid, err := primitive.ObjectIDFromHex(arrestID)
	if err != nil {
		return []model.Comment{}, nil
	}

	cur, err := col.Find(ctx, bson.M{"arrestId": oid}, newestFirst)
	if err != nil {
		return nil, fmt.Errorf("%w: find comments by arrest: %v", model.ErrStorage, err)
	}

	comments := []model.Comment{}
	if err := cur.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("%w: decode comments: %v", model.ErrStorage, err)
	}
	return comments, nil
}

func (r *commentRepository) FindByUserID(ctx context.Context, userID string) ([]model.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	col, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []model.Comment{}, nil
	}

	cur, err := col.Find(ctx, bson.M{"userId": oid}, newestFirst)
	if err != nil {
		return nil, fmt.Errorf("%w: find comments by user: %v", model.ErrStorage, err)
	}

	comments := []model.Comment{}
	if err := cur.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("%w: decode comments: %v", model.ErrStorage, err)
	}
	return comments, nil
}

// UpdateText sets the text and refreshes updatedAt, returning the updated
// document. Ownership is checked by the service before calling this.
func (r *commentRepository) UpdateText(ctx context.Context, id, text string) (*model.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	col, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, model.ErrCommentNotFound
	}

	after := options.After
	var comment model.Comment
	err = col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"text": text, "updatedAt": time.Now().UTC()}},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&comment)
	if err == mongo.ErrNoDocuments {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: update comment: %v", model.ErrStorage, err)
	}
	return &comment, nil
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	col, err := r.collection(ctx)
	if err != nil {
		return err
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.ErrCommentNotFound
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("%w: delete comment: %v", model.ErrStorage, err)
	}
	if res.DeletedCount == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}

func (r *commentRepository) DeleteByArrestID(ctx context.Context, arrestID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	col, err := r.collection(ctx)
	if err != nil {
		return 0, err
	}

	oid, err := primitive.ObjectIDFromHex(arrestID)
	if err != nil {
		return 0, nil
	}

	res, err := col.DeleteMany(ctx, bson.M{"arrestId": oid})
	if err != nil {
		return 0, fmt.Errorf("%w: delete comments by arrest: %v", model.ErrStorage, err)
	}
	return res.DeletedCount, nil
}
