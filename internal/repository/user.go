package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"nycarrests/internal/database"
	"nycarrests/internal/model"
)

// userRepository implements UserRepository against the users collection.
type userRepository struct {
	db *database.Database
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *database.Database) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	return r.db.Users(ctx)
}

func (r *userRepository) Insert(ctx context.Context, user *model.User) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	col, err := r.collection(ctx)
	if err != nil {
		return err
	}

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.Favorites == nil {
		user.Favorites = []string{}
	}
	if user.Comments == nil {
		user.Comments = []string{}
	}

	if _, err := col.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("%w: insert user: %v", model.ErrStorage, err)
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	col, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, model.ErrUserNotFound
	}

	var user model.User
	err = col.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find user by id: %v", model.ErrStorage, err)
	}
	return &user, nil
}

// FindByUsername looks up by the stored case-folded username. Callers fold
// input through validate.Username first.
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	col, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	var user model.User
	err = col.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find user by username: %v", model.ErrStorage, err)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	col, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	var user model.User
	err = col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find user by email: %v", model.ErrStorage, err)
	}
	return &user, nil
}

// AddFavorite uses $addToSet so double-adding the same arrest id leaves
// exactly one entry.
func (r *userRepository) AddFavorite(ctx context.Context, userID, arrestID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	col, err := r.collection(ctx)
	if err != nil {
		return false, err
	}

	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return false, nil
	}

	res, err := col.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$addToSet": bson.M{"favorites": arrestID}},
	)
	if err != nil {
		return false, fmt.Errorf("%w: add favorite: %v", model.ErrStorage, err)
	}
	return res.MatchedCount > 0, nil
}

func (r *userRepository) RemoveFavorite(ctx context.Context, userID, arrestID string) (bool, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	col, err := r.collection(ctx)
	if err != nil {
		return false, false, err
	}

	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return false, false, nil
	}

	res, err := col.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$pull": bson.M{"favorites": arrestID}},
	)
	if err != nil {
		return false, false, fmt.Errorf("%w: remove favorite: %v", model.ErrStorage, err)
	}
	return res.MatchedCount > 0, res.ModifiedCount > 0, nil
}

func (r *userRepository) AddCommentRef(ctx context.Context, userID, commentID string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	col, err := r.collection(ctx)
	if err != nil {
		return err
	}

	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}

	_, err = col.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$addToSet": bson.M{"comments": commentID}},
	)
	if err != nil {
		return fmt.Errorf("%w: add comment ref: %v", model.ErrStorage, err)
	}
	return nil
}

func (r *userRepository) RemoveCommentRef(ctx context.Context, userID, commentID string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	col, err := r.collection(ctx)
	if err != nil {
		return err
	}

	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}

	_, err = col.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$pull": bson.M{"comments": commentID}},
	)
	if err != nil {
		return fmt.Errorf("%w: remove comment ref: %v", model.ErrStorage, err)
	}
	return nil
}
