package repository

import (
	"context"

	"nycarrests/internal/model"
)

type ArrestRepository interface {
	Insert(ctx context.Context, arrest *model.Arrest) error
	// InsertMany bulk-inserts pre-validated records, used by the seed task.
	InsertMany(ctx context.Context, arrests []model.Arrest) (int, error)
	FindByID(ctx context.Context, id string) (*model.Arrest, error)
	// FindPage returns one page of records plus the total document count.
	FindPage(ctx context.Context, page, limit int) ([]model.Arrest, int64, error)
	// Find runs a conjunctive query; zero-value filter fields are omitted.
	Find(ctx context.Context, filter model.ArrestFilter) ([]model.Arrest, error)
	// Search matches keyword case-insensitively against the offense
	// description or the law category.
	Search(ctx context.Context, keyword string) ([]model.Arrest, error)
	// All streams every document, used by the aggregation modules.
	All(ctx context.Context) ([]model.Arrest, error)
	Count(ctx context.Context) (int64, error)
	DeleteByID(ctx context.Context, id string) error
}

type UserRepository interface {
	Insert(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// AddFavorite has set semantics: adding an id twice leaves one entry.
	// Returns whether the user document was matched at all.
	AddFavorite(ctx context.Context, userID, arrestID string) (matched bool, err error)
	// RemoveFavorite pulls the id from the set. Removing a non-member
	// matches the user but modifies nothing; both counts are reported.
	RemoveFavorite(ctx context.Context, userID, arrestID string) (matched, modified bool, err error)
	// AddCommentRef and RemoveCommentRef maintain the best-effort
	// denormalized comment-id list on the user document.
	AddCommentRef(ctx context.Context, userID, commentID string) error
	RemoveCommentRef(ctx context.Context, userID, commentID string) error
}

type CommentRepository interface {
	Insert(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, id string) (*model.Comment, error)
	// FindByArrestID and FindByUserID return newest-first.
	FindByArrestID(ctx context.Context, arrestID string) ([]model.Comment, error)
	FindByUserID(ctx context.Context, userID string) ([]model.Comment, error)
	UpdateText(ctx context.Context, id, text string) (*model.Comment, error)
	Delete(ctx context.Context, id string) error
	// DeleteByArrestID removes every comment on an arrest and returns the
	// number of documents removed.
	DeleteByArrestID(ctx context.Context, arrestID string) (int64, error)
}
