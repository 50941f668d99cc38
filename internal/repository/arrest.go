package repository

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nycarrests/internal/database"
	"nycarrests/internal/model"
)

// opTimeout bounds every storage call so a wedged store cannot hang a
// request forever.
const opTimeout = 5 * time.Second

// arrestRepository implements ArrestRepository against the arrests collection.
type arrestRepository struct {
	db *database.Database
}

// NewArrestRepository creates a new arrest repository.
func NewArrestRepository(db *database.Database) ArrestRepository {
	return &arrestRepository{db: db}
}

func (r *arrestRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	return r.db.Arrests(ctx)
}

// Insert writes one immutable arrest document. The id is assigned here when
// the caller has not set one.
func (r *arrestRepository) Insert(ctx context.Context, arrest *model.Arrest) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	col, err := r.collection(ctx)
	if err != nil {
		return err
	}

	if arrest.ID.IsZero() {
		arrest.ID = primitive.NewObjectID()
	}

	if _, err := col.InsertOne(ctx, arrest); err != nil {
		return fmt.Errorf("%w: insert arrest: %v", model.ErrStorage, err)
	}
	return nil
}

func (r *arrestRepository) InsertMany(ctx context.Context, arrests []model.Arrest) (int, error) {
	if len(arrests) == 0 {
		return 0, nil
	}

	col, err := r.collection(ctx)
	if err != nil {
		return 0, err
	}

	docs := make([]interface{}, len(arrests))
	for i := range arrests {
		if arrests[i].ID.IsZero() {
			arrests[i].ID = primitive.NewObjectID()
		}
		docs[i] = arrests[i]
	}

	res, err := col.InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("%w: insert arrests: %v", model.ErrStorage, err)
	}
	return len(res.InsertedIDs), nil
}

func (r *arrestRepository) FindByID(ctx context.Context, id string) (*model.Arrest, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	col, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, model.ErrArrestNotFound
	}

	var arrest model.Arrest
	err = col.FindOne(ctx, bson.M{"_id": oid}).Decode(&arrest)
	if err == mongo.ErrNoDocuments {
		return nil, model.ErrArrestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find arrest by id: %v", model.ErrStorage, err)
	}
	return &arrest, nil
}

func (r *arrestRepository) FindPage(ctx context.Context, page, limit int) ([]model.Arrest, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	col, err := r.collection(ctx)
	if err != nil {
		return nil, 0, err
	}

	total, err := col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("%w: count arrests: %v", model.ErrStorage, err)
	}

	skip := int64((page - 1) * limit)
	cur, err := col.Find(ctx, bson.M{}, options.Find().SetSkip(skip).SetLimit(int64(limit)))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list arrests: %v", model.ErrStorage, err)
	}

	var arrests []model.Arrest
	if err := cur.All(ctx, &arrests); err != nil {
		return nil, 0, fmt.Errorf("%w: decode arrests: %v", model.ErrStorage, err)
	}
	return arrests, total, nil
}

func (r *arrestRepository) Find(ctx context.Context, filter model.ArrestFilter) ([]model.Arrest, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	col, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	query := bson.M{}
	if filter.Borough != "" {
		query["borough"] = filter.Borough
	}
	if filter.Precinct != nil {
		query["precinct"] = *filter.Precinct
	}
	if filter.OffenseDescription != "" {
		query["offense_description"] = bson.M{
			"$regex":   regexp.QuoteMeta(filter.OffenseDescription),
			"$options": "i",
		}
	}
	if filter.LawCategory != "" {
		query["law_category"] = filter.LawCategory
	}
	if filter.AgeGroup != "" {
		query["age_group"] = filter.AgeGroup
	}
	if filter.Gender != "" {
		query["gender"] = filter.Gender
	}
	if filter.Race != "" {
		query["race"] = filter.Race
	}

	cur, err := col.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: filter arrests: %v", model.ErrStorage, err)
	}

	var arrests []model.Arrest
	if err := cur.All(ctx, &arrests); err != nil {
		return nil, fmt.Errorf("%w: decode arrests: %v", model.ErrStorage, err)
	}
	return arrests, nil
}

func (r *arrestRepository) Search(ctx context.Context, keyword string) ([]model.Arrest, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	col, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	pattern := regexp.QuoteMeta(keyword)
	query := bson.M{"$or": bson.A{
		bson.M{"offense_description": bson.M{"$regex": pattern, "$options": "i"}},
		bson.M{"law_category": bson.M{"$regex": pattern, "$options": "i"}},
	}}

	cur, err := col.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: search arrests: %v", model.ErrStorage, err)
	}

	var arrests []model.Arrest
	if err := cur.All(ctx, &arrests); err != nil {
		return nil, fmt.Errorf("%w: decode arrests: %v", model.ErrStorage, err)
	}
	return arrests, nil
}

// All streams every document for the aggregation modules. No timeout here:
// the caller bounds the whole aggregation pass.
func (r *arrestRepository) All(ctx context.Context) ([]model.Arrest, error) {
	col, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	cur, err := col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("%w: read arrests: %v", model.ErrStorage, err)
	}

	var arrests []model.Arrest
	if err := cur.All(ctx, &arrests); err != nil {
		return nil, fmt.Errorf("%w: decode arrests: %v", model.ErrStorage, err)
	}
	return arrests, nil
}

func (r *arrestRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	col, err := r.collection(ctx)
	if err != nil {
		return 0, err
	}

	total, err := col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("%w: count arrests: %v", model.ErrStorage, err)
	}
	return total, nil
}

func (r *arrestRepository) DeleteByID(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	col, err := r.collection(ctx)
	if err != nil {
		return err
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.ErrArrestNotFound
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("%w: delete arrest: %v", model.ErrStorage, err)
	}
	if res.DeletedCount == 0 {
		return model.ErrArrestNotFound
	}
	return nil
}
