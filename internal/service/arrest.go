package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"nycarrests/internal/cache"
	"nycarrests/internal/model"
	"nycarrests/internal/queue"
	"nycarrests/internal/refdata"
	"nycarrests/internal/repository"
	"nycarrests/internal/validate"
)

// CommentCleaner is the fallback path for removing a deleted arrest's
// comments when the event stream is unavailable.
type CommentCleaner interface {
	RemoveByArrest(ctx context.Context, arrestID string) (int64, error)
}

// ArrestService handles CRUD and query operations over arrest records.
// Records are immutable: there is create, read and delete, never update.
type ArrestService struct {
	repo      repository.ArrestRepository
	comments  CommentCleaner
	stats     cache.StatsCache // may be nil
	publisher queue.Publisher  // may be nil
}

func NewArrestService(repo repository.ArrestRepository, comments CommentCleaner, stats cache.StatsCache, publisher queue.Publisher) *ArrestService {
	return &ArrestService{
		repo:      repo,
		comments:  comments,
		stats:     stats,
		publisher: publisher,
	}
}

// Create validates all ten fields and inserts one immutable document.
// Enumerated fields are normalized to their canonical case before storage so
// filters can match by equality.
func (s *ArrestService) Create(ctx context.Context, req *model.CreateArrestRequest) (*model.Arrest, error) {
	arrestDate, err := validate.PastDate(req.ArrestDate, "arrest_date")
	if err != nil {
		return nil, err
	}

	borough, err := resolveBorough(req.Borough)
	if err != nil {
		return nil, err
	}

	offense, err := validate.String(req.OffenseDescription, "offense_description")
	if err != nil {
		return nil, err
	}

	lawCategory, err := validate.String(req.LawCategory, "law_category")
	if err != nil {
		return nil, err
	}
	if !refdata.IsLawCategory(lawCategory) {
		return nil, &validate.ValidationError{Field: "law_category", Reason: "must be felony, misdemeanor, or violation"}
	}
	lawCategory = strings.ToLower(lawCategory)

	if !refdata.IsAgeGroup(req.AgeGroup) {
		return nil, &validate.ValidationError{Field: "age_group", Reason: "must be one of <18, 18-24, 25-44, 45-64, 65+, null"}
	}

	gender, err := validate.String(req.Gender, "gender")
	if err != nil {
		return nil, err
	}
	if !refdata.IsSexCode(gender) {
		return nil, &validate.ValidationError{Field: "gender", Reason: "must be M, F, or U"}
	}
	gender = strings.ToUpper(gender)

	race, err := validate.String(req.Race, "race")
	if err != nil {
		return nil, err
	}
	if !refdata.IsRawRace(race) {
		return nil, &validate.ValidationError{Field: "race", Reason: "is not a recognized race value"}
	}
	race = strings.ToUpper(race)

	if req.Precinct == nil {
		return nil, &validate.ValidationError{Field: "precinct", Reason: "is required"}
	}
	precinct, err := validatePrecinct(*req.Precinct)
	if err != nil {
		return nil, err
	}

	location, err := validateLocation(req.Latitude, req.Longitude)
	if err != nil {
		return nil, err
	}

	arrest := &model.Arrest{
		ArrestDate:         arrestDate,
		Borough:            borough,
		Precinct:           precinct,
		OffenseDescription: offense,
		LawCategory:        lawCategory,
		AgeGroup:           req.AgeGroup,
		Gender:             gender,
		Race:               race,
		ArrestLocation:     location,
	}

	if err := s.repo.Insert(ctx, arrest); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx)
	return arrest, nil
}

// List returns one page of records with pagination metadata. Pages start at
// one; limits above the cap are rejected rather than clamped.
func (s *ArrestService) List(ctx context.Context, page, limit int) (*model.ArrestPage, error) {
	if _, err := validate.PositiveInt(page, "page"); err != nil {
		return nil, err
	}
	if _, err := validate.PositiveInt(limit, "limit"); err != nil {
		return nil, err
	}
	if limit > model.MaxPageLimit {
		return nil, &validate.ValidationError{
			Field:  "limit",
			Reason: fmt.Sprintf("cannot exceed %d", model.MaxPageLimit),
		}
	}

	arrests, total, err := s.repo.FindPage(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	if arrests == nil {
		arrests = []model.Arrest{}
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &model.ArrestPage{
		Arrests:     arrests,
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}, nil
}

// GetByID validates the identifier shape before hitting the store.
func (s *ArrestService) GetByID(ctx context.Context, id string) (*model.Arrest, error) {
	id, err := validate.ID(id, "id")
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// Delete removes the record and kicks off comment cleanup. Arrest and
// comment deletion are two independent writes; the cleanup event stream is
// the compensating step that converges them. When publishing fails (or no
// publisher is wired) cleanup runs synchronously instead.
func (s *ArrestService) Delete(ctx context.Context, id string) error {
	id, err := validate.ID(id, "id")
	if err != nil {
		return err
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.cleanupComments(ctx, id)
	s.invalidateStats(ctx)
	return nil
}

func (s *ArrestService) cleanupComments(ctx context.Context, arrestID string) {
	if s.publisher != nil {
		if _, err := s.publisher.Publish(ctx, queue.StreamCleanup, queue.NewArrestDeletedEvent(arrestID)); err == nil {
			return
		}
		log.Printf("[ArrestService] cleanup publish failed, deleting comments inline: arrest=%s", arrestID)
	}
	if s.comments == nil {
		return
	}
	if _, err := s.comments.RemoveByArrest(ctx, arrestID); err != nil {
		log.Printf("[ArrestService] inline comment cleanup failed: arrest=%s err=%v", arrestID, err)
	}
}

// Filter builds a conjunctive query from the supplied criteria. Absent
// fields are left out of the query entirely.
func (s *ArrestService) Filter(ctx context.Context, params model.ArrestFilterParams) ([]model.Arrest, error) {
	var filter model.ArrestFilter

	if params.Borough != "" {
		borough, err := resolveBorough(params.Borough)
		if err != nil {
			return nil, err
		}
		filter.Borough = borough
	}
	if params.Precinct != "" {
		n, err := strconv.Atoi(strings.TrimSpace(params.Precinct))
		if err != nil {
			return nil, &validate.ValidationError{Field: "precinct", Reason: "must be an integer"}
		}
		p, err := validatePrecinct(n)
		if err != nil {
			return nil, err
		}
		filter.Precinct = &p
	}
	if params.OffenseDescription != "" {
		offense, err := validate.String(params.OffenseDescription, "offense_description")
		if err != nil {
			return nil, err
		}
		filter.OffenseDescription = offense
	}
	if params.LawCategory != "" {
		lawCategory, err := validate.String(params.LawCategory, "law_category")
		if err != nil {
			return nil, err
		}
		filter.LawCategory = strings.ToLower(lawCategory)
	}
	if params.AgeGroup != "" {
		ageGroup, err := validate.String(params.AgeGroup, "age_group")
		if err != nil {
			return nil, err
		}
		filter.AgeGroup = ageGroup
	}
	if params.Gender != "" {
		gender, err := validate.String(params.Gender, "gender")
		if err != nil {
			return nil, err
		}
		filter.Gender = strings.ToUpper(gender)
	}
	if params.Race != "" {
		race, err := validate.String(params.Race, "race")
		if err != nil {
			return nil, err
		}
		filter.Race = strings.ToUpper(race)
	}

	arrests, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	if arrests == nil {
		arrests = []model.Arrest{}
	}
	return arrests, nil
}

// Search matches the keyword case-insensitively against the offense
// description or the law category.
func (s *ArrestService) Search(ctx context.Context, keyword string) ([]model.Arrest, error) {
	keyword, err := validate.String(keyword, "keyword")
	if err != nil {
		return nil, err
	}

	arrests, err := s.repo.Search(ctx, keyword)
	if err != nil {
		return nil, err
	}
	if arrests == nil {
		arrests = []model.Arrest{}
	}
	return arrests, nil
}

func (s *ArrestService) invalidateStats(ctx context.Context) {
	if s.stats == nil {
		return
	}
	if err := s.stats.Invalidate(ctx); err != nil {
		log.Printf("[ArrestService] stats cache invalidation failed: %v", err)
	}
}

// resolveBorough accepts a single-letter code or a full borough name,
// case-insensitive, and returns the canonical upper-case code.
func resolveBorough(input string) (string, error) {
	borough, err := validate.String(input, "borough")
	if err != nil {
		return "", err
	}
	if refdata.IsBoroughCode(borough) {
		return strings.ToUpper(borough), nil
	}
	if code, ok := refdata.BoroughCode(borough); ok {
		return code, nil
	}
	return "", &validate.ValidationError{Field: "borough", Reason: "must be one of B, S, K, M, Q"}
}

func validatePrecinct(n int) (int, error) {
	if n < 1 || n > 123 {
		return 0, &validate.ValidationError{Field: "precinct", Reason: "must be a valid precinct number (1-123)"}
	}
	return n, nil
}

// validateLocation checks latitude and longitude independently; each is
// optional but range-checked when present.
func validateLocation(lat, lng *float64) (model.Location, error) {
	var loc model.Location
	if lat != nil {
		v, err := validate.Number(*lat, "latitude")
		if err != nil {
			return loc, err
		}
		if v < -90 || v > 90 {
			return loc, &validate.ValidationError{Field: "latitude", Reason: "must be between -90 and 90"}
		}
		loc.Latitude = &v
	}
	if lng != nil {
		v, err := validate.Number(*lng, "longitude")
		if err != nil {
			return loc, err
		}
		if v < -180 || v > 180 {
			return loc, &validate.ValidationError{Field: "longitude", Reason: "must be between -180 and 180"}
		}
		loc.Longitude = &v
	}
	return loc, nil
}
