package service

import (
	"context"
	"errors"
	"testing"

	"nycarrests/internal/model"
	"nycarrests/internal/validate"
)

// =============================================================================
// MOCK REPOSITORY
// =============================================================================
//
// The services depend on the repository INTERFACES, so unit tests swap in
// mocks with per-test behavior instead of hitting a real database.

type mockArrestRepository struct {
	insertFn     func(ctx context.Context, arrest *model.Arrest) error
	insertManyFn func(ctx context.Context, arrests []model.Arrest) (int, error)
	findByIDFn   func(ctx context.Context, id string) (*model.Arrest, error)
	findPageFn   func(ctx context.Context, page, limit int) ([]model.Arrest, int64, error)
	findFn       func(ctx context.Context, filter model.ArrestFilter) ([]model.Arrest, error)
	searchFn     func(ctx context.Context, keyword string) ([]model.Arrest, error)
	allFn        func(ctx context.Context) ([]model.Arrest, error)
	countFn      func(ctx context.Context) (int64, error)
	deleteByIDFn func(ctx context.Context, id string) error

	// Track calls for assertions
	insertCalls []*model.Arrest
	findCalls   []model.ArrestFilter
	deleteCalls []string
}

func (m *mockArrestRepository) Insert(ctx context.Context, arrest *model.Arrest) error {
	m.insertCalls = append(m.insertCalls, arrest)
	if m.insertFn != nil {
		return m.insertFn(ctx, arrest)
	}
	return nil
}

func (m *mockArrestRepository) InsertMany(ctx context.Context, arrests []model.Arrest) (int, error) {
	if m.insertManyFn != nil {
		return m.insertManyFn(ctx, arrests)
	}
	return len(arrests), nil
}

func (m *mockArrestRepository) FindByID(ctx context.Context, id string) (*model.Arrest, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, model.ErrArrestNotFound
}

func (m *mockArrestRepository) FindPage(ctx context.Context, page, limit int) ([]model.Arrest, int64, error) {
	if m.findPageFn != nil {
		return m.findPageFn(ctx, page, limit)
	}
	return nil, 0, nil
}

func (m *mockArrestRepository) Find(ctx context.Context, filter model.ArrestFilter) ([]model.Arrest, error) {
	m.findCalls = append(m.findCalls, filter)
	if m.findFn != nil {
		return m.findFn(ctx, filter)
	}
	return nil, nil
}

func (m *mockArrestRepository) Search(ctx context.Context, keyword string) ([]model.Arrest, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, keyword)
	}
	return nil, nil
}

func (m *mockArrestRepository) All(ctx context.Context) ([]model.Arrest, error) {
	if m.allFn != nil {
		return m.allFn(ctx)
	}
	return nil, nil
}

func (m *mockArrestRepository) Count(ctx context.Context) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

func (m *mockArrestRepository) DeleteByID(ctx context.Context, id string) error {
	m.deleteCalls = append(m.deleteCalls, id)
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}

type mockCommentCleaner struct {
	removeByArrestFn func(ctx context.Context, arrestID string) (int64, error)
	removeCalls      []string
}

func (m *mockCommentCleaner) RemoveByArrest(ctx context.Context, arrestID string) (int64, error) {
	m.removeCalls = append(m.removeCalls, arrestID)
	if m.removeByArrestFn != nil {
		return m.removeByArrestFn(ctx, arrestID)
	}
	return 0, nil
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func validCreateRequest() *model.CreateArrestRequest {
	return &model.CreateArrestRequest{
		ArrestDate:         "2024-01-15",
		Borough:            "K",
		Precinct:           intPtr(75),
		OffenseDescription: "PETIT LARCENY",
		LawCategory:        "misdemeanor",
		AgeGroup:           "25-44",
		Gender:             "M",
		Race:               "BLACK",
		Latitude:           floatPtr(40.67),
		Longitude:          floatPtr(-73.89),
	}
}

// =============================================================================
// CREATE TESTS
// =============================================================================

func TestArrestService_Create_Success(t *testing.T) {
	// ARRANGE
	mockRepo := &mockArrestRepository{}
	svc := NewArrestService(mockRepo, nil, nil, nil)

	// ACT
	arrest, err := svc.Create(context.Background(), validCreateRequest())

	// ASSERT
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if arrest == nil {
		t.Fatal("expected arrest, got nil")
	}
	if len(mockRepo.insertCalls) != 1 {
		t.Fatalf("Insert called %d times, want 1", len(mockRepo.insertCalls))
	}
	if arrest.Borough != "K" {
		t.Errorf("borough = %q, want %q", arrest.Borough, "K")
	}
	if arrest.ArrestLocation.Latitude == nil || *arrest.ArrestLocation.Latitude != 40.67 {
		t.Errorf("latitude = %v, want 40.67", arrest.ArrestLocation.Latitude)
	}
}

func TestArrestService_Create_NormalizesCase(t *testing.T) {
	mockRepo := &mockArrestRepository{}
	svc := NewArrestService(mockRepo, nil, nil, nil)

	req := validCreateRequest()
	req.Borough = "brooklyn"
	req.LawCategory = "FELONY"
	req.Gender = "f"
	req.Race = "white hispanic"

	arrest, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if arrest.Borough != "K" {
		t.Errorf("borough = %q, want canonical code K", arrest.Borough)
	}
	if arrest.LawCategory != "felony" {
		t.Errorf("law_category = %q, want felony", arrest.LawCategory)
	}
	if arrest.Gender != "F" {
		t.Errorf("gender = %q, want F", arrest.Gender)
	}
	if arrest.Race != "WHITE HISPANIC" {
		t.Errorf("race = %q, want WHITE HISPANIC", arrest.Race)
	}
}

func TestArrestService_Create_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(req *model.CreateArrestRequest)
		field  string
	}{
		{"future date", func(r *model.CreateArrestRequest) { r.ArrestDate = "2099-01-01" }, "arrest_date"},
		{"malformed date", func(r *model.CreateArrestRequest) { r.ArrestDate = "01/15/2024" }, "arrest_date"},
		{"impossible date", func(r *model.CreateArrestRequest) { r.ArrestDate = "2023-02-30" }, "arrest_date"},
		{"unknown borough", func(r *model.CreateArrestRequest) { r.Borough = "X" }, "borough"},
		{"precinct zero", func(r *model.CreateArrestRequest) { r.Precinct = intPtr(0) }, "precinct"},
		{"precinct too high", func(r *model.CreateArrestRequest) { r.Precinct = intPtr(124) }, "precinct"},
		{"precinct missing", func(r *model.CreateArrestRequest) { r.Precinct = nil }, "precinct"},
		{"empty offense", func(r *model.CreateArrestRequest) { r.OffenseDescription = "   " }, "offense_description"},
		{"bad law category", func(r *model.CreateArrestRequest) { r.LawCategory = "crime" }, "law_category"},
		{"bad age group", func(r *model.CreateArrestRequest) { r.AgeGroup = "20-30" }, "age_group"},
		{"bad gender", func(r *model.CreateArrestRequest) { r.Gender = "X" }, "gender"},
		{"bad race", func(r *model.CreateArrestRequest) { r.Race = "MARTIAN" }, "race"},
		{"latitude out of range", func(r *model.CreateArrestRequest) { r.Latitude = floatPtr(91) }, "latitude"},
		{"longitude out of range", func(r *model.CreateArrestRequest) { r.Longitude = floatPtr(-181) }, "longitude"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &mockArrestRepository{}
			svc := NewArrestService(mockRepo, nil, nil, nil)

			req := validCreateRequest()
			tc.mutate(req)

			_, err := svc.Create(context.Background(), req)

			var verr *validate.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v, want *validate.ValidationError", err)
			}
			if verr.Field != tc.field {
				t.Errorf("field = %q, want %q", verr.Field, tc.field)
			}
			if len(mockRepo.insertCalls) != 0 {
				t.Errorf("Insert called %d times, want 0", len(mockRepo.insertCalls))
			}
		})
	}
}

// =============================================================================
// LIST / PAGINATION TESTS
// =============================================================================

func TestArrestService_List_PaginationMetadata(t *testing.T) {
	// 120 documents at 50 per page gives 3 pages.
	mockRepo := &mockArrestRepository{
		findPageFn: func(ctx context.Context, page, limit int) ([]model.Arrest, int64, error) {
			return make([]model.Arrest, 50), 120, nil
		},
	}
	svc := NewArrestService(mockRepo, nil, nil, nil)

	result, err := svc.List(context.Background(), 2, 50)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if result.TotalPages != 3 {
		t.Errorf("totalPages = %d, want 3", result.TotalPages)
	}
	if result.TotalCount != 120 {
		t.Errorf("totalCount = %d, want 120", result.TotalCount)
	}
	if !result.HasNextPage {
		t.Error("expected hasNextPage on page 2 of 3")
	}
	if !result.HasPrevPage {
		t.Error("expected hasPrevPage on page 2")
	}
}

func TestArrestService_List_LastPage(t *testing.T) {
	mockRepo := &mockArrestRepository{
		findPageFn: func(ctx context.Context, page, limit int) ([]model.Arrest, int64, error) {
			return make([]model.Arrest, 20), 120, nil
		},
	}
	svc := NewArrestService(mockRepo, nil, nil, nil)

	result, err := svc.List(context.Background(), 3, 50)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if result.HasNextPage {
		t.Error("expected no next page on the last page")
	}
	if !result.HasPrevPage {
		t.Error("expected hasPrevPage on page 3")
	}
}

func TestArrestService_List_InvalidInputs(t *testing.T) {
	svc := NewArrestService(&mockArrestRepository{}, nil, nil, nil)

	cases := []struct {
		name        string
		page, limit int
	}{
		{"page zero", 0, 50},
		{"negative page", -1, 50},
		{"limit zero", 1, 0},
		{"limit above cap", 1, 101},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.List(context.Background(), tc.page, tc.limit)
			var verr *validate.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v, want *validate.ValidationError", err)
			}
		})
	}
}

func TestArrestService_List_EmptyCollection(t *testing.T) {
	mockRepo := &mockArrestRepository{
		findPageFn: func(ctx context.Context, page, limit int) ([]model.Arrest, int64, error) {
			return nil, 0, nil
		},
	}
	svc := NewArrestService(mockRepo, nil, nil, nil)

	result, err := svc.List(context.Background(), 1, 50)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if result.Arrests == nil {
		t.Error("arrests slice should be empty, not nil")
	}
	if result.TotalPages != 0 {
		t.Errorf("totalPages = %d, want 0", result.TotalPages)
	}
	if result.HasNextPage {
		t.Error("expected no next page with zero documents")
	}
}

// =============================================================================
// FILTER TESTS
// =============================================================================

func TestArrestService_Filter_BuildsConjunctiveQuery(t *testing.T) {
	mockRepo := &mockArrestRepository{}
	svc := NewArrestService(mockRepo, nil, nil, nil)

	_, err := svc.Filter(context.Background(), model.ArrestFilterParams{
		Borough:  "brooklyn",
		Precinct: "75",
		Gender:   "m",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(mockRepo.findCalls) != 1 {
		t.Fatalf("Find called %d times, want 1", len(mockRepo.findCalls))
	}
	got := mockRepo.findCalls[0]
	if got.Borough != "K" {
		t.Errorf("filter borough = %q, want K", got.Borough)
	}
	if got.Precinct == nil || *got.Precinct != 75 {
		t.Errorf("filter precinct = %v, want 75", got.Precinct)
	}
	if got.Gender != "M" {
		t.Errorf("filter gender = %q, want M", got.Gender)
	}
	// Absent criteria stay zero so the repository omits them entirely.
	if got.OffenseDescription != "" || got.LawCategory != "" || got.AgeGroup != "" || got.Race != "" {
		t.Errorf("unset criteria leaked into filter: %+v", got)
	}
}

func TestArrestService_Filter_NoCriteriaReturnsAll(t *testing.T) {
	all := []model.Arrest{{Borough: "K"}, {Borough: "M"}}
	mockRepo := &mockArrestRepository{
		findFn: func(ctx context.Context, filter model.ArrestFilter) ([]model.Arrest, error) {
			return all, nil
		},
	}
	svc := NewArrestService(mockRepo, nil, nil, nil)

	got, err := svc.Filter(context.Background(), model.ArrestFilterParams{})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d arrests, want 2", len(got))
	}
}

func TestArrestService_Filter_BadPrecinct(t *testing.T) {
	svc := NewArrestService(&mockArrestRepository{}, nil, nil, nil)

	_, err := svc.Filter(context.Background(), model.ArrestFilterParams{Precinct: "abc"})
	var verr *validate.ValidationError
	if !errors.As(err, &verr) || verr.Field != "precinct" {
		t.Fatalf("error = %v, want precinct validation error", err)
	}
}

// =============================================================================
// DELETE TESTS
// =============================================================================

func TestArrestService_Delete_InlineCleanupWithoutPublisher(t *testing.T) {
	const id = "507f1f77bcf86cd799439011"
	mockRepo := &mockArrestRepository{}
	cleaner := &mockCommentCleaner{}
	svc := NewArrestService(mockRepo, cleaner, nil, nil)

	if err := svc.Delete(context.Background(), id); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(mockRepo.deleteCalls) != 1 || mockRepo.deleteCalls[0] != id {
		t.Errorf("DeleteByID calls = %v, want [%s]", mockRepo.deleteCalls, id)
	}
	// No publisher wired, so cleanup must run synchronously.
	if len(cleaner.removeCalls) != 1 || cleaner.removeCalls[0] != id {
		t.Errorf("RemoveByArrest calls = %v, want [%s]", cleaner.removeCalls, id)
	}
}

func TestArrestService_Delete_InvalidID(t *testing.T) {
	mockRepo := &mockArrestRepository{}
	svc := NewArrestService(mockRepo, nil, nil, nil)

	err := svc.Delete(context.Background(), "not-an-object-id")
	var verr *validate.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *validate.ValidationError", err)
	}
	if len(mockRepo.deleteCalls) != 0 {
		t.Error("DeleteByID should not be called for an invalid id")
	}
}

func TestArrestService_Delete_NotFound(t *testing.T) {
	mockRepo := &mockArrestRepository{
		deleteByIDFn: func(ctx context.Context, id string) error {
			return model.ErrArrestNotFound
		},
	}
	cleaner := &mockCommentCleaner{}
	svc := NewArrestService(mockRepo, cleaner, nil, nil)

	err := svc.Delete(context.Background(), "507f1f77bcf86cd799439011")
	if !errors.Is(err, model.ErrArrestNotFound) {
		t.Fatalf("error = %v, want %v", err, model.ErrArrestNotFound)
	}
	if len(cleaner.removeCalls) != 0 {
		t.Error("cleanup should not run when the delete itself failed")
	}
}

// =============================================================================
// SEARCH TESTS
// =============================================================================

func TestArrestService_Search_EmptyKeyword(t *testing.T) {
	svc := NewArrestService(&mockArrestRepository{}, nil, nil, nil)

	_, err := svc.Search(context.Background(), "   ")
	var verr *validate.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *validate.ValidationError", err)
	}
}

func TestArrestService_Search_NilResultBecomesEmptySlice(t *testing.T) {
	svc := NewArrestService(&mockArrestRepository{}, nil, nil, nil)

	got, err := svc.Search(context.Background(), "larceny")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if got == nil {
		t.Error("result should be an empty slice, not nil")
	}
}
