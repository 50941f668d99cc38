package service

import (
	"context"
	"errors"
	"testing"

	"nycarrests/internal/model"
	"nycarrests/internal/validate"
)

func arrestsWithOffenses(counts map[string]int, order []string) []model.Arrest {
	var out []model.Arrest
	for _, offense := range order {
		for i := 0; i < counts[offense]; i++ {
			out = append(out, model.Arrest{
				OffenseDescription: offense,
				LawCategory:        "misdemeanor",
			})
		}
	}
	return out
}

// =============================================================================
// CRIME RANKING TESTS
// =============================================================================

func TestStatsService_CrimeRanking_OrderAndTruncation(t *testing.T) {
	// ARRANGE: A=5, B=3, C=2 out of 10 documents total.
	mockRepo := &mockArrestRepository{
		allFn: func(ctx context.Context) ([]model.Arrest, error) {
			return arrestsWithOffenses(map[string]int{"A": 5, "B": 3, "C": 2}, []string{"C", "A", "B"}), nil
		},
	}
	svc := NewStatsService(mockRepo, nil)

	// ACT
	entries, err := svc.CrimeRanking(context.Background(), 2)

	// ASSERT
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Offense != "A" || entries[0].Count != 5 {
		t.Errorf("entries[0] = %+v, want A with count 5", entries[0])
	}
	if entries[1].Offense != "B" || entries[1].Count != 3 {
		t.Errorf("entries[1] = %+v, want B with count 3", entries[1])
	}
	if entries[0].Percentage != "50.00" {
		t.Errorf("percentage = %q, want 50.00", entries[0].Percentage)
	}
	if entries[1].Percentage != "30.00" {
		t.Errorf("percentage = %q, want 30.00", entries[1].Percentage)
	}
}

func TestStatsService_CrimeRanking_StableOrderAmongTies(t *testing.T) {
	mockRepo := &mockArrestRepository{
		allFn: func(ctx context.Context) ([]model.Arrest, error) {
			return arrestsWithOffenses(map[string]int{"X": 2, "Y": 2}, []string{"X", "Y"}), nil
		},
	}
	svc := NewStatsService(mockRepo, nil)

	entries, err := svc.CrimeRanking(context.Background(), 10)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	// Equal counts keep first-seen order.
	if entries[0].Offense != "X" || entries[1].Offense != "Y" {
		t.Errorf("tie order = [%s %s], want [X Y]", entries[0].Offense, entries[1].Offense)
	}
}

func TestStatsService_CrimeRanking_FirstSeenLawCategory(t *testing.T) {
	mockRepo := &mockArrestRepository{
		allFn: func(ctx context.Context) ([]model.Arrest, error) {
			return []model.Arrest{
				{OffenseDescription: "ROBBERY", LawCategory: "felony"},
				{OffenseDescription: "ROBBERY", LawCategory: "misdemeanor"},
			}, nil
		},
	}
	svc := NewStatsService(mockRepo, nil)

	entries, err := svc.CrimeRanking(context.Background(), 10)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if entries[0].LawCategory != "felony" {
		t.Errorf("lawCategory = %q, want first-seen felony", entries[0].LawCategory)
	}
}

func TestStatsService_CrimeRanking_LimitBounds(t *testing.T) {
	svc := NewStatsService(&mockArrestRepository{}, nil)

	for _, limit := range []int{0, -1, 51} {
		_, err := svc.CrimeRanking(context.Background(), limit)
		var verr *validate.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("limit=%d: error = %v, want *validate.ValidationError", limit, err)
		}
	}
}

func TestStatsService_CrimeRanking_EmptyCollection(t *testing.T) {
	svc := NewStatsService(&mockArrestRepository{}, nil)

	entries, err := svc.CrimeRanking(context.Background(), 10)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0", len(entries))
	}
}

// =============================================================================
// DEMOGRAPHICS TESTS
// =============================================================================

func TestStatsService_Demographics_EmptyCollection(t *testing.T) {
	svc := NewStatsService(&mockArrestRepository{}, nil)

	summary, err := svc.Demographics(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if summary.Total != 0 {
		t.Errorf("total = %d, want 0", summary.Total)
	}
	if len(summary.AgeGroupData.Labels) != 0 || len(summary.GenderData.Labels) != 0 || len(summary.RaceData.Labels) != 0 {
		t.Error("expected empty label series for an empty collection")
	}
	if summary.BoroughDemographicData.Labels == nil {
		t.Error("series slices should be empty, not nil")
	}
}

func TestStatsService_Demographics_SingleRecord(t *testing.T) {
	mockRepo := &mockArrestRepository{
		allFn: func(ctx context.Context) ([]model.Arrest, error) {
			return []model.Arrest{
				{Borough: "K", AgeGroup: "25-44", Gender: "M", Race: "WHITE HISPANIC"},
			}, nil
		},
	}
	svc := NewStatsService(mockRepo, nil)

	summary, err := svc.Demographics(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if summary.Total != 1 {
		t.Errorf("total = %d, want 1", summary.Total)
	}
	if len(summary.AgeGroupData.Labels) != 1 || summary.AgeGroupData.Labels[0] != "25-44" {
		t.Errorf("ageGroup labels = %v, want [25-44]", summary.AgeGroupData.Labels)
	}
	if summary.AgeGroupData.Values[0] != 1 {
		t.Errorf("ageGroup values = %v, want [1]", summary.AgeGroupData.Values)
	}

	// "25-44" falls in the middle coarse bucket.
	if summary.BoroughDemographicData.Age25_45[0] != 1 {
		t.Errorf("age25_45 = %v, want [1]", summary.BoroughDemographicData.Age25_45)
	}
	if summary.BoroughDemographicData.Age18_25[0] != 0 {
		t.Errorf("age18_25 = %v, want [0]", summary.BoroughDemographicData.Age18_25)
	}

	// "WHITE HISPANIC" buckets as hispanic, not white.
	if summary.RaceBoroughData.Hispanic[0] != 1 {
		t.Errorf("hispanic = %v, want [1]", summary.RaceBoroughData.Hispanic)
	}
	if summary.RaceBoroughData.White[0] != 0 {
		t.Errorf("white = %v, want [0]", summary.RaceBoroughData.White)
	}
}

func TestStatsService_Demographics_AgeBucketPriority(t *testing.T) {
	// Both "<18" and "18-24" contain "18" and land in the youngest bucket.
	mockRepo := &mockArrestRepository{
		allFn: func(ctx context.Context) ([]model.Arrest, error) {
			return []model.Arrest{
				{Borough: "M", AgeGroup: "<18", Gender: "F", Race: "WHITE"},
				{Borough: "M", AgeGroup: "18-24", Gender: "M", Race: "WHITE"},
				{Borough: "M", AgeGroup: "45-64", Gender: "M", Race: "WHITE"},
				{Borough: "M", AgeGroup: "65+", Gender: "F", Race: "WHITE"},
			}, nil
		},
	}
	svc := NewStatsService(mockRepo, nil)

	summary, err := svc.Demographics(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if summary.BoroughDemographicData.Age18_25[0] != 2 {
		t.Errorf("age18_25 = %v, want [2]", summary.BoroughDemographicData.Age18_25)
	}
	if summary.BoroughDemographicData.Age45Plus[0] != 2 {
		t.Errorf("age45plus = %v, want [2]", summary.BoroughDemographicData.Age45Plus)
	}
}

func TestStatsService_Demographics_GenderSplitIgnoresUnknown(t *testing.T) {
	mockRepo := &mockArrestRepository{
		allFn: func(ctx context.Context) ([]model.Arrest, error) {
			return []model.Arrest{
				{Borough: "Q", AgeGroup: "25-44", Gender: "M", Race: "BLACK"},
				{Borough: "Q", AgeGroup: "25-44", Gender: "F", Race: "BLACK"},
				{Borough: "Q", AgeGroup: "25-44", Gender: "U", Race: "BLACK"},
			}, nil
		},
	}
	svc := NewStatsService(mockRepo, nil)

	summary, err := svc.Demographics(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if summary.AgeGenderData.Male[0] != 1 || summary.AgeGenderData.Female[0] != 1 {
		t.Errorf("gender split = male %v female %v, want [1] [1]",
			summary.AgeGenderData.Male, summary.AgeGenderData.Female)
	}
	// The raw gender series still counts all three values.
	if len(summary.GenderData.Labels) != 3 {
		t.Errorf("gender labels = %v, want 3 entries", summary.GenderData.Labels)
	}
}

func TestStatsService_Demographics_StorageError(t *testing.T) {
	mockRepo := &mockArrestRepository{
		allFn: func(ctx context.Context) ([]model.Arrest, error) {
			return nil, errors.New("connection reset")
		},
	}
	svc := NewStatsService(mockRepo, nil)

	if _, err := svc.Demographics(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
}
