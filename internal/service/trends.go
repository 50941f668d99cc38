package service

import (
	"context"
	"log"
	"sort"
	"time"

	"nycarrests/internal/model"
	"nycarrests/internal/repository"
)

// TrendsService groups arrests into time buckets. Documents whose date does
// not parse are excluded and logged rather than failing the whole series.
type TrendsService struct {
	repo repository.ArrestRepository
}

func NewTrendsService(repo repository.ArrestRepository) *TrendsService {
	return &TrendsService{repo: repo}
}

// Monthly buckets arrests by calendar month ("YYYY-MM"), ascending.
func (s *TrendsService) Monthly(ctx context.Context) ([]model.MonthlyTrendEntry, error) {
	arrests, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	skipped := 0
	for _, a := range arrests {
		if _, err := time.Parse("2006-01-02", a.ArrestDate); err != nil {
			skipped++
			continue
		}
		counts[a.ArrestDate[:7]]++
	}
	if skipped > 0 {
		log.Printf("[TrendsService] monthly: skipped %d records with unparsable dates", skipped)
	}

	entries := make([]model.MonthlyTrendEntry, 0, len(counts))
	for month, n := range counts {
		entries = append(entries, model.MonthlyTrendEntry{Month: month, TotalArrests: n})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Month < entries[j].Month })
	return entries, nil
}

// Weekly buckets arrests by ISO week, ascending by (year, week). The ISO
// year can differ from the calendar year around January 1st.
func (s *TrendsService) Weekly(ctx context.Context) ([]model.WeeklyTrendEntry, error) {
	arrests, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}

	type yearWeek struct{ year, week int }
	counts := make(map[yearWeek]int)
	skipped := 0
	for _, a := range arrests {
		d, err := time.Parse("2006-01-02", a.ArrestDate)
		if err != nil {
			skipped++
			continue
		}
		year, week := d.ISOWeek()
		counts[yearWeek{year, week}]++
	}
	if skipped > 0 {
		log.Printf("[TrendsService] weekly: skipped %d records with unparsable dates", skipped)
	}

	entries := make([]model.WeeklyTrendEntry, 0, len(counts))
	for yw, n := range counts {
		entries = append(entries, model.WeeklyTrendEntry{Year: yw.year, Week: yw.week, TotalArrests: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Year != entries[j].Year {
			return entries[i].Year < entries[j].Year
		}
		return entries[i].Week < entries[j].Week
	})
	return entries, nil
}
