package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"nycarrests/internal/cache"
	"nycarrests/internal/model"
	"nycarrests/internal/refdata"
	"nycarrests/internal/repository"
	"nycarrests/internal/validate"
)

// StatsService builds grouped counts over the arrests collection: the crime
// category ranking and the demographic breakdown. Results pass through a
// best-effort cache; a cache failure never fails the request.
type StatsService struct {
	repo  repository.ArrestRepository
	cache cache.StatsCache // may be nil
}

func NewStatsService(repo repository.ArrestRepository, statsCache cache.StatsCache) *StatsService {
	return &StatsService{repo: repo, cache: statsCache}
}

// CrimeRanking groups records by offense description, counts occurrences,
// keeps the first-seen law category per group, sorts descending by count and
// truncates to limit. Each entry's percentage is its share of the total
// document count, formatted to two decimals.
func (s *StatsService) CrimeRanking(ctx context.Context, limit int) ([]model.CrimeRankingEntry, error) {
	if _, err := validate.PositiveInt(limit, "limit"); err != nil {
		return nil, err
	}
	if limit > model.MaxRankingLimit {
		return nil, &validate.ValidationError{
			Field:  "limit",
			Reason: fmt.Sprintf("must be between 1 and %d", model.MaxRankingLimit),
		}
	}

	if s.cache != nil {
		if entries, ok, err := s.cache.GetRanking(ctx, limit); err != nil {
			log.Printf("[StatsService] ranking cache read failed: %v", err)
		} else if ok {
			return entries, nil
		}
	}

	arrests, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}

	type group struct {
		offense     string
		count       int
		lawCategory string
	}

	index := make(map[string]int)
	var groups []group
	for _, a := range arrests {
		i, ok := index[a.OffenseDescription]
		if !ok {
			i = len(groups)
			index[a.OffenseDescription] = i
			groups = append(groups, group{offense: a.OffenseDescription, lawCategory: a.LawCategory})
		}
		groups[i].count++
	}

	// Stable sort keeps first-seen order among equal counts.
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].count > groups[j].count
	})

	if len(groups) > limit {
		groups = groups[:limit]
	}

	total := len(arrests)
	entries := make([]model.CrimeRankingEntry, len(groups))
	for i, g := range groups {
		pct := 0.0
		if total > 0 {
			pct = float64(g.count) / float64(total) * 100
		}
		entries[i] = model.CrimeRankingEntry{
			Offense:     g.offense,
			Count:       g.count,
			LawCategory: g.lawCategory,
			Percentage:  fmt.Sprintf("%.2f", pct),
		}
	}

	if s.cache != nil {
		if err := s.cache.SetRanking(ctx, limit, entries); err != nil {
			log.Printf("[StatsService] ranking cache write failed: %v", err)
		}
	}
	return entries, nil
}

// counter accumulates counts per label while remembering first-seen label
// order, so the parallel output arrays are deterministic.
type counter struct {
	labels []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(label string) {
	if _, ok := c.counts[label]; !ok {
		c.labels = append(c.labels, label)
	}
	c.counts[label]++
}

func (c *counter) series() model.LabelValues {
	out := model.LabelValues{Labels: []string{}, Values: []int{}}
	for _, l := range c.labels {
		out.Labels = append(out.Labels, l)
		out.Values = append(out.Values, c.counts[l])
	}
	return out
}

// Demographics makes a single pass over all documents and produces the six
// chart series plus the total. An empty collection yields empty series and
// total zero, never an error.
func (s *StatsService) Demographics(ctx context.Context) (*model.DemographicSummary, error) {
	if s.cache != nil {
		if summary, ok, err := s.cache.GetDemographics(ctx); err != nil {
			log.Printf("[StatsService] demographics cache read failed: %v", err)
		} else if ok {
			return summary, nil
		}
	}

	arrests, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}

	ageGroups := newCounter()
	genders := newCounter()
	races := newCounter()

	type boroughAges struct{ age18_25, age25_45, age45plus int }
	var boroughOrder []string
	byBoroughAge := make(map[string]*boroughAges)

	type genderSplit struct{ male, female int }
	var ageOrder []string
	byAgeGender := make(map[string]*genderSplit)

	type raceSplit struct{ black, white, hispanic, asian int }
	var raceBoroughOrder []string
	byBoroughRace := make(map[string]*raceSplit)

	for _, a := range arrests {
		// Raw, untruncated strings are the per-series keys.
		ageGroups.add(a.AgeGroup)
		genders.add(a.Gender)
		races.add(a.Race)

		ba, ok := byBoroughAge[a.Borough]
		if !ok {
			ba = &boroughAges{}
			byBoroughAge[a.Borough] = ba
			boroughOrder = append(boroughOrder, a.Borough)
		}
		// Coarse bucket by substring, priority order: "18" first so both
		// "<18" and "18-24" land in the youngest bucket.
		switch {
		case strings.Contains(a.AgeGroup, "18"):
			ba.age18_25++
		case strings.Contains(a.AgeGroup, "25"):
			ba.age25_45++
		case strings.Contains(a.AgeGroup, "45"),
			strings.Contains(a.AgeGroup, "65"),
			strings.Contains(a.AgeGroup, "+"):
			ba.age45plus++
		}

		gs, ok := byAgeGender[a.AgeGroup]
		if !ok {
			gs = &genderSplit{}
			byAgeGender[a.AgeGroup] = gs
			ageOrder = append(ageOrder, a.AgeGroup)
		}
		switch strings.ToUpper(a.Gender) {
		case "M":
			gs.male++
		case "F":
			gs.female++
		}

		rs, ok := byBoroughRace[a.Borough]
		if !ok {
			rs = &raceSplit{}
			byBoroughRace[a.Borough] = rs
			raceBoroughOrder = append(raceBoroughOrder, a.Borough)
		}
		switch refdata.RaceBucket(a.Race) {
		case "HISPANIC":
			rs.hispanic++
		case "BLACK":
			rs.black++
		case "ASIAN":
			rs.asian++
		case "WHITE":
			rs.white++
		}
	}

	summary := &model.DemographicSummary{
		AgeGroupData: ageGroups.series(),
		GenderData:   genders.series(),
		RaceData:     races.series(),
		BoroughDemographicData: model.BoroughAgeSeries{
			Labels: []string{}, Age18_25: []int{}, Age25_45: []int{}, Age45Plus: []int{},
		},
		AgeGenderData: model.AgeGenderSeries{
			Labels: []string{}, Male: []int{}, Female: []int{},
		},
		RaceBoroughData: model.RaceBoroughSeries{
			Labels: []string{}, Black: []int{}, White: []int{}, Hispanic: []int{}, Asian: []int{},
		},
		Total: len(arrests),
	}

	for _, b := range boroughOrder {
		ba := byBoroughAge[b]
		summary.BoroughDemographicData.Labels = append(summary.BoroughDemographicData.Labels, b)
		summary.BoroughDemographicData.Age18_25 = append(summary.BoroughDemographicData.Age18_25, ba.age18_25)
		summary.BoroughDemographicData.Age25_45 = append(summary.BoroughDemographicData.Age25_45, ba.age25_45)
		summary.BoroughDemographicData.Age45Plus = append(summary.BoroughDemographicData.Age45Plus, ba.age45plus)
	}

	for _, g := range ageOrder {
		gs := byAgeGender[g]
		summary.AgeGenderData.Labels = append(summary.AgeGenderData.Labels, g)
		summary.AgeGenderData.Male = append(summary.AgeGenderData.Male, gs.male)
		summary.AgeGenderData.Female = append(summary.AgeGenderData.Female, gs.female)
	}

	for _, b := range raceBoroughOrder {
		rs := byBoroughRace[b]
		summary.RaceBoroughData.Labels = append(summary.RaceBoroughData.Labels, b)
		summary.RaceBoroughData.Black = append(summary.RaceBoroughData.Black, rs.black)
		summary.RaceBoroughData.White = append(summary.RaceBoroughData.White, rs.white)
		summary.RaceBoroughData.Hispanic = append(summary.RaceBoroughData.Hispanic, rs.hispanic)
		summary.RaceBoroughData.Asian = append(summary.RaceBoroughData.Asian, rs.asian)
	}

	if s.cache != nil {
		if err := s.cache.SetDemographics(ctx, summary); err != nil {
			log.Printf("[StatsService] demographics cache write failed: %v", err)
		}
	}
	return summary, nil
}
