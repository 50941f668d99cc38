package model

// CrimeRankingEntry is one row of the crime category ranking: an offense
// description with its occurrence count, the first-seen law category for the
// group, and its share of all records formatted to two decimals.
type CrimeRankingEntry struct {
	Offense     string `json:"offense"`
	Count       int    `json:"count"`
	LawCategory string `json:"lawCategory"`
	Percentage  string `json:"percentage"`
}

// LabelValues is a parallel-array chart series: Values[i] is the count for
// Labels[i].
type LabelValues struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

// BoroughAgeSeries breaks arrests per borough into three coarse age buckets.
type BoroughAgeSeries struct {
	Labels    []string `json:"labels"`
	Age18_25  []int    `json:"age18_25"`
	Age25_45  []int    `json:"age25_45"`
	Age45Plus []int    `json:"age45plus"`
}

// AgeGenderSeries splits each age group by gender.
type AgeGenderSeries struct {
	Labels []string `json:"labels"`
	Male   []int    `json:"male"`
	Female []int    `json:"female"`
}

// RaceBoroughSeries restricts the per-borough race split to four buckets.
type RaceBoroughSeries struct {
	Labels   []string `json:"labels"`
	Black    []int    `json:"black"`
	White    []int    `json:"white"`
	Hispanic []int    `json:"hispanic"`
	Asian    []int    `json:"asian"`
}

// DemographicSummary is the full demographic breakdown consumed by the stats
// dashboard. All series are empty (never nil maps, never an error) when the
// collection has no documents.
type DemographicSummary struct {
	AgeGroupData           LabelValues       `json:"ageGroupData"`
	GenderData             LabelValues       `json:"genderData"`
	RaceData               LabelValues       `json:"raceData"`
	BoroughDemographicData BoroughAgeSeries  `json:"boroughDemographicData"`
	AgeGenderData          AgeGenderSeries   `json:"ageGenderData"`
	RaceBoroughData        RaceBoroughSeries `json:"raceBoroughData"`
	Total                  int               `json:"total"`
}

// Crime ranking limit bounds.
const (
	DefaultRankingLimit = 10
	MaxRankingLimit     = 50
)
