package model

// MonthlyTrendEntry is the arrest count for one calendar month.
type MonthlyTrendEntry struct {
	Month        string `json:"month"` // "YYYY-MM"
	TotalArrests int    `json:"totalArrests"`
}

// WeeklyTrendEntry is the arrest count for one ISO week.
type WeeklyTrendEntry struct {
	Year         int `json:"year"`
	Week         int `json:"week"`
	TotalArrests int `json:"totalArrests"`
}
