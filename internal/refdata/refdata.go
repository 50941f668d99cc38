// Package refdata exposes the fixed enumerations of the arrest dataset:
// boroughs, races, sex codes, age groups and law categories, plus the
// mapping helpers between raw dataset values and their simplified buckets.
// Returned slices are copies so callers cannot mutate shared state.
package refdata

import "strings"

var boroughNames = []string{"MANHATTAN", "BROOKLYN", "BRONX", "QUEENS", "STATEN ISLAND"}

var boroughNameToCode = map[string]string{
	"MANHATTAN":     "M",
	"BROOKLYN":      "K",
	"BRONX":         "B",
	"QUEENS":        "Q",
	"STATEN ISLAND": "S",
}

var boroughCodeToName = map[string]string{
	"M": "Manhattan",
	"K": "Brooklyn",
	"B": "Bronx",
	"Q": "Queens",
	"S": "Staten Island",
}

var boroughCodes = []string{"B", "S", "K", "M", "Q"}

// rawRaces are the seven race strings as they appear in the dataset.
var rawRaces = []string{
	"WHITE",
	"WHITE HISPANIC",
	"BLACK",
	"BLACK HISPANIC",
	"ASIAN / PACIFIC ISLANDER",
	"AMERICAN INDIAN / ALASKAN NATIVE",
	"UNKNOWN",
}

// raceBuckets is the five-category simplification of rawRaces.
var raceBuckets = []string{"WHITE", "BLACK", "ASIAN", "HISPANIC", "OTHER"}

var sexCodes = []string{"M", "F", "U"}

// ageGroups includes the dataset's literal "null" sentinel for unknown age.
var ageGroups = []string{"<18", "18-24", "25-44", "45-64", "65+", "null"}

var lawCategories = []string{"felony", "misdemeanor", "violation"}

func copyOf(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func BoroughNames() []string { return copyOf(boroughNames) }
func BoroughCodes() []string { return copyOf(boroughCodes) }
func RawRaces() []string     { return copyOf(rawRaces) }
func RaceBuckets() []string  { return copyOf(raceBuckets) }
func SexCodes() []string     { return copyOf(sexCodes) }
func AgeGroups() []string    { return copyOf(ageGroups) }
func LawCategories() []string { return copyOf(lawCategories) }

// IsBoroughCode reports whether code (case-insensitive) is one of B/S/K/M/Q.
func IsBoroughCode(code string) bool {
	_, ok := boroughCodeToName[strings.ToUpper(code)]
	return ok
}

// IsRawRace reports whether raw (case-insensitive) is one of the seven
// dataset race strings.
func IsRawRace(raw string) bool {
	up := strings.ToUpper(raw)
	for _, r := range rawRaces {
		if r == up {
			return true
		}
	}
	return false
}

// IsSexCode reports whether code (case-insensitive) is M, F or U.
func IsSexCode(code string) bool {
	up := strings.ToUpper(code)
	for _, s := range sexCodes {
		if s == up {
			return true
		}
	}
	return false
}

// IsAgeGroup reports whether group is one of the six buckets, including the
// literal "null" sentinel. The match is exact: bucket labels are not
// case-folded.
func IsAgeGroup(group string) bool {
	for _, g := range ageGroups {
		if g == group {
			return true
		}
	}
	return false
}

// IsLawCategory reports whether cat (case-insensitive) is one of
// felony/misdemeanor/violation.
func IsLawCategory(cat string) bool {
	low := strings.ToLower(cat)
	for _, c := range lawCategories {
		if c == low {
			return true
		}
	}
	return false
}

// RaceBucket maps a raw dataset race string onto the five-bucket
// simplification by substring match. Order matters: HISPANIC is checked
// before BLACK so "BLACK HISPANIC" lands in HISPANIC, first match wins.
func RaceBucket(raw string) string {
	up := strings.ToUpper(raw)
	switch {
	case strings.Contains(up, "HISPANIC"):
		return "HISPANIC"
	case strings.Contains(up, "BLACK"):
		return "BLACK"
	case strings.Contains(up, "ASIAN"):
		return "ASIAN"
	case strings.Contains(up, "WHITE"):
		return "WHITE"
	default:
		return "OTHER"
	}
}

// BoroughCode resolves a full borough name (case-insensitive) to its
// single-letter code.
func BoroughCode(name string) (string, bool) {
	code, ok := boroughNameToCode[strings.ToUpper(strings.TrimSpace(name))]
	return code, ok
}

// BoroughName resolves a single-letter code to the display name. Unknown
// codes are returned unchanged.
func BoroughName(code string) string {
	if name, ok := boroughCodeToName[strings.ToUpper(code)]; ok {
		return name
	}
	return code
}
