package model

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Arrest is a single arrest record as stored in the arrests collection.
// Records are immutable after creation; there is no update path, only delete.
type Arrest struct {
	ID                 primitive.ObjectID `bson:"_id" json:"_id"`
	ArrestDate         string             `bson:"arrest_date" json:"arrest_date"`
	Borough            string             `bson:"borough" json:"borough"`
	Precinct           int                `bson:"precinct" json:"precinct"`
	OffenseDescription string             `bson:"offense_description" json:"offense_description"`
	LawCategory        string             `bson:"law_category" json:"law_category"`
	AgeGroup           string             `bson:"age_group" json:"age_group"`
	Gender             string             `bson:"gender" json:"gender"`
	Race               string             `bson:"race" json:"race"`
	ArrestLocation     Location           `bson:"arrest_location" json:"arrest_location"`
}

// Location is an optional geographic point. Latitude and longitude are
// independently optional at the input boundary but stored together.
type Location struct {
	Latitude  *float64 `bson:"latitude" json:"latitude"`
	Longitude *float64 `bson:"longitude" json:"longitude"`
}

// CreateArrestRequest carries the ten creation fields. Latitude and longitude
// are pointers so "absent" is distinguishable from zero.
type CreateArrestRequest struct {
	ArrestDate         string   `json:"arrest_date"`
	Borough            string   `json:"borough"`
	Precinct           *int     `json:"precinct"`
	OffenseDescription string   `json:"offense_description"`
	LawCategory        string   `json:"law_category"`
	AgeGroup           string   `json:"age_group"`
	Gender             string   `json:"gender"`
	Race               string   `json:"race"`
	Latitude           *float64 `json:"latitude"`
	Longitude          *float64 `json:"longitude"`
}

// ArrestFilter holds optional filter criteria. Empty fields are omitted from
// the query entirely (never matched against the empty string).
type ArrestFilter struct {
	Borough            string `json:"borough"`
	Precinct           *int   `json:"precinct"`
	OffenseDescription string `json:"offense_description"`
	LawCategory        string `json:"law_category"`
	AgeGroup           string `json:"age_group"`
	Gender             string `json:"gender"`
	Race               string `json:"race"`
}

// ArrestFilterParams is the raw, unvalidated filter input as it arrives
// from the query string. The arrest service parses and validates it into an
// ArrestFilter.
type ArrestFilterParams struct {
	Borough            string
	Precinct           string
	OffenseDescription string
	LawCategory        string
	AgeGroup           string
	Gender             string
	Race               string
}

// ArrestPage is one page of arrest records with pagination metadata.
type ArrestPage struct {
	Arrests     []Arrest `json:"arrests"`
	CurrentPage int      `json:"currentPage"`
	TotalPages  int      `json:"totalPages"`
	TotalCount  int64    `json:"totalCount"`
	HasNextPage bool     `json:"hasNextPage"`
	HasPrevPage bool     `json:"hasPrevPage"`
}

// Pagination bounds for listing arrests.
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100
)

var (
	// ErrArrestNotFound is returned when no arrest matches the given id
	ErrArrestNotFound = errors.New("arrest not found")
)
