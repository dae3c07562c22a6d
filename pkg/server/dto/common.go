// Package dto holds the JSON shapes of the dataset API.
package dto

import (
	"regexp"
)

var keyPattern = regexp.MustCompile(`^Q\d+$`)

// ValidKey reports whether key looks like an entity id.
func ValidKey(key string) bool {
	return keyPattern.MatchString(key)
}

// Person is a person row. Absent fields are omitted.
type Person struct {
	Key         string `json:"key"`
	Name        string `json:"name,omitempty"`
	Gender      string `json:"gender,omitempty"`
	Birthdate   string `json:"birthdate,omitempty"`
	Deathdate   string `json:"deathdate,omitempty"`
	Description string `json:"description,omitempty"`
}

// Relative is one edge seen from the person it points at: Key is RelType of
// that person.
type Relative struct {
	Key     string `json:"key"`
	Name    string `json:"name,omitempty"`
	RelType string `json:"reltype"`
}

// Nationality is a nationality row.
type Nationality struct {
	Key  string `json:"key"`
	Name string `json:"name,omitempty"`
}

// PersonResponse is returned by GET /api/v1/persons/:key.
type PersonResponse struct {
	Person        Person        `json:"person"`
	Relatives     []Relative    `json:"relatives"`
	Nationalities []Nationality `json:"nationalities"`
}

// NationalityMembersResponse is returned by GET /api/v1/nationalities/:key/persons.
type NationalityMembersResponse struct {
	Nationality Nationality `json:"nationality"`
	Persons     []Person    `json:"persons"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
