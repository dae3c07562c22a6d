package handlers

import (
	"net/http"

	"github.com/akngs/k-families-data/pkg/server/dto"
	"github.com/akngs/k-families-data/pkg/types"
	"github.com/gin-gonic/gin"
)

// Store is the read side of a loaded dataset.
type Store interface {
	Person(key string) (types.Person, bool)
	HasPerson(key string) bool
	Relatives(key string) []types.PersonRelation
	NationalitiesOf(key string) []string
	Nationality(key string) (types.Nationality, bool)
	Nationalities() []types.Nationality
	Members(key string) []string
	Counts() map[string]int
}

// DatasetHandler serves persons, their relatives and nationalities.
type DatasetHandler struct {
	store Store
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(store Store) *DatasetHandler {
	return &DatasetHandler{store: store}
}

// GetPerson handles GET /api/v1/persons/:key
func (h *DatasetHandler) GetPerson(c *gin.Context) {
	key, ok := h.personKey(c)
	if !ok {
		return
	}
	p, found := h.store.Person(key)
	if !found {
		p = types.Person{Key: key}
	}

	nationalities := make([]dto.Nationality, 0)
	for _, nk := range h.store.NationalitiesOf(key) {
		n, _ := h.store.Nationality(nk)
		nationalities = append(nationalities, dto.Nationality{Key: nk, Name: n.Name})
	}

	c.JSON(http.StatusOK, dto.PersonResponse{
		Person:        toPerson(p),
		Relatives:     h.relatives(key),
		Nationalities: nationalities,
	})
}

// GetRelatives handles GET /api/v1/persons/:key/relatives
func (h *DatasetHandler) GetRelatives(c *gin.Context) {
	key, ok := h.personKey(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.relatives(key))
}

// ListNationalities handles GET /api/v1/nationalities
func (h *DatasetHandler) ListNationalities(c *gin.Context) {
	all := h.store.Nationalities()
	out := make([]dto.Nationality, 0, len(all))
	for _, n := range all {
		out = append(out, dto.Nationality{Key: n.Key, Name: n.Name})
	}
	c.JSON(http.StatusOK, out)
}

// GetNationalityPersons handles GET /api/v1/nationalities/:key/persons
func (h *DatasetHandler) GetNationalityPersons(c *gin.Context) {
	key := c.Param("key")
	if !dto.ValidKey(key) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_key", Message: "key must look like Q123"})
		return
	}
	n, ok := h.store.Nationality(key)
	members := h.store.Members(key)
	if !ok && len(members) == 0 {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not_found", Message: "unknown nationality " + key})
		return
	}

	persons := make([]dto.Person, 0, len(members))
	for _, pk := range members {
		p, found := h.store.Person(pk)
		if !found {
			p = types.Person{Key: pk}
		}
		persons = append(persons, toPerson(p))
	}
	c.JSON(http.StatusOK, dto.NationalityMembersResponse{
		Nationality: dto.Nationality{Key: key, Name: n.Name},
		Persons:     persons,
	})
}

// personKey validates the :key parameter and writes the error response when the
// key is malformed or unknown. A key known only from edges counts as known.
func (h *DatasetHandler) personKey(c *gin.Context) (string, bool) {
	key := c.Param("key")
	if !dto.ValidKey(key) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_key", Message: "key must look like Q123"})
		return "", false
	}
	if !h.store.HasPerson(key) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not_found", Message: "unknown person " + key})
		return "", false
	}
	return key, true
}

func (h *DatasetHandler) relatives(key string) []dto.Relative {
	edges := h.store.Relatives(key)
	out := make([]dto.Relative, 0, len(edges))
	for _, e := range edges {
		p, _ := h.store.Person(e.A)
		out = append(out, dto.Relative{Key: e.A, Name: p.Name, RelType: string(e.RelType)})
	}
	return out
}

func toPerson(p types.Person) dto.Person {
	return dto.Person{
		Key:         p.Key,
		Name:        p.Name,
		Gender:      string(p.Gender),
		Birthdate:   p.Birthdate,
		Deathdate:   p.Deathdate,
		Description: p.Description,
	}
}
