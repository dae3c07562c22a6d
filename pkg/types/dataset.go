package types

// Row is a record of one output relation rendered as its ordered fields.
type Row interface {
	Fields() []string
}

// Person is a row of the persons relation.
type Person struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Gender      Gender `json:"gender,omitempty"`
	Birthdate   string `json:"birthdate,omitempty"`
	Deathdate   string `json:"deathdate,omitempty"`
	Description string `json:"description,omitempty"`
}

func (p Person) Fields() []string {
	return []string{p.Key, p.Name, string(p.Gender), p.Birthdate, p.Deathdate, p.Description}
}

// Nationality is a row of the nationalities relation.
type Nationality struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

func (n Nationality) Fields() []string {
	return []string{n.Key, n.Name}
}

// PersonRelation is a directed edge: A is RelType of B.
type PersonRelation struct {
	A       string       `json:"a"`
	B       string       `json:"b"`
	RelType RelationType `json:"reltype"`
}

func (e PersonRelation) Fields() []string {
	return []string{e.A, e.B, string(e.RelType)}
}

// PersonNationality links a person to one of their nationalities.
type PersonNationality struct {
	Person      string `json:"person"`
	Nationality string `json:"nationality"`
}

func (e PersonNationality) Fields() []string {
	return []string{e.Person, e.Nationality}
}

// Dataset holds the four output relations of one run.
type Dataset struct {
	Persons             []Person
	Nationalities       []Nationality
	PersonRelations     []PersonRelation
	PersonNationalities []PersonNationality
}

// Counts returns the row count of each relation keyed by table name.
func (d *Dataset) Counts() map[string]int {
	return map[string]int{
		TablePersons:             len(d.Persons),
		TableNationalities:       len(d.Nationalities),
		TablePersonRelations:     len(d.PersonRelations),
		TablePersonNationalities: len(d.PersonNationalities),
	}
}

// Output table names.
const (
	TablePersons             = "persons"
	TableNationalities       = "nationalities"
	TablePersonRelations     = "person2person"
	TablePersonNationalities = "person2nationality"
)

// TableNames lists the output tables in write order.
func TableNames() []string {
	return []string{TablePersons, TableNationalities, TablePersonRelations, TablePersonNationalities}
}
