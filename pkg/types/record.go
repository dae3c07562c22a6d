package types

// Raw source column names.
const (
	ColumnHuman            = "human"
	ColumnHumanLabel       = "humanLabel"
	ColumnHumanDescription = "humanDescription"
	ColumnGender           = "gender"
	ColumnBirthdate        = "birthdate"
	ColumnDeathdate        = "deathdate"
	ColumnNationality      = "nationality"
	ColumnNationalityLabel = "nationalityLabel"
	ColumnRelative         = "relative"
	ColumnInvRelType       = "invReltype"
)

// RawRecord is one row of a raw source keyed by column name.
// Sources differ in which columns they carry; a missing column reads as absent.
type RawRecord map[string]string

// Get returns the raw value of a column, or "" when the column is missing.
func (r RawRecord) Get(column string) string {
	return r[column]
}

// NormalizedRecord is a raw row after field normalization.
type NormalizedRecord struct {
	Key         string
	Name        string
	Description string
	Gender      Gender
	Birthdate   string // YYYYMMDD
	Deathdate   string // YYYYMMDD

	NationalityKey   string
	NationalityLabel string

	Relative   string
	// InvRelType is what Relative is to Key, as stated by the source.
	InvRelType RelationType
}

// HasKey reports whether the record identifies a person.
func (r NormalizedRecord) HasKey() bool {
	return r.Key != ""
}

// HasRelation reports whether the record states a recognized relation to another person.
func (r NormalizedRecord) HasRelation() bool {
	return r.Key != "" && r.Relative != "" && r.InvRelType.IsKnown()
}

// HasNationality reports whether the record links its person to a nationality.
func (r NormalizedRecord) HasNationality() bool {
	return r.Key != "" && r.NationalityKey != ""
}

// Person returns the person attributes carried by the record.
func (r NormalizedRecord) Person() Person {
	return Person{
		Key:         r.Key,
		Name:        r.Name,
		Gender:      r.Gender,
		Birthdate:   r.Birthdate,
		Deathdate:   r.Deathdate,
		Description: r.Description,
	}
}

// Nationality returns the nationality carried by the record.
func (r NormalizedRecord) Nationality() Nationality {
	return Nationality{Key: r.NationalityKey, Name: r.NationalityLabel}
}
