package types

// Gender is a short tag from the closed gender vocabulary.
type Gender string

const (
	// GenderUnknown marks an absent or unrecognized gender.
	GenderUnknown     Gender = ""
	GenderFemale      Gender = "f"
	GenderMale        Gender = "m"
	GenderNonBinary   Gender = "nb"
	GenderTransFemale Gender = "tf"
	GenderTransMale   Gender = "tm"
)

// genderByEntityID maps knowledge-base entity ids to gender tags.
var genderByEntityID = map[string]Gender{
	"Q6581072": GenderFemale,      // female
	"Q6581097": GenderMale,        // male
	"Q48270":   GenderNonBinary,   // non-binary
	"Q1052281": GenderTransFemale, // trans woman
	"Q2449503": GenderTransMale,   // trans man
}

// GenderFromEntityID looks up the gender tag for an entity id.
func GenderFromEntityID(id string) (Gender, bool) {
	g, ok := genderByEntityID[id]
	return g, ok
}

// IsMaleCoded reports whether the gender selects the male label of a gendered relation.
func (g Gender) IsMaleCoded() bool {
	return g == GenderMale || g == GenderTransMale
}

// IsKnown reports whether g is a member of the vocabulary.
func (g Gender) IsKnown() bool {
	switch g {
	case GenderFemale, GenderMale, GenderNonBinary, GenderTransFemale, GenderTransMale:
		return true
	default:
		return false
	}
}

func (g Gender) String() string {
	return string(g)
}
