package identity

// Patient maps to the patients table: a flat projection of a FHIR Patient.
type Patient struct {
	ID         string `db:"id" json:"id"`
	Identifier string `db:"identifier" json:"identifier"`
	Family     string `db:"family" json:"family"`
	Given      string `db:"given" json:"given"`
	Gender     string `db:"gender" json:"gender"`
	BirthDate  string `db:"birth_date" json:"birth_date"`
	City       string `db:"city" json:"city"`
	State      string `db:"state" json:"state"`
	Country    string `db:"country" json:"country"`
}
