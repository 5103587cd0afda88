package observation

// Observation maps to the observations table. Component holds the source
// component array as compact JSON text.
type Observation struct {
	ID        string `db:"id" json:"id"`
	Status    string `db:"status" json:"status"`
	Category  string `db:"category" json:"category"`
	Code      string `db:"code" json:"code"`
	Subject   string `db:"subject" json:"subject"`
	Effective string `db:"effective" json:"effective"`
	Value     string `db:"value" json:"value"`
	Component string `db:"component" json:"component"`
}

// GeneticVariant maps to obs_genetic_variants. Rows are appended per import.
type GeneticVariant struct {
	ObsID        string `db:"obs_id" json:"obs_id"`
	Subject      string `db:"subject" json:"subject"`
	Gene         string `db:"gene" json:"gene"`
	Significance string `db:"significance" json:"significance"`
	Effective    string `db:"effective" json:"effective"`
}

// Pharmacogenomics maps to obs_pharmacogenomics. Rows are appended per import.
type Pharmacogenomics struct {
	ObsID       string `db:"obs_id" json:"obs_id"`
	Subject     string `db:"subject" json:"subject"`
	Gene        string `db:"gene" json:"gene"`
	Phenotype   string `db:"phenotype" json:"phenotype"`
	Implication string `db:"implication" json:"implication"`
	Effective   string `db:"effective" json:"effective"`
}
