package molecularsequence

// MolecularSequence maps to the molecular_sequences table. WindowStart and
// WindowEnd hold the source values unvalidated.
type MolecularSequence struct {
	ID          string `db:"id" json:"id"`
	Type        string `db:"type" json:"type"`
	PatientRef  string `db:"patient_ref" json:"patient_ref"`
	Chromosome  string `db:"chromosome" json:"chromosome"`
	GenomeBuild string `db:"genome_build" json:"genome_build"`
	Orientation string `db:"orientation" json:"orientation"`
	WindowStart string `db:"window_start" json:"window_start"`
	WindowEnd   string `db:"window_end" json:"window_end"`
}
