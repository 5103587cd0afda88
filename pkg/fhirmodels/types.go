package fhirmodels

// Common FHIR value set constants used across the application.

// Resource types recognised by the bundle importer.
const (
	ResourceBundle            = "Bundle"
	ResourcePatient           = "Patient"
	ResourceObservation       = "Observation"
	ResourceMolecularSequence = "MolecularSequence"
)

// Observation code displays that trigger derived genomics rows.
const (
	ObsCodeGeneticVariantAssessment = "Genetic variant assessment"
	ObsCodeMedicationAssessed       = "Medication assessed [ID]"
)

// Component code displays read from genomics observations.
const (
	ComponentGeneStudied            = "Gene studied [ID]"
	ComponentClinicalSignificance   = "Genetic variation clinical significance [Imp]"
	ComponentPredictedPhenotype     = "Predicted phenotype"
	ComponentTherapeuticImplication = "Therapeutic implication"
)

// ObservationCategory codes.
const (
	ObsCategoryVitalSigns    = "vital-signs"
	ObsCategoryLaboratory    = "laboratory"
	ObsCategoryImaging       = "imaging"
	ObsCategorySocialHistory = "social-history"
	ObsCategorySurvey        = "survey"
	ObsCategoryExam          = "exam"
	ObsCategoryProcedure     = "procedure"
	ObsCategoryActivity      = "activity"
	ObsCategoryTherapy       = "therapy"
)

// ObservationStatus codes per FHIR R4.
const (
	ObsStatusRegistered     = "registered"
	ObsStatusPreliminary    = "preliminary"
	ObsStatusFinal          = "final"
	ObsStatusAmended        = "amended"
	ObsStatusCancelled      = "cancelled"
	ObsStatusEnteredInError = "entered-in-error"
)

// MolecularSequence types per FHIR R4.
const (
	SequenceTypeAA  = "aa"
	SequenceTypeDNA = "dna"
	SequenceTypeRNA = "rna"
)

// AdministrativeGender codes.
const (
	GenderMale    = "male"
	GenderFemale  = "female"
	GenderOther   = "other"
	GenderUnknown = "unknown"
)
