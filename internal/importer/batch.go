package importer

import (
	"fmt"

	"github.com/healthnexus/nexus/internal/domain/identity"
	"github.com/healthnexus/nexus/internal/domain/molecularsequence"
	"github.com/healthnexus/nexus/internal/domain/observation"
	"github.com/healthnexus/nexus/internal/platform/fhir"
	"github.com/healthnexus/nexus/pkg/fhirmodels"
)

// Batch collects the rows extracted from one bundle, in document order.
type Batch struct {
	Patients           []*identity.Patient
	Observations       []*observation.Observation
	MolecularSequences []*molecularsequence.MolecularSequence
	GeneticVariants    []*observation.GeneticVariant
	Pharmacogenomics   []*observation.Pharmacogenomics
	Skipped            int
}

// Add projects one decoded resource into the batch.
func (b *Batch) Add(res fhir.Resource) error {
	switch r := res.(type) {
	case *fhir.Patient:
		b.Patients = append(b.Patients, patientRow(r))
	case *fhir.Observation:
		row := observationRow(r)
		b.Observations = append(b.Observations, row)
		switch row.Code {
		case fhirmodels.ObsCodeGeneticVariantAssessment:
			b.GeneticVariants = append(b.GeneticVariants, geneticVariantRow(r, row))
		case fhirmodels.ObsCodeMedicationAssessed:
			b.Pharmacogenomics = append(b.Pharmacogenomics, pharmacogenomicsRow(r, row))
		}
	case *fhir.MolecularSequence:
		b.MolecularSequences = append(b.MolecularSequences, sequenceRow(r))
	case *fhir.Unhandled:
		b.Skipped++
	default:
		return fmt.Errorf("no projection for resource %T", res)
	}
	return nil
}

func patientRow(p *fhir.Patient) *identity.Patient {
	name := p.FirstName()
	addr := p.FirstAddress()
	return &identity.Patient{
		ID:         p.ID,
		Identifier: p.FirstIdentifier().Value,
		Family:     name.Family,
		Given:      name.GivenNames(),
		Gender:     p.Gender,
		BirthDate:  p.BirthDate,
		City:       addr.City,
		State:      addr.State,
		Country:    addr.Country,
	}
}

func observationRow(o *fhir.Observation) *observation.Observation {
	value := ""
	if o.Value != nil {
		value = o.Value.Text()
	}
	component := o.ComponentJSON
	if component == "" {
		component = "[]"
	}
	return &observation.Observation{
		ID:        o.ID,
		Status:    o.Status,
		Category:  o.CategoryCode(),
		Code:      o.CodeDisplay(),
		Subject:   o.Subject.Reference,
		Effective: o.EffectiveDateTime,
		Value:     value,
		Component: component,
	}
}

// Later components with the same label overwrite earlier ones.
func geneticVariantRow(o *fhir.Observation, row *observation.Observation) *observation.GeneticVariant {
	gv := &observation.GeneticVariant{ObsID: row.ID, Subject: row.Subject, Effective: row.Effective}
	for _, c := range o.Components {
		switch c.Label() {
		case fhirmodels.ComponentGeneStudied:
			gv.Gene = c.CodedDisplay()
		case fhirmodels.ComponentClinicalSignificance:
			gv.Significance = c.CodedDisplay()
		}
	}
	return gv
}

func pharmacogenomicsRow(o *fhir.Observation, row *observation.Observation) *observation.Pharmacogenomics {
	pg := &observation.Pharmacogenomics{ObsID: row.ID, Subject: row.Subject, Effective: row.Effective}
	for _, c := range o.Components {
		switch c.Label() {
		case fhirmodels.ComponentGeneStudied:
			pg.Gene = c.CodedDisplay()
		case fhirmodels.ComponentPredictedPhenotype:
			pg.Phenotype = c.CodedDisplay()
		case fhirmodels.ComponentTherapeuticImplication:
			pg.Implication = c.PlainString()
		}
	}
	return pg
}

func sequenceRow(m *fhir.MolecularSequence) *molecularsequence.MolecularSequence {
	ref := m.ReferenceSeq
	return &molecularsequence.MolecularSequence{
		ID:          m.ID,
		Type:        m.Type,
		PatientRef:  m.Patient.Reference,
		Chromosome:  ref.Chromosome.FirstCoding().Display,
		GenomeBuild: ref.GenomeBuild,
		Orientation: ref.Orientation,
		WindowStart: ref.WindowStart.String(),
		WindowEnd:   ref.WindowEnd.String(),
	}
}
