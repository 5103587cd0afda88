package fhir

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/healthnexus/nexus/pkg/fhirmodels"
)

// Coding is a FHIR Coding datatype.
type Coding struct {
	System  string `json:"system,omitempty"`
	Code    string `json:"code,omitempty"`
	Display string `json:"display,omitempty"`
}

// CodeableConcept is a FHIR CodeableConcept datatype.
type CodeableConcept struct {
	Coding []Coding `json:"coding,omitempty"`
	Text   string   `json:"text,omitempty"`
}

// FirstCoding returns the first coding, or the zero Coding when there is none.
func (c CodeableConcept) FirstCoding() Coding {
	if len(c.Coding) == 0 {
		return Coding{}
	}
	return c.Coding[0]
}

type Reference struct {
	Reference string `json:"reference,omitempty"`
	Type      string `json:"type,omitempty"`
	Display   string `json:"display,omitempty"`
}

type Identifier struct {
	Use    string `json:"use,omitempty"`
	System string `json:"system,omitempty"`
	Value  string `json:"value,omitempty"`
}

type HumanName struct {
	Use    string   `json:"use,omitempty"`
	Family string   `json:"family,omitempty"`
	Given  []string `json:"given,omitempty"`
}

// GivenNames joins the given names with a single space.
func (n HumanName) GivenNames() string {
	return strings.Join(n.Given, " ")
}

type Address struct {
	Use        string   `json:"use,omitempty"`
	Line       []string `json:"line,omitempty"`
	City       string   `json:"city,omitempty"`
	State      string   `json:"state,omitempty"`
	PostalCode string   `json:"postalCode,omitempty"`
	Country    string   `json:"country,omitempty"`
}

// Quantity keeps the numeric value as it appeared in the source document.
type Quantity struct {
	Value  json.Number `json:"value,omitempty"`
	Unit   string      `json:"unit,omitempty"`
	System string      `json:"system,omitempty"`
	Code   string      `json:"code,omitempty"`
}

// Scalar holds a JSON string or number verbatim. Any other JSON shape
// decodes to the empty scalar.
type Scalar string

func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*s = ""
		return nil
	}
	switch data[0] {
	case '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Scalar(str)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		*s = Scalar(data)
	default:
		*s = ""
	}
	return nil
}

func (s Scalar) String() string { return string(s) }

// Resource is the closed set of bundle resources the importer understands.
// Every implementation lives in this package; callers switch over the
// concrete types and must carry an arm for *Unhandled.
type Resource interface {
	ResourceType() string
	isResource()
}

// Patient is the projection of a FHIR Patient used by the record store.
type Patient struct {
	ID         string       `json:"id"`
	Identifier []Identifier `json:"identifier,omitempty"`
	Name       []HumanName  `json:"name,omitempty"`
	Gender     string       `json:"gender,omitempty"`
	BirthDate  string       `json:"birthDate,omitempty"`
	Address    []Address    `json:"address,omitempty"`
}

func (*Patient) ResourceType() string { return fhirmodels.ResourcePatient }
func (*Patient) isResource()          {}

func (p *Patient) FirstIdentifier() Identifier {
	if len(p.Identifier) == 0 {
		return Identifier{}
	}
	return p.Identifier[0]
}

func (p *Patient) FirstName() HumanName {
	if len(p.Name) == 0 {
		return HumanName{}
	}
	return p.Name[0]
}

func (p *Patient) FirstAddress() Address {
	if len(p.Address) == 0 {
		return Address{}
	}
	return p.Address[0]
}

// MolecularSequence is the projection of a FHIR MolecularSequence.
type MolecularSequence struct {
	ID           string       `json:"id"`
	Type         string       `json:"type,omitempty"`
	Patient      Reference    `json:"patient,omitempty"`
	ReferenceSeq ReferenceSeq `json:"referenceSeq,omitempty"`
}

type ReferenceSeq struct {
	Chromosome  CodeableConcept `json:"chromosome,omitempty"`
	GenomeBuild string          `json:"genomeBuild,omitempty"`
	Orientation string          `json:"orientation,omitempty"`
	WindowStart Scalar          `json:"windowStart,omitempty"`
	WindowEnd   Scalar          `json:"windowEnd,omitempty"`
}

func (*MolecularSequence) ResourceType() string { return fhirmodels.ResourceMolecularSequence }
func (*MolecularSequence) isResource()          {}

// Unhandled is any resource kind the importer does not project.
type Unhandled struct {
	Type string
	ID   string
}

func (u *Unhandled) ResourceType() string { return u.Type }
func (*Unhandled) isResource()            {}

// DecodeResource classifies a bundle entry resource by its resourceType and
// decodes the matching projection. Fields whose JSON shape does not match
// the projection are left at their zero value.
func DecodeResource(raw json.RawMessage) Resource {
	var head struct {
		ResourceType string `json:"resourceType"`
		ID           string `json:"id"`
	}
	if err := json.Unmarshal(raw, &head); err != nil && !isTypeError(err) {
		return &Unhandled{}
	}

	switch head.ResourceType {
	case fhirmodels.ResourcePatient:
		var p Patient
		if err := json.Unmarshal(raw, &p); err != nil && !isTypeError(err) {
			return &Unhandled{Type: head.ResourceType, ID: head.ID}
		}
		return &p
	case fhirmodels.ResourceObservation:
		var o Observation
		if err := json.Unmarshal(raw, &o); err != nil && !isTypeError(err) {
			return &Unhandled{Type: head.ResourceType, ID: head.ID}
		}
		return &o
	case fhirmodels.ResourceMolecularSequence:
		var m MolecularSequence
		if err := json.Unmarshal(raw, &m); err != nil && !isTypeError(err) {
			return &Unhandled{Type: head.ResourceType, ID: head.ID}
		}
		return &m
	default:
		return &Unhandled{Type: head.ResourceType, ID: head.ID}
	}
}

// isTypeError reports whether err only describes JSON values of the wrong
// shape; encoding/json still fills every other field in that case.
func isTypeError(err error) bool {
	var te *json.UnmarshalTypeError
	return errors.As(err, &te)
}
