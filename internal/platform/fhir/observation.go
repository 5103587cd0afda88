package fhir

import (
	"bytes"
	"encoding/json"

	"github.com/healthnexus/nexus/pkg/fhirmodels"
)

// ObservationValue is the decoded value[x] of an Observation or component.
// Exactly one of CodedValue, QuantityValue, StringValue or NoValue.
type ObservationValue interface {
	// Text renders the value the way the observations table stores it.
	Text() string
	isObservationValue()
}

type CodedValue struct{ Concept CodeableConcept }

type QuantityValue struct{ Quantity Quantity }

type StringValue string

type NoValue struct{}

func (v CodedValue) Text() string    { return v.Concept.FirstCoding().Display }
func (v QuantityValue) Text() string { return v.Quantity.Value.String() }
func (v StringValue) Text() string   { return string(v) }
func (NoValue) Text() string         { return "" }

func (CodedValue) isObservationValue()    {}
func (QuantityValue) isObservationValue() {}
func (StringValue) isObservationValue()   {}
func (NoValue) isObservationValue()       {}

// valueElements are the value[x] choices the store understands.
type valueElements struct {
	ValueCodeableConcept *CodeableConcept `json:"valueCodeableConcept,omitempty"`
	ValueQuantity        *Quantity        `json:"valueQuantity,omitempty"`
	ValueString          *string          `json:"valueString,omitempty"`
}

// decode picks the first present choice: coded concept, then quantity,
// then string.
func (v valueElements) decode() ObservationValue {
	switch {
	case v.ValueCodeableConcept != nil:
		return CodedValue{Concept: *v.ValueCodeableConcept}
	case v.ValueQuantity != nil:
		return QuantityValue{Quantity: *v.ValueQuantity}
	case v.ValueString != nil:
		return StringValue(*v.ValueString)
	default:
		return NoValue{}
	}
}

// ObservationComponent is one entry of Observation.component.
type ObservationComponent struct {
	Code CodeableConcept `json:"code,omitempty"`
	valueElements
}

// Label is the display of the component's first code coding.
func (c ObservationComponent) Label() string { return c.Code.FirstCoding().Display }

// CodedDisplay returns the display of valueCodeableConcept, or "".
func (c ObservationComponent) CodedDisplay() string {
	if c.ValueCodeableConcept == nil {
		return ""
	}
	return c.ValueCodeableConcept.FirstCoding().Display
}

// PlainString returns valueString, or "".
func (c ObservationComponent) PlainString() string {
	if c.ValueString == nil {
		return ""
	}
	return *c.ValueString
}

// Observation is the projection of a FHIR Observation. Value is decoded once
// from the value[x] choices; ComponentJSON keeps the component array exactly
// as it appeared in the source, compacted.
type Observation struct {
	ID                string            `json:"id"`
	Status            string            `json:"status,omitempty"`
	Category          []CodeableConcept `json:"category,omitempty"`
	Code              CodeableConcept   `json:"code,omitempty"`
	Subject           Reference         `json:"subject,omitempty"`
	EffectiveDateTime string            `json:"effectiveDateTime,omitempty"`

	Value         ObservationValue       `json:"-"`
	Components    []ObservationComponent `json:"-"`
	ComponentJSON string                 `json:"-"`
}

func (*Observation) ResourceType() string { return fhirmodels.ResourceObservation }
func (*Observation) isResource()          {}

func (o *Observation) UnmarshalJSON(data []byte) error {
	type plain Observation
	var aux struct {
		*plain
		valueElements
		Component json.RawMessage `json:"component,omitempty"`
	}
	aux.plain = (*plain)(o)
	err := json.Unmarshal(data, &aux)
	if err != nil && !isTypeError(err) {
		return err
	}

	o.Value = aux.valueElements.decode()
	o.ComponentJSON = "[]"
	o.Components = nil

	raw := bytes.TrimSpace(aux.Component)
	if len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		var buf bytes.Buffer
		if cerr := json.Compact(&buf, raw); cerr == nil {
			o.ComponentJSON = buf.String()
		}
		// Non-array component values still round-trip into ComponentJSON.
		_ = json.Unmarshal(raw, &o.Components)
	}
	return nil
}

// CategoryCode is the code of the first coding of the first category.
func (o *Observation) CategoryCode() string {
	if len(o.Category) == 0 {
		return ""
	}
	return o.Category[0].FirstCoding().Code
}

// CodeDisplay is the display of the first coding of Observation.code.
func (o *Observation) CodeDisplay() string { return o.Code.FirstCoding().Display }
