package fhir

import (
	"errors"
	"strings"
	"testing"
)

func TestDecodeBundle_NotJSON(t *testing.T) {
	_, err := DecodeBundle(strings.NewReader("not json"))
	if !errors.Is(err, ErrMalformedBundle) {
		t.Fatalf("expected ErrMalformedBundle, got %v", err)
	}
}

func TestDecodeBundle_MissingEntry(t *testing.T) {
	_, err := DecodeBundle(strings.NewReader(`{"resourceType":"Bundle","type":"collection"}`))
	if !errors.Is(err, ErrMalformedBundle) {
		t.Fatalf("expected ErrMalformedBundle, got %v", err)
	}
}

func TestDecodeBundle_NullEntry(t *testing.T) {
	_, err := DecodeBundle(strings.NewReader(`{"entry":null}`))
	if !errors.Is(err, ErrMalformedBundle) {
		t.Fatalf("expected ErrMalformedBundle, got %v", err)
	}
}

func TestDecodeBundle_EntryNotArray(t *testing.T) {
	_, err := DecodeBundle(strings.NewReader(`{"entry":{"resource":{}}}`))
	if !errors.Is(err, ErrMalformedBundle) {
		t.Fatalf("expected ErrMalformedBundle, got %v", err)
	}
}

func TestDecodeBundle_EmptyEntry(t *testing.T) {
	b, err := DecodeBundle(strings.NewReader(`{"resourceType":"Bundle","entry":[]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.Entry) != 0 {
		t.Errorf("expected 0 entries, got %d", len(b.Entry))
	}
}

func TestBundle_Resources_Dispatch(t *testing.T) {
	doc := `{"resourceType":"Bundle","entry":[
		{"resource":{"resourceType":"Patient","id":"p1"}},
		{"resource":{"resourceType":"Observation","id":"o1"}},
		{"resource":{"resourceType":"MolecularSequence","id":"m1"}},
		{"resource":{"resourceType":"DiagnosticReport","id":"d1"}},
		{"fullUrl":"urn:uuid:empty"}
	]}`
	b, err := DecodeBundle(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res := b.Resources()
	if len(res) != 5 {
		t.Fatalf("expected 5 resources, got %d", len(res))
	}
	if _, ok := res[0].(*Patient); !ok {
		t.Errorf("entry 0: expected *Patient, got %T", res[0])
	}
	if _, ok := res[1].(*Observation); !ok {
		t.Errorf("entry 1: expected *Observation, got %T", res[1])
	}
	if _, ok := res[2].(*MolecularSequence); !ok {
		t.Errorf("entry 2: expected *MolecularSequence, got %T", res[2])
	}
	u, ok := res[3].(*Unhandled)
	if !ok {
		t.Fatalf("entry 3: expected *Unhandled, got %T", res[3])
	}
	if u.ResourceType() != "DiagnosticReport" || u.ID != "d1" {
		t.Errorf("unexpected unhandled: %+v", u)
	}
	if _, ok := res[4].(*Unhandled); !ok {
		t.Errorf("entry 4: expected *Unhandled, got %T", res[4])
	}
}

func TestDecodeResource_NonObject(t *testing.T) {
	r := DecodeResource([]byte(`"Patient"`))
	if _, ok := r.(*Unhandled); !ok {
		t.Errorf("expected *Unhandled, got %T", r)
	}
}

func TestDecodeResource_PatientDefaults(t *testing.T) {
	r := DecodeResource([]byte(`{"resourceType":"Patient","id":"p1"}`))
	p, ok := r.(*Patient)
	if !ok {
		t.Fatalf("expected *Patient, got %T", r)
	}
	if p.FirstIdentifier().Value != "" || p.FirstName().Family != "" || p.FirstAddress().City != "" {
		t.Errorf("expected empty defaults, got %+v", p)
	}
}

func TestDecodeResource_PatientMistypedField(t *testing.T) {
	r := DecodeResource([]byte(`{"resourceType":"Patient","id":"p1","name":"Jane Doe","gender":"female"}`))
	p, ok := r.(*Patient)
	if !ok {
		t.Fatalf("expected *Patient, got %T", r)
	}
	if p.ID != "p1" || p.Gender != "female" {
		t.Errorf("expected id and gender to survive, got %+v", p)
	}
	if p.FirstName().GivenNames() != "" {
		t.Errorf("expected empty given names, got %q", p.FirstName().GivenNames())
	}
}

func TestHumanName_GivenNames(t *testing.T) {
	n := HumanName{Given: []string{"Mary", "Ann"}}
	if got := n.GivenNames(); got != "Mary Ann" {
		t.Errorf("GivenNames() = %q, want %q", got, "Mary Ann")
	}
}

func TestScalar(t *testing.T) {
	r := DecodeResource([]byte(`{"resourceType":"MolecularSequence","id":"m1",
		"referenceSeq":{"windowStart":41196311,"windowEnd":"41277500"}}`))
	m := r.(*MolecularSequence)
	if m.ReferenceSeq.WindowStart.String() != "41196311" {
		t.Errorf("windowStart = %q", m.ReferenceSeq.WindowStart)
	}
	if m.ReferenceSeq.WindowEnd.String() != "41277500" {
		t.Errorf("windowEnd = %q", m.ReferenceSeq.WindowEnd)
	}

	r = DecodeResource([]byte(`{"resourceType":"MolecularSequence","id":"m2","referenceSeq":{"windowStart":{"x":1}}}`))
	if got := r.(*MolecularSequence).ReferenceSeq.WindowStart; got != "" {
		t.Errorf("expected empty scalar for object, got %q", got)
	}
}

func TestParseReference(t *testing.T) {
	typ, id, ok := ParseReference("Patient/patient-001")
	if !ok || typ != "Patient" || id != "patient-001" {
		t.Errorf("unexpected parse: %q %q %v", typ, id, ok)
	}
	if _, _, ok := ParseReference("patient-001"); ok {
		t.Error("expected bare id to be rejected")
	}
	if got := FormatReference("Patient", "patient-001"); got != "Patient/patient-001" {
		t.Errorf("FormatReference = %q", got)
	}
}
