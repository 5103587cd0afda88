package observation

import (
	"context"
	"errors"
	"fmt"

	"github.com/healthnexus/nexus/internal/platform/fhir"
	"github.com/healthnexus/nexus/pkg/fhirmodels"
)

var (
	ErrMissingIdentifier = errors.New("missing patient_id or subject")
	ErrNotFound          = errors.New("no observation found")
)

// NotFoundError names the subject that had no observations.
type NotFoundError struct {
	Subject string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("No observation found for subject %s", e.Subject)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// LookupRequest identifies a patient either directly by Subject
// ("Patient/{id}") or by PatientID. Subject wins when both are set.
type LookupRequest struct {
	PatientID string
	Subject   string
}

// Lookup is the newest observation for a subject, reduced to what the
// interpreter consumes.
type Lookup struct {
	Subject       string
	ObservationID string
	Component     string
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ResolveSubject returns the subject reference a request targets.
func (req LookupRequest) ResolveSubject() (string, error) {
	if req.Subject != "" {
		return req.Subject, nil
	}
	if req.PatientID == "" {
		return "", ErrMissingIdentifier
	}
	return fhir.FormatReference(fhirmodels.ResourcePatient, req.PatientID), nil
}

// LatestComponent fetches the component JSON of the most recent observation
// for the requested subject.
func (s *Service) LatestComponent(ctx context.Context, req LookupRequest) (*Lookup, error) {
	subject, err := req.ResolveSubject()
	if err != nil {
		return nil, err
	}
	o, err := s.repo.LatestBySubject(ctx, subject)
	if errors.Is(err, ErrNoRows) {
		return nil, &NotFoundError{Subject: subject}
	}
	if err != nil {
		return nil, fmt.Errorf("latest observation for %s: %w", subject, err)
	}
	return &Lookup{Subject: subject, ObservationID: o.ID, Component: o.Component}, nil
}
