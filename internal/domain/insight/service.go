package insight

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/healthnexus/nexus/internal/domain/observation"
	"github.com/healthnexus/nexus/internal/platform/inference"
)

// Service answers insight requests from the record store and the genome
// interpreter.
type Service struct {
	observations *observation.Service
	genome       inference.Interpreter
	logger       zerolog.Logger
}

func NewService(observations *observation.Service, genome inference.Interpreter, logger zerolog.Logger) *Service {
	return &Service{observations: observations, genome: genome, logger: logger}
}

// GenomeInsight interprets the component payload of the newest observation
// for the requested patient. Lookup errors are returned as is; interpreter
// failures are wrapped so they still match the inference sentinels.
func (s *Service) GenomeInsight(ctx context.Context, req GenomeInsightRequest) (*GenomeInsightResponse, error) {
	found, err := s.observations.LatestComponent(ctx, observation.LookupRequest{
		PatientID: req.PatientID,
		Subject:   req.Subject,
	})
	if err != nil {
		return nil, err
	}

	text, err := s.genome.Interpret(ctx, found.Component)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("subject", found.Subject).
			Str("observation_id", found.ObservationID).
			Str("outcome", inference.Outcome(err)).
			Msg("genome interpretation failed")
		return nil, fmt.Errorf("genome agent unavailable: %w", err)
	}

	s.logger.Debug().
		Str("subject", found.Subject).
		Str("observation_id", found.ObservationID).
		Msg("genome insight produced")
	return &GenomeInsightResponse{Insight: text, Input: found.Component}, nil
}

// RadiologyInsight is a placeholder until a radiology interpreter exists.
func (s *Service) RadiologyInsight(_ context.Context, req RadiologyInsightRequest) *RadiologyInsightResponse {
	return &RadiologyInsightResponse{Insight: radiologyInsight, Input: req}
}
