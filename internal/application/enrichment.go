package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/oksasatya/go-social-users/internal/application/dto"
	"github.com/oksasatya/go-social-users/internal/domain/gateway"
	"github.com/oksasatya/go-social-users/pkg/validation"
)

// Enrich validates the email, looks it up with the profile enricher and
// returns the payload with the provider's attributes merged in. Nothing is
// persisted.
func (s *Service) Enrich(ctx context.Context, in dto.AdditionalDataRequest) (*dto.AdditionalData, error) {
	in.Email = NormalizeEmail(in.Email)
	if err := validation.Struct(&in); err != nil {
		return nil, err
	}
	if s.Enricher == nil {
		return nil, unavailable("profile enrichment", errors.New("enricher not configured"))
	}

	res := s.Enricher.Enrich(ctx, in.Email)
	switch res.Status {
	case gateway.EnrichmentFound:
		out := &dto.AdditionalData{Email: in.Email}
		out.Merge(res.Attributes)
		return out, nil
	case gateway.EnrichmentNotFound:
		return nil, validation.NewFieldError("email", MsgEmailNotReal)
	case gateway.EnrichmentFailed:
		s.Logger.WithError(res.Err).WithField("email", in.Email).Warn("profile enrichment failed")
		return nil, unavailable("profile enrichment", res.Err)
	default:
		return nil, unavailable("profile enrichment", fmt.Errorf("unexpected outcome %s", res.Status))
	}
}
