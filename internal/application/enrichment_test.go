package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-social-users/internal/application/dto"
	"github.com/oksasatya/go-social-users/internal/domain/gateway"
	"github.com/oksasatya/go-social-users/pkg/validation"
)

func TestEnrichFoundMergesAttributes(t *testing.T) {
	e := &fakeEnricher{result: gateway.Found(map[string]string{
		gateway.AttrFirstName: "Ada",
		"company":             "ignored",
	})}
	svc := NewService(Deps{Repo: newMemRepo(), Enricher: e})

	out, err := svc.Enrich(context.Background(), dto.AdditionalDataRequest{Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", out.Email)
	assert.Equal(t, "Ada", out.FirstName)
	assert.Empty(t, out.LastName)
	assert.Equal(t, []string{"ada@example.com"}, e.emails)
}

func TestEnrichNotFoundIsValidationError(t *testing.T) {
	svc := NewService(Deps{Repo: newMemRepo(), Enricher: &fakeEnricher{result: gateway.NotFound()}})

	out, err := svc.Enrich(context.Background(), dto.AdditionalDataRequest{Email: "ghost@example.com"})
	assert.Nil(t, out)
	ve := asValidation(t, err)
	assert.Equal(t, []string{MsgEmailNotReal}, ve.On("email"))
}

func TestEnrichFailedIsServiceUnavailable(t *testing.T) {
	cause := errors.New("503 from provider")
	svc := NewService(Deps{Repo: newMemRepo(), Enricher: &fakeEnricher{result: gateway.Failed(cause)}})

	out, err := svc.Enrich(context.Background(), dto.AdditionalDataRequest{Email: "ada@example.com"})
	assert.Nil(t, out)
	var se *ServiceUnavailableError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "profile enrichment", se.Service)
	assert.ErrorIs(t, err, cause)

	var ve *validation.Error
	assert.False(t, errors.As(err, &ve))
}

func TestEnrichValidatesEmailBeforeLookup(t *testing.T) {
	e := &fakeEnricher{result: gateway.NotFound()}
	svc := NewService(Deps{Repo: newMemRepo(), Enricher: e})

	_, err := svc.Enrich(context.Background(), dto.AdditionalDataRequest{Email: "nope"})
	ve := asValidation(t, err)
	assert.NotEmpty(t, ve.On("email"))
	assert.Empty(t, e.emails)
}

func TestEnrichWithoutEnricher(t *testing.T) {
	_, err := NewService(Deps{Repo: newMemRepo()}).Enrich(context.Background(), dto.AdditionalDataRequest{Email: "ada@example.com"})
	assert.ErrorIs(t, err, gateway.ErrUnavailable)
}
