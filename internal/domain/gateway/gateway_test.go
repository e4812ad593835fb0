package gateway

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoundWithEmptyAttributesIsNotFound(t *testing.T) {
	assert.Equal(t, EnrichmentNotFound, Found(nil).Status)
	assert.Equal(t, EnrichmentNotFound, Found(map[string]string{}).Status)
}

func TestFoundKeepsAttributes(t *testing.T) {
	res := Found(map[string]string{AttrFirstName: "Ada"})
	assert.Equal(t, EnrichmentFound, res.Status)
	assert.Equal(t, "Ada", res.Attributes[AttrFirstName])
	assert.NoError(t, res.Err)
}

func TestFailedCarriesCause(t *testing.T) {
	cause := errors.New("boom")
	res := Failed(cause)
	assert.Equal(t, EnrichmentFailed, res.Status)
	assert.ErrorIs(t, res.Err, cause)
	assert.Equal(t, "failed", res.Status.String())
}
