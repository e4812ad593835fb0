// Package gateway declares the outbound ports the user domain depends on.
// Implementations live under internal/infrastructure; tests substitute fakes.
package gateway

import (
	"context"
	"errors"
)

// ErrUnavailable marks failures of the external service itself
// (timeout, transport error, non-2xx, malformed body), as opposed to a
// business answer such as "undeliverable" or "no data".
var ErrUnavailable = errors.New("external service unavailable")

// EmailVerification is the answer of an email deliverability check.
// Only Result is consumed by the domain.
type EmailVerification struct {
	Result string
	Score  int
}

// EmailVerifier checks whether an address can receive mail.
type EmailVerifier interface {
	Verify(ctx context.Context, email string) (EmailVerification, error)
}

// EnrichmentStatus tags the outcome of a profile lookup.
type EnrichmentStatus int

const (
	EnrichmentFound EnrichmentStatus = iota + 1
	EnrichmentNotFound
	EnrichmentFailed
)

func (s EnrichmentStatus) String() string {
	switch s {
	case EnrichmentFound:
		return "found"
	case EnrichmentNotFound:
		return "not_found"
	case EnrichmentFailed:
		return "failed"
	}
	return "unknown"
}

// Profile attribute keys understood by the enrichment mapper.
const (
	AttrFirstName = "first_name"
	AttrLastName  = "last_name"
	AttrGender    = "gender"
	AttrLocation  = "location"
	AttrBio       = "bio"
	AttrSite      = "site"
	AttrAvatar    = "avatar"
)

// EnrichmentResult is a tagged outcome: Attributes is set for Found,
// Err is set for Failed.
type EnrichmentResult struct {
	Status     EnrichmentStatus
	Attributes map[string]string
	Err        error
}

func Found(attrs map[string]string) EnrichmentResult {
	if len(attrs) == 0 {
		return NotFound()
	}
	return EnrichmentResult{Status: EnrichmentFound, Attributes: attrs}
}

func NotFound() EnrichmentResult {
	return EnrichmentResult{Status: EnrichmentNotFound}
}

func Failed(err error) EnrichmentResult {
	return EnrichmentResult{Status: EnrichmentFailed, Err: err}
}

// ProfileEnricher looks up person attributes by email.
type ProfileEnricher interface {
	Enrich(ctx context.Context, email string) EnrichmentResult
}
