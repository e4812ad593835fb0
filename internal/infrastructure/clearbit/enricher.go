// Package clearbit implements gateway.ProfileEnricher with the Clearbit
// combined person lookup.
package clearbit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oksasatya/go-social-users/internal/domain/gateway"
)

const DefaultBaseURL = "https://person-stream.clearbit.com/v2"

// Enricher calls GET {BaseURL}/combined/find?email=... authenticated with the
// API key as basic-auth user.
type Enricher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewEnricher(baseURL, apiKey string, timeout time.Duration) *Enricher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Enricher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: timeout},
	}
}

type person struct {
	Name struct {
		GivenName  string `json:"givenName"`
		FamilyName string `json:"familyName"`
	} `json:"name"`
	Gender   string `json:"gender"`
	Location string `json:"location"`
	Bio      string `json:"bio"`
	Site     string `json:"site"`
	Avatar   string `json:"avatar"`
}

type combinedResponse struct {
	Person *person `json:"person"`
}

// Enrich maps 404 and 202 (lookup queued, nothing yet) to NotFound. Any other
// non-200 status, transport error or undecodable body is Failed.
func (e *Enricher) Enrich(ctx context.Context, email string) gateway.EnrichmentResult {
	endpoint := e.BaseURL + "/combined/find?" + url.Values{"email": {email}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return gateway.Failed(fmt.Errorf("%w: clearbit: build request: %v", gateway.ErrUnavailable, err))
	}
	req.SetBasicAuth(e.APIKey, "")
	req.Header.Set("Accept", "application/json")

	resp, err := e.client().Do(req)
	if err != nil {
		return gateway.Failed(fmt.Errorf("%w: clearbit: %v", gateway.ErrUnavailable, err))
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusAccepted:
		_, _ = io.Copy(io.Discard, resp.Body)
		return gateway.NotFound()
	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		return gateway.Failed(fmt.Errorf("%w: clearbit: unexpected status %d", gateway.ErrUnavailable, resp.StatusCode))
	}

	var body combinedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return gateway.Failed(fmt.Errorf("%w: clearbit: decode: %v", gateway.ErrUnavailable, err))
	}
	if body.Person == nil {
		return gateway.NotFound()
	}
	return gateway.Found(body.Person.attributes())
}

// attributes drops blank values so they never override the payload.
func (p *person) attributes() map[string]string {
	out := make(map[string]string, 7)
	set := func(k, v string) {
		if v = strings.TrimSpace(v); v != "" {
			out[k] = v
		}
	}
	set(gateway.AttrFirstName, p.Name.GivenName)
	set(gateway.AttrLastName, p.Name.FamilyName)
	set(gateway.AttrGender, p.Gender)
	set(gateway.AttrLocation, p.Location)
	set(gateway.AttrBio, p.Bio)
	set(gateway.AttrSite, p.Site)
	set(gateway.AttrAvatar, p.Avatar)
	return out
}

func (e *Enricher) client() *http.Client {
	if e.Client != nil {
		return e.Client
	}
	return &http.Client{Timeout: 10 * time.Second}
}

var _ gateway.ProfileEnricher = (*Enricher)(nil)
