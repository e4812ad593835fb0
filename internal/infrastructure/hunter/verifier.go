// Package hunter implements gateway.EmailVerifier on top of the Hunter.io
// email-verifier endpoint.
package hunter

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

const DefaultBaseURL = "https://api.hunter.io/v2"

// Verifier calls GET {BaseURL}/email-verifier?email=...&api_key=...
type Verifier struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewVerifier(baseURL, apiKey string, timeout time.Duration) *Verifier {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Verifier{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: timeout},
	}
}

type verifyResponse struct {
	Data struct {
		Result string `json:"result"`
		Status string `json:"status"`
		Score  int    `json:"score"`
	} `json:"data"`
}

// Verify never retries. Every failure to obtain a classification wraps
// gateway.ErrUnavailable.
func (v *Verifier) Verify(ctx context.Context, email string) (gateway.EmailVerification, error) {
	q := url.Values{}
	q.Set("email", email)
	q.Set("api_key", v.APIKey)
	endpoint := v.BaseURL + "/email-verifier?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return gateway.EmailVerification{}, fmt.Errorf("%w: hunter: build request: %v", gateway.ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := v.client().Do(req)
	if err != nil {
		return gateway.EmailVerification{}, fmt.Errorf("%w: hunter: %v", gateway.ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return gateway.EmailVerification{}, fmt.Errorf("%w: hunter: unexpected status %d", gateway.ErrUnavailable, resp.StatusCode)
	}

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return gateway.EmailVerification{}, fmt.Errorf("%w: hunter: decode: %v", gateway.ErrUnavailable, err)
	}
	result := strings.ToLower(strings.TrimSpace(body.Data.Result))
	if result == "" {
		return gateway.EmailVerification{}, fmt.Errorf("%w: hunter: response without result", gateway.ErrUnavailable)
	}
	return gateway.EmailVerification{Result: result, Score: body.Data.Score}, nil
}

func (v *Verifier) client() *http.Client {
	if v.Client != nil {
		return v.Client
	}
	return &http.Client{Timeout: 10 * time.Second}
}

var _ gateway.EmailVerifier = (*Verifier)(nil)
