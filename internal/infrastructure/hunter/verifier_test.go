package hunter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-social-users/internal/domain/gateway"
)

func TestVerifyReturnsResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/email-verifier", r.URL.Path)
		assert.Equal(t, "a@b.com", r.URL.Query().Get("email"))
		assert.Equal(t, "key", r.URL.Query().Get("api_key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"result":"Risky","score":60}}`))
	}))
	defer srv.Close()

	v := NewVerifier(srv.URL+"/", "key", time.Second)
	res, err := v.Verify(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "risky", res.Result)
	assert.Equal(t, 60, res.Score)
}

func TestVerifyNon2xxIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewVerifier(srv.URL, "key", time.Second).Verify(context.Background(), "a@b.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, gateway.ErrUnavailable)
}

func TestVerifyMalformedBodyIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":`))
	}))
	defer srv.Close()

	_, err := NewVerifier(srv.URL, "key", time.Second).Verify(context.Background(), "a@b.com")
	assert.ErrorIs(t, err, gateway.ErrUnavailable)
}

func TestVerifyMissingResultIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"score":10}}`))
	}))
	defer srv.Close()

	_, err := NewVerifier(srv.URL, "key", time.Second).Verify(context.Background(), "a@b.com")
	assert.ErrorIs(t, err, gateway.ErrUnavailable)
}

func TestVerifyTimeoutIsUnavailable(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewVerifier(srv.URL, "key", 50*time.Millisecond).Verify(context.Background(), "a@b.com")
	assert.ErrorIs(t, err, gateway.ErrUnavailable)
}
