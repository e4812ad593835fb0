package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	to, subject, text, html string
	err                     error
}

func (r *recordingSender) Send(_ context.Context, to, subject, text, html string) error {
	r.to, r.subject, r.text, r.html = to, subject, text, html
	return r.err
}

func TestDispatchWelcome(t *testing.T) {
	s := &recordingSender{}
	job := EmailJob{
		To:       "ada@example.com",
		Template: TemplateWelcome,
		Data:     WelcomeData{Name: "Ada", CompanyName: "Orbit"}.ToMap(),
	}
	permanent, err := Dispatch(context.Background(), s, job)
	require.NoError(t, err)
	assert.False(t, permanent)
	assert.Equal(t, "ada@example.com", s.to)
	assert.Equal(t, "Welcome to Orbit", s.subject)
	assert.Contains(t, s.text, "Hi Ada,")
	assert.Contains(t, s.html, "ada@example.com")
}

func TestDispatchRaw(t *testing.T) {
	s := &recordingSender{}
	_, err := Dispatch(context.Background(), s, EmailJob{To: "a@b.com", Subject: "hi", Text: "body"})
	require.NoError(t, err)
	assert.Equal(t, "hi", s.subject)
}

func TestDispatchEmptyIsPermanent(t *testing.T) {
	permanent, err := Dispatch(context.Background(), &recordingSender{}, EmailJob{To: "a@b.com"})
	assert.True(t, permanent)
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestDispatchSendErrorIsRetryable(t *testing.T) {
	s := &recordingSender{err: errors.New("mailgun down")}
	permanent, err := Dispatch(context.Background(), s, EmailJob{To: "a@b.com", Subject: "hi", Text: "body"})
	assert.Error(t, err)
	assert.False(t, permanent)
}
