package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/oksasatya/go-social-users/pkg/mailer/templates"
)

// ErrEmptyMessage means the job had neither a template nor a subject with a body.
var ErrEmptyMessage = errors.New("email job has no content")

// Dispatch renders job (when it names a template) and hands it to s.
// Render and content errors are permanent; Send errors may be retried.
func Dispatch(ctx context.Context, s Sender, job EmailJob) (permanent bool, err error) {
	EnsureRecipient(&job)

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		subject, text, html, err = templates.Render(job.Template, job.Data)
		if err != nil {
			return true, fmt.Errorf("render %s: %w", job.Template, err)
		}
	}
	if subject == "" || (text == "" && html == "") {
		return true, ErrEmptyMessage
	}
	if err := s.Send(ctx, job.To, subject, text, html); err != nil {
		return false, err
	}
	return false, nil
}
