package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-social-users/internal/application/dto"
	"github.com/oksasatya/go-social-users/internal/domain/entity"
	repo "github.com/oksasatya/go-social-users/internal/domain/repository"
	"github.com/oksasatya/go-social-users/pkg/helpers"
	"github.com/oksasatya/go-social-users/pkg/mailer"
	"github.com/oksasatya/go-social-users/pkg/validation"
)

// Verifier classifications.
const (
	EmailDeliverable   = "deliverable"
	EmailRisky         = "risky"
	EmailUndeliverable = "undeliverable"
	EmailUnknown       = "unknown"
)

// EmailPolicy decides which verifier classifications let a signup through.
type EmailPolicy struct {
	accepted map[string]struct{}
}

func NewEmailPolicy(results ...string) EmailPolicy {
	p := EmailPolicy{accepted: make(map[string]struct{}, len(results))}
	for _, r := range results {
		if r = strings.ToLower(strings.TrimSpace(r)); r != "" {
			p.accepted[r] = struct{}{}
		}
	}
	return p
}

// DefaultEmailPolicy accepts "risky" as well: large free mail providers are
// never fully confirmable by the verifier.
func DefaultEmailPolicy() EmailPolicy {
	return NewEmailPolicy(EmailDeliverable, EmailRisky)
}

func (p EmailPolicy) Allows(result string) bool {
	_, ok := p.accepted[strings.ToLower(strings.TrimSpace(result))]
	return ok
}

// WelcomeEmail configures the job enqueued after a successful signup.
type WelcomeEmail struct {
	Enabled     bool
	CompanyName string
	LoginURL    string
}

// Create validates the creation payload and persists a new user with a
// hashed password. Every rejected payload yields an error; a nil error
// always comes with a stored user.
func (s *Service) Create(ctx context.Context, in dto.CreateUserRequest) (*entity.User, error) {
	in.Email = NormalizeEmail(in.Email)
	if err := s.validateCreate(ctx, &in); err != nil {
		return nil, err
	}
	return s.persistNew(ctx, in)
}

// CreateWithVerifiedEmail runs the same checks as Create, then asks the
// email verifier. The verifier is called at most once and never retried.
func (s *Service) CreateWithVerifiedEmail(ctx context.Context, in dto.CreateUserRequest) (*entity.User, error) {
	in.Email = NormalizeEmail(in.Email)
	if err := s.validateCreate(ctx, &in); err != nil {
		return nil, err
	}
	if err := s.verifyEmail(ctx, in.Email); err != nil {
		return nil, err
	}
	return s.persistNew(ctx, in)
}

func (s *Service) validateCreate(ctx context.Context, in *dto.CreateUserRequest) error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	if err := checkPasswords(in.Password, in.ConfirmPassword); err != nil {
		return err
	}
	existing, err := s.Repo.GetByEmail(ctx, in.Email)
	switch {
	case err == nil && existing != nil:
		return validation.NewFieldError("email", MsgEmailTaken)
	case err != nil && !errors.Is(err, repo.ErrNotFound):
		return err
	}
	return nil
}

// checkPasswords fails closed: a missing side is a field error, not a pass.
func checkPasswords(password, confirm string) error {
	verr := &validation.Error{}
	if password == "" {
		verr.Add("password", "This field is required.")
	}
	if confirm == "" {
		verr.Add("confirm_password", "This field is required.")
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	if password != confirm {
		return validation.NewNonFieldError(MsgPasswordMismatch)
	}
	return nil
}

func (s *Service) verifyEmail(ctx context.Context, email string) error {
	if email == "" {
		return validation.NewFieldError("email", "This field is required.")
	}
	if s.Verifier == nil {
		return unavailable("email verification", errors.New("verifier not configured"))
	}
	res, err := s.Verifier.Verify(ctx, email)
	if err != nil {
		s.Logger.WithError(err).WithField("email", email).Warn("email verification failed")
		return unavailable("email verification", err)
	}
	if !s.EmailPolicy.Allows(res.Result) {
		s.Logger.WithFields(logrus.Fields{"email": email, "result": res.Result}).Info("email rejected by verifier")
		return validation.NewFieldError("email", MsgEmailNotReal)
	}
	return nil
}

func (s *Service) persistNew(ctx context.Context, in dto.CreateUserRequest) (*entity.User, error) {
	u := in.ToEntity()
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u.Password = hash

	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, validation.NewFieldError("email", MsgEmailTaken)
		}
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("user created")

	s.enqueueWelcome(ctx, u)
	_ = s.indexUser(ctx, u)
	return u, nil
}

func (s *Service) enqueueWelcome(ctx context.Context, u *entity.User) {
	if s.Jobs == nil || !s.Welcome.Enabled {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplateWelcome,
		Data: mailer.WelcomeData{
			Name:        u.FullName(),
			Email:       u.Email,
			CompanyName: s.Welcome.CompanyName,
			LoginURL:    s.Welcome.LoginURL,
		}.ToMap(),
	}
	if err := s.Jobs.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("failed to enqueue welcome email")
	}
}
