package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-social-users/internal/application/dto"
	"github.com/oksasatya/go-social-users/internal/domain/gateway"
	"github.com/oksasatya/go-social-users/pkg/helpers"
	"github.com/oksasatya/go-social-users/pkg/mailer"
	"github.com/oksasatya/go-social-users/pkg/validation"
)

func validCreate() dto.CreateUserRequest {
	return dto.CreateUserRequest{
		Email:           "a@b.com",
		FirstName:       "A",
		LastName:        "B",
		Password:        "x",
		ConfirmPassword: "x",
	}
}

func asValidation(t *testing.T, err error) *validation.Error {
	t.Helper()
	var ve *validation.Error
	require.True(t, errors.As(err, &ve), "expected validation error, got %v", err)
	return ve
}

func TestCreateHashesPassword(t *testing.T) {
	r := newMemRepo()
	svc := NewService(Deps{Repo: r})

	u, err := svc.Create(context.Background(), validCreate())
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.NotEmpty(t, u.ID)
	assert.NotEqual(t, "x", u.Password)
	assert.True(t, helpers.CompareHashAndPassword(u.Password, "x"))

	stored, err := r.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "x", stored.Password)
	assert.Equal(t, "a@b.com", stored.Email)
	assert.False(t, stored.DateJoined.IsZero())
}

func TestCreatePasswordMismatch(t *testing.T) {
	r := newMemRepo()
	svc := NewService(Deps{Repo: r})

	in := validCreate()
	in.ConfirmPassword = "y"
	u, err := svc.Create(context.Background(), in)
	assert.Nil(t, u)
	ve := asValidation(t, err)
	assert.Equal(t, []string{MsgPasswordMismatch}, ve.On(validation.NonFieldErrors))
	assert.Zero(t, r.count())
}

func TestCreateMissingPasswordFailsClosed(t *testing.T) {
	for name, mutate := range map[string]func(*dto.CreateUserRequest){
		"no password":     func(in *dto.CreateUserRequest) { in.Password = "" },
		"no confirmation": func(in *dto.CreateUserRequest) { in.ConfirmPassword = "" },
		"neither":         func(in *dto.CreateUserRequest) { in.Password, in.ConfirmPassword = "", "" },
	} {
		t.Run(name, func(t *testing.T) {
			r := newMemRepo()
			in := validCreate()
			mutate(&in)

			u, err := NewService(Deps{Repo: r}).Create(context.Background(), in)
			assert.Nil(t, u)
			ve := asValidation(t, err)
			assert.NotEmpty(t, ve.Fields)
			assert.Zero(t, r.count())
		})
	}
}

func TestCheckPasswords(t *testing.T) {
	assert.NoError(t, checkPasswords("x", "x"))

	ve := asValidation(t, checkPasswords("", "x"))
	assert.Equal(t, []string{"This field is required."}, ve.On("password"))

	ve = asValidation(t, checkPasswords("x", ""))
	assert.Equal(t, []string{"This field is required."}, ve.On("confirm_password"))

	ve = asValidation(t, checkPasswords("x", "y"))
	assert.Equal(t, []string{MsgPasswordMismatch}, ve.On(validation.NonFieldErrors))
}

func TestCreateFieldValidation(t *testing.T) {
	r := newMemRepo()
	in := validCreate()
	in.Email = "not-an-email"
	in.DateOfBirth = "31-12-1990"
	in.Avatar = "nope"

	_, err := NewService(Deps{Repo: r}).Create(context.Background(), in)
	ve := asValidation(t, err)
	assert.NotEmpty(t, ve.On("email"))
	assert.NotEmpty(t, ve.On("date_of_birth"))
	assert.NotEmpty(t, ve.On("avatar"))
	assert.Zero(t, r.count())
}

func TestCreateOptionalFields(t *testing.T) {
	in := validCreate()
	in.DateOfBirth = "1990-12-31"
	in.Avatar = "https://img.example/a.png"
	in.Bio = ""

	u, err := NewService(Deps{Repo: newMemRepo()}).Create(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, u.DateOfBirth)
	assert.Equal(t, "1990-12-31", u.DateOfBirth.Format(validation.DateLayout))
	assert.Equal(t, "https://img.example/a.png", u.AvatarURL)
}

func TestCreateDuplicateEmail(t *testing.T) {
	r := newMemRepo()
	svc := NewService(Deps{Repo: r})
	_, err := svc.Create(context.Background(), validCreate())
	require.NoError(t, err)

	in := validCreate()
	in.Email = "a@B.COM"
	_, err = svc.Create(context.Background(), in)
	ve := asValidation(t, err)
	assert.Equal(t, []string{MsgEmailTaken}, ve.On("email"))
	assert.Equal(t, 1, r.count())
}

func TestCreateEnqueuesWelcomeEmail(t *testing.T) {
	pub := &capturePublisher{err: errors.New("broker down")}
	svc := NewService(Deps{
		Repo:    newMemRepo(),
		Jobs:    pub,
		Welcome: WelcomeEmail{Enabled: true, CompanyName: "Orbit", LoginURL: "https://orbit/login"},
	})

	_, err := svc.Create(context.Background(), validCreate())
	require.NoError(t, err, "a failed enqueue must not fail signup")
	require.Len(t, pub.jobs, 1)

	job, ok := pub.jobs[0].(mailer.EmailJob)
	require.True(t, ok)
	assert.Equal(t, "a@b.com", job.To)
	assert.Equal(t, mailer.TemplateWelcome, job.Template)
	assert.Equal(t, "A B", job.Data["Name"])
	assert.NotContains(t, job.Data, "Password")
}

func TestCreateWithVerifiedEmailAcceptsPolicyResults(t *testing.T) {
	for _, result := range []string{"deliverable", "risky", "Risky"} {
		t.Run(result, func(t *testing.T) {
			r := newMemRepo()
			v := &fakeVerifier{result: result}
			u, err := NewService(Deps{Repo: r, Verifier: v}).CreateWithVerifiedEmail(context.Background(), validCreate())
			require.NoError(t, err)
			assert.NotEmpty(t, u.ID)
			assert.Equal(t, 1, v.calls)
			assert.Equal(t, 1, r.count())
		})
	}
}

func TestCreateWithVerifiedEmailRejects(t *testing.T) {
	for _, result := range []string{"undeliverable", "unknown", ""} {
		t.Run(result, func(t *testing.T) {
			r := newMemRepo()
			svc := NewService(Deps{Repo: r, Verifier: &fakeVerifier{result: result}})
			u, err := svc.CreateWithVerifiedEmail(context.Background(), validCreate())
			assert.Nil(t, u)
			ve := asValidation(t, err)
			assert.Equal(t, []string{MsgEmailNotReal}, ve.On("email"))
			assert.Zero(t, r.count())
		})
	}
}

func TestCreateWithVerifiedEmailConfigurablePolicy(t *testing.T) {
	r := newMemRepo()
	svc := NewService(Deps{Repo: r, Verifier: &fakeVerifier{result: "risky"}, EmailPolicy: NewEmailPolicy("deliverable")})
	_, err := svc.CreateWithVerifiedEmail(context.Background(), validCreate())
	asValidation(t, err)
	assert.Zero(t, r.count())
}

func TestCreateWithVerifiedEmailServiceFailure(t *testing.T) {
	r := newMemRepo()
	v := &fakeVerifier{err: errors.New("dial tcp: timeout")}
	_, err := NewService(Deps{Repo: r, Verifier: v}).CreateWithVerifiedEmail(context.Background(), validCreate())
	require.Error(t, err)

	var ve *validation.Error
	assert.False(t, errors.As(err, &ve), "service failure must not look like a rejection")
	var se *ServiceUnavailableError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "email verification", se.Service)
	assert.ErrorIs(t, err, gateway.ErrUnavailable)
	assert.Equal(t, 1, v.calls, "no retry")
	assert.Zero(t, r.count())
}

func TestCreateWithVerifiedEmailWithoutVerifier(t *testing.T) {
	_, err := NewService(Deps{Repo: newMemRepo()}).CreateWithVerifiedEmail(context.Background(), validCreate())
	assert.ErrorIs(t, err, gateway.ErrUnavailable)
}

func TestCreateWithVerifiedEmailChecksPasswordsFirst(t *testing.T) {
	v := &fakeVerifier{result: "deliverable"}
	in := validCreate()
	in.ConfirmPassword = "y"
	_, err := NewService(Deps{Repo: newMemRepo(), Verifier: v}).CreateWithVerifiedEmail(context.Background(), in)
	asValidation(t, err)
	assert.Zero(t, v.calls)
}

func TestEmailPolicy(t *testing.T) {
	p := DefaultEmailPolicy()
	assert.True(t, p.Allows("deliverable"))
	assert.True(t, p.Allows(" RISKY "))
	assert.False(t, p.Allows("undeliverable"))
	assert.False(t, p.Allows(""))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "Ada@example.com", NormalizeEmail("  Ada@EXAMPLE.com "))
	assert.Equal(t, "no-at", NormalizeEmail("no-at"))
}
