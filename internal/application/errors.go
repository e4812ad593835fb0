package application

import (
	"errors"
	"fmt"

	"github.com/oksasatya/go-social-users/internal/domain/gateway"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// Messages surfaced to clients.
const (
	MsgPasswordMismatch = "The passwords have to be the same"
	MsgEmailNotReal     = "The email has to be real"
	MsgEmailTaken       = "user with this email already exists"
)

// ServiceUnavailableError reports that an external collaborator could not
// give an answer. It is distinct from a validation rejection so callers can
// choose between retrying and giving up.
type ServiceUnavailableError struct {
	Service string
	Err     error
}

func (e *ServiceUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s unavailable", e.Service)
	}
	return fmt.Sprintf("%s unavailable: %v", e.Service, e.Err)
}

func (e *ServiceUnavailableError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, gateway.ErrUnavailable) match even when the cause is
// a configuration gap rather than a failed call.
func (e *ServiceUnavailableError) Is(target error) bool {
	return target == gateway.ErrUnavailable
}

func unavailable(service string, err error) error {
	return &ServiceUnavailableError{Service: service, Err: err}
}
