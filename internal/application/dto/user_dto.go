// Package dto holds the request and response shapes of the user API and the
// mappers between them and entity.User. No shape here carries a password on
// the way out.
package dto

import (
	"time"

	"github.com/oksasatya/go-social-users/internal/domain/entity"
	"github.com/oksasatya/go-social-users/pkg/validation"
)

// UserDetail is the full outbound representation. Email, IsSuperuser,
// IsStaff, DateJoined and LastLogin are read-only: UpdateUserRequest has no
// counterpart for them.
type UserDetail struct {
	ID              string     `json:"id"`
	UserURL         string     `json:"user_url,omitempty"`
	Email           string     `json:"email"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	DateOfBirth     *string    `json:"date_of_birth"`
	Avatar          string     `json:"avatar"`
	Bio             string     `json:"bio"`
	IsStaff         bool       `json:"is_staff"`
	IsSuperuser     bool       `json:"is_superuser"`
	DateJoined      time.Time  `json:"date_joined"`
	LastLogin       *time.Time `json:"last_login"`
	PostsCount      int        `json:"posts_count"`
	LikedPostsCount int        `json:"liked_posts_count"`
}

// ToUserDetail projects u. Counts are taken as loaded by the repository.
func ToUserDetail(u *entity.User, userURL string) UserDetail {
	return UserDetail{
		ID:              u.ID,
		UserURL:         userURL,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		DateOfBirth:     formatDate(u.DateOfBirth),
		Avatar:          u.AvatarURL,
		Bio:             u.Bio,
		IsStaff:         u.IsStaff,
		IsSuperuser:     u.IsSuperuser,
		DateJoined:      u.DateJoined,
		LastLogin:       u.LastLogin,
		PostsCount:      u.PostsCount,
		LikedPostsCount: u.LikedPostsCount,
	}
}

// UpdateUserRequest is the inbound half of the detail mapper. Nil fields are
// left untouched.
type UpdateUserRequest struct {
	FirstName   *string `json:"first_name" binding:"omitempty,max=150"`
	LastName    *string `json:"last_name" binding:"omitempty,max=150"`
	DateOfBirth *string `json:"date_of_birth" binding:"omitempty,isodate"`
	Avatar      *string `json:"avatar" binding:"omitempty,url"`
	Bio         *string `json:"bio"`
}

// Apply copies the present fields onto u. The request must be validated.
func (r UpdateUserRequest) Apply(u *entity.User) {
	if r.FirstName != nil {
		u.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		u.LastName = *r.LastName
	}
	if r.DateOfBirth != nil {
		u.DateOfBirth = parseDate(*r.DateOfBirth)
	}
	if r.Avatar != nil {
		u.AvatarURL = *r.Avatar
	}
	if r.Bio != nil {
		u.Bio = *r.Bio
	}
}

// CreateUserRequest is the inbound creation payload. Password and
// ConfirmPassword are write-only.
type CreateUserRequest struct {
	Email           string `json:"email" binding:"required,email,max=254"`
	FirstName       string `json:"first_name" binding:"max=150"`
	LastName        string `json:"last_name" binding:"max=150"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	DateOfBirth     string `json:"date_of_birth" binding:"omitempty,isodate"`
	Avatar          string `json:"avatar" binding:"omitempty,url"`
	Bio             string `json:"bio"`
}

// ToEntity builds the unsaved user from every field except ConfirmPassword.
// Password is still plaintext here.
func (r CreateUserRequest) ToEntity() *entity.User {
	return &entity.User{
		Email:       r.Email,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Password:    r.Password,
		DateOfBirth: parseDate(r.DateOfBirth),
		AvatarURL:   r.Avatar,
		Bio:         r.Bio,
	}
}

// CreatedUser is the outbound side of the creation mapper.
type CreatedUser struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	DateOfBirth *string `json:"date_of_birth"`
	Avatar      string  `json:"avatar"`
	Bio         string  `json:"bio"`
}

func ToCreatedUser(u *entity.User) CreatedUser {
	return CreatedUser{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		DateOfBirth: formatDate(u.DateOfBirth),
		Avatar:      u.AvatarURL,
		Bio:         u.Bio,
	}
}

// UserMini is the public-safe reference embedded in other payloads.
type UserMini struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar"`
}

func ToUserMini(u *entity.User) UserMini {
	return UserMini{ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName, Avatar: u.AvatarURL}
}

func ToUserMinis(users []*entity.User) []UserMini {
	out := make([]UserMini, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserMini(u))
	}
	return out
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(validation.DateLayout)
	return &s
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(validation.DateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}
