package entity

import (
	"time"
)

// User is the aggregate root for user domain
// Passwords are stored as bcrypt hashes in Password field
//
// PostsCount and LikedPostsCount are derived from posts / post_likes when the
// record is loaded and are never written back.
type User struct {
	ID          string
	Email       string
	Password    string
	FirstName   string
	LastName    string
	DateOfBirth *time.Time
	AvatarURL   string
	Bio         string
	IsStaff     bool
	IsSuperuser bool
	DateJoined  time.Time
	LastLogin   *time.Time
	UpdatedAt   time.Time

	PostsCount      int
	LikedPostsCount int
}

// FullName joins first and last name.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
