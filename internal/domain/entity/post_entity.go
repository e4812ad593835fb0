package entity

import "time"

// Post is authored by one user and liked by many (post_likes).
// Only what the user read model needs to count lives here.
type Post struct {
	ID        string
	AuthorID  string
	Body      string
	CreatedAt time.Time
}
