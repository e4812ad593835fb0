package application

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-social-users/internal/domain/entity"
	"github.com/oksasatya/go-social-users/internal/domain/gateway"
	repo "github.com/oksasatya/go-social-users/internal/domain/repository"
)

// memRepo is an in-memory UserRepository. Posts and likes are tracked so the
// derived counts can be checked against real relations.
type memRepo struct {
	mu     sync.Mutex
	users  map[string]*entity.User
	posts  map[string][]string // author id -> post ids
	likes  map[string][]string // user id -> liked post ids

	lookups  int
	emailErr error
}

func newMemRepo() *memRepo {
	return &memRepo{
		users: map[string]*entity.User{},
		posts: map[string][]string{},
		likes: map[string][]string{},
	}
}

func (r *memRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repo.ErrDuplicateEmail
		}
	}
	u.ID = uuid.NewString()
	u.DateJoined = time.Now().UTC()
	u.UpdatedAt = u.DateJoined
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memRepo) load(u *entity.User) *entity.User {
	cp := *u
	cp.PostsCount = len(r.posts[u.ID])
	cp.LikedPostsCount = len(r.likes[u.ID])
	return &cp
}

func (r *memRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups++
	u, ok := r.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return r.load(u), nil
}

func (r *memRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emailErr != nil {
		return nil, r.emailErr
	}
	for _, u := range r.users {
		if u.Email == email {
			return r.load(u), nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *memRepo) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[u.ID]
	if !ok {
		return repo.ErrNotFound
	}
	stored.FirstName = u.FirstName
	stored.LastName = u.LastName
	stored.DateOfBirth = u.DateOfBirth
	stored.AvatarURL = u.AvatarURL
	stored.Bio = u.Bio
	stored.Password = u.Password
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.LastLogin = &at
	return nil
}

func (r *memRepo) addPost(authorID, postID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[authorID] = append(r.posts[authorID], postID)
}

func (r *memRepo) like(userID, postID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.likes[userID] = append(r.likes[userID], postID)
}

func (r *memRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

type fakeVerifier struct {
	result string
	err    error
	calls  int
}

func (f *fakeVerifier) Verify(_ context.Context, _ string) (gateway.EmailVerification, error) {
	f.calls++
	if f.err != nil {
		return gateway.EmailVerification{}, f.err
	}
	return gateway.EmailVerification{Result: f.result}, nil
}

type fakeEnricher struct {
	result gateway.EnrichmentResult
	emails []string
}

func (f *fakeEnricher) Enrich(_ context.Context, email string) gateway.EnrichmentResult {
	f.emails = append(f.emails, email)
	return f.result
}

type capturePublisher struct {
	jobs []any
	err  error
}

func (p *capturePublisher) PublishJSON(_ context.Context, body any) error {
	p.jobs = append(p.jobs, body)
	return p.err
}
