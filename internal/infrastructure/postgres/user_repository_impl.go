package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-social-users/internal/domain/entity"
	"github.com/oksasatya/go-social-users/internal/domain/repository"
)

const (
	uniqueViolation           = "23505"
	invalidTextRepresentation = "22P02" // e.g. a malformed uuid
)

// selectUser reads a user together with its derived counts.
const selectUser = `
	SELECT u.id, u.email, u.password_hash, u.first_name, u.last_name, u.date_of_birth,
	       u.avatar_url, u.bio, u.is_staff, u.is_superuser, u.date_joined, u.last_login, u.updated_at,
	       (SELECT count(*) FROM posts p WHERE p.author_id = u.id),
	       (SELECT count(*) FROM post_likes l WHERE l.user_id = u.id)
	FROM users u
`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, first_name, last_name, date_of_birth, avatar_url, bio)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, date_joined, updated_at
	`, u.Email, u.Password, u.FirstName, u.LastName, u.DateOfBirth, u.AvatarURL, u.Bio)

	if err := row.Scan(&u.ID, &u.DateJoined, &u.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, selectUser+` WHERE u.id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, selectUser+` WHERE u.email = $1`, email)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	u := &entity.User{}
	var postsCount, likedCount int64

	row := r.pool.QueryRow(ctx, query, arg)
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.DateOfBirth,
		&u.AvatarURL, &u.Bio, &u.IsStaff, &u.IsSuperuser, &u.DateJoined, &u.LastLogin, &u.UpdatedAt,
		&postsCount, &likedCount); err != nil {
		var pgErr *pgconn.PgError
		if errors.Is(err, pgx.ErrNoRows) || (errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	u.PostsCount = int(postsCount)
	u.LikedPostsCount = int(likedCount)
	return u, nil
}

// Update writes the profile fields only. Email, flags and audit columns are
// not part of the statement.
func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET first_name = $1, last_name = $2, date_of_birth = $3, avatar_url = $4, bio = $5,
		    password_hash = $6, updated_at = $7
		WHERE id = $8
	`, u.FirstName, u.LastName, u.DateOfBirth, u.AvatarURL, u.Bio, u.Password, u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	res, err := r.pool.Exec(ctx, `UPDATE users SET last_login = $1 WHERE id = $2`, at, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
