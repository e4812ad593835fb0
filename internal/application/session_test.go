package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-social-users/internal/application/dto"
	"github.com/oksasatya/go-social-users/pkg/helpers"
)

func newSessionService(t *testing.T) (*Service, *memRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := newMemRepo()
	svc := NewService(Deps{
		Repo:  r,
		Redis: rdb,
		JWT:   helpers.NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour),
	})
	_, err := svc.Create(context.Background(), dto.CreateUserRequest{
		Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace",
		Password: "s3cret", ConfirmPassword: "s3cret",
	})
	require.NoError(t, err)
	return svc, r, mr
}

func TestLoginStoresSessionAndStampsLastLogin(t *testing.T) {
	svc, r, mr := newSessionService(t)

	u, pair, err := svc.Login(context.Background(), "ada@EXAMPLE.com", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	require.NotNil(t, u.LastLogin)

	stored, err := r.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLogin)

	claims, err := svc.JWT.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, claims.SessionID, mr.HGet(SessionKey(u.ID), "sid"))
	assert.Equal(t, "Ada Lovelace", mr.HGet(SessionKey(u.ID), "name"))
	assert.True(t, mr.TTL(SessionKey(u.ID)) > 0)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newSessionService(t)

	_, _, err := svc.Login(context.Background(), "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, _, mr := newSessionService(t)
	ctx := context.Background()

	u, first, err := svc.Login(ctx, "ada@example.com", "s3cret")
	require.NoError(t, err)

	second, uid, err := svc.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, uid)

	claims, err := svc.JWT.ParseRefreshToken(second.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, claims.SessionID, mr.HGet(SessionKey(u.ID), "sid"))

	// the old refresh token no longer matches the stored sid
	_, _, err = svc.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc, _, _ := newSessionService(t)
	_, _, err := svc.Refresh(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutDropsSession(t *testing.T) {
	svc, _, mr := newSessionService(t)
	ctx := context.Background()

	u, pair, err := svc.Login(ctx, "ada@example.com", "s3cret")
	require.NoError(t, err)
	require.True(t, mr.Exists(SessionKey(u.ID)))

	require.NoError(t, svc.Logout(ctx, u.ID))
	assert.False(t, mr.Exists(SessionKey(u.ID)))

	_, _, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfileRefreshesSessionAndCounts(t *testing.T) {
	svc, r, mr := newSessionService(t)
	ctx := context.Background()

	u, _, err := svc.Login(ctx, "ada@example.com", "s3cret")
	require.NoError(t, err)
	r.addPost(u.ID, "p1")
	r.addPost(u.ID, "p2")
	r.like(u.ID, "p9")

	name := "Augusta"
	updated, err := svc.UpdateProfile(ctx, u.ID, dto.UpdateUserRequest{FirstName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Augusta", updated.FirstName)
	assert.Equal(t, "ada@example.com", updated.Email)
	assert.Equal(t, 2, updated.PostsCount)
	assert.Equal(t, 1, updated.LikedPostsCount)
	assert.Equal(t, "Augusta Lovelace", mr.HGet(SessionKey(u.ID), "name"))
}

func TestUpdateProfileValidates(t *testing.T) {
	svc, _, _ := newSessionService(t)
	u, _, err := svc.Login(context.Background(), "ada@example.com", "s3cret")
	require.NoError(t, err)

	bad := "1990/01/01"
	_, err = svc.UpdateProfile(context.Background(), u.ID, dto.UpdateUserRequest{DateOfBirth: &bad})
	ve := asValidation(t, err)
	assert.NotEmpty(t, ve.On("date_of_birth"))
}

func TestLoginSurfacesRepositoryOutage(t *testing.T) {
	svc, r, _ := newSessionService(t)
	outage := errors.New("connection refused")
	r.emailErr = outage

	_, _, err := svc.Login(context.Background(), "ada@example.com", "s3cret")
	require.Error(t, err)
	assert.ErrorIs(t, err, outage)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetProfileNotFound(t *testing.T) {
	r := newMemRepo()
	svc := NewService(Deps{Repo: r})

	_, err := svc.GetProfile(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Equal(t, 1, r.lookups)
}

func TestGetProfileMalformedID(t *testing.T) {
	r := newMemRepo()
	svc := NewService(Deps{Repo: r})

	for _, id := range []string{"abc", "", "42", "00000000-0000-0000-0000-00000000000z"} {
		_, err := svc.GetProfile(context.Background(), id)
		assert.ErrorIs(t, err, ErrUserNotFound, id)
	}
	assert.Zero(t, r.lookups)
}

func TestUploadAvatarWithoutStorage(t *testing.T) {
	svc, _, _ := newSessionService(t)
	u, _, err := svc.Login(context.Background(), "ada@example.com", "s3cret")
	require.NoError(t, err)

	_, err = svc.UploadAvatar(context.Background(), u.ID, nil, "a.png", "image/png")
	var se *ServiceUnavailableError
	assert.ErrorAs(t, err, &se)
}

func TestSearchUsersWithoutIndex(t *testing.T) {
	out, err := NewService(Deps{Repo: newMemRepo()}).SearchUsers(context.Background(), "ada", 5)
	require.NoError(t, err)
	assert.Empty(t, out)
}
